// organic-motion - detect organic motion in grayscale video frames
// Copyright (C) 2020, The Cacophony Project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.
package main

import (
	"bufio"
	"io"
	"log"
	"net"
	"os"
	"time"

	goconfig "github.com/TheCacophonyProject/go-config"
	arg "github.com/alexflint/go-arg"
	"github.com/coreos/go-systemd/daemon"
	"github.com/pkg/errors"
	"periph.io/x/periph/host"

	"github.com/TheCacophonyProject/organic-motion/headers"
	"github.com/TheCacophonyProject/organic-motion/motion"
	"github.com/TheCacophonyProject/organic-motion/source"
	"github.com/TheCacophonyProject/organic-motion/throttle"
)

const watchdogInterval = 5 * time.Second

var version = "<not set>"

type Args struct {
	ConfigFile   string `arg:"-c,--config" help:"path to configuration file"`
	ConfigDir    string `arg:"-d,--config-dir" help:"path to device configuration directory"`
	Timestamps   bool   `arg:"-t,--timestamps" help:"include timestamps in log output"`
	TestCptvFile string `arg:"-f,--testfile" help:"run a CPTV file through the detector and report the results"`
	Verbose      bool   `arg:"-v,--verbose" help:"make logging more verbose"`
}

func (Args) Version() string {
	return version
}

func procArgs() Args {
	var args Args
	args.ConfigFile = "/etc/organic-motion.yaml"
	args.ConfigDir = goconfig.DefaultConfigDir
	arg.MustParse(&args)
	return args
}

func main() {
	err := runMain()
	if err != nil {
		log.Fatal(err)
	}
}

func runMain() error {
	args := procArgs()

	if !args.Timestamps {
		log.SetFlags(0) // Removes default timestamp flag
	}

	log.Printf("running version: %s", version)

	if args.TestCptvFile != "" {
		// Playback runs off the device, so only the detector settings apply.
		conf, err := ParseConfigFiles(args.ConfigFile, "")
		if err != nil {
			return err
		}
		conf.Motion.Verbose = args.Verbose
		report, err := Playback(conf, args.TestCptvFile)
		if err != nil {
			return err
		}
		log.Print(report)
		return nil
	}

	conf, err := ParseConfigFiles(args.ConfigFile, args.ConfigDir)
	if err != nil {
		return err
	}
	conf.Motion.Verbose = conf.Motion.Verbose || args.Verbose
	logConfig(conf)

	log.Println("starting d-bus service")
	service, err := startService()
	if err != nil {
		return err
	}

	log.Println("host initialisation")
	if _, err := host.Init(); err != nil {
		return err
	}
	led, err := NewLED(conf.LEDs.Motion)
	if err != nil {
		return err
	}

	daemon.SdNotify(false, "READY=1")

	for {
		// Set up listener for frames sent by the camera.
		os.Remove(conf.FrameInput)
		listener, err := net.Listen("unix", conf.FrameInput)
		if err != nil {
			return err
		}
		log.Print("waiting for camera connection")

		conn, err := listener.Accept()
		if err != nil {
			log.Printf("socket accept failed: %v", err)
			continue
		}

		// Prevent concurrent connections.
		listener.Close()

		err = handleConn(conn, conf, service, led)
		log.Printf("camera connection ended with: %v", err)
	}
}

func handleConn(conn net.Conn, conf *Config, service *service, led *LED) error {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	camera, err := headers.ReadHeaderInfo(reader)
	if err != nil {
		return err
	}
	log.Printf("connection from %s", camera)

	var listener motion.Listener = Listeners{service, led}
	if conf.Throttler.ApplyThrottling {
		listener = throttle.NewThrottledListener(listener, &conf.Throttler, nil)
	}
	detector, err := motion.NewDetector(conf.Motion, listener, conf.Window())
	if err != nil {
		return err
	}
	defer func() {
		detector.End()
		service.update(detector.Stats())
	}()

	src := source.NewStreamSource(reader, camera)
	return runDetector(src, detector, service, conf.LogInterval)
}

// runDetector feeds frames from src to detector until src fails.
func runDetector(src source.Source, detector *motion.Detector, service *service, logInterval time.Duration) error {
	var frame motion.Frame
	lastNotify := time.Now()
	lastLog := time.Now()
	for {
		if err := src.Next(&frame); err != nil {
			if err == io.EOF {
				return errors.New("camera closed the connection")
			}
			return err
		}
		detector.Process(&frame)
		service.update(detector.Stats())

		now := time.Now()
		if now.Sub(lastNotify) >= watchdogInterval {
			daemon.SdNotify(false, "WATCHDOG=1")
			lastNotify = now
		}
		if now.Sub(lastLog) >= logInterval {
			logStats(detector.Stats())
			if summary := detector.Summary(); summary != "" {
				log.Print(summary)
			}
			lastLog = now
		}
	}
}

func logStats(s motion.Stats) {
	log.Printf("%d frames received, %d analysed, %d skipped, %d faults, %d motion episodes",
		s.FramesReceived, s.FramesAnalysed, s.FramesSkipped, s.Faults, s.Episodes)
}
