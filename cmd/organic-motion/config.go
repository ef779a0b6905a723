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
	"log"
	"os"
	"time"

	goconfig "github.com/TheCacophonyProject/go-config"
	"github.com/TheCacophonyProject/window"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/TheCacophonyProject/organic-motion/motion"
	"github.com/TheCacophonyProject/organic-motion/throttle"
)

type Config struct {
	FrameInput   string                   `yaml:"frame-input"`
	LogInterval  time.Duration            `yaml:"log-interval"`
	Motion       motion.MotionConfig      `yaml:"motion"`
	Throttler    throttle.ThrottlerConfig `yaml:"throttler"`
	LEDs         LEDConfig                `yaml:"leds"`
	DeviceName   string                   `yaml:"-"`
	WindowStart  string                   `yaml:"-"`
	WindowEnd    string                   `yaml:"-"`
	Latitude     float64                  `yaml:"-"`
	Longitude    float64                  `yaml:"-"`
	detectWindow *window.Window
}

type LEDConfig struct {
	Motion string `yaml:"motion"`
}

var defaultConfig = Config{
	FrameInput:  "/var/run/organic-motion-frames",
	LogInterval: 5 * time.Minute,
	Motion:      motion.DefaultMotionConfig(),
	Throttler:   throttle.DefaultThrottlerConfig(),
}

func (conf *Config) Validate() error {
	if conf.FrameInput == "" {
		return errors.New("frame-input must be set")
	}
	if conf.LogInterval <= 0 {
		return errors.New("log-interval should be positive")
	}
	if err := conf.Motion.Validate(); err != nil {
		return errors.Wrap(err, "motion")
	}
	if err := conf.Throttler.Validate(); err != nil {
		return errors.Wrap(err, "throttler")
	}
	return nil
}

// Window returns the detection window built from the device settings. It is
// nil when no device settings were loaded.
func (conf *Config) Window() *window.Window {
	return conf.detectWindow
}

// ParseConfigFiles reads the detector's own settings from filename and the
// shared device settings from configDir. A missing detector file means
// defaults; configDir may be empty to skip device settings.
func ParseConfigFiles(filename, configDir string) (*Config, error) {
	buf, err := os.ReadFile(filename)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "reading %s", filename)
	}
	conf, err := ParseConfig(buf)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", filename)
	}
	if configDir == "" {
		return conf, nil
	}
	if err := conf.loadDeviceSettings(configDir); err != nil {
		return nil, errors.Wrapf(err, "loading device settings from %s", configDir)
	}
	return conf, nil
}

func ParseConfig(buf []byte) (*Config, error) {
	conf := defaultConfig
	if err := yaml.Unmarshal(buf, &conf); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

func (conf *Config) loadDeviceSettings(configDir string) error {
	configRW, err := goconfig.New(configDir)
	if err != nil {
		return err
	}

	var device goconfig.Device
	if err := configRW.Unmarshal(goconfig.DeviceKey, &device); err != nil {
		return err
	}
	windowsConfig := goconfig.DefaultWindows()
	if err := configRW.Unmarshal(goconfig.WindowsKey, &windowsConfig); err != nil {
		return err
	}
	locationConfig := goconfig.DefaultWindowLocation()
	if err := configRW.Unmarshal(goconfig.LocationKey, &locationConfig); err != nil {
		return err
	}

	conf.DeviceName = device.Name
	conf.WindowStart = windowsConfig.StartRecording
	conf.WindowEnd = windowsConfig.StopRecording
	conf.Latitude = float64(locationConfig.Latitude)
	conf.Longitude = float64(locationConfig.Longitude)
	return conf.buildWindow()
}

func (conf *Config) buildWindow() error {
	w, err := window.New(conf.WindowStart, conf.WindowEnd, conf.Latitude, conf.Longitude)
	if err != nil {
		return errors.Wrap(err, "detection window")
	}
	conf.detectWindow = w
	return nil
}

func logConfig(conf *Config) {
	if conf.DeviceName != "" {
		log.Printf("device name: %s", conf.DeviceName)
	}
	log.Printf("frame input: %s", conf.FrameInput)
	log.Printf("motion: %+v", conf.Motion)
	log.Printf("throttler: %+v", conf.Throttler)
	if conf.LEDs.Motion != "" {
		log.Printf("motion LED pin: %s", conf.LEDs.Motion)
	}
	if w := conf.detectWindow; w != nil && !w.NoWindow {
		log.Printf("detection window: %s to %s", conf.WindowStart, conf.WindowEnd)
	}
}
