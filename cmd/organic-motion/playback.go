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
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/TheCacophonyProject/organic-motion/motion"
	"github.com/TheCacophonyProject/organic-motion/source"
)

// rangeRecorder notes the frame numbers where motion starts and ends.
type rangeRecorder struct {
	frameCount int
	verbose    bool
	ranges     string
}

func (r *rangeRecorder) MotionStarted(id uuid.UUID) {
	if r.verbose {
		log.Printf("%d: motion started (%s)", r.frameCount, id)
	}
	r.ranges += fmt.Sprintf("(%d:", r.frameCount)
}

func (r *rangeRecorder) MotionEnded(id uuid.UUID) {
	if r.verbose {
		log.Printf("%d: motion ended (%s)", r.frameCount, id)
	}
	r.ranges += fmt.Sprintf("%d)", r.frameCount)
}

func (r *rangeRecorder) completed() string {
	if strings.HasSuffix(r.ranges, ":") {
		return r.ranges + "end)"
	}
	if r.ranges == "" {
		return "None"
	}
	return r.ranges
}

type PlaybackReport struct {
	Detected       string
	MotionFrames   int
	Frames         int
	Analysed       int
	Skipped        int
	Faults         int
	ChangedMean    float64
	ChangedStdDev  float64
	AnalysisMean   time.Duration
	AnalysisStdDev time.Duration
}

func (r *PlaybackReport) String() string {
	return fmt.Sprintf("Detected: %-16s Motion frames: %d/%d  Skipped: %d  Faults: %d  Changed cells: %.2f±%.2f  Analysis: %v±%v",
		r.Detected, r.MotionFrames, r.Frames, r.Skipped, r.Faults,
		r.ChangedMean, r.ChangedStdDev, r.AnalysisMean, r.AnalysisStdDev)
}

// Playback runs a CPTV recording through a detector configured by conf.
func Playback(conf *Config, filename string) (*PlaybackReport, error) {
	if conf.Motion.Verbose {
		log.Printf("test file is %s", filename)
	}
	src, err := source.OpenCPTV(filename)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return play(src, conf.Motion, source.LeptonCamera.FPS())
}

// play replays src as if frames arrived at fps.
func play(src source.Source, conf motion.MotionConfig, fps int) (*PlaybackReport, error) {
	recorder := &rangeRecorder{verbose: conf.Verbose}
	detector, err := motion.NewDetector(conf, recorder, nil)
	if err != nil {
		return nil, err
	}

	frameInterval := time.Second / time.Duration(fps)
	arrived := time.Now()
	var changed, took []float64
	var frame motion.Frame
	for {
		err := src.Next(&frame)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "after %d frames", recorder.frameCount)
		}

		analysed := detector.Stats().FramesAnalysed
		began := time.Now()
		detector.ProcessAt(&frame, arrived)
		elapsed := time.Since(began)

		stats := detector.Stats()
		if stats.FramesAnalysed > analysed && stats.HasCount {
			changed = append(changed, float64(stats.ChangedCells))
			took = append(took, float64(elapsed))
		}
		recorder.frameCount++
		arrived = arrived.Add(frameInterval)
	}

	stats := detector.Stats()
	report := &PlaybackReport{
		Detected:     recorder.completed(),
		MotionFrames: stats.MotionFrames,
		Frames:       recorder.frameCount,
		Analysed:     stats.FramesAnalysed,
		Skipped:      stats.FramesSkipped,
		Faults:       stats.Faults,
	}
	if len(changed) > 1 {
		report.ChangedMean, report.ChangedStdDev = stat.MeanStdDev(changed, nil)
		mean, std := stat.MeanStdDev(took, nil)
		report.AnalysisMean = time.Duration(mean)
		report.AnalysisStdDev = time.Duration(std)
	}
	if conf.Verbose {
		if summary := detector.Summary(); summary != "" {
			log.Print(summary)
		}
	}
	return report, nil
}
