// organic-motion - detect organic motion in grayscale video frames
//  Copyright (C) 2020, The Cacophony Project
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

package motion

import (
	"fmt"
	"log"
	"time"

	"github.com/TheCacophonyProject/window"
	"github.com/google/uuid"

	"github.com/TheCacophonyProject/organic-motion/loglimiter"
)

const minLogInterval = time.Minute

type Result int

const (
	MotionNotDetected Result = iota
	MotionDetected
)

func (r Result) String() string {
	if r == MotionDetected {
		return "MOTION_DETECTED"
	}
	return "MOTION_NOT_DETECTED"
}

// Listener is told when the verdict changes. Each stretch of detected
// frames gets its own id.
type Listener interface {
	MotionStarted(id uuid.UUID)
	MotionEnded(id uuid.UUID)
}

// Stats is a snapshot of a Detector's counters and most recent values.
// ChangedCells is only meaningful when HasCount is set, which needs the
// latest analysed frame to have been compared with a previous one.
type Stats struct {
	FramesReceived  int
	FramesAnalysed  int
	FramesSkipped   int
	Faults          int
	MotionFrames    int
	Episodes        int
	Counter         int
	ChangedCells    int
	HasCount        bool
	Threshold       float64
	AverageInterval time.Duration
	Motion          bool
	EpisodeID       string
}

// NewDetector builds the full pipeline. listener and w may be nil; without
// a window motion is reported at any time of day.
func NewDetector(conf MotionConfig, listener Listener, w *window.Window) (*Detector, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	d := &Detector{
		conf:       conf,
		throttle:   NewFrameThrottle(conf),
		comparator: NewImageComparator(conf),
		hysteresis: NewHysteresis(conf),
		listener:   listener,
		window:     w,
		log:        loglimiter.New(minLogInterval),
		nowFunc:    time.Now,
	}
	if conf.Verbose {
		d.tracker = NewTracker()
	}
	return d, nil
}

// Detector runs each frame through the throttle, sampler, comparator and
// hysteresis filter. It is not safe for concurrent use.
type Detector struct {
	conf       MotionConfig
	throttle   *FrameThrottle
	comparator *ImageComparator
	hysteresis *Hysteresis
	listener   Listener
	window     *window.Window
	log        *loglimiter.LogLimiter
	tracker    *Tracker
	nowFunc    func() time.Time

	last      Result
	episodeID uuid.UUID
	stats     Stats
}

// Process analyses frame and returns the motion verdict. Frames dropped by
// the throttle repeat the previous verdict. Analysis faults are logged and
// reported as no motion.
func (d *Detector) Process(frame *Frame) Result {
	return d.ProcessAt(frame, d.nowFunc())
}

// ProcessAt is Process for a frame that arrived at the given time, as when
// replaying a recording faster than it was captured.
func (d *Detector) ProcessAt(frame *Frame, arrived time.Time) Result {
	var began time.Time
	if d.conf.Verbose {
		began = time.Now()
	}
	d.stats.FramesReceived++
	if !d.throttle.Admit(arrived) {
		d.stats.FramesSkipped++
		return d.last
	}
	d.stats.FramesAnalysed++
	d.stats.ChangedCells = 0
	d.stats.HasCount = false

	detected, err := d.analyse(frame)
	if err != nil {
		d.stats.Faults++
		d.log.Printf("frame not analysed: %v", err)
		detected = false
	}
	if detected && d.window != nil && !d.window.Active() {
		d.log.Print("motion detected but outside of detection window")
		detected = false
	}

	result := MotionNotDetected
	if detected {
		result = MotionDetected
		d.stats.MotionFrames++
	}
	d.transition(result)

	if d.conf.Verbose {
		took := time.Since(began)
		d.tracker.Observe("took-us", float64(took.Microseconds()))
		log.Printf("%s took %v, average interval %v, counter %d",
			result, took, d.throttle.AverageInterval(), d.hysteresis.Counter())
	}
	return result
}

func (d *Detector) analyse(frame *Frame) (detected bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("analysis failed: %v", r)
		}
	}()

	grid, err := Sample(frame, d.conf.SampleCount)
	if err != nil {
		return false, err
	}
	if err := d.comparator.AddImage(grid); err != nil {
		return false, err
	}
	count, ok := d.comparator.ChangedCellCount()
	if ok {
		d.stats.ChangedCells = count
		d.stats.HasCount = true
		d.tracker.Observe("changed", float64(count))
	}
	if threshold, ok := d.comparator.Threshold(); ok {
		d.stats.Threshold = threshold
		d.tracker.Observe("threshold", threshold)
	}
	return d.hysteresis.Update(count, ok), nil
}

func (d *Detector) transition(result Result) {
	if result == d.last {
		return
	}
	d.last = result
	if result == MotionDetected {
		d.episodeID = uuid.New()
		d.stats.Episodes++
		if d.listener != nil {
			d.listener.MotionStarted(d.episodeID)
		}
		return
	}
	if d.listener != nil {
		d.listener.MotionEnded(d.episodeID)
	}
	d.episodeID = uuid.Nil
}

// End closes any motion episode in progress. Call it when the frame source
// goes away.
func (d *Detector) End() {
	d.transition(MotionNotDetected)
}

// Last returns the most recent verdict.
func (d *Detector) Last() Result {
	return d.last
}

func (d *Detector) Stats() Stats {
	s := d.stats
	s.Counter = d.hysteresis.Counter()
	s.AverageInterval = d.throttle.AverageInterval()
	s.Motion = d.last == MotionDetected
	if s.Motion {
		s.EpisodeID = d.episodeID.String()
	}
	return s
}

// Summary formats the verbose tracking figures; empty unless Verbose is set.
func (d *Detector) Summary() string {
	return d.tracker.Format("changed:all threshold:avg took-us:avg")
}
