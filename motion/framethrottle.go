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

import "time"

func NewFrameThrottle(args MotionConfig) *FrameThrottle {
	return &FrameThrottle{
		target:    args.TargetInterval,
		intervals: NewRollingAverage[float64](args.IntervalHistory),
	}
}

// FrameThrottle drops every other frame when frames arrive faster than the
// target interval so that analysis runs at a roughly fixed rate.
type FrameThrottle struct {
	target      time.Duration
	intervals   *RollingAverage[float64]
	frameCount  uint64
	lastArrival time.Time
}

// Admit records a frame arriving at now and reports whether it should be
// analysed.
func (ft *FrameThrottle) Admit(now time.Time) bool {
	ft.frameCount++
	if !ft.lastArrival.IsZero() {
		ft.intervals.Push(float64(now.Sub(ft.lastArrival)) / float64(time.Millisecond))
	}
	ft.lastArrival = now

	avg, err := ft.intervals.Average()
	if err != nil {
		return true
	}
	fast := avg < float64(ft.target)/float64(time.Millisecond)
	return !(fast && ft.frameCount%2 == 0)
}

// AverageInterval returns the smoothed time between frame arrivals.
func (ft *FrameThrottle) AverageInterval() time.Duration {
	avg, err := ft.intervals.Average()
	if err != nil {
		return 0
	}
	return time.Duration(avg * float64(time.Millisecond))
}
