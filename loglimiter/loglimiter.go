// organic-motion - detect organic motion in grayscale video frames
// Copyright (C) 2019, The Cacophony Project
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

// Package loglimiter stops a camera producing a bad frame every 100ms from
// flooding the log with the same message.
package loglimiter

import (
	"fmt"
	"log"
	"time"
)

// New returns a LogLimiter writing to the standard logger.
func New(interval time.Duration) *LogLimiter {
	return NewWithOutput(interval, log.Print)
}

// NewWithOutput returns a LogLimiter writing through output. A nil output
// discards everything.
func NewWithOutput(interval time.Duration, output func(v ...interface{})) *LogLimiter {
	if output == nil {
		output = func(...interface{}) {}
	}
	return &LogLimiter{
		interval: interval,
		output:   output,
		nowFunc:  time.Now,
	}
}

// LogLimiter will suppress log messages if the same log message is
// seen within some time interval. When a suppressed message is let
// through again the number of copies that were dropped is appended.
type LogLimiter struct {
	interval      time.Duration
	output        func(v ...interface{})
	nowFunc       func() time.Time
	previousEntry string
	previousTime  time.Time
	suppressed    int
}

func (limiter *LogLimiter) Printf(format string, v ...interface{}) {
	limiter.Print(fmt.Sprintf(format, v...))
}

func (limiter *LogLimiter) Print(s string) {
	now := limiter.nowFunc()
	if s == limiter.previousEntry {
		if now.Sub(limiter.previousTime) < limiter.interval {
			limiter.suppressed++
			return
		}
		if limiter.suppressed > 0 {
			limiter.output(fmt.Sprintf("%s (suppressed %d)", s, limiter.suppressed))
			limiter.previousTime = now
			limiter.suppressed = 0
			return
		}
	}

	limiter.output(s)
	limiter.previousTime = now
	limiter.previousEntry = s
	limiter.suppressed = 0
}

// Suppressed returns how many copies of the last message have been dropped
// since it was last written.
func (limiter *LogLimiter) Suppressed() int {
	return limiter.suppressed
}
