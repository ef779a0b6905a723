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

package throttle

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/juju/ratelimit"

	"github.com/TheCacophonyProject/organic-motion/motion"
)

func NewThrottledListener(
	base motion.Listener,
	config *ThrottlerConfig,
	onThrottle ThrottledEventListener,
) *ThrottledListener {
	return NewThrottledListenerWithClock(base, config, onThrottle, new(realClock))
}

func NewThrottledListenerWithClock(
	base motion.Listener,
	config *ThrottlerConfig,
	onThrottle ThrottledEventListener,
	clock ratelimit.Clock,
) *ThrottledListener {
	// The token bucket tracks the number of motion notifications available.
	refillRate := 1 / config.RefillInterval.Seconds()
	bucket := ratelimit.NewBucketWithRateAndClock(refillRate, int64(config.BucketSize), clock)

	if onThrottle == nil {
		onThrottle = new(nullListener)
	}

	return &ThrottledListener{
		listener:   base,
		onThrottle: onThrottle,
		bucket:     bucket,
		passed:     make(map[uuid.UUID]bool),
	}
}

// ThrottledListener wraps a motion listener so that it stops being told
// about new motion (ie gets throttled) if motion starts too often. This
// happens when a branch is swaying in the wind or the lighting keeps
// flickering, and the extra notifications carry no new information.
type ThrottledListener struct {
	listener   motion.Listener
	onThrottle ThrottledEventListener
	bucket     *ratelimit.Bucket
	passed     map[uuid.UUID]bool
	throttled  int
}

type ThrottledEventListener interface {
	WhenThrottled()
}

type nullListener struct{}

func (lis *nullListener) WhenThrottled() {}

func (throttler *ThrottledListener) MotionStarted(id uuid.UUID) {
	if throttler.bucket.TakeAvailable(1) == 0 {
		throttler.throttled++
		log.Printf("motion notification throttled (%d so far)", throttler.throttled)
		throttler.onThrottle.WhenThrottled()
		return
	}
	throttler.passed[id] = true
	throttler.listener.MotionStarted(id)
}

// MotionEnded is only passed on for motion whose start was passed on.
func (throttler *ThrottledListener) MotionEnded(id uuid.UUID) {
	if !throttler.passed[id] {
		return
	}
	delete(throttler.passed, id)
	throttler.listener.MotionEnded(id)
}

func (throttler *ThrottledListener) Throttled() int {
	return throttler.throttled
}

// realClock implements ratelimit.Clock in terms of standard time functions.
type realClock struct{}

// Now implements Clock.Now by calling time.Now.
func (realClock) Now() time.Time {
	return time.Now()
}

// Sleep implements Clock.Sleep by calling time.Sleep.
func (realClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
