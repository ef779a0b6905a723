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
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/juju/ratelimit"
	"github.com/stretchr/testify/assert"
)

const (
	bucketSize     = 3
	refillInterval = 20 * time.Second
)

func newTestConfig() *ThrottlerConfig {
	return &ThrottlerConfig{
		ApplyThrottling: true,
		BucketSize:      bucketSize,
		RefillInterval:  refillInterval,
	}
}

type countingListener struct {
	started int
	ended   int
}

func (l *countingListener) MotionStarted(uuid.UUID) { l.started++ }
func (l *countingListener) MotionEnded(uuid.UUID)   { l.ended++ }

type throttleListener struct {
	events int
}

func (tc *throttleListener) WhenThrottled() {
	tc.events++
}

func newTestThrottledListener() (*countingListener, *throttleListener, *ThrottledListener, *testClock) {
	clock := new(testClock)
	base := new(countingListener)
	listener := new(throttleListener)
	return base, listener, NewThrottledListenerWithClock(base, newTestConfig(), listener, clock), clock
}

func motionEpisodes(throttler *ThrottledListener, episodes int) {
	for i := 0; i < episodes; i++ {
		id := uuid.New()
		throttler.MotionStarted(id)
		throttler.MotionEnded(id)
	}
}

func TestOnlyNotifiesUntilBucketIsEmpty(t *testing.T) {
	base, listener, throttler, _ := newTestThrottledListener()

	motionEpisodes(throttler, bucketSize+2)
	assert.Equal(t, bucketSize, base.started)
	assert.Equal(t, bucketSize, base.ended)
	assert.Equal(t, 2, listener.events)
	assert.Equal(t, 2, throttler.Throttled())
}

func TestBucketRefills(t *testing.T) {
	base, _, throttler, clock := newTestThrottledListener()

	motionEpisodes(throttler, bucketSize)
	motionEpisodes(throttler, 1)
	assert.Equal(t, bucketSize, base.started)

	clock.Sleep(refillInterval)
	motionEpisodes(throttler, 2)
	assert.Equal(t, bucketSize+1, base.started)
}

func TestEndOfThrottledMotionNotPassedOn(t *testing.T) {
	base, _, throttler, _ := newTestThrottledListener()
	motionEpisodes(throttler, bucketSize)

	id := uuid.New()
	throttler.MotionStarted(id)
	throttler.MotionEnded(id)
	assert.Equal(t, bucketSize, base.ended)
}

func TestNilThrottleListener(t *testing.T) {
	base := new(countingListener)
	throttler := NewThrottledListenerWithClock(base, newTestConfig(), nil, new(testClock))
	motionEpisodes(throttler, bucketSize+1)
	assert.Equal(t, bucketSize, base.started)
}

func TestConfigValidation(t *testing.T) {
	conf := DefaultThrottlerConfig()
	assert.NoError(t, conf.Validate())

	conf.BucketSize = 0
	assert.EqualError(t, conf.Validate(), "bucket-size should be at least 1")

	conf.ApplyThrottling = false
	assert.NoError(t, conf.Validate())
}

var _ ratelimit.Clock = new(realClock)
var _ ratelimit.Clock = new(testClock)

// testClock implements a fake ratelimit.Clock for testing.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
}
