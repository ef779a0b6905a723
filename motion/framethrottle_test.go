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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func admitFrames(ft *FrameThrottle, frames int, interval time.Duration) []bool {
	now := time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)
	admitted := make([]bool, frames)
	for i := range admitted {
		admitted[i] = ft.Admit(now)
		now = now.Add(interval)
	}
	return admitted
}

func TestSlowFramesAllAnalysed(t *testing.T) {
	ft := NewFrameThrottle(DefaultMotionConfig())
	assert.Equal(t, []bool{true, true, true, true, true}, admitFrames(ft, 5, 200*time.Millisecond))
	assert.Equal(t, 200*time.Millisecond, ft.AverageInterval())
}

func TestFastFramesHalved(t *testing.T) {
	ft := NewFrameThrottle(DefaultMotionConfig())
	assert.Equal(t,
		[]bool{true, false, true, false, true, false},
		admitFrames(ft, 6, 33*time.Millisecond))
}

func TestIntervalAtTargetIsNotFast(t *testing.T) {
	ft := NewFrameThrottle(DefaultMotionConfig())
	assert.Equal(t, []bool{true, true, true}, admitFrames(ft, 3, 140*time.Millisecond))
}

func TestThrottleFollowsRateChange(t *testing.T) {
	conf := DefaultMotionConfig()
	conf.IntervalHistory = 2
	ft := NewFrameThrottle(conf)

	admitFrames(ft, 4, 50*time.Millisecond)
	assert.Equal(t, 50*time.Millisecond, ft.AverageInterval())

	now := time.Date(2020, 6, 1, 13, 0, 0, 0, time.UTC)
	ft.Admit(now)
	ft.Admit(now.Add(300 * time.Millisecond))
	assert.True(t, ft.AverageInterval() > conf.TargetInterval)
	assert.True(t, ft.Admit(now.Add(600*time.Millisecond)))
	assert.True(t, ft.Admit(now.Add(900*time.Millisecond)))
}

func TestNoIntervalBeforeSecondFrame(t *testing.T) {
	ft := NewFrameThrottle(DefaultMotionConfig())
	assert.Equal(t, time.Duration(0), ft.AverageInterval())
}
