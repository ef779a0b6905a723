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
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCacophonyProject/organic-motion/motion"
)

type countingListener struct {
	started, ended int
}

func (l *countingListener) MotionStarted(uuid.UUID) { l.started++ }
func (l *countingListener) MotionEnded(uuid.UUID)   { l.ended++ }

func TestServiceReportsLatestStats(t *testing.T) {
	s := new(service)
	api := dbusAPI{s}

	detected, dbusErr := api.MotionDetected()
	require.Nil(t, dbusErr)
	assert.False(t, detected)

	s.update(motion.Stats{
		FramesReceived:  10,
		FramesAnalysed:  6,
		FramesSkipped:   4,
		Episodes:        1,
		Counter:         5,
		Threshold:       1.5,
		AverageInterval: 120 * time.Millisecond,
		Motion:          true,
	})

	detected, dbusErr = api.MotionDetected()
	require.Nil(t, dbusErr)
	assert.True(t, detected)

	stats, dbusErr := api.Stats()
	require.Nil(t, dbusErr)
	assert.Equal(t, int64(10), stats["frames-received"])
	assert.Equal(t, int64(4), stats["frames-skipped"])
	assert.Equal(t, int64(5), stats["counter"])
	assert.Equal(t, int64(1500), stats["threshold-milli"])
	assert.Equal(t, int64(120), stats["average-interval-ms"])
}

func TestServiceWithoutBusIgnoresTransitions(t *testing.T) {
	s := new(service)
	s.MotionStarted(uuid.New())
	s.MotionEnded(uuid.New())
}

func TestListenersFanOut(t *testing.T) {
	a, b := new(countingListener), new(countingListener)
	var led *LED
	ls := Listeners{a, b, led}

	id := uuid.New()
	ls.MotionStarted(id)
	ls.MotionEnded(id)
	ls.MotionStarted(id)

	assert.Equal(t, 2, a.started)
	assert.Equal(t, 1, a.ended)
	assert.Equal(t, 2, b.started)
}

func TestNoLEDPin(t *testing.T) {
	led, err := NewLED("")
	require.NoError(t, err)
	assert.Nil(t, led)
}

func TestRunDetectorStopsAtEndOfFrames(t *testing.T) {
	s := new(service)
	detector, err := motion.NewDetector(motion.DefaultMotionConfig(), s, nil)
	require.NoError(t, err)

	err = runDetector(flickerRecording(), detector, s, time.Hour)
	assert.EqualError(t, err, "camera closed the connection")
	assert.Equal(t, 21, s.snapshot().FramesReceived)
}
