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
	"errors"
	"log"
	"math"
	"sync"

	"github.com/godbus/dbus"
	"github.com/godbus/dbus/introspect"
	"github.com/google/uuid"

	"github.com/TheCacophonyProject/organic-motion/motion"
)

const (
	dbusName = "org.cacophony.organicmotion"
	dbusPath = "/org/cacophony/organicmotion"

	motionChangedSignal = dbusName + ".MotionChanged"
)

// service publishes the detector's state on the system bus. It is updated
// from the frame loop and read from D-Bus calls.
type service struct {
	conn  *dbus.Conn
	mu    sync.Mutex
	stats motion.Stats
}

// dbusAPI holds only the methods exported on the bus.
type dbusAPI struct {
	s *service
}

func startService() (*service, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, err
	}
	reply, err := conn.RequestName(dbusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return nil, err
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return nil, errors.New("name already taken")
	}

	s := &service{conn: conn}
	api := dbusAPI{s}
	conn.Export(api, dbusPath, dbusName)
	conn.Export(genIntrospectable(api), dbusPath, "org.freedesktop.DBus.Introspectable")
	return s, nil
}

func genIntrospectable(v interface{}) introspect.Introspectable {
	node := &introspect.Node{
		Interfaces: []introspect.Interface{{
			Name:    dbusName,
			Methods: introspect.Methods(v),
			Signals: []introspect.Signal{{
				Name: "MotionChanged",
				Args: []introspect.Arg{
					{Name: "detected", Type: "b"},
					{Name: "episode", Type: "s"},
				},
			}},
		}},
	}
	return introspect.NewIntrospectable(node)
}

func (s *service) update(stats motion.Stats) {
	s.mu.Lock()
	s.stats = stats
	s.mu.Unlock()
}

func (s *service) snapshot() motion.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *service) MotionStarted(id uuid.UUID) {
	s.emit(true, id)
}

func (s *service) MotionEnded(id uuid.UUID) {
	s.emit(false, id)
}

func (s *service) emit(detected bool, id uuid.UUID) {
	if s.conn == nil {
		return
	}
	if err := s.conn.Emit(dbusPath, motionChangedSignal, detected, id.String()); err != nil {
		log.Printf("failed to emit %s: %v", motionChangedSignal, err)
	}
}

// MotionDetected returns the latest verdict.
func (api dbusAPI) MotionDetected() (bool, *dbus.Error) {
	return api.s.snapshot().Motion, nil
}

// Stats returns the detector's counters.
func (api dbusAPI) Stats() (map[string]int64, *dbus.Error) {
	return statsMap(api.s.snapshot()), nil
}

func statsMap(s motion.Stats) map[string]int64 {
	return map[string]int64{
		"frames-received":     int64(s.FramesReceived),
		"frames-analysed":     int64(s.FramesAnalysed),
		"frames-skipped":      int64(s.FramesSkipped),
		"faults":              int64(s.Faults),
		"motion-frames":       int64(s.MotionFrames),
		"episodes":            int64(s.Episodes),
		"counter":             int64(s.Counter),
		"changed-cells":       int64(s.ChangedCells),
		"threshold-milli":     int64(math.Round(s.Threshold * 1000)),
		"average-interval-ms": s.AverageInterval.Milliseconds(),
	}
}
