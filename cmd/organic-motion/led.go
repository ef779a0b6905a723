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
	"log"

	"github.com/google/uuid"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"

	"github.com/TheCacophonyProject/organic-motion/motion"
)

// LED lights a GPIO pin while motion is detected. A nil LED does nothing.
type LED struct {
	pin gpio.PinIO
}

// NewLED returns nil when pinName is empty. host.Init must have been called.
func NewLED(pinName string) (*LED, error) {
	if pinName == "" {
		return nil, nil
	}
	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, fmt.Errorf("unknown LED pin %q", pinName)
	}
	led := &LED{pin: pin}
	led.set(gpio.Low)
	return led, nil
}

func (l *LED) MotionStarted(uuid.UUID) {
	l.set(gpio.High)
}

func (l *LED) MotionEnded(uuid.UUID) {
	l.set(gpio.Low)
}

func (l *LED) set(level gpio.Level) {
	if l == nil {
		return
	}
	if err := l.pin.Out(level); err != nil {
		log.Printf("failed to set LED pin %s: %v", l.pin, err)
	}
}

// Listeners passes each transition on to every listener in turn.
type Listeners []motion.Listener

func (ls Listeners) MotionStarted(id uuid.UUID) {
	for _, l := range ls {
		l.MotionStarted(id)
	}
}

func (ls Listeners) MotionEnded(id uuid.UUID) {
	for _, l := range ls {
		l.MotionEnded(id)
	}
}
