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

import "errors"

// ErrEmptyAverage is returned when averaging a RollingAverage that has
// never been pushed to.
var ErrEmptyAverage = errors.New("average of empty rolling average")

// Number is any sample type a RollingAverage can hold.
type Number interface {
	~int | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~float32 | ~float64
}

// RollingAverage keeps the last n samples in a loop that will be
// overwritten when full.
type RollingAverage[T Number] struct {
	samples []T
	next    int
	count   int
}

func NewRollingAverage[T Number](size int) *RollingAverage[T] {
	if size < 1 {
		size = 1
	}
	return &RollingAverage[T]{
		samples: make([]T, size),
	}
}

// Push stores v, replacing the oldest sample once the buffer is full.
func (ra *RollingAverage[T]) Push(v T) {
	ra.samples[ra.next] = v
	ra.next = (ra.next + 1) % len(ra.samples)
	if ra.count < len(ra.samples) {
		ra.count++
	}
}

// Average returns the mean of the samples currently held. Cells that have
// not been written yet do not contribute.
func (ra *RollingAverage[T]) Average() (float64, error) {
	if ra.count == 0 {
		return 0, ErrEmptyAverage
	}
	var sum float64
	for _, v := range ra.samples[:ra.count] {
		sum += float64(v)
	}
	return sum / float64(ra.count), nil
}

func (ra *RollingAverage[T]) Len() int {
	return ra.count
}

func (ra *RollingAverage[T]) Cap() int {
	return len(ra.samples)
}

func (ra *RollingAverage[T]) Reset() {
	ra.next = 0
	ra.count = 0
}
