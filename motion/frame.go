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
	"errors"
	"fmt"
	"math"
)

// Rotation is the orientation metadata supplied with a frame by the
// capture layer. The sampler does not rotate pixels.
type Rotation int

const (
	Rotation0   Rotation = 0
	Rotation90  Rotation = 90
	Rotation180 Rotation = 180
	Rotation270 Rotation = 270
)

// Frame is a single grayscale image, one byte per pixel in row-major order.
// Pix may be longer than Width*Height; trailing bytes are ignored.
type Frame struct {
	Width    int
	Height   int
	Pix      []byte
	Rotation Rotation
}

// Grid is a downsampled frame: one intensity per sampling point, row-major.
type Grid []int

// OrientationError is returned when a frame is not in landscape orientation.
type OrientationError struct {
	Width  int
	Height int
}

func (e *OrientationError) Error() string {
	return fmt.Sprintf("frame must be landscape, got %dx%d", e.Width, e.Height)
}

var errBadSampleCount = errors.New("sample count must be at least 1")

// Sample reduces frame to a grid of floor(sqrt(targetSampleCount))^2 points
// by reading one pixel from the centre of each stride cell.
func Sample(frame *Frame, targetSampleCount int) (Grid, error) {
	if frame.Width <= frame.Height {
		return nil, &OrientationError{Width: frame.Width, Height: frame.Height}
	}
	if frame.Height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", frame.Width, frame.Height)
	}
	if len(frame.Pix) < frame.Width*frame.Height {
		return nil, fmt.Errorf("frame buffer has %d bytes, need %d", len(frame.Pix), frame.Width*frame.Height)
	}
	if targetSampleCount < 1 {
		return nil, errBadSampleCount
	}

	steps := int(math.Sqrt(float64(targetSampleCount)))
	stepX := frame.Width / steps
	stepY := frame.Height / steps
	if stepY == 0 {
		return nil, fmt.Errorf("frame %dx%d too small for %d samples", frame.Width, frame.Height, steps*steps)
	}

	grid := make(Grid, 0, steps*steps)
	for row := 0; row < steps; row++ {
		y := row*stepY + stepY/2
		for col := 0; col < steps; col++ {
			x := col*stepX + stepX/2
			grid = append(grid, int(frame.Pix[y*frame.Width+x]))
		}
	}
	return grid, nil
}
