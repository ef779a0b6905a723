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

// Package source turns camera output into motion.Frames.
package source

import (
	"github.com/TheCacophonyProject/go-cptv/cptvframe"

	"github.com/TheCacophonyProject/organic-motion/motion"
)

// Source produces frames one at a time. Next reuses out's pixel buffer
// where it can.
type Source interface {
	Next(out *motion.Frame) error
}

// ThermalToGray scales a radiometric frame into 8 bit grayscale using the
// frame's own minimum and maximum, so slow drift of the sensor's absolute
// readings is not seen as change.
func ThermalToGray(in *cptvframe.Frame, out *motion.Frame) {
	height := len(in.Pix)
	width := 0
	if height > 0 {
		width = len(in.Pix[0])
	}
	out.Width = width
	out.Height = height
	if cap(out.Pix) < width*height {
		out.Pix = make([]byte, width*height)
	}
	out.Pix = out.Pix[:width*height]

	lo, hi := uint16(0xffff), uint16(0)
	for _, row := range in.Pix {
		for _, v := range row {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}

	span := int(hi) - int(lo)
	for y, row := range in.Pix {
		for x, v := range row {
			var g byte
			if span > 0 {
				g = byte((int(v) - int(lo)) * 255 / span)
			}
			out.Pix[y*width+x] = g
		}
	}
}
