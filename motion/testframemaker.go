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

import "math"

// TestFrameMaker plays synthetic scenes through a Detector and records the
// verdicts.
type TestFrameMaker struct {
	detector      *Detector
	Width         int
	Height        int
	BackgroundVal int
	BrightSpotVal int
	results       []Result
}

func MakeTestFrameMaker(detector *Detector) *TestFrameMaker {
	return &TestFrameMaker{
		detector:      detector,
		Width:         160,
		Height:        120,
		BackgroundVal: 0,
		BrightSpotVal: 200,
	}
}

// AddBackgroundFrames plays frames of a static scene.
func (tfm *TestFrameMaker) AddBackgroundFrames(frames int) *TestFrameMaker {
	for i := 0; i < frames; i++ {
		tfm.PlayFrame(tfm.makeFrame(0))
	}
	return tfm
}

// AddFlickerFrames plays frames that alternate between a scene with
// brightCells lit sample cells and the plain background, starting with the
// lit scene.
func (tfm *TestFrameMaker) AddFlickerFrames(frames, brightCells int) *TestFrameMaker {
	for i := 0; i < frames; i++ {
		if i%2 == 0 {
			tfm.PlayFrame(tfm.makeFrame(brightCells))
		} else {
			tfm.PlayFrame(tfm.makeFrame(0))
		}
	}
	return tfm
}

func (tfm *TestFrameMaker) PlayFrame(frame *Frame) {
	tfm.results = append(tfm.results, tfm.detector.Process(frame))
}

func (tfm *TestFrameMaker) Results() []Result {
	return tfm.results
}

func (tfm *TestFrameMaker) makeFrame(brightCells int) *Frame {
	steps := int(math.Sqrt(float64(tfm.detector.conf.SampleCount)))
	grid := make(Grid, steps*steps)
	for i := range grid {
		grid[i] = tfm.BackgroundVal
		if i < brightCells {
			grid[i] = tfm.BackgroundVal + tfm.BrightSpotVal
		}
	}
	return FrameFromGrid(tfm.Width, tfm.Height, grid)
}

// FrameFromGrid builds a frame whose stride cells are filled with the grid
// values, so sampling it gives grid back. grid must hold a square number of
// cells.
func FrameFromGrid(width, height int, grid Grid) *Frame {
	steps := int(math.Sqrt(float64(len(grid))))
	stepX := width / steps
	stepY := height / steps
	pix := make([]byte, width*height)
	for row := 0; row < steps; row++ {
		for col := 0; col < steps; col++ {
			v := byte(grid[row*steps+col])
			for y := row * stepY; y < (row+1)*stepY; y++ {
				for x := col * stepX; x < (col+1)*stepX; x++ {
					pix[y*width+x] = v
				}
			}
		}
	}
	return &Frame{Width: width, Height: height, Pix: pix}
}
