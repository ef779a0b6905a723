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
	"sort"
)

var errEmptyGrid = errors.New("grid has no cells")

// NewImageComparator returns a comparator configured from args.
func NewImageComparator(args MotionConfig) *ImageComparator {
	return &ImageComparator{
		rank:       args.ThresholdRank,
		multiplier: args.ThresholdMultiplier,
		thresholds: NewRollingAverage[int](args.ThresholdHistory),
	}
}

// ImageComparator compares each grid with the one before it. The
// threshold used to decide whether a cell changed is derived from the
// deltas themselves so it follows ambient noise and lighting.
type ImageComparator struct {
	previous   Grid
	current    Grid
	delta      []int
	rank       int
	multiplier float64
	thresholds *RollingAverage[int]
}

// AddImage makes grid the current image and updates the delta matrix and
// threshold history.
func (c *ImageComparator) AddImage(grid Grid) error {
	if len(grid) == 0 {
		return errEmptyGrid
	}
	if c.current != nil && len(grid) != len(c.current) {
		return fmt.Errorf("grid has %d cells, expected %d", len(grid), len(c.current))
	}
	c.previous = c.current
	c.current = grid

	if c.previous == nil {
		c.delta = nil
		return nil
	}
	c.delta = absDiffGrids(c.current, c.previous, c.delta)
	c.thresholds.Push(rankValue(c.delta, c.rank))
	return nil
}

// DeltaMatrix returns the per cell absolute difference between the last two
// grids. ok is false until two grids have been added.
func (c *ImageComparator) DeltaMatrix() (delta []int, ok bool) {
	if c.delta == nil {
		return nil, false
	}
	return append([]int(nil), c.delta...), true
}

// Threshold returns the averaged threshold a delta must exceed to count as
// changed.
func (c *ImageComparator) Threshold() (float64, bool) {
	avg, err := c.thresholds.Average()
	if err != nil {
		return 0, false
	}
	return avg * c.multiplier, true
}

// ChangedCellCount returns the number of cells whose delta is over the
// threshold. ok is false until two grids have been added.
func (c *ImageComparator) ChangedCellCount() (count int, ok bool) {
	if c.delta == nil {
		return 0, false
	}
	threshold, ok := c.Threshold()
	if !ok {
		return 0, false
	}
	for _, d := range c.delta {
		if float64(d) > threshold {
			count++
		}
	}
	return count, true
}

// rankValue returns the value at rank in a descending sorted copy of
// values. A rank past the end gives the smallest value.
func rankValue(values []int, rank int) int {
	sorted := append([]int(nil), values...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	if rank < 0 {
		rank = 0
	}
	return sorted[rank]
}

func absDiffGrids(a, b Grid, out []int) []int {
	if cap(out) < len(a) {
		out = make([]int, len(a))
	}
	out = out[:len(a)]
	for i := range a {
		out[i] = absDiff(a[i], b[i])
	}
	return out
}

func absDiff(a, b int) int {
	d := a - b
	if d < 0 {
		return -d
	}
	return d
}
