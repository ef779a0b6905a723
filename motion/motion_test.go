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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingGrid() Grid {
	grid := make(Grid, 64)
	for i := range grid {
		grid[i] = i
	}
	return grid
}

func gridWithBrightCells(cells, value int) Grid {
	grid := make(Grid, 64)
	for i := 0; i < cells; i++ {
		grid[i] = value
	}
	return grid
}

func TestNoChangedCountAfterOneImage(t *testing.T) {
	c := NewImageComparator(DefaultMotionConfig())
	require.NoError(t, c.AddImage(countingGrid()))

	_, ok := c.ChangedCellCount()
	assert.False(t, ok)
	_, ok = c.DeltaMatrix()
	assert.False(t, ok)
	_, ok = c.Threshold()
	assert.False(t, ok)
}

func TestIdenticalImagesHaveNoChange(t *testing.T) {
	c := NewImageComparator(DefaultMotionConfig())
	require.NoError(t, c.AddImage(countingGrid()))
	require.NoError(t, c.AddImage(countingGrid()))

	delta, ok := c.DeltaMatrix()
	require.True(t, ok)
	assert.Equal(t, make([]int, 64), delta)

	count, ok := c.ChangedCellCount()
	require.True(t, ok)
	assert.Equal(t, 0, count)
}

func TestChangedCellCountIsIdempotent(t *testing.T) {
	c := NewImageComparator(DefaultMotionConfig())
	require.NoError(t, c.AddImage(gridWithBrightCells(0, 0)))
	require.NoError(t, c.AddImage(gridWithBrightCells(2, 90)))

	first, ok := c.ChangedCellCount()
	require.True(t, ok)
	for i := 0; i < 5; i++ {
		again, ok := c.ChangedCellCount()
		require.True(t, ok)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, 2, first)
}

func TestThresholdUsesRankedDelta(t *testing.T) {
	c := NewImageComparator(DefaultMotionConfig())
	require.NoError(t, c.AddImage(make(Grid, 64)))

	// Deltas 60, 50, 40, 30, 20, 10 then zeros: the 5th largest is 20.
	next := make(Grid, 64)
	copy(next, []int{10, 20, 30, 40, 50, 60})
	require.NoError(t, c.AddImage(next))

	threshold, ok := c.Threshold()
	require.True(t, ok)
	assert.Equal(t, 30.0, threshold)

	count, ok := c.ChangedCellCount()
	require.True(t, ok)
	assert.Equal(t, 3, count)

	// The delta matrix itself is left in grid order.
	delta, _ := c.DeltaMatrix()
	assert.Equal(t, []int{10, 20, 30, 40, 50, 60}, delta[:6])
}

func TestThresholdAveragesHistory(t *testing.T) {
	c := NewImageComparator(DefaultMotionConfig())
	require.NoError(t, c.AddImage(gridWithBrightCells(0, 0)))
	require.NoError(t, c.AddImage(gridWithBrightCells(0, 0)))
	require.NoError(t, c.AddImage(gridWithBrightCells(5, 200)))

	// Raw thresholds 0 and 200.
	threshold, ok := c.Threshold()
	require.True(t, ok)
	assert.Equal(t, 150.0, threshold)

	count, _ := c.ChangedCellCount()
	assert.Equal(t, 5, count)
}

func TestDeltaMatrixIsACopy(t *testing.T) {
	c := NewImageComparator(DefaultMotionConfig())
	require.NoError(t, c.AddImage(gridWithBrightCells(0, 0)))
	require.NoError(t, c.AddImage(gridWithBrightCells(1, 9)))

	delta, _ := c.DeltaMatrix()
	delta[0] = 1000
	again, _ := c.DeltaMatrix()
	assert.Equal(t, 9, again[0])
}

func TestMismatchedGridRejected(t *testing.T) {
	c := NewImageComparator(DefaultMotionConfig())
	require.NoError(t, c.AddImage(countingGrid()))
	assert.EqualError(t, c.AddImage(make(Grid, 16)), "grid has 16 cells, expected 64")
	assert.Error(t, c.AddImage(nil))

	// State is unchanged so a good grid still compares against the first.
	require.NoError(t, c.AddImage(countingGrid()))
	count, ok := c.ChangedCellCount()
	require.True(t, ok)
	assert.Equal(t, 0, count)
}

func TestRankPastEndUsesSmallest(t *testing.T) {
	assert.Equal(t, 1, rankValue([]int{3, 1, 2}, 10))
	assert.Equal(t, 2, rankValue([]int{3, 1, 2}, 1))
}

func TestIdenticalGridsNeverDetect(t *testing.T) {
	conf := DefaultMotionConfig()
	c := NewImageComparator(conf)
	h := NewHysteresis(conf)

	for i := 0; i < 4; i++ {
		require.NoError(t, c.AddImage(countingGrid()))
		assert.False(t, h.Update(c.ChangedCellCount()))
	}
	assert.Equal(t, 0, h.Counter())
}
