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

func NewHysteresis(args MotionConfig) *Hysteresis {
	return &Hysteresis{
		low:          args.PlausibleLow,
		high:         args.PlausibleHigh,
		maxCounter:   args.MaxCounterValue,
		verdictFloor: args.VerdictFloor,
		saturate:     args.SaturateCounter,
	}
}

// Hysteresis turns noisy per frame changed cell counts into a stable
// verdict. The counter rises while the count stays in the plausible band
// and falls otherwise; motion is only reported once the counter and the
// current count are both large enough.
type Hysteresis struct {
	counter      int
	low          int
	high         int
	maxCounter   int
	verdictFloor int
	saturate     bool
}

// Update runs one transition and returns the verdict. An absent count
// leaves the counter alone and reports no motion.
func (h *Hysteresis) Update(changedCells int, ok bool) bool {
	if !ok {
		return false
	}

	plausible := changedCells >= h.low && changedCells < h.high
	next := h.counter - 1
	if plausible {
		next = h.counter + 1
	}

	if h.saturate && next >= h.maxCounter {
		next = h.maxCounter - 1
	}
	// Wrap at the ceiling, clamp at the floor.
	next %= h.maxCounter
	if next < 0 {
		next = 0
	}
	h.counter = next

	return (h.counter-1)*changedCells > h.verdictFloor
}

func (h *Hysteresis) Counter() int {
	return h.counter
}
