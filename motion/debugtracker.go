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
	"fmt"
	"math"
	"strings"
)

// Tracker keeps running min/max/mean figures for named pipeline values.
// A nil Tracker ignores everything, so verbose tracking can be switched off
// by not creating one.
type Tracker struct {
	fields map[string]*FieldStats
}

func NewTracker() *Tracker {
	return &Tracker{fields: make(map[string]*FieldStats)}
}

func (t *Tracker) Observe(name string, x float64) {
	if t == nil {
		return
	}
	f := t.fields[name]
	if f == nil {
		f = newFieldStats()
		t.fields[name] = f
	}
	f.observe(x)
}

func (t *Tracker) Get(name string) (FieldStats, bool) {
	if t == nil {
		return FieldStats{}, false
	}
	f, ok := t.fields[name]
	if !ok {
		return FieldStats{}, false
	}
	return *f, true
}

// Format renders the fields named in layout, for example
// "changed:all threshold:avg". Styles are "n", "min", "max", "avg" and "all".
func (t *Tracker) Format(layout string) string {
	if t == nil {
		return ""
	}
	var out []string
	for _, field := range strings.Fields(layout) {
		name, style, found := strings.Cut(field, ":")
		if !found {
			continue
		}
		if f := t.fields[name]; f != nil && f.N > 0 {
			out = append(out, fmt.Sprintf("%s: %s", name, f.format(style)))
		}
	}
	return strings.Join(out, "; ")
}

type FieldStats struct {
	N    int
	Min  float64
	Max  float64
	Mean float64
}

func newFieldStats() *FieldStats {
	f := new(FieldStats)
	f.reset()
	return f
}

func (f *FieldStats) reset() {
	f.N = 0
	f.Min = math.Inf(1)
	f.Max = math.Inf(-1)
	f.Mean = 0
}

func (f *FieldStats) observe(x float64) {
	f.N++
	f.Min = math.Min(f.Min, x)
	f.Max = math.Max(f.Max, x)
	// Cumulative moving average
	f.Mean += (x - f.Mean) / float64(f.N)
}

func (f *FieldStats) format(style string) string {
	switch style {
	case "n":
		return fmt.Sprint(f.N)
	case "min":
		return fmt.Sprintf("%g(min)", f.Min)
	case "max":
		return fmt.Sprintf("%g(max)", f.Max)
	case "avg":
		return fmt.Sprintf("%.2f(avg)", f.Mean)
	case "all":
		return fmt.Sprintf("%g -> %g (avg: %.2f)", f.Min, f.Max, f.Mean)
	default:
		return "???"
	}
}
