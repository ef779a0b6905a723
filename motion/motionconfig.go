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
	"time"
)

type MotionConfig struct {
	SampleCount         int           `yaml:"sample-count"`
	ThresholdRank       int           `yaml:"threshold-rank"`
	ThresholdMultiplier float64       `yaml:"threshold-multiplier"`
	ThresholdHistory    int           `yaml:"threshold-history"`
	PlausibleLow        int           `yaml:"plausible-low"`
	PlausibleHigh       int           `yaml:"plausible-high"`
	MaxCounterValue     int           `yaml:"max-counter-value"`
	VerdictFloor        int           `yaml:"verdict-floor"`
	SaturateCounter     bool          `yaml:"saturate-counter"`
	TargetInterval      time.Duration `yaml:"target-interval"`
	IntervalHistory     int           `yaml:"interval-history"`
	Verbose             bool          `yaml:"verbose"`
}

func DefaultMotionConfig() MotionConfig {
	return MotionConfig{
		SampleCount:         64,
		ThresholdRank:       4,
		ThresholdMultiplier: 1.5,
		ThresholdHistory:    10,
		PlausibleLow:        3,
		PlausibleHigh:       30,
		MaxCounterValue:     8,
		VerdictFloor:        10,
		SaturateCounter:     false,
		TargetInterval:      140 * time.Millisecond,
		IntervalHistory:     30,
	}
}

func (conf *MotionConfig) Validate() error {
	if conf.SampleCount < 1 {
		return errors.New("sample-count should be at least 1")
	}
	if conf.ThresholdRank < 0 {
		return errors.New("threshold-rank can't be negative")
	}
	if conf.ThresholdMultiplier <= 0 {
		return errors.New("threshold-multiplier should be positive")
	}
	if conf.ThresholdHistory < 1 || conf.IntervalHistory < 1 {
		return errors.New("threshold-history and interval-history should be at least 1")
	}
	if conf.PlausibleHigh <= conf.PlausibleLow {
		return errors.New("plausible-high should be larger than plausible-low")
	}
	if conf.MaxCounterValue < 2 {
		return errors.New("max-counter-value should be at least 2")
	}
	if conf.TargetInterval < 0 {
		return errors.New("target-interval can't be negative")
	}
	return nil
}
