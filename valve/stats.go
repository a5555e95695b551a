// OTRadioLink
// Copyright (c) 2026 The OTRadioLink Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of OTRadioLink.
//
// OTRadioLink is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// OTRadioLink is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with OTRadioLink; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package valve

// StatsUnset marks a by-hour slot with no sample.
const StatsUnset = 0xff

// Special hour selectors accepted where an hour of day is expected.
const (
	// HourCurrent selects the current hour.
	HourCurrent = 0xff
	// HourNext selects the next hour.
	HourNext = 0xfe
	// HourPrev selects the previous hour.
	HourPrev = 0xfd
)

// StatsSet names one 24-slot by-hour statistics set.
type StatsSet uint8

const (
	// StatsTempByHour is the last observed temperature by hour.
	StatsTempByHour StatsSet = iota
	// StatsTempByHourSmoothed is the smoothed temperature by hour.
	StatsTempByHourSmoothed
	// StatsAmbLightByHour is the last observed ambient light by hour.
	StatsAmbLightByHour
	// StatsAmbLightByHourSmoothed is the smoothed ambient light by
	// hour.
	StatsAmbLightByHourSmoothed
	// StatsOccupancyByHour is the last observed occupancy percentage
	// [0,100] by hour.
	StatsOccupancyByHour
	// StatsOccupancyByHourSmoothed is the smoothed occupancy
	// percentage [0,100] by hour.
	StatsOccupancyByHourSmoothed
	// StatsRHByHour is the last observed relative humidity percentage
	// [0,100] by hour.
	StatsRHByHour
	// StatsRHByHourSmoothed is the smoothed relative humidity
	// percentage [0,100] by hour.
	StatsRHByHourSmoothed

	statsSetCount
)

// smoothingShift controls the exponential smoothing half-life: each
// update moves the smoothed value 1/8 of the way to the new sample.
const smoothingShift = 3

// SmoothStatsValue folds one new sample into an old smoothed value.
func SmoothStatsValue(oldSmoothed, newValue uint8) uint8 {
	if oldSmoothed == newValue {
		return oldSmoothed
	}
	// Round to nearest, with a nudge so the value cannot get stuck one
	// step short of a stable input.
	smoothed := int(oldSmoothed)
	delta := (int(newValue) - smoothed + (1 << (smoothingShift - 1))) >> smoothingShift
	if delta == 0 {
		if newValue > oldSmoothed {
			return oldSmoothed + 1
		}
		return oldSmoothed - 1
	}
	return uint8(smoothed + delta)
}

// ByHourStats gives read access to 24-slot by-hour statistics.
type ByHourStats interface {
	// Hour returns the current hour of day [0,23].
	Hour() uint8
	// GetByHourStat returns the sample for set at the given hour of
	// day (or special hour selector); StatsUnset if absent.
	GetByHourStat(set StatsSet, hour uint8) uint8
	// CountStatSamplesBelow returns how many set hours of the set have
	// samples strictly below value.
	CountStatSamplesBelow(set StatsSet, value uint8) uint8
}

// resolveHour maps special hour selectors onto an hour of day.
func resolveHour(hour, current uint8) uint8 {
	switch hour {
	case HourCurrent:
		return current
	case HourNext:
		return (current + 1) % 24
	case HourPrev:
		return (current + 23) % 24
	default:
		return hour
	}
}

// MemStats is an in-memory ByHourStats implementation with update
// support, standing in for the EEPROM-backed stats of battery valve
// hardware.
type MemStats struct {
	hour  uint8
	slots [statsSetCount][24]uint8
}

// NewMemStats creates stats with every slot unset.
func NewMemStats() *MemStats {
	s := &MemStats{}
	for i := range s.slots {
		for h := range s.slots[i] {
			s.slots[i][h] = StatsUnset
		}
	}
	return s
}

// SetHour sets the current hour of day used by the special selectors.
func (s *MemStats) SetHour(hour uint8) { s.hour = hour % 24 }

// Hour returns the current hour of day.
func (s *MemStats) Hour() uint8 { return s.hour }

// GetByHourStat returns the sample for set at hour; StatsUnset if the
// slot is empty or the arguments are out of range.
func (s *MemStats) GetByHourStat(set StatsSet, hour uint8) uint8 {
	if set >= statsSetCount {
		return StatsUnset
	}
	h := resolveHour(hour, s.hour)
	if h >= 24 {
		return StatsUnset
	}
	return s.slots[set][h]
}

// SetByHourStat stores a sample for set at hour.
func (s *MemStats) SetByHourStat(set StatsSet, hour, value uint8) {
	if set >= statsSetCount {
		return
	}
	h := resolveHour(hour, s.hour)
	if h >= 24 {
		return
	}
	s.slots[set][h] = value
}

// CountStatSamplesBelow returns how many hours of the set hold a
// sample strictly below value; unset slots never count.
func (s *MemStats) CountStatSamplesBelow(set StatsSet, value uint8) uint8 {
	if set >= statsSetCount {
		return 0
	}
	var count uint8
	for _, v := range s.slots[set] {
		if v != StatsUnset && v < value {
			count++
		}
	}
	return count
}

// MinStat returns the smallest set sample; StatsUnset if none.
func (s *MemStats) MinStat(set StatsSet) uint8 {
	if set >= statsSetCount {
		return StatsUnset
	}
	min := uint8(StatsUnset)
	for _, v := range s.slots[set] {
		if v != StatsUnset && (min == StatsUnset || v < min) {
			min = v
		}
	}
	return min
}

// MaxStat returns the largest set sample; StatsUnset if none.
func (s *MemStats) MaxStat(set StatsSet) uint8 {
	if set >= statsSetCount {
		return StatsUnset
	}
	max := uint8(StatsUnset)
	for _, v := range s.slots[set] {
		if v != StatsUnset && (max == StatsUnset || v > max) {
			max = v
		}
	}
	return max
}

// InBottomQuartile returns true if the sample for hour is in the
// lowest quartile of set samples for its set.
func (s *MemStats) InBottomQuartile(set StatsSet, hour uint8) bool {
	return s.inOutlierQuartile(false, set, hour)
}

// InTopQuartile returns true if the sample for hour is in the highest
// quartile of set samples for its set.
func (s *MemStats) InTopQuartile(set StatsSet, hour uint8) bool {
	return s.inOutlierQuartile(true, set, hour)
}

func (s *MemStats) inOutlierQuartile(top bool, set StatsSet, hour uint8) bool {
	sample := s.GetByHourStat(set, hour)
	if sample == StatsUnset || set >= statsSetCount {
		return false
	}
	var setCount, beyond uint8
	for _, v := range s.slots[set] {
		if v == StatsUnset {
			continue
		}
		setCount++
		if (top && v > sample) || (!top && v < sample) {
			beyond++
		}
	}
	if setCount == 0 {
		return false
	}
	// In the outlier quartile when no more than a quarter of samples
	// lie beyond this one.
	return beyond <= setCount/4
}

// RecordSample folds a sub-sample for the current hour into the raw
// set; when fullSample is true the hour is finalized and the smoothed
// companion set is updated too. rawSet must be one of the unsmoothed
// sets, whose smoothed companion immediately follows it.
func (s *MemStats) RecordSample(rawSet StatsSet, value uint8, fullSample bool) {
	if rawSet >= statsSetCount-1 || rawSet%2 != 0 {
		return
	}
	h := s.hour
	// Average the sub-samples seen this hour rather than keeping only
	// the last one.
	if prev := s.slots[rawSet][h]; prev != StatsUnset && !fullSample {
		value = uint8((int(prev) + int(value)) / 2)
	}
	s.slots[rawSet][h] = value
	if !fullSample {
		return
	}
	smoothedSet := rawSet + 1
	if old := s.slots[smoothedSet][h]; old != StatsUnset {
		s.slots[smoothedSet][h] = SmoothStatsValue(old, value)
	} else {
		s.slots[smoothedSet][h] = value
	}
}
