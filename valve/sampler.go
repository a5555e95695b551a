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

// Temperature companding range, chosen to keep maximum precision
// around normal room temperatures while still covering domestic hot
// water, all in one byte.
const (
	compressFloorC16 = 0
	// [compressLowC16,compressHighC16) keeps three bits after the
	// binary point.
	compressLowC16    = 16 << 4
	compressLowAfter  = compressLowC16 >> 3
	compressHighC16   = 24 << 4
	compressHighAfter = compressLowAfter + ((compressHighC16 - compressLowC16) >> 1)
	compressCeilC16   = 100 << 4
	compressCeilAfter = compressHighAfter + ((compressCeilC16 - compressHighC16) >> 3)

	// MaxStatsTemp is the largest valid companded temperature sample.
	MaxStatsTemp = compressCeilAfter
	// MaxStatsAmbLight is the largest valid ambient light sample.
	MaxStatsAmbLight = 254
)

// CompressTempC16 range-compresses a 1/16-C temperature to one byte
// below StatsUnset. At least one bit after the binary point survives
// everywhere, three bits in the mid range around room temperatures.
// Inputs below 0C clamp to 0C and above 100C to 100C, so air and hot
// water temperatures both fit.
func CompressTempC16(tempC16 int16) uint8 {
	switch {
	case tempC16 <= compressFloorC16:
		return 0
	case tempC16 < compressLowC16:
		return uint8(tempC16 >> 3)
	case tempC16 < compressHighC16:
		return uint8(compressLowAfter + ((tempC16 - compressLowC16) >> 1))
	case tempC16 < compressCeilC16:
		return uint8(compressHighAfter + ((tempC16 - compressHighC16) >> 3))
	default:
		return compressCeilAfter
	}
}

// ExpandTempC16 reverses CompressTempC16, with precision varying by
// band. ok is false for values outside the companded range.
func ExpandTempC16(c uint8) (tempC16 int16, ok bool) {
	switch {
	case c <= compressLowAfter:
		return int16(c) << 3, true
	case c <= compressHighAfter:
		return compressLowC16 + (int16(c-compressLowAfter) << 1), true
	case c <= compressCeilAfter:
		return compressHighC16 + (int16(c-compressHighAfter) << 3), true
	default:
		return 0, false
	}
}

// SamplerSources bundles the optional sensor feeds for a Sampler.
// A nil func, or ok false from it, skips that measure for the sample.
type SamplerSources struct {
	// TempC16 is the room temperature in 1/16 C.
	TempC16 func() (int16, bool)
	// AmbLight is the ambient light level [0,254].
	AmbLight func() (uint8, bool)
	// OccupancyPC is the derived occupancy percentage [0,100].
	OccupancyPC func() (uint8, bool)
	// RHPC is the relative humidity percentage [0,100].
	RHPC func() (uint8, bool)
}

// Sampler feeds periodic sensor readings into by-hour statistics.
// Take up to maxSubSamples evenly spaced samples per hour, the last
// near the end of the hour with fullSample true; sub-samples
// accumulate and only the full sample touches the backing stats.
type Sampler struct {
	stats         *MemStats
	src           SamplerSources
	maxSubSamples uint8

	count      uint8
	tempTotal  int32
	lightTotal uint16
	occTotal   uint16
	rhTotal    uint16
}

// NewSampler creates a stats sampler; maxSubSamples below 1 is
// treated as 1 (full samples only).
func NewSampler(stats *MemStats, src SamplerSources, maxSubSamples uint8) *Sampler {
	return &Sampler{stats: stats, src: src, maxSubSamples: maxU8(maxSubSamples, 1)}
}

// Reset discards any accumulated sub-samples.
func (s *Sampler) Reset() {
	s.count = 0
	s.tempTotal = 0
	s.lightTotal = 0
	s.occTotal = 0
	s.rhTotal = 0
}

// Sample takes one (sub-)sample for the given hour of day. Only the
// fullSample call files anything into the stats; excess sub-samples
// before it are dropped. An out-of-range hour discards all partial
// state instead.
func (s *Sampler) Sample(fullSample bool, hour uint8) {
	if hour > 23 {
		s.Reset()
		return
	}
	if !fullSample && s.count >= s.maxSubSamples-1 {
		return
	}

	first := s.count == 0
	s.count++
	sc := s.count

	if s.src.TempC16 != nil {
		if v, ok := s.src.TempC16(); ok {
			if first {
				s.tempTotal = int32(v)
			} else {
				s.tempTotal += int32(v)
			}
			if fullSample {
				mean := int16((s.tempTotal + int32(sc/2)) / int32(sc))
				s.file(StatsTempByHour, CompressTempC16(mean), hour)
			}
		}
	}
	if s.src.AmbLight != nil {
		if v, ok := s.src.AmbLight(); ok {
			// Keep clear of the unset marker.
			lv := uint16(minU8(v, MaxStatsAmbLight))
			if first {
				s.lightTotal = lv
			} else {
				s.lightTotal += lv
			}
			if fullSample {
				s.file(StatsAmbLightByHour, meanU8(s.lightTotal, sc), hour)
			}
		}
	}
	if s.src.OccupancyPC != nil {
		if v, ok := s.src.OccupancyPC(); ok {
			if first {
				s.occTotal = uint16(v)
			} else {
				s.occTotal += uint16(v)
			}
			if fullSample {
				s.file(StatsOccupancyByHour, meanU8(s.occTotal, sc), hour)
			}
		}
	}
	if s.src.RHPC != nil {
		if v, ok := s.src.RHPC(); ok {
			if first {
				s.rhTotal = uint16(v)
			} else {
				s.rhTotal += uint16(v)
			}
			if fullSample {
				s.file(StatsRHByHour, meanU8(s.rhTotal, sc), hour)
			}
		}
	}

	if fullSample {
		s.Reset()
	}
}

// file writes one finalized hourly value into the raw set and folds
// it into the smoothed companion.
func (s *Sampler) file(rawSet StatsSet, value, hour uint8) {
	s.stats.SetHour(hour)
	s.stats.RecordSample(rawSet, value, true)
}

// meanU8 rounds total/count to the nearest byte value.
func meanU8(total uint16, count uint8) uint8 {
	return uint8((total + uint16(count/2)) / uint16(count))
}
