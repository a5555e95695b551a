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

import "testing"

func TestCompressTempC16(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		tempC16 int16
		want    uint8
	}{
		{name: "below zero clamps", tempC16: -100, want: 0},
		{name: "zero", tempC16: 0, want: 0},
		{name: "low band eighth degree steps", tempC16: 100, want: 12},
		{name: "low threshold 16C", tempC16: 16 * 16, want: 32},
		{name: "mid band keeps half steps", tempC16: 264, want: 36},
		{name: "room temperature 20C", tempC16: 20 * 16, want: 64},
		{name: "high threshold 24C", tempC16: 24 * 16, want: 96},
		{name: "hot water 100C", tempC16: 100 * 16, want: MaxStatsTemp},
		{name: "above ceiling clamps", tempC16: 200 * 16, want: MaxStatsTemp},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CompressTempC16(tt.tempC16); got != tt.want {
				t.Errorf("CompressTempC16(%d) = %d, want %d", tt.tempC16, got, tt.want)
			}
		})
	}
}

func TestExpandTempC16(t *testing.T) {
	t.Parallel()
	// The mid band round trips exactly at even 1/16 C values.
	for tempC16 := int16(16 * 16); tempC16 < 24*16; tempC16 += 2 {
		got, ok := ExpandTempC16(CompressTempC16(tempC16))
		if !ok || got != tempC16 {
			t.Errorf("mid-band round trip of %d gave %d (ok=%v)", tempC16, got, ok)
		}
	}

	if got, ok := ExpandTempC16(MaxStatsTemp); !ok || got != 100*16 {
		t.Errorf("ExpandTempC16(max) = %d (ok=%v), want 1600", got, ok)
	}
	if _, ok := ExpandTempC16(MaxStatsTemp + 1); ok {
		t.Error("ExpandTempC16 accepted an out-of-range value")
	}
	if _, ok := ExpandTempC16(StatsUnset); ok {
		t.Error("ExpandTempC16 accepted the unset marker")
	}
}

func TestSamplerFilesHourlyMeans(t *testing.T) {
	t.Parallel()
	stats := NewMemStats()
	temps := []int16{20 * 16, 21 * 16}
	lights := []uint8{100, 200}
	occs := []uint8{40, 60}
	rhs := []uint8{50, 70}
	i := 0
	s := NewSampler(stats, SamplerSources{
		TempC16:     func() (int16, bool) { return temps[i], true },
		AmbLight:    func() (uint8, bool) { return lights[i], true },
		OccupancyPC: func() (uint8, bool) { return occs[i], true },
		RHPC:        func() (uint8, bool) { return rhs[i], true },
	}, 2)

	s.Sample(false, 10)
	// Nothing filed until the full sample.
	if got := stats.GetByHourStat(StatsOccupancyByHour, 10); got != StatsUnset {
		t.Errorf("sub-sample filed %d into the stats", got)
	}

	i = 1
	s.Sample(true, 10)

	// 20.5C companded.
	if got := stats.GetByHourStat(StatsTempByHour, 10); got != CompressTempC16(328) {
		t.Errorf("temp sample = %d, want %d", got, CompressTempC16(328))
	}
	if got := stats.GetByHourStat(StatsAmbLightByHour, 10); got != 150 {
		t.Errorf("light sample = %d, want 150", got)
	}
	if got := stats.GetByHourStat(StatsOccupancyByHour, 10); got != 50 {
		t.Errorf("occupancy sample = %d, want 50", got)
	}
	if got := stats.GetByHourStat(StatsRHByHour, 10); got != 60 {
		t.Errorf("humidity sample = %d, want 60", got)
	}
	// The first full sample seeds the smoothed sets too.
	if got := stats.GetByHourStat(StatsOccupancyByHourSmoothed, 10); got != 50 {
		t.Errorf("smoothed occupancy = %d, want 50", got)
	}
}

func TestSamplerDropsExcessSubSamples(t *testing.T) {
	t.Parallel()
	stats := NewMemStats()
	occ := uint8(10)
	s := NewSampler(stats, SamplerSources{
		OccupancyPC: func() (uint8, bool) { return occ, true },
	}, 2)

	s.Sample(false, 3)
	occ = 90
	// A second sub-sample exceeds the per-hour budget and is dropped.
	s.Sample(false, 3)
	occ = 30
	s.Sample(true, 3)

	if got := stats.GetByHourStat(StatsOccupancyByHour, 3); got != 20 {
		t.Errorf("occupancy sample = %d, want mean of 10 and 30", got)
	}
}

func TestSamplerDiscardsOnBadHour(t *testing.T) {
	t.Parallel()
	stats := NewMemStats()
	occ := uint8(100)
	s := NewSampler(stats, SamplerSources{
		OccupancyPC: func() (uint8, bool) { return occ, true },
	}, 2)

	s.Sample(false, 5)
	s.Sample(false, 24)
	occ = 40
	s.Sample(true, 5)

	if got := stats.GetByHourStat(StatsOccupancyByHour, 5); got != 40 {
		t.Errorf("occupancy sample = %d, want 40 after discard", got)
	}
}

func TestSamplerSkipsUnavailableSources(t *testing.T) {
	t.Parallel()
	stats := NewMemStats()
	s := NewSampler(stats, SamplerSources{
		OccupancyPC: func() (uint8, bool) { return 0, false },
	}, 1)

	s.Sample(true, 7)
	if got := stats.GetByHourStat(StatsOccupancyByHour, 7); got != StatsUnset {
		t.Errorf("unavailable source filed %d", got)
	}
	if got := stats.GetByHourStat(StatsTempByHour, 7); got != StatsUnset {
		t.Errorf("nil source filed %d", got)
	}
}

func TestSamplerClampsAmbientLight(t *testing.T) {
	t.Parallel()
	stats := NewMemStats()
	s := NewSampler(stats, SamplerSources{
		AmbLight: func() (uint8, bool) { return 255, true },
	}, 1)

	s.Sample(true, 0)
	if got := stats.GetByHourStat(StatsAmbLightByHour, 0); got != MaxStatsAmbLight {
		t.Errorf("light sample = %d, want clamped to %d", got, MaxStatsAmbLight)
	}
}
