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

// targetFixture builds Inputs around a SimpleMode, SimSensors and
// empty stats, defaulting to WARM 19C with eco bias.
func targetFixture(warmC uint8, eco bool) (Inputs, *SimpleMode, *SimSensors, *MemStats) {
	params := DefaultParameters()
	mode := NewSimpleMode(params.BakeTimeoutM)
	mode.SetWarmMode(true)
	sensors := &SimSensors{RoomTempC16: 18 * 16}
	stats := NewMemStats()
	in := Inputs{
		Mode: mode,
		TempControl: SimpleTempControl{
			Params:  params,
			Frost:   params.FrostC,
			Warm:    warmC,
			EcoBias: eco,
		},
		Occupancy:   sensors,
		AmbLight:    sensors,
		PhysicalUI:  sensors,
		Schedule:    sensors,
		Stats:       stats,
		Temperature: sensors,
	}
	return in, mode, sensors, stats
}

func TestTargetFrostMode(t *testing.T) {
	t.Parallel()
	params := DefaultParameters()
	in, mode, sensors, _ := targetFixture(19, true)
	mode.SetWarmMode(false)

	if got := ComputeTargetTemp(params, in, 0); got != params.FrostC {
		t.Errorf("FROST target = %d, want %d", got, params.FrostC)
	}

	// An imminent scheduled WARM period pre-warms a little below the
	// WARM target.
	sensors.ScheduleOnSoon = true
	if got := ComputeTargetTemp(params, in, 0); got != 19-params.SetbackDefaultC {
		t.Errorf("pre-warm target = %d, want %d", got, 19-params.SetbackDefaultC)
	}

	// Recent manual control use cancels the pre-warm.
	sensors.UIUseRecent = true
	if got := ComputeTargetTemp(params, in, 0); got != params.FrostC {
		t.Errorf("pre-warm with recent UI = %d, want %d", got, params.FrostC)
	}
	sensors.UIUseRecent = false

	// So does long vacancy.
	sensors.VacantLong = true
	if got := ComputeTargetTemp(params, in, 0); got != params.FrostC {
		t.Errorf("pre-warm while long vacant = %d, want %d", got, params.FrostC)
	}
}

func TestTargetFrostPreWarmEcoSetback(t *testing.T) {
	t.Parallel()
	params := DefaultParameters()
	// An eco WARM target gets the deeper eco setback while pre-warming.
	in, mode, sensors, _ := targetFixture(16, true)
	mode.SetWarmMode(false)
	sensors.ScheduleOnSoon = true

	if got := ComputeTargetTemp(params, in, 0); got != 16-params.SetbackEcoC {
		t.Errorf("eco pre-warm target = %d, want %d", got, 16-params.SetbackEcoC)
	}
}

func TestTargetBakeMode(t *testing.T) {
	t.Parallel()
	params := DefaultParameters()
	in, mode, sensors, _ := targetFixture(19, true)
	mode.StartBake()
	// BAKE ignores vacancy and darkness entirely.
	sensors.VacantLong = true
	sensors.MinutesDark = 600

	if got := ComputeTargetTemp(params, in, 0); got != 19+params.BakeUpliftC {
		t.Errorf("BAKE target = %d, want %d", got, 19+params.BakeUpliftC)
	}
}

func TestTargetBakeClippedToMax(t *testing.T) {
	t.Parallel()
	params := DefaultParameters()
	in, mode, _, _ := targetFixture(30, false)
	mode.StartBake()

	if got := ComputeTargetTemp(params, in, 0); got != params.MaxTargetC {
		t.Errorf("BAKE target = %d, want clipped to %d", got, params.MaxTargetC)
	}
}

func TestTargetWarmOccupied(t *testing.T) {
	t.Parallel()
	params := DefaultParameters()
	in, _, _, _ := targetFixture(19, true)

	// Apparently occupied: full WARM target, no setback.
	if got := ComputeTargetTemp(params, in, 0); got != 19 {
		t.Errorf("occupied WARM target = %d, want 19", got)
	}
}

func TestTargetWarmVacantEcoSetback(t *testing.T) {
	t.Parallel()
	params := DefaultParameters()
	in, _, sensors, _ := targetFixture(19, true)
	sensors.Vacant = true

	// Likely vacant with no occupancy history: the eco setback applies
	// but not the full one while the room is not dark.
	if got := ComputeTargetTemp(params, in, 0); got != 19-params.SetbackEcoC {
		t.Errorf("vacant target = %d, want %d", got, 19-params.SetbackEcoC)
	}
}

func TestTargetWarmVacantScheduledNow(t *testing.T) {
	t.Parallel()
	params := DefaultParameters()
	in, _, sensors, _ := targetFixture(19, true)
	sensors.Vacant = true
	sensors.ScheduleOnNow = true

	// A scheduled WARM period holds the full target unless long vacant.
	if got := ComputeTargetTemp(params, in, 0); got != 19 {
		t.Errorf("scheduled WARM target = %d, want 19", got)
	}

	sensors.VacantLong = true
	if got := ComputeTargetTemp(params, in, 0); got == 19 {
		t.Error("long vacancy must override the schedule")
	}
}

func TestTargetWarmLongVacantFullSetback(t *testing.T) {
	t.Parallel()
	params := DefaultParameters()
	in, _, sensors, _ := targetFixture(19, true)
	sensors.VacantLong = true

	if got := ComputeTargetTemp(params, in, 0); got != 19-params.SetbackFullC {
		t.Errorf("long vacant target = %d, want %d", got, 19-params.SetbackFullC)
	}
}

func TestTargetComfortInhibitsFullSetback(t *testing.T) {
	t.Parallel()
	params := DefaultParameters()
	in, _, sensors, _ := targetFixture(22, false)
	sensors.VacantLong = true

	// At the top of the comfort range the deepest setback is withheld.
	if got := ComputeTargetTemp(params, in, 0); got != 22-params.SetbackEcoC {
		t.Errorf("comfort long vacant target = %d, want %d", got, 22-params.SetbackEcoC)
	}
}

func TestTargetNightFullSetback(t *testing.T) {
	t.Parallel()
	params := DefaultParameters()
	in, _, sensors, _ := targetFixture(19, true)
	sensors.Vacant = true
	sensors.RoomDark = true
	sensors.MinutesDark = 600

	// Deep into a dark night with no anticipated return: full setback.
	if got := ComputeTargetTemp(params, in, 0); got != 19-params.SetbackFullC {
		t.Errorf("night target = %d, want %d", got, 19-params.SetbackFullC)
	}
}

func TestTargetBusyHourInhibitsEcoSetback(t *testing.T) {
	t.Parallel()
	params := DefaultParameters()
	in, _, sensors, stats := targetFixture(19, true)
	sensors.Vacant = true

	// This hour is usually one of the most occupied: hold at the
	// minimum setback rather than chilling the room before a likely
	// return.
	stats.SetHour(18)
	stats.SetByHourStat(StatsOccupancyByHourSmoothed, 18, 90)
	for h := uint8(0); h < 24; h++ {
		if h != 18 {
			stats.SetByHourStat(StatsOccupancyByHourSmoothed, h, 10)
		}
	}

	if got := ComputeTargetTemp(params, in, 18*60); got != 19-params.SetbackDefaultC {
		t.Errorf("busy hour target = %d, want %d", got, 19-params.SetbackDefaultC)
	}
}

func TestTargetNeverBelowFrost(t *testing.T) {
	t.Parallel()
	params := DefaultParameters()
	in, _, sensors, _ := targetFixture(6, true)
	sensors.VacantLong = true

	// A full setback from a 6C WARM target would land at 2C; frost
	// protection must floor it.
	if got := ComputeTargetTemp(params, in, 0); got != params.FrostC {
		t.Errorf("floored target = %d, want %d", got, params.FrostC)
	}
}

func TestTargetSetbackLockout(t *testing.T) {
	t.Parallel()
	params := DefaultParameters()
	in, _, sensors, _ := targetFixture(19, true)
	sensors.VacantLong = true
	in.SetbackLockout = func() bool { return true }

	if got := ComputeTargetTemp(params, in, 0); got != 19 {
		t.Errorf("locked-out target = %d, want 19", got)
	}
}
