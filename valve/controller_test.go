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

import (
	"testing"

	otradiolink "github.com/bimec/OTRadioLink"
)

func TestControllerCallsForHeatWhenCold(t *testing.T) {
	t.Parallel()
	in, _, sensors, _ := targetFixture(19, true)
	sensors.RoomTempC16 = 15 * 16
	c := NewController(DefaultParameters(), in, nil)

	ticks := 0
	for !c.IsCallingForHeat() {
		c.ComputeCallForHeat(0)
		ticks++
		if ticks > 30 {
			t.Fatal("never called for heat")
		}
	}

	// Call-for-heat needs the valve at least safely open, which takes
	// ten normal slew steps, plus one more tick to observe it.
	if ticks != 11 {
		t.Errorf("called for heat after %d ticks, want 11", ticks)
	}
	if got := c.PercentOpen(); got != 55 {
		t.Errorf("PercentOpen() = %d, want 55", got)
	}
	if got := c.TargetTempC(); got != 19 {
		t.Errorf("TargetTempC() = %d, want 19", got)
	}
	if !c.IsUnderTarget() {
		t.Error("IsUnderTarget() = false in a cold room")
	}
	if got := c.SetbackC(); got != 0 {
		t.Errorf("SetbackC() = %d while occupied, want 0", got)
	}
	if !c.ValveMoved() {
		t.Error("ValveMoved() = false while opening")
	}
	if got := c.CumulativeMovementPC(); got != 55 {
		t.Errorf("CumulativeMovementPC() = %d, want 55", got)
	}
}

func TestControllerStaysShutWhenWarm(t *testing.T) {
	t.Parallel()
	in, _, sensors, _ := targetFixture(19, true)
	sensors.RoomTempC16 = 22 * 16
	c := NewController(DefaultParameters(), in, nil)

	for i := 0; i < 5; i++ {
		c.ComputeCallForHeat(0)
	}
	if got := c.PercentOpen(); got != 0 {
		t.Errorf("PercentOpen() = %d, want 0", got)
	}
	if c.IsCallingForHeat() {
		t.Error("IsCallingForHeat() = true above target")
	}
	if c.IsUnderTarget() {
		t.Error("IsUnderTarget() = true above target")
	}
}

func TestControllerCancelsBakeOnceWarm(t *testing.T) {
	t.Parallel()
	in, mode, sensors, _ := targetFixture(19, true)
	mode.StartBake()
	// The room already exceeds the uplifted target.
	sensors.RoomTempC16 = 25 * 16
	c := NewController(DefaultParameters(), in, nil)

	c.ComputeCallForHeat(0)
	if mode.InBakeMode() {
		t.Error("BAKE still active with the room above the BAKE target")
	}
}

func TestControllerSetbackReported(t *testing.T) {
	t.Parallel()
	in, _, sensors, _ := targetFixture(19, true)
	sensors.VacantLong = true
	c := NewController(DefaultParameters(), in, nil)

	c.ComputeCallForHeat(0)
	if got := c.TargetTempC(); got != 15 {
		t.Errorf("TargetTempC() = %d, want 15", got)
	}
	if got := c.SetbackC(); got != 4 {
		t.Errorf("SetbackC() = %d, want 4", got)
	}
}

func TestControllerMinValvePCReallyOpen(t *testing.T) {
	t.Parallel()
	in, _, _, _ := targetFixture(19, true)
	store := otradiolink.NewMemStore()
	c := NewController(DefaultParameters(), in, store)

	if got := c.MinValvePCReallyOpen(); got != MinReallyOpenPC {
		t.Errorf("default MinValvePCReallyOpen() = %d, want %d", got, MinReallyOpenPC)
	}

	if err := c.SetMinValvePCReallyOpen(20); err != nil {
		t.Fatalf("SetMinValvePCReallyOpen(20): %v", err)
	}
	if got := c.MinValvePCReallyOpen(); got != 20 {
		t.Errorf("MinValvePCReallyOpen() = %d, want 20", got)
	}

	// Zero, out-of-range and default values all clear the override.
	for _, percent := range []uint8{0, 120, MinReallyOpenPC} {
		if err := c.SetMinValvePCReallyOpen(20); err != nil {
			t.Fatalf("SetMinValvePCReallyOpen(20): %v", err)
		}
		if err := c.SetMinValvePCReallyOpen(percent); err != nil {
			t.Fatalf("SetMinValvePCReallyOpen(%d): %v", percent, err)
		}
		if got := c.MinValvePCReallyOpen(); got != MinReallyOpenPC {
			t.Errorf("after SetMinValvePCReallyOpen(%d): %d, want %d",
				percent, got, MinReallyOpenPC)
		}
		if _, err := store.Get(minValvePCKey); err != otradiolink.ErrKeyNotFound {
			t.Errorf("override still stored after SetMinValvePCReallyOpen(%d)", percent)
		}
	}
}

func TestControllerMinValvePCWithoutStore(t *testing.T) {
	t.Parallel()
	in, _, _, _ := targetFixture(19, true)
	c := NewController(DefaultParameters(), in, nil)

	if err := c.SetMinValvePCReallyOpen(20); err != nil {
		t.Fatalf("SetMinValvePCReallyOpen(20): %v", err)
	}
	if got := c.MinValvePCReallyOpen(); got != MinReallyOpenPC {
		t.Errorf("MinValvePCReallyOpen() = %d, want %d", got, MinReallyOpenPC)
	}
}

func TestControllerSetbackLockout(t *testing.T) {
	t.Parallel()
	in, _, sensors, _ := targetFixture(19, true)
	sensors.VacantLong = true
	store := otradiolink.NewMemStore()
	c := NewController(DefaultParameters(), in, store)

	if err := c.SetSetbackLockoutDays(2); err != nil {
		t.Fatalf("SetSetbackLockoutDays(2): %v", err)
	}

	// While locked out no setback applies even long vacant.
	c.ComputeCallForHeat(0)
	if got := c.TargetTempC(); got != 19 {
		t.Errorf("locked-out TargetTempC() = %d, want 19", got)
	}
	if got := c.SetbackC(); got != 0 {
		t.Errorf("locked-out SetbackC() = %d, want 0", got)
	}

	// Lockout expires after its countdown.
	if err := c.TickSetbackLockoutDaily(); err != nil {
		t.Fatalf("TickSetbackLockoutDaily: %v", err)
	}
	c.ComputeCallForHeat(0)
	if got := c.TargetTempC(); got != 19 {
		t.Errorf("TargetTempC() = %d with a day left, want 19", got)
	}
	if err := c.TickSetbackLockoutDaily(); err != nil {
		t.Fatalf("TickSetbackLockoutDaily: %v", err)
	}
	c.ComputeCallForHeat(0)
	if got := c.TargetTempC(); got != 15 {
		t.Errorf("TargetTempC() = %d after lockout expiry, want 15", got)
	}

	// Expired lockouts tick away harmlessly.
	if err := c.TickSetbackLockoutDaily(); err != nil {
		t.Fatalf("TickSetbackLockoutDaily after expiry: %v", err)
	}
}

func TestControllerOptions(t *testing.T) {
	t.Parallel()
	in, _, sensors, _ := targetFixture(19, true)
	sensors.RoomTempC16 = 15 * 16
	c := NewController(DefaultParameters(), in, nil, WithGlacial(), WithMaxPCOpen(70))

	c.ComputeCallForHeat(0)
	if got := c.PercentOpen(); got != 1 {
		t.Errorf("glacial PercentOpen() = %d after one tick, want 1", got)
	}

	for i := 0; i < 200; i++ {
		c.ComputeCallForHeat(0)
	}
	if got := c.PercentOpen(); got != 70 {
		t.Errorf("PercentOpen() = %d, want capped at 70", got)
	}
}

func TestControllerPreferredPollInterval(t *testing.T) {
	t.Parallel()
	in, _, _, _ := targetFixture(19, true)
	c := NewController(DefaultParameters(), in, nil)
	if got := c.PreferredPollIntervalS(); got != 60 {
		t.Errorf("PreferredPollIntervalS() = %d, want 60", got)
	}
}

func TestSimpleMode(t *testing.T) {
	t.Parallel()
	m := NewSimpleMode(2)

	if m.InWarmMode() || m.InBakeMode() {
		t.Error("new mode control not in FROST")
	}

	// BAKE implies WARM.
	m.StartBake()
	if !m.InWarmMode() || !m.InBakeMode() {
		t.Error("StartBake did not enter WARM and BAKE")
	}

	// The BAKE boost times out on its own.
	m.TickMinute()
	if !m.InBakeMode() {
		t.Error("BAKE ended a minute early")
	}
	m.TickMinute()
	if m.InBakeMode() {
		t.Error("BAKE outlived its timeout")
	}
	if !m.InWarmMode() {
		t.Error("WARM mode lost when BAKE timed out")
	}

	// Dropping to FROST cancels a running BAKE.
	m.StartBake()
	m.SetWarmMode(false)
	if m.InWarmMode() || m.InBakeMode() {
		t.Error("SetWarmMode(false) did not cancel BAKE")
	}
}
