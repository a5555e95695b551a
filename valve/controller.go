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
	otradiolink "github.com/bimec/OTRadioLink"
)

// Store keys for the persisted valve settings.
const (
	minValvePCKey     = "valve/minpcopen"
	setbackLockoutKey = "valve/setbacklockout"
)

// Controller models the radiator valve: it recomputes the target
// temperature and the required percentage open once per minute, and
// tracks call-for-heat state for the boiler.
//
// Not safe for concurrent use; drive it from a single control loop.
type Controller struct {
	params   Parameters
	in       Inputs
	store    otradiolink.Store
	retained *RetainedState

	inputState InputState
	glacial    bool
	maxPCOpen  uint8

	value          uint8
	setbackC       uint8
	underTarget    bool
	callingForHeat bool
}

// ControllerOption configures a Controller
type ControllerOption func(*Controller)

// WithGlacial pre-selects the slowest valve movement rate, for
// heat-pump, district-heating and similar slow-response or
// pay-by-volume systems.
func WithGlacial() ControllerOption {
	return func(c *Controller) { c.glacial = true }
}

// WithMaxPCOpen limits the maximum percentage open, to cap flow rate
// or keep return temperatures low for condensing boilers.
func WithMaxPCOpen(maxPC uint8) ControllerOption {
	return func(c *Controller) { c.maxPCOpen = minU8(maxPC, MaxOpenPC) }
}

// NewController creates a valve controller. store persists the
// min-percent-open override and the setback lockout and may be nil,
// in which case defaults apply and no lockout is possible.
func NewController(params Parameters, in Inputs, store otradiolink.Store, opts ...ControllerOption) *Controller {
	c := &Controller{
		params:    params,
		in:        in,
		store:     store,
		maxPCOpen: MaxOpenPC,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.retained = NewRetainedState(c.glacial)
	if store != nil && c.in.SetbackLockout == nil {
		c.in.SetbackLockout = c.setbackLockoutActive
	}
	return c
}

// ComputeCallForHeat recomputes the target temperature and the valve
// position, and updates call-for-heat state. Call once per minute.
func (c *Controller) ComputeCallForHeat(minutesSinceMidnight uint16) {
	c.computeTargetTemperature(minutesSinceMidnight)
	c.value = c.retained.Tick(c.value, &c.inputState)
}

// computeTargetTemperature recomputes the target and derived
// monitoring state, and cancels BAKE once the target is met.
func (c *Controller) computeTargetTemperature(minutesSinceMidnight uint16) {
	newTarget := ComputeTargetTemp(c.params, c.in, minutesSinceMidnight)
	SetupInputState(&c.inputState, c.params, c.in, newTarget, c.maxPCOpen, c.glacial)

	// Track the actual setback in WARM mode for monitoring.
	c.setbackC = 0
	if c.in.Mode.InWarmMode() {
		if wt := c.in.TempControl.WarmTargetC(); newTarget < wt {
			c.setbackC = wt - newTarget
		}
	}

	targetReached := newTarget <= uint8(c.inputState.RefTempC16>>4)
	c.underTarget = !targetReached
	// Cancel any BAKE in progress once the room is warm, to prevent
	// indefinite maximum heat demand.
	if targetReached {
		c.in.Mode.CancelBakeDebounced()
	}
	// Only report calling for heat when actively doing so; opening the
	// valve a little in case the boiler is already running does not
	// count.
	c.callingForHeat = !targetReached &&
		c.value >= SaferOpenPC &&
		c.IsControlledValveReallyOpen()
}

// PercentOpen returns the computed valve percentage open [0,100].
func (c *Controller) PercentOpen() uint8 { return c.value }

// TargetTempC returns the current target temperature in C.
func (c *Controller) TargetTempC() uint8 { return c.inputState.TargetTempC }

// SetbackC returns the current setback below the WARM target in C,
// zero when none (and generally in FROST or BAKE).
func (c *Controller) SetbackC() uint8 { return c.setbackC }

// IsUnderTarget returns true while the room is below target.
func (c *Controller) IsUnderTarget() bool { return c.underTarget }

// IsCallingForHeat returns true while this valve wants the boiler on:
// significantly under target with the valve really open.
func (c *Controller) IsCallingForHeat() bool { return c.callingForHeat }

// ValveMoved returns true if the last tick changed the position.
func (c *Controller) ValveMoved() bool { return c.retained.ValveMoved }

// CumulativeMovementPC returns cumulative valve movement in percent,
// rolling at 1024.
func (c *Controller) CumulativeMovementPC() uint16 {
	return c.retained.CumulativeMovementPC
}

// IsControlledValveReallyOpen returns true if the valve is open enough
// for significant flow.
func (c *Controller) IsControlledValveReallyOpen() bool {
	return c.value >= c.MinValvePCReallyOpen()
}

// PreferredPollIntervalS returns the poll rate ComputeCallForHeat
// expects, in seconds.
func (*Controller) PreferredPollIntervalS() uint8 { return 60 }

// MinValvePCReallyOpen returns the minimum percentage open considered
// significantly open [1,100], honoring any persisted override.
func (c *Controller) MinValvePCReallyOpen() uint8 {
	if c.store == nil {
		return MinReallyOpenPC
	}
	v, err := c.store.Get(minValvePCKey)
	if err != nil || len(v) != 1 {
		return MinReallyOpenPC
	}
	if stored := v[0]; stored > 0 && stored <= 100 {
		return stored
	}
	return MinReallyOpenPC
}

// SetMinValvePCReallyOpen overrides the really-open threshold. Zero,
// out-of-range and default values erase the override instead.
func (c *Controller) SetMinValvePCReallyOpen(percent uint8) error {
	if c.store == nil {
		return nil
	}
	if percent == 0 || percent > 100 || percent == MinReallyOpenPC {
		return c.store.Erase(minValvePCKey)
	}
	return c.store.Set(minValvePCKey, []byte{percent})
}

// setbackLockoutActive returns true while a persisted lockout
// countdown is running; smart setbacks are suppressed entirely.
func (c *Controller) setbackLockoutActive() bool {
	v, err := c.store.Get(setbackLockoutKey)
	return err == nil && len(v) == 1 && v[0] > 0
}

// SetSetbackLockoutDays starts (or with zero clears) the setback
// lockout countdown.
func (c *Controller) SetSetbackLockoutDays(days uint8) error {
	if c.store == nil {
		return nil
	}
	if days == 0 {
		return c.store.Erase(setbackLockoutKey)
	}
	return c.store.Set(setbackLockoutKey, []byte{days})
}

// TickSetbackLockoutDaily counts the lockout down by one day, erasing
// it when it reaches zero. Call once per day.
func (c *Controller) TickSetbackLockoutDaily() error {
	if c.store == nil {
		return nil
	}
	v, err := c.store.Get(setbackLockoutKey)
	if err != nil || len(v) != 1 || v[0] == 0 {
		return nil
	}
	if v[0] == 1 {
		return c.store.Erase(setbackLockoutKey)
	}
	return c.store.Set(setbackLockoutKey, []byte{v[0] - 1})
}
