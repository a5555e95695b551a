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

// Package valve implements the modelled radiator valve control logic:
// target temperature computation from mode, occupancy, light and
// schedule inputs, and the per-minute valve position state machine.
//
// Temperatures are whole degrees Celsius unless a name carries the
// C16 suffix, in which case they are 1/16ths of a degree.
package valve

// Parameters describes one tuning of the control algorithm.
// The zero value is not useful; start from DefaultParameters.
type Parameters struct {
	// FrostC is the frost protection target in C, the floor under
	// every setback.
	FrostC uint8
	// MaxTargetC is the absolute ceiling for any target, BAKE included.
	MaxTargetC uint8
	// BakeUpliftC is added to the WARM target in BAKE mode.
	BakeUpliftC uint8
	// BakeTimeoutM is how many minutes BAKE runs before auto-cancel.
	BakeTimeoutM uint8

	// SetbackDefaultC is the small always-acceptable setback.
	SetbackDefaultC uint8
	// SetbackEcoC is the moderate setback for apparently vacant or
	// dark rooms.
	SetbackEcoC uint8
	// SetbackFullC is the deepest setback, for long vacancy and night.
	SetbackFullC uint8

	// EcoMaxC is the top of the eco temperature range: WARM targets at
	// or below it count as eco.
	EcoMaxC uint8
	// ComfortMinC is the bottom of the comfort range: WARM targets at
	// or above it count as comfort and inhibit the FULL setback.
	ComfortMinC uint8
}

// DefaultParameters returns the stock radiator valve tuning.
func DefaultParameters() Parameters {
	return Parameters{
		FrostC:          5,
		MaxTargetC:      32,
		BakeUpliftC:     5,
		BakeTimeoutM:    30,
		SetbackDefaultC: 1,
		SetbackEcoC:     2,
		SetbackFullC:    4,
		EcoMaxC:         17,
		ComfortMinC:     21,
	}
}

const (
	// MinReallyOpenPC is the default minimum percentage open for the
	// valve to be considered significantly open.
	MinReallyOpenPC = 15
	// ModeratelyOpenPC is the default threshold for moderate flow.
	ModeratelyOpenPC = 34
	// SaferOpenPC is the default safer percentage open, used as the
	// call-for-heat threshold and the glacial-forcing floor.
	SaferOpenPC = 50

	// MaxOpenPC is a fully open valve.
	MaxOpenPC = 100
)

const (
	// glacialSlewPC caps movement per tick in glacial mode.
	glacialSlewPC = 1
	// normalSlewPC caps movement per tick in normal operation.
	normalSlewPC = 5
	// fastSlewPC caps movement per tick when a fast response was
	// requested.
	fastSlewPC = 10
)

const (
	// deadbandC16 is the normal half-width of the no-movement band
	// around the target, in 1/16 C.
	deadbandC16 = 8
	// wideDeadbandC16 is the widened half-width used to save energy
	// and noise in dark or set-back rooms.
	wideDeadbandC16 = 16
)
