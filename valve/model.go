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

// refTempJitterC16 is the per-tick reference temperature change that
// turns temperature filtering on.
const refTempJitterC16 = 8

// RetainedState is the valve position model state carried from tick to
// tick. Everything else is recomputed from the sensors each tick.
type RetainedState struct {
	// IsFiltering is true while the reference temperature is judged
	// too jittery to act on directly; it forces the wide deadband.
	IsFiltering bool
	// ValveMoved is true if the last Tick changed the valve position.
	ValveMoved bool
	// CumulativeMovementPC accumulates absolute valve movement for
	// wear monitoring; rolls at 1024 so it stays in [0,1023].
	CumulativeMovementPC uint16

	prevRefC16     int16
	haveRef        bool
	defaultGlacial bool
}

// NewRetainedState creates tick state; defaultGlacial pre-selects the
// slowest movement rate for slow-response heat sources.
func NewRetainedState(defaultGlacial bool) *RetainedState {
	return &RetainedState{defaultGlacial: defaultGlacial}
}

// cumulativeMovementMask keeps the wear counter in [0,1023].
const cumulativeMovementMask = 1024 - 1

// Tick computes the new valve percentage open from the current one
// and the freshly prepared input state. Call at a fixed rate, once per
// minute. Updates ValveMoved and the movement counter.
func (s *RetainedState) Tick(valvePCOpen uint8, in *InputState) uint8 {
	s.updateFiltering(in.RefTempC16)

	deadband := int16(deadbandC16)
	if in.WidenDeadband || s.IsFiltering {
		deadband = wideDeadbandC16
	}
	targetC16 := int16(in.TargetTempC) << 4

	// Where the valve is headed this tick.
	desired := valvePCOpen
	switch {
	case in.InBakeMode:
		// Maximum heat input, no modelling.
		desired = in.MaxPCOpen
	case in.RefTempC16 < targetC16-deadband:
		// Under target beyond the deadband: open up.
		desired = in.MaxPCOpen
	case in.RefTempC16 >= targetC16:
		// At or above target: close down.
		desired = 0
	}
	if desired > in.MaxPCOpen {
		desired = in.MaxPCOpen
	}

	newPC := slewTowards(valvePCOpen, desired, s.slewCap(in))

	moved := absDiffU8(newPC, valvePCOpen)
	s.CumulativeMovementPC = (s.CumulativeMovementPC + uint16(moved)) & cumulativeMovementMask
	s.ValveMoved = moved != 0
	return newPC
}

// slewCap bounds how far the valve may move in one tick.
func (s *RetainedState) slewCap(in *InputState) uint8 {
	switch {
	case in.Glacial || s.defaultGlacial:
		return glacialSlewPC
	case in.FastResponseRequired || in.InBakeMode:
		return fastSlewPC
	default:
		return normalSlewPC
	}
}

// updateFiltering turns temperature filtering on when the reference
// temperature jumps, and off once it settles again.
func (s *RetainedState) updateFiltering(refC16 int16) {
	if s.haveRef {
		delta := refC16 - s.prevRefC16
		if delta < 0 {
			delta = -delta
		}
		s.IsFiltering = delta >= refTempJitterC16
	}
	s.prevRefC16 = refC16
	s.haveRef = true
}

// slewTowards moves current towards desired by at most limit.
func slewTowards(current, desired, limit uint8) uint8 {
	switch {
	case desired > current:
		if d := desired - current; d > limit {
			return current + limit
		}
		return desired
	case desired < current:
		if d := current - desired; d > limit {
			return current - limit
		}
		return desired
	default:
		return current
	}
}

func absDiffU8(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
