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

// InputState is everything the per-tick valve position computation
// reads. It is rebuilt from the sensors before every tick; only
// RetainedState survives between ticks.
type InputState struct {
	// TargetTempC is the target temperature in C.
	TargetTempC uint8
	// MaxTargetTempC is the nominal WARM target in C, an upper bound
	// on TargetTempC outside BAKE.
	MaxTargetTempC uint8
	// MaxPCOpen is the maximum percentage the valve may open [0,100].
	MaxPCOpen uint8
	// Glacial caps valve movement at the slowest rate.
	Glacial bool
	// InBakeMode drives the valve fully open regardless of modelling.
	InBakeMode bool
	// HasEcoBias prefers energy saving over tight regulation.
	HasEcoBias bool
	// FastResponseRequired asks for quick valve movement, typically
	// because the user is at the controls.
	FastResponseRequired bool
	// WidenDeadband widens the no-movement band around the target.
	WidenDeadband bool
	// RefTempC16 is the reference (room) temperature in 1/16 C.
	RefTempC16 int16
}

// SetReferenceTemperatures captures the room temperature used for this
// tick's control decisions.
func (s *InputState) SetReferenceTemperatures(currentTempC16 int16) {
	s.RefTempC16 = currentTempC16
}

// SetupInputState fills an InputState from the freshly computed target
// temperature and the sensors. It does not second-guess
// ComputeTargetTemp in terms of setbacks.
func SetupInputState(
	state *InputState,
	params Parameters,
	in Inputs,
	newTargetC, maxPCOpen uint8,
	glacial bool,
) {
	state.TargetTempC = newTargetC
	wt := in.TempControl.WarmTargetC()
	state.MaxTargetTempC = wt
	state.MaxPCOpen = maxPCOpen
	// Force glacial when an unusually low maxPCOpen would interact
	// badly with the normal slew logic.
	state.Glacial = glacial || maxPCOpen < SaferOpenPC
	state.InBakeMode = in.Mode.InBakeMode()
	state.HasEcoBias = in.TempControl.HasEcoBias()
	// Fast response while the user is adjusting the controls, or just
	// after a strong fresh occupancy signal such as lights coming on.
	fastResponse := in.PhysicalUI.VeryRecentUIControlUse() ||
		in.Occupancy.ReportedNewOccupancyRecently()
	state.FastResponseRequired = fastResponse
	// Widen the deadband in a dark room or under any setback to cut
	// movement noise and battery drain, but not right after manual
	// control use when responsiveness matters more.
	state.WidenDeadband = !fastResponse &&
		(newTargetC < wt || in.AmbLight.IsRoomDark())
	state.SetReferenceTemperatures(in.Temperature.Get())
}
