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

// SimpleTempControl is a fixed-setpoint TempControl implementation.
type SimpleTempControl struct {
	// Params supplies the eco and comfort range boundaries.
	Params Parameters
	// Frost is the FROST protection target in C.
	Frost uint8
	// Warm is the nominal WARM target in C.
	Warm uint8
	// EcoBias prefers energy saving over tight regulation.
	EcoBias bool
}

// FrostTargetC returns the FROST target.
func (t SimpleTempControl) FrostTargetC() uint8 { return t.Frost }

// WarmTargetC returns the WARM target.
func (t SimpleTempControl) WarmTargetC() uint8 { return t.Warm }

// IsEcoTemperature returns true for targets at or below the eco
// boundary.
func (t SimpleTempControl) IsEcoTemperature(tempC uint8) bool {
	return tempC <= t.Params.EcoMaxC
}

// IsComfortTemperature returns true for targets at or above the
// comfort boundary.
func (t SimpleTempControl) IsComfortTemperature(tempC uint8) bool {
	return tempC >= t.Params.ComfortMinC
}

// HasEcoBias returns the configured bias.
func (t SimpleTempControl) HasEcoBias() bool { return t.EcoBias }

// SimSensors is a settable bundle of the sensor-side inputs,
// implementing OccupancyTracker, AmbientLight, PhysicalUI, Schedule
// and TemperatureC16. Used by the simulator and in tests.
type SimSensors struct {
	Vacant          bool
	VacantConfident bool
	VacantLong      bool
	NewOccupancy    bool
	RoomDark        bool
	MinutesDark     uint16
	UIUseRecent     bool
	UIUseVeryRecent bool
	ScheduleOnNow   bool
	ScheduleOnSoon  bool
	RoomTempC16     int16
}

// LongVacant returns true after roughly a day without activity.
func (s *SimSensors) LongVacant() bool { return s.VacantLong }

// ConfidentlyVacant returns true when vacancy is near certain.
func (s *SimSensors) ConfidentlyVacant() bool { return s.VacantLong || s.VacantConfident }

// IsLikelyUnoccupied returns true when the room is probably empty.
func (s *SimSensors) IsLikelyUnoccupied() bool {
	return s.Vacant || s.VacantConfident || s.VacantLong
}

// ReportedNewOccupancyRecently returns true just after a strong fresh
// occupancy signal.
func (s *SimSensors) ReportedNewOccupancyRecently() bool { return s.NewOccupancy }

// IsRoomDark returns true when the room is dark.
func (s *SimSensors) IsRoomDark() bool { return s.RoomDark }

// DarkMinutes returns how long the room has been dark.
func (s *SimSensors) DarkMinutes() uint16 { return s.MinutesDark }

// RecentUIControlUse returns true for a while after manual control
// use.
func (s *SimSensors) RecentUIControlUse() bool { return s.UIUseRecent || s.UIUseVeryRecent }

// VeryRecentUIControlUse returns true briefly after manual control
// use.
func (s *SimSensors) VeryRecentUIControlUse() bool { return s.UIUseVeryRecent }

// IsAnyScheduleOnWARMNow reports a WARM period covering now.
func (s *SimSensors) IsAnyScheduleOnWARMNow(uint16) bool { return s.ScheduleOnNow }

// IsAnyScheduleOnWARMSoon reports a WARM period starting soon.
func (s *SimSensors) IsAnyScheduleOnWARMSoon(uint16) bool { return s.ScheduleOnSoon }

// Get returns the room temperature in 1/16 C.
func (s *SimSensors) Get() int16 { return s.RoomTempC16 }
