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

// Mode exposes the user-selected operating mode.
type Mode interface {
	// InWarmMode returns true in WARM or BAKE, false in FROST.
	InWarmMode() bool
	// InBakeMode returns true while a BAKE boost is active.
	InBakeMode() bool
	// CancelBakeDebounced requests cancellation of any active BAKE.
	CancelBakeDebounced()
}

// TempControl exposes the user temperature settings.
type TempControl interface {
	// FrostTargetC returns the FROST protection target in C.
	FrostTargetC() uint8
	// WarmTargetC returns the nominal WARM target in C.
	WarmTargetC() uint8
	// IsEcoTemperature returns true if tempC is near the bottom of the
	// settable range.
	IsEcoTemperature(tempC uint8) bool
	// IsComfortTemperature returns true if tempC is near the top of
	// the settable range.
	IsComfortTemperature(tempC uint8) bool
	// HasEcoBias returns true if the user prefers energy saving over
	// tight temperature regulation.
	HasEcoBias() bool
}

// OccupancyTracker exposes derived room occupancy signals.
type OccupancyTracker interface {
	// LongVacant returns true after roughly a day without activity.
	LongVacant() bool
	// ConfidentlyVacant returns true when vacancy is near certain,
	// sooner than LongVacant.
	ConfidentlyVacant() bool
	// IsLikelyUnoccupied returns true when the room is probably empty
	// right now.
	IsLikelyUnoccupied() bool
	// ReportedNewOccupancyRecently returns true shortly after a strong
	// fresh occupancy signal such as lights coming on.
	ReportedNewOccupancyRecently() bool
}

// AmbientLight exposes the room light sensor.
type AmbientLight interface {
	// IsRoomDark returns true when the room is dark, false when light
	// or when the sensor is unusable.
	IsRoomDark() bool
	// DarkMinutes returns how long the room has been continuously
	// dark, in minutes, 0 when not dark.
	DarkMinutes() uint16
}

// Schedule exposes the simple on/off WARM schedule.
type Schedule interface {
	// IsAnyScheduleOnWARMNow returns true if a WARM period covers the
	// given minutes-since-midnight.
	IsAnyScheduleOnWARMNow(minutesSinceMidnight uint16) bool
	// IsAnyScheduleOnWARMSoon returns true if a WARM period starts
	// within the pre-warm horizon of the given time.
	IsAnyScheduleOnWARMSoon(minutesSinceMidnight uint16) bool
}

// PhysicalUI exposes recent manual control activity.
type PhysicalUI interface {
	// RecentUIControlUse returns true for a while after any manual
	// control use.
	RecentUIControlUse() bool
	// VeryRecentUIControlUse returns true briefly after manual control
	// use, while the user is plausibly still at the dial.
	VeryRecentUIControlUse() bool
}

// TemperatureC16 exposes the room temperature sensor in 1/16 C.
type TemperatureC16 interface {
	// Get returns the current room temperature in 1/16 C.
	Get() int16
}
