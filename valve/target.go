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

// Inputs bundles the sensors and settings the control logic reads.
// SetbackLockout may be nil meaning no lockout.
type Inputs struct {
	Mode           Mode
	TempControl    TempControl
	Occupancy      OccupancyTracker
	AmbLight       AmbientLight
	PhysicalUI     PhysicalUI
	Schedule       Schedule
	Stats          ByHourStats
	Temperature    TemperatureC16
	SetbackLockout func() bool
}

// Occupancy-count thresholds for judging whether the current hour is
// relatively busy, biased by the eco-vs-comfort preference.
const (
	relActiveThresholdEco     = 17
	relActiveThresholdComfort = 14
	// fullSetbackThresholdDrop lowers the threshold guarding the FULL
	// setback relative to the ECO one.
	fullSetbackThresholdDrop = 4
	// longDarkMinutes is darkness long enough to mean overnight.
	longDarkMinutes = 7 * 60
)

// ComputeTargetTemp computes the target temperature in C from the
// operating mode and sensor inputs. Pure function of its inputs, no
// side effects, callable at any rate.
//
// In FROST mode the frost protection target applies, except that an
// imminently scheduled WARM period pre-warms the room to a little
// below the WARM target. BAKE ignores setbacks entirely. WARM applies
// tiered setbacks (default, eco, full) driven by vacancy, darkness and
// the by-hour occupancy history, never dropping below frost
// protection.
func ComputeTargetTemp(params Parameters, in Inputs, minutesSinceMidnight uint16) uint8 {
	if !in.Mode.InWarmMode() {
		frostC := in.TempControl.FrostTargetC()

		// Pre-warm ahead of a scheduled WARM period so the room and its
		// surfaces can reach target on time, unless long vacant or the
		// user has recently touched the controls (allowing manual
		// cancellation of pre-heat).
		if !in.Occupancy.LongVacant() &&
			in.Schedule.IsAnyScheduleOnWARMSoon(minutesSinceMidnight) &&
			!in.PhysicalUI.RecentUIControlUse() {
			warmTarget := in.TempControl.WarmTargetC()
			setback := params.SetbackDefaultC
			if in.TempControl.IsEcoTemperature(warmTarget) {
				setback = params.SetbackEcoC
			}
			return maxU8(frostC, warmTarget-setback)
		}
		return frostC
	}

	if in.Mode.InBakeMode() {
		// Elevated target with no setbacks.
		return minU8(in.TempControl.WarmTargetC()+params.BakeUpliftC, params.MaxTargetC)
	}

	wt := in.TempControl.WarmTargetC()

	// Smart setbacks can be locked out entirely.
	if in.SetbackLockout != nil && in.SetbackLockout() {
		return wt
	}

	longVacant := in.Occupancy.LongVacant()
	confidentlyVacant := longVacant || in.Occupancy.ConfidentlyVacant()
	likelyVacantNow := confidentlyVacant || in.Occupancy.IsLikelyUnoccupied()

	// No setback unless apparently vacant and no scheduled WARM.
	allowSetback := likelyVacantNow &&
		(longVacant || !in.Schedule.IsAnyScheduleOnWARMNow(minutesSinceMidnight))
	if !allowSetback {
		return wt
	}

	// Default setback: small enough not to annoy, saves little energy.
	setback := params.SetbackDefaultC

	// Dark for many hours means overnight in winter; almost never true
	// in the afternoon or early evening even on long winter days.
	dm := in.AmbLight.DarkMinutes()

	scheduleOnSoon := in.Schedule.IsAnyScheduleOnWARMSoon(minutesSinceMidnight)
	hoursLessOccupiedThanThis := in.Stats.CountStatSamplesBelow(
		StatsOccupancyByHourSmoothed,
		in.Stats.GetByHourStat(StatsOccupancyByHourSmoothed, HourCurrent))

	thisHourThreshold := uint8(relActiveThresholdComfort)
	if in.TempControl.HasEcoBias() {
		thisHourThreshold = relActiveThresholdEco
	}
	relativelyActive := hoursLessOccupiedThanThis > thisHourThreshold

	// Hold at the minimum setback when a WARM period is imminent or
	// this hour is usually busy, unless vacant for the equivalent of a
	// decent night's sleep: avoid chilling the room just before a
	// return from work or school.
	inhibitECOSetback := !longVacant &&
		(scheduleOnSoon || (dm < longDarkMinutes && relativelyActive))

	if !inhibitECOSetback &&
		(confidentlyVacant ||
			(likelyVacantNow && hoursLessOccupiedThanThis <= 1) ||
			dm != 0) {
		setback = params.SetbackEcoC

		hoursLessOccupiedThanNext := in.Stats.CountStatSamplesBelow(
			StatsOccupancyByHourSmoothed,
			in.Stats.GetByHourStat(StatsOccupancyByHourSmoothed, HourNext))
		relativelyActiveSoon := hoursLessOccupiedThanNext > 2+thisHourThreshold

		// A lower occupancy threshold guards the FULL setback; lower
		// still when the room has not been dark for long.
		thresholdF := minU8(
			thisHourThreshold-fullSetbackThresholdDrop,
			thisHourThreshold/4+uint8(dm>>5))
		notInactive := hoursLessOccupiedThanThis > thresholdF

		// No FULL setback at the top of the comfort range.
		comfortTemperature := in.TempControl.IsComfortTemperature(wt)
		inhibitFULLSetback := comfortTemperature ||
			(dm < longDarkMinutes && (notInactive || relativelyActiveSoon))

		// Maximum setback for the night or a holiday: long vacancy, or
		// darkness with no strongly anticipated return. Drop through
		// quicker in darkness when the current and next hours are
		// rarely occupied, which also avoids revving the heating for a
		// brief lights-on in the middle of the night.
		veryQuiet := hoursLessOccupiedThanThis <= 1 || hoursLessOccupiedThanNext <= 1
		darkEnough := uint16(10)
		if veryQuiet {
			darkEnough = 2
		}
		if !inhibitFULLSetback && (longVacant || dm >= darkEnough) {
			setback = params.SetbackFullC
		}
	}

	// Never set low enough to create a frost or freeze hazard.
	return maxU8(wt-setback, in.TempControl.FrostTargetC())
}

func minU8(a, b uint8) uint8 {
	if a < b {
		return a
	}
	return b
}

func maxU8(a, b uint8) uint8 {
	if a > b {
		return a
	}
	return b
}
