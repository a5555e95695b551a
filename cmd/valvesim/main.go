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

// valvesim runs the valve control logic against a crude simulated
// room, printing one line per modelled minute. Useful for eyeballing
// setback and slew behavior without hardware.
package main

import (
	"flag"
	"fmt"
	"os"

	otradiolink "github.com/bimec/OTRadioLink"
	"github.com/bimec/OTRadioLink/valve"
)

type config struct {
	minutes   *int
	warmC     *int
	startC16  *int
	outsideC  *int
	ecoBias   *bool
	glacial   *bool
	dark      *bool
	vacant    *bool
	bake      *bool
	frostMode *bool
}

func parseFlags() *config {
	cfg := &config{
		minutes:   flag.Int("minutes", 180, "How many minutes to simulate"),
		warmC:     flag.Int("warm", 19, "WARM target temperature in C"),
		startC16:  flag.Int("start-c16", 16*16, "Starting room temperature in 1/16 C"),
		outsideC:  flag.Int("outside", 8, "Outside temperature in C for the heat loss model"),
		ecoBias:   flag.Bool("eco", true, "Eco bias (energy saving over tight regulation)"),
		glacial:   flag.Bool("glacial", false, "Glacial valve movement"),
		dark:      flag.Bool("dark", false, "Room dark throughout"),
		vacant:    flag.Bool("vacant", false, "Room apparently vacant throughout"),
		bake:      flag.Bool("bake", false, "Start with a BAKE boost"),
		frostMode: flag.Bool("frost", false, "Run in FROST mode instead of WARM"),
	}
	flag.Parse()
	return cfg
}

func main() {
	cfg := parseFlags()
	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "valvesim: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config) error {
	params := valve.DefaultParameters()
	mode := valve.NewSimpleMode(params.BakeTimeoutM)
	mode.SetWarmMode(!*cfg.frostMode)
	if *cfg.bake {
		mode.StartBake()
	}

	sensors := &valve.SimSensors{
		Vacant:      *cfg.vacant,
		RoomDark:    *cfg.dark,
		RoomTempC16: int16(*cfg.startC16),
	}
	if *cfg.dark {
		sensors.MinutesDark = 60
	}

	in := valve.Inputs{
		Mode: mode,
		TempControl: valve.SimpleTempControl{
			Params:  params,
			Frost:   params.FrostC,
			Warm:    uint8(*cfg.warmC),
			EcoBias: *cfg.ecoBias,
		},
		Occupancy:   sensors,
		AmbLight:    sensors,
		PhysicalUI:  sensors,
		Schedule:    sensors,
		Stats:       valve.NewMemStats(),
		Temperature: sensors,
	}

	var opts []valve.ControllerOption
	if *cfg.glacial {
		opts = append(opts, valve.WithGlacial())
	}
	ctrl := valve.NewController(params, in, otradiolink.NewMemStore(), opts...)

	fmt.Println("min\troomC16\ttargetC\tsetback\topen%\theat")
	for m := 0; m < *cfg.minutes; m++ {
		minuteOfDay := uint16(m % (24 * 60))
		ctrl.ComputeCallForHeat(minuteOfDay)
		mode.TickMinute()
		if *cfg.dark {
			sensors.MinutesDark++
		}

		fmt.Printf("%d\t%d\t%d\t%d\t%d\t%v\n",
			m, sensors.RoomTempC16, ctrl.TargetTempC(), ctrl.SetbackC(),
			ctrl.PercentOpen(), ctrl.IsCallingForHeat())

		sensors.RoomTempC16 = stepRoom(sensors.RoomTempC16, ctrl.PercentOpen(), int16(*cfg.outsideC)*16)
	}
	return nil
}

// stepRoom advances the room temperature one minute: heat input scales
// with valve opening, heat loss with the gap to outside. Roughly one
// degree per half hour at full blast.
func stepRoom(roomC16 int16, valvePC uint8, outsideC16 int16) int16 {
	gain := int16(valvePC) / 50
	loss := (roomC16 - outsideC16) / 256
	return roomC16 + gain - loss
}
