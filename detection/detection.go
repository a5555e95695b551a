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

// Package detection finds attached radio dongles.
package detection

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.bug.st/serial/enumerator"
)

// ErrNoDevicesFound is returned when detection finds no candidate
// radio attachments.
var ErrNoDevicesFound = errors.New("no radio devices found")

// DeviceInfo describes a detected radio attachment
type DeviceInfo struct {
	// Path is the device path to open ("/dev/ttyUSB0", "COM3").
	Path string
	// Name is a human-readable device description.
	Name string
	// Transport names the transport to use ("serial", "spi").
	Transport string
	// VIDPID is the USB vendor and product ID in "VID:PID" form, empty
	// for non-USB attachments.
	VIDPID string
}

// Options configures a detection pass
type Options struct {
	// Blocklist lists VID:PID pairs never to report.
	Blocklist []string
	// IgnorePaths lists device paths never to report.
	IgnorePaths []string
	// AllowAll reports every serial port rather than only those whose
	// USB IDs look like known radio dongles.
	AllowAll bool
}

// DefaultOptions returns detection options with the default blocklist.
func DefaultOptions() *Options {
	return &Options{
		Blocklist: DefaultBlocklist(),
	}
}

// knownDongles maps the USB IDs of radio dongle bridge chips seen in
// the field. These are generic USB-serial bridges so false positives
// are possible; AllowAll skips this filter entirely.
var knownDongles = map[string]string{
	"10C4:EA60": "CP210x USB-serial radio dongle",
	"0403:6001": "FT232 USB-serial radio dongle",
	"1A86:7523": "CH340 USB-serial radio dongle",
}

// DetectSerial lists serial-attached radio dongle candidates.
func DetectSerial(ctx context.Context, opts *Options) ([]DeviceInfo, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}

	var devices []DeviceInfo
	for _, port := range ports {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if IsPathIgnored(port.Name, opts.IgnorePaths) {
			continue
		}

		var vidpid string
		if port.IsUSB {
			vidpid = strings.ToUpper(port.VID + ":" + port.PID)
			if IsBlocked(vidpid, opts.Blocklist) {
				continue
			}
		}

		name, known := knownDongles[vidpid]
		if !known {
			if !opts.AllowAll {
				continue
			}
			name = port.Product
			if name == "" {
				name = port.Name
			}
		}

		devices = append(devices, DeviceInfo{
			Path:      port.Name,
			Name:      name,
			Transport: "serial",
			VIDPID:    vidpid,
		})
	}

	if len(devices) == 0 {
		return nil, ErrNoDevicesFound
	}
	return devices, nil
}
