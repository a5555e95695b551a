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

// SimpleMode is a basic Mode implementation: FROST or WARM selected by
// the user, with a time-limited BAKE boost on top of WARM.
type SimpleMode struct {
	warm         bool
	bakeLeftM    uint8
	bakeTimeoutM uint8
}

// NewSimpleMode creates a mode control starting in FROST.
// bakeTimeoutM is how many minutes a BAKE boost runs.
func NewSimpleMode(bakeTimeoutM uint8) *SimpleMode {
	return &SimpleMode{bakeTimeoutM: bakeTimeoutM}
}

// SetWarmMode switches between WARM and FROST; leaving WARM cancels
// any BAKE.
func (m *SimpleMode) SetWarmMode(warm bool) {
	m.warm = warm
	if !warm {
		m.bakeLeftM = 0
	}
}

// StartBake begins a BAKE boost, implying WARM mode.
func (m *SimpleMode) StartBake() {
	m.warm = true
	m.bakeLeftM = m.bakeTimeoutM
}

// InWarmMode returns true in WARM or BAKE.
func (m *SimpleMode) InWarmMode() bool { return m.warm }

// InBakeMode returns true while a BAKE boost is active.
func (m *SimpleMode) InBakeMode() bool { return m.bakeLeftM > 0 }

// CancelBakeDebounced ends any BAKE boost.
func (m *SimpleMode) CancelBakeDebounced() { m.bakeLeftM = 0 }

// TickMinute counts the BAKE timeout down. Call once per minute.
func (m *SimpleMode) TickMinute() {
	if m.bakeLeftM > 0 {
		m.bakeLeftM--
	}
}
