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

package otradiolink

import (
	"bytes"

	"github.com/bimec/OTRadioLink/internal/frame"
)

// MessageCounter is the 6-byte big-endian monotonic counter carried in
// every secure frame trailer and used as the tail of the nonce. The
// first 3 bytes are a persisted restart prefix, the last 3 a
// per-session count; together they must never repeat for a given key.
type MessageCounter [frame.CounterLength]byte

// MessageCounterFromBytes builds a counter from exactly 6 bytes.
func MessageCounterFromBytes(b []byte) (MessageCounter, error) {
	var c MessageCounter
	if len(b) != frame.CounterLength {
		return c, ErrInvalidFrameLength
	}
	copy(c[:], b)
	return c, nil
}

// Compare returns -1, 0 or +1 as c is less than, equal to or greater
// than o, treating both as big-endian unsigned values.
func (c MessageCounter) Compare(o MessageCounter) int {
	return bytes.Compare(c[:], o[:])
}

// IsSaturated reports whether the counter has reached its maximum and
// can never be incremented again.
func (c MessageCounter) IsSaturated() bool {
	for _, b := range c {
		if b != 0xff {
			return false
		}
	}
	return true
}

// Add increments the counter by delta with carry propagation. A delta
// of zero always succeeds as a no-op. If the increment would wrap the
// whole counter, ErrCounterOverflow is returned and the counter is
// unchanged: a saturated counter is a permanent condition requiring
// fresh key/ID provisioning.
func (c *MessageCounter) Add(delta uint8) error {
	if delta == 0 {
		return nil
	}
	n := *c
	lsb := n[frame.CounterLength-1]
	bumped := lsb + delta
	n[frame.CounterLength-1] = bumped
	if bumped < lsb {
		// Carry into the more significant bytes.
		i := frame.CounterLength - 2
		for ; i >= 0; i-- {
			n[i]++
			if n[i] != 0 {
				break
			}
		}
		if i < 0 {
			return ErrCounterOverflow
		}
	}
	*c = n
	return nil
}
