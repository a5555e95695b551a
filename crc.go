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

// crc7Seed is the initial value for the frame CRC; non-zero so that
// leading zero bytes still perturb the result.
const crc7Seed = 0x7f

// CRC7Update folds one byte into a 7-bit CRC
// (polynomial x^7+x^5+x^4+x^2+x+1).
func CRC7Update(crc, b byte) byte {
	for mask := byte(0x80); mask != 0; mask >>= 1 {
		bit := crc&0x40 != 0
		if b&mask != 0 {
			bit = !bit
		}
		crc <<= 1
		if bit {
			crc ^= 0x37
		}
	}
	return crc & 0x7f
}

// frameCRC computes the non-secure trailer CRC over data, remapping a
// zero result to 0x80 so the trailer byte can never be 0x00.
func frameCRC(data []byte) byte {
	crc := byte(crc7Seed)
	for _, b := range data {
		crc = CRC7Update(crc, b)
	}
	if crc == 0 {
		return 0x80
	}
	return crc
}
