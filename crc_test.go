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

import "testing"

func TestFrameCRC(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		data []byte
		want byte
	}{
		{
			name: "short valve frame header and body",
			data: []byte{0x08, 0x4f, 0x02, 0x80, 0x81, 0x02, 0x00, 0x01},
			want: 0x23,
		},
		{
			name: "valve frame with JSON body",
			data: []byte{
				0x0e, 0x4f, 0x02, 0x80, 0x81, 0x08,
				0x7f, 0x11, 0x7b, 0x22, 0x62, 0x22, 0x3a, 0x31,
			},
			want: 0x61,
		},
		{
			name: "minimal alive beacon",
			data: []byte{0x04, 0x21, 0x00, 0x00},
			want: 0x65,
		},
		{
			name: "alive beacon with full zero ID",
			data: []byte{0x0c, 0x21, 0x48, 0, 0, 0, 0, 0, 0, 0, 0, 0x00},
			want: 0x29,
		},
		{
			name: "empty data returns the seed",
			data: nil,
			want: 0x7f,
		},
		{
			name: "zero result remapped to 0x80",
			data: []byte{0x49},
			want: 0x80,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := frameCRC(tt.data); got != tt.want {
				t.Errorf("frameCRC() = 0x%02x, want 0x%02x", got, tt.want)
			}
		})
	}
}

func TestFrameCRCNeverZero(t *testing.T) {
	t.Parallel()
	// The trailer byte may never be 0x00 on the wire; the zero remap
	// must hold for every single-byte input.
	for b := 0; b < 256; b++ {
		if got := frameCRC([]byte{byte(b)}); got == 0 {
			t.Errorf("frameCRC(%#02x) = 0", b)
		}
	}
}

func TestCRC7UpdateStaysSevenBit(t *testing.T) {
	t.Parallel()
	for crc := 0; crc < 0x80; crc++ {
		for b := 0; b < 256; b += 7 {
			if got := CRC7Update(byte(crc), byte(b)); got > 0x7f {
				t.Fatalf("CRC7Update(0x%02x, 0x%02x) = 0x%02x, above 7 bits", crc, b, got)
			}
		}
	}
}
