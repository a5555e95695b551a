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
	"github.com/bimec/OTRadioLink/internal/frame"
)

// EncodeNonsecureFrame writes a complete plaintext frame with a 1-byte
// CRC trailer to dst and returns the total bytes written
// (frame length + 1).
func EncodeNonsecureFrame(
	dst []byte,
	ftype FrameType,
	seqNum uint8,
	id, body []byte,
) (int, error) {
	h, _, err := EncodeFrameHeader(
		dst, false, ftype, seqNum, id, len(body), frame.NonsecureTrailerLength)
	if err != nil {
		return 0, err
	}
	fl := h.FrameLength()
	if fl >= len(dst) {
		return 0, ErrBufferTooSmall
	}
	copy(dst[h.BodyOffset():], body)
	dst[fl] = frameCRC(dst[:fl])
	return fl + 1, nil
}

// EncodeNonsecureAliveBeacon writes an empty-body '!' frame announcing
// that the sender is alive.
func EncodeNonsecureAliveBeacon(dst []byte, seqNum uint8, id []byte) (int, error) {
	return EncodeNonsecureFrame(dst, FrameTypeAlive, seqNum, id, nil)
}

// DecodeNonsecureFrame validates the header and CRC trailer of the
// frame at the start of buf. It returns the decoded header and the
// total bytes consumed. The body remains in place at
// buf[h.BodyOffset():h.TrailerOffset()].
func DecodeNonsecureFrame(buf []byte) (*FrameHeader, int, error) {
	h, _, err := DecodeFrameHeader(buf)
	if err != nil {
		return nil, 0, err
	}
	if h.Secure() || h.TrailerLength() != frame.NonsecureTrailerLength {
		return nil, 0, ErrInvalidTrailerLength
	}
	fl := h.FrameLength()
	if len(buf) <= fl {
		return nil, 0, ErrFrameTooShort
	}
	if frameCRC(buf[:fl]) != buf[fl] {
		return nil, 0, ErrChecksumMismatch
	}
	return h, fl + 1, nil
}
