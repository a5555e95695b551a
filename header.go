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

// FrameType identifies the payload carried by a frame.
// Bit 7 of the on-wire type byte is the secure flag, not part of the type.
type FrameType byte

const (
	// FrameTypeNone is the reserved invalid low sentinel.
	FrameTypeNone FrameType = 0x00
	// FrameTypeAlive is a frequent lightweight presence beacon ('!').
	FrameTypeAlive FrameType = 0x21
	// FrameTypeBasicSensorOrValve carries valve position and stats ('O').
	FrameTypeBasicSensorOrValve FrameType = 0x4f
	// frameTypeInvalidHigh is the reserved invalid high sentinel.
	frameTypeInvalidHigh FrameType = 0x7f

	// secureFlag is OR'd into the on-wire type byte for secure frames.
	secureFlag byte = 0x80
)

// Valid reports whether t is a usable frame type
// (strictly between the reserved sentinels).
func (t FrameType) Valid() bool {
	return t > FrameTypeNone && t < frameTypeInvalidHigh
}

// FrameHeader is a validated frame header. A FrameHeader is only ever
// produced by a successful EncodeFrameHeader or DecodeFrameHeader call
// and is read-only thereafter.
type FrameHeader struct {
	id          [frame.MaxIDLength]byte
	frameLength uint8
	frameType   FrameType
	secure      bool
	seqNum      uint8
	idLen       uint8
	bodyLength  uint8
}

// FrameLength returns the value of the leading length byte: the number
// of bytes following it on the wire.
func (h *FrameHeader) FrameLength() int { return int(h.frameLength) }

// TotalLength returns the whole on-wire frame size including the
// length byte itself.
func (h *FrameHeader) TotalLength() int { return int(h.frameLength) + 1 }

// Type returns the frame type with the secure flag stripped.
func (h *FrameHeader) Type() FrameType { return h.frameType }

// Secure reports whether the secure flag is set.
func (h *FrameHeader) Secure() bool { return h.secure }

// SeqNum returns the 4-bit sequence number.
func (h *FrameHeader) SeqNum() uint8 { return h.seqNum }

// ID returns a copy of the header's node ID (prefix) bytes.
func (h *FrameHeader) ID() []byte {
	id := make([]byte, h.idLen)
	copy(id, h.id[:h.idLen])
	return id
}

// IDLength returns the number of ID bytes carried in the header.
func (h *FrameHeader) IDLength() int { return int(h.idLen) }

// BodyLength returns the number of body bytes.
func (h *FrameHeader) BodyLength() int { return int(h.bodyLength) }

// HeaderLength returns the number of bytes up to and including the
// body-length byte, ie 4 + IDLength.
func (h *FrameHeader) HeaderLength() int { return 4 + int(h.idLen) }

// BodyOffset returns the offset of the first body byte from the start
// of the frame buffer.
func (h *FrameHeader) BodyOffset() int { return h.HeaderLength() }

// TrailerOffset returns the offset of the first trailer byte from the
// start of the frame buffer.
func (h *FrameHeader) TrailerOffset() int { return h.HeaderLength() + int(h.bodyLength) }

// TrailerLength returns the number of trailer bytes implied by the
// frame length: 1 for non-secure frames, 23 for secure ones.
func (h *FrameHeader) TrailerLength() int {
	return int(h.frameLength) - 3 - int(h.idLen) - int(h.bodyLength)
}

// EncodeFrameHeader validates the header parameters and writes the
// header bytes [length, type|secure, seq<<4|idLen, id..., bodyLength]
// to the start of dst.
//
// Validation is ordered to fail fast on the cheapest checks. On any
// failure nothing useful has been written and no header is returned.
// On success it returns the validated header and the number of header
// bytes written (4 + len(id)).
func EncodeFrameHeader(
	dst []byte,
	secure bool,
	ftype FrameType,
	seqNum uint8,
	id []byte,
	bodyLen, trailerLen int,
) (*FrameHeader, int, error) {
	if !ftype.Valid() {
		return nil, 0, ErrInvalidFrameType
	}
	idLen := len(id)
	if idLen > frame.MaxIDLength {
		return nil, 0, ErrInvalidIDLength
	}
	hl := 4 + idLen
	if hl > len(dst) {
		return nil, 0, ErrBufferTooSmall
	}
	if bodyLen < 0 || bodyLen > frame.MaxFrameLength-hl {
		return nil, 0, ErrBodyTooLarge
	}
	if !secure {
		if trailerLen != frame.NonsecureTrailerLength {
			return nil, 0, ErrInvalidTrailerLength
		}
	} else {
		// Trailer must exist and the whole frame must still fit.
		if trailerLen < 1 || trailerLen > frame.MaxFrameLength+1-hl-bodyLen {
			return nil, 0, ErrInvalidTrailerLength
		}
	}
	fl := hl - 1 + bodyLen + trailerLen

	h := &FrameHeader{
		frameType:  ftype,
		secure:     secure,
		seqNum:     seqNum & 0xf,
		idLen:      uint8(idLen),
		bodyLength: uint8(bodyLen),
	}
	copy(h.id[:], id)

	typeByte := byte(ftype)
	if secure {
		typeByte |= secureFlag
	}
	dst[1] = typeByte
	dst[2] = (h.seqNum << 4) | uint8(idLen)
	copy(dst[3:3+idLen], id)
	dst[hl-1] = uint8(bodyLen)
	// The length byte is written last, marking the header complete.
	dst[0] = uint8(fl)
	h.frameLength = uint8(fl)

	return h, hl, nil
}

// DecodeFrameHeader validates the header at the start of buf and
// returns it along with the header length (4 + idLen).
//
// These are the Quick Integrity Checks: every rule is cheap and they
// run in a fixed order before any CRC or cryptographic work. buf may
// hold a partial frame as long as the full header is present; the
// forbidden-final-byte rule is only applied when the complete frame is
// available.
func DecodeFrameHeader(buf []byte) (*FrameHeader, int, error) {
	if len(buf) < frame.MinDecodeLength {
		return nil, 0, ErrFrameTooShort
	}
	fl := int(buf[0])
	if fl < frame.MinFrameLength || fl > frame.MaxFrameLength {
		return nil, 0, ErrInvalidFrameLength
	}
	secure := buf[1]&secureFlag != 0
	ftype := FrameType(buf[1] &^ secureFlag)
	if !ftype.Valid() {
		return nil, 0, ErrInvalidFrameType
	}
	idLen := int(buf[2] & 0xf)
	if idLen > frame.MaxIDLength || idLen > fl-4 {
		return nil, 0, ErrInvalidIDLength
	}
	hl := 4 + idLen
	if hl > len(buf) {
		return nil, 0, ErrFrameTooShort
	}
	bodyLen := int(buf[hl-1])
	if bodyLen > fl-hl {
		return nil, 0, ErrInvalidBodyLength
	}
	if len(buf) > fl {
		if last := buf[fl]; last == 0x00 || last == 0xff {
			return nil, 0, ErrInvalidTrailerByte
		}
	}
	tl := fl - 3 - idLen - bodyLen
	if !secure {
		if tl != frame.NonsecureTrailerLength {
			return nil, 0, ErrInvalidTrailerLength
		}
	} else if tl < 1 {
		return nil, 0, ErrInvalidTrailerLength
	}

	h := &FrameHeader{
		frameType:  ftype,
		secure:     secure,
		seqNum:     buf[2] >> 4,
		idLen:      uint8(idLen),
		bodyLength: uint8(bodyLen),
	}
	copy(h.id[:], buf[3:3+idLen])
	h.frameLength = uint8(fl)

	return h, hl, nil
}
