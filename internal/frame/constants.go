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

// Package frame provides wire-format constants for the secureable small frame protocol
package frame

// Frame size limits
const (
	// MaxFrameLength is the maximum value of the leading length byte,
	// ie the maximum number of bytes that follow it on the wire.
	MaxFrameLength = 63
	// MinFrameLength is the smallest legal length-byte value
	// (type + seq/il + zero-length ID + body length, no body, no trailer byte counted here).
	MinFrameLength = 4
	// MinDecodeLength is the smallest buffer a header decode will even look at:
	// length byte plus the four mandatory header bytes of an ID-less frame.
	MinDecodeLength = 5
	// MaxIDLength is the largest node ID (prefix) carried in a header.
	MaxIDLength = 8
)

// Trailer layout
const (
	// NonsecureTrailerLength is a single 7-bit CRC byte.
	NonsecureTrailerLength = 1
	// SecureTrailerLength is counter + tag + format byte.
	SecureTrailerLength = CounterLength + TagLength + 1
	// SecureFormatByte terminates every secure frame and doubles as a
	// cheap integrity check (never 0x00 or 0xff).
	SecureFormatByte = 0x80
)

// Cryptographic element sizes
const (
	// CounterLength is the size of the monotonic message counter
	// carried at the start of a secure trailer.
	CounterLength = 6
	// TagLength is the authentication tag size.
	TagLength = 16
	// NonceLength is ID prefix (6) + counter (6).
	NonceLength = 12
	// NonceIDPrefixLength is the number of leading node ID bytes folded
	// into the nonce.
	NonceIDPrefixLength = 6
	// KeyLength is the symmetric key size (AES-128).
	KeyLength = 16
	// PaddedBodyLength is the fixed encrypted-body size; a secure frame
	// body is always either empty or exactly this long.
	PaddedBodyLength = 32
	// MaxUnpaddedBodyLength is the largest plaintext body that fits the
	// fixed padding scheme (one byte is reserved for the pad count).
	MaxUnpaddedBodyLength = PaddedBodyLength - 1
)
