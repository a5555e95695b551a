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

// Package otradiolink implements the secureable small frame protocol
// used between networked thermostatic radiator valves and their hub.
//
// Frames are at most 64 bytes on the wire: a leading length byte, a
// compact header (type, sequence number, node ID prefix, body length),
// a body, and a trailer. Non-secure frames end in a 7-bit CRC byte;
// secure frames carry a 32-byte fixed-size encrypted body
// authenticated with AES-GCM, a 6-byte monotonic message counter, a
// 16-byte tag and a format byte. The counter doubles as the tail of
// the nonce and as replay protection: a receiver only accepts strictly
// increasing counters per provisioned sender.
//
// The main entry points are:
//
//   - EncodeNonsecureFrame / DecodeNonsecureFrame for plaintext frames
//   - SecureCodec for raw secure frame encode/decode with an injected
//     AEAD primitive
//   - SecureSession for stateful secure exchange: TX counter
//     persistence, association lookup and anti-replay
//   - Link for tying a session to a radio Transport
//
// Valve control logic (target temperature computation and the modelled
// valve state machine) lives in the valve subpackage; radio transports
// live under transport/.
package otradiolink
