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

// Pad32 pads data of length dataLen in place within buf to the fixed
// 32-byte encrypted-body size: the bytes after the data are zeroed and
// the final byte holds the count of zero padding bytes. buf must be at
// least 32 bytes and dataLen at most 31. Returns the padded length (32).
func Pad32(buf []byte, dataLen int) (int, error) {
	if len(buf) < frame.PaddedBodyLength {
		return 0, ErrBufferTooSmall
	}
	if dataLen < 0 || dataLen > frame.MaxUnpaddedBodyLength {
		return 0, ErrBodyTooLarge
	}
	padding := frame.MaxUnpaddedBodyLength - dataLen
	for i := dataLen; i < frame.MaxUnpaddedBodyLength; i++ {
		buf[i] = 0
	}
	buf[frame.PaddedBodyLength-1] = byte(padding)
	return frame.PaddedBodyLength, nil
}

// Unpad32 returns the original data length of a 32-byte padded body.
// A padding count above 31 yields ErrInvalidPadding, keeping the
// corrupt-count case distinct from a valid zero-length body. The
// padding bytes themselves are not checked: integrity rests entirely
// on the authentication tag.
func Unpad32(buf []byte) (int, error) {
	if len(buf) < frame.PaddedBodyLength {
		return 0, ErrBufferTooSmall
	}
	padding := int(buf[frame.PaddedBodyLength-1])
	if padding > frame.MaxUnpaddedBodyLength {
		return 0, ErrInvalidPadding
	}
	return frame.MaxUnpaddedBodyLength - padding, nil
}

// SecureCodec encodes and decodes individual secure frames with an
// injected AEAD. It owns the AEAD workspace; a SecureCodec must not be
// shared between goroutines without external locking (SecureSession
// provides that).
type SecureCodec struct {
	aead      AEAD
	workspace []byte
	scratch   [frame.PaddedBodyLength]byte
}

// NewSecureCodec returns a codec using the given AEAD, allocating a
// workspace of the size the AEAD requires.
func NewSecureCodec(aead AEAD) *SecureCodec {
	return &SecureCodec{
		aead:      aead,
		workspace: make([]byte, aead.WorkspaceRequired()),
	}
}

// EncodeRaw writes a complete secure frame to dst: header, encrypted
// padded body (if any), then the trailer of counter bytes, tag and
// format byte. The sequence number is taken from the low bits of the
// final nonce byte, binding it to the message counter. Returns the
// total bytes written (frame length + 1).
func (c *SecureCodec) EncodeRaw(
	dst []byte,
	ftype FrameType,
	id []byte,
	body []byte,
	nonce []byte,
	key []byte,
) (int, error) {
	if len(key) != frame.KeyLength {
		return 0, ErrInvalidKeyLength
	}
	if len(nonce) != frame.NonceLength {
		return 0, ErrInvalidNonceLength
	}
	if len(body) > frame.MaxUnpaddedBodyLength {
		return 0, ErrBodyTooLarge
	}
	encryptedLen := 0
	if len(body) > 0 {
		encryptedLen = frame.PaddedBodyLength
	}
	seqNum := nonce[frame.NonceLength-1] & 0xf

	h, hl, err := EncodeFrameHeader(
		dst, true, ftype, seqNum, id, encryptedLen, frame.SecureTrailerLength)
	if err != nil {
		return 0, err
	}
	fl := h.FrameLength()
	if fl >= len(dst) {
		return 0, ErrBufferTooSmall
	}

	var plaintext []byte
	if encryptedLen > 0 {
		copy(c.scratch[:], body)
		if _, err := Pad32(c.scratch[:], len(body)); err != nil {
			return 0, err
		}
		plaintext = c.scratch[:]
		defer zeroBytes(c.scratch[:])
	}

	tagOff := fl - frame.TagLength
	err = c.aead.Encrypt(
		c.workspace, key, nonce,
		dst[:hl], plaintext,
		dst[hl:hl+encryptedLen], dst[tagOff:fl])
	if err != nil {
		return 0, err
	}

	ctrOff := fl - frame.SecureTrailerLength + 1
	copy(dst[ctrOff:ctrOff+frame.CounterLength], nonce[frame.NonceIDPrefixLength:])
	dst[fl] = frame.SecureFormatByte
	return fl + 1, nil
}

// DecodeRaw authenticates and decrypts the secure frame at the start
// of buf, whose header h has already been decoded. On success the
// unpadded plaintext body is copied to plaintextOut and its length
// returned; a frame that authenticates but carries no body (or when
// plaintextOut is nil) returns length 0 with a nil error, which
// callers must treat as success. On authentication failure no
// plaintext is exposed.
func (c *SecureCodec) DecodeRaw(
	buf []byte,
	h *FrameHeader,
	nonce, key []byte,
	plaintextOut []byte,
) (int, error) {
	if h == nil || !h.Secure() || h.TrailerLength() != frame.SecureTrailerLength {
		return 0, ErrInvalidTrailerLength
	}
	if len(nonce) != frame.NonceLength {
		return 0, ErrInvalidNonceLength
	}
	fl := h.FrameLength()
	if len(buf) <= fl {
		return 0, ErrFrameTooShort
	}
	if buf[fl] != frame.SecureFormatByte {
		return 0, ErrInvalidSecureFormat
	}
	bl := h.BodyLength()
	if bl != 0 && bl != frame.PaddedBodyLength {
		return 0, ErrInvalidBodyLength
	}
	// The header's sequence number must match the counter in the nonce;
	// a mismatch means header and trailer have been spliced.
	if h.SeqNum() != nonce[frame.NonceLength-1]&0xf {
		return 0, ErrSequenceMismatch
	}

	hl := h.HeaderLength()
	tagOff := fl - frame.TagLength
	defer zeroBytes(c.scratch[:])
	err := c.aead.Decrypt(
		c.workspace, key, nonce,
		buf[:hl], buf[hl:hl+bl], buf[tagOff:fl],
		c.scratch[:bl])
	if err != nil {
		return 0, err
	}

	if bl == 0 || plaintextOut == nil {
		return 0, nil
	}
	n, err := Unpad32(c.scratch[:])
	if err != nil {
		return 0, err
	}
	if n > len(plaintextOut) {
		return 0, ErrBufferTooSmall
	}
	copy(plaintextOut, c.scratch[:n])
	return n, nil
}
