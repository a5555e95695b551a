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
	"crypto/aes"
	"crypto/cipher"

	"github.com/bimec/OTRadioLink/internal/frame"
)

// AEAD is the injected authenticated-encryption primitive used by the
// secure codec. Implementations work on the fixed frame geometry:
// 16-byte key, 12-byte nonce, bodies of 0 or exactly 32 bytes, and a
// 16-byte tag.
//
// All scratch state lives in the caller-supplied workspace, which must
// be at least WorkspaceRequired bytes; an undersized workspace is a
// hard error, never a silent degradation. The workspace is zeroed
// before the call returns so no key material or intermediate cipher
// state survives it.
type AEAD interface {
	// WorkspaceRequired returns the minimum workspace size in bytes.
	WorkspaceRequired() int

	// Encrypt authenticates aad and plaintext (nil or 32 bytes) under
	// key and nonce, writing len(plaintext) bytes to ciphertextOut and
	// 16 bytes to tagOut.
	Encrypt(workspace, key, nonce, aad, plaintext, ciphertextOut, tagOut []byte) error

	// Decrypt verifies tag over aad and ciphertext (nil or 32 bytes)
	// under key and nonce, writing len(ciphertext) bytes to
	// plaintextOut. On authentication failure plaintextOut holds
	// nothing usable and ErrAuthenticationFailed is returned.
	Decrypt(workspace, key, nonce, aad, ciphertext, tag, plaintextOut []byte) error
}

// GCMWorkspaceRequired is the workspace needed by GCMAEAD: the sealed
// ciphertext+tag plus a same-sized region for the decrypt output.
const GCMWorkspaceRequired = 2 * (frame.PaddedBodyLength + frame.TagLength)

// GCMAEAD is the production AEAD: AES-128-GCM.
type GCMAEAD struct{}

// NewGCMAEAD returns the AES-128-GCM implementation of AEAD.
func NewGCMAEAD() *GCMAEAD { return &GCMAEAD{} }

// WorkspaceRequired returns the minimum workspace size in bytes.
func (*GCMAEAD) WorkspaceRequired() int { return GCMWorkspaceRequired }

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != frame.KeyLength {
		return nil, ErrInvalidKeyLength
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func checkAEADArgs(workspace, nonce []byte, bodyLen, required int) error {
	if len(workspace) < required {
		return ErrWorkspaceTooSmall
	}
	if len(nonce) != frame.NonceLength {
		return ErrInvalidNonceLength
	}
	if bodyLen != 0 && bodyLen != frame.PaddedBodyLength {
		return ErrInvalidBodyLength
	}
	return nil
}

// Encrypt authenticates aad and plaintext under key and nonce.
func (g *GCMAEAD) Encrypt(workspace, key, nonce, aad, plaintext, ciphertextOut, tagOut []byte) error {
	if err := checkAEADArgs(workspace, nonce, len(plaintext), g.WorkspaceRequired()); err != nil {
		return err
	}
	defer zeroBytes(workspace)
	gcm, err := newGCM(key)
	if err != nil {
		return err
	}
	if len(ciphertextOut) < len(plaintext) || len(tagOut) < frame.TagLength {
		return ErrBufferTooSmall
	}
	sealed := gcm.Seal(workspace[:0], nonce, plaintext, aad)
	copy(ciphertextOut, sealed[:len(plaintext)])
	copy(tagOut, sealed[len(plaintext):])
	return nil
}

// Decrypt verifies tag over aad and ciphertext under key and nonce.
func (g *GCMAEAD) Decrypt(workspace, key, nonce, aad, ciphertext, tag, plaintextOut []byte) error {
	if err := checkAEADArgs(workspace, nonce, len(ciphertext), g.WorkspaceRequired()); err != nil {
		return err
	}
	defer zeroBytes(workspace)
	gcm, err := newGCM(key)
	if err != nil {
		return err
	}
	if len(tag) != frame.TagLength {
		return ErrAuthenticationFailed
	}
	if len(plaintextOut) < len(ciphertext) {
		return ErrBufferTooSmall
	}
	sealedLen := len(ciphertext) + frame.TagLength
	sealed := workspace[:0]
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)
	opened, err := gcm.Open(workspace[sealedLen:sealedLen], nonce, sealed, aad)
	if err != nil {
		return ErrAuthenticationFailed
	}
	copy(plaintextOut, opened)
	return nil
}

// NullAEAD is a test stand-in that performs no real cryptography: the
// ciphertext is the plaintext and the tag is the nonce padded with
// zeros. Decrypt only checks the first and last tag bytes, enough to
// exercise both the success and the authentication-failure paths.
type NullAEAD struct{}

// NewNullAEAD returns the null AEAD used by tests.
func NewNullAEAD() *NullAEAD { return &NullAEAD{} }

// WorkspaceRequired returns the minimum workspace size in bytes.
func (*NullAEAD) WorkspaceRequired() int { return frame.PaddedBodyLength }

// Encrypt copies plaintext to ciphertextOut and writes the fixed tag.
func (n *NullAEAD) Encrypt(workspace, _, nonce, _, plaintext, ciphertextOut, tagOut []byte) error {
	if err := checkAEADArgs(workspace, nonce, len(plaintext), n.WorkspaceRequired()); err != nil {
		return err
	}
	defer zeroBytes(workspace)
	if len(ciphertextOut) < len(plaintext) || len(tagOut) < frame.TagLength {
		return ErrBufferTooSmall
	}
	copy(ciphertextOut, plaintext)
	copy(tagOut, nonce)
	for i := frame.NonceLength; i < frame.TagLength; i++ {
		tagOut[i] = 0
	}
	return nil
}

// Decrypt copies ciphertext to plaintextOut after a token tag check.
func (n *NullAEAD) Decrypt(workspace, _, nonce, _, ciphertext, tag, plaintextOut []byte) error {
	if err := checkAEADArgs(workspace, nonce, len(ciphertext), n.WorkspaceRequired()); err != nil {
		return err
	}
	defer zeroBytes(workspace)
	if len(tag) != frame.TagLength || tag[0] != nonce[0] || tag[frame.TagLength-1] != 0 {
		return ErrAuthenticationFailed
	}
	if len(plaintextOut) < len(ciphertext) {
		return ErrBufferTooSmall
	}
	copy(plaintextOut, ciphertext)
	return nil
}

// zeroBytes clears b.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
