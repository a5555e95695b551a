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
	"fmt"
	"strings"
	"sync"

	"github.com/bimec/OTRadioLink/internal/frame"
)

// txRestartKey stores the 3-byte TX counter restart prefix.
const txRestartKey = "txctr/restart"

// sessionCounterMax is the largest 3-byte session count.
const sessionCounterMax = 0xffffff

// SecureSession holds everything needed to exchange secure frames as
// one node: the codec, the local identity and key for TX, the
// association table for RX, and the monotonic TX counter whose restart
// prefix is persisted through the Store.
//
// The restart prefix is incremented and persisted at construction so a
// crash mid-session can never reuse a nonce.
type SecureSession struct {
	codec   *SecureCodec
	table   AssociationTable
	store   Store
	localID []byte
	key     []byte

	mu         sync.Mutex
	restart    [3]byte
	sessionCtr uint32
}

// NewSecureSession creates a session for the node localID (6..8 bytes)
// with the given 16-byte TX key. store persists the TX restart prefix;
// table may be nil for a transmit-only node.
func NewSecureSession(
	codec *SecureCodec,
	table AssociationTable,
	store Store,
	localID, key []byte,
) (*SecureSession, error) {
	if len(localID) < frame.NonceIDPrefixLength || len(localID) > frame.MaxIDLength {
		return nil, ErrInvalidIDLength
	}
	if len(key) != frame.KeyLength {
		return nil, ErrInvalidKeyLength
	}
	if store == nil {
		return nil, fmt.Errorf("secure session: %w", ErrKeyNotFound)
	}
	s := &SecureSession{
		codec:   codec,
		table:   table,
		store:   store,
		localID: append([]byte(nil), localID...),
		key:     append([]byte(nil), key...),
	}
	if err := s.loadAndBumpRestart(); err != nil {
		return nil, err
	}
	return s, nil
}

// loadAndBumpRestart restores the persisted restart prefix, increments
// it and writes it back. Saturation of the prefix is permanent.
func (s *SecureSession) loadAndBumpRestart() error {
	if v, err := s.store.Get(txRestartKey); err == nil && len(v) == len(s.restart) {
		copy(s.restart[:], v)
	}
	if err := incrementRestart(&s.restart); err != nil {
		return err
	}
	if err := s.store.Set(txRestartKey, s.restart[:]); err != nil {
		return fmt.Errorf("persisting TX restart prefix: %w", err)
	}
	return nil
}

func incrementRestart(r *[3]byte) error {
	for i := len(r) - 1; i >= 0; i-- {
		r[i]++
		if r[i] != 0 {
			return nil
		}
	}
	// Wrapped all the way round.
	*r = [3]byte{0xff, 0xff, 0xff}
	return ErrCounterOverflow
}

// nextTXCounter increments and returns the TX message counter.
// The increment happens before the value is used, so a counter value
// is never reused even if the subsequent send fails.
func (s *SecureSession) nextTXCounter() (MessageCounter, error) {
	var c MessageCounter
	if s.sessionCtr >= sessionCounterMax {
		if err := incrementRestart(&s.restart); err != nil {
			return c, err
		}
		if err := s.store.Set(txRestartKey, s.restart[:]); err != nil {
			return c, fmt.Errorf("persisting TX restart prefix: %w", err)
		}
		s.sessionCtr = 0
	}
	s.sessionCtr++
	copy(c[:3], s.restart[:])
	c[3] = byte(s.sessionCtr >> 16)
	c[4] = byte(s.sessionCtr >> 8)
	c[5] = byte(s.sessionCtr)
	return c, nil
}

// LocalID returns a copy of the node's full ID.
func (s *SecureSession) LocalID() []byte {
	return append([]byte(nil), s.localID...)
}

// Encode writes a secure frame carrying body, identifying the sender
// by the first idLen bytes of the local node ID. Returns total bytes
// written (frame length + 1).
func (s *SecureSession) Encode(dst []byte, ftype FrameType, idLen int, body []byte) (int, error) {
	if idLen < 0 || idLen > len(s.localID) {
		return 0, ErrInvalidIDLength
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ctr, err := s.nextTXCounter()
	if err != nil {
		return 0, err
	}
	var nonce [frame.NonceLength]byte
	copy(nonce[:frame.NonceIDPrefixLength], s.localID)
	copy(nonce[frame.NonceIDPrefixLength:], ctr[:])

	return s.codec.EncodeRaw(dst, ftype, s.localID[:idLen], body, nonce[:], s.key)
}

// EncodeSecureBeacon writes an empty-body secure '!' frame. The empty
// body still authenticates the header and counter, making this a
// replay-protected presence signal.
func (s *SecureSession) EncodeSecureBeacon(dst []byte, idLen int) (int, error) {
	return s.Encode(dst, FrameTypeAlive, idLen, nil)
}

// ValvePercentNone in the valve-frame body means no valve position is
// being reported.
const ValvePercentNone = 0x7f

// valveFrameStatsFlag marks a stats payload following the two fixed
// body bytes.
const valveFrameStatsFlag = 0x10

// EncodeValveFrame writes a secure 'O' frame: body[0] is the valve
// percentage open (ValvePercentNone if not reported), body[1] flags
// the presence of stats, and the remainder is the stats JSON object
// with its trailing '}' removed to save a byte on the wire.
func (s *SecureSession) EncodeValveFrame(dst []byte, idLen int, valvePC uint8, statsJSON string) (int, error) {
	stats := strings.TrimSuffix(statsJSON, "}")
	body := make([]byte, 0, 2+len(stats))
	body = append(body, valvePC)
	if stats != "" {
		body = append(body, valveFrameStatsFlag)
		body = append(body, stats...)
	} else {
		body = append(body, 0x00)
	}
	return s.Encode(dst, FrameTypeBasicSensorOrValve, idLen, body)
}

// Decode authenticates the secure frame at the start of buf from any
// provisioned peer, enforcing anti-replay. On success the plaintext
// body (if any) is copied to plaintextOut and the sender's full node
// ID to senderID (which must hold 8 bytes); it returns the body length
// and the sender ID length.
//
// The sequence of operations matters: the replay check runs before any
// decryption, the stored counter advances only after successful
// authentication, and the sender ID is copied out after that, so no
// failure path leaves partial state behind.
func (s *SecureSession) Decode(buf []byte, plaintextOut, senderID []byte) (int, int, error) {
	if s.table == nil {
		return 0, 0, ErrNoAssociation
	}
	h, _, err := DecodeFrameHeader(buf)
	if err != nil {
		return 0, 0, err
	}
	if !h.Secure() || h.TrailerLength() != frame.SecureTrailerLength {
		return 0, 0, ErrInvalidTrailerLength
	}

	assoc, err := s.table.LookupByPrefix(h.ID())
	if err != nil {
		return 0, 0, err
	}

	if len(buf) <= h.FrameLength() {
		return 0, 0, ErrFrameTooShort
	}
	ctrOff := h.TrailerOffset()
	ctr, err := MessageCounterFromBytes(buf[ctrOff : ctrOff+frame.CounterLength])
	if err != nil {
		return 0, 0, err
	}
	// Strictly greater than the last accepted value, checked before any
	// cryptography: replays are rejected cheaply.
	if ctr.Compare(assoc.LastReceived()) <= 0 {
		return 0, 0, ErrReplayDetected
	}

	var nonce [frame.NonceLength]byte
	copy(nonce[:frame.NonceIDPrefixLength], assoc.ID)
	copy(nonce[frame.NonceIDPrefixLength:], ctr[:])

	if len(senderID) < len(assoc.ID) {
		return 0, 0, ErrBufferTooSmall
	}

	s.mu.Lock()
	n, err := s.codec.DecodeRaw(buf, h, nonce[:], assoc.Key, plaintextOut)
	s.mu.Unlock()
	if err != nil {
		return 0, 0, err
	}

	// Advance anti-replay state only now that the frame authenticated:
	// a forged frame must never block a later legitimate one. This is
	// the last step that can fail; the copy-out below cannot.
	if err := s.table.SetLastReceived(assoc.ID, ctr); err != nil {
		return 0, 0, err
	}
	copy(senderID, assoc.ID)
	return n, len(assoc.ID), nil
}
