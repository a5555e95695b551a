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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bimec/OTRadioLink/internal/frame"
)

var (
	testNodeID  = []byte{0xaa, 0xaa, 0xaa, 0xaa, 0x55, 0x55, 0x01, 0x02}
	testNodeKey = bytes.Repeat([]byte{0x42}, frame.KeyLength)
	testHubID   = []byte{0x0e, 0x0f, 0x10, 0x11, 0x12, 0x13, 0x14, 0x15}
	testHubKey  = bytes.Repeat([]byte{0x24}, frame.KeyLength)
)

// newTestPeers builds a transmitting node session and a receiving hub
// session provisioned with the node's key.
func newTestPeers(t *testing.T) (node, hub *SecureSession) {
	t.Helper()
	codec := NewSecureCodec(NewGCMAEAD())
	node, err := NewSecureSession(codec, nil, NewMemStore(), testNodeID, testNodeKey)
	require.NoError(t, err)

	table := NewAssociations(NewMemStore())
	require.NoError(t, table.Add(testNodeID, testNodeKey))
	hub, err = NewSecureSession(
		NewSecureCodec(NewGCMAEAD()), table, NewMemStore(), testHubID, testHubKey)
	require.NoError(t, err)
	return node, hub
}

func TestNewSecureSessionRejects(t *testing.T) {
	t.Parallel()
	codec := NewSecureCodec(NewGCMAEAD())

	_, err := NewSecureSession(codec, nil, NewMemStore(), testNodeID[:4], testNodeKey)
	require.ErrorIs(t, err, ErrInvalidIDLength)

	_, err = NewSecureSession(codec, nil, NewMemStore(), make([]byte, 9), testNodeKey)
	require.ErrorIs(t, err, ErrInvalidIDLength)

	_, err = NewSecureSession(codec, nil, NewMemStore(), testNodeID, testNodeKey[:8])
	require.ErrorIs(t, err, ErrInvalidKeyLength)

	_, err = NewSecureSession(codec, nil, nil, testNodeID, testNodeKey)
	require.Error(t, err)
}

func TestSecureSessionRestartPrefixBumpedEachBoot(t *testing.T) {
	t.Parallel()
	store := NewMemStore()
	codec := NewSecureCodec(NewGCMAEAD())

	_, err := NewSecureSession(codec, nil, store, testNodeID, testNodeKey)
	require.NoError(t, err)
	v, err := store.Get("txctr/restart")
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 1}, v)

	// A second boot from the same store must advance the prefix so no
	// nonce from the previous run can recur.
	_, err = NewSecureSession(codec, nil, store, testNodeID, testNodeKey)
	require.NoError(t, err)
	v, err = store.Get("txctr/restart")
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 2}, v)
}

func TestSecureSessionEncodeDecode(t *testing.T) {
	t.Parallel()
	node, hub := newTestPeers(t)
	body := []byte{0x32, 0x10, 0x7b, 0x22, 0x62, 0x22, 0x3a, 0x31}

	var buf [frame.MaxFrameLength + 1]byte
	n, err := node.Encode(buf[:], FrameTypeBasicSensorOrValve, 4, body)
	require.NoError(t, err)

	var plaintext [frame.MaxUnpaddedBodyLength]byte
	var sender [frame.MaxIDLength]byte
	bodyLen, idLen, err := hub.Decode(buf[:n], plaintext[:], sender[:])
	require.NoError(t, err)
	require.Equal(t, body, plaintext[:bodyLen])
	require.Equal(t, testNodeID, sender[:idLen])
}

func TestSecureSessionReplayRejected(t *testing.T) {
	t.Parallel()
	node, hub := newTestPeers(t)

	var first, second [frame.MaxFrameLength + 1]byte
	n1, err := node.Encode(first[:], FrameTypeBasicSensorOrValve, 4, []byte{0x01})
	require.NoError(t, err)
	n2, err := node.Encode(second[:], FrameTypeBasicSensorOrValve, 4, []byte{0x02})
	require.NoError(t, err)

	var plaintext [frame.MaxUnpaddedBodyLength]byte
	var sender [frame.MaxIDLength]byte

	// Deliver out of order: once the later counter is accepted the
	// earlier frame is dead, and exact repeats always are.
	_, _, err = hub.Decode(second[:n2], plaintext[:], sender[:])
	require.NoError(t, err)

	_, _, err = hub.Decode(first[:n1], plaintext[:], sender[:])
	require.ErrorIs(t, err, ErrReplayDetected)

	_, _, err = hub.Decode(second[:n2], plaintext[:], sender[:])
	require.ErrorIs(t, err, ErrReplayDetected)
}

func TestSecureSessionForgeryDoesNotAdvanceCounter(t *testing.T) {
	t.Parallel()
	node, hub := newTestPeers(t)

	var buf [frame.MaxFrameLength + 1]byte
	n, err := node.Encode(buf[:], FrameTypeBasicSensorOrValve, 4, []byte{0x01})
	require.NoError(t, err)

	forged := append([]byte(nil), buf[:n]...)
	forged[10] ^= 0x01

	var plaintext [frame.MaxUnpaddedBodyLength]byte
	var sender [frame.MaxIDLength]byte
	_, _, err = hub.Decode(forged, plaintext[:], sender[:])
	require.ErrorIs(t, err, ErrAuthenticationFailed)

	// The forgery must not have burned the counter for the real frame.
	_, _, err = hub.Decode(buf[:n], plaintext[:], sender[:])
	require.NoError(t, err)
}

func TestSecureSessionUnknownSender(t *testing.T) {
	t.Parallel()
	node, _ := newTestPeers(t)

	empty := NewAssociations(nil)
	hub, err := NewSecureSession(
		NewSecureCodec(NewGCMAEAD()), empty, NewMemStore(), testHubID, testHubKey)
	require.NoError(t, err)

	var buf [frame.MaxFrameLength + 1]byte
	n, err := node.Encode(buf[:], FrameTypeBasicSensorOrValve, 4, []byte{0x01})
	require.NoError(t, err)

	var plaintext [frame.MaxUnpaddedBodyLength]byte
	var sender [frame.MaxIDLength]byte
	_, _, err = hub.Decode(buf[:n], plaintext[:], sender[:])
	require.ErrorIs(t, err, ErrNoAssociation)
}

func TestSecureSessionBeacon(t *testing.T) {
	t.Parallel()
	node, hub := newTestPeers(t)

	var buf [frame.MaxFrameLength + 1]byte
	n, err := node.EncodeSecureBeacon(buf[:], 4)
	require.NoError(t, err)
	require.Equal(t, 27+4, n)

	var sender [frame.MaxIDLength]byte
	bodyLen, idLen, err := hub.Decode(buf[:n], nil, sender[:])
	require.NoError(t, err)
	require.Equal(t, 0, bodyLen)
	require.Equal(t, testNodeID, sender[:idLen])
}

func TestSecureSessionValveFrameBody(t *testing.T) {
	t.Parallel()
	node, hub := newTestPeers(t)

	var buf [frame.MaxFrameLength + 1]byte
	n, err := node.EncodeValveFrame(buf[:], 4, 42, `{"b":1}`)
	require.NoError(t, err)

	var plaintext [frame.MaxUnpaddedBodyLength]byte
	var sender [frame.MaxIDLength]byte
	bodyLen, _, err := hub.Decode(buf[:n], plaintext[:], sender[:])
	require.NoError(t, err)

	body := plaintext[:bodyLen]
	require.GreaterOrEqual(t, len(body), 2)
	require.Equal(t, byte(42), body[0])
	require.Equal(t, byte(0x10), body[1]&0x10)
	// The closing brace is trimmed on the wire.
	require.Equal(t, `{"b":1`, string(body[2:]))
}

func TestSecureSessionValveFrameWithoutStats(t *testing.T) {
	t.Parallel()
	node, hub := newTestPeers(t)

	var buf [frame.MaxFrameLength + 1]byte
	n, err := node.EncodeValveFrame(buf[:], 4, ValvePercentNone, "")
	require.NoError(t, err)

	var plaintext [frame.MaxUnpaddedBodyLength]byte
	var sender [frame.MaxIDLength]byte
	bodyLen, _, err := hub.Decode(buf[:n], plaintext[:], sender[:])
	require.NoError(t, err)
	require.Equal(t, []byte{ValvePercentNone, 0x00}, plaintext[:bodyLen])
}

func TestSecureSessionCountersSurviveRestart(t *testing.T) {
	t.Parallel()
	nodeStore := NewMemStore()
	hubStore := NewMemStore()
	tableStore := NewMemStore()

	newNode := func() *SecureSession {
		s, err := NewSecureSession(
			NewSecureCodec(NewGCMAEAD()), nil, nodeStore, testNodeID, testNodeKey)
		require.NoError(t, err)
		return s
	}
	newHub := func() *SecureSession {
		table := NewAssociations(tableStore)
		require.NoError(t, table.Add(testNodeID, testNodeKey))
		s, err := NewSecureSession(
			NewSecureCodec(NewGCMAEAD()), table, hubStore, testHubID, testHubKey)
		require.NoError(t, err)
		return s
	}

	var buf [frame.MaxFrameLength + 1]byte
	var plaintext [frame.MaxUnpaddedBodyLength]byte
	var sender [frame.MaxIDLength]byte

	node := newNode()
	n, err := node.Encode(buf[:], FrameTypeBasicSensorOrValve, 4, []byte{0x01})
	require.NoError(t, err)
	captured := append([]byte(nil), buf[:n]...)

	hub := newHub()
	_, _, err = hub.Decode(captured, plaintext[:], sender[:])
	require.NoError(t, err)

	// After both ends restart, fresh frames must still decode but the
	// captured one must stay dead.
	node = newNode()
	hub = newHub()

	_, _, err = hub.Decode(captured, plaintext[:], sender[:])
	require.ErrorIs(t, err, ErrReplayDetected)

	n, err = node.Encode(buf[:], FrameTypeBasicSensorOrValve, 4, []byte{0x02})
	require.NoError(t, err)
	_, _, err = hub.Decode(buf[:n], plaintext[:], sender[:])
	require.NoError(t, err)
}
