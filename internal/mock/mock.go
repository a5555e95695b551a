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

// Package mock provides in-memory transports for testing without radio
// hardware.
package mock

import (
	"sync"
	"time"

	otradiolink "github.com/bimec/OTRadioLink"
)

// Transport is an in-memory frame transport. Frames queued with
// QueueFrame are handed out by ReceiveFrame in order; frames sent with
// SendFrame are recorded for inspection.
type Transport struct {
	recvErr error
	sendErr error
	peer    *Transport

	mu      sync.Mutex
	rxQueue [][]byte
	sent    [][]byte
	timeout time.Duration
	closed  bool
}

// NewTransport creates an empty mock transport.
func NewTransport() *Transport {
	return &Transport{timeout: time.Second}
}

// QueueFrame adds a frame to be returned by a later ReceiveFrame call.
func (t *Transport) QueueFrame(frame []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rxQueue = append(t.rxQueue, append([]byte(nil), frame...))
}

// SetReceiveError makes every subsequent ReceiveFrame fail with err.
func (t *Transport) SetReceiveError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recvErr = err
}

// SetSendError makes every subsequent SendFrame fail with err.
func (t *Transport) SetSendError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sendErr = err
}

// SentFrames returns copies of all frames sent so far.
func (t *Transport) SentFrames() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([][]byte, len(t.sent))
	for i, f := range t.sent {
		out[i] = append([]byte(nil), f...)
	}
	return out
}

// SendFrame records the frame and, for paired transports, delivers it
// to the peer's receive queue.
func (t *Transport) SendFrame(frame []byte) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return otradiolink.ErrTransportClosed
	}
	if t.sendErr != nil {
		err := t.sendErr
		t.mu.Unlock()
		return err
	}
	t.sent = append(t.sent, append([]byte(nil), frame...))
	peer := t.peer
	t.mu.Unlock()
	if peer != nil {
		peer.QueueFrame(frame)
	}
	return nil
}

// ReceiveFrame returns the next queued frame, or a timeout error when
// the queue is empty.
func (t *Transport) ReceiveFrame(buf []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return 0, otradiolink.ErrTransportClosed
	}
	if t.recvErr != nil {
		return 0, t.recvErr
	}
	if len(t.rxQueue) == 0 {
		return 0, otradiolink.NewTimeoutError("ReceiveFrame", "mock")
	}
	f := t.rxQueue[0]
	t.rxQueue = t.rxQueue[1:]
	if len(buf) < len(f) {
		return 0, otradiolink.ErrBufferTooSmall
	}
	return copy(buf, f), nil
}

// SetTimeout records the receive timeout; the mock never blocks.
func (t *Transport) SetTimeout(timeout time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timeout = timeout
	return nil
}

// Close marks the transport closed.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

// IsConnected returns true until Close is called.
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.closed
}

// Type returns the mock transport type.
func (*Transport) Type() otradiolink.TransportType {
	return otradiolink.TransportMock
}

// HasCapability reports frame-boundary delivery; the mock always moves
// whole frames.
func (*Transport) HasCapability(capability otradiolink.TransportCapability) bool {
	return capability == otradiolink.CapabilityFrameBoundary
}

// Pair returns two transports cross-wired so that frames sent on one
// become receivable on the other. Useful for exercising a full
// node-to-hub exchange in tests.
func Pair() (*Transport, *Transport) {
	a := NewTransport()
	b := NewTransport()
	a.peer = b
	b.peer = a
	return a, b
}
