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
	"sync"
	"time"

	"github.com/bimec/OTRadioLink/internal/frame"
)

// LinkConfig holds configuration for a Link
type LinkConfig struct {
	// RetryConfig controls transport send retries.
	RetryConfig *RetryConfig
	// Timeout is the receive timeout applied to the transport.
	Timeout time.Duration
	// TXIDLength is the number of local node ID bytes put in outbound
	// frame headers; longer prefixes disambiguate at the hub.
	TXIDLength int
}

// DefaultLinkConfig returns the default Link configuration.
func DefaultLinkConfig() *LinkConfig {
	return &LinkConfig{
		RetryConfig: DefaultRetryConfig(),
		Timeout:     2 * time.Second,
		TXIDLength:  4,
	}
}

// Link ties a Transport to a SecureSession: one node's view of the
// radio, able to send its own frames and decode those of its peers.
type Link struct {
	transport Transport
	session   *SecureSession
	config    *LinkConfig

	mu  sync.Mutex
	seq uint8
	buf [frame.MaxFrameLength + 1]byte
}

// NewLink creates a Link over transport using session for frame
// security, applying any options.
func NewLink(transport Transport, session *SecureSession, opts ...Option) (*Link, error) {
	l := &Link{
		transport: transport,
		session:   session,
		config:    DefaultLinkConfig(),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	if l.config.Timeout > 0 {
		if err := transport.SetTimeout(l.config.Timeout); err != nil {
			return nil, fmt.Errorf("failed to set transport timeout: %w", err)
		}
	}
	return l, nil
}

// send transmits the first n bytes of the shared frame buffer.
func (l *Link) send(n int) error {
	t := NewTransportWithRetry(l.transport, l.config.RetryConfig)
	if err := t.SendFrame(l.buf[:n]); err != nil {
		return err
	}
	return nil
}

// SendValveFrame encodes and transmits a secure 'O' frame reporting
// the valve percentage open and optional stats JSON.
func (l *Link) SendValveFrame(valvePC uint8, statsJSON string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	n, err := l.session.EncodeValveFrame(l.buf[:], l.config.TXIDLength, valvePC, statsJSON)
	if err != nil {
		return fmt.Errorf("encoding valve frame: %w", err)
	}
	return l.send(n)
}

// SendSecureBeacon encodes and transmits an empty-body secure beacon.
func (l *Link) SendSecureBeacon() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	n, err := l.session.EncodeSecureBeacon(l.buf[:], l.config.TXIDLength)
	if err != nil {
		return fmt.Errorf("encoding secure beacon: %w", err)
	}
	return l.send(n)
}

// SendAliveBeacon encodes and transmits a non-secure '!' beacon,
// advancing the link's mod-16 sequence number.
func (l *Link) SendAliveBeacon() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.session.LocalID()
	n, err := EncodeNonsecureAliveBeacon(l.buf[:], l.seq, id[:l.config.TXIDLength])
	if err != nil {
		return fmt.Errorf("encoding alive beacon: %w", err)
	}
	l.seq = (l.seq + 1) & 0xf
	return l.send(n)
}

// Receive waits for one frame and decodes it as a secure frame from a
// provisioned peer. The plaintext body is copied to plaintextOut and
// the sender's full node ID to senderID; returns body and ID lengths.
func (l *Link) Receive(plaintextOut, senderID []byte) (int, int, error) {
	var rx [frame.MaxFrameLength + 1]byte
	n, err := l.transport.ReceiveFrame(rx[:])
	if err != nil {
		return 0, 0, err
	}
	return l.session.Decode(rx[:n], plaintextOut, senderID)
}

// Session returns the link's secure session.
func (l *Link) Session() *SecureSession { return l.session }

// Close closes the underlying transport.
func (l *Link) Close() error {
	if err := l.transport.Close(); err != nil {
		return fmt.Errorf("failed to close transport: %w", err)
	}
	return nil
}
