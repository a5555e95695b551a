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
	"context"
	"fmt"
	"time"
)

// Transport moves whole frames to and from a radio front end.
// This can be implemented by a serial dongle, an SPI radio module, or
// a loopback for tests.
type Transport interface {
	// SendFrame transmits one complete frame (length byte included).
	SendFrame(frame []byte) error

	// ReceiveFrame blocks until one complete frame arrives or the
	// timeout elapses, copies it into buf and returns its length.
	ReceiveFrame(buf []byte) (int, error)

	// SetTimeout sets the receive timeout.
	SetTimeout(timeout time.Duration) error

	// Close closes the transport.
	Close() error

	// IsConnected returns true while the transport is usable.
	IsConnected() bool

	// Type returns the transport type.
	Type() TransportType
}

// TransportType represents the kind of radio attachment
type TransportType string

const (
	// TransportSerial is a serial-attached radio dongle.
	TransportSerial TransportType = "serial"
	// TransportSPI is an SPI-attached radio module.
	TransportSPI TransportType = "spi"
	// TransportMock is an in-memory transport for testing.
	TransportMock TransportType = "mock"
)

// TransportCapability names an optional transport behavior
type TransportCapability string

const (
	// CapabilityFrameBoundary indicates the transport delivers whole
	// frames and callers never need to reassemble across reads.
	CapabilityFrameBoundary TransportCapability = "frame_boundary"

	// CapabilityCarrierSense indicates the transport checks the channel
	// before transmitting.
	CapabilityCarrierSense TransportCapability = "carrier_sense"
)

// TransportCapabilityChecker is implemented by transports that can
// report optional capabilities.
type TransportCapabilityChecker interface {
	// HasCapability returns true if the transport has the capability.
	HasCapability(capability TransportCapability) bool
}

// TransportWithRetry wraps a Transport with retry on transient errors
type TransportWithRetry struct {
	transport Transport
	config    *RetryConfig
}

// NewTransportWithRetry creates a retrying wrapper around transport.
func NewTransportWithRetry(transport Transport, config *RetryConfig) *TransportWithRetry {
	if config == nil {
		config = DefaultRetryConfig()
	}
	return &TransportWithRetry{
		transport: transport,
		config:    config,
	}
}

// SendFrame transmits a frame with retry on transient failures.
func (t *TransportWithRetry) SendFrame(frame []byte) error {
	return RetryWithConfig(context.Background(), t.config, func() error {
		if err := t.transport.SendFrame(frame); err != nil {
			return &TransportError{
				Op:        "SendFrame",
				Err:       err,
				Type:      GetErrorType(err),
				Retryable: IsRetryable(err),
			}
		}
		return nil
	})
}

// ReceiveFrame receives a frame; receive timeouts are not retried here
// since the caller's poll loop owns that policy.
func (t *TransportWithRetry) ReceiveFrame(buf []byte) (int, error) {
	n, err := t.transport.ReceiveFrame(buf)
	if err != nil {
		return 0, fmt.Errorf("receive failed: %w", err)
	}
	return n, nil
}

// SetTimeout sets the receive timeout on the underlying transport.
func (t *TransportWithRetry) SetTimeout(timeout time.Duration) error {
	if err := t.transport.SetTimeout(timeout); err != nil {
		return fmt.Errorf("failed to set timeout on underlying transport: %w", err)
	}
	return nil
}

// Close closes the underlying transport.
func (t *TransportWithRetry) Close() error {
	if err := t.transport.Close(); err != nil {
		return fmt.Errorf("failed to close underlying transport: %w", err)
	}
	return nil
}

// IsConnected returns true while the underlying transport is usable.
func (t *TransportWithRetry) IsConnected() bool {
	return t.transport.IsConnected()
}

// Type returns the underlying transport type.
func (t *TransportWithRetry) Type() TransportType {
	return t.transport.Type()
}

// HasCapability forwards capability checks to the underlying transport.
func (t *TransportWithRetry) HasCapability(capability TransportCapability) bool {
	if checker, ok := t.transport.(TransportCapabilityChecker); ok {
		return checker.HasCapability(capability)
	}
	return false
}

// SetRetryConfig updates the retry configuration.
func (t *TransportWithRetry) SetRetryConfig(config *RetryConfig) {
	t.config = config
}
