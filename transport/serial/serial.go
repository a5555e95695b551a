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

// Package serial provides a serial-port transport for radio dongles
// that stream raw frames.
package serial

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	otradiolink "github.com/bimec/OTRadioLink"
	"github.com/bimec/OTRadioLink/internal/frame"
	"go.bug.st/serial"
)

// Config holds serial transport configuration
type Config struct {
	// BaudRate is the serial line speed.
	BaudRate int
	// ReadTimeout bounds how long ReceiveFrame waits for a frame to
	// start arriving.
	ReadTimeout time.Duration
}

// DefaultConfig returns the default serial configuration.
// 250000 baud matches the stock radio dongle firmware.
func DefaultConfig() *Config {
	return &Config{
		BaudRate:    250000,
		ReadTimeout: 2 * time.Second,
	}
}

// Transport implements the otradiolink.Transport interface over a
// serial port. The dongle firmware forwards each radio frame as its
// wire bytes: the length byte first, then that many bytes.
type Transport struct {
	port     serial.Port
	config   *Config
	portName string

	mu        sync.Mutex
	connected bool
}

// New opens the serial port at portName with the default configuration.
func New(portName string) (*Transport, error) {
	return NewWithConfig(portName, DefaultConfig())
}

// NewWithConfig opens the serial port at portName with config.
func NewWithConfig(portName string, config *Config) (*Transport, error) {
	if config == nil {
		config = DefaultConfig()
	}
	mode := &serial.Mode{
		BaudRate: config.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, otradiolink.NewTransportError(
			"Open", portName,
			fmt.Errorf("failed to open serial port: %w", err),
			otradiolink.ErrorTypePermanent,
		)
	}
	if err := port.SetReadTimeout(config.ReadTimeout); err != nil {
		_ = port.Close()
		return nil, otradiolink.NewTransportError(
			"Open", portName,
			fmt.Errorf("failed to set read timeout: %w", err),
			otradiolink.ErrorTypePermanent,
		)
	}
	return &Transport{
		port:      port,
		config:    config,
		portName:  portName,
		connected: true,
	}, nil
}

// SendFrame writes the frame bytes to the dongle.
func (t *Transport) SendFrame(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.connected {
		return otradiolink.ErrTransportClosed
	}
	if len(data) == 0 || len(data) > frame.MaxFrameLength+1 {
		return otradiolink.ErrInvalidFrameLength
	}
	for written := 0; written < len(data); {
		n, err := t.port.Write(data[written:])
		if err != nil {
			return otradiolink.NewTransportError(
				"SendFrame", t.portName,
				fmt.Errorf("serial write failed: %w", err),
				otradiolink.ErrorTypeTransient,
			)
		}
		written += n
	}
	return nil
}

// ReceiveFrame reads one frame from the dongle: the length byte, then
// exactly that many further bytes. Candidate length bytes outside the
// valid frame range are discarded so the reader resynchronizes after
// line noise.
func (t *Transport) ReceiveFrame(buf []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.connected {
		return 0, otradiolink.ErrTransportClosed
	}
	if len(buf) < frame.MaxFrameLength+1 {
		return 0, otradiolink.ErrBufferTooSmall
	}

	var lb [1]byte
	for {
		n, err := t.port.Read(lb[:])
		if err != nil {
			return 0, otradiolink.NewTransportError(
				"ReceiveFrame", t.portName,
				fmt.Errorf("serial read failed: %w", err),
				otradiolink.ErrorTypeTransient,
			)
		}
		if n == 0 {
			return 0, otradiolink.NewTimeoutError("ReceiveFrame", t.portName)
		}
		fl := int(lb[0])
		if fl < frame.MinFrameLength || fl > frame.MaxFrameLength {
			continue
		}
		buf[0] = lb[0]
		if err := t.readFull(buf[1 : 1+fl]); err != nil {
			return 0, err
		}
		return fl + 1, nil
	}
}

// readFull reads exactly len(p) bytes, treating a zero-byte read (the
// serial library's timeout signal) as a timeout.
func (t *Transport) readFull(p []byte) error {
	for got := 0; got < len(p); {
		n, err := t.port.Read(p[got:])
		if err != nil {
			if errors.Is(err, io.EOF) {
				return otradiolink.NewTimeoutError("ReceiveFrame", t.portName)
			}
			return otradiolink.NewTransportError(
				"ReceiveFrame", t.portName,
				fmt.Errorf("serial read failed: %w", err),
				otradiolink.ErrorTypeTransient,
			)
		}
		if n == 0 {
			return otradiolink.NewTimeoutError("ReceiveFrame", t.portName)
		}
		got += n
	}
	return nil
}

// SetTimeout sets the receive timeout.
func (t *Transport) SetTimeout(timeout time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.config.ReadTimeout = timeout
	if err := t.port.SetReadTimeout(timeout); err != nil {
		return fmt.Errorf("failed to set read timeout: %w", err)
	}
	return nil
}

// Close closes the serial port.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.connected {
		return nil
	}
	t.connected = false
	if err := t.port.Close(); err != nil {
		return fmt.Errorf("failed to close serial port: %w", err)
	}
	return nil
}

// IsConnected returns true while the port is open.
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}

// Type returns the serial transport type.
func (*Transport) Type() otradiolink.TransportType {
	return otradiolink.TransportSerial
}

// HasCapability reports the dongle's behavior: it forwards whole
// frames but does no carrier sensing itself.
func (*Transport) HasCapability(capability otradiolink.TransportCapability) bool {
	return capability == otradiolink.CapabilityFrameBoundary
}
