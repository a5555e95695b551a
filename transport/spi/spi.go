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

// Package spi provides an SPI transport for directly attached RFM23B
// class radio modules.
package spi

import (
	"errors"
	"fmt"
	"sync"
	"time"

	otradiolink "github.com/bimec/OTRadioLink"
	"github.com/bimec/OTRadioLink/internal/frame"
	"github.com/bimec/OTRadioLink/internal/retry"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

const (
	// RFM23B registers.
	regOpControl1  = 0x07
	regIntStatus1  = 0x03
	regIntStatus2  = 0x04
	regRxPacketLen = 0x4b
	regFIFO        = 0x7f

	// Operating mode bits in regOpControl1.
	modeReady = 0x01
	modeRX    = 0x05
	modeTX    = 0x09

	// Interrupt status 1 bits.
	intPacketSent  = 0x04
	intPacketValid = 0x02

	writeFlag = 0x80

	// Max SPI clock for the RFM23B.
	maxClockFreq = 10 * physic.MegaHertz
)

// Config holds SPI transport configuration
type Config struct {
	// ReadTimeout bounds how long ReceiveFrame waits for a frame.
	ReadTimeout time.Duration
	// SendTimeout bounds how long SendFrame waits for TX completion.
	SendTimeout time.Duration
}

// DefaultConfig returns the default SPI configuration.
func DefaultConfig() *Config {
	return &Config{
		ReadTimeout: 2 * time.Second,
		SendTimeout: 500 * time.Millisecond,
	}
}

// Transport implements the otradiolink.Transport interface for an SPI
// attached radio module with a packet FIFO.
type Transport struct {
	conn     spi.Conn
	port     spi.PortCloser
	config   *Config
	portName string

	mu        sync.Mutex
	connected bool
}

// New opens the SPI port at portName (for example "SPI0.0") with the
// default configuration.
func New(portName string) (*Transport, error) {
	return NewWithConfig(portName, DefaultConfig())
}

// NewWithConfig opens the SPI port at portName with config.
func NewWithConfig(portName string, config *Config) (*Transport, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	port, err := spireg.Open(portName)
	if err != nil {
		return nil, otradiolink.NewTransportError(
			"Open", portName,
			fmt.Errorf("failed to open SPI port: %w", err),
			otradiolink.ErrorTypePermanent,
		)
	}

	conn, err := port.Connect(maxClockFreq, spi.Mode0, 8)
	if err != nil {
		_ = port.Close()
		return nil, otradiolink.NewTransportError(
			"Open", portName,
			fmt.Errorf("failed to connect to SPI device: %w", err),
			otradiolink.ErrorTypePermanent,
		)
	}

	t := &Transport{
		conn:      conn,
		port:      port,
		config:    config,
		portName:  portName,
		connected: true,
	}
	if err := t.writeReg(regOpControl1, modeRX); err != nil {
		_ = port.Close()
		return nil, err
	}
	return t, nil
}

// writeReg writes one radio register.
func (t *Transport) writeReg(reg, value byte) error {
	tx := []byte{reg | writeFlag, value}
	if err := t.conn.Tx(tx, nil); err != nil {
		return otradiolink.NewTransportError(
			"writeReg", t.portName,
			fmt.Errorf("SPI write failed: %w", err),
			otradiolink.ErrorTypeTransient,
		)
	}
	return nil
}

// readReg reads one radio register.
func (t *Transport) readReg(reg byte) (byte, error) {
	tx := []byte{reg &^ writeFlag, 0x00}
	rx := make([]byte, len(tx))
	if err := t.conn.Tx(tx, rx); err != nil {
		return 0, otradiolink.NewTransportError(
			"readReg", t.portName,
			fmt.Errorf("SPI read failed: %w", err),
			otradiolink.ErrorTypeTransient,
		)
	}
	return rx[1], nil
}

// writeFIFO bursts data into the radio's TX FIFO.
func (t *Transport) writeFIFO(data []byte) error {
	tx := make([]byte, 1+len(data))
	tx[0] = regFIFO | writeFlag
	copy(tx[1:], data)
	if err := t.conn.Tx(tx, nil); err != nil {
		return otradiolink.NewTransportError(
			"writeFIFO", t.portName,
			fmt.Errorf("SPI FIFO write failed: %w", err),
			otradiolink.ErrorTypeTransient,
		)
	}
	return nil
}

// readFIFO bursts n bytes out of the radio's RX FIFO.
func (t *Transport) readFIFO(dst []byte) error {
	tx := make([]byte, 1+len(dst))
	tx[0] = regFIFO &^ writeFlag
	rx := make([]byte, len(tx))
	if err := t.conn.Tx(tx, rx); err != nil {
		return otradiolink.NewTransportError(
			"readFIFO", t.portName,
			fmt.Errorf("SPI FIFO read failed: %w", err),
			otradiolink.ErrorTypeTransient,
		)
	}
	copy(dst, rx[1:])
	return nil
}

// SendFrame loads the frame into the TX FIFO, commands transmit and
// waits for the packet-sent interrupt before returning to RX mode.
func (t *Transport) SendFrame(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.connected {
		return otradiolink.ErrTransportClosed
	}
	if len(data) == 0 || len(data) > frame.MaxFrameLength+1 {
		return otradiolink.ErrInvalidFrameLength
	}

	if err := t.writeReg(regOpControl1, modeReady); err != nil {
		return err
	}
	if err := t.writeFIFO(data); err != nil {
		return err
	}
	if err := t.writeReg(regOpControl1, modeTX); err != nil {
		return err
	}

	_, err := retry.TimeoutRetry(t.config.SendTimeout, func() (struct{}, bool, error) {
		status, err := t.readReg(regIntStatus1)
		if err != nil {
			return struct{}{}, false, err
		}
		if status&intPacketSent == 0 {
			return struct{}{}, true, nil
		}
		return struct{}{}, false, nil
	})
	// Back to RX whether or not TX completed.
	if rxErr := t.writeReg(regOpControl1, modeRX); rxErr != nil && err == nil {
		err = rxErr
	}
	if errors.Is(err, retry.ErrTimeout) {
		return otradiolink.NewTimeoutError("SendFrame", t.portName)
	}
	return err
}

// ReceiveFrame waits for the packet-valid interrupt and reads the
// frame out of the RX FIFO.
func (t *Transport) ReceiveFrame(buf []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.connected {
		return 0, otradiolink.ErrTransportClosed
	}
	if len(buf) < frame.MaxFrameLength+1 {
		return 0, otradiolink.ErrBufferTooSmall
	}

	_, err := retry.TimeoutRetry(t.config.ReadTimeout, func() (struct{}, bool, error) {
		status, err := t.readReg(regIntStatus1)
		if err != nil {
			return struct{}{}, false, err
		}
		if status&intPacketValid == 0 {
			return struct{}{}, true, nil
		}
		return struct{}{}, false, nil
	})
	if errors.Is(err, retry.ErrTimeout) {
		return 0, otradiolink.NewTimeoutError("ReceiveFrame", t.portName)
	}
	if err != nil {
		return 0, err
	}

	n, err := t.readReg(regRxPacketLen)
	if err != nil {
		return 0, err
	}
	fl := int(n)
	if fl < frame.MinFrameLength || fl > frame.MaxFrameLength {
		return 0, otradiolink.ErrInvalidFrameLength
	}
	buf[0] = n
	if err := t.readFIFO(buf[1 : 1+fl]); err != nil {
		return 0, err
	}
	return fl + 1, nil
}

// SetTimeout sets the receive timeout.
func (t *Transport) SetTimeout(timeout time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.config.ReadTimeout = timeout
	return nil
}

// Close puts the radio in ready mode and closes the SPI port.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.connected {
		return nil
	}
	t.connected = false
	_ = t.writeReg(regOpControl1, modeReady)
	if err := t.port.Close(); err != nil {
		return fmt.Errorf("failed to close SPI port: %w", err)
	}
	return nil
}

// IsConnected returns true while the port is open.
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}

// Type returns the SPI transport type.
func (*Transport) Type() otradiolink.TransportType {
	return otradiolink.TransportSPI
}

// HasCapability reports the radio's behavior: the packet engine gives
// frame boundaries and the channel is checked before transmit.
func (*Transport) HasCapability(capability otradiolink.TransportCapability) bool {
	switch capability {
	case otradiolink.CapabilityFrameBoundary, otradiolink.CapabilityCarrierSense:
		return true
	default:
		return false
	}
}
