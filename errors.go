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
	"errors"
	"fmt"
)

// Structural frame errors. These reject a frame before any
// cryptographic work is attempted.
var (
	// ErrFrameTooShort indicates the buffer is smaller than the
	// smallest decodable frame, or smaller than its own length byte claims.
	ErrFrameTooShort = errors.New("frame too short")

	// ErrInvalidFrameLength indicates a length byte outside [4,63].
	ErrInvalidFrameLength = errors.New("invalid frame length")

	// ErrInvalidFrameType indicates a reserved or out-of-range frame type.
	ErrInvalidFrameType = errors.New("invalid frame type")

	// ErrInvalidIDLength indicates an ID length above 8 or one that
	// cannot fit the declared frame length.
	ErrInvalidIDLength = errors.New("invalid ID length")

	// ErrInvalidBodyLength indicates a body length that cannot fit the
	// declared frame length, or a secure body that is neither empty nor
	// exactly the fixed padded size.
	ErrInvalidBodyLength = errors.New("invalid body length")

	// ErrInvalidTrailerLength indicates a trailer length inconsistent
	// with the frame's secure flag.
	ErrInvalidTrailerLength = errors.New("invalid trailer length")

	// ErrInvalidTrailerByte indicates a final frame byte of 0x00 or
	// 0xff, both forbidden on the wire.
	ErrInvalidTrailerByte = errors.New("invalid trailer byte")

	// ErrInvalidSecureFormat indicates a secure trailer whose final
	// format byte is not the expected marker.
	ErrInvalidSecureFormat = errors.New("invalid secure frame format byte")
)

// Buffer and sizing errors.
var (
	// ErrBufferTooSmall indicates a destination or source buffer the
	// caller should have pre-sized; nothing is partially written.
	ErrBufferTooSmall = errors.New("buffer too small")

	// ErrBodyTooLarge indicates a body that cannot fit the frame or the
	// fixed padding scheme.
	ErrBodyTooLarge = errors.New("body too large")

	// ErrWorkspaceTooSmall indicates a cryptographic workspace below
	// the documented minimum; the operation fails closed.
	ErrWorkspaceTooSmall = errors.New("crypto workspace too small")

	// ErrInvalidKeyLength indicates a key of the wrong size for the
	// configured cipher.
	ErrInvalidKeyLength = errors.New("invalid key length")

	// ErrInvalidNonceLength indicates a nonce of the wrong size.
	ErrInvalidNonceLength = errors.New("invalid nonce length")
)

// Security errors.
var (
	// ErrAuthenticationFailed indicates an authentication tag mismatch;
	// no plaintext is exposed on this path.
	ErrAuthenticationFailed = errors.New("frame authentication failed")

	// ErrReplayDetected indicates a message counter not strictly
	// greater than the last accepted value for the sender.
	ErrReplayDetected = errors.New("replay detected")

	// ErrCounterOverflow indicates a saturated message counter; the
	// association needs fresh provisioning before further sends.
	ErrCounterOverflow = errors.New("message counter overflow")

	// ErrSequenceMismatch indicates a header sequence number that does
	// not match the counter portion of the nonce.
	ErrSequenceMismatch = errors.New("sequence number does not match nonce")

	// ErrInvalidPadding indicates a padding count byte above the
	// maximum; distinct from a valid zero-length body.
	ErrInvalidPadding = errors.New("invalid padding")

	// ErrNoAssociation indicates no provisioned peer matches the
	// frame's ID prefix.
	ErrNoAssociation = errors.New("no association for node ID")
)

// Checksum and transport errors.
var (
	// ErrChecksumMismatch indicates a non-secure frame CRC failure.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrTransportTimeout indicates a transport operation timed out.
	ErrTransportTimeout = errors.New("transport timeout")

	// ErrTransportRead indicates a transport read failure.
	ErrTransportRead = errors.New("transport read failed")

	// ErrTransportWrite indicates a transport write failure.
	ErrTransportWrite = errors.New("transport write failed")

	// ErrTransportClosed indicates use of a closed transport.
	ErrTransportClosed = errors.New("transport closed")

	// ErrCommunicationFailed indicates a general radio link failure.
	ErrCommunicationFailed = errors.New("communication failed")

	// ErrDeviceNotFound indicates no radio device could be located.
	ErrDeviceNotFound = errors.New("radio device not found")

	// ErrKeyNotFound indicates a missing entry in a Store.
	ErrKeyNotFound = errors.New("key not found in store")
)

// ErrorType classifies errors for retry decisions
type ErrorType int

const (
	// ErrorTypeUnknown is the zero value for unclassified errors.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeTransient indicates an error that may succeed on retry.
	ErrorTypeTransient
	// ErrorTypePermanent indicates an error that will not succeed on retry.
	ErrorTypePermanent
	// ErrorTypeTimeout indicates a timeout that may succeed with a longer deadline.
	ErrorTypeTimeout
)

// TransportError wraps a transport failure with enough context to
// decide whether retrying is worthwhile.
type TransportError struct {
	Err       error
	Op        string
	Port      string
	Type      ErrorType
	Retryable bool
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a new TransportError
func NewTransportError(op, port string, err error, errType ErrorType) *TransportError {
	return &TransportError{
		Op:        op,
		Port:      port,
		Err:       err,
		Type:      errType,
		Retryable: errType == ErrorTypeTransient || errType == ErrorTypeTimeout,
	}
}

// NewTimeoutError creates a TransportError for a timed-out operation
func NewTimeoutError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrTransportTimeout, ErrorTypeTimeout)
}

// GetErrorType returns the classification of err.
// Structural and security failures are permanent: resending the same
// bytes cannot make a malformed or forged frame valid.
func GetErrorType(err error) ErrorType {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Type
	}

	switch {
	case errors.Is(err, ErrTransportTimeout):
		return ErrorTypeTimeout
	case errors.Is(err, ErrTransportRead),
		errors.Is(err, ErrTransportWrite),
		errors.Is(err, ErrCommunicationFailed):
		return ErrorTypeTransient
	case errors.Is(err, ErrAuthenticationFailed),
		errors.Is(err, ErrReplayDetected),
		errors.Is(err, ErrCounterOverflow),
		errors.Is(err, ErrChecksumMismatch),
		errors.Is(err, ErrNoAssociation),
		errors.Is(err, ErrTransportClosed),
		errors.Is(err, ErrDeviceNotFound):
		return ErrorTypePermanent
	default:
		return ErrorTypeUnknown
	}
}

// IsRetryable reports whether the operation that produced err is worth
// retrying on the same transport.
func IsRetryable(err error) bool {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable
	}

	switch GetErrorType(err) {
	case ErrorTypeTransient, ErrorTypeTimeout:
		return true
	case ErrorTypePermanent:
		return false
	case ErrorTypeUnknown:
		return false
	default:
		return false
	}
}
