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
	"strings"
	"testing"
)

func TestGetErrorType(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  error
		name string
		want ErrorType
	}{
		{
			name: "nil error",
			err:  nil,
			want: ErrorTypeUnknown,
		},
		{
			name: "transport timeout",
			err:  ErrTransportTimeout,
			want: ErrorTypeTimeout,
		},
		{
			name: "transport read transient",
			err:  ErrTransportRead,
			want: ErrorTypeTransient,
		},
		{
			name: "transport write transient",
			err:  ErrTransportWrite,
			want: ErrorTypeTransient,
		},
		{
			name: "communication failed transient",
			err:  ErrCommunicationFailed,
			want: ErrorTypeTransient,
		},
		{
			name: "authentication failure permanent",
			err:  ErrAuthenticationFailed,
			want: ErrorTypePermanent,
		},
		{
			name: "replay permanent",
			err:  ErrReplayDetected,
			want: ErrorTypePermanent,
		},
		{
			name: "counter overflow permanent",
			err:  ErrCounterOverflow,
			want: ErrorTypePermanent,
		},
		{
			name: "checksum mismatch permanent",
			err:  ErrChecksumMismatch,
			want: ErrorTypePermanent,
		},
		{
			name: "no association permanent",
			err:  ErrNoAssociation,
			want: ErrorTypePermanent,
		},
		{
			name: "transport closed permanent",
			err:  ErrTransportClosed,
			want: ErrorTypePermanent,
		},
		{
			name: "wrapped timeout classified through the chain",
			err:  NewTimeoutError("ReceiveFrame", "/dev/ttyUSB0"),
			want: ErrorTypeTimeout,
		},
		{
			name: "transport error carries its own type",
			err:  NewTransportError("SendFrame", "", ErrTransportWrite, ErrorTypeTransient),
			want: ErrorTypeTransient,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := GetErrorType(tt.err); got != tt.want {
				t.Errorf("GetErrorType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "timeout retryable",
			err:  ErrTransportTimeout,
			want: true,
		},
		{
			name: "transport read retryable",
			err:  ErrTransportRead,
			want: true,
		},
		{
			name: "authentication failure not retryable",
			err:  ErrAuthenticationFailed,
			want: false,
		},
		{
			name: "replay not retryable",
			err:  ErrReplayDetected,
			want: false,
		},
		{
			name: "device not found not retryable",
			err:  ErrDeviceNotFound,
			want: false,
		},
		{
			name: "wrapped timeout retryable",
			err:  NewTimeoutError("ReceiveFrame", "mock"),
			want: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	t.Parallel()
	err := NewTimeoutError("ReceiveFrame", "/dev/ttyUSB0")

	if !errors.Is(err, ErrTransportTimeout) {
		t.Error("timeout error must unwrap to ErrTransportTimeout")
	}
	if !err.Retryable {
		t.Error("timeout error must be retryable")
	}
	msg := err.Error()
	if !strings.Contains(msg, "ReceiveFrame") || !strings.Contains(msg, "/dev/ttyUSB0") {
		t.Errorf("Error() = %q, missing operation or port", msg)
	}

	noPort := NewTransportError("SendFrame", "", ErrTransportWrite, ErrorTypeTransient)
	if strings.Contains(noPort.Error(), "  ") {
		t.Errorf("Error() without port = %q, malformed", noPort.Error())
	}
}
