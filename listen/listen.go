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

// Package listen runs a continuous receive loop over a Link, decoding
// secure frames from provisioned peers and handing them to callbacks.
package listen

import (
	"context"
	"errors"
	"fmt"
	"time"

	otradiolink "github.com/bimec/OTRadioLink"
	"github.com/bimec/OTRadioLink/internal/frame"
)

// Frame is one authenticated frame handed to the OnFrame callback.
// The byte slices are only valid for the duration of the call.
type Frame struct {
	// SenderID is the sender's full provisioned node ID.
	SenderID []byte
	// Body is the decrypted plaintext body, nil for an empty-body
	// beacon.
	Body []byte
}

// Config holds listener configuration
type Config struct {
	// OnFrame is called for every authenticated frame.
	OnFrame func(f Frame) error
	// OnError is called for decode and transport failures. Returning an
	// error stops the listener.
	OnError func(err error) error
	// ErrorBackoff is how long to pause after a transport error before
	// polling again.
	ErrorBackoff time.Duration
}

// DefaultConfig returns the default listener configuration.
func DefaultConfig() *Config {
	return &Config{
		ErrorBackoff: 100 * time.Millisecond,
	}
}

// Listener receives and decodes frames until its context is cancelled
type Listener struct {
	link   *otradiolink.Link
	config *Config
}

// New creates a listener over link.
func New(link *otradiolink.Link, config *Config) *Listener {
	if config == nil {
		config = DefaultConfig()
	}
	return &Listener{link: link, config: config}
}

// Run receives frames until ctx is cancelled or a callback asks to
// stop. Receive timeouts are treated as idle time, not errors; replayed
// and unauthenticated frames are reported through OnError and the loop
// carries on.
func (l *Listener) Run(ctx context.Context) error {
	var body [frame.MaxUnpaddedBodyLength]byte
	var sender [frame.MaxIDLength]byte

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, idLen, err := l.link.Receive(body[:], sender[:])
		if err != nil {
			if isTimeout(err) {
				continue
			}
			if cbErr := l.reportError(err); cbErr != nil {
				return cbErr
			}
			if transportFault(err) {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(l.config.ErrorBackoff):
				}
			}
			continue
		}

		if l.config.OnFrame == nil {
			continue
		}
		f := Frame{SenderID: sender[:idLen]}
		if n > 0 {
			f.Body = body[:n]
		}
		if err := l.config.OnFrame(f); err != nil {
			return fmt.Errorf("frame callback failed: %w", err)
		}
	}
}

// reportError forwards err to OnError if set.
func (l *Listener) reportError(err error) error {
	if l.config.OnError == nil {
		return nil
	}
	return l.config.OnError(err)
}

// isTimeout reports whether err is a receive timeout.
func isTimeout(err error) bool {
	return otradiolink.GetErrorType(err) == otradiolink.ErrorTypeTimeout ||
		errors.Is(err, otradiolink.ErrTransportTimeout)
}

// transportFault reports whether err came from the radio attachment
// rather than from frame contents, and so deserves a backoff.
func transportFault(err error) bool {
	var terr *otradiolink.TransportError
	return errors.As(err, &terr)
}
