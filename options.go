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
	"time"

	"github.com/bimec/OTRadioLink/internal/frame"
)

// Option is a functional option for configuring a Link
type Option func(*Link) error

// WithRetryConfig sets the retry configuration for the link
func WithRetryConfig(config *RetryConfig) Option {
	return func(l *Link) error {
		l.config.RetryConfig = config
		return nil
	}
}

// WithTimeout sets the receive timeout for the link's transport
func WithTimeout(timeout time.Duration) Option {
	return func(l *Link) error {
		l.config.Timeout = timeout
		return nil
	}
}

// WithMaxRetries sets the maximum number of send attempts
func WithMaxRetries(maxAttempts int) Option {
	return func(l *Link) error {
		if l.config.RetryConfig == nil {
			l.config.RetryConfig = DefaultRetryConfig()
		}
		l.config.RetryConfig.MaxAttempts = maxAttempts
		return nil
	}
}

// WithRetryBackoff sets the initial backoff duration for retries
func WithRetryBackoff(initialBackoff time.Duration) Option {
	return func(l *Link) error {
		if l.config.RetryConfig == nil {
			l.config.RetryConfig = DefaultRetryConfig()
		}
		l.config.RetryConfig.InitialBackoff = initialBackoff
		return nil
	}
}

// WithTXIDLength sets how many local node ID bytes go into outbound
// frame headers; must be between 1 and 8.
func WithTXIDLength(n int) Option {
	return func(l *Link) error {
		if n < 1 || n > frame.MaxIDLength {
			return ErrInvalidIDLength
		}
		l.config.TXIDLength = n
		return nil
	}
}
