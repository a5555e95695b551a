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
	"errors"
	"testing"
)

func TestMemStore(t *testing.T) {
	t.Parallel()
	s := NewMemStore()

	if _, err := s.Get("missing"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get(missing) error = %v, want %v", err, ErrKeyNotFound)
	}

	if err := s.Set("k", []byte{1, 2, 3}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	v, err := s.Get("k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !bytes.Equal(v, []byte{1, 2, 3}) {
		t.Errorf("Get() = %x, want 010203", v)
	}

	// The returned slice is a copy; mutating it must not corrupt the
	// stored value.
	v[0] = 0xee
	v2, err := s.Get("k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !bytes.Equal(v2, []byte{1, 2, 3}) {
		t.Errorf("stored value changed through returned slice: %x", v2)
	}

	if err := s.Erase("k"); err != nil {
		t.Fatalf("Erase() error = %v", err)
	}
	if _, err := s.Get("k"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get after Erase error = %v, want %v", err, ErrKeyNotFound)
	}

	// Erasing an absent key is not an error.
	if err := s.Erase("k"); err != nil {
		t.Errorf("Erase(absent) error = %v", err)
	}
}
