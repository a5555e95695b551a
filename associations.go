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
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/bimec/OTRadioLink/internal/frame"
)

// Association is a provisioned peer: its full node ID, the shared
// symmetric key, and the last message counter accepted from it.
type Association struct {
	ID  []byte
	Key []byte

	lastReceived MessageCounter
}

// LastReceived returns the last accepted RX counter for this peer.
func (a *Association) LastReceived() MessageCounter { return a.lastReceived }

// AssociationTable resolves frame ID prefixes to provisioned peers and
// owns their anti-replay state.
type AssociationTable interface {
	// LookupByPrefix returns the first association whose node ID starts
	// with prefix, or ErrNoAssociation. With multiple candidates for
	// one prefix the first provisioned entry wins; senders that need
	// disambiguation must use longer ID prefixes.
	LookupByPrefix(prefix []byte) (*Association, error)

	// SetLastReceived records the last accepted RX counter for the peer
	// with the given full node ID. Called only after successful
	// authentication; the counter never rolls back.
	SetLastReceived(id []byte, c MessageCounter) error
}

// Associations is the standard AssociationTable. Counters are written
// through to an optional Store so anti-replay state survives restarts.
type Associations struct {
	store   Store
	entries []*Association
	mu      sync.Mutex
}

// NewAssociations returns an empty table. store may be nil for purely
// in-memory (test) use.
func NewAssociations(store Store) *Associations {
	return &Associations{store: store}
}

func rxCounterKey(id []byte) string {
	return "rxctr/" + hex.EncodeToString(id)
}

// Add provisions a peer. The ID must be 1..8 bytes and the key exactly
// 16. If a persisted counter exists for the ID it is restored.
func (t *Associations) Add(id, key []byte) error {
	if len(id) == 0 || len(id) > frame.MaxIDLength {
		return ErrInvalidIDLength
	}
	if len(key) != frame.KeyLength {
		return ErrInvalidKeyLength
	}
	a := &Association{
		ID:  append([]byte(nil), id...),
		Key: append([]byte(nil), key...),
	}
	if t.store != nil {
		if v, err := t.store.Get(rxCounterKey(id)); err == nil {
			c, err := MessageCounterFromBytes(v)
			if err != nil {
				return fmt.Errorf("restoring RX counter for %x: %w", id, err)
			}
			a.lastReceived = c
		}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, a)
	return nil
}

// LookupByPrefix returns the first association matching prefix.
func (t *Associations) LookupByPrefix(prefix []byte) (*Association, error) {
	if len(prefix) == 0 || len(prefix) > frame.MaxIDLength {
		return nil, ErrInvalidIDLength
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, a := range t.entries {
		if len(a.ID) >= len(prefix) && bytes.Equal(a.ID[:len(prefix)], prefix) {
			return a, nil
		}
	}
	return nil, ErrNoAssociation
}

// SetLastReceived records and persists the last accepted RX counter.
func (t *Associations) SetLastReceived(id []byte, c MessageCounter) error {
	t.mu.Lock()
	var found *Association
	for _, a := range t.entries {
		if bytes.Equal(a.ID, id) {
			found = a
			break
		}
	}
	if found == nil {
		t.mu.Unlock()
		return ErrNoAssociation
	}
	found.lastReceived = c
	t.mu.Unlock()

	if t.store != nil {
		if err := t.store.Set(rxCounterKey(id), c[:]); err != nil {
			return fmt.Errorf("persisting RX counter for %x: %w", id, err)
		}
	}
	return nil
}
