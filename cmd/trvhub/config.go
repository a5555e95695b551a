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

package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// NodeConfig is one provisioned node: its full ID and AES key, hex
// encoded.
type NodeConfig struct {
	ID  string `yaml:"id"`
	Key string `yaml:"key"`
}

// Config is the trvhub YAML configuration.
type Config struct {
	// ListenAddr is the HTTP listen address for status, websocket and
	// metrics endpoints.
	ListenAddr string `yaml:"listen_addr"`
	// Device is the radio attachment path; empty means autodetect.
	Device string `yaml:"device"`
	// Transport selects "serial" or "spi".
	Transport string `yaml:"transport"`
	// StorePath is the persistent store file for counters.
	StorePath string `yaml:"store"`
	// Local is this hub's own identity.
	Local NodeConfig `yaml:"local"`
	// Associations are the provisioned valve nodes.
	Associations []NodeConfig `yaml:"associations"`
	// StatusTTL is how long a node's last report stays current before
	// it expires from the status cache.
	StatusTTL time.Duration `yaml:"status_ttl"`
}

// DefaultConfig returns the built-in defaults applied under the
// loaded file.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr: ":8080",
		Transport:  "serial",
		StorePath:  "trvhub.db",
		StatusTTL:  10 * time.Minute,
	}
}

// LoadConfig reads and validates the YAML config at path.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := c.Local.decode(); err != nil {
		return fmt.Errorf("local: %w", err)
	}
	if len(c.Associations) == 0 {
		return fmt.Errorf("no associations configured")
	}
	for i := range c.Associations {
		if _, err := c.Associations[i].decode(); err != nil {
			return fmt.Errorf("associations[%d]: %w", i, err)
		}
	}
	if c.Transport != "serial" && c.Transport != "spi" {
		return fmt.Errorf("unknown transport %q", c.Transport)
	}
	return nil
}

type nodeIdentity struct {
	id  []byte
	key []byte
}

func (n *NodeConfig) decode() (nodeIdentity, error) {
	id, err := hex.DecodeString(n.ID)
	if err != nil {
		return nodeIdentity{}, fmt.Errorf("invalid id hex: %w", err)
	}
	key, err := hex.DecodeString(n.Key)
	if err != nil {
		return nodeIdentity{}, fmt.Errorf("invalid key hex: %w", err)
	}
	if len(key) != 16 {
		return nodeIdentity{}, fmt.Errorf("key must be 16 bytes, got %d", len(key))
	}
	return nodeIdentity{id: id, key: key}, nil
}
