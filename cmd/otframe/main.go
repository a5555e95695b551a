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

// otframe encodes and decodes radio frames on the command line, for
// poking at dongles and debugging captures.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"

	otradiolink "github.com/bimec/OTRadioLink"
	"github.com/bimec/OTRadioLink/internal/frame"
)

type config struct {
	mode    *string
	id      *string
	key     *string
	body    *string
	stats   *string
	in      *string
	valvePC *int
	seq     *int
	secure  *bool
}

func parseFlags() *config {
	cfg := &config{
		mode: flag.String("mode", "encode",
			"Operation: encode, decode or beacon"),
		id:  flag.String("id", "", "Node ID bytes in hex (sender for encode, association for decode)"),
		key: flag.String("key", "", "16-byte AES key in hex; omit for non-secure frames"),
		body: flag.String("body", "",
			"Frame body in hex (mutually exclusive with -valve/-stats)"),
		stats:   flag.String("stats", "", "Stats JSON object for a valve frame"),
		in:      flag.String("in", "", "Frame bytes in hex to decode"),
		valvePC: flag.Int("valve", -1, "Valve percentage open [0,100] for a valve frame"),
		seq:     flag.Int("seq", 0, "Sequence number [0,15] for non-secure frames"),
		secure:  flag.Bool("secure", false, "Encode a secure frame (requires -key)"),
	}
	flag.Parse()
	return cfg
}

func main() {
	cfg := parseFlags()

	var err error
	switch *cfg.mode {
	case "encode":
		err = runEncode(cfg)
	case "decode":
		err = runDecode(cfg)
	case "beacon":
		err = runBeacon(cfg)
	default:
		err = fmt.Errorf("unknown mode %q", *cfg.mode)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "otframe: %v\n", err)
		os.Exit(1)
	}
}

func mustHex(name, s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid hex in -%s: %w", name, err)
	}
	return b, nil
}

// newSession builds a transmit-capable secure session from the flags.
func newSession(cfg *config) (*otradiolink.SecureSession, error) {
	id, err := mustHex("id", *cfg.id)
	if err != nil {
		return nil, err
	}
	key, err := mustHex("key", *cfg.key)
	if err != nil {
		return nil, err
	}
	codec := otradiolink.NewSecureCodec(otradiolink.NewGCMAEAD())
	return otradiolink.NewSecureSession(codec, nil, otradiolink.NewMemStore(), id, key)
}

func runEncode(cfg *config) error {
	var buf [frame.MaxFrameLength + 1]byte
	var n int

	switch {
	case *cfg.secure:
		session, err := newSession(cfg)
		if err != nil {
			return err
		}
		if *cfg.valvePC >= 0 || *cfg.stats != "" {
			pc := uint8(otradiolink.ValvePercentNone)
			if *cfg.valvePC >= 0 {
				pc = uint8(*cfg.valvePC)
			}
			n, err = session.EncodeValveFrame(buf[:], len(*cfg.id)/2, pc, *cfg.stats)
		} else {
			body, berr := mustHex("body", *cfg.body)
			if berr != nil {
				return berr
			}
			n, err = session.Encode(buf[:], otradiolink.FrameTypeBasicSensorOrValve, len(*cfg.id)/2, body)
		}
		if err != nil {
			return err
		}
	default:
		id, err := mustHex("id", *cfg.id)
		if err != nil {
			return err
		}
		body, err := mustHex("body", *cfg.body)
		if err != nil {
			return err
		}
		n, err = otradiolink.EncodeNonsecureFrame(
			buf[:], otradiolink.FrameTypeBasicSensorOrValve, uint8(*cfg.seq), id, body)
		if err != nil {
			return err
		}
	}

	fmt.Println(hex.EncodeToString(buf[:n]))
	return nil
}

func runDecode(cfg *config) error {
	raw, err := mustHex("in", *cfg.in)
	if err != nil {
		return err
	}

	h, _, err := otradiolink.DecodeFrameHeader(raw)
	if err != nil {
		return fmt.Errorf("header decode failed: %w", err)
	}
	fmt.Printf("type=0x%02x secure=%v seq=%d id=%s bodyLen=%d frameLen=%d\n",
		byte(h.Type()), h.Secure(), h.SeqNum(), hex.EncodeToString(h.ID()), h.BodyLength(), h.FrameLength())

	if !h.Secure() {
		if _, _, err := otradiolink.DecodeNonsecureFrame(raw); err != nil {
			return fmt.Errorf("CRC check failed: %w", err)
		}
		fmt.Printf("body=%s\n", hex.EncodeToString(raw[h.BodyOffset():h.BodyOffset()+h.BodyLength()]))
		return nil
	}

	if *cfg.key == "" {
		return fmt.Errorf("secure frame: -key required to authenticate")
	}
	id, err := mustHex("id", *cfg.id)
	if err != nil {
		return err
	}
	key, err := mustHex("key", *cfg.key)
	if err != nil {
		return err
	}

	codec := otradiolink.NewSecureCodec(otradiolink.NewGCMAEAD())
	table := otradiolink.NewAssociations(nil)
	if err := table.Add(id, key); err != nil {
		return err
	}
	session, err := otradiolink.NewSecureSession(codec, table, otradiolink.NewMemStore(), id, key)
	if err != nil {
		return err
	}

	var plaintext [frame.MaxUnpaddedBodyLength]byte
	var sender [frame.MaxIDLength]byte
	n, idLen, err := session.Decode(raw, plaintext[:], sender[:])
	if err != nil {
		return fmt.Errorf("secure decode failed: %w", err)
	}
	fmt.Printf("sender=%s body=%s\n",
		hex.EncodeToString(sender[:idLen]), hex.EncodeToString(plaintext[:n]))
	return nil
}

func runBeacon(cfg *config) error {
	id, err := mustHex("id", *cfg.id)
	if err != nil {
		return err
	}

	var buf [frame.MaxFrameLength + 1]byte
	var n int
	if *cfg.secure {
		session, err := newSession(cfg)
		if err != nil {
			return err
		}
		n, err = session.EncodeSecureBeacon(buf[:], len(id))
		if err != nil {
			return err
		}
	} else {
		n, err = otradiolink.EncodeNonsecureAliveBeacon(buf[:], uint8(*cfg.seq), id)
		if err != nil {
			return err
		}
	}
	fmt.Println(hex.EncodeToString(buf[:n]))
	return nil
}
