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

// trvhub is the hub daemon: it listens for secure valve reports on an
// attached radio and republishes them as JSON, websocket events and
// Prometheus metrics.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	otradiolink "github.com/bimec/OTRadioLink"
	"github.com/bimec/OTRadioLink/detection"
	"github.com/bimec/OTRadioLink/store/file"
	"github.com/bimec/OTRadioLink/transport/serial"
	"github.com/bimec/OTRadioLink/transport/spi"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "trvhub",
		Short:         "Radiator valve radio hub",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newDetectCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the hub",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runHub(configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "trvhub.yaml", "Config file path")
	return cmd
}

func newDetectCmd() *cobra.Command {
	var allowAll bool
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "List candidate radio dongles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := detection.DefaultOptions()
			opts.AllowAll = allowAll
			devices, err := detection.DetectSerial(cmd.Context(), opts)
			if err != nil {
				return err
			}
			for _, d := range devices {
				fmt.Printf("%s\t%s\t%s\n", d.Path, d.VIDPID, d.Name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&allowAll, "all", false, "List every serial port, not only known dongles")
	return cmd
}

func runHub(configPath string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	store, err := file.Open(cfg.StorePath)
	if err != nil {
		return err
	}

	table := otradiolink.NewAssociations(store)
	for i := range cfg.Associations {
		ident, err := cfg.Associations[i].decode()
		if err != nil {
			return err
		}
		if err := table.Add(ident.id, ident.key); err != nil {
			return fmt.Errorf("associations[%d]: %w", i, err)
		}
	}

	local, err := cfg.Local.decode()
	if err != nil {
		return err
	}
	codec := otradiolink.NewSecureCodec(otradiolink.NewGCMAEAD())
	session, err := otradiolink.NewSecureSession(codec, table, store, local.id, local.key)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	transport, err := openTransport(ctx, cfg, logger)
	if err != nil {
		return err
	}

	link, err := otradiolink.NewLink(transport, session)
	if err != nil {
		_ = transport.Close()
		return err
	}
	defer func() {
		if err := link.Close(); err != nil {
			logger.Warn("link close failed", "err", err)
		}
	}()

	hub := NewHub(link, logger, cfg.StatusTTL)
	logger.Info("hub starting", "device", cfg.Device, "transport", cfg.Transport)
	return hub.Run(ctx, cfg.ListenAddr)
}

// openTransport opens the configured radio attachment, autodetecting
// a serial dongle when no device path is set.
func openTransport(ctx context.Context, cfg *Config, logger *slog.Logger) (otradiolink.Transport, error) {
	if cfg.Transport == "spi" {
		return spi.New(cfg.Device)
	}

	path := cfg.Device
	if path == "" {
		devices, err := detection.DetectSerial(ctx, detection.DefaultOptions())
		if err != nil {
			return nil, fmt.Errorf("no device configured and autodetection failed: %w", err)
		}
		path = devices[0].Path
		logger.Info("autodetected radio dongle", "path", path, "name", devices[0].Name)
	}
	return serial.New(path)
}
