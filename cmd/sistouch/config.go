// go-sistouch
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-sistouch.
//
// go-sistouch is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-sistouch is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-sistouch; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	sistouch "github.com/ZaparooProject/go-sistouch"
	"github.com/ZaparooProject/go-sistouch/transport/uart"
)

type settings struct {
	policy         *sistouch.ChecksumPolicy
	Device         string
	Variant        string
	Checksum       string
	Replay         string
	MetricsAddr    string
	ConfigPath     string
	Baud           int
	ReleaseTimeout time.Duration
	variant        sistouch.Variant
	Debug          bool
	Uinput         bool
	List           bool
	Probe          bool
	baudSet        bool
}

func defaultSettings() *settings {
	return &settings{
		Variant: sistouch.VariantRevisionB.String(),
	}
}

// fileConfig is the TOML layout of the -config file
type fileConfig struct {
	Device         string `toml:"device"`
	Variant        string `toml:"variant"`
	Checksum       string `toml:"checksum"`
	MetricsAddr    string `toml:"metrics_addr"`
	ReleaseTimeout string `toml:"release_timeout"`
	Baud           int    `toml:"baud"`
	Debug          bool   `toml:"debug"`
	Uinput         bool   `toml:"uinput"`
}

func loadFile(path string, cfg *settings) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("device") {
		cfg.Device = strings.TrimSpace(raw.Device)
	}
	if meta.IsDefined("variant") {
		cfg.Variant = strings.TrimSpace(raw.Variant)
	}
	if meta.IsDefined("checksum") {
		cfg.Checksum = strings.TrimSpace(raw.Checksum)
	}
	if meta.IsDefined("metrics_addr") {
		cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	}
	if meta.IsDefined("release_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ReleaseTimeout))
		if err != nil {
			return fmt.Errorf("parse release_timeout: %w", err)
		}
		cfg.ReleaseTimeout = d
	}
	if meta.IsDefined("baud") {
		cfg.Baud = raw.Baud
		cfg.baudSet = true
	}
	if meta.IsDefined("debug") {
		cfg.Debug = raw.Debug
	}
	if meta.IsDefined("uinput") {
		cfg.Uinput = raw.Uinput
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}
	return nil
}

// parseArgs reads flags and the optional config file. Flags given on the
// command line override file values.
func parseArgs(args []string, output io.Writer) (*settings, error) {
	cfg := defaultSettings()
	flags := defaultSettings()

	fs := flag.NewFlagSet("sistouch", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&flags.Device, "device", "",
		"Serial device path (e.g., /dev/ttyUSB0 or COM3) or I2C bus. Leave empty for auto-detection.")
	fs.StringVar(&flags.Variant, "variant", flags.Variant, "Protocol variant: legacy, revision-a or revision-b")
	fs.IntVar(&flags.Baud, "baud", 0, "Baud rate (default: 115200, 9600 for legacy)")
	fs.StringVar(&flags.ConfigPath, "config", "", "TOML config file")
	fs.BoolVar(&flags.Debug, "debug", false, "Enable debug output")
	fs.StringVar(&flags.Checksum, "checksum", "", "Checksum policy: enforce or tolerate (default depends on variant)")
	fs.StringVar(&flags.Replay, "replay", "", "Decode a recorded capture (raw bytes or hex dump) instead of a device")
	fs.BoolVar(&flags.Uinput, "uinput", false, "Forward events to a Linux virtual input device")
	fs.StringVar(&flags.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g., :9100)")
	fs.DurationVar(&flags.ReleaseTimeout, "release-timeout", 0,
		"Report touch up when no frame arrives for this long (0 disables)")
	fs.BoolVar(&flags.List, "list", false, "List detected ports and exit")
	fs.BoolVar(&flags.Probe, "probe", false, "With -list, open candidate ports and look for touch frames")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	if flags.ConfigPath != "" {
		if err := loadFile(flags.ConfigPath, cfg); err != nil {
			return nil, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		applyFlag(cfg, flags, f.Name)
	})

	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlag(cfg, flags *settings, name string) {
	switch name {
	case "device":
		cfg.Device = flags.Device
	case "variant":
		cfg.Variant = flags.Variant
	case "baud":
		cfg.Baud = flags.Baud
		cfg.baudSet = true
	case "config":
		cfg.ConfigPath = flags.ConfigPath
	case "debug":
		cfg.Debug = flags.Debug
	case "checksum":
		cfg.Checksum = flags.Checksum
	case "replay":
		cfg.Replay = flags.Replay
	case "uinput":
		cfg.Uinput = flags.Uinput
	case "metrics-addr":
		cfg.MetricsAddr = flags.MetricsAddr
	case "release-timeout":
		cfg.ReleaseTimeout = flags.ReleaseTimeout
	case "list":
		cfg.List = flags.List
	case "probe":
		cfg.Probe = flags.Probe
	}
}

// resolve parses the textual settings and fills in variant defaults
func (s *settings) resolve() error {
	v, err := sistouch.ParseVariant(s.Variant)
	if err != nil {
		return fmt.Errorf("invalid -variant: %w", err)
	}
	s.variant = v

	if s.Checksum != "" {
		p, err := sistouch.ParseChecksumPolicy(s.Checksum)
		if err != nil {
			return fmt.Errorf("invalid -checksum: %w", err)
		}
		s.policy = &p
	}

	if !s.baudSet {
		s.Baud = uart.DefaultBaudRate
		if v == sistouch.VariantLegacy {
			s.Baud = uart.LegacyBaudRate
		}
	}
	if s.Baud <= 0 {
		return fmt.Errorf("invalid baud rate %d", s.Baud)
	}
	if s.ReleaseTimeout < 0 {
		return fmt.Errorf("invalid release timeout %s", s.ReleaseTimeout)
	}
	return nil
}
