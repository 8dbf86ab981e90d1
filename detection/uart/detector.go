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

// Package uart detects serial ports that may carry a touch controller
package uart

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/ZaparooProject/go-sistouch/detection"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

const (
	probeBaudRate = 115200
	probeWindow   = 300 * time.Millisecond
)

// revised protocol frame header
var frameHeader = []byte{0x02, 0x05}

// detector implements the Detector interface for serial ports
type detector struct {
	list  func() ([]*enumerator.PortDetails, error)
	probe func(ctx context.Context, path string) bool
}

// New creates a new serial port detector
func New() detection.Detector {
	return &detector{
		list:  enumerator.GetDetailedPortsList,
		probe: probePort,
	}
}

// init registers the detector on package import
func init() {
	detection.RegisterDetector(New())
}

// Transport returns the transport type
func (*detector) Transport() string {
	return "uart"
}

// Detect lists serial ports, drops blocked and ignored ones and ranks the rest
func (d *detector) Detect(ctx context.Context, opts *detection.Options) ([]detection.DeviceInfo, error) {
	ports, err := d.list()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}

	devices := make([]detection.DeviceInfo, 0, len(ports))
	for _, port := range ports {
		select {
		case <-ctx.Done():
			return devices, detection.ErrDetectionTimeout
		default:
		}

		info, ok := d.describe(ctx, port, opts)
		if ok {
			devices = append(devices, info)
		}
	}

	if len(devices) == 0 {
		return nil, detection.ErrNoDevicesFound
	}
	return devices, nil
}

func (d *detector) describe(ctx context.Context, port *enumerator.PortDetails, opts *detection.Options) (
	detection.DeviceInfo, bool,
) {
	if port == nil || detection.IsPathIgnored(port.Name, opts.IgnorePaths) {
		return detection.DeviceInfo{}, false
	}
	if !port.IsUSB && !opts.IncludeNonUSB {
		return detection.DeviceInfo{}, false
	}

	vidpid := detection.NormalizeVIDPID(port.VID, port.PID)
	if detection.IsBlocked(vidpid, opts.Blocklist) {
		return detection.DeviceInfo{}, false
	}

	info := detection.DeviceInfo{
		Transport:  "uart",
		Path:       port.Name,
		Name:       port.Name,
		VIDPID:     vidpid,
		Confidence: detection.Low,
		Metadata:   map[string]string{},
	}
	if port.Product != "" {
		info.Name = port.Product
		info.Metadata["product"] = port.Product
	}
	if port.SerialNumber != "" {
		info.Metadata["serial_number"] = port.SerialNumber
	}
	if bridge, ok := detection.BridgeName(vidpid); ok {
		info.Confidence = detection.Medium
		info.Metadata["bridge"] = bridge
	}

	if opts.Mode == detection.Safe && d.probe != nil && d.probe(ctx, port.Name) {
		info.Confidence = detection.High
		info.Metadata["header_seen"] = "true"
	}
	return info, true
}

// probePort listens briefly for a frame header. Nothing is written to the port.
func probePort(ctx context.Context, path string) bool {
	port, err := serial.Open(path, &serial.Mode{
		BaudRate: probeBaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return false
	}
	defer func() { _ = port.Close() }()

	if err := port.SetReadTimeout(50 * time.Millisecond); err != nil {
		return false
	}

	deadline := time.Now().Add(probeWindow)
	var seen []byte
	buf := make([]byte, 64)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		n, err := port.Read(buf)
		if err != nil {
			return false
		}
		seen = append(seen, buf[:n]...)
		if bytes.Contains(seen, frameHeader) {
			return true
		}
	}
	return false
}
