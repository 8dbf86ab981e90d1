//go:build linux

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

package i2c

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"unsafe"

	"github.com/ZaparooProject/go-sistouch/detection"
	"golang.org/x/sys/unix"
)

const (
	// i2cSlave is the ioctl that selects the target address
	i2cSlave = 0x0703
	// i2cFuncs is the ioctl that reports adapter functionality
	i2cFuncs = 0x0705
	// i2cFuncI2C indicates plain I2C transfers are supported
	i2cFuncI2C = 0x00000001

	reportLength = 43
)

// detectLinux looks for a responding controller at the default address on
// every I2C bus
func detectLinux(ctx context.Context, opts *detection.Options) ([]detection.DeviceInfo, error) {
	buses, err := findBuses()
	if err != nil {
		return nil, err
	}
	if len(buses) == 0 {
		return nil, detection.ErrNoDevicesFound
	}

	var devices []detection.DeviceInfo
	for _, bus := range buses {
		select {
		case <-ctx.Done():
			return devices, detection.ErrDetectionTimeout
		default:
		}

		path := fmt.Sprintf("%s:0x%02X", bus, DefaultAddress)
		if detection.IsPathIgnored(path, opts.IgnorePaths) {
			continue
		}

		acked, headerSeen := probe(bus, DefaultAddress, opts.Mode == detection.Safe)
		if !acked {
			continue
		}

		device := detection.DeviceInfo{
			Transport:  "i2c",
			Path:       path,
			Name:       fmt.Sprintf("I2C touch controller on %s", bus),
			Confidence: detection.Medium,
			Metadata: map[string]string{
				"bus":     bus,
				"address": fmt.Sprintf("0x%02X", DefaultAddress),
			},
		}
		if headerSeen {
			device.Confidence = detection.High
			device.Metadata["header_seen"] = "true"
		}
		devices = append(devices, device)
	}

	if len(devices) == 0 {
		return nil, detection.ErrNoDevicesFound
	}
	return devices, nil
}

// findBuses returns /dev/i2c-* adapters that support plain I2C transfers
func findBuses() ([]string, error) {
	matches, err := filepath.Glob("/dev/i2c-*")
	if err != nil {
		return nil, fmt.Errorf("failed to scan for I2C devices: %w", err)
	}

	buses := make([]string, 0, len(matches))
	for _, path := range matches {
		fd, err := unix.Open(path, unix.O_RDWR, 0)
		if err != nil {
			continue
		}
		var funcs uint64
		// #nosec G103 -- unsafe pointer required for ioctl system call
		_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), i2cFuncs, uintptr(unsafe.Pointer(&funcs)))
		_ = unix.Close(fd)
		if errno != 0 || funcs&i2cFuncI2C == 0 {
			continue
		}
		buses = append(buses, path)
	}
	return buses, nil
}

// probe reads from addr. With full set, a whole report is read and searched
// for the frame header.
func probe(bus string, addr uint8, full bool) (acked, headerSeen bool) {
	fd, err := unix.Open(bus, unix.O_RDWR, 0)
	if err != nil {
		return false, false
	}
	defer func() { _ = unix.Close(fd) }()

	if err := unix.IoctlSetInt(fd, i2cSlave, int(addr)); err != nil {
		return false, false
	}

	size := 1
	if full {
		size = reportLength
	}
	buf := make([]byte, size)
	n, err := unix.Read(fd, buf)
	if err != nil || n <= 0 {
		return false, false
	}
	return true, full && bytes.Contains(buf[:n], []byte{0x02, 0x05})
}
