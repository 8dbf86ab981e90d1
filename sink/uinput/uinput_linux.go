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

package uinput

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

const devicePath = "/dev/uinput"

// uinput ioctl requests
const (
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565
	uiSetAbsBit  = 0x40045567
)

const (
	nameSize = 80
	absCount = 64
)

// userDev mirrors struct uinput_user_dev
type userDev struct {
	Name       [nameSize]byte
	BusType    uint16
	Vendor     uint16
	Product    uint16
	Version    uint16
	EffectsMax uint32
	AbsMax     [absCount]int32
	AbsMin     [absCount]int32
	AbsFuzz    [absCount]int32
	AbsFlat    [absCount]int32
}

// rawEvent mirrors struct input_event
type rawEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

type deviceFile struct {
	f *os.File
}

// Open creates the virtual input device
func Open(cfg Config) (*Sink, error) {
	f, err := os.OpenFile(devicePath, os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", devicePath, err)
	}
	if err := setup(f, cfg); err != nil {
		_ = f.Close()
		return nil, err
	}
	return newSink(&deviceFile{f: f}), nil
}

func setup(f *os.File, cfg Config) error {
	fd := int(f.Fd())
	keys, axes := cfg.capabilities()

	for _, ev := range []int{evKey, evAbs} {
		if err := unix.IoctlSetInt(fd, uiSetEvBit, ev); err != nil {
			return fmt.Errorf("failed to enable event type %d: %w", ev, err)
		}
	}
	for _, key := range keys {
		if err := unix.IoctlSetInt(fd, uiSetKeyBit, int(key)); err != nil {
			return fmt.Errorf("failed to enable key %#x: %w", key, err)
		}
	}

	dev := userDev{
		BusType: busRS232,
		Vendor:  DefaultVendor,
		Product: DefaultProduct,
		Version: DefaultVersion,
	}
	name := cfg.Name
	if name == "" {
		name = DefaultName
	}
	copy(dev.Name[:nameSize-1], name)

	for _, axis := range axes {
		if err := unix.IoctlSetInt(fd, uiSetAbsBit, int(axis.code)); err != nil {
			return fmt.Errorf("failed to enable axis %#x: %w", axis.code, err)
		}
		dev.AbsMin[axis.code] = axis.min
		dev.AbsMax[axis.code] = axis.max
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.NativeEndian, &dev); err != nil {
		return fmt.Errorf("failed to encode device description: %w", err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write device description: %w", err)
	}
	if err := unix.IoctlSetInt(fd, uiDevCreate, 0); err != nil {
		return fmt.Errorf("failed to create input device: %w", err)
	}
	return nil
}

func (d *deviceFile) writeEvents(events []inputEvent) error {
	var now unix.Timeval
	if err := unix.Gettimeofday(&now); err != nil {
		return fmt.Errorf("failed to read time: %w", err)
	}

	var buf bytes.Buffer
	for _, e := range events {
		raw := rawEvent{Time: now, Type: e.Type, Code: e.Code, Value: e.Value}
		if err := binary.Write(&buf, binary.NativeEndian, &raw); err != nil {
			return fmt.Errorf("failed to encode input event: %w", err)
		}
	}
	if _, err := d.f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write input events: %w", err)
	}
	return nil
}

func (d *deviceFile) Close() error {
	_ = unix.IoctlSetInt(int(d.f.Fd()), uiDevDestroy, 0)
	if err := d.f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", devicePath, err)
	}
	return nil
}
