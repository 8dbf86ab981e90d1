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

package detection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPathIgnored(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		devicePath  string
		ignorePaths []string
		expected    bool
	}{
		{name: "empty ignore list", devicePath: "/dev/ttyUSB0", ignorePaths: []string{}, expected: false},
		{name: "empty device path", devicePath: "", ignorePaths: []string{"/dev/ttyUSB0"}, expected: false},
		{name: "exact match unix path", devicePath: "/dev/ttyUSB0", ignorePaths: []string{"/dev/ttyUSB0"}, expected: true},
		{name: "windows case insensitive", devicePath: "com3", ignorePaths: []string{"COM3"}, expected: true},
		{name: "relative components", devicePath: "/dev/../dev/ttyS0", ignorePaths: []string{"/dev/ttyS0"}, expected: true},
		{name: "i2c address path", devicePath: "/dev/i2c-1:0x5C", ignorePaths: []string{"/dev/i2c-1:0x5c"}, expected: true},
		{name: "no match", devicePath: "/dev/ttyUSB1", ignorePaths: []string{"/dev/ttyUSB0", "COM2"}, expected: false},
		{name: "empty entries skipped", devicePath: "/dev/ttyUSB0", ignorePaths: []string{"", "/dev/ttyUSB0"}, expected: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsPathIgnored(tt.devicePath, tt.ignorePaths))
		})
	}
}

func TestNormalizeVIDPID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		vid, pid string
		want     string
	}{
		{vid: "0403", pid: "6001", want: "0403:6001"},
		{vid: "10c4", pid: "ea60", want: "10C4:EA60"},
		{vid: "0x67b", pid: "0x2303", want: "067B:2303"},
		{vid: "", pid: "6001", want: ""},
		{vid: "zz", pid: "6001", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeVIDPID(tt.vid, tt.pid), "vid=%q pid=%q", tt.vid, tt.pid)
	}
}

func TestIsBlocked(t *testing.T) {
	t.Parallel()

	assert.True(t, IsBlocked("1a86:55d4", DefaultBlocklist()))
	assert.False(t, IsBlocked("0403:6001", DefaultBlocklist()))
	assert.False(t, IsBlocked("", []string{""}))

	name, ok := BridgeName("10c4:ea60")
	assert.True(t, ok)
	assert.Equal(t, "Silicon Labs CP210x", name)
}

type fakeDetector struct {
	err       error
	transport string
	found     []DeviceInfo
}

func (f *fakeDetector) Transport() string { return f.transport }

func (f *fakeDetector) Detect(context.Context, *Options) ([]DeviceInfo, error) {
	return f.found, f.err
}

// registry tests share global state and must not run in parallel
func TestDetectAllContext(t *testing.T) {
	registryMu.Lock()
	saved := detectors
	detectors = map[string]Detector{}
	registryMu.Unlock()
	t.Cleanup(func() {
		registryMu.Lock()
		detectors = saved
		registryMu.Unlock()
	})

	RegisterDetector(&fakeDetector{transport: "uart", found: []DeviceInfo{
		{Transport: "uart", Path: "/dev/ttyS0", Confidence: Low},
		{Transport: "uart", Path: "/dev/ttyUSB0", Confidence: Medium},
	}})
	RegisterDetector(&fakeDetector{transport: "i2c", err: ErrUnsupportedPlatform})

	opts := DefaultOptions()
	opts.Timeout = time.Second
	devices, err := DetectAllContext(context.Background(), &opts)
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "/dev/ttyUSB0", devices[0].Path, "higher confidence first")

	RegisterDetector(&fakeDetector{transport: "uart", err: errors.New("enumeration failed")})
	devices, err = DetectAllContext(context.Background(), &opts)
	require.Error(t, err)
	assert.Nil(t, devices)
}

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	assert.Nil(t, opts.IgnorePaths)
	assert.Equal(t, Passive, opts.Mode)
	assert.NotEmpty(t, opts.Blocklist)
}
