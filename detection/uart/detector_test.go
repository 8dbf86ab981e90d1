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

package uart

import (
	"context"
	"errors"
	"testing"

	"github.com/ZaparooProject/go-sistouch/detection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial/enumerator"
)

func newTestDetector(ports []*enumerator.PortDetails, probed map[string]bool) *detector {
	return &detector{
		list: func() ([]*enumerator.PortDetails, error) { return ports, nil },
		probe: func(_ context.Context, path string) bool {
			return probed[path]
		},
	}
}

func TestDetect_FiltersAndRanks(t *testing.T) {
	t.Parallel()

	ports := []*enumerator.PortDetails{
		{Name: "/dev/ttyUSB0", IsUSB: true, VID: "0403", PID: "6001", Product: "FT232R USB UART"},
		{Name: "/dev/ttyUSB1", IsUSB: true, VID: "1a86", PID: "55d4"},
		{Name: "/dev/ttyS0"},
		{Name: "/dev/ttyACM0", IsUSB: true, VID: "1234", PID: "5678", SerialNumber: "A1"},
	}
	d := newTestDetector(ports, map[string]bool{"/dev/ttyACM0": true})

	opts := detection.DefaultOptions()
	devices, err := d.Detect(context.Background(), &opts)
	require.NoError(t, err)
	require.Len(t, devices, 2)

	assert.Equal(t, "/dev/ttyUSB0", devices[0].Path)
	assert.Equal(t, detection.Medium, devices[0].Confidence)
	assert.Equal(t, "FTDI FT232R", devices[0].Metadata["bridge"])

	assert.Equal(t, "/dev/ttyACM0", devices[1].Path)
	assert.Equal(t, detection.Low, devices[1].Confidence, "passive mode does not probe")
	assert.Equal(t, "A1", devices[1].Metadata["serial_number"])

	opts.Mode = detection.Safe
	opts.IncludeNonUSB = true
	devices, err = d.Detect(context.Background(), &opts)
	require.NoError(t, err)
	require.Len(t, devices, 3)
	assert.Equal(t, detection.High, devices[2].Confidence)
}

func TestDetect_IgnorePaths(t *testing.T) {
	t.Parallel()

	d := newTestDetector([]*enumerator.PortDetails{
		{Name: "/dev/ttyUSB0", IsUSB: true, VID: "0403", PID: "6001"},
	}, nil)

	opts := detection.DefaultOptions()
	opts.IgnorePaths = []string{"/dev/ttyUSB0"}
	devices, err := d.Detect(context.Background(), &opts)
	assert.ErrorIs(t, err, detection.ErrNoDevicesFound)
	assert.Empty(t, devices)
}

func TestDetect_EnumerationError(t *testing.T) {
	t.Parallel()

	d := &detector{list: func() ([]*enumerator.PortDetails, error) {
		return nil, errors.New("no permission")
	}}
	opts := detection.DefaultOptions()
	_, err := d.Detect(context.Background(), &opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no permission")
}

func TestDetectorTransport(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "uart", New().Transport())
}
