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
	"io"
	"sync"
	"testing"
	"time"

	sistouch "github.com/ZaparooProject/go-sistouch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

type fakePort struct {
	readErr     error
	data        []byte
	timeout     time.Duration
	mu          sync.Mutex
	closed      bool
	resetCalled bool
}

func (f *fakePort) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return 0, f.readErr
	}
	n := copy(p, f.data)
	f.data = f.data[n:]
	return n, nil
}

func (f *fakePort) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakePort) SetReadTimeout(t time.Duration) error {
	f.timeout = t
	return nil
}

func (f *fakePort) ResetInputBuffer() error {
	f.resetCalled = true
	return nil
}

func newTestTransport(t *testing.T, fp *fakePort, opts ...Option) *Transport {
	t.Helper()
	tr := &Transport{
		portName: "/dev/ttyUSB0",
		mode:     DefaultMode(),
		timeout:  DefaultReadTimeout,
		open: func(string, *serial.Mode) (port, error) {
			return fp, nil
		},
	}
	for _, opt := range opts {
		opt(tr)
	}
	require.NoError(t, tr.connect(context.Background()))
	return tr
}

// TestTransportCreation verifies basic transport creation and properties
func TestTransportCreation(t *testing.T) {
	t.Parallel()

	fp := &fakePort{}
	tr := newTestTransport(t, fp, WithBaudRate(LegacyBaudRate))

	assert.Equal(t, "/dev/ttyUSB0", tr.Name())
	assert.Equal(t, sistouch.TransportUART, tr.Type())
	assert.Equal(t, LegacyBaudRate, tr.BaudRate())
	assert.True(t, tr.IsConnected())
	assert.True(t, fp.resetCalled)
	assert.Equal(t, DefaultReadTimeout, fp.timeout)
}

func TestUninitializedTransport(t *testing.T) {
	t.Parallel()

	tr := &Transport{portName: "/dev/ttyUSB0"}
	assert.False(t, tr.IsConnected())

	_, err := tr.Read(make([]byte, 4))
	assert.ErrorIs(t, err, sistouch.ErrTransportClosed)
	assert.NoError(t, tr.Close())
}

func TestTransportRead(t *testing.T) {
	t.Parallel()

	fp := &fakePort{data: []byte{0x02, 0x05, 0x00}}
	tr := newTestTransport(t, fp)

	buf := make([]byte, 8)
	n, err := tr.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x05, 0x00}, buf[:n])

	n, err = tr.Read(buf)
	require.NoError(t, err)
	assert.Zero(t, n, "timeout without data is not an error")

	fp.readErr = io.ErrClosedPipe
	_, err = tr.Read(buf)
	assert.ErrorIs(t, err, sistouch.ErrTransportRead)
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

// TestUARTContextCancellation tests that a cancelled context returns
// immediately without touching the port
func TestUARTContextCancellation(t *testing.T) {
	t.Parallel()

	fp := &fakePort{data: []byte{0x02}}
	tr := newTestTransport(t, fp)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tr.ReadContext(ctx, make([]byte, 4))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Len(t, fp.data, 1)
}

func TestTransportSetTimeout(t *testing.T) {
	t.Parallel()

	fp := &fakePort{}
	tr := newTestTransport(t, fp)

	require.NoError(t, tr.SetTimeout(250*time.Millisecond))
	assert.Equal(t, 250*time.Millisecond, fp.timeout)
	assert.ErrorIs(t, tr.SetTimeout(0), sistouch.ErrInvalidParameter)
}

func TestTransportClose(t *testing.T) {
	t.Parallel()

	fp := &fakePort{}
	tr := newTestTransport(t, fp)

	require.NoError(t, tr.Close())
	assert.True(t, fp.closed)
	assert.False(t, tr.IsConnected())
	require.NoError(t, tr.Close(), "second close is a no-op")
}

func TestConnectRetriesMissingPort(t *testing.T) {
	t.Parallel()

	attempts := 0
	fp := &fakePort{}
	tr := &Transport{
		portName:   "/dev/ttyUSB3",
		mode:       DefaultMode(),
		timeout:    DefaultReadTimeout,
		retries:    3,
		retryDelay: time.Millisecond,
		open: func(string, *serial.Mode) (port, error) {
			attempts++
			if attempts < 3 {
				return nil, &serial.PortError{} // zero code is PortBusy
			}
			return fp, nil
		},
	}

	err := tr.connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestConnectEmptyName(t *testing.T) {
	t.Parallel()

	_, err := New("")
	assert.ErrorIs(t, err, sistouch.ErrInvalidParameter)
}
