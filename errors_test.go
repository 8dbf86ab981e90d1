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

package sistouch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFatal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "checksum mismatch", err: NewFrameError(VariantRevisionA, "checksum", ErrChecksumMismatch), want: false},
		{name: "length mismatch", err: NewFrameError(VariantLegacy, "decode", ErrLengthMismatch), want: false},
		{name: "transport closed", err: ErrTransportClosed, want: true},
		{name: "wrapped transport read", err: NewTransportError("read", "/dev/ttyS0", ErrTransportRead), want: true},
		{name: "no transport", err: ErrNoTransport, want: true},
		{name: "context canceled", err: context.Canceled, want: false},
		{name: "unknown error", err: errors.New("unknown"), want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsFatal(tt.err))
		})
	}
}

func TestIsChecksumError(t *testing.T) {
	t.Parallel()

	err := &FrameError{Op: "checksum", Variant: VariantRevisionB, Err: ErrChecksumMismatch}
	assert.True(t, IsChecksumError(err))
	assert.True(t, IsChecksumError(fmt.Errorf("decode: %w", err)))
	assert.False(t, IsChecksumError(ErrLengthMismatch))
	assert.False(t, IsChecksumError(nil))
}

func TestFrameErrorMessage(t *testing.T) {
	t.Parallel()

	err := &FrameError{
		Op:       "checksum",
		Variant:  VariantRevisionA,
		Err:      ErrChecksumMismatch,
		Computed: 0x12,
		Expected: 0x34,
	}
	assert.Contains(t, err.Error(), "revision-a")
	assert.Contains(t, err.Error(), "checksum mismatch")
	assert.ErrorIs(t, err, ErrChecksumMismatch)

	plain := NewFrameError(VariantLegacy, "decode", ErrUnknownCommand)
	assert.Equal(t, "legacy decode: unknown command byte", plain.Error())
}

func TestTransportErrorMessage(t *testing.T) {
	t.Parallel()

	err := NewTransportError("read", "/dev/ttyUSB0", ErrTransportRead)
	assert.Equal(t, "read on /dev/ttyUSB0: transport read failed", err.Error())
	assert.ErrorIs(t, err, ErrTransportRead)

	noPort := NewTransportError("open", "", ErrTransportClosed)
	assert.Equal(t, "open: transport closed", noPort.Error())
}
