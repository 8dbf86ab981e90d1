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
	"errors"
	"testing"

	sistouch "github.com/ZaparooProject/go-sistouch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	err     error
	reports [][]inputEvent
	closed  bool
}

func (f *fakeWriter) writeEvents(events []inputEvent) error {
	f.reports = append(f.reports, append([]inputEvent(nil), events...))
	return f.err
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

var syn = inputEvent{Type: evSyn, Code: synReport}

func TestSinkTouch(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	s := newSink(w)
	s.EmitTouch(sistouch.TouchEvent{X: 100, Y: 200, PenDown: true})
	s.EmitTouch(sistouch.TouchEvent{X: 100, Y: 200})

	require.Len(t, w.reports, 2)
	assert.Equal(t, []inputEvent{
		{Type: evAbs, Code: absX, Value: 100},
		{Type: evAbs, Code: absY, Value: 200},
		{Type: evKey, Code: btnTouch, Value: 1},
		syn,
	}, w.reports[0])
	assert.Equal(t, inputEvent{Type: evKey, Code: btnTouch, Value: 0}, w.reports[1][2])
	assert.NoError(t, s.Err())
}

func TestSinkLegacyEvents(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	s := newSink(w)
	s.EmitButtons(sistouch.ButtonState(0x21))
	s.EmitMotion(sistouch.MotionEvent{Axes: [6]int16{-508, 0, 1, 2, 3, 508}, Buttons: 0x02})

	require.Len(t, w.reports, 2)
	buttons := w.reports[0]
	require.Len(t, buttons, 7)
	assert.Equal(t, inputEvent{Type: evKey, Code: btnTL, Value: 1}, buttons[0])
	assert.Equal(t, inputEvent{Type: evKey, Code: btnTR, Value: 0}, buttons[1])
	assert.Equal(t, inputEvent{Type: evKey, Code: btnA, Value: 1}, buttons[5])
	assert.Equal(t, syn, buttons[6])

	motion := w.reports[1]
	require.Len(t, motion, 13)
	assert.Equal(t, inputEvent{Type: evAbs, Code: absX, Value: -508}, motion[0])
	assert.Equal(t, inputEvent{Type: evAbs, Code: absRZ, Value: 508}, motion[5])
	assert.Equal(t, inputEvent{Type: evKey, Code: btnTR, Value: 1}, motion[7])
}

func TestSinkKeepsFirstError(t *testing.T) {
	t.Parallel()

	first := errors.New("device gone")
	w := &fakeWriter{err: first}
	s := newSink(w)
	s.EmitTouch(sistouch.TouchEvent{})
	w.err = errors.New("second")
	s.EmitTouch(sistouch.TouchEvent{})

	assert.Equal(t, first, s.Err())
	require.NoError(t, s.Close())
	assert.True(t, w.closed)
}

func TestConfigCapabilities(t *testing.T) {
	t.Parallel()

	keys, axes := DefaultConfig().capabilities()
	assert.Equal(t, []uint16{btnTouch}, keys)
	assert.Equal(t, []absAxis{{code: absX, max: 4095}, {code: absY, max: 4095}}, axes)

	legacy := DefaultConfig()
	legacy.Variant = sistouch.VariantLegacy
	keys, axes = legacy.capabilities()
	assert.Len(t, keys, 6)
	require.Len(t, axes, 6)
	assert.Equal(t, int32(-508), axes[3].min)
	assert.Equal(t, int32(508), axes[3].max)
}
