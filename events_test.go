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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "touch x=100 y=200 pen=down", TouchEvent{X: 100, Y: 200, PenDown: true}.String())
	assert.Equal(t, "touch x=1 y=2 pen=up", TouchEvent{X: 1, Y: 2}.String())
	assert.Equal(t, "buttons none", ButtonState(0).String())
	assert.Equal(t, "buttons TL,A", ButtonState(0x21).String())

	motion := MotionEvent{Axes: [6]int16{1, -2, 3, -4, 5, -6}, Buttons: 0x02}
	assert.Equal(t, "motion x=1 y=-2 z=3 rx=-4 ry=5 rz=-6 buttons TR", motion.String())
	assert.Equal(t, "empty event", Event{}.String())
}

func TestButtonStatePressed(t *testing.T) {
	t.Parallel()

	b := ButtonState(0x3F)
	for i := ButtonTL; i <= ButtonA; i++ {
		assert.True(t, b.Pressed(i))
	}
	assert.False(t, b.Pressed(-1))
	assert.False(t, b.Pressed(6))
}

func TestSinkFuncs(t *testing.T) {
	t.Parallel()

	var touches []TouchEvent
	sink := SinkFuncs{Touch: func(e TouchEvent) { touches = append(touches, e) }}

	sink.EmitTouch(TouchEvent{X: 3})
	sink.EmitButtons(ButtonState(1))
	sink.EmitMotion(MotionEvent{})

	require.Len(t, touches, 1)
	assert.Equal(t, uint16(3), touches[0].X)
}

func TestChannelSinkDropsWhenFull(t *testing.T) {
	t.Parallel()

	sink := NewChannelSink(2)
	sink.EmitTouch(TouchEvent{X: 1})
	sink.EmitButtons(ButtonState(4))
	sink.EmitMotion(MotionEvent{})

	assert.Equal(t, uint64(1), sink.Dropped())

	first := <-sink.Events()
	require.NotNil(t, first.Touch)
	assert.Equal(t, uint16(1), first.Touch.X)

	second := <-sink.Events()
	require.NotNil(t, second.Buttons)
	assert.Equal(t, "buttons Y", second.String())
}

func TestMultiSink(t *testing.T) {
	t.Parallel()

	a, b := NewChannelSink(4), NewChannelSink(4)
	multi := MultiSink{a, b}
	multi.EmitTouch(TouchEvent{X: 1})
	multi.EmitButtons(ButtonState(2))
	multi.EmitMotion(MotionEvent{})

	assert.Len(t, a.Events(), 3)
	assert.Len(t, b.Events(), 3)
}
