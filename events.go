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
	"fmt"
	"strings"
	"sync/atomic"
)

// TouchEvent is the decoded position and pen state of the primary contact
type TouchEvent struct {
	X       uint16
	Y       uint16
	PenDown bool
	// ContactCount is the count byte the device reported alongside
	ContactCount uint8
}

func (e TouchEvent) String() string {
	state := "up"
	if e.PenDown {
		state = "down"
	}
	return fmt.Sprintf("touch x=%d y=%d pen=%s", e.X, e.Y, state)
}

// Legacy button indices
const (
	ButtonTL = iota
	ButtonTR
	ButtonY
	ButtonX
	ButtonB
	ButtonA
	numButtons
)

var buttonNames = [numButtons]string{"TL", "TR", "Y", "X", "B", "A"}

// ButtonState is the six legacy buttons as a bitmask, bit i for button i
type ButtonState uint8

// Pressed returns true if button i is held
func (b ButtonState) Pressed(i int) bool {
	if i < 0 || i >= numButtons {
		return false
	}
	return b&(1<<uint(i)) != 0
}

func (b ButtonState) String() string {
	var held []string
	for i := 0; i < numButtons; i++ {
		if b.Pressed(i) {
			held = append(held, buttonNames[i])
		}
	}
	if len(held) == 0 {
		return "buttons none"
	}
	return "buttons " + strings.Join(held, ",")
}

// Legacy axis indices
const (
	AxisX = iota
	AxisY
	AxisZ
	AxisRX
	AxisRY
	AxisRZ
)

// MotionEvent is a legacy six-axis displacement together with the buttons
// reported in the same packet
type MotionEvent struct {
	Axes    [6]int16
	Buttons ButtonState
}

func (e MotionEvent) String() string {
	return fmt.Sprintf("motion x=%d y=%d z=%d rx=%d ry=%d rz=%d %s",
		e.Axes[AxisX], e.Axes[AxisY], e.Axes[AxisZ],
		e.Axes[AxisRX], e.Axes[AxisRY], e.Axes[AxisRZ], e.Buttons)
}

// EventSink receives decoded events. Calls are synchronous and in order,
// at most one per completed frame.
type EventSink interface {
	EmitTouch(TouchEvent)
	EmitButtons(ButtonState)
	EmitMotion(MotionEvent)
}

// SinkFuncs adapts plain functions to EventSink. Nil functions drop the event.
type SinkFuncs struct {
	Touch   func(TouchEvent)
	Buttons func(ButtonState)
	Motion  func(MotionEvent)
}

// EmitTouch implements EventSink
func (f SinkFuncs) EmitTouch(e TouchEvent) {
	if f.Touch != nil {
		f.Touch(e)
	}
}

// EmitButtons implements EventSink
func (f SinkFuncs) EmitButtons(b ButtonState) {
	if f.Buttons != nil {
		f.Buttons(b)
	}
}

// EmitMotion implements EventSink
func (f SinkFuncs) EmitMotion(e MotionEvent) {
	if f.Motion != nil {
		f.Motion(e)
	}
}

// Event is one item delivered by ChannelSink; exactly one field is set
type Event struct {
	Touch   *TouchEvent
	Buttons *ButtonState
	Motion  *MotionEvent
}

func (e Event) String() string {
	switch {
	case e.Touch != nil:
		return e.Touch.String()
	case e.Buttons != nil:
		return e.Buttons.String()
	case e.Motion != nil:
		return e.Motion.String()
	default:
		return "empty event"
	}
}

// ChannelSink forwards events to a buffered channel. When the channel is
// full the event is dropped rather than stalling the byte source.
type ChannelSink struct {
	ch      chan Event
	dropped atomic.Uint64
}

// NewChannelSink creates a sink with the given channel capacity
func NewChannelSink(capacity int) *ChannelSink {
	if capacity < 1 {
		capacity = 1
	}
	return &ChannelSink{ch: make(chan Event, capacity)}
}

// Events returns the receive side of the channel
func (c *ChannelSink) Events() <-chan Event {
	return c.ch
}

// Dropped returns how many events were discarded because the channel was full
func (c *ChannelSink) Dropped() uint64 {
	return c.dropped.Load()
}

func (c *ChannelSink) send(e Event) {
	select {
	case c.ch <- e:
	default:
		c.dropped.Add(1)
	}
}

// EmitTouch implements EventSink
func (c *ChannelSink) EmitTouch(e TouchEvent) {
	c.send(Event{Touch: &e})
}

// EmitButtons implements EventSink
func (c *ChannelSink) EmitButtons(b ButtonState) {
	c.send(Event{Buttons: &b})
}

// EmitMotion implements EventSink
func (c *ChannelSink) EmitMotion(e MotionEvent) {
	c.send(Event{Motion: &e})
}

// discardSink is used when no sink is configured
type discardSink struct{}

func (discardSink) EmitTouch(TouchEvent) {}
func (discardSink) EmitButtons(ButtonState) {}
func (discardSink) EmitMotion(MotionEvent) {}

// MultiSink delivers every event to each sink in order
type MultiSink []EventSink

// EmitTouch implements EventSink
func (m MultiSink) EmitTouch(e TouchEvent) {
	for _, s := range m {
		s.EmitTouch(e)
	}
}

// EmitButtons implements EventSink
func (m MultiSink) EmitButtons(b ButtonState) {
	for _, s := range m {
		s.EmitButtons(b)
	}
}

// EmitMotion implements EventSink
func (m MultiSink) EmitMotion(e MotionEvent) {
	for _, s := range m {
		s.EmitMotion(e)
	}
}
