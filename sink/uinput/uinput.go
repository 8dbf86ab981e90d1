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

// Package uinput forwards decoded events to a Linux virtual input device
package uinput

import (
	"sync"

	sistouch "github.com/ZaparooProject/go-sistouch"
)

// Linux input event types and codes
const (
	evSyn = 0x00
	evKey = 0x01
	evAbs = 0x03

	synReport = 0

	btnA     = 0x130
	btnB     = 0x131
	btnX     = 0x133
	btnY     = 0x134
	btnTL    = 0x136
	btnTR    = 0x137
	btnTouch = 0x14a

	absX  = 0x00
	absY  = 0x01
	absZ  = 0x02
	absRX = 0x03
	absRY = 0x04
	absRZ = 0x05

	busRS232 = 0x13
)

// Device identity used by the serial touch driver
const (
	DefaultName    = "SiS touch screen"
	DefaultVendor  = 0x45
	DefaultProduct = 0x0001
	DefaultVersion = 0x0100

	// legacy axes report this range
	legacyAxisRange = 508
)

// buttonCodes maps ButtonState bits to key codes
var buttonCodes = [...]uint16{btnTL, btnTR, btnY, btnX, btnB, btnA}

var axisCodes = [...]uint16{absX, absY, absZ, absRX, absRY, absRZ}

// Config describes the virtual device
type Config struct {
	Name    string
	Variant sistouch.Variant
	MaxX    int32
	MaxY    int32
}

// DefaultConfig returns a touch screen with a 12-bit coordinate range
func DefaultConfig() Config {
	return Config{
		Name:    DefaultName,
		Variant: sistouch.VariantRevisionB,
		MaxX:    4095,
		MaxY:    4095,
	}
}

type absAxis struct {
	code     uint16
	min, max int32
}

// capabilities returns the keys and axes the device announces
func (c Config) capabilities() (keys []uint16, axes []absAxis) {
	if c.Variant == sistouch.VariantLegacy {
		keys = append(keys, buttonCodes[:]...)
		for _, code := range axisCodes {
			axes = append(axes, absAxis{code: code, min: -legacyAxisRange, max: legacyAxisRange})
		}
		return keys, axes
	}
	return []uint16{btnTouch}, []absAxis{
		{code: absX, max: c.MaxX},
		{code: absY, max: c.MaxY},
	}
}

type inputEvent struct {
	Type  uint16
	Code  uint16
	Value int32
}

// eventWriter delivers one report, terminated by the caller's SYN event
type eventWriter interface {
	writeEvents(events []inputEvent) error
	Close() error
}

// Sink implements sistouch.EventSink on a virtual input device. Write
// errors do not stop decoding; the first one is kept for Err.
type Sink struct {
	w   eventWriter
	err error
	mu  sync.Mutex
}

func newSink(w eventWriter) *Sink {
	return &Sink{w: w}
}

func (s *Sink) write(events ...inputEvent) {
	events = append(events, inputEvent{Type: evSyn, Code: synReport})
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.w.writeEvents(events); err != nil && s.err == nil {
		s.err = err
	}
}

// Err returns the first write error, if any
func (s *Sink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// EmitTouch implements sistouch.EventSink
func (s *Sink) EmitTouch(e sistouch.TouchEvent) {
	var touch int32
	if e.PenDown {
		touch = 1
	}
	s.write(
		inputEvent{Type: evAbs, Code: absX, Value: int32(e.X)},
		inputEvent{Type: evAbs, Code: absY, Value: int32(e.Y)},
		inputEvent{Type: evKey, Code: btnTouch, Value: touch},
	)
}

// EmitButtons implements sistouch.EventSink
func (s *Sink) EmitButtons(b sistouch.ButtonState) {
	s.write(buttonEvents(b)...)
}

// EmitMotion implements sistouch.EventSink
func (s *Sink) EmitMotion(e sistouch.MotionEvent) {
	events := make([]inputEvent, 0, len(axisCodes)+len(buttonCodes))
	for i, code := range axisCodes {
		events = append(events, inputEvent{Type: evAbs, Code: code, Value: int32(e.Axes[i])})
	}
	s.write(append(events, buttonEvents(e.Buttons)...)...)
}

func buttonEvents(b sistouch.ButtonState) []inputEvent {
	events := make([]inputEvent, 0, len(buttonCodes))
	for i, code := range buttonCodes {
		var v int32
		if b.Pressed(i) {
			v = 1
		}
		events = append(events, inputEvent{Type: evKey, Code: code, Value: v})
	}
	return events
}

// Close destroys the virtual device
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Close()
}
