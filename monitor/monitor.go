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

// Package monitor turns the per-frame touch stream into contact edges:
// touch down, move and up.
package monitor

import (
	"sync"
	"time"

	sistouch "github.com/ZaparooProject/go-sistouch"
)

// Config holds monitor settings
type Config struct {
	// ReleaseTimeout synthesizes a touch up when no frame arrives for this
	// long while touching. Zero disables it.
	ReleaseTimeout time.Duration
	// ReportStationary calls OnTouchMove even when the position is unchanged
	ReportStationary bool
}

// DefaultConfig returns a config with the release timeout disabled
func DefaultConfig() *Config {
	return &Config{}
}

// Monitor implements sistouch.EventSink for touch events and calls the
// registered callbacks on contact edges. Every event is also passed to
// Next when set.
type Monitor struct {
	config      *Config
	Next        sistouch.EventSink
	OnTouchDown func(e sistouch.TouchEvent)
	OnTouchMove func(e sistouch.TouchEvent)
	// OnTouchUp receives the last position of the released contact
	OnTouchUp func(e sistouch.TouchEvent)
	state     TouchState
	mu        sync.Mutex
}

// New creates a new touch monitor
func New(config *Config) *Monitor {
	if config == nil {
		config = DefaultConfig()
	}
	return &Monitor{config: config}
}

// GetState returns a copy of the current touch state
func (m *Monitor) GetState() TouchState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Close stops any pending release timer
func (m *Monitor) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	safeTimerStop(m.state.ReleaseTimer)
	m.state.ReleaseTimer = nil
}

// EmitTouch implements sistouch.EventSink
func (m *Monitor) EmitTouch(e sistouch.TouchEvent) {
	var callback func(sistouch.TouchEvent)
	report := e

	m.mu.Lock()
	switch {
	case e.PenDown && !m.state.IsTouching():
		m.state.TransitionToTouching(e)
		callback = m.OnTouchDown
	case e.PenDown:
		moved := e.X != m.state.Last.X || e.Y != m.state.Last.Y
		m.state.Seen(e)
		if moved || m.config.ReportStationary {
			callback = m.OnTouchMove
		}
	case m.state.IsTouching():
		report.X, report.Y = m.state.Last.X, m.state.Last.Y
		m.state.TransitionToIdle()
		callback = m.OnTouchUp
	}
	if m.state.IsTouching() {
		m.state.ArmRelease(m.config.ReleaseTimeout, m.handleReleaseTimeout)
	}
	m.mu.Unlock()

	if callback != nil {
		callback(report)
	}
	if m.Next != nil {
		m.Next.EmitTouch(e)
	}
}

// EmitButtons implements sistouch.EventSink
func (m *Monitor) EmitButtons(b sistouch.ButtonState) {
	if m.Next != nil {
		m.Next.EmitButtons(b)
	}
}

// EmitMotion implements sistouch.EventSink
func (m *Monitor) EmitMotion(e sistouch.MotionEvent) {
	if m.Next != nil {
		m.Next.EmitMotion(e)
	}
}

// handleReleaseTimeout runs on the timer goroutine
func (m *Monitor) handleReleaseTimeout(generation uint64) {
	m.mu.Lock()
	if !m.state.IsTouching() || m.state.generation != generation {
		m.mu.Unlock()
		return
	}
	last := m.state.Last
	last.PenDown = false
	m.state.TransitionToIdle()
	callback := m.OnTouchUp
	m.mu.Unlock()

	if callback != nil {
		callback(last)
	}
}
