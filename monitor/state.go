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

package monitor

import (
	"time"

	sistouch "github.com/ZaparooProject/go-sistouch"
)

// ContactState is the state machine position of the tracked contact
type ContactState int

const (
	// StateIdle means no contact is down
	StateIdle ContactState = iota
	// StateTouching means the pen is down
	StateTouching
)

func (s ContactState) String() string {
	if s == StateTouching {
		return "touching"
	}
	return "idle"
}

// TouchState tracks the contact reported by one device
type TouchState struct {
	DownTime     time.Time
	LastSeenTime time.Time
	ReleaseTimer *time.Timer
	Last         sistouch.TouchEvent
	State        ContactState
	// generation invalidates release timers that fired after a newer frame
	generation uint64
}

// safeTimerStop safely stops a timer and drains its channel to prevent resource leaks
func safeTimerStop(timer *time.Timer) {
	if timer != nil {
		// If Stop() returned false, the timer already fired
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
	}
}

// TransitionToTouching records a pen-down contact
func (ts *TouchState) TransitionToTouching(e sistouch.TouchEvent) {
	now := time.Now()
	ts.State = StateTouching
	ts.DownTime = now
	ts.LastSeenTime = now
	ts.Last = e
}

// Seen records a frame from a contact that is still down
func (ts *TouchState) Seen(e sistouch.TouchEvent) {
	ts.LastSeenTime = time.Now()
	ts.Last = e
}

// ArmRelease restarts the release timer. A zero timeout disables it.
func (ts *TouchState) ArmRelease(timeout time.Duration, callback func(generation uint64)) {
	safeTimerStop(ts.ReleaseTimer)
	ts.ReleaseTimer = nil
	ts.generation++
	if timeout <= 0 {
		return
	}
	gen := ts.generation
	ts.ReleaseTimer = time.AfterFunc(timeout, func() { callback(gen) })
}

// TransitionToIdle resets to idle state
func (ts *TouchState) TransitionToIdle() {
	ts.State = StateIdle
	ts.DownTime = time.Time{}
	ts.generation++
	safeTimerStop(ts.ReleaseTimer)
	ts.ReleaseTimer = nil
}

// IsTouching returns true while the pen is down
func (ts *TouchState) IsTouching() bool {
	return ts.State == StateTouching
}
