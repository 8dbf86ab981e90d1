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
	"sync"
	"testing"
	"time"

	sistouch "github.com/ZaparooProject/go-sistouch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type edgeRecorder struct {
	edges []string
	last  []sistouch.TouchEvent
	mu    sync.Mutex
}

func (r *edgeRecorder) record(kind string) func(sistouch.TouchEvent) {
	return func(e sistouch.TouchEvent) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.edges = append(r.edges, kind)
		r.last = append(r.last, e)
	}
}

func (r *edgeRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.edges...)
}

func newRecordedMonitor(config *Config) (*Monitor, *edgeRecorder) {
	rec := &edgeRecorder{}
	m := New(config)
	m.OnTouchDown = rec.record("down")
	m.OnTouchMove = rec.record("move")
	m.OnTouchUp = rec.record("up")
	return m, rec
}

func TestNewMonitor(t *testing.T) {
	t.Parallel()

	t.Run("WithDefaultConfig", func(t *testing.T) {
		t.Parallel()
		m := New(nil)
		require.NotNil(t, m.config)
		assert.Zero(t, m.config.ReleaseTimeout)
		assert.Equal(t, StateIdle, m.GetState().State)
	})

	t.Run("WithCustomConfig", func(t *testing.T) {
		t.Parallel()
		config := &Config{ReleaseTimeout: 50 * time.Millisecond}
		m := New(config)
		assert.Equal(t, config, m.config)
	})
}

func TestMonitorEdges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		events []sistouch.TouchEvent
		want   []string
		config Config
	}{
		{
			name:   "hover frames produce nothing",
			events: []sistouch.TouchEvent{{X: 1, Y: 1}, {X: 2, Y: 2}},
			want:   nil,
		},
		{
			name: "tap",
			events: []sistouch.TouchEvent{
				{X: 10, Y: 10, PenDown: true},
				{X: 10, Y: 10, PenDown: false},
			},
			want: []string{"down", "up"},
		},
		{
			name: "drag",
			events: []sistouch.TouchEvent{
				{X: 10, Y: 10, PenDown: true},
				{X: 11, Y: 10, PenDown: true},
				{X: 11, Y: 10, PenDown: true},
				{X: 12, Y: 12, PenDown: true},
				{X: 12, Y: 12, PenDown: false},
			},
			want: []string{"down", "move", "move", "up"},
		},
		{
			name: "stationary reported",
			events: []sistouch.TouchEvent{
				{X: 5, Y: 5, PenDown: true},
				{X: 5, Y: 5, PenDown: true},
			},
			config: Config{ReportStationary: true},
			want:   []string{"down", "move"},
		},
		{
			name: "two touches",
			events: []sistouch.TouchEvent{
				{X: 1, Y: 1, PenDown: true},
				{X: 1, Y: 1},
				{X: 1, Y: 1},
				{X: 9, Y: 9, PenDown: true},
				{X: 9, Y: 9},
			},
			want: []string{"down", "up", "down", "up"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			config := tt.config
			m, rec := newRecordedMonitor(&config)
			for _, e := range tt.events {
				m.EmitTouch(e)
			}
			assert.Equal(t, tt.want, rec.snapshot())
			assert.Equal(t, StateIdle, m.GetState().State)
		})
	}
}

func TestMonitorTouchUpReportsLastPosition(t *testing.T) {
	t.Parallel()

	m, rec := newRecordedMonitor(nil)
	m.EmitTouch(sistouch.TouchEvent{X: 40, Y: 50, PenDown: true})
	m.EmitTouch(sistouch.TouchEvent{X: 0, Y: 0, PenDown: false})

	require.Len(t, rec.last, 2)
	assert.Equal(t, sistouch.TouchEvent{X: 40, Y: 50}, rec.last[1])
}

func TestMonitorReleaseTimeout(t *testing.T) {
	t.Parallel()

	m, rec := newRecordedMonitor(&Config{ReleaseTimeout: 20 * time.Millisecond})
	defer m.Close()

	m.EmitTouch(sistouch.TouchEvent{X: 3, Y: 4, PenDown: true})
	state := m.GetState()
	assert.True(t, state.IsTouching())

	assert.Eventually(t, func() bool {
		state := m.GetState()
		return !state.IsTouching()
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"down", "up"}, rec.snapshot())

	// the device still reports the latched pen, which starts a new touch
	m.EmitTouch(sistouch.TouchEvent{X: 3, Y: 4, PenDown: true})
	assert.Eventually(t, func() bool {
		return len(rec.snapshot()) == 4
	}, time.Second, 5*time.Millisecond)
}

func TestMonitorReleaseTimeoutRearmedByFrames(t *testing.T) {
	t.Parallel()

	m, rec := newRecordedMonitor(&Config{ReleaseTimeout: 60 * time.Millisecond})
	defer m.Close()

	m.EmitTouch(sistouch.TouchEvent{X: 1, Y: 1, PenDown: true})
	for i := 0; i < 5; i++ {
		time.Sleep(20 * time.Millisecond)
		m.EmitTouch(sistouch.TouchEvent{X: 1, Y: 1, PenDown: true})
	}
	assert.Equal(t, []string{"down"}, rec.snapshot())

	m.EmitTouch(sistouch.TouchEvent{X: 1, Y: 1})
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, []string{"down", "up"}, rec.snapshot())
}

func TestMonitorForwardsToNext(t *testing.T) {
	t.Parallel()

	sink := sistouch.NewChannelSink(4)
	m := New(nil)
	m.Next = sink

	m.EmitTouch(sistouch.TouchEvent{X: 1, PenDown: true})
	m.EmitButtons(sistouch.ButtonState(1))
	m.EmitMotion(sistouch.MotionEvent{})

	assert.Len(t, sink.Events(), 3)
}

func TestContactStateString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "touching", StateTouching.String())
}
