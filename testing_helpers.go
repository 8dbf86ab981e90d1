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
	"io"
	"sync"
	"time"
)

// MockTransport replays scripted reads. Each chunk is returned by one Read
// call. Once the script is exhausted Read returns the configured error, or
// io.EOF when none is set.
type MockTransport struct {
	err          error
	capabilities map[TransportCapability]bool
	chunks       [][]byte
	flags        [][]LinkFlags
	timeout      time.Duration
	reads        int
	mu           sync.Mutex
	closed       bool
}

// NewMockTransport creates a mock transport that returns the given chunks
func NewMockTransport(chunks ...[]byte) *MockTransport {
	m := &MockTransport{
		capabilities: make(map[TransportCapability]bool),
		timeout:      time.Second,
	}
	for _, c := range chunks {
		m.AddChunk(c)
	}
	return m
}

// AddChunk appends a read result without line status
func (m *MockTransport) AddChunk(data []byte) {
	m.AddChunkWithStatus(data, nil)
}

// AddChunkWithStatus appends a read result with per-byte line status
func (m *MockTransport) AddChunkWithStatus(data []byte, flags []LinkFlags) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = append(m.chunks, append([]byte(nil), data...))
	m.flags = append(m.flags, append([]LinkFlags(nil), flags...))
}

// SetError sets the error returned once the script is exhausted
func (m *MockTransport) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetCapability enables or disables a capability
func (m *MockTransport) SetCapability(capability TransportCapability, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.capabilities[capability] = enabled
}

// Read implements Transport
func (m *MockTransport) Read(p []byte) (int, error) {
	return m.ReadWithStatus(p, nil)
}

// ReadWithStatus implements LineStatusReader
func (m *MockTransport) ReadWithStatus(p []byte, flags []LinkFlags) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrTransportClosed
	}
	m.reads++

	if len(m.chunks) == 0 {
		if m.err != nil {
			return 0, m.err
		}
		return 0, io.EOF
	}

	chunk, chunkFlags := m.chunks[0], m.flags[0]
	n := copy(p, chunk)
	for i := 0; i < n && i < len(flags); i++ {
		flags[i] = 0
		if i < len(chunkFlags) {
			flags[i] = chunkFlags[i]
		}
	}

	if n < len(chunk) {
		m.chunks[0] = chunk[n:]
		if len(chunkFlags) > n {
			m.flags[0] = chunkFlags[n:]
		} else {
			m.flags[0] = nil
		}
	} else {
		m.chunks = m.chunks[1:]
		m.flags = m.flags[1:]
	}
	return n, nil
}

// ReadCount returns the number of Read calls made
func (m *MockTransport) ReadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// Close implements Transport
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// SetTimeout implements Transport
func (m *MockTransport) SetTimeout(timeout time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeout = timeout
	return nil
}

// IsConnected implements Transport
func (m *MockTransport) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed
}

// Type returns TransportMock
func (*MockTransport) Type() TransportType {
	return TransportMock
}

// HasCapability implements TransportCapabilityChecker
func (m *MockTransport) HasCapability(capability TransportCapability) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.capabilities[capability]
}

// BlockingMockTransport is a mock transport whose reads block on demand.
// It is used for testing context cancellation and shutdown.
type BlockingMockTransport struct {
	blockChan chan struct{}
	Response  []byte
	timeout   time.Duration
	mu        sync.Mutex
	closed    bool
}

// NewBlockingMockTransport creates a new blocking mock transport
func NewBlockingMockTransport() *BlockingMockTransport {
	return &BlockingMockTransport{
		blockChan: make(chan struct{}),
		timeout:   5 * time.Second, // Default timeout
	}
}

// Read blocks until Unblock() is called, the timeout expires, or the transport is closed
func (m *BlockingMockTransport) Read(p []byte) (int, error) {
	m.mu.Lock()
	blockChan := m.blockChan
	closed := m.closed
	timeout := m.timeout
	m.mu.Unlock()

	if closed {
		return 0, ErrTransportClosed
	}

	select {
	case <-blockChan:
	case <-time.After(timeout):
		return 0, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ErrTransportClosed
	}
	return copy(p, m.Response), nil
}

// Unblock allows one blocked Read to proceed
func (m *BlockingMockTransport) Unblock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		close(m.blockChan)
		m.blockChan = make(chan struct{})
	}
}

// Close unblocks all operations and marks transport as closed
func (m *BlockingMockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.blockChan)
	}
	return nil
}

// SetResponse configures the bytes returned by each unblocked Read
func (m *BlockingMockTransport) SetResponse(response []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Response = response
}

// SetTimeout configures the timeout for blocking operations
func (m *BlockingMockTransport) SetTimeout(timeout time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeout = timeout
	return nil
}

// IsConnected returns true until Close is called
func (m *BlockingMockTransport) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed
}

// Type returns TransportMock
func (*BlockingMockTransport) Type() TransportType {
	return TransportMock
}
