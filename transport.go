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
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// Transport is the byte source a Device reads from. It can be backed by a
// serial port, an I2C bus or a recorded capture.
type Transport interface {
	// Read reads whatever bytes are available. A read that times out
	// without data returns 0, nil.
	Read(p []byte) (int, error)

	// Close closes the transport connection
	Close() error

	// SetTimeout sets the read timeout for the transport
	SetTimeout(timeout time.Duration) error

	// IsConnected returns true if the transport is connected
	IsConnected() bool

	// Type returns the transport type
	Type() TransportType
}

// TransportType represents the type of transport
type TransportType string

const (
	// TransportUART represents UART/serial transport.
	TransportUART TransportType = "uart"
	// TransportI2C represents I2C bus transport.
	TransportI2C TransportType = "i2c"
	// TransportReplay represents a recorded byte stream
	TransportReplay TransportType = "replay"
	// TransportMock represents a mock transport for testing
	TransportMock TransportType = "mock"
)

// TransportCapability represents specific capabilities or behaviors of a transport
type TransportCapability string

const (
	// CapabilityPacketReads indicates each read returns one whole device report
	CapabilityPacketReads TransportCapability = "packet_reads"

	// CapabilityLineStatus indicates the transport reports parity and framing errors
	CapabilityLineStatus TransportCapability = "line_status"
)

// TransportCapabilityChecker defines an interface for querying transport capabilities
type TransportCapabilityChecker interface {
	// HasCapability returns true if the transport has the specified capability
	HasCapability(capability TransportCapability) bool
}

// LineStatusReader is implemented by transports that can attach out-of-band
// line status to each byte
type LineStatusReader interface {
	ReadWithStatus(p []byte, flags []LinkFlags) (int, error)
}

// namedTransport is implemented by transports that know their port or bus name
type namedTransport interface {
	Name() string
}

func transportName(t Transport) string {
	if n, ok := t.(namedTransport); ok {
		return n.Name()
	}
	return string(t.Type())
}

func hasCapability(t Transport, capability TransportCapability) bool {
	if checker, ok := t.(TransportCapabilityChecker); ok {
		return checker.HasCapability(capability)
	}
	return false
}

// ReaderTransport adapts any io.Reader, such as a capture file, to Transport
type ReaderTransport struct {
	r      io.Reader
	name   string
	mu     sync.Mutex
	closed bool
}

// NewReaderTransport creates a transport that replays r
func NewReaderTransport(r io.Reader, name string) *ReaderTransport {
	return &ReaderTransport{r: r, name: name}
}

// Read implements Transport
func (t *ReaderTransport) Read(p []byte) (int, error) {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return 0, ErrTransportClosed
	}
	n, err := t.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("%w: %w", ErrTransportRead, err)
	}
	return n, err
}

// Close implements Transport, closing the reader when it is an io.Closer
func (t *ReaderTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	if c, ok := t.r.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", t.name, err)
		}
	}
	return nil
}

// SetTimeout is a no-op for recorded streams
func (*ReaderTransport) SetTimeout(time.Duration) error {
	return nil
}

// IsConnected returns true until Close is called
func (t *ReaderTransport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.closed
}

// Type returns TransportReplay
func (*ReaderTransport) Type() TransportType {
	return TransportReplay
}

// Name returns the name given at creation
func (t *ReaderTransport) Name() string {
	return t.name
}
