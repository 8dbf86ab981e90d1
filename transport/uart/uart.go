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

// Package uart provides the serial port byte source for touch controllers
package uart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	sistouch "github.com/ZaparooProject/go-sistouch"
	"github.com/ZaparooProject/go-sistouch/internal/transport"
	"go.bug.st/serial"
)

const (
	// DefaultBaudRate is the line speed of the revised touch controllers
	DefaultBaudRate = 115200
	// LegacyBaudRate is the line speed of legacy 6-axis devices
	LegacyBaudRate = 9600
	// DefaultReadTimeout bounds each read so callers can observe cancellation
	DefaultReadTimeout = 100 * time.Millisecond
)

// port is the subset of serial.Port the transport uses
type port interface {
	Read(p []byte) (int, error)
	Close() error
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
}

// openFunc opens a serial port; replaced in tests
type openFunc func(name string, mode *serial.Mode) (port, error)

func openSerial(name string, mode *serial.Mode) (port, error) {
	return serial.Open(name, mode)
}

// Transport implements the sistouch.Transport interface for serial ports
type Transport struct {
	port       port
	mode       *serial.Mode
	open       openFunc
	portName   string
	timeout    time.Duration
	retries    int
	retryDelay time.Duration
	mu         sync.Mutex
}

// Option configures a Transport
type Option func(*Transport)

// WithBaudRate sets the line speed
func WithBaudRate(baud int) Option {
	return func(t *Transport) {
		if baud > 0 {
			t.mode.BaudRate = baud
		}
	}
}

// WithMode replaces the whole serial mode
func WithMode(mode *serial.Mode) Option {
	return func(t *Transport) {
		if mode != nil {
			t.mode = mode
		}
	}
}

// WithOpenRetries retries opening a port that is missing or busy, which
// happens right after a USB adapter is plugged in
func WithOpenRetries(retries int, delay time.Duration) Option {
	return func(t *Transport) {
		t.retries = retries
		t.retryDelay = delay
	}
}

// DefaultMode returns 8N1 at DefaultBaudRate
func DefaultMode() *serial.Mode {
	return &serial.Mode{
		BaudRate: DefaultBaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// New opens the serial port and returns a transport reading from it
func New(portName string, opts ...Option) (*Transport, error) {
	t := &Transport{
		portName: portName,
		mode:     DefaultMode(),
		open:     openSerial,
		timeout:  DefaultReadTimeout,
	}
	for _, opt := range opts {
		opt(t)
	}
	if err := t.connect(context.Background()); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Transport) connect(ctx context.Context) error {
	if t.portName == "" {
		return fmt.Errorf("%w: empty port name", sistouch.ErrInvalidParameter)
	}

	p, err := transport.WithRetry(ctx, transport.RetryConfig{
		Description: t.portName,
		MaxRetries:  t.retries,
		RetryDelay:  t.retryDelay,
	}, func() (port, bool, error) {
		p, err := t.open(t.portName, t.mode)
		if err != nil {
			var portErr *serial.PortError
			retry := errors.As(err, &portErr) &&
				(portErr.Code() == serial.PortNotFound || portErr.Code() == serial.PortBusy)
			return nil, retry, err
		}
		return p, false, nil
	})
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", t.portName, err)
	}

	if err := p.SetReadTimeout(t.timeout); err != nil {
		_ = p.Close()
		return fmt.Errorf("failed to set read timeout: %w", err)
	}
	// stale bytes from before the port was opened would start mid-frame
	_ = p.ResetInputBuffer()

	t.mu.Lock()
	t.port = p
	t.mu.Unlock()
	return nil
}

func (t *Transport) current() port {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.port
}

// Read returns the bytes received within the read timeout. A timeout with
// no data returns 0, nil.
func (t *Transport) Read(p []byte) (int, error) {
	sp := t.current()
	if sp == nil {
		return 0, sistouch.ErrTransportClosed
	}
	n, err := sp.Read(p)
	if err != nil {
		return n, sistouch.NewTransportError("read", t.portName,
			fmt.Errorf("%w: %w", sistouch.ErrTransportRead, err))
	}
	return n, nil
}

// ReadContext implements sistouch.TransportContext. Reads are bounded by
// the read timeout, so cancellation is seen within one timeout period.
func (t *Transport) ReadContext(ctx context.Context, p []byte) (int, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}
	return t.Read(p)
}

// SetTimeout sets the read timeout for the transport
func (t *Transport) SetTimeout(timeout time.Duration) error {
	if timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", sistouch.ErrInvalidParameter)
	}
	t.timeout = timeout
	if sp := t.current(); sp != nil {
		if err := sp.SetReadTimeout(timeout); err != nil {
			return fmt.Errorf("failed to set read timeout: %w", err)
		}
	}
	return nil
}

// Close closes the serial port
func (t *Transport) Close() error {
	t.mu.Lock()
	sp := t.port
	t.port = nil
	t.mu.Unlock()

	if sp == nil {
		return nil
	}
	if err := sp.Close(); err != nil {
		return fmt.Errorf("failed to close serial port %s: %w", t.portName, err)
	}
	return nil
}

// IsConnected returns true if the port is open
func (t *Transport) IsConnected() bool {
	return t.current() != nil
}

// Type returns the transport type
func (*Transport) Type() sistouch.TransportType {
	return sistouch.TransportUART
}

// Name returns the serial port name
func (t *Transport) Name() string {
	return t.portName
}

// BaudRate returns the configured line speed
func (t *Transport) BaudRate() int {
	return t.mode.BaudRate
}
