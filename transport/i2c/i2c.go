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

// Package i2c provides an I2C byte source for touch controllers that
// deliver their reports over an I2C bus instead of a serial line
package i2c

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	sistouch "github.com/ZaparooProject/go-sistouch"
	"github.com/ZaparooProject/go-sistouch/internal/frame"
	"github.com/ZaparooProject/go-sistouch/internal/transport"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

const (
	// DefaultAddress is the 7-bit address of SiS touch controllers
	DefaultAddress = 0x5C

	// Max clock frequency (400 kHz).
	maxClockFreq = 400 * physic.KiloHertz

	defaultTimeout      = 50 * time.Millisecond
	defaultPollInterval = 5 * time.Millisecond
)

// txer is the part of periph's i2c.Dev used for reads
type txer interface {
	Tx(w, r []byte) error
}

// Transport implements sistouch.Transport for I2C touch controllers. Each
// bus transaction returns one whole report.
type Transport struct {
	dev          txer
	bus          i2c.BusCloser
	busName      string
	pending      []byte
	timeout      time.Duration
	pollInterval time.Duration
	addr         uint16
	mu           sync.Mutex
}

// Option configures a Transport
type Option func(*Transport)

// WithAddress overrides the device address
func WithAddress(addr uint16) Option {
	return func(t *Transport) {
		t.addr = addr
	}
}

// WithPollInterval sets how often the controller is polled while idle
func WithPollInterval(interval time.Duration) Option {
	return func(t *Transport) {
		if interval > 0 {
			t.pollInterval = interval
		}
	}
}

// ParsePath splits a detection path such as "/dev/i2c-1:0x5C" into the
// bus name and address. A path without an address uses DefaultAddress.
func ParsePath(path string) (string, uint16, error) {
	bus, addrText, found := strings.Cut(path, ":")
	if !found {
		return path, DefaultAddress, nil
	}
	addr, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(addrText), "0x"), 16, 7)
	if err != nil {
		return "", 0, fmt.Errorf("%w: I2C address %q", sistouch.ErrInvalidParameter, addrText)
	}
	return bus, uint16(addr), nil
}

// New opens the I2C bus and returns a transport polling the controller.
// busName may carry an address suffix as produced by detection.
func New(busName string, opts ...Option) (*Transport, error) {
	name, addr, err := ParsePath(busName)
	if err != nil {
		return nil, err
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %s: %w", name, err)
	}

	_ = bus.SetSpeed(maxClockFreq) // Ignore error, continue with default speed

	t := &Transport{
		bus:          bus,
		busName:      name,
		addr:         addr,
		timeout:      defaultTimeout,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.dev = &i2c.Dev{Addr: t.addr, Bus: bus}
	return t, nil
}

// Read returns report bytes. While the controller has nothing to report
// it is polled until the timeout passes, then 0, nil is returned.
func (t *Transport) Read(p []byte) (int, error) {
	return t.ReadContext(context.Background(), p)
}

// ReadContext implements sistouch.TransportContext
func (t *Transport) ReadContext(ctx context.Context, p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.dev == nil {
		return 0, sistouch.ErrTransportClosed
	}
	if len(t.pending) > 0 {
		return t.drain(p), nil
	}

	report, ok, err := transport.TimeoutRetry(ctx, t.timeout, t.pollInterval,
		func() ([]byte, bool, error) {
			buf := make([]byte, frame.PacketMaxLength)
			if err := t.dev.Tx(nil, buf); err != nil {
				return nil, false, sistouch.NewTransportError("read", t.Name(),
					fmt.Errorf("%w: %w", sistouch.ErrTransportRead, err))
			}
			if buf[0] != frame.HeaderByte1 {
				return nil, true, nil
			}
			return buf, false, nil
		})
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}

	t.pending = report
	return t.drain(p), nil
}

func (t *Transport) drain(p []byte) int {
	n := copy(p, t.pending)
	t.pending = t.pending[n:]
	return n
}

// SetTimeout sets how long a read polls for a report
func (t *Transport) SetTimeout(timeout time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timeout = timeout
	return nil
}

// Close releases the bus
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dev = nil
	t.pending = nil
	if t.bus == nil {
		return nil
	}
	bus := t.bus
	t.bus = nil
	if err := bus.Close(); err != nil {
		return fmt.Errorf("failed to close I2C bus %s: %w", t.busName, err)
	}
	return nil
}

// IsConnected returns true if the transport is connected
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dev != nil
}

// Type returns the transport type
func (*Transport) Type() sistouch.TransportType {
	return sistouch.TransportI2C
}

// Name returns the bus and address
func (t *Transport) Name() string {
	return fmt.Sprintf("%s:0x%02X", t.busName, t.addr)
}

// HasCapability implements sistouch.TransportCapabilityChecker
func (*Transport) HasCapability(capability sistouch.TransportCapability) bool {
	return capability == sistouch.CapabilityPacketReads
}
