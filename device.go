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
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// LinkFlags carries out-of-band line status delivered with a byte
type LinkFlags uint8

const (
	// LinkParityError marks a byte received with a parity error
	LinkParityError LinkFlags = 1 << iota
	// LinkFramingError marks a byte received with a framing error
	LinkFramingError
)

func (f LinkFlags) lineError() bool {
	return f&(LinkParityError|LinkFramingError) != 0
}

// DeviceConfig contains configuration options for the Device
type DeviceConfig struct {
	// ChecksumPolicy overrides the variant default when set
	ChecksumPolicy *ChecksumPolicy
	// Variant selects the wire protocol
	Variant Variant
	// ReadBufferSize is the number of bytes Run requests per read
	ReadBufferSize int
	// Debug enables verbose diagnostics
	Debug bool
}

// DefaultDeviceConfig returns default device configuration
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		Variant:        VariantRevisionB,
		ReadBufferSize: 64,
	}
}

// Device binds a byte source to a decoding session and an event sink.
//
// Thread Safety: HandleByte and Run must not be called concurrently; bytes
// have to arrive in order from a single goroutine. Stats and Close are safe
// to call from any goroutine.
type Device struct {
	transport    Transport
	sink         EventSink
	config       *DeviceConfig
	session      *Session
	assembler    *Assembler
	decoder      *Decoder
	log          zerolog.Logger
	stats        counters
	customLogger bool
	warnedSum    atomic.Bool
	closed       atomic.Bool
}

// New creates a device reading from transport. The transport may be nil
// when bytes are pushed through HandleByte by the caller.
func New(transport Transport, opts ...Option) (*Device, error) {
	device := &Device{
		transport: transport,
		sink:      discardSink{},
		config:    DefaultDeviceConfig(),
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	session, err := NewSession(device.config.Variant)
	if err != nil {
		return nil, err
	}

	policy := DefaultChecksumPolicy(device.config.Variant)
	if device.config.ChecksumPolicy != nil {
		policy = *device.config.ChecksumPolicy
	}
	decoder, err := NewDecoderWithPolicy(device.config.Variant, policy)
	if err != nil {
		return nil, err
	}

	device.session = session
	device.assembler = NewAssembler(session)
	device.decoder = decoder

	debug := device.config.Debug || DebugEnabled()
	if device.customLogger {
		if debug {
			device.log = device.log.Level(zerolog.TraceLevel)
		}
	} else {
		device.log = levelFor(defaultLogger(), debug)
	}
	device.log = device.log.With().Str("variant", device.config.Variant.String()).Logger()
	if transport != nil {
		device.log = device.log.With().Str("port", transportName(transport)).Logger()
	}

	return device, nil
}

// Session returns the decoding session
func (d *Device) Session() *Session {
	return d.session
}

// Variant returns the protocol variant
func (d *Device) Variant() Variant {
	return d.session.Variant()
}

// ChecksumPolicy returns the checksum policy in effect
func (d *Device) ChecksumPolicy() ChecksumPolicy {
	return d.decoder.ChecksumPolicy()
}

// Transport returns the underlying transport
func (d *Device) Transport() Transport {
	return d.transport
}

// Stats returns a snapshot of the decoding counters
func (d *Device) Stats() Stats {
	return d.stats.snapshot()
}

// HandleByte is the byte source callback. It returns false only when the
// device has been closed.
func (d *Device) HandleByte(b byte, flags LinkFlags) bool {
	if d.closed.Load() {
		return false
	}
	d.stats.bytes.Add(1)

	if flags.lineError() {
		d.stats.lineErrors.Add(1)
		if d.session.Fill() > 0 {
			d.stats.resyncs.Add(1)
		}
		d.session.Reset()
		d.log.Debug().Uint8("byte", b).Uint8("flags", uint8(flags)).Msg("line error, partial frame dropped")
		return true
	}

	outcome, f := d.assembler.Feed(b)
	switch outcome {
	case OutcomeFrameReady:
		d.processFrame(f)
	case OutcomeResynced:
		d.stats.resyncs.Add(1)
		d.log.Debug().Uint8("byte", b).Msg("header mismatch, resynchronizing")
	case OutcomeOverrun:
		d.stats.overruns.Add(1)
		d.log.Warn().Uint8("byte", b).Int("fill", d.session.Fill()).Msg("frame buffer full, byte dropped")
	case OutcomeIncomplete:
	}
	return true
}

// Flush completes a buffered legacy reset packet. It is a no-op for the
// fixed-frame variants.
func (d *Device) Flush() {
	if outcome, f := d.assembler.Flush(); outcome == OutcomeFrameReady {
		d.processFrame(f)
	}
}

func (d *Device) processFrame(f Frame) {
	d.stats.frames.Add(1)

	rep, err := d.decoder.Decode(f, d.session)
	if err != nil {
		if IsChecksumError(err) {
			d.stats.checksumRejected.Add(1)
		} else {
			d.stats.frameErrors.Add(1)
		}
		d.log.Debug().Err(err).Int("length", len(f)).Msg("frame rejected")
		return
	}

	if rep.ChecksumMismatch {
		d.stats.checksumTolerated.Add(1)
		ev := d.log.Debug()
		if !d.warnedSum.Swap(true) {
			ev = d.log.Warn()
		}
		ev.Uint8("computed", rep.Computed).Uint8("expected", rep.Expected).
			Msg("checksum mismatch tolerated")
	}
	if rep.Ident != "" {
		d.log.Info().Str("ident", rep.Ident).Msg("device identified")
	}
	if len(rep.DeviceErrors) > 0 {
		d.log.Error().Strs("faults", rep.DeviceErrors).Msg("device reported errors")
	}
	if rep.NoActiveContact {
		d.stats.noActiveContact.Add(1)
		d.log.Trace().Msg("no active contact")
	}

	d.emit(&rep)
}

func (d *Device) emit(rep *Report) {
	switch {
	case rep.Touch != nil:
		d.sink.EmitTouch(*rep.Touch)
	case rep.Motion != nil:
		d.sink.EmitMotion(*rep.Motion)
	case rep.Buttons != nil:
		d.sink.EmitButtons(*rep.Buttons)
	default:
		return
	}
	d.stats.events.Add(1)
}

// Run reads the transport and feeds every byte through the decoder until
// ctx is done, the stream ends or the transport fails. End of stream is
// not an error.
func (d *Device) Run(ctx context.Context) error {
	if d.transport == nil {
		return ErrNoTransport
	}
	if d.closed.Load() {
		return ErrTransportClosed
	}

	buf := make([]byte, d.config.ReadBufferSize)
	if hasCapability(d.transport, CapabilityPacketReads) && len(buf) < 2*len(d.session.buf) {
		buf = make([]byte, 2*len(d.session.buf))
	}

	if lsr, ok := d.transport.(LineStatusReader); ok && hasCapability(d.transport, CapabilityLineStatus) {
		return d.runWithStatus(ctx, lsr, buf)
	}

	tc := AsTransportContext(d.transport)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := tc.ReadContext(ctx, buf)
		for _, b := range buf[:n] {
			d.HandleByte(b, 0)
		}
		if err != nil {
			return d.readFailed(ctx, err)
		}
	}
}

func (d *Device) runWithStatus(ctx context.Context, lsr LineStatusReader, buf []byte) error {
	flags := make([]LinkFlags, len(buf))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := lsr.ReadWithStatus(buf, flags)
		for i := 0; i < n; i++ {
			d.HandleByte(buf[i], flags[i])
		}
		if err != nil {
			return d.readFailed(ctx, err)
		}
	}
}

func (d *Device) readFailed(ctx context.Context, err error) error {
	if errors.Is(err, io.EOF) {
		d.Flush()
		d.log.Debug().Msg("end of stream")
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return NewTransportError("read", transportName(d.transport), err)
}

// Close stops byte handling and closes the transport
func (d *Device) Close() error {
	if d.closed.Swap(true) {
		return nil
	}
	debugf("closing device (%s)", d.config.Variant)
	if d.transport != nil {
		if err := d.transport.Close(); err != nil {
			return fmt.Errorf("failed to close transport: %w", err)
		}
	}
	return nil
}
