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
)

// Frame errors
var (
	ErrChecksumMismatch = errors.New("checksum mismatch")
	ErrFrameTooShort    = errors.New("frame too short")
	ErrLengthMismatch   = errors.New("frame length does not match command")
	ErrUnknownCommand   = errors.New("unknown command byte")
)

// Configuration errors
var (
	ErrUnknownVariant      = errors.New("unknown protocol variant")
	ErrInvalidParameter    = errors.New("invalid parameter")
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)

// Transport errors
var (
	ErrTransportClosed = errors.New("transport closed")
	ErrTransportRead   = errors.New("transport read failed")
	ErrNoTransport     = errors.New("device has no transport")
)

// FrameError describes why a candidate frame was rejected or flagged
type FrameError struct {
	Err      error
	Op       string
	Variant  Variant
	Computed byte
	Expected byte
}

func (e *FrameError) Error() string {
	if errors.Is(e.Err, ErrChecksumMismatch) {
		return fmt.Sprintf("%s %s: %v (computed %#02x, expected %#02x)",
			e.Variant, e.Op, e.Err, e.Computed, e.Expected)
	}
	return fmt.Sprintf("%s %s: %v", e.Variant, e.Op, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// NewFrameError creates a frame error for the given operation
func NewFrameError(variant Variant, op string, err error) *FrameError {
	return &FrameError{Variant: variant, Op: op, Err: err}
}

// TransportError wraps a failure of the underlying byte source
type TransportError struct {
	Err  error
	Op   string
	Port string
}

func (e *TransportError) Error() string {
	if e.Port == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s on %s: %v", e.Op, e.Port, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a transport error
func NewTransportError(op, port string, err error) *TransportError {
	return &TransportError{Op: op, Port: port, Err: err}
}

// IsChecksumError returns true if err reports a checksum mismatch
func IsChecksumError(err error) bool {
	return errors.Is(err, ErrChecksumMismatch)
}

// IsFatal returns true if the error means the byte source is unusable.
// Frame errors never are; the assembler always resynchronizes.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var frameErr *FrameError
	if errors.As(err, &frameErr) {
		return false
	}
	return errors.Is(err, ErrTransportClosed) || errors.Is(err, ErrTransportRead) || errors.Is(err, ErrNoTransport)
}
