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
	"fmt"

	"github.com/rs/zerolog"
)

// Option is a functional option for configuring a Device
type Option func(*Device) error

// WithVariant selects the wire protocol. It is fixed for the device's lifetime.
func WithVariant(v Variant) Option {
	return func(d *Device) error {
		if !v.Valid() {
			return fmt.Errorf("%w: %d", ErrUnknownVariant, int(v))
		}
		d.config.Variant = v
		return nil
	}
}

// WithChecksumPolicy overrides the variant's default checksum policy
func WithChecksumPolicy(policy ChecksumPolicy) Option {
	return func(d *Device) error {
		if policy != ChecksumEnforce && policy != ChecksumTolerate {
			return fmt.Errorf("%w: checksum policy %d", ErrInvalidParameter, int(policy))
		}
		d.config.ChecksumPolicy = &policy
		return nil
	}
}

// WithSink sets where decoded events are delivered
func WithSink(sink EventSink) Option {
	return func(d *Device) error {
		if sink == nil {
			return fmt.Errorf("%w: nil sink", ErrInvalidParameter)
		}
		d.sink = sink
		return nil
	}
}

// WithLogger sets the device logger
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Device) error {
		d.log = logger
		d.customLogger = true
		return nil
	}
}

// WithDebug enables verbose diagnostics for this device regardless of
// SetDebugEnabled
func WithDebug(enabled bool) Option {
	return func(d *Device) error {
		d.config.Debug = enabled
		return nil
	}
}

// WithReadBufferSize sets how many bytes Run requests per transport read
func WithReadBufferSize(size int) Option {
	return func(d *Device) error {
		if size < 1 {
			return fmt.Errorf("%w: read buffer size %d", ErrInvalidParameter, size)
		}
		d.config.ReadBufferSize = size
		return nil
	}
}
