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
	"github.com/ZaparooProject/go-sistouch/internal/frame"
)

// Report is everything decoded from one candidate frame
type Report struct {
	// Touch is set for revised protocol frames with an active contact
	Touch *TouchEvent
	// Buttons is set for legacy key packets
	Buttons *ButtonState
	// Motion is set for legacy data packets
	Motion *MotionEvent
	// Ident is the identification string of a legacy reset packet
	Ident string
	// DeviceErrors names the faults reported by a legacy error packet
	DeviceErrors []string
	// Slot is the contact slot Touch came from, -1 when none
	Slot int
	// ChecksumMismatch is true when a tolerated checksum failure was decoded anyway
	ChecksumMismatch bool
	// NoActiveContact is true when no contact slot had id zero
	NoActiveContact bool
	// Computed and Expected hold the checksum values when ChecksumMismatch is set
	Computed byte
	Expected byte
}

// HasEvent returns true if the report carries something for an EventSink
func (r *Report) HasEvent() bool {
	return r.Touch != nil || r.Buttons != nil || r.Motion != nil
}

// Decoder validates candidate frames and turns them into events
type Decoder struct {
	proto          protocol
	checksumPolicy ChecksumPolicy
}

// NewDecoder creates a decoder for the variant using its default checksum policy
func NewDecoder(v Variant) (*Decoder, error) {
	return NewDecoderWithPolicy(v, DefaultChecksumPolicy(v))
}

// NewDecoderWithPolicy creates a decoder with an explicit checksum policy
func NewDecoderWithPolicy(v Variant, policy ChecksumPolicy) (*Decoder, error) {
	proto, err := protocolFor(v)
	if err != nil {
		return nil, err
	}
	if policy != ChecksumEnforce && policy != ChecksumTolerate {
		return nil, ErrInvalidParameter
	}
	return &Decoder{proto: proto, checksumPolicy: policy}, nil
}

// Variant returns the protocol variant this decoder handles
func (d *Decoder) Variant() Variant {
	return d.proto.variant()
}

// ChecksumPolicy returns the configured checksum policy
func (d *Decoder) ChecksumPolicy() ChecksumPolicy {
	return d.checksumPolicy
}

// Decode validates f and extracts at most one event, updating the session
// pen state. A returned error means the frame produced nothing; a report
// without an event and a nil error means the frame was valid but idle.
// The session must belong to the decoder's variant.
func (d *Decoder) Decode(f Frame, s *Session) (Report, error) {
	rep := Report{Slot: -1}
	if s == nil || s.Variant() != d.Variant() {
		return rep, NewFrameError(d.Variant(), "decode", ErrInvalidParameter)
	}
	if len(f) < frame.MinFrameLength {
		return rep, NewFrameError(d.Variant(), "decode", ErrFrameTooShort)
	}

	computed, expected := d.proto.checksum(f)
	if computed != expected {
		if d.checksumPolicy == ChecksumEnforce {
			return rep, &FrameError{
				Op:       "checksum",
				Variant:  d.Variant(),
				Err:      ErrChecksumMismatch,
				Computed: computed,
				Expected: expected,
			}
		}
		rep.ChecksumMismatch = true
		rep.Computed = computed
		rep.Expected = expected
	}

	if err := d.proto.decode(f, s, &rep); err != nil {
		return Report{Slot: -1}, err
	}
	return rep, nil
}
