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

// Session holds the per-connection decoding state: the frame buffer, the
// stream position within the current frame and the last reported pen state.
//
// Thread Safety: Session is NOT thread-safe. The byte source must deliver
// bytes serially, which is how every transport in this module behaves.
type Session struct {
	proto   protocol
	buf     [frame.PacketMaxLength]byte
	fill    int
	penDown bool
}

// NewSession creates a session for the given protocol variant. The variant
// cannot be changed afterwards.
func NewSession(v Variant) (*Session, error) {
	proto, err := protocolFor(v)
	if err != nil {
		return nil, err
	}
	return &Session{proto: proto}, nil
}

// Variant returns the protocol variant chosen at creation
func (s *Session) Variant() Variant {
	return s.proto.variant()
}

// PenDown returns the last reported pen state
func (s *Session) PenDown() bool {
	return s.penDown
}

// Fill returns how many bytes of the current frame have been accumulated
func (s *Session) Fill() int {
	return s.fill
}

// Reset abandons any partially assembled frame. Pen state is kept.
func (s *Session) Reset() {
	s.fill = 0
}
