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

// Package frame provides wire layout constants and checksum helpers for the
// SiS serial touch protocol
package frame

// Frame size limits
const (
	PacketMaxLength = 43 // Fixed frame length of the revised protocols and buffer capacity
	MinFrameLength  = 2  // Anything shorter cannot carry a command or header
)

// Revised protocol header signature
const (
	HeaderByte1 = 0x02
	HeaderByte2 = 0x05
)

// Revised protocol payload layout, offsets from frame start
const (
	HeaderOffset       = 5  // First contact record
	ContactRecordSize  = 6  // status(1) id(1) x(2 LE) y(2 LE)
	MaxContacts        = 6  // Contact slots per frame
	ContactCountOffset = 41 // Reported contact count
	ChecksumOffset     = 42 // Trailing checksum byte
)

// Contact record field offsets relative to the record start
const (
	ContactStatusOffset = 0
	ContactIDOffset     = 1
	ContactXOffset      = 2
	ContactYOffset      = 4
)

// Contact status codes
const (
	StatusRelease = 0x00 // Contact lifted (RevisionB)
	StatusToggle  = 0x02 // Pen toggle (RevisionA)
	StatusPress   = 0x03 // Contact pressed (RevisionB)
)

// Legacy link uses the high bit as a framing marker: command bytes have it
// clear, payload bytes have it set.
const (
	SevenBitMask = 0x7F
	EightBitMask = 0xFF
	MarkerBit    = 0x80
)

// Legacy command bytes
const (
	LegacyReset = 'R'
	LegacyData  = 'D'
	LegacyKeys  = 'K'
	LegacyError = 'E'
	LegacyAxes  = 6
)

// Legacy packet lengths including the command and checksum bytes
const (
	LegacyDataLength  = 12
	LegacyKeysLength  = 5
	LegacyErrorLength = 4
)

// LegacyScramble is the XOR mask applied to bytes 2..10 of a legacy data packet
var LegacyScramble = []byte("SpaceWare")
