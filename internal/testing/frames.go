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

// Package testing provides wire frame builders shared by the package tests
package testing

import (
	"encoding/binary"

	"github.com/ZaparooProject/go-sistouch/internal/frame"
)

// Contact describes one contact record of a touch frame
type Contact struct {
	Status byte
	ID     byte
	X      uint16
	Y      uint16
}

// IdleContact is a slot that never counts as the tracked contact
func IdleContact() Contact {
	return Contact{ID: 0xFF}
}

// BuildTouchPayload returns the first 42 bytes of a touch frame. Contacts
// fill slots in order, unused slots stay zero.
func BuildTouchPayload(contacts ...Contact) []byte {
	payload := make([]byte, frame.ChecksumOffset)
	payload[0] = frame.HeaderByte1
	payload[1] = frame.HeaderByte2
	for i, c := range contacts {
		if i >= frame.MaxContacts {
			break
		}
		rec := payload[frame.HeaderOffset+i*frame.ContactRecordSize:]
		rec[frame.ContactStatusOffset] = c.Status
		rec[frame.ContactIDOffset] = c.ID
		binary.LittleEndian.PutUint16(rec[frame.ContactXOffset:], c.X)
		binary.LittleEndian.PutUint16(rec[frame.ContactYOffset:], c.Y)
	}
	payload[frame.ContactCountOffset] = byte(len(contacts))
	return payload
}

// BuildRevisionAFrame returns a complete frame with an XOR checksum
func BuildRevisionAFrame(contacts ...Contact) []byte {
	payload := BuildTouchPayload(contacts...)
	return append(payload, frame.XORChecksum(payload))
}

// BuildRevisionBFrame returns a complete frame with an additive checksum
func BuildRevisionBFrame(contacts ...Contact) []byte {
	payload := BuildTouchPayload(contacts...)
	return append(payload, frame.AdditiveChecksum(payload))
}

// CorruptChecksum returns a copy of f with the trailing byte changed
func CorruptChecksum(f []byte) []byte {
	out := append([]byte(nil), f...)
	out[len(out)-1] ^= 0x5A
	return out
}

// BuildLegacyPacket returns a legacy packet as it appears on the wire: the
// command byte followed by payload and checksum bytes carrying the marker
// bit. Payload bytes must fit in seven bits.
func BuildLegacyPacket(cmd byte, payload ...byte) []byte {
	sum := cmd
	out := make([]byte, 0, len(payload)+2)
	out = append(out, cmd)
	for _, b := range payload {
		b &= frame.SevenBitMask
		sum ^= b
		out = append(out, b|frame.MarkerBit)
	}
	return append(out, sum|frame.MarkerBit)
}

// BuildLegacyData returns a 12-byte data packet. data holds the nine
// unscrambled axis bytes.
func BuildLegacyData(buttons byte, data [9]byte) []byte {
	payload := make([]byte, 0, 10)
	payload = append(payload, buttons&frame.SevenBitMask)
	for i, b := range data {
		payload = append(payload, (b^frame.LegacyScramble[i])&frame.SevenBitMask)
	}
	return BuildLegacyPacket(frame.LegacyData, payload...)
}

// BuildLegacyKeys returns a 5-byte key packet
func BuildLegacyKeys(buttons byte) []byte {
	return BuildLegacyPacket(frame.LegacyKeys, 0, buttons, 0)
}

// BuildLegacyError returns a 4-byte error packet
func BuildLegacyError(faults byte) []byte {
	return BuildLegacyPacket(frame.LegacyError, faults, 0)
}

// BuildLegacyReset returns a reset packet carrying an identification string
func BuildLegacyReset(ident string) []byte {
	return BuildLegacyPacket(frame.LegacyReset, []byte(ident)...)
}
