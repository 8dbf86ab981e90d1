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

// Fault names reported by bits 0..6 of a legacy error packet
var legacyFaults = [...]string{
	"EEPROM storing 0 failed",
	"Receive queue overflow",
	"Transmit queue timeout",
	"Bad packet",
	"Power brown-out",
	"EEPROM checksum error",
	"Hardware fault",
}

// legacyProtocol decodes the 6-axis command packets. Packets are framed by
// the marker bit and verified by an XOR over the whole packet.
type legacyProtocol struct{}

func (legacyProtocol) variant() Variant     { return VariantLegacy }
func (legacyProtocol) framing() framingMode { return framingMarker }
func (legacyProtocol) linkMask() byte       { return frame.SevenBitMask }

func (legacyProtocol) checksum(f Frame) (computed, expected byte) {
	return frame.XORChecksum(f[:len(f)-1]), f[len(f)-1]
}

func (legacyProtocol) decode(f Frame, _ *Session, rep *Report) error {
	switch f.Command() {
	case frame.LegacyReset:
		rep.Ident = legacyIdent(f)
		return nil

	case frame.LegacyData:
		if len(f) != frame.LegacyDataLength {
			return NewFrameError(VariantLegacy, "data packet", ErrLengthMismatch)
		}
		motion := MotionEvent{
			Axes:    unpackAxes(descramble(f)),
			Buttons: ButtonState(f[1] & 0x3F),
		}
		rep.Motion = &motion
		return nil

	case frame.LegacyKeys:
		if len(f) != frame.LegacyKeysLength {
			return NewFrameError(VariantLegacy, "key packet", ErrLengthMismatch)
		}
		buttons := ButtonState(f[2] & 0x3F)
		rep.Buttons = &buttons
		return nil

	case frame.LegacyError:
		if len(f) != frame.LegacyErrorLength {
			return NewFrameError(VariantLegacy, "error packet", ErrLengthMismatch)
		}
		rep.DeviceErrors = legacyFaultNames(f[1])
		return nil

	default:
		return NewFrameError(VariantLegacy, "decode", ErrUnknownCommand)
	}
}

// legacyIdent returns the text between the command byte and the checksum
// with leading spaces removed
func legacyIdent(f Frame) string {
	body := f[1 : len(f)-1]
	i := 0
	for i < len(body) && body[i] == ' ' {
		i++
	}
	body = body[i:]
	for j, c := range body {
		if c == 0 {
			body = body[:j]
			break
		}
	}
	return string(body)
}

// descramble returns a copy of a data packet with bytes 2..10 unmasked
func descramble(f Frame) [frame.LegacyDataLength]byte {
	var data [frame.LegacyDataLength]byte
	copy(data[:], f)
	for i, m := range frame.LegacyScramble {
		data[i+2] ^= m
	}
	return data
}

// unpackAxes extracts six 10-bit two's complement values packed across
// bytes 2..10
func unpackAxes(d [frame.LegacyDataLength]byte) [frame.LegacyAxes]int16 {
	raw := [frame.LegacyAxes]int{
		int(d[2])<<3 | int(d[3])>>4,
		int(d[3]&0x0f)<<6 | int(d[4])>>1,
		int(d[4]&0x01)<<9 | int(d[5])<<2 | int(d[4])>>5,
		int(d[6]&0x1f)<<5 | int(d[7])>>2,
		int(d[7]&0x03)<<8 | int(d[8])<<1 | int(d[7])>>6,
		int(d[9]&0x3f)<<4 | int(d[10])>>3,
	}
	var axes [frame.LegacyAxes]int16
	for i, v := range raw {
		if v&0x200 != 0 {
			v -= 1024
		}
		axes[i] = int16(v)
	}
	return axes
}

func legacyFaultNames(bits byte) []string {
	var names []string
	for i, name := range legacyFaults {
		if bits&(1<<uint(i)) != 0 {
			names = append(names, name)
		}
	}
	return names
}
