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

package frame

// XORChecksum folds all bytes together with XOR
func XORChecksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum ^= b
	}
	return sum
}

// AdditiveChecksum returns the sum of all bytes modulo 256
func AdditiveChecksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return sum
}

// ValidateXOR returns true if the XOR of all bytes, trailing checksum
// included, is zero
func ValidateXOR(data []byte) bool {
	return XORChecksum(data) == 0
}

// IsLegacyCommand reports whether b starts a legacy packet
func IsLegacyCommand(b byte) bool {
	switch b {
	case LegacyReset, LegacyData, LegacyKeys, LegacyError:
		return true
	default:
		return false
	}
}

// LegacyPacketLength returns the fixed wire length of a legacy packet, or 0
// when the packet is variable length and ends on the next command byte
func LegacyPacketLength(cmd byte) int {
	switch cmd {
	case LegacyData:
		return LegacyDataLength
	case LegacyKeys:
		return LegacyKeysLength
	case LegacyError:
		return LegacyErrorLength
	default:
		return 0
	}
}
