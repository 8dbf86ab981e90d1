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

package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	sistouch "github.com/ZaparooProject/go-sistouch"
)

// openReplay returns a transport over a recorded capture. Text files of
// hex bytes (optionally 0x-prefixed, comma separated, # comments) are
// decoded, anything else is replayed as raw bytes.
func openReplay(path string) (sistouch.Transport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read capture: %w", err)
	}
	if decoded, ok := parseHexDump(data); ok {
		data = decoded
	}
	return sistouch.NewReaderTransport(bytes.NewReader(data), path), nil
}

func parseHexDump(data []byte) ([]byte, bool) {
	var digits strings.Builder
	for _, line := range strings.Split(string(data), "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.NewReplacer(",", " ", "\t", " ", "\r", " ").Replace(line)
		for _, field := range strings.Fields(line) {
			field = strings.TrimPrefix(strings.TrimPrefix(field, "0x"), "0X")
			if len(field)%2 == 1 {
				field = "0" + field
			}
			digits.WriteString(field)
		}
	}

	if digits.Len() == 0 {
		return nil, false
	}
	decoded, err := hex.DecodeString(digits.String())
	if err != nil {
		return nil, false
	}
	return decoded, true
}
