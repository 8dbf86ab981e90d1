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

/*
Package sistouch decodes the serial wire protocol of SiS touch panel
controllers.

The controller streams bytes with no framing beyond a two-byte header.
A Session owns the reassembly buffer and the pen state for one
connection, an Assembler turns bytes into candidate frames, and a
Decoder validates each frame and extracts at most one event. Device ties
these to a Transport and an EventSink.

Three incompatible wire formats exist:

  - Legacy: variable-length command packets ('R', 'D', 'K', 'E') on a
    7-bit link, XOR checksum, six packed 10-bit axes and six buttons
  - RevisionA: 43-byte frames with six contact slots, XOR checksum,
    pen state toggled by status 0x02
  - RevisionB: 43-byte frames, additive checksum, pen down on status
    0x03 and up on 0x00

The variant is chosen once when the session is created.

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-sistouch"
	    "github.com/ZaparooProject/go-sistouch/transport/uart"
	)

	transport, err := uart.New("/dev/ttyUSB0")
	if err != nil {
	    log.Fatal(err)
	}

	sink := sistouch.SinkFuncs{
	    Touch: func(e sistouch.TouchEvent) { fmt.Println(e) },
	}
	device, err := sistouch.New(transport,
	    sistouch.WithVariant(sistouch.VariantRevisionB),
	    sistouch.WithSink(sink),
	)
	if err != nil {
	    log.Fatal(err)
	}
	defer device.Close()

	if err := device.Run(ctx); err != nil {
	    log.Fatal(err)
	}

Bytes can also be pushed directly with Device.HandleByte, which is how a
caller that owns the serial port feeds the decoder.

Transport Selection:

  - UART: USB-to-serial adapters and built-in serial ports
  - I2C: controllers wired to an I2C bus
  - Replay: any io.Reader, e.g. a recorded capture

Checksums:

RevisionB controllers are known to send frames whose checksum does not
verify, so by default the mismatch is flagged and the frame decoded
anyway. Legacy and RevisionA reject such frames. WithChecksumPolicy
overrides the default.

Error Handling:

Malformed input never stops decoding; the assembler resynchronizes on
the next header. Rejected frames are reported as *FrameError:

	if sistouch.IsChecksumError(err) {
	    // frame dropped
	}

Thread Safety:

A Device must be fed from a single goroutine. Stats and Close may be
called from anywhere.
*/
package sistouch
