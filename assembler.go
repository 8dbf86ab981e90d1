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

	"github.com/ZaparooProject/go-sistouch/internal/frame"
)

// Outcome is the result of feeding one byte to the Assembler
type Outcome int

const (
	// OutcomeIncomplete means the byte was buffered or skipped while hunting for a header
	OutcomeIncomplete Outcome = iota
	// OutcomeFrameReady means a complete candidate frame is available
	OutcomeFrameReady
	// OutcomeResynced means buffered bytes were discarded to regain synchronization
	OutcomeResynced
	// OutcomeOverrun means the byte arrived with no room left and was dropped
	OutcomeOverrun
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIncomplete:
		return "incomplete"
	case OutcomeFrameReady:
		return "frame-ready"
	case OutcomeResynced:
		return "resynced"
	case OutcomeOverrun:
		return "overrun"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Frame is a complete candidate frame. It borrows the assembler's memory
// and is only valid until the next call to Feed.
type Frame []byte

// Command returns the first byte of the frame, which is the command byte
// of a legacy packet
func (f Frame) Command() byte {
	if len(f) == 0 {
		return 0
	}
	return f[0]
}

// Assembler reassembles a byte stream into candidate frames
type Assembler struct {
	session *Session
	// reset packets complete on the first byte of the next packet,
	// so the finished packet is copied out before the buffer is reused
	scratch [frame.PacketMaxLength]byte
}

// NewAssembler creates an assembler that accumulates into the session buffer
func NewAssembler(s *Session) *Assembler {
	return &Assembler{session: s}
}

// Session returns the session this assembler fills
func (a *Assembler) Session() *Session {
	return a.session
}

// Feed consumes one byte. When the outcome is OutcomeFrameReady the
// returned frame holds the complete candidate frame.
func (a *Assembler) Feed(b byte) (Outcome, Frame) {
	if a.session.proto.framing() == framingMarker {
		return a.feedMarker(b)
	}
	return a.feedFixed(b & a.session.proto.linkMask())
}

// Flush completes a buffered legacy packet, if any. This releases a
// trailing reset packet, which has no fixed length. Fixed-length touch
// frames are never flushed early; the partial frame is kept.
func (a *Assembler) Flush() (Outcome, Frame) {
	s := a.session
	if s.proto.framing() != framingMarker || s.fill == 0 {
		return OutcomeIncomplete, nil
	}
	return OutcomeFrameReady, a.takeLegacy()
}

func (a *Assembler) feedFixed(b byte) (Outcome, Frame) {
	s := a.session

	switch {
	case s.fill == 0 && b != frame.HeaderByte1:
		return OutcomeIncomplete, nil
	case s.fill == 1 && b != frame.HeaderByte2:
		s.fill = 0
		// a repeated first header byte may itself begin the next frame
		if b == frame.HeaderByte1 {
			s.buf[0] = b
			s.fill = 1
		}
		return OutcomeResynced, nil
	case s.fill >= frame.PacketMaxLength:
		return OutcomeOverrun, nil
	}

	s.buf[s.fill] = b
	s.fill++

	if s.fill < frame.PacketMaxLength {
		return OutcomeIncomplete, nil
	}

	s.fill = 0
	if s.buf[0] != frame.HeaderByte1 || s.buf[1] != frame.HeaderByte2 {
		return OutcomeResynced, nil
	}
	return OutcomeFrameReady, Frame(s.buf[:])
}

func (a *Assembler) feedMarker(raw byte) (Outcome, Frame) {
	s := a.session

	// a clear marker bit ends the buffered packet; unknown commands are
	// not buffered, so their payload bytes are skipped until the next one.
	// Fixed-length packets complete on their last byte below.
	if raw&frame.MarkerBit == 0 {
		var ready Frame
		if s.fill > 0 {
			ready = a.takeLegacy()
		}
		if frame.IsLegacyCommand(raw) {
			s.buf[0] = raw
			s.fill = 1
		}
		if ready != nil {
			return OutcomeFrameReady, ready
		}
		return OutcomeIncomplete, nil
	}

	b := raw & s.proto.linkMask()
	if s.fill == 0 {
		return OutcomeIncomplete, nil
	}
	if s.fill >= frame.PacketMaxLength {
		return OutcomeOverrun, nil
	}
	s.buf[s.fill] = b
	s.fill++
	if s.fill == frame.LegacyPacketLength(s.buf[0]) {
		return OutcomeFrameReady, a.takeLegacy()
	}
	return OutcomeIncomplete, nil
}

func (a *Assembler) takeLegacy() Frame {
	s := a.session
	n := copy(a.scratch[:], s.buf[:s.fill])
	s.fill = 0
	return Frame(a.scratch[:n])
}
