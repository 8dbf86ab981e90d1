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
	"encoding/binary"
	"fmt"

	"github.com/ZaparooProject/go-sistouch/internal/frame"
)

// ContactRecord is one contact slot of a revised protocol frame
type ContactRecord struct {
	Status byte
	ID     byte
	X      uint16
	Y      uint16
}

// ParseContact reads contact slot i of a fixed-length frame
func ParseContact(f Frame, slot int) (ContactRecord, error) {
	if slot < 0 || slot >= frame.MaxContacts {
		return ContactRecord{}, fmt.Errorf("%w: contact slot %d", ErrInvalidParameter, slot)
	}
	base := frame.HeaderOffset + frame.ContactRecordSize*slot
	if len(f) < base+frame.ContactRecordSize {
		return ContactRecord{}, ErrFrameTooShort
	}
	rec := f[base : base+frame.ContactRecordSize]
	return ContactRecord{
		Status: rec[frame.ContactStatusOffset],
		ID:     rec[frame.ContactIDOffset],
		X:      binary.LittleEndian.Uint16(rec[frame.ContactXOffset:]),
		Y:      binary.LittleEndian.Uint16(rec[frame.ContactYOffset:]),
	}, nil
}

// Contacts returns all contact slots of a fixed-length frame in order
func Contacts(f Frame) ([]ContactRecord, error) {
	contacts := make([]ContactRecord, 0, frame.MaxContacts)
	for i := 0; i < frame.MaxContacts; i++ {
		c, err := ParseContact(f, i)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}

// ReportedContactCount returns the contact count byte the device asserts.
// It is informational and need not match the populated slots.
func ReportedContactCount(f Frame) uint8 {
	if len(f) <= frame.ContactCountOffset {
		return 0
	}
	return f[frame.ContactCountOffset]
}

// selectContact returns the first slot whose id is zero
func selectContact(f Frame) (ContactRecord, int, bool) {
	for i := 0; i < frame.MaxContacts; i++ {
		c, err := ParseContact(f, i)
		if err != nil {
			return ContactRecord{}, -1, false
		}
		if c.ID == 0 {
			return c, i, true
		}
	}
	return ContactRecord{}, -1, false
}

// decodeTouch selects the primary contact, applies the variant's pen
// transition and fills rep.Touch. No active contact leaves rep.Touch nil.
func decodeTouch(f Frame, s *Session, rep *Report, transition func(status byte, penDown bool) bool) error {
	if len(f) != frame.PacketMaxLength {
		return NewFrameError(s.Variant(), "decode", ErrLengthMismatch)
	}

	c, slot, ok := selectContact(f)
	if !ok {
		rep.NoActiveContact = true
		return nil
	}

	s.penDown = transition(c.Status, s.penDown)
	rep.Slot = slot
	rep.Touch = &TouchEvent{
		X:            c.X,
		Y:            c.Y,
		PenDown:      s.penDown,
		ContactCount: ReportedContactCount(f),
	}
	return nil
}
