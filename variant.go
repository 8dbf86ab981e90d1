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
	"strings"

	"github.com/ZaparooProject/go-sistouch/internal/frame"
)

// Variant selects one of the mutually incompatible wire formats
type Variant int

const (
	// VariantLegacy is the variable-length 6-axis command protocol
	VariantLegacy Variant = iota
	// VariantRevisionA is the first fixed-frame touch revision (XOR checksum, toggled pen)
	VariantRevisionA
	// VariantRevisionB is the second fixed-frame touch revision (additive checksum, pen edges)
	VariantRevisionB
)

func (v Variant) String() string {
	switch v {
	case VariantLegacy:
		return "legacy"
	case VariantRevisionA:
		return "revision-a"
	case VariantRevisionB:
		return "revision-b"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// Valid returns true for the known variants
func (v Variant) Valid() bool {
	return v >= VariantLegacy && v <= VariantRevisionB
}

// ParseVariant accepts the variant names and the numeric selector values
// used by device configuration, where 0 is legacy and 1 is the current
// revised protocol.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "legacy", "0":
		return VariantLegacy, nil
	case "revision-a", "reva", "a":
		return VariantRevisionA, nil
	case "revision-b", "revb", "b", "1":
		return VariantRevisionB, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
}

// ChecksumPolicy decides what happens to a frame whose checksum does not verify
type ChecksumPolicy int

const (
	// ChecksumEnforce rejects the frame
	ChecksumEnforce ChecksumPolicy = iota
	// ChecksumTolerate decodes the frame anyway and flags the mismatch
	ChecksumTolerate
)

func (p ChecksumPolicy) String() string {
	switch p {
	case ChecksumEnforce:
		return "enforce"
	case ChecksumTolerate:
		return "tolerate"
	default:
		return fmt.Sprintf("checksum-policy(%d)", int(p))
	}
}

// ParseChecksumPolicy parses "enforce" or "tolerate"
func ParseChecksumPolicy(s string) (ChecksumPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "enforce", "strict", "reject":
		return ChecksumEnforce, nil
	case "tolerate", "ignore", "lenient":
		return ChecksumTolerate, nil
	default:
		return 0, fmt.Errorf("%w: checksum policy %q", ErrInvalidParameter, s)
	}
}

// DefaultChecksumPolicy returns the policy each variant shipped with.
// RevisionB devices are known to send frames whose checksum does not
// verify, so mismatches there are tolerated and flagged.
func DefaultChecksumPolicy(v Variant) ChecksumPolicy {
	if v == VariantRevisionB {
		return ChecksumTolerate
	}
	return ChecksumEnforce
}

// framingMode tells the assembler how frame boundaries are found
type framingMode int

const (
	// framingFixed: two-byte header, fixed length
	framingFixed framingMode = iota
	// framingMarker: a byte with the high bit clear starts a packet
	framingMarker
)

// protocol is the per-variant strategy resolved once per session
type protocol interface {
	variant() Variant
	framing() framingMode
	linkMask() byte
	// checksum returns the computed and transmitted checksum of f
	checksum(f Frame) (computed, expected byte)
	// decode extracts events from a frame whose checksum was already handled
	decode(f Frame, s *Session, rep *Report) error
}

func protocolFor(v Variant) (protocol, error) {
	switch v {
	case VariantLegacy:
		return legacyProtocol{}, nil
	case VariantRevisionA:
		return revisionA{}, nil
	case VariantRevisionB:
		return revisionB{}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownVariant, int(v))
	}
}

// revisionA toggles the pen on every status 0x02 contact and uses an XOR checksum
type revisionA struct{}

func (revisionA) variant() Variant     { return VariantRevisionA }
func (revisionA) framing() framingMode { return framingFixed }
func (revisionA) linkMask() byte       { return frame.EightBitMask }

func (revisionA) checksum(f Frame) (computed, expected byte) {
	return frame.XORChecksum(f[:len(f)-1]), f[len(f)-1]
}

func (revisionA) decode(f Frame, s *Session, rep *Report) error {
	return decodeTouch(f, s, rep, func(status byte, penDown bool) bool {
		if status == frame.StatusToggle {
			return !penDown
		}
		return penDown
	})
}

// revisionB latches pen down on status 0x03 and releases on 0x00
type revisionB struct{}

func (revisionB) variant() Variant     { return VariantRevisionB }
func (revisionB) framing() framingMode { return framingFixed }
func (revisionB) linkMask() byte       { return frame.EightBitMask }

func (revisionB) checksum(f Frame) (computed, expected byte) {
	return frame.AdditiveChecksum(f[:len(f)-1]), f[len(f)-1]
}

func (revisionB) decode(f Frame, s *Session, rep *Report) error {
	return decodeTouch(f, s, rep, func(status byte, penDown bool) bool {
		switch {
		case status == frame.StatusPress && !penDown:
			return true
		case status == frame.StatusRelease:
			return false
		default:
			return penDown
		}
	})
}
