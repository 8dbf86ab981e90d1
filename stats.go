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

import "sync/atomic"

// Stats is a snapshot of a device's decoding counters
type Stats struct {
	Bytes             uint64
	Frames            uint64
	Resyncs           uint64
	Overruns          uint64
	LineErrors        uint64
	ChecksumRejected  uint64
	ChecksumTolerated uint64
	FrameErrors       uint64
	NoActiveContact   uint64
	Events            uint64
}

// counters is the live, concurrently readable form of Stats
type counters struct {
	bytes             atomic.Uint64
	frames            atomic.Uint64
	resyncs           atomic.Uint64
	overruns          atomic.Uint64
	lineErrors        atomic.Uint64
	checksumRejected  atomic.Uint64
	checksumTolerated atomic.Uint64
	frameErrors       atomic.Uint64
	noActiveContact   atomic.Uint64
	events            atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Bytes:             c.bytes.Load(),
		Frames:            c.frames.Load(),
		Resyncs:           c.resyncs.Load(),
		Overruns:          c.overruns.Load(),
		LineErrors:        c.lineErrors.Load(),
		ChecksumRejected:  c.checksumRejected.Load(),
		ChecksumTolerated: c.checksumTolerated.Load(),
		FrameErrors:       c.frameErrors.Load(),
		NoActiveContact:   c.noActiveContact.Load(),
		Events:            c.events.Load(),
	}
}
