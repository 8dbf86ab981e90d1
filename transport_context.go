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
	"context"
	"fmt"
)

// TransportContext is a Transport whose reads can be interrupted by a context
type TransportContext interface {
	Transport

	// ReadContext reads available bytes, returning early when ctx is done
	ReadContext(ctx context.Context, p []byte) (int, error)
}

// transportContextAdapter wraps a Transport to provide context support
type transportContextAdapter struct {
	Transport
}

// ReadContext runs the blocking read in a goroutine so that cancellation
// does not wait for the transport. The read goroutine uses its own buffer;
// bytes it returns after cancellation are discarded.
func (t *transportContextAdapter) ReadContext(ctx context.Context, p []byte) (int, error) {
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("context cancelled before read: %w", ctx.Err())
	default:
	}

	type result struct {
		err  error
		data []byte
	}
	resultChan := make(chan result, 1)

	go func() {
		buf := make([]byte, len(p))
		n, err := t.Read(buf)
		resultChan <- result{err: err, data: buf[:n]}
	}()

	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("context cancelled while waiting for data: %w", ctx.Err())
	case res := <-resultChan:
		return copy(p, res.data), res.err
	}
}

// AsTransportContext converts a Transport to TransportContext
func AsTransportContext(t Transport) TransportContext {
	if tc, ok := t.(TransportContext); ok {
		return tc
	}
	return &transportContextAdapter{Transport: t}
}
