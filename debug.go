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
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var (
	debugEnabled atomic.Bool

	loggerMu   sync.RWMutex
	baseLogger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
)

// SetDebugEnabled turns verbose diagnostics on or off for devices created
// afterwards
func SetDebugEnabled(enabled bool) {
	debugEnabled.Store(enabled)
}

// DebugEnabled reports the current diagnostic setting
func DebugEnabled() bool {
	return debugEnabled.Load()
}

// SetLogger replaces the logger used by devices created without WithLogger
func SetLogger(logger zerolog.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	baseLogger = logger
}

// defaultLogger returns the package logger at the level implied by the
// debug setting
func defaultLogger() zerolog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return levelFor(baseLogger, debugEnabled.Load())
}

func levelFor(logger zerolog.Logger, debug bool) zerolog.Logger {
	if debug {
		return logger.Level(zerolog.TraceLevel)
	}
	return logger.Level(zerolog.InfoLevel)
}

func debugf(format string, args ...any) {
	if !debugEnabled.Load() {
		return
	}
	l := defaultLogger()
	l.Debug().Msgf(format, args...)
}
