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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Variant
		wantErr bool
	}{
		{input: "legacy", want: VariantLegacy},
		{input: "0", want: VariantLegacy},
		{input: "Revision-A", want: VariantRevisionA},
		{input: "a", want: VariantRevisionA},
		{input: " revision-b ", want: VariantRevisionB},
		{input: "1", want: VariantRevisionB},
		{input: "revc", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseVariant(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownVariant)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVariantRoundTrip(t *testing.T) {
	t.Parallel()

	for _, v := range []Variant{VariantLegacy, VariantRevisionA, VariantRevisionB} {
		assert.True(t, v.Valid())
		parsed, err := ParseVariant(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, parsed)
	}
	assert.False(t, Variant(3).Valid())
	assert.Equal(t, "variant(3)", Variant(3).String())
}

func TestParseChecksumPolicy(t *testing.T) {
	t.Parallel()

	p, err := ParseChecksumPolicy("Enforce")
	require.NoError(t, err)
	assert.Equal(t, ChecksumEnforce, p)

	p, err = ParseChecksumPolicy("tolerate")
	require.NoError(t, err)
	assert.Equal(t, ChecksumTolerate, p)
	assert.Equal(t, "tolerate", p.String())

	_, err = ParseChecksumPolicy("maybe")
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSessionVariantIsFixed(t *testing.T) {
	t.Parallel()

	s, err := NewSession(VariantRevisionA)
	require.NoError(t, err)
	assert.Equal(t, VariantRevisionA, s.Variant())
	assert.False(t, s.PenDown())
	assert.Zero(t, s.Fill())

	_, err = NewSession(Variant(-1))
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestSessionResetKeepsPenState(t *testing.T) {
	t.Parallel()

	s, err := NewSession(VariantRevisionB)
	require.NoError(t, err)
	s.fill = 12
	s.penDown = true

	s.Reset()
	assert.Zero(t, s.Fill())
	assert.True(t, s.PenDown())
}
