// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAssignsMonotonicIndices(t *testing.T) {
	tbl := New()
	i0 := tbl.Append(Host, []byte("a"))
	i1 := tbl.Append(Host, []byte("b"))
	assert.Equal(t, 0, i0)
	assert.Equal(t, 1, i1)
	assert.Equal(t, 2, tbl.Len(Host))
}

func TestScopesAreIndependent(t *testing.T) {
	tbl := New()
	tbl.Append(Host, []byte("h1"))
	tbl.Append(Source, []byte("s1"))
	tbl.Append(Source, []byte("s2"))
	assert.Equal(t, 1, tbl.Len(Host))
	assert.Equal(t, 2, tbl.Len(Source))
	assert.Equal(t, 0, tbl.Len(SourceType))
}

func TestGetOutOfRange(t *testing.T) {
	tbl := New()
	tbl.Append(Host, []byte("h1"))
	_, err := tbl.Get(Host, 1)
	require.ErrorIs(t, err, ErrMissingEntry)
	_, err = tbl.Get(Host, -1)
	require.ErrorIs(t, err, ErrMissingEntry)
}

func TestAppendCopiesInput(t *testing.T) {
	tbl := New()
	buf := []byte("mutable")
	tbl.Append(Host, buf)
	buf[0] = 'X'
	got, err := tbl.Get(Host, 0)
	require.NoError(t, err)
	assert.Equal(t, "mutable", string(got))
}

func TestEntriesAreAppendOnly(t *testing.T) {
	tbl := New()
	tbl.Append(Host, []byte("h1"))
	first, err := tbl.Get(Host, 0)
	require.NoError(t, err)
	tbl.Append(Host, []byte("h2"))
	// An index resolved before a later Append must still resolve to the
	// same bytes (spec.md §8 invariant 2).
	again, err := tbl.Get(Host, 0)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(again))
}
