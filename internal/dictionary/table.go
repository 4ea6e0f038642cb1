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

// Package dictionary holds the three append-only, index-addressed
// metadata string tables (host, source, sourcetype) a journal's events
// refer into.
package dictionary

import "errors"

// ErrMissingEntry is returned by Get when idx is out of range.
var ErrMissingEntry = errors.New("dictionary: index out of range")

// Scope identifies which of the three metadata tables an operation
// targets.
type Scope int

const (
	Host Scope = iota
	Source
	SourceType
	numScopes
)

func (s Scope) String() string {
	switch s {
	case Host:
		return "host"
	case Source:
		return "source"
	case SourceType:
		return "sourcetype"
	default:
		return "unknown"
	}
}

// Sentinel is the "never referenced" index value an Event's scope
// indices carry until a META_REF for that scope has been seen.
const Sentinel = -1

// Table holds the three independent append-only string tables. A Table
// is owned by exactly one decoder for its lifetime (spec.md §5); it is
// not safe for concurrent use.
type Table struct {
	entries [numScopes][][]byte
}

// New returns an empty dictionary table.
func New() *Table {
	return &Table{}
}

// Append adds a copy of s to the given scope's table and returns its
// new index, equal to the table's previous length.
func (t *Table) Append(scope Scope, s []byte) int {
	owned := make([]byte, len(s))
	copy(owned, s)
	idx := len(t.entries[scope])
	t.entries[scope] = append(t.entries[scope], owned)
	return idx
}

// Get returns the byte string at idx in scope, or ErrMissingEntry.
func (t *Table) Get(scope Scope, idx int) ([]byte, error) {
	if idx < 0 || idx >= len(t.entries[scope]) {
		return nil, ErrMissingEntry
	}
	return t.entries[scope][idx], nil
}

// Len returns the number of entries currently in scope's table.
func (t *Table) Len(scope Scope) int {
	return len(t.entries[scope])
}
