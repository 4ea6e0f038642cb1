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

package journal

import "strings"

// KV is one (key, value) pair captured from a KV_PAIR frame, in the
// order it was seen.
type KV struct {
	Key   []byte
	Value []byte
}

// Event is a decoded journal record. It owns RawMessage: the bytes are
// a copy, not a slice borrowed from the reader's internal buffer, so a
// Writer may hold an Event across further Decoder.Scan calls.
type Event struct {
	IndexTime     uint32
	HostIdx       int
	SourceIdx     int
	SourceTypeIdx int
	RawMessage    []byte
	ExtraFields   []KV
}

// MessageString interprets RawMessage as UTF-8, replacing invalid
// sequences with the Unicode replacement character.
func (e *Event) MessageString() string {
	return strings.ToValidUTF8(string(e.RawMessage), "�")
}
