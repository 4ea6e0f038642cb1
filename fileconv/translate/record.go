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

// Package translate joins a decoded journal event against its
// decoder's dictionary tables to produce the flat, five-column record
// the output writers serialize.
package translate

import "github.com/splkext/sjournal/internal/journal"

// Record is one analyst-facing journal event: index-resolved metadata
// alongside the raw message, in the column order every writer uses.
type Record struct {
	Timestamp  uint32
	Host       string
	Source     string
	SourceType string
	Message    string
}

// decoder is the subset of *journal.Decoder that FromEvent needs,
// narrowed so callers can't accidentally pass the wrong event's
// resolved dictionary state.
type decoder interface {
	Host() []byte
	Source() []byte
	SourceType() []byte
}

// FromEvent builds a Record for the event most recently yielded by dec.
// Unset scope indices resolve to the empty string (spec.md §4.3 open
// question 3: sentinel indices are treated as empty, not omitted).
func FromEvent(dec decoder, ev *journal.Event) Record {
	return Record{
		Timestamp:  ev.IndexTime,
		Host:       string(dec.Host()),
		Source:     string(dec.Source()),
		SourceType: string(dec.SourceType()),
		Message:    ev.MessageString(),
	}
}
