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

import "errors"

// Fatal, terminal decoder error kinds (spec.md §4.4.3, §7). Once any of
// these is returned by scan, the decoder refuses further scans.
// ErrCompression is never returned by Scan: a read error from the
// underlying (for example decompressing) reader is reported as
// ErrUnexpectedEOF.
var (
	ErrUnexpectedEOF   = errors.New("journal: unexpected end of stream")
	ErrMalformedVarint = errors.New("journal: malformed varint")
	ErrFrameTooLarge   = errors.New("journal: frame exceeds size ceiling")
	ErrDanglingRef     = errors.New("journal: META_REF to an index not yet defined")
	ErrUnknownTag      = errors.New("journal: unknown frame tag")
	ErrUnexpectedKV    = errors.New("journal: KV_PAIR frame outside an event")
	ErrCompression     = errors.New("journal: compressed stream is corrupt")
)
