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

// tag identifies the kind of the next frame in the journal wire format.
// Values below 0x80 are fully specified; values from 0x80 upward are
// forward-compatible extensions with a self-describing varint length
// and are skipped rather than erroring.
type tag byte

const (
	tagEnd                = tag(0x00)
	tagMetaAddHost        = tag(0x01)
	tagMetaAddSource      = tag(0x02)
	tagMetaAddSourceType  = tag(0x03)
	tagMetaRefHost        = tag(0x11)
	tagMetaRefSource      = tag(0x12)
	tagMetaRefSourceType  = tag(0x13)
	tagEvent              = tag(0x20)
	tagKVPair             = tag(0x21)
	tagExtBlock           = tag(0x7f)
	forwardCompatMinTag   = tag(0x80)
)
