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

// Package journal implements the streaming frame/state machine over
// Splunk's journal wire format: dictionary maintenance, per-event
// decoding, and the scan/get_event pull contract callers drive.
package journal

import (
	"errors"
	"io"

	"github.com/splkext/sjournal/internal/byteio"
	"github.com/splkext/sjournal/internal/dictionary"
)

type decoderState int

const (
	stateIdle decoderState = iota
	stateEnded
	stateFailed
)

// Decoder is a pull-based parser over one journal byte stream. It owns
// the reader and all three dictionary tables for its lifetime. A
// Decoder is not safe for concurrent use (spec.md §5): at most one
// goroutine may call Scan/GetEvent/etc. on it at a time.
type Decoder struct {
	r            *byteio.Reader
	dict         *dictionary.Table
	hostCur       int
	sourceCur     int
	sourceTypeCur int

	state   decoderState
	lastErr error
	pending *Event

	maxFrameSize uint64
}

// Option configures a Decoder at construction time.
type Option func(*Decoder)

// WithMaxFrameSize overrides the default 64 MiB ceiling applied to
// length-prefixed reads (META_ADD strings, EVENT messages, KV_PAIR
// strings, EXT_BLOCK and forward-compatible extension regions).
func WithMaxFrameSize(n uint64) Option {
	return func(d *Decoder) { d.maxFrameSize = n }
}

// NewDecoder constructs a Decoder over r. r should already have any
// compression transparently removed (see internal/sniff); the Decoder
// itself only understands the uncompressed frame stream.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	d := &Decoder{
		r:             byteio.NewReader(r),
		dict:          dictionary.New(),
		hostCur:       dictionary.Sentinel,
		sourceCur:     dictionary.Sentinel,
		sourceTypeCur: dictionary.Sentinel,
		maxFrameSize:  byteio.DefaultMaxFrameSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Position returns the number of input bytes consumed so far.
func (d *Decoder) Position() uint64 {
	return d.r.Position()
}

// Err returns the fatal error that ended scanning, if any.
func (d *Decoder) Err() error {
	return d.lastErr
}

// GetEvent returns the event produced by the most recent Scan call that
// returned true. Its result is only valid until the next call to Scan.
func (d *Decoder) GetEvent() *Event {
	return d.pending
}

// Host resolves the current event's host index against the dictionary,
// returning an empty slice for the sentinel or any unresolved index.
func (d *Decoder) Host() []byte {
	return d.resolve(dictionary.Host, d.eventIdx(func(e *Event) int { return e.HostIdx }))
}

// Source resolves the current event's source index.
func (d *Decoder) Source() []byte {
	return d.resolve(dictionary.Source, d.eventIdx(func(e *Event) int { return e.SourceIdx }))
}

// SourceType resolves the current event's sourcetype index.
func (d *Decoder) SourceType() []byte {
	return d.resolve(dictionary.SourceType, d.eventIdx(func(e *Event) int { return e.SourceTypeIdx }))
}

// HostCount, SourceCount, and SourceTypeCount report how many entries
// have been added to each metadata table so far (duplicates included), for the
// --stats summary (spec.md §4.6 step 6).
func (d *Decoder) HostCount() int       { return d.dict.Len(dictionary.Host) }
func (d *Decoder) SourceCount() int     { return d.dict.Len(dictionary.Source) }
func (d *Decoder) SourceTypeCount() int { return d.dict.Len(dictionary.SourceType) }

func (d *Decoder) eventIdx(get func(*Event) int) int {
	if d.pending == nil {
		return dictionary.Sentinel
	}
	return get(d.pending)
}

func (d *Decoder) resolve(scope dictionary.Scope, idx int) []byte {
	if idx == dictionary.Sentinel {
		return nil
	}
	b, err := d.dict.Get(scope, idx)
	if err != nil {
		return nil
	}
	return b
}

// Scan advances to the next event. It returns true if an event is now
// available via GetEvent; it returns false on clean end-of-stream or on
// the first fatal parse error (distinguishable via Err).
func (d *Decoder) Scan() bool {
	if d.state == stateEnded || d.state == stateFailed {
		return false
	}
	d.pending = nil

	var building *Event
	for {
		b, err := d.r.ReadU8()
		if err != nil {
			if errors.Is(err, io.EOF) {
				d.state = stateEnded
				return false
			}
			return d.fail(mapByteioErr(err))
		}
		t := tag(b)

		// §4.4.1 step 2c: once an event is being assembled, any tag
		// other than KV_PAIR or END closes it out untouched; push the
		// tag back for the next Scan call to process.
		if building != nil && t != tagKVPair && t != tagEnd {
			d.r.PushBack(b)
			d.pending = building
			return true
		}

		switch {
		case t == tagMetaAddHost || t == tagMetaAddSource || t == tagMetaAddSourceType:
			scope := addScope(t)
			s, err := d.r.ReadLenPrefixed(d.maxFrameSize)
			if err != nil {
				return d.fail(mapByteioErr(err))
			}
			d.dict.Append(scope, s)

		case t == tagMetaRefHost || t == tagMetaRefSource || t == tagMetaRefSourceType:
			scope := refScope(t)
			idx, err := d.r.ReadVarintU64()
			if err != nil {
				return d.fail(mapByteioErr(err))
			}
			if idx >= uint64(d.dict.Len(scope)) {
				return d.fail(ErrDanglingRef)
			}
			d.setCurrent(scope, int(idx))

		case t == tagEvent:
			indexTime, err := d.r.ReadU32BE()
			if err != nil {
				return d.fail(mapByteioErr(err))
			}
			msg, err := d.r.ReadLenPrefixed(d.maxFrameSize)
			if err != nil {
				return d.fail(mapByteioErr(err))
			}
			building = &Event{
				IndexTime:     indexTime,
				HostIdx:       d.hostCur,
				SourceIdx:     d.sourceCur,
				SourceTypeIdx: d.sourceTypeCur,
				RawMessage:    msg,
			}

		case t == tagKVPair:
			if building == nil {
				return d.fail(ErrUnexpectedKV)
			}
			key, err := d.r.ReadLenPrefixed(d.maxFrameSize)
			if err != nil {
				return d.fail(mapByteioErr(err))
			}
			val, err := d.r.ReadLenPrefixed(d.maxFrameSize)
			if err != nil {
				return d.fail(mapByteioErr(err))
			}
			building.ExtraFields = append(building.ExtraFields, KV{Key: key, Value: val})

		case t == tagExtBlock:
			if err := d.skipLenPrefixedRegion(); err != nil {
				return d.fail(err)
			}

		case t == tagEnd:
			d.state = stateEnded
			if building != nil {
				d.pending = building
				return true
			}
			return false

		case t >= forwardCompatMinTag:
			if err := d.skipLenPrefixedRegion(); err != nil {
				return d.fail(err)
			}

		default:
			return d.fail(ErrUnknownTag)
		}
	}
}

func (d *Decoder) skipLenPrefixedRegion() error {
	n, err := d.r.ReadVarintU64()
	if err != nil {
		return mapByteioErr(err)
	}
	if n > d.maxFrameSize {
		return ErrFrameTooLarge
	}
	if err := d.r.Skip(n); err != nil {
		return mapByteioErr(err)
	}
	return nil
}

func (d *Decoder) setCurrent(scope dictionary.Scope, idx int) {
	switch scope {
	case dictionary.Host:
		d.hostCur = idx
	case dictionary.Source:
		d.sourceCur = idx
	case dictionary.SourceType:
		d.sourceTypeCur = idx
	}
}

func (d *Decoder) fail(err error) bool {
	d.state = stateFailed
	d.lastErr = err
	return false
}

func addScope(t tag) dictionary.Scope {
	switch t {
	case tagMetaAddHost:
		return dictionary.Host
	case tagMetaAddSource:
		return dictionary.Source
	default:
		return dictionary.SourceType
	}
}

func refScope(t tag) dictionary.Scope {
	switch t {
	case tagMetaRefHost:
		return dictionary.Host
	case tagMetaRefSource:
		return dictionary.Source
	default:
		return dictionary.SourceType
	}
}

func mapByteioErr(err error) error {
	switch {
	case errors.Is(err, byteio.ErrUnexpectedEOF):
		return ErrUnexpectedEOF
	case errors.Is(err, byteio.ErrMalformedVarint):
		return ErrMalformedVarint
	case errors.Is(err, byteio.ErrFrameTooLarge):
		return ErrFrameTooLarge
	default:
		return err
	}
}
