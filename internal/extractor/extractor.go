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

// Package extractor wires the compression-sniffing source, the journal
// decoder, and an output writer into the single end-to-end pull loop
// the command line drives (spec.md §4.6).
package extractor

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/splkext/sjournal/fileconv/translate"
	"github.com/splkext/sjournal/internal/journal"
	"github.com/splkext/sjournal/internal/logctx"
	"github.com/splkext/sjournal/internal/recordwriter"
	"github.com/splkext/sjournal/internal/sniff"
)

// Stats reports what one Extract call did, surfaced by the --stats flag.
type Stats struct {
	EventCount      int64
	HostCount       int
	SourceCount     int
	SourceTypeCount int
	Codec           sniff.Codec
	BytesDecoded    uint64
}

// Extract decompresses src if needed, decodes its journal frames, and
// writes one record per event to w. It runs until the decoder
// reaches end-of-stream, hits a fatal error, or ctx is canceled; ctx is
// checked between scans so a cancellation never interrupts mid-frame.
func Extract(ctx context.Context, src io.Reader, w recordwriter.Writer, opts ...journal.Option) (Stats, error) {
	logger := logctx.FromContext(ctx)

	decompressed, codec, err := sniff.Wrap(src)
	if err != nil {
		return Stats{}, fmt.Errorf("extractor: %w", err)
	}
	defer func() { _ = decompressed.Close() }()

	logger.Debug("detected compression envelope", slog.String("codec", codec.String()))

	dec := journal.NewDecoder(decompressed, opts...)

	var count int64
	for dec.Scan() {
		if err := ctx.Err(); err != nil {
			return Stats{EventCount: count, Codec: codec, BytesDecoded: dec.Position()}, fmt.Errorf("extractor: canceled: %w", err)
		}

		ev := dec.GetEvent()
		rec := translate.FromEvent(dec, ev)
		if err := w.WriteRecord(rec); err != nil {
			return Stats{EventCount: count, Codec: codec, BytesDecoded: dec.Position()}, fmt.Errorf("extractor: write record %d: %w", count, err)
		}
		count++
	}

	stats := Stats{
		EventCount:      count,
		HostCount:       dec.HostCount(),
		SourceCount:     dec.SourceCount(),
		SourceTypeCount: dec.SourceTypeCount(),
		Codec:           codec,
		BytesDecoded:    dec.Position(),
	}

	if err := dec.Err(); err != nil {
		logger.Error("journal decode failed",
			slog.Any("error", err),
			slog.Int64("position", int64(dec.Position())),
			slog.Int64("events_emitted", count))
		return stats, fmt.Errorf("extractor: decode failed at byte %d: %w", dec.Position(), err)
	}

	logger.Info("extraction complete",
		slog.Int64("events", count),
		slog.String("codec", codec.String()))
	return stats, nil
}
