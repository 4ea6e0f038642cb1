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

package recordwriter

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/splkext/sjournal/fileconv/translate"
)

type ndjsonRow struct {
	Timestamp  uint32 `json:"timestamp"`
	Host       string `json:"host"`
	Source     string `json:"source"`
	SourceType string `json:"sourcetype"`
	Message    string `json:"message"`
}

// ndjsonWriter emits one JSON object per line with a fixed key order
// (spec.md §4.7): timestamp, host, source, sourcetype, message.
type ndjsonWriter struct {
	bw  *bufio.Writer
	enc *json.Encoder
}

// NewNDJSON returns a Writer that serializes records as line-delimited
// JSON onto w. Close flushes the underlying buffer; it never closes w.
func NewNDJSON(w io.Writer) Writer {
	bw := bufio.NewWriterSize(w, 64*1024)
	return &ndjsonWriter{bw: bw, enc: json.NewEncoder(bw)}
}

func (n *ndjsonWriter) WriteRecord(rec translate.Record) error {
	row := ndjsonRow{
		Timestamp:  rec.Timestamp,
		Host:       rec.Host,
		Source:     rec.Source,
		SourceType: rec.SourceType,
		Message:    rec.Message,
	}
	if err := n.enc.Encode(row); err != nil {
		return fmt.Errorf("recordwriter: encode ndjson row: %w", err)
	}
	return nil
}

func (n *ndjsonWriter) Close() error {
	if err := n.bw.Flush(); err != nil {
		return fmt.Errorf("recordwriter: flush ndjson output: %w", err)
	}
	return nil
}
