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
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/splkext/sjournal/fileconv/translate"
)

var csvHeader = []string{"timestamp", "host", "source", "sourcetype", "message"}

// csvWriter emits RFC 4180 CSV (spec.md §4.7): a single header row,
// LF line endings, quoting and escaping handled by encoding/csv. The
// header is written unconditionally at construction, matching the
// original source's CSVFormatter (writeheader before any row), so a
// zero-event extraction still produces a header-only file.
type csvWriter struct {
	w *csv.Writer
}

// NewCSV returns a Writer that serializes records as CSV onto w.
func NewCSV(w io.Writer) Writer {
	cw := csv.NewWriter(w)
	cw.UseCRLF = false
	_ = cw.Write(csvHeader)
	return &csvWriter{w: cw}
}

func (c *csvWriter) WriteRecord(rec translate.Record) error {
	row := []string{
		strconv.FormatUint(uint64(rec.Timestamp), 10),
		rec.Host,
		rec.Source,
		rec.SourceType,
		rec.Message,
	}
	if err := c.w.Write(row); err != nil {
		return fmt.Errorf("recordwriter: write csv row: %w", err)
	}
	return nil
}

func (c *csvWriter) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return fmt.Errorf("recordwriter: flush csv output: %w", err)
	}
	return nil
}
