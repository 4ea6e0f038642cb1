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

// Package recordwriter implements the three output sinks the extractor
// drives: line-delimited JSON, CSV, and row-group-buffered columnar
// (Parquet). All three share the Writer contract below.
package recordwriter

import (
	"fmt"

	"github.com/splkext/sjournal/fileconv/translate"
)

// Writer accepts one Record at a time and flushes whatever buffering it
// needs to on Close. Implementations are not safe for concurrent use.
type Writer interface {
	WriteRecord(rec translate.Record) error
	Close() error
}

// Format names the output serialization selected on the command line.
type Format string

const (
	NDJSON  Format = "ndjson"
	CSV     Format = "csv"
	Parquet Format = "parquet"
)

// ParseFormat validates a -f flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case NDJSON, CSV, Parquet:
		return Format(s), nil
	default:
		return "", fmt.Errorf("recordwriter: unsupported format %q (want ndjson, csv, or parquet)", s)
	}
}
