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

// Package sniff detects the compression envelope, if any, wrapped around
// a journal byte stream and returns a plain io.Reader over the
// decompressed frames. Detection is magic-byte based and never consumes
// bytes from the logical stream it hands back.
package sniff

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Codec identifies the detected compression envelope.
type Codec int

const (
	Identity Codec = iota
	Zstd
	Gzip
)

func (c Codec) String() string {
	switch c {
	case Zstd:
		return "zstd"
	case Gzip:
		return "gzip"
	default:
		return "identity"
	}
}

var (
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	gzipMagic = []byte{0x1F, 0x8B}
)

// Detect peeks at the leading bytes of br without consuming them and
// reports which codec, if any, the stream is wrapped in.
func Detect(br *bufio.Reader) (Codec, error) {
	head, err := br.Peek(4)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return Identity, fmt.Errorf("sniff: peek header: %w", err)
	}
	switch {
	case hasPrefix(head, zstdMagic):
		return Zstd, nil
	case hasPrefix(head, gzipMagic):
		return Gzip, nil
	default:
		return Identity, nil
	}
}

func hasPrefix(head, magic []byte) bool {
	if len(head) < len(magic) {
		return false
	}
	for i, b := range magic {
		if head[i] != b {
			return false
		}
	}
	return true
}

// Wrap sniffs r's compression envelope and returns an io.ReadCloser that
// yields the decompressed frame stream. Closing the returned reader
// releases any codec resources; it never closes r itself.
func Wrap(r io.Reader) (io.ReadCloser, Codec, error) {
	br := bufio.NewReaderSize(r, 32*1024)
	codec, err := Detect(br)
	if err != nil {
		return nil, Identity, err
	}
	switch codec {
	case Zstd:
		zr, err := getZstdDecoder(br)
		if err != nil {
			return nil, codec, fmt.Errorf("sniff: open zstd stream: %w", err)
		}
		return zr, codec, nil
	case Gzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, codec, fmt.Errorf("sniff: open gzip stream: %w", err)
		}
		return gz, codec, nil
	default:
		return io.NopCloser(br), codec, nil
	}
}

// zstdPool recycles *zstd.Decoder instances across sequential journal
// extractions via Reset rather than allocating a fresh decoder (and its
// ~1MiB window buffer) per file.
var zstdPool = sync.Pool{
	New: func() any {
		d, _ := zstd.NewReader(nil)
		return d
	},
}

type pooledZstdReader struct {
	*zstd.Decoder
}

func (p *pooledZstdReader) Close() error {
	p.Decoder.Reset(nil)
	zstdPool.Put(p.Decoder)
	return nil
}

func getZstdDecoder(r io.Reader) (io.ReadCloser, error) {
	d := zstdPool.Get().(*zstd.Decoder)
	if err := d.Reset(r); err != nil {
		zstdPool.Put(d)
		return nil, err
	}
	return &pooledZstdReader{d}, nil
}
