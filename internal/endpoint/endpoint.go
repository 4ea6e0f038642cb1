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

// Package endpoint resolves the -i/-o command-line path specs to a
// concrete source or sink: local files, stdin/stdout, or S3 objects
// addressed as s3://bucket/key (spec.md §4.8).
package endpoint

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"strings"
)

// Config carries the S3 overrides the --s3-* flags (or SJOURNAL_S3_*
// env vars via viper) might supply; zero value means "use
// the AWS SDK's default resolution chain."
type Config struct {
	Region      string
	BaseURL     string
	PathStyle   bool
	InsecureTLS bool
}

// OpenSource resolves spec to a readable endpoint. "-" and "" mean
// stdin; "s3://bucket/key" means an S3 object; anything else is a local
// file path.
func OpenSource(ctx context.Context, spec string, cfg Config) (io.ReadCloser, error) {
	switch {
	case spec == "" || spec == "-":
		return stdinReader{}, nil
	case strings.HasPrefix(spec, "s3://"):
		bucket, key, err := parseS3URL(spec)
		if err != nil {
			return nil, err
		}
		return openS3Source(ctx, bucket, key, cfg)
	default:
		return openLocalSource(spec)
	}
}

// OpenSink resolves spec to a writable endpoint, analogous to OpenSource.
// A spec ending in ".gz" transparently wraps whichever underlying sink
// is resolved (local file, stdout, or S3 object) in a gzip writer.
func OpenSink(ctx context.Context, spec string, cfg Config) (io.WriteCloser, error) {
	w, err := openRawSink(ctx, spec, cfg)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(spec, ".gz") {
		return newGzipSink(w), nil
	}
	return w, nil
}

func openRawSink(ctx context.Context, spec string, cfg Config) (io.WriteCloser, error) {
	switch {
	case spec == "" || spec == "-":
		return stdoutWriter{}, nil
	case strings.HasPrefix(spec, "s3://"):
		bucket, key, err := parseS3URL(spec)
		if err != nil {
			return nil, err
		}
		return openS3Sink(ctx, bucket, key, cfg)
	default:
		return openLocalSink(spec)
	}
}

// gzipSink wraps an underlying sink in a gzip writer, closing both in
// the right order: the gzip footer must be flushed before the
// underlying writer (and, for S3, before the multipart upload commits).
type gzipSink struct {
	gz  *gzip.Writer
	dst io.WriteCloser
}

func newGzipSink(dst io.WriteCloser) io.WriteCloser {
	return &gzipSink{gz: gzip.NewWriter(dst), dst: dst}
}

func (g *gzipSink) Write(p []byte) (int, error) { return g.gz.Write(p) }

func (g *gzipSink) Close() error {
	if err := g.gz.Close(); err != nil {
		return fmt.Errorf("endpoint: close gzip stream: %w", err)
	}
	return g.dst.Close()
}

func parseS3URL(spec string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(spec, "s3://")
	idx := strings.IndexByte(rest, '/')
	if idx <= 0 || idx == len(rest)-1 {
		return "", "", fmt.Errorf("endpoint: malformed S3 URL %q (want s3://bucket/key)", spec)
	}
	return rest[:idx], rest[idx+1:], nil
}
