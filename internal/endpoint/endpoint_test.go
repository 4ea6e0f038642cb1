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

package endpoint

import (
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSourceAndSinkLocalFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")

	sink, err := OpenSink(context.Background(), path, Config{})
	require.NoError(t, err)
	_, err = sink.Write([]byte("journal bytes"))
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	src, err := OpenSource(context.Background(), path, Config{})
	require.NoError(t, err)
	defer src.Close()
	got, err := io.ReadAll(src)
	require.NoError(t, err)
	assert.Equal(t, "journal bytes", string(got))
}

func TestOpenSinkGzSuffixTransparentlyCompresses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.journal.gz")

	sink, err := OpenSink(context.Background(), path, Config{})
	require.NoError(t, err)
	_, err = sink.Write([]byte("compress me"))
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	gr, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gr.Close()
	got, err := io.ReadAll(gr)
	require.NoError(t, err)
	assert.Equal(t, "compress me", string(got))
}

func TestOpenSourceMissingLocalFileFails(t *testing.T) {
	_, err := OpenSource(context.Background(), filepath.Join(t.TempDir(), "missing"), Config{})
	require.Error(t, err)
}

func TestOpenSourceEmptyOrDashMeansStdin(t *testing.T) {
	for _, spec := range []string{"", "-"} {
		src, err := OpenSource(context.Background(), spec, Config{})
		require.NoError(t, err)
		_, ok := src.(stdinReader)
		assert.True(t, ok)
		assert.NoError(t, src.Close())
	}
}

func TestOpenSinkEmptyOrDashMeansStdout(t *testing.T) {
	for _, spec := range []string{"", "-"} {
		sink, err := OpenSink(context.Background(), spec, Config{})
		require.NoError(t, err)
		_, ok := sink.(stdoutWriter)
		assert.True(t, ok)
		assert.NoError(t, sink.Close())
	}
}

func TestParseS3URLValid(t *testing.T) {
	bucket, key, err := parseS3URL("s3://my-bucket/path/to/object.journal")
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", bucket)
	assert.Equal(t, "path/to/object.journal", key)
}

func TestParseS3URLRejectsMissingKeyOrBucket(t *testing.T) {
	for _, spec := range []string{"s3://bucket-only", "s3://bucket-only/", "s3:///key-only"} {
		_, _, err := parseS3URL(spec)
		require.Error(t, err, spec)
	}
}

func TestOpenSourceMalformedS3URLFailsBeforeAnyNetworkCall(t *testing.T) {
	_, err := OpenSource(context.Background(), "s3://bad", Config{})
	require.Error(t, err)
}

func TestStdinReaderStdoutWriterCloseIsNoOp(t *testing.T) {
	assert.NoError(t, stdinReader{}.Close())
	assert.NoError(t, stdoutWriter{}.Close())
}

func TestOpenLocalSinkCreatesFile(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "nested", "not", "yet-created")
	sink, err := openLocalSink(filepath.Join(nested, "out.bin"))
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	info, statErr := os.Stat(nested)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}
