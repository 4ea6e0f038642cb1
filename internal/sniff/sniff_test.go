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

package sniff

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipBytes(t *testing.T, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func zstdBytes(t *testing.T, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = zw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDetectIdentity(t *testing.T) {
	br := bufio.NewReader(bytes.NewReader([]byte{0x01, 0x02, 0x03, 0x04}))
	codec, err := Detect(br)
	require.NoError(t, err)
	assert.Equal(t, Identity, codec)
}

func TestDetectGzip(t *testing.T) {
	data := gzipBytes(t, []byte("payload"))
	br := bufio.NewReader(bytes.NewReader(data))
	codec, err := Detect(br)
	require.NoError(t, err)
	assert.Equal(t, Gzip, codec)
}

func TestDetectZstd(t *testing.T) {
	data := zstdBytes(t, []byte("payload"))
	br := bufio.NewReader(bytes.NewReader(data))
	codec, err := Detect(br)
	require.NoError(t, err)
	assert.Equal(t, Zstd, codec)
}

func TestDetectDoesNotConsumeBytes(t *testing.T) {
	data := gzipBytes(t, []byte("payload"))
	br := bufio.NewReader(bytes.NewReader(data))
	_, err := Detect(br)
	require.NoError(t, err)

	// Detect must have peeked, not read: the full stream is still there.
	rest, err := io.ReadAll(br)
	require.NoError(t, err)
	assert.Equal(t, data, rest)
}

func TestDetectShortStreamNoPanic(t *testing.T) {
	br := bufio.NewReader(bytes.NewReader([]byte{0x1F}))
	codec, err := Detect(br)
	require.NoError(t, err)
	assert.Equal(t, Identity, codec)
}

func TestWrapIdentityPassesThroughUnchanged(t *testing.T) {
	payload := []byte("plain frames")
	rc, codec, err := Wrap(bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, Identity, codec)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	require.NoError(t, rc.Close())
}

func TestWrapGzipRoundTrips(t *testing.T) {
	payload := []byte("frame bytes go here")
	rc, codec, err := Wrap(bytes.NewReader(gzipBytes(t, payload)))
	require.NoError(t, err)
	assert.Equal(t, Gzip, codec)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	require.NoError(t, rc.Close())
}

func TestWrapZstdRoundTrips(t *testing.T) {
	payload := []byte("frame bytes go here, zstd edition")
	rc, codec, err := Wrap(bytes.NewReader(zstdBytes(t, payload)))
	require.NoError(t, err)
	assert.Equal(t, Zstd, codec)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	require.NoError(t, rc.Close())
}

func TestZstdDecoderIsReusedAcrossCloses(t *testing.T) {
	payload := []byte("first stream")
	rc, _, err := Wrap(bytes.NewReader(zstdBytes(t, payload)))
	require.NoError(t, err)
	_, err = io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	// A second Wrap call should succeed using a decoder drawn from the
	// pool rather than failing due to leftover state from the first.
	payload2 := []byte("second stream, different content")
	rc2, _, err := Wrap(bytes.NewReader(zstdBytes(t, payload2)))
	require.NoError(t, err)
	got, err := io.ReadAll(rc2)
	require.NoError(t, err)
	assert.Equal(t, payload2, got)
	require.NoError(t, rc2.Close())
}

func TestCodecString(t *testing.T) {
	assert.Equal(t, "identity", Identity.String())
	assert.Equal(t, "gzip", Gzip.String())
	assert.Equal(t, "zstd", Zstd.String())
}
