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
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splkext/sjournal/fileconv/translate"
)

func TestNDJSONWritesOneObjectPerLineWithFixedKeyOrder(t *testing.T) {
	var buf bytes.Buffer
	w := NewNDJSON(&buf)

	require.NoError(t, w.WriteRecord(translate.Record{
		Timestamp: 1000, Host: "h1", Source: "s1", SourceType: "st1", Message: "hello",
	}))
	require.NoError(t, w.WriteRecord(translate.Record{
		Timestamp: 2000, Host: "h2", Source: "s2", SourceType: "st2", Message: "world",
	}))
	require.NoError(t, w.Close())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		`{"timestamp":1000,"host":"h1","source":"s1","sourcetype":"st1","message":"hello"}`,
		lines[0])
	assert.Equal(t,
		`{"timestamp":2000,"host":"h2","source":"s2","sourcetype":"st2","message":"world"}`,
		lines[1])
}

func TestNDJSONCloseFlushesWithoutClosingUnderlying(t *testing.T) {
	var buf bytes.Buffer
	w := NewNDJSON(&buf)
	require.NoError(t, w.WriteRecord(translate.Record{Message: "x"}))
	assert.Empty(t, buf.String(), "nothing should be visible before Close flushes the buffer")
	require.NoError(t, w.Close())
	assert.NotEmpty(t, buf.String())
}
