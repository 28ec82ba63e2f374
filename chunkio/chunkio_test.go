package chunkio_test

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wisepulse/sortmerge/chunkio"
)

func readAll(t *testing.T, r chunkio.Reader) []string {
	t.Helper()
	var lines []string
	for {
		line, err := r.Read()
		require.NoError(t, err)
		if line == nil {
			return lines
		}
		lines = append(lines, string(line))
	}
}

func TestRoundTrip(t *testing.T) {
	lines := []string{`{"ts":1}`, `{"ts":2}`, `{"ts":3}`}
	for _, codec := range []chunkio.Codec{
		chunkio.CodecZstd, chunkio.CodecLZ4, chunkio.CodecGzip, chunkio.CodecNone,
	} {
		t.Run(string(codec), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "chunk.ndjson"+codec.Extension())
			w, err := chunkio.Create(path, codec)
			require.NoError(t, err)
			for _, line := range lines {
				_, err := w.Write([]byte(line + "\n"))
				require.NoError(t, err)
			}
			require.NoError(t, w.Close())
			r, err := chunkio.Open(path)
			require.NoError(t, err)
			defer r.Close()
			assert.Equal(t, lines, readAll(t, r))
		})
	}
}

func TestDetectsGzipWithoutExtension(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("{\"a\":1}\n{\"a\":2}\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	r, err := chunkio.NewReader(&buf, "stream")
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, []string{`{"a":1}`, `{"a":2}`}, readAll(t, r))
}

func TestMissingTrailingNewline(t *testing.T) {
	r, err := chunkio.NewReader(strings.NewReader("{\"a\":1}\n{\"a\":2}"), "stream")
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, []string{`{"a":1}`, `{"a":2}`}, readAll(t, r))
}

func TestCRLFStripped(t *testing.T) {
	r, err := chunkio.NewReader(strings.NewReader("{\"a\":1}\r\n"), "stream")
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, []string{`{"a":1}`}, readAll(t, r))
}

func TestEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.ndjson")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	r, err := chunkio.Open(path)
	require.NoError(t, err)
	defer r.Close()
	line, err := r.Read()
	require.NoError(t, err)
	assert.Nil(t, line)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := chunkio.Open(filepath.Join(t.TempDir(), "nope.ndjson.zst"))
	assert.Error(t, err)
}

func TestLookupCodec(t *testing.T) {
	codec, err := chunkio.LookupCodec("zstd")
	require.NoError(t, err)
	assert.Equal(t, chunkio.CodecZstd, codec)
	_, err = chunkio.LookupCodec("snappy")
	assert.ErrorContains(t, err, "unknown compression")
}
