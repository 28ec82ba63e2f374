package sortkey_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wisepulse/sortmerge/pkg/field"
	"github.com/wisepulse/sortmerge/sortkey"
)

func extractor(t *testing.T, path string) *sortkey.Extractor {
	t.Helper()
	p, err := field.Parse(path)
	require.NoError(t, err)
	return sortkey.New(p)
}

func TestExtract(t *testing.T) {
	cases := []struct {
		name string
		path string
		rec  string
		want int64
		err  string
	}{
		{name: "top level", path: "/timestamp", rec: `{"timestamp":1234567890,"name":"test"}`, want: 1234567890},
		{name: "nested", path: "/a/b", rec: `{"a":{"b":42}}`, want: 42},
		{name: "deeply nested", path: "/metadata/created/timestamp", rec: `{"metadata":{"created":{"timestamp":9876543210}}}`, want: 9876543210},
		{name: "negative", path: "/sort_key", rec: `{"sort_key":-500}`, want: -500},
		{name: "missing field", path: "/a/c", rec: `{"a":{"b":42}}`, err: "did not find field /a/c"},
		{name: "missing top level", path: "/timestamp", rec: `{"other_field":123}`, err: "did not find field /timestamp"},
		{name: "string value", path: "/a/b", rec: `{"a":{"b":"x"}}`, err: "not a 64-bit integer"},
		{name: "quoted digits", path: "/ts", rec: `{"ts":"123"}`, err: "not a 64-bit integer"},
		{name: "float value", path: "/ts", rec: `{"ts":1.5}`, err: "not a 64-bit integer"},
		{name: "null value", path: "/ts", rec: `{"ts":null}`, err: "not a 64-bit integer"},
		{name: "object value", path: "/ts", rec: `{"ts":{"x":1}}`, err: "not a 64-bit integer"},
		{name: "path through scalar", path: "/a/b", rec: `{"a":7}`, err: "cannot resolve field /a/b"},
		{name: "malformed record", path: "/ts", rec: `{"ts":`, err: "cannot resolve field /ts"},
		{name: "non-object record", path: "/ts", rec: `[1,2,3]`, err: "cannot resolve field /ts"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := extractor(t, c.path).Extract([]byte(c.rec))
			if c.err != "" {
				assert.ErrorContains(t, err, c.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestExtractInt64Bounds(t *testing.T) {
	x := extractor(t, "/ts")
	got, err := x.Extract([]byte(`{"ts":9223372036854775807}`))
	require.NoError(t, err)
	assert.Equal(t, int64(9223372036854775807), got)
	got, err = x.Extract([]byte(`{"ts":-9223372036854775808}`))
	require.NoError(t, err)
	assert.Equal(t, int64(-9223372036854775808), got)
	_, err = x.Extract([]byte(`{"ts":9223372036854775808}`))
	assert.ErrorIs(t, err, sortkey.ErrNotInteger)
}
