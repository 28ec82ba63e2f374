package mergeflags

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wisepulse/sortmerge/chunkio"
)

func parse(t *testing.T, args ...string) (*Flags, error) {
	t.Helper()
	var f Flags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f.SetFlags(fs)
	require.NoError(t, fs.Parse(args))
	return &f, f.Init()
}

func TestDefaults(t *testing.T) {
	f, err := parse(t, "-sort-field-path", "/ts")
	require.NoError(t, err)
	assert.Equal(t, 64, f.ParallelFiles)
	assert.Equal(t, 0, f.NumThreads)
	assert.Equal(t, chunkio.CodecZstd, f.Codec())
	assert.Equal(t, "/ts", f.Extractor().Path().String())
}

func TestValidation(t *testing.T) {
	cases := []struct {
		name string
		args []string
		err  string
	}{
		{name: "missing sort field", args: nil, err: "-sort-field-path is required"},
		{name: "bad path", args: []string{"-sort-field-path", "//"}, err: "-sort-field-path"},
		{name: "batch of one", args: []string{"-sort-field-path", "/ts", "-parallel-files", "1"}, err: "greater than 1"},
		{name: "batch of zero", args: []string{"-sort-field-path", "/ts", "-parallel-files", "0"}, err: "greater than 1"},
		{name: "negative threads", args: []string{"-sort-field-path", "/ts", "-num-threads", "-2"}, err: "num-threads"},
		{name: "bad codec", args: []string{"-sort-field-path", "/ts", "-compression", "brotli"}, err: "unknown compression"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := parse(t, c.args...)
			assert.ErrorContains(t, err, c.err)
		})
	}
}

func TestDoubleDashFlagsAccepted(t *testing.T) {
	f, err := parse(t, "--sort-field-path", "/a/b", "--parallel-files", "8")
	require.NoError(t, err)
	assert.Equal(t, 8, f.ParallelFiles)
	assert.Equal(t, "/a/b", f.Extractor().Path().String())
}
