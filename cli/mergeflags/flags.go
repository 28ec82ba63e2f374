// Package mergeflags holds the merge engine's command line flags.
package mergeflags

import (
	"errors"
	"flag"
	"fmt"

	"github.com/wisepulse/sortmerge/chunkio"
	"github.com/wisepulse/sortmerge/pkg/field"
	"github.com/wisepulse/sortmerge/sortkey"
)

type Flags struct {
	SortFieldPath string
	TmpDirectory  string
	ParallelFiles int
	NumThreads    int
	Compression   string

	path  field.Path
	codec chunkio.Codec
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&f.SortFieldPath, "sort-field-path", "",
		"slash-delimited path of the integer field records are sorted by (required)")
	fs.StringVar(&f.TmpDirectory, "tmp-directory", "",
		"directory for intermediate files; must be empty if it exists (default: system temp)")
	fs.IntVar(&f.ParallelFiles, "parallel-files", 64,
		"maximum number of files merged in one pass; must be greater than 1")
	fs.IntVar(&f.NumThreads, "num-threads", 0,
		"number of batch merge workers (0 = number of CPUs)")
	fs.StringVar(&f.Compression, "compression", "zstd",
		"compression for intermediate files [zstd,lz4,gzip,none]")
}

// Init is called after flags have been parsed.
func (f *Flags) Init() error {
	if f.SortFieldPath == "" {
		return errors.New("-sort-field-path is required")
	}
	path, err := field.Parse(f.SortFieldPath)
	if err != nil {
		return fmt.Errorf("-sort-field-path: %w", err)
	}
	f.path = path
	if f.ParallelFiles <= 1 {
		return fmt.Errorf("-parallel-files must be greater than 1 (got %d)", f.ParallelFiles)
	}
	if f.NumThreads < 0 {
		return fmt.Errorf("-num-threads must not be negative (got %d)", f.NumThreads)
	}
	codec, err := chunkio.LookupCodec(f.Compression)
	if err != nil {
		return fmt.Errorf("-compression: %w", err)
	}
	f.codec = codec
	return nil
}

func (f *Flags) Extractor() *sortkey.Extractor {
	return sortkey.New(f.path)
}

func (f *Flags) Codec() chunkio.Codec {
	return f.codec
}
