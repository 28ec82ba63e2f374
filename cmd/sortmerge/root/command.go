package root

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/wisepulse/sortmerge/cli"
	"github.com/wisepulse/sortmerge/cli/logflags"
	"github.com/wisepulse/sortmerge/cli/mergeflags"
	"github.com/wisepulse/sortmerge/pkg/charm"
	"github.com/wisepulse/sortmerge/pkg/scratch"
	"github.com/wisepulse/sortmerge/reduce"
	"go.uber.org/zap"
)

var Sortmerge = &charm.Spec{
	Name:  "sortmerge",
	Usage: "sortmerge -sort-field-path <path> [options] < chunk-list",
	Short: "merge sorted compressed chunk files into one sorted stream",
	Long: `
The sortmerge command is the merge stage of the ingestion pipeline.  It
reads a newline-delimited list of chunk file paths from standard input
and writes one globally sorted NDJSON stream to standard output.

Each chunk is a compressed (zstd, lz4, or gzip) or plain stream of
newline-delimited JSON records, already sorted ascending by the integer
field named with -sort-field-path.  Chunks are merged in batches of at
most -parallel-files at a time; each batch produces a compressed
intermediate file in the working directory and rounds repeat until one
final merge can write the output.  Intermediate files are left in place
for diagnostics.

Records pass through byte-for-byte; only the sort field is inspected.
A missing or non-integer sort field in any record aborts the merge.
`,
	New: New,
}

type Command struct {
	cli.Flags
	logFlags   logflags.Flags
	mergeFlags mergeflags.Flags
	quiet      bool
	stats      bool
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{}
	c.SetFlags(f)
	c.logFlags.SetFlags(f)
	c.mergeFlags.SetFlags(f)
	f.BoolVar(&c.quiet, "q", false, "suppress logging")
	f.BoolVar(&c.stats, "stats", false, "print merge statistics to stderr on exit")
	return c, nil
}

func (c *Command) Run(args []string) error {
	if c.ShowVersion {
		fmt.Println(cli.Version)
		return nil
	}
	ctx, cleanup, err := c.Init(&c.mergeFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) > 0 {
		return errors.New("sortmerge takes no arguments; pipe the chunk list to stdin")
	}
	logger := zap.NewNop()
	if !c.quiet {
		if logger, err = c.logFlags.Open(); err != nil {
			return err
		}
		defer logger.Sync()
	}
	workDir, err := scratch.Prepare(c.mergeFlags.TmpDirectory)
	if err != nil {
		return err
	}
	logger.Info("merging chunks",
		zap.String("work_dir", workDir),
		zap.String("sort_field", c.mergeFlags.SortFieldPath),
		zap.Int("parallel_files", c.mergeFlags.ParallelFiles))
	runner, err := reduce.NewRunner(reduce.Config{
		Extractor: c.mergeFlags.Extractor(),
		BatchSize: c.mergeFlags.ParallelFiles,
		WorkDir:   workDir,
		Codec:     c.mergeFlags.Codec(),
		Workers:   c.mergeFlags.NumThreads,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	if err := runner.Run(ctx, os.Stdin, os.Stdout); err != nil {
		return err
	}
	if c.stats {
		out, err := json.Marshal(runner.Progress().Snapshot())
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, string(out))
	}
	return nil
}
