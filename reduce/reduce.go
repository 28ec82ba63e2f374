// Package reduce drives the multi-round reduction that bounds the
// merge's fan-in.  Each round partitions the current generation of
// sorted chunk files into batches of at most the configured size,
// merges the batches in parallel into compressed intermediate files,
// and feeds the survivors to the next round.  Once one batch can hold
// them all, a final merge streams uncompressed output to the sink.
package reduce

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wisepulse/sortmerge/chunkio"
	"github.com/wisepulse/sortmerge/merge"
	"github.com/wisepulse/sortmerge/pkg/scratch"
	"github.com/wisepulse/sortmerge/sortkey"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrNoInput = errors.New("no input files received")

type Config struct {
	// Extractor pulls the sort key out of each record.
	Extractor *sortkey.Extractor
	// BatchSize bounds the fan-in of a single merge and must exceed 1
	// or the reduction could never shrink the file count.
	BatchSize int
	// WorkDir receives the intermediate files.  It must exist; see
	// pkg/scratch.
	WorkDir string
	// Codec compresses intermediate files.  Defaults to zstd.
	Codec chunkio.Codec
	// Workers sizes the batch worker pool.  Defaults to GOMAXPROCS.
	Workers int
	Logger  *zap.Logger
}

type Runner struct {
	conf     Config
	progress Progress
}

func NewRunner(conf Config) (*Runner, error) {
	if conf.Extractor == nil {
		return nil, errors.New("no sort key extractor configured")
	}
	if conf.BatchSize <= 1 {
		return nil, fmt.Errorf("parallel-files must be greater than 1 (got %d)", conf.BatchSize)
	}
	if conf.Codec == "" {
		conf.Codec = chunkio.CodecZstd
	}
	if conf.Workers <= 0 {
		conf.Workers = runtime.GOMAXPROCS(0)
	}
	if conf.Logger == nil {
		conf.Logger = zap.NewNop()
	}
	return &Runner{conf: conf}, nil
}

func (r *Runner) Progress() *Progress { return &r.progress }

// Run consumes a newline-delimited list of chunk paths from paths and
// writes the globally sorted record stream to sink.  The path list is
// never materialized: a feeder goroutine groups paths into batches as
// they arrive and hands them to the worker pool, so very large input
// cardinalities stay within the configured resource bounds.
func (r *Runner) Run(ctx context.Context, paths io.Reader, sink io.Writer) error {
	files, err := r.runRound(ctx, 0, r.feedLines(paths))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return ErrNoInput
	}
	for round := 1; len(files) > r.conf.BatchSize; round++ {
		if files, err = r.runRound(ctx, round, r.feedSlice(files)); err != nil {
			return err
		}
	}
	return r.finalize(ctx, files, sink)
}

type batch struct {
	id    int
	paths []string
}

// A feeder emits a round's batches into ch, returning when the source
// is drained, the context is canceled, or the source fails.
type feeder func(ctx context.Context, ch chan<- batch) error

func (r *Runner) feedLines(src io.Reader) feeder {
	return func(ctx context.Context, ch chan<- batch) error {
		scanner := bufio.NewScanner(src)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		var b batch
		for scanner.Scan() {
			path := strings.TrimSpace(scanner.Text())
			if path == "" {
				continue
			}
			b.paths = append(b.paths, path)
			if len(b.paths) == r.conf.BatchSize {
				if !send(ctx, ch, b) {
					return ctx.Err()
				}
				b = batch{id: b.id + 1}
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading input file list: %w", err)
		}
		if len(b.paths) > 0 && !send(ctx, ch, b) {
			return ctx.Err()
		}
		return nil
	}
}

func (r *Runner) feedSlice(files []string) feeder {
	return func(ctx context.Context, ch chan<- batch) error {
		for i := 0; i < len(files); i += r.conf.BatchSize {
			end := min(i+r.conf.BatchSize, len(files))
			b := batch{id: i / r.conf.BatchSize, paths: files[i:end]}
			if !send(ctx, ch, b) {
				return ctx.Err()
			}
		}
		return nil
	}
}

func send(ctx context.Context, ch chan<- batch, b batch) bool {
	select {
	case ch <- b:
		return true
	case <-ctx.Done():
		return false
	}
}

// runRound merges every batch the feeder emits and returns the paths of
// the intermediate files produced.  The first failing batch cancels the
// group; in-flight batches notice via their merge context and abandon.
func (r *Runner) runRound(ctx context.Context, round int, feed feeder) ([]string, error) {
	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	ch := make(chan batch, r.conf.Workers)
	g.Go(func() error {
		defer close(ch)
		return feed(ctx, ch)
	})
	var mu sync.Mutex
	var produced []batch
	for w := 0; w < r.conf.Workers; w++ {
		g.Go(func() error {
			for b := range ch {
				path, err := r.mergeBatch(ctx, round, b)
				if err != nil {
					return err
				}
				mu.Lock()
				produced = append(produced, batch{id: b.id, paths: []string{path}})
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Completion order reflects scheduling; put the files back in batch
	// order so rounds are reproducible.
	sort.Slice(produced, func(i, j int) bool { return produced[i].id < produced[j].id })
	files := make([]string, len(produced))
	for i, p := range produced {
		files[i] = p.paths[0]
	}
	r.progress.Rounds.Add(1)
	r.conf.Logger.Info("merge round complete",
		zap.Int("round", round),
		zap.Int("batches", len(files)),
		zap.Duration("elapsed", time.Since(start)))
	return files, nil
}

func (r *Runner) mergeBatch(ctx context.Context, round int, b batch) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	readers, err := chunkio.OpenAll(b.paths)
	if err != nil {
		return "", err
	}
	defer chunkio.CloseAll(readers)
	path := scratch.FileName(r.conf.WorkDir, round, b.id, r.conf.Codec.Extension())
	w, err := chunkio.Create(path, r.conf.Codec)
	if err != nil {
		return "", err
	}
	err = merge.Merge(ctx, asReaders(readers), r.progress.meterIntermediate(w), r.conf.Extractor)
	if closeErr := w.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", err
	}
	r.progress.Batches.Add(1)
	r.conf.Logger.Debug("batch merged",
		zap.Int("round", round),
		zap.Int("batch", b.id),
		zap.Int("sources", len(b.paths)),
		zap.String("file", path))
	return path, nil
}

func (r *Runner) finalize(ctx context.Context, files []string, sink io.Writer) error {
	readers, err := chunkio.OpenAll(files)
	if err != nil {
		return err
	}
	defer chunkio.CloseAll(readers)
	r.conf.Logger.Info("final merge", zap.Int("sources", len(files)))
	return merge.Merge(ctx, asReaders(readers), r.progress.meterOutput(sink), r.conf.Extractor)
}

func asReaders(readers []*chunkio.LineReader) []chunkio.Reader {
	out := make([]chunkio.Reader, len(readers))
	for i, r := range readers {
		out[i] = r
	}
	return out
}
