// Package chunkio reads and writes the newline-delimited record chunks
// the merge engine operates on.  A chunk is a stream of NDJSON lines,
// optionally wrapped in a zstd, lz4, or gzip compression frame; readers
// sniff the frame magic so mixed inputs need no per-file configuration.
package chunkio

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Reader wraps the Read method.
//
// Read returns the next record line with its terminator stripped and a
// nil error, a nil line and the next error, or a nil line and nil error
// to indicate that no lines remain.  Read never returns io.EOF.
type Reader interface {
	Read() ([]byte, error)
}

type LineReader struct {
	scanner *bufio.Reader
	closer  func() error
	name    string
	eof     bool
}

// Open opens the chunk file at path, detects its compression, and
// returns a Reader over its lines.
func Open(path string) (*LineReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(f, path)
	if err != nil {
		f.Close()
		return nil, err
	}
	inner := r.closer
	r.closer = func() error {
		var err error
		if inner != nil {
			err = inner()
		}
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		return err
	}
	return r, nil
}

// NewReader returns a Reader over the lines of r, sniffing and unwrapping
// any recognized compression frame.  The name is used in diagnostics.
func NewReader(r io.Reader, name string) (*LineReader, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	peek, err := br.Peek(4)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	var decompressed io.Reader
	var closer func() error
	switch detectCodec(peek) {
	case CodecZstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		decompressed = zr
		closer = func() error {
			zr.Close()
			return nil
		}
	case CodecLZ4:
		decompressed = lz4.NewReader(br)
	case CodecGzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		decompressed = zr
		closer = zr.Close
	default:
		decompressed = br
	}
	return &LineReader{
		scanner: bufio.NewReaderSize(decompressed, 64*1024),
		closer:  closer,
		name:    name,
	}, nil
}

func (r *LineReader) Read() ([]byte, error) {
	if r.eof {
		return nil, nil
	}
	line, err := r.scanner.ReadBytes('\n')
	if err == io.EOF {
		r.eof = true
		if len(line) == 0 {
			return nil, nil
		}
		err = nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.name, err)
	}
	line = bytes.TrimRight(line, "\r\n")
	return line, nil
}

func (r *LineReader) Name() string { return r.name }

func (r *LineReader) Close() error {
	if r.closer != nil {
		return r.closer()
	}
	return nil
}

// OpenAll opens every path in paths, closing any already-open readers
// if one fails so no descriptors leak on error.
func OpenAll(paths []string) ([]*LineReader, error) {
	readers := make([]*LineReader, 0, len(paths))
	for _, path := range paths {
		r, err := Open(path)
		if err != nil {
			CloseAll(readers)
			return nil, err
		}
		readers = append(readers, r)
	}
	return readers, nil
}

func CloseAll(readers []*LineReader) error {
	var err error
	for _, r := range readers {
		if closeErr := r.Close(); err == nil {
			err = closeErr
		}
	}
	return err
}
