package chunkio

import (
	"compress/gzip"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Writer is an io.WriteCloser that runs record lines through an
// optional compression frame on their way to an underlying file or
// stream.  Callers write complete newline-terminated lines.
type Writer struct {
	frame  io.WriteCloser
	file   *os.File
	closed bool
}

// Create creates the file at path and returns a Writer that compresses
// with the given codec.  Close closes the file.
func Create(path string, codec Codec) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(f, codec)
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, err
	}
	w.file = f
	return w, nil
}

// NewWriter returns a Writer wrapping w.  The caller retains ownership
// of w; Close finishes the compression frame but does not close w.
func NewWriter(w io.Writer, codec Codec) (*Writer, error) {
	var frame io.WriteCloser
	var err error
	switch codec {
	case CodecZstd:
		frame, err = zstd.NewWriter(w)
	case CodecLZ4:
		frame = lz4.NewWriter(w)
	case CodecGzip:
		frame = gzip.NewWriter(w)
	default:
		frame = nopWriteCloser{w}
	}
	if err != nil {
		return nil, err
	}
	return &Writer{frame: frame}, nil
}

func (w *Writer) Write(p []byte) (int, error) {
	return w.frame.Write(p)
}

// Close finishes the compression frame and closes the underlying file
// when the Writer owns one.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	err := w.frame.Close()
	if w.file != nil {
		if fileErr := w.file.Close(); err == nil {
			err = fileErr
		}
	}
	return err
}
