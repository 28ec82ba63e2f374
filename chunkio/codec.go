package chunkio

import (
	"fmt"
	"io"
)

// Codec identifies the compression applied to a chunk file.
type Codec string

const (
	CodecZstd Codec = "zstd"
	CodecLZ4  Codec = "lz4"
	CodecGzip Codec = "gzip"
	CodecNone Codec = "none"
)

// LookupCodec maps a -compression flag value to a Codec.
func LookupCodec(name string) (Codec, error) {
	switch Codec(name) {
	case CodecZstd, CodecLZ4, CodecGzip, CodecNone:
		return Codec(name), nil
	}
	return "", fmt.Errorf("unknown compression format %q", name)
}

// Extension returns the file suffix conventionally used for the codec,
// e.g., ".zst" for zstd so intermediates are named *.ndjson.zst.
func (c Codec) Extension() string {
	switch c {
	case CodecZstd:
		return ".zst"
	case CodecLZ4:
		return ".lz4"
	case CodecGzip:
		return ".gz"
	default:
		return ""
	}
}

var (
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}
	magicGzip = []byte{0x1f, 0x8b}
)

func hasMagic(b, magic []byte) bool {
	if len(b) < len(magic) {
		return false
	}
	for i, m := range magic {
		if b[i] != m {
			return false
		}
	}
	return true
}

// detectCodec sniffs the first bytes of a stream.  Anything that is not
// a recognized compression frame is treated as uncompressed text.
func detectCodec(peek []byte) Codec {
	switch {
	case hasMagic(peek, magicZstd):
		return CodecZstd
	case hasMagic(peek, magicLZ4):
		return CodecLZ4
	case hasMagic(peek, magicGzip):
		return CodecGzip
	}
	return CodecNone
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
