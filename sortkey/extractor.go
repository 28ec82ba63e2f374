// Package sortkey extracts the integer sort key from a record.
//
// A record is one NDJSON line and the key is addressed by a
// slash-delimited field.Path.  Extraction decodes only the objects
// along the path, leaving the record bytes untouched for pass-through.
package sortkey

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/wisepulse/sortmerge/pkg/field"
)

var ErrNotInteger = errors.New("value is not a 64-bit integer")

type Extractor struct {
	path field.Path
}

func New(path field.Path) *Extractor {
	return &Extractor{path: path}
}

func (x *Extractor) Path() field.Path { return x.path }

// Extract returns the int64 at the extractor's path within rec.  A
// malformed record, a missing field, or a non-integer value is an
// error; the caller treats any of them as fatal for the whole merge.
func (x *Extractor) Extract(rec []byte) (int64, error) {
	cur := json.RawMessage(rec)
	for i, name := range x.path {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(cur, &obj); err != nil {
			return 0, fmt.Errorf("cannot resolve field %s in record %s: %w",
				x.path, rec, err)
		}
		next, ok := obj[name]
		if !ok {
			return 0, fmt.Errorf("did not find field %s in record %s",
				x.path[:i+1], rec)
		}
		cur = next
	}
	// The leaf must be a bare integer literal.  Quoted digits, floats,
	// and every other JSON type are rejected.
	v, err := strconv.ParseInt(string(bytes.TrimSpace(cur)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("field %s in record %s: %w", x.path, rec, ErrNotInteger)
	}
	return v, nil
}
