// Package field provides the Path type for naming a nested field
// within a record, written as a slash-delimited string like "/a/b".
package field

import (
	"errors"
	"strings"
)

// A Path names a sequence of fields from the root of a record down to
// the named leaf.
type Path []string

// Parse converts a slash-delimited string to a Path.  A leading slash
// is optional so both "/metadata/ts" and "metadata/ts" name the same
// field.  Empty strings and empty path elements are rejected.
func Parse(s string) (Path, error) {
	s = strings.TrimPrefix(s, "/")
	if s == "" {
		return nil, errors.New("empty field path")
	}
	elems := strings.Split(s, "/")
	for _, elem := range elems {
		if elem == "" {
			return nil, errors.New("field path has an empty element: " + "/" + s)
		}
	}
	return Path(elems), nil
}

func (p Path) String() string {
	return "/" + strings.Join(p, "/")
}

func (p Path) Leaf() string {
	return p[len(p)-1]
}

func (p Path) Equal(to Path) bool {
	if len(p) != len(to) {
		return false
	}
	for i, elem := range p {
		if elem != to[i] {
			return false
		}
	}
	return true
}
