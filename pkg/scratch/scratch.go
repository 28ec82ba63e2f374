// Package scratch allocates the working directory that holds the
// intermediate files produced by each merge round.
package scratch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/segmentio/ksuid"
)

// Prepare returns the directory intermediate files should be written to.
// If path is non-empty it is used directly: a pre-existing directory must
// be empty since the merge refuses to mix its intermediates into foreign
// data, and a missing one is created along with any parents.  If path is
// empty, a uniquely named directory is created under the system temp dir
// so concurrent runs never collide.
func Prepare(path string) (string, error) {
	if path == "" {
		dir := filepath.Join(os.TempDir(), "sortmerge-"+ksuid.New().String())
		if err := os.Mkdir(dir, 0700); err != nil {
			return "", err
		}
		return dir, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", err
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
		return path, nil
	}
	if len(entries) > 0 {
		return "", fmt.Errorf("tmp directory %q is not empty", path)
	}
	return path, nil
}

// FileName returns the intermediate file name for the given round and
// batch.  The pair is unique across a run, which is what keeps
// concurrently running batch merges from ever opening the same file.
func FileName(dir string, round, batch int, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("merged_chunks_%d_%d.ndjson%s", round, batch, ext))
}
