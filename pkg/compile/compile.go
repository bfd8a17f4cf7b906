// Package compile turns author-written source files into reference table
// records: idiom and snippet files carrying a `// @key: value` metadata
// header, and anti-pattern YAML documents. Files are processed in
// lexicographic filename order so repeated runs produce stable diffs.
//
// A file with a missing required field is rejected individually: the failure
// is reported with the filename and offending keys and the remaining files
// still compile. An identifier collision between two files is fatal for the
// whole run, because a duplicate key would silently break downstream
// lookups.
package compile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

// FileError records why a single source file was rejected.
type FileError struct {
	File string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e FileError) Unwrap() error { return e.Err }

// sourceFiles lists the files under dir matching pattern, sorted by name.
// A missing source directory is fatal; an empty one is not.
func sourceFiles(dir, pattern string) ([]string, error) {
	if info, err := os.Stat(dir); err != nil {
		return nil, errors.Wrapf(err, "source directory %s not found", dir)
	} else if !info.IsDir() {
		return nil, errors.Errorf("%s is not a directory", dir)
	}
	matches, err := doublestar.FilepathGlob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid source pattern %s", pattern)
	}
	sort.Strings(matches)
	return matches, nil
}

// checkDuplicate enforces table-wide key uniqueness. seen maps identifier to
// the file that first claimed it.
func checkDuplicate(seen map[string]string, id, file string) error {
	if first, ok := seen[id]; ok {
		return errors.Errorf("duplicate identifier %q in %s (already defined in %s)", id, file, first)
	}
	seen[id] = file
	return nil
}
