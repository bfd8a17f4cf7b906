package compile

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/strudel-skill/strudelref/pkg/header"
	"github.com/strudel-skill/strudelref/pkg/logger"
	"github.com/strudel-skill/strudelref/pkg/refdata"
)

// Idioms compiles the .strudel files under srcDir into idiom records. The
// metadata header requires @name, @cat, and @desc; @notes, @tags, and
// @functions are optional. Everything after the header is the code body,
// captured verbatim.
//
// Per-file failures are returned alongside the successfully compiled
// records. A duplicate @name across files is returned as a fatal error with
// no records.
func Idioms(ctx context.Context, srcDir string) ([]refdata.IdiomRecord, []FileError, error) {
	files, err := sourceFiles(srcDir, "*.strudel")
	if err != nil {
		return nil, nil, err
	}

	log := logger.G(ctx)
	seen := make(map[string]string)
	var records []refdata.IdiomRecord
	var failures []FileError

	for _, path := range files {
		name := filepath.Base(path)
		rec, err := parseIdiomFile(path)
		if err != nil {
			log.WithField("file", name).WithError(err).Warn("rejecting idiom file")
			failures = append(failures, FileError{File: name, Err: err})
			continue
		}
		if err := checkDuplicate(seen, rec.Name, name); err != nil {
			return nil, nil, err
		}
		records = append(records, rec)
	}

	return records, failures, nil
}

func parseIdiomFile(path string) (refdata.IdiomRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return refdata.IdiomRecord{}, errors.Wrap(err, "failed to read file")
	}

	h := header.Parse(string(content))
	if err := h.Require("name", "cat", "desc"); err != nil {
		return refdata.IdiomRecord{}, err
	}
	if h.Body == "" {
		return refdata.IdiomRecord{}, errors.New("no code after metadata header")
	}

	return refdata.IdiomRecord{
		Name:      h.Fields["name"],
		Cat:       h.Fields["cat"],
		Desc:      h.Fields["desc"],
		Notes:     h.Fields["notes"],
		Tags:      header.List(h.Fields["tags"]),
		Functions: header.List(h.Fields["functions"]),
		Code:      h.Body,
	}, nil
}
