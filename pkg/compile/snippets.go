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

// Snippets indexes the .strudel and .str files under srcDir. Snippet records
// carry metadata only (@name and @desc required, @tags optional); the code
// stays in the referenced file and is never duplicated into the table.
func Snippets(ctx context.Context, srcDir string) ([]refdata.SnippetRecord, []FileError, error) {
	files, err := sourceFiles(srcDir, "*.{strudel,str}")
	if err != nil {
		return nil, nil, err
	}

	log := logger.G(ctx)
	seen := make(map[string]string)
	var records []refdata.SnippetRecord
	var failures []FileError

	for _, path := range files {
		name := filepath.Base(path)
		rec, err := parseSnippetFile(path)
		if err != nil {
			log.WithField("file", name).WithError(err).Warn("rejecting snippet file")
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

func parseSnippetFile(path string) (refdata.SnippetRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return refdata.SnippetRecord{}, errors.Wrap(err, "failed to read file")
	}

	h := header.Parse(string(content))
	if err := h.Require("name", "desc"); err != nil {
		return refdata.SnippetRecord{}, err
	}

	return refdata.SnippetRecord{
		Name: h.Fields["name"],
		File: filepath.Base(path),
		Desc: h.Fields["desc"],
		Tags: header.List(h.Fields["tags"]),
	}, nil
}
