// Package catindex derives the functions-index table: a lossless grouping of
// the functions table by category, holding only category names and their
// sorted member function names. The index is a pure projection: it is
// regenerated wholesale from the functions table and never hand-edited.
package catindex

import (
	"os"
	"sort"

	"github.com/pkg/errors"

	"github.com/strudel-skill/strudelref/pkg/jsonl"
	"github.com/strudel-skill/strudelref/pkg/refdata"
)

// Build groups function records by category. Categories and names are
// sorted, so the output is deterministic regardless of input order.
func Build(functions []refdata.FunctionRecord) []refdata.CategoryIndexRecord {
	byCat := make(map[string][]string)
	for _, fn := range functions {
		if fn.Name == "" || fn.Cat == "" {
			continue
		}
		byCat[fn.Cat] = append(byCat[fn.Cat], fn.Name)
	}

	cats := make([]string, 0, len(byCat))
	for cat := range byCat {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	records := make([]refdata.CategoryIndexRecord, 0, len(cats))
	for _, cat := range cats {
		names := byCat[cat]
		sort.Strings(names)
		records = append(records, refdata.CategoryIndexRecord{Cat: cat, Names: names})
	}
	return records
}

// BuildFromTable reads the functions table at path and builds the index.
// It fails fast when the base table does not exist rather than silently
// producing an empty index.
func BuildFromTable(path string) ([]refdata.CategoryIndexRecord, int, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, 0, errors.Errorf("no functions table at %s; run `strudelref extract` first", path)
		}
		return nil, 0, errors.Wrapf(err, "failed to stat %s", path)
	}
	functions, err := jsonl.ReadTable[refdata.FunctionRecord](path)
	if err != nil {
		return nil, 0, err
	}
	return Build(functions), len(functions), nil
}
