package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/strudel-skill/strudelref/pkg/jsonl"
	"github.com/strudel-skill/strudelref/pkg/presenter"
)

func dataPath(table string) string {
	return filepath.Join(viper.GetString("data_dir"), table)
}

// writeOrDiff swaps the table in atomically, or in dry-run mode prints a
// unified diff against the current file and leaves it untouched.
func writeOrDiff[T any](path string, records []T, dryRun bool) error {
	if !dryRun {
		return jsonl.WriteTable(path, records)
	}

	data, err := jsonl.MarshalTable(records)
	if err != nil {
		return err
	}
	diff, err := jsonl.Diff(path, data)
	if err != nil {
		return err
	}
	if diff == "" {
		presenter.Info(fmt.Sprintf("%s: no changes", path))
	} else {
		fmt.Print(diff)
	}
	return nil
}
