package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/strudel-skill/strudelref/pkg/catindex"
	"github.com/strudel-skill/strudelref/pkg/presenter"
	"github.com/strudel-skill/strudelref/pkg/refdata"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Derive data/functions-index.jsonl from the functions table",
	Long: `Group the functions table by category and write one record per category
with the sorted list of member function names. The index is a pure
projection of data/functions.jsonl and requires it to already exist.`,
	Run: func(cmd *cobra.Command, _ []string) {
		records, functions, err := catindex.BuildFromTable(dataPath(refdata.FunctionsTable))
		if err != nil {
			presenter.Error(err, "failed to build index")
			os.Exit(1)
		}

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		if err := writeOrDiff(dataPath(refdata.FunctionsIndexTable), records, dryRun); err != nil {
			presenter.Error(err, "failed to write "+refdata.FunctionsIndexTable)
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("%s: %d categories, %d functions",
			refdata.FunctionsIndexTable, len(records), functions))
	},
}

func init() {
	indexCmd.Flags().Bool("dry-run", false, "Print a diff instead of writing the table")
	rootCmd.AddCommand(indexCmd)
}
