package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/strudel-skill/strudelref/pkg/presenter"
	"github.com/strudel-skill/strudelref/pkg/refdata"
	"github.com/strudel-skill/strudelref/pkg/rewrites"
)

var rewritesCmd = &cobra.Command{
	Use:   "rewrites",
	Short: "Merge the hand-authored rewrite hints into the mini-notation table",
	Long: `Merge data/mini-notation-rewrites.json into data/mini-notation.jsonl.

Each overlay entry replaces the rewrites list on the matching token record
and leaves every other field untouched, so the merge is idempotent. An
overlay token missing from the base table is a fatal error and the base
file is left unmodified.`,
	Run: func(cmd *cobra.Command, _ []string) {
		basePath := dataPath(refdata.MiniNotationTable)
		merged, count, err := rewrites.Apply(basePath, dataPath(refdata.RewritesOverlay))
		if err != nil {
			presenter.Error(err, "merge failed")
			os.Exit(1)
		}

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		if err := writeOrDiff(basePath, merged, dryRun); err != nil {
			presenter.Error(err, "failed to write "+refdata.MiniNotationTable)
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("merged %d rewrite entries into %s", count, basePath))
	},
}

func init() {
	rewritesCmd.Flags().Bool("dry-run", false, "Print a diff instead of writing the table")
	rootCmd.AddCommand(rewritesCmd)
}
