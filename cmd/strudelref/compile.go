package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/strudel-skill/strudelref/pkg/compile"
	"github.com/strudel-skill/strudelref/pkg/presenter"
	"github.com/strudel-skill/strudelref/pkg/refdata"
)

var idiomsCmd = &cobra.Command{
	Use:   "idioms [src-dir]",
	Short: "Compile idiom source files into data/idioms.jsonl",
	Long: `Compile the .strudel files under the idioms source directory into
data/idioms.jsonl. Each file carries a // @key: value metadata header
(@name, @cat, and @desc required) followed by the code body.

Files with missing required fields are rejected individually and reported;
the remaining files still compile, and the run exits non-zero. A duplicate
@name across files aborts the whole run without writing the table.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		srcDir := viper.GetString("idioms_dir")
		if len(args) > 0 {
			srcDir = args[0]
		}
		records, failures, err := compile.Idioms(cmd.Context(), srcDir)
		if err != nil {
			presenter.Error(err, "failed to compile idioms")
			os.Exit(1)
		}
		finishCompile(cmd, refdata.IdiomsTable, records, failures,
			fmt.Sprintf("%d idioms", len(records)))
	},
}

var snippetsCmd = &cobra.Command{
	Use:   "snippets [src-dir]",
	Short: "Index snippet source files into data/snippets.jsonl",
	Long: `Index the .strudel and .str files under the snippets directory into
data/snippets.jsonl. Snippet records carry metadata only (@name and @desc
required); the code stays in the referenced file.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		srcDir := viper.GetString("snippets_dir")
		if len(args) > 0 {
			srcDir = args[0]
		}
		records, failures, err := compile.Snippets(cmd.Context(), srcDir)
		if err != nil {
			presenter.Error(err, "failed to index snippets")
			os.Exit(1)
		}
		finishCompile(cmd, refdata.SnippetsTable, records, failures,
			fmt.Sprintf("%d snippets", len(records)))
	},
}

var antiPatternsCmd = &cobra.Command{
	Use:   "antipatterns [src-dir]",
	Short: "Compile anti-pattern YAML files into data/anti-patterns.jsonl",
	Long: `Compile the .yaml files under the anti-patterns source directory into
data/anti-patterns.jsonl. Each document requires bad, why, and good fields;
the record id is the filename minus its extension.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		srcDir := viper.GetString("anti_patterns_dir")
		if len(args) > 0 {
			srcDir = args[0]
		}
		records, failures, err := compile.AntiPatterns(cmd.Context(), srcDir)
		if err != nil {
			presenter.Error(err, "failed to compile anti-patterns")
			os.Exit(1)
		}
		finishCompile(cmd, refdata.AntiPatternsTable, records, failures,
			fmt.Sprintf("%d anti-patterns", len(records)))
	},
}

func init() {
	for _, cmd := range []*cobra.Command{idiomsCmd, snippetsCmd, antiPatternsCmd} {
		cmd.Flags().Bool("dry-run", false, "Print a diff instead of writing the table")
		rootCmd.AddCommand(cmd)
	}
}

// finishCompile writes the table (valid records compile even when some files
// were rejected), reports per-file failures to stderr, and exits non-zero
// when any file failed.
func finishCompile[T any](cmd *cobra.Command, table string, records []T, failures []compile.FileError, summary string) {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if err := writeOrDiff(dataPath(table), records, dryRun); err != nil {
		presenter.Error(err, "failed to write "+table)
		os.Exit(1)
	}
	for _, failure := range failures {
		presenter.Error(failure.Err, failure.File)
	}
	presenter.Success(fmt.Sprintf("%s: %s", table, summary))
	if len(failures) > 0 {
		os.Exit(1)
	}
}
