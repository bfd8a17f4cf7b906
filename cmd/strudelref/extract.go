package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/strudel-skill/strudelref/pkg/extract"
	"github.com/strudel-skill/strudelref/pkg/presenter"
	"github.com/strudel-skill/strudelref/pkg/refdata"
)

// ExtractConfig holds configuration for the extract command
type ExtractConfig struct {
	DocsDir string
	DryRun  bool
}

// NewExtractConfig creates a new ExtractConfig with default values
func NewExtractConfig() *ExtractConfig {
	return &ExtractConfig{
		DocsDir: viper.GetString("docs_dir"),
		DryRun:  false,
	}
}

var extractCmd = &cobra.Command{
	Use:   "extract [docs-dir]",
	Short: "Rebuild the functions, sounds, and mini-notation tables from strudel-docs",
	Long: `Read a strudel-docs checkout and atomically rewrite data/functions.jsonl,
data/sounds.jsonl, and data/mini-notation.jsonl.

Individual malformed entries are skipped and tallied; a missing docs root is
a fatal error and produces no output. Re-running against unchanged docs
yields byte-identical tables.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getExtractConfigFromFlags(cmd, args)

		tables, err := extract.Build(cmd.Context(), config.DocsDir)
		if err != nil {
			presenter.Error(err, "extraction failed")
			os.Exit(1)
		}

		if err := writeExtractTables(tables, config.DryRun); err != nil {
			presenter.Error(err, "failed to write tables")
			os.Exit(1)
		}

		presenter.Success(fmt.Sprintf("%s: %d functions", refdata.FunctionsTable, len(tables.Functions)))
		presenter.Success(fmt.Sprintf("%s: %d lines", refdata.SoundsTable, len(tables.Sounds)))
		presenter.Success(fmt.Sprintf("%s: %d tokens", refdata.MiniNotationTable, len(tables.Tokens)))
		if tables.Skipped > 0 {
			presenter.Warning(fmt.Sprintf("skipped %d malformed entries", tables.Skipped))
		}
	},
}

func init() {
	defaults := NewExtractConfig()
	extractCmd.Flags().Bool("dry-run", defaults.DryRun, "Print a diff instead of writing the tables")
	rootCmd.AddCommand(extractCmd)
}

func getExtractConfigFromFlags(cmd *cobra.Command, args []string) *ExtractConfig {
	config := NewExtractConfig()
	if len(args) > 0 {
		config.DocsDir = args[0]
	}
	if dryRun, err := cmd.Flags().GetBool("dry-run"); err == nil {
		config.DryRun = dryRun
	}
	return config
}

func writeExtractTables(tables *extract.Tables, dryRun bool) error {
	if err := writeOrDiff(dataPath(refdata.FunctionsTable), tables.Functions, dryRun); err != nil {
		return err
	}
	if err := writeOrDiff(dataPath(refdata.SoundsTable), tables.Sounds, dryRun); err != nil {
		return err
	}
	return writeOrDiff(dataPath(refdata.MiniNotationTable), tables.Tokens, dryRun)
}
