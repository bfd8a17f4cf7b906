package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/strudel-skill/strudelref/pkg/presenter"
	"github.com/strudel-skill/strudelref/pkg/semantic"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the semantic map against the generated tables",
	Long: `Cross-check every reference the hand-authored data/semantic-map.jsonl
makes (categories, functions, idioms, sounds, anti-patterns) against the
generated tables. All violations are reported at once.`,
	Run: func(_ *cobra.Command, _ []string) {
		entries, err := semantic.Check(viper.GetString("data_dir"))
		if err != nil {
			presenter.Error(err, "semantic map check failed")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("semantic map: %d entries, all references resolve", entries))
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
