package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/strudel-skill/strudelref/pkg/logger"
	"github.com/strudel-skill/strudelref/pkg/presenter"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("STRUDELREF")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.strudelref")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()

	// Workspace layout defaults. The docs root points at a strudel-docs
	// checkout next to this repository.
	viper.SetDefault("docs_dir", "../strudel-docs")
	viper.SetDefault("data_dir", "data")
	viper.SetDefault("idioms_dir", "data/idioms")
	viper.SetDefault("anti_patterns_dir", "data/anti-patterns")
	viper.SetDefault("snippets_dir", "snippets")
	viper.SetDefault("skills_dir", "skills")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")
}

var rootCmd = &cobra.Command{
	Use:   "strudelref",
	Short: "Maintain the Strudel skill's reference data tables",
	Long: `strudelref rebuilds the line-delimited JSON reference tables under data/
that the Strudel coding skill greps at invocation time.

Each generator is an independent, idempotent batch command: it reads its
sources, builds the full table in memory, and atomically replaces the output
file. Regeneration is cheap, so the fix for any error is always to correct
the source and re-run.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			presenter.Warning(fmt.Sprintf("invalid log level %q, using info", viper.GetString("log_level")))
		}
		logger.SetLogFormat(viper.GetString("log_format"))
		presenter.SetQuiet(viper.GetBool("quiet"))
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
		os.Exit(1)
	},
}

func main() {
	rootCmd.PersistentFlags().String("data-dir", viper.GetString("data_dir"), "Directory holding the generated tables")
	rootCmd.PersistentFlags().String("log-level", viper.GetString("log_level"), "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", viper.GetString("log_format"), "Log format (text or json)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-error output")

	viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
