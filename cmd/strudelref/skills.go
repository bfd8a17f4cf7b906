package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/strudel-skill/strudelref/pkg/presenter"
	"github.com/strudel-skill/strudelref/pkg/skills"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Inspect the workspace's skill files",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var skillsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List skills found under the skills directory",
	Run: func(_ *cobra.Command, _ []string) {
		found, err := skills.Discover(viper.GetString("skills_dir"))
		if err != nil {
			presenter.Error(err, "failed to discover skills")
			os.Exit(1)
		}
		if len(found) == 0 {
			presenter.Info("no skills found")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDESCRIPTION\tPATH")
		for _, skill := range found {
			fmt.Fprintln(w, skill.Summary())
		}
		w.Flush()
	},
}

var skillsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate skill frontmatter and data-table references",
	Long: `Check that every SKILL.md has name and description frontmatter, that
skill names are unique, and that every data/*.jsonl table a skill body
mentions exists in the workspace.`,
	Run: func(_ *cobra.Command, _ []string) {
		workspaceRoot := filepath.Dir(viper.GetString("data_dir"))
		found, err := skills.Validate(viper.GetString("skills_dir"), workspaceRoot)
		if err != nil {
			presenter.Error(err, "skill validation failed")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("%d skills valid", len(found)))
	},
}

func init() {
	skillsCmd.AddCommand(skillsListCmd)
	skillsCmd.AddCommand(skillsValidateCmd)
	rootCmd.AddCommand(skillsCmd)
}
