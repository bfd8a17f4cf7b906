package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/strudel-skill/strudelref/pkg/catindex"
	"github.com/strudel-skill/strudelref/pkg/compile"
	"github.com/strudel-skill/strudelref/pkg/extract"
	"github.com/strudel-skill/strudelref/pkg/logger"
	"github.com/strudel-skill/strudelref/pkg/presenter"
	"github.com/strudel-skill/strudelref/pkg/refdata"
	"github.com/strudel-skill/strudelref/pkg/rewrites"
)

// GenerateConfig holds configuration for the generate command
type GenerateConfig struct {
	DocsDir      string
	Watch        bool
	DebounceTime int
}

// NewGenerateConfig creates a new GenerateConfig with default values
func NewGenerateConfig() *GenerateConfig {
	return &GenerateConfig{
		DocsDir:      viper.GetString("docs_dir"),
		Watch:        false,
		DebounceTime: 500,
	}
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the full reference-data pipeline",
	Long: `Run every generator in dependency order: extract (when the strudel-docs
checkout is present), the rewrites overlay, the category index, and the
idiom, snippet, and anti-pattern compilers.

With --watch, source directories are monitored and the pipeline re-runs
on changes until interrupted.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		config := getGenerateConfigFromFlags(cmd)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			presenter.Warning("cancellation requested, shutting down")
			cancel()
		}()

		if err := runPipeline(ctx, config); err != nil {
			presenter.Error(err, "pipeline finished with failures")
			if !config.Watch {
				os.Exit(1)
			}
		}

		if config.Watch {
			if err := watchSources(ctx, config); err != nil {
				presenter.Error(err, "watch failed")
				os.Exit(1)
			}
		}
	},
}

func init() {
	defaults := NewGenerateConfig()
	generateCmd.Flags().String("docs-dir", defaults.DocsDir, "Path to the strudel-docs checkout")
	generateCmd.Flags().BoolP("watch", "w", defaults.Watch, "Re-run the pipeline when source files change")
	generateCmd.Flags().IntP("debounce", "d", defaults.DebounceTime, "Debounce time in milliseconds for file change events")
	rootCmd.AddCommand(generateCmd)
}

func getGenerateConfigFromFlags(cmd *cobra.Command) *GenerateConfig {
	config := NewGenerateConfig()
	if docsDir, err := cmd.Flags().GetString("docs-dir"); err == nil && docsDir != "" {
		config.DocsDir = docsDir
	}
	if watch, err := cmd.Flags().GetBool("watch"); err == nil {
		config.Watch = watch
	}
	if debounce, err := cmd.Flags().GetInt("debounce"); err == nil && debounce >= 0 {
		config.DebounceTime = debounce
	}
	return config
}

// runPipeline executes every generator whose sources are present. Failures
// in one generator never corrupt another's output; they are collected and
// reported together at the end.
func runPipeline(ctx context.Context, config *GenerateConfig) error {
	var result *multierror.Error

	if _, err := os.Stat(config.DocsDir); err == nil {
		tables, err := extract.Build(ctx, config.DocsDir)
		if err != nil {
			result = multierror.Append(result, err)
		} else {
			if err := writeExtractTables(tables, false); err != nil {
				result = multierror.Append(result, err)
			} else {
				presenter.Info(fmt.Sprintf("extracted %d functions, %d sound lines, %d tokens",
					len(tables.Functions), len(tables.Sounds), len(tables.Tokens)))
				if tables.Skipped > 0 {
					presenter.Warning(fmt.Sprintf("skipped %d malformed entries", tables.Skipped))
				}
			}
		}
	} else {
		presenter.Warning(fmt.Sprintf("docs root %s not found, skipping extract", config.DocsDir))
	}

	basePath := dataPath(refdata.MiniNotationTable)
	overlayPath := dataPath(refdata.RewritesOverlay)
	if _, err := os.Stat(overlayPath); err == nil {
		merged, count, err := rewrites.Apply(basePath, overlayPath)
		if err != nil {
			result = multierror.Append(result, err)
		} else if err := writeOrDiff(basePath, merged, false); err != nil {
			result = multierror.Append(result, err)
		} else {
			presenter.Info(fmt.Sprintf("merged %d rewrite entries", count))
		}
	} else {
		logger.G(ctx).Debug("no rewrites overlay, skipping merge")
	}

	if records, functions, err := catindex.BuildFromTable(dataPath(refdata.FunctionsTable)); err != nil {
		result = multierror.Append(result, err)
	} else if err := writeOrDiff(dataPath(refdata.FunctionsIndexTable), records, false); err != nil {
		result = multierror.Append(result, err)
	} else {
		presenter.Info(fmt.Sprintf("indexed %d functions into %d categories", functions, len(records)))
	}

	result = multierror.Append(result, compilePipelineTables(ctx)...)

	return result.ErrorOrNil()
}

// compilePipelineTables runs the three compilers for whichever source
// directories exist. A missing source directory is a skip, not a failure;
// the standalone commands are stricter.
func compilePipelineTables(ctx context.Context) []error {
	var errs []error

	report := func(table string, count int, failures []compile.FileError, err error) {
		if err != nil {
			errs = append(errs, err)
			return
		}
		for _, failure := range failures {
			errs = append(errs, failure)
		}
		presenter.Info(fmt.Sprintf("%s: %d records", table, count))
	}

	if srcDir := viper.GetString("idioms_dir"); dirExists(srcDir) {
		records, failures, err := compile.Idioms(ctx, srcDir)
		if err == nil {
			err = writeOrDiff(dataPath(refdata.IdiomsTable), records, false)
		}
		report(refdata.IdiomsTable, len(records), failures, err)
	}

	if srcDir := viper.GetString("snippets_dir"); dirExists(srcDir) {
		records, failures, err := compile.Snippets(ctx, srcDir)
		if err == nil {
			err = writeOrDiff(dataPath(refdata.SnippetsTable), records, false)
		}
		report(refdata.SnippetsTable, len(records), failures, err)
	}

	if srcDir := viper.GetString("anti_patterns_dir"); dirExists(srcDir) {
		records, failures, err := compile.AntiPatterns(ctx, srcDir)
		if err == nil {
			err = writeOrDiff(dataPath(refdata.AntiPatternsTable), records, false)
		}
		report(refdata.AntiPatternsTable, len(records), failures, err)
	}

	return errs
}

func dirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

// isSourceEvent filters watcher events down to author-written sources, so
// the pipeline's own table writes never re-trigger it.
func isSourceEvent(path string) bool {
	switch filepath.Ext(path) {
	case ".strudel", ".str", ".yaml", ".yml":
		return true
	}
	return filepath.Base(path) == refdata.RewritesOverlay
}

func watchSources(ctx context.Context, config *GenerateConfig) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := 0
	for _, dir := range []string{
		viper.GetString("idioms_dir"),
		viper.GetString("snippets_dir"),
		viper.GetString("anti_patterns_dir"),
		viper.GetString("data_dir"), // the rewrites overlay lives here
	} {
		if !dirExists(dir) {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return err
		}
		watched++
	}
	if watched == 0 {
		return fmt.Errorf("no source directories to watch")
	}

	presenter.Info(fmt.Sprintf("watching %d source directories, Ctrl-C to stop", watched))

	debounce := time.Duration(config.DebounceTime) * time.Millisecond
	var timer *time.Timer
	rerun := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isSourceEvent(event.Name) {
				continue
			}
			logger.G(ctx).WithField("file", event.Name).WithField("op", event.Op.String()).Debug("source change detected")
			if timer == nil {
				timer = time.AfterFunc(debounce, func() { rerun <- struct{}{} })
			} else {
				timer.Reset(debounce)
			}
		case <-rerun:
			presenter.Separator()
			if err := runPipeline(ctx, config); err != nil {
				presenter.Error(err, "pipeline finished with failures")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.G(ctx).WithError(err).Warn("watcher error")
		case <-ctx.Done():
			return nil
		}
	}
}
