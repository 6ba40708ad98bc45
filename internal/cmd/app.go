package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/patterns/internal/catalog"
	"github.com/harrison/patterns/internal/config"
	"github.com/harrison/patterns/internal/display"
	"github.com/harrison/patterns/internal/history"
	"github.com/harrison/patterns/internal/languages"
	"github.com/harrison/patterns/internal/logger"
	"github.com/harrison/patterns/internal/readme"
	"github.com/harrison/patterns/internal/resolver"
	"github.com/harrison/patterns/internal/runner"
)

// app holds the collaborators shared by every command once flags and
// configuration have been resolved.
type app struct {
	cfg      *config.Config
	table    *languages.Table
	catalog  catalog.Catalog
	resolver *resolver.Resolver
	runner   runner.Runner
	readme   *readme.Parser

	log    *logger.ConsoleLogger
	out    *display.Printer
	errOut *display.Printer

	store *history.Store
}

// loadConfig reads the config file named by --config (or the default
// location) and applies the persistent flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	var rootPtr, logLevelPtr *string
	var noHistoryPtr *bool
	if cmd.Flags().Changed("root") {
		root, _ := cmd.Flags().GetString("root")
		rootPtr = &root
	}
	if cmd.Flags().Changed("log-level") {
		level, _ := cmd.Flags().GetString("log-level")
		logLevelPtr = &level
	}
	if cmd.Flags().Changed("no-history") {
		noHistory, _ := cmd.Flags().GetBool("no-history")
		noHistoryPtr = &noHistory
	}

	cfg.MergeWithFlags(rootPtr, logLevelPtr, noHistoryPtr)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func newApp(cmd *cobra.Command, opts Options) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	table := languages.Default()
	root := cfg.CatalogRoot()
	log.LogDebug(fmt.Sprintf("catalogue root: %s", root))

	cat := catalog.Open(root, table,
		catalog.WithLogger(log),
		catalog.WithExcludeDirs(cfg.ExcludeDirs...),
	)

	run := opts.Runner
	if run == nil {
		run = runner.NewExecRunner()
	}

	return &app{
		cfg:      cfg,
		table:    table,
		catalog:  cat,
		resolver: resolver.New(cat, table),
		runner:   run,
		readme:   readme.NewParser(),
		log:      log,
		out:      display.NewPrinter(cmd.OutOrStdout()),
		errOut:   display.NewPrinter(cmd.ErrOrStderr()),
	}, nil
}

// historyStore opens the history database on first use.
func (a *app) historyStore() (*history.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	dbPath, err := a.cfg.HistoryDBPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get history database path: %w", err)
	}
	if err := config.CheckOutsideRoot(dbPath, a.catalog.Root()); err != nil {
		return nil, err
	}
	store, err := history.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	a.store = store
	return store, nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
}

// summary returns the one-line README summary of pattern, or "".
func (a *app) summary(pattern string) string {
	data, err := a.catalog.ReadFile(pattern, readme.FileName)
	if err != nil {
		return ""
	}
	return a.readme.Summarize(data).Line()
}

// recordRun stores a finished run in the history database. Failures are
// logged and never affect the run's outcome.
func (a *app) recordRun(ctx context.Context, inv resolver.Invocation, result *runner.Result, runErr error, started time.Time) {
	if !a.cfg.History.Enabled {
		return
	}

	store, err := a.historyStore()
	if err != nil {
		a.log.LogWarn(fmt.Sprintf("history disabled for this run: %v", err))
		return
	}

	run := &history.Run{
		Pattern:   inv.Pattern,
		Language:  inv.Language,
		Variant:   inv.Variant,
		Command:   inv.String(),
		StartedAt: started,
	}
	if result != nil {
		run.ExitCode = result.ExitCode
		run.Duration = result.Duration
	}
	if runErr != nil && errors.Is(runErr, runner.ErrSpawnFailure) {
		run.ExitCode = -1
		run.SpawnError = runErr.Error()
	}

	if err := store.Record(ctx, run); err != nil {
		a.log.LogWarn(fmt.Sprintf("failed to record run: %v", err))
		return
	}
	a.log.LogDebug(fmt.Sprintf("recorded run %s", run.ID))
}

// writeTranscript saves the run's output when transcripts are enabled.
func (a *app) writeTranscript(inv resolver.Invocation, result *runner.Result, runErr error, started time.Time) {
	if !a.cfg.Transcripts.Enabled {
		return
	}

	dir, err := a.cfg.TranscriptDir()
	if err == nil {
		err = config.CheckOutsideRoot(dir, a.catalog.Root())
	}
	if err != nil {
		a.log.LogWarn(fmt.Sprintf("transcript not written: %v", err))
		return
	}

	tl, err := logger.NewTranscriptLogger(dir)
	if err != nil {
		a.log.LogWarn(fmt.Sprintf("transcript not written: %v", err))
		return
	}
	path, err := tl.LogRun(inv, result, runErr, started)
	if err != nil {
		a.log.LogWarn(fmt.Sprintf("transcript not written: %v", err))
		return
	}
	a.log.LogInfo(fmt.Sprintf("transcript written to %s", path))
}
