package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/harrison/patterns/internal/filelock"
	"github.com/harrison/patterns/internal/history"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	var limit int
	var pattern string
	var language string
	var asJSON bool
	var stats bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently executed examples",
		Long: `History lists the examples run from this directory, newest first.

Runs are recorded in $PATTERNS_HOME/history.db (default: the user cache
directory, e.g. ~/.cache/patterns/history.db) unless history is disabled in
the config or with --no-history. The database is never placed inside the
catalogue root.

Examples:
  patterns history
  patterns history --pattern builder --limit 5
  patterns history --stats
  patterns history --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, Options{})
			if err != nil {
				return err
			}
			defer a.close()

			filter := history.Filter{Pattern: pattern, Language: language, Limit: limit}
			return runHistory(cmd, a, filter, asJSON, stats)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show (0 = all)")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Only show runs of this pattern")
	cmd.Flags().StringVar(&language, "language", "", "Only show runs in this language")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print runs as JSON")
	cmd.Flags().BoolVar(&stats, "stats", false, "Print run and failure counts per pattern and language")

	cmd.AddCommand(newHistoryExportCommand())

	return cmd
}

func runHistory(cmd *cobra.Command, a *app, filter history.Filter, asJSON, stats bool) error {
	if filter.Limit < 0 {
		return fmt.Errorf("invalid limit %d: must be >= 0", filter.Limit)
	}

	store, err := a.historyStore()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if stats {
		st, err := store.Stats(ctx)
		if err != nil {
			return fmt.Errorf("failed to compute statistics: %w", err)
		}
		if len(st) == 0 {
			a.out.Println("No runs recorded")
			return nil
		}
		a.out.Stats(st)
		return nil
	}

	runs, err := store.Recent(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}

	if asJSON {
		if runs == nil {
			runs = make([]*history.Run, 0)
		}
		encoder := json.NewEncoder(a.out.Writer())
		encoder.SetIndent("", "  ")
		return encoder.Encode(runs)
	}

	a.out.History(runs)
	return nil
}

func newHistoryExportCommand() *cobra.Command {
	var format string
	var output string
	var pattern string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export run history to JSON or YAML",
		Long: `Export writes every recorded run to a file. The file is replaced
atomically while holding <output>.lock, so concurrent exports never
interleave.

Examples:
  patterns history export --output runs.json
  patterns history export --output runs.yaml --format yaml --pattern builder

Supported formats:
  - json: JSON array of runs
  - yaml: YAML sequence of runs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("invalid format '%s': format must be 'json' or 'yaml'", format)
			}
			if output == "" {
				return fmt.Errorf("--output is required")
			}

			a, err := newApp(cmd, Options{})
			if err != nil {
				return err
			}
			defer a.close()

			store, err := a.historyStore()
			if err != nil {
				return err
			}
			runs, err := store.Recent(cmd.Context(), history.Filter{Pattern: pattern})
			if err != nil {
				return fmt.Errorf("failed to retrieve runs: %w", err)
			}
			if runs == nil {
				runs = make([]*history.Run, 0)
			}

			data, err := encodeRuns(runs, format)
			if err != nil {
				return err
			}
			if err := filelock.WriteLocked(output, data, 0644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}

			a.out.Printf("Exported %d run(s) to %s\n", len(runs), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Export format (json|yaml)")
	cmd.Flags().StringVar(&output, "output", "", "Output file path")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Only export runs of this pattern")

	return cmd
}

func encodeRuns(runs []*history.Run, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode JSON: %w", err)
		}
		return append(data, '\n'), nil
	case "yaml":
		data, err := yaml.Marshal(runs)
		if err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
