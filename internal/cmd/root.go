package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/patterns/internal/runner"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// ExitError carries a process exit status to main. The message has already
// been printed when ExitError is returned.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Options replaces collaborators of the command tree. Zero fields use the
// production implementations.
type Options struct {
	Runner runner.Runner
}

// NewRootCommand creates and returns the root cobra command for patterns
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithOptions(Options{})
}

// NewRootCommandWithOptions builds the command tree with injected collaborators.
func NewRootCommandWithOptions(opts Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Browse and run design pattern examples",
		Long: `Patterns lists the design pattern examples in a catalogue directory and
runs a chosen example with the launcher for its language.

The catalogue is laid out as <root>/<pattern>/<language>/index.<ext>, with
optional variants in <root>/<pattern>/<language>/<variant>/.

Configuration is loaded from .patterns/config.yaml if present.
CLI flags override configuration file settings.

Examples:
  # List implemented languages and patterns
  patterns --list

  # Run the TypeScript builder example
  patterns --pattern=builder --language=ts

  # Run a variant
  patterns --pattern=builder --language=ts --variant=functional`,
		Version: Version,
		Args:    cobra.NoArgs,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, opts)
		},
	}

	cmd.Flags().String("pattern", "", "Design pattern to run")
	cmd.Flags().String("language", "", "Language of the implementation to run")
	cmd.Flags().String("variant", "", "Variant of the implementation (optional)")
	cmd.Flags().Bool("list", false, "List all available patterns and languages")

	cmd.PersistentFlags().String("root", "", "Catalogue root directory (default: ./src if present, else .)")
	cmd.PersistentFlags().String("config", "", "Path to config file (default: .patterns/config.yaml)")
	cmd.PersistentFlags().String("log-level", "", "Diagnostics level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("no-history", false, "Do not record this run in the history database")

	cmd.AddCommand(NewHistoryCommand())
	cmd.AddCommand(NewDescribeCommand())
	cmd.AddCommand(NewLanguagesCommand())

	return cmd
}

// dispatch picks list, run or fallback mode from the mode flags.
func dispatch(cmd *cobra.Command, opts Options) error {
	pattern, _ := cmd.Flags().GetString("pattern")
	language, _ := cmd.Flags().GetString("language")
	variant, _ := cmd.Flags().GetString("variant")
	list, _ := cmd.Flags().GetBool("list")

	anyModeFlag := false
	for _, name := range []string{"pattern", "language", "variant", "list"} {
		if cmd.Flags().Changed(name) {
			anyModeFlag = true
			break
		}
	}

	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.close()

	switch {
	case list || !anyModeFlag:
		return runList(a)
	case pattern != "" && language != "":
		return runExample(cmd.Context(), a, pattern, language, variant)
	default:
		fmt.Fprintln(cmd.ErrOrStderr(), "Both pattern and language must be specified.")
		fmt.Fprintln(cmd.OutOrStdout(), "Use --list to see available patterns and languages.")
		return nil
	}
}
