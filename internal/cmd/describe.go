package cmd

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/harrison/patterns/internal/display"
	"github.com/harrison/patterns/internal/readme"
	"github.com/harrison/patterns/internal/resolver"
)

// NewDescribeCommand creates the describe command
func NewDescribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <pattern>",
		Short: "Show a pattern's README summary and implementations",
		Long: `Describe prints the title and lead paragraph of the pattern's README.md,
followed by every language that implements it, its launcher and variants.

Examples:
  patterns describe builder
  patterns describe observer --root ./examples`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, Options{})
			if err != nil {
				return err
			}
			defer a.close()
			return runDescribe(a, args[0])
		},
	}
}

func runDescribe(a *app, pattern string) error {
	if !slices.Contains(a.catalog.Patterns(), pattern) {
		a.errOut.Error(&resolver.ValidationError{Kind: resolver.ErrUnknownPattern, Pattern: pattern})
		return &ExitError{Code: 1}
	}

	desc := display.Description{Pattern: pattern}
	if data, err := a.catalog.ReadFile(pattern, readme.FileName); err == nil {
		summary := a.readme.Summarize(data)
		desc.Title = summary.Title
		desc.Summary = summary.Description
	}

	for _, lang := range a.table.All() {
		if !a.catalog.Exists(pattern, lang.Tag) {
			continue
		}
		desc.Implementations = append(desc.Implementations, display.Implementation{
			Language: lang.Tag,
			Launcher: lang.Launcher,
			Variants: a.catalog.Variants(pattern, lang.Tag),
		})
	}

	a.out.Describe(desc)
	return nil
}
