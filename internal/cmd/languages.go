package cmd

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/harrison/patterns/internal/display"
)

// NewLanguagesCommand creates the languages command
func NewLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "Show the language launcher table",
		Long: `Languages prints every supported language tag with its launcher and
entry file extension, and marks the tags implemented in the catalogue.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, Options{})
			if err != nil {
				return err
			}
			defer a.close()
			return runLanguages(a)
		},
	}
}

func runLanguages(a *app) error {
	implemented := a.catalog.Languages()

	rows := make([]display.LanguageRow, 0, a.table.Len())
	for _, lang := range a.table.All() {
		rows = append(rows, display.LanguageRow{
			Tag:         lang.Tag,
			Launcher:    lang.Launcher,
			Extension:   lang.Extension,
			Implemented: slices.Contains(implemented, lang.Tag),
		})
	}

	a.out.Languages(rows)
	return nil
}
