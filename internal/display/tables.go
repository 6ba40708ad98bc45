package display

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/harrison/patterns/internal/history"
	"github.com/harrison/patterns/internal/logger"
)

// LanguageRow is one entry of the languages table.
type LanguageRow struct {
	Tag         string
	Launcher    string
	Extension   string
	Implemented bool
}

// Languages renders the launcher table, marking tags present in the catalogue.
func (p *Printer) Languages(rows []LanguageRow) {
	tw := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TAG\tLAUNCHER\tEXT\tIMPLEMENTED")
	for _, r := range rows {
		mark := "-"
		if r.Implemented {
			mark = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Tag, r.Launcher, r.Extension, mark)
	}
	tw.Flush()
}

// Implementation is one language implementation of a described pattern.
type Implementation struct {
	Language string
	Launcher string
	Variants []string
}

// Description is everything `describe` shows about a pattern.
type Description struct {
	Pattern         string
	Title           string
	Summary         string
	Implementations []Implementation
}

// Describe renders a pattern description.
func (p *Printer) Describe(d Description) {
	title := d.Title
	if title == "" {
		title = d.Pattern
	}
	fmt.Fprintln(p.out, p.header.Sprint(title))
	if d.Summary != "" {
		fmt.Fprintf(p.out, "  %s\n", d.Summary)
	}
	fmt.Fprintln(p.out)

	if len(d.Implementations) == 0 {
		fmt.Fprintln(p.out, "  No implementations found")
		return
	}

	fmt.Fprintln(p.out, "Implementations:")
	for _, impl := range d.Implementations {
		fmt.Fprintf(p.out, "  - %s (%s)\n", p.accent.Sprint(impl.Language), impl.Launcher)
		if len(impl.Variants) > 0 {
			fmt.Fprintf(p.out, "    Variants: %s\n", strings.Join(impl.Variants, ", "))
		}
		fmt.Fprintf(p.out, "    Example: %s\n", ExampleCommand(d.Pattern, impl.Language, ""))
	}
}

// History renders recorded runs, newest first.
func (p *Printer) History(runs []*history.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(p.out, "No runs recorded")
		return
	}

	tw := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tPATTERN\tLANGUAGE\tVARIANT\tEXIT\tDURATION")
	for _, r := range runs {
		variant := r.Variant
		if variant == "" {
			variant = "-"
		}
		exit := fmt.Sprintf("%d", r.ExitCode)
		if r.SpawnError != "" {
			exit = "spawn"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.StartedAt.Local().Format(time.DateTime),
			r.Pattern,
			r.Language,
			variant,
			exit,
			logger.FormatDuration(r.Duration),
		)
	}
	tw.Flush()
}

// Stats renders per pattern/language aggregates.
func (p *Printer) Stats(stats []history.Stat) {
	if len(stats) == 0 {
		return
	}
	tw := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PATTERN\tLANGUAGE\tRUNS\tFAILURES")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", s.Pattern, s.Language, s.Runs, s.Failures)
	}
	tw.Flush()
}
