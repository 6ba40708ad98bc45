// Package display renders the user-facing output of the patterns CLI.
//
// Diagnostics go through internal/logger; everything a user asked to see
// (the catalogue listing, describe and languages tables, run history,
// error lines) is formatted here.
//
// # Listing
//
//	p := display.NewPrinter(os.Stdout)
//	p.List([]display.LanguageListing{{
//	    Tag: "ts",
//	    Patterns: []display.PatternListing{{Name: "builder", Variants: []string{"functional"}}},
//	}})
//
// # Colour
//
// Headers and errors are coloured with fatih/color only when the writer is a
// terminal (see logger.IsTerminal). Output captured by tests or pipes is plain.
package display
