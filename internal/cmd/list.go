package cmd

import (
	"github.com/harrison/patterns/internal/display"
)

// runList prints every language with at least one implementation and the
// patterns available in it. It never fails.
func runList(a *app) error {
	a.out.List(buildListing(a))
	return nil
}

func buildListing(a *app) []display.LanguageListing {
	patterns := a.catalog.Patterns()
	summaries := make(map[string]string, len(patterns))

	var listing []display.LanguageListing
	for _, tag := range a.table.Tags() {
		if !hasAnyImplementation(a, patterns, tag) {
			continue
		}

		lang := display.LanguageListing{Tag: tag}
		for _, pattern := range patterns {
			if !a.catalog.Exists(pattern, tag) {
				continue
			}
			summary, ok := summaries[pattern]
			if !ok {
				summary = a.summary(pattern)
				summaries[pattern] = summary
			}
			lang.Patterns = append(lang.Patterns, display.PatternListing{
				Name:     pattern,
				Summary:  summary,
				Variants: a.catalog.Variants(pattern, tag),
			})
		}
		listing = append(listing, lang)
	}
	return listing
}

func hasAnyImplementation(a *app, patterns []string, tag string) bool {
	for _, pattern := range patterns {
		if a.catalog.HasImplementation(pattern, tag) {
			return true
		}
	}
	return false
}
