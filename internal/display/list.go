package display

import (
	"fmt"
	"strings"
)

// PatternListing is one pattern shown under a language.
type PatternListing struct {
	Name     string
	Summary  string
	Variants []string
}

// LanguageListing is one implemented language and its patterns.
type LanguageListing struct {
	Tag      string
	Patterns []PatternListing
}

// ExampleCommand returns the invocation that runs pattern in language,
// with variant appended when non-empty.
func ExampleCommand(pattern, language, variant string) string {
	cmd := fmt.Sprintf("%s --pattern=%s --language=%s", Program, pattern, language)
	if variant != "" {
		cmd += " --variant=" + variant
	}
	return cmd
}

// List renders the catalogue listing. An empty listing prints
// "No implemented languages found" under the header.
func (p *Printer) List(languages []LanguageListing) {
	fmt.Fprintln(p.out, p.header.Sprint("Implemented languages:"))
	if len(languages) == 0 {
		fmt.Fprintln(p.out, "  No implemented languages found")
		return
	}

	for _, lang := range languages {
		fmt.Fprintf(p.out, "  - %s\n", p.header.Sprint(lang.Tag))
		fmt.Fprintln(p.out, "  Available design patterns:")
		for _, pat := range lang.Patterns {
			fmt.Fprintf(p.out, "  - %s\n", p.accent.Sprint(pat.Name))
			if pat.Summary != "" {
				fmt.Fprintf(p.out, "    %s\n", p.faint.Sprint(pat.Summary))
			}
			fmt.Fprintf(p.out, "    Example: %s\n", ExampleCommand(pat.Name, lang.Tag, ""))
			if len(pat.Variants) > 0 {
				fmt.Fprintf(p.out, "    Variants: %s\n", strings.Join(pat.Variants, ", "))
				fmt.Fprintf(p.out, "    Example with variant: %s\n", ExampleCommand(pat.Name, lang.Tag, pat.Variants[0]))
			}
		}
		fmt.Fprintln(p.out)
	}
}
