// Package resolver turns a pattern/language/variant request into the command
// line that runs the matching example.
package resolver

import (
	"slices"
	"strings"

	"github.com/harrison/patterns/internal/catalog"
	"github.com/harrison/patterns/internal/languages"
)

// Invocation is the executable and target path resolved for one request.
type Invocation struct {
	Pattern  string
	Language string
	Variant  string

	// Executable is the launcher token from the language table.
	Executable string

	// Path is the directory handed to the launcher.
	Path string
}

// String returns the command line as shown to the user.
func (inv Invocation) String() string {
	return inv.Executable + " " + inv.Path
}

// Args returns the argv for the invocation. The launcher token is split on
// whitespace and the path is appended as a single argument, unescaped.
func (inv Invocation) Args() []string {
	args := strings.Fields(inv.Executable)
	return append(args, inv.Path)
}

// Resolver validates requests against a catalogue and a language table.
// It holds no mutable state; Resolve can be called repeatedly.
type Resolver struct {
	catalog catalog.Catalog
	table   *languages.Table
}

// New creates a Resolver.
func New(c catalog.Catalog, table *languages.Table) *Resolver {
	return &Resolver{
		catalog: c,
		table:   table,
	}
}

// Resolve builds the invocation for pattern/language, and variant when it is
// not empty. The variant directory must exist; the pattern/language directory
// is checked by Validate, not here.
func (r *Resolver) Resolve(pattern, language, variant string) (Invocation, error) {
	lang, ok := r.table.Lookup(language)
	if !ok {
		return Invocation{}, &ValidationError{
			Kind:     ErrUnsupportedLanguage,
			Pattern:  pattern,
			Language: language,
			Variant:  variant,
		}
	}

	inv := Invocation{
		Pattern:    pattern,
		Language:   language,
		Variant:    variant,
		Executable: lang.Launcher,
	}

	if variant == "" {
		inv.Path = r.catalog.Path(pattern, language)
		return inv, nil
	}

	if !r.catalog.Exists(pattern, language, variant) {
		return Invocation{}, &ValidationError{
			Kind:     ErrVariantNotFound,
			Pattern:  pattern,
			Language: language,
			Variant:  variant,
		}
	}

	inv.Path = r.catalog.Path(pattern, language, variant)
	return inv, nil
}

// Validate checks a run request in order and stops at the first failure:
// the pattern must be listed, the pattern/language directory must exist and
// the variant, when given, must be one of the listed variants.
func (r *Resolver) Validate(pattern, language, variant string) error {
	if !slices.Contains(r.catalog.Patterns(), pattern) {
		return &ValidationError{Kind: ErrUnknownPattern, Pattern: pattern, Language: language, Variant: variant}
	}

	if !r.catalog.Exists(pattern, language) {
		return &ValidationError{Kind: ErrLanguageNotImplemented, Pattern: pattern, Language: language, Variant: variant}
	}

	if variant != "" {
		variants := r.catalog.Variants(pattern, language)
		if !slices.Contains(variants, variant) {
			return &ValidationError{
				Kind:      ErrVariantNotFound,
				Pattern:   pattern,
				Language:  language,
				Variant:   variant,
				Available: variants,
			}
		}
	}

	return nil
}

// ValidateAndResolve runs Validate then Resolve.
func (r *Resolver) ValidateAndResolve(pattern, language, variant string) (Invocation, error) {
	if err := r.Validate(pattern, language, variant); err != nil {
		return Invocation{}, err
	}
	return r.Resolve(pattern, language, variant)
}
