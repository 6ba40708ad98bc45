package resolver

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for request validation. Match them with errors.Is.
var (
	ErrUnknownPattern         = errors.New("pattern not found")
	ErrLanguageNotImplemented = errors.New("language not implemented for pattern")
	ErrUnsupportedLanguage    = errors.New("unsupported language")
	ErrVariantNotFound        = errors.New("variant not found")
)

// ValidationError describes a rejected pattern/language/variant request.
type ValidationError struct {
	Kind     error
	Pattern  string
	Language string
	Variant  string

	// Available holds the valid variants when Kind is ErrVariantNotFound.
	Available []string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case ErrUnknownPattern:
		return fmt.Sprintf("Pattern '%s' not found. Use --list to see available patterns.", e.Pattern)
	case ErrLanguageNotImplemented:
		return fmt.Sprintf("Language '%s' not implemented for pattern '%s'. Use --list to see available options.", e.Language, e.Pattern)
	case ErrUnsupportedLanguage:
		return fmt.Sprintf("No executable found for language: %s", e.Language)
	case ErrVariantNotFound:
		msg := fmt.Sprintf("Variant '%s' not found for pattern '%s' in language '%s'", e.Variant, e.Pattern, e.Language)
		if e.Available == nil {
			return msg
		}
		available := "none"
		if len(e.Available) > 0 {
			available = strings.Join(e.Available, ", ")
		}
		return fmt.Sprintf("%s. Available variants: %s", msg, available)
	default:
		return fmt.Sprintf("invalid request %s/%s: %v", e.Pattern, e.Language, e.Kind)
	}
}

// Unwrap exposes the sentinel so errors.Is works on ValidationError.
func (e *ValidationError) Unwrap() error {
	return e.Kind
}
