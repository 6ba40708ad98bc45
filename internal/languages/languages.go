// Package languages holds the static mapping from language tags to the
// launcher used to run an example and the extension of its entry file.
package languages

import (
	"fmt"
	"strings"
)

// Language describes how examples written in one language are launched.
type Language struct {
	// Tag is the directory name used for the language inside a pattern (e.g. "ts").
	Tag string

	// Launcher is the executable token prepended to the target path.
	// It may contain several whitespace-separated words ("cargo run --release").
	Launcher string

	// Extension is the entry file extension without the leading dot.
	Extension string
}

// EntryFile returns the conventional entry file name for the language.
func (l Language) EntryFile() string {
	return "index." + l.Extension
}

// LauncherArgs splits the launcher token into the executable and its leading arguments.
func (l Language) LauncherArgs() []string {
	return strings.Fields(l.Launcher)
}

// Table is an immutable, ordered set of languages keyed by tag.
// The zero value is an empty table.
type Table struct {
	order []string
	byTag map[string]Language
}

// NewTable builds a table from the given languages, preserving their order.
// Duplicate or empty tags and empty launchers are rejected.
func NewTable(langs ...Language) (*Table, error) {
	t := &Table{
		order: make([]string, 0, len(langs)),
		byTag: make(map[string]Language, len(langs)),
	}

	for _, lang := range langs {
		if lang.Tag == "" {
			return nil, fmt.Errorf("language tag cannot be empty")
		}
		if strings.TrimSpace(lang.Launcher) == "" {
			return nil, fmt.Errorf("language %q has no launcher", lang.Tag)
		}
		if _, exists := t.byTag[lang.Tag]; exists {
			return nil, fmt.Errorf("duplicate language tag %q", lang.Tag)
		}
		t.order = append(t.order, lang.Tag)
		t.byTag[lang.Tag] = lang
	}

	return t, nil
}

// Default returns the built-in language table.
func Default() *Table {
	t, err := NewTable(
		Language{Tag: "ts", Launcher: "ts-node", Extension: "ts"},
		Language{Tag: "js", Launcher: "node", Extension: "js"},
		Language{Tag: "py", Launcher: "python3", Extension: "py"},
		Language{Tag: "java", Launcher: "java", Extension: "java"},
		Language{Tag: "go", Launcher: "go", Extension: "go"},
		Language{Tag: "rb", Launcher: "ruby", Extension: "rb"},
		Language{Tag: "php", Launcher: "php", Extension: "php"},
		Language{Tag: "csharp", Launcher: "dotnet", Extension: "cs"},
		Language{Tag: "cpp", Launcher: "g++", Extension: "cpp"},
		Language{Tag: "swift", Launcher: "swift", Extension: "swift"},
		Language{Tag: "kotlin", Launcher: "kotlin", Extension: "kt"},
		Language{Tag: "rust", Launcher: "cargo run --release", Extension: "rs"},
		Language{Tag: "dart", Launcher: "dart", Extension: "dart"},
		Language{Tag: "html", Launcher: "open", Extension: "html"},
		Language{Tag: "css", Launcher: "open", Extension: "css"},
	)
	if err != nil {
		panic(fmt.Sprintf("languages: invalid built-in table: %v", err))
	}
	return t
}

// Lookup returns the language registered under tag.
func (t *Table) Lookup(tag string) (Language, bool) {
	if t == nil {
		return Language{}, false
	}
	lang, ok := t.byTag[tag]
	return lang, ok
}

// Has reports whether tag is a known language.
func (t *Table) Has(tag string) bool {
	_, ok := t.Lookup(tag)
	return ok
}

// Tags returns the language tags in table order. The slice is a copy.
func (t *Table) Tags() []string {
	if t == nil {
		return nil
	}
	tags := make([]string, len(t.order))
	copy(tags, t.order)
	return tags
}

// All returns every language in table order.
func (t *Table) All() []Language {
	if t == nil {
		return nil
	}
	langs := make([]Language, 0, len(t.order))
	for _, tag := range t.order {
		langs = append(langs, t.byTag[tag])
	}
	return langs
}

// Len returns the number of languages in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}
