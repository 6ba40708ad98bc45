// Package catalog discovers the design patterns, languages and variants
// available under a catalogue root.
//
// Discovery is driven purely by directory shape:
//
//	<root>/<pattern>/<language>/index.<ext>
//	<root>/<pattern>/<language>/<variant>/...
//
// Nothing is cached. Every query reads the filesystem again, so the answer
// always reflects what is on disk at query time. Read failures never
// propagate to callers; they degrade to empty or partial results and are
// reported through the Logger.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/harrison/patterns/internal/languages"
)

// DefaultExcludeDirs lists top-level directories that are never patterns.
var DefaultExcludeDirs = []string{"node_modules"}

// Catalog is a read-only view of the pattern catalogue.
type Catalog interface {
	// Root returns the catalogue root as given by the caller.
	Root() string

	// Patterns lists the pattern directories under the root, sorted.
	Patterns() []string

	// Languages lists the known language tags implemented by at least one
	// pattern, in language table order.
	Languages() []string

	// Variants lists the variant directories of a pattern/language pair, sorted.
	Variants(pattern, language string) []string

	// HasImplementation reports whether the pattern/language directory holds an
	// entry file or at least one variant.
	HasImplementation(pattern, language string) bool

	// Exists reports whether the directory formed by elem exists under the root.
	Exists(elem ...string) bool

	// Path joins elem onto the root.
	Path(elem ...string) string

	// ReadFile reads a file relative to the root.
	ReadFile(elem ...string) ([]byte, error)
}

// Logger receives discovery diagnostics. ConsoleLogger satisfies it.
type Logger interface {
	LogDebug(message string)
	LogWarn(message string)
}

// Option configures an FSCatalog.
type Option func(*FSCatalog)

// WithLogger sets the diagnostics logger. A nil logger discards diagnostics.
func WithLogger(l Logger) Option {
	return func(c *FSCatalog) {
		c.logger = l
	}
}

// WithExcludeDirs replaces the list of top-level directories that are not patterns.
func WithExcludeDirs(dirs ...string) Option {
	return func(c *FSCatalog) {
		c.exclude = make(map[string]bool, len(dirs))
		for _, d := range dirs {
			c.exclude[d] = true
		}
	}
}

// FSCatalog implements Catalog over a billy.Filesystem whose root is the
// catalogue root.
type FSCatalog struct {
	fs      billy.Filesystem
	root    string
	table   *languages.Table
	exclude map[string]bool
	logger  Logger
}

// New creates a catalogue backed by fs. root is only used to build the
// paths handed to external processes; all reads go through fs.
func New(fs billy.Filesystem, root string, table *languages.Table, opts ...Option) *FSCatalog {
	c := &FSCatalog{
		fs:    fs,
		root:  root,
		table: table,
	}
	WithExcludeDirs(DefaultExcludeDirs...)(c)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Open creates a catalogue for a directory on the local disk.
func Open(root string, table *languages.Table, opts ...Option) *FSCatalog {
	return New(osfs.New(root), root, table, opts...)
}

// Root returns the catalogue root.
func (c *FSCatalog) Root() string {
	return c.root
}

// Path joins elem onto the catalogue root.
func (c *FSCatalog) Path(elem ...string) string {
	return filepath.Join(append([]string{c.root}, elem...)...)
}

// Patterns lists the immediate subdirectories of the root, skipping hidden
// entries and excluded directories. An unreadable root yields an empty list.
func (c *FSCatalog) Patterns() []string {
	entries, err := c.fs.ReadDir("/")
	if err != nil {
		c.warn(fmt.Sprintf("error reading patterns directory %s: %v", c.root, err))
		return []string{}
	}

	patterns := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") || c.exclude[name] {
			continue
		}
		patterns = append(patterns, name)
	}

	sort.Strings(patterns)
	return patterns
}

// Languages returns the union of known language directories across all
// patterns. Unreadable pattern directories are skipped.
func (c *FSCatalog) Languages() []string {
	found := make(map[string]bool)

	for _, pattern := range c.Patterns() {
		entries, err := c.fs.ReadDir(pattern)
		if err != nil {
			c.debug(fmt.Sprintf("skipping pattern %s: %v", pattern, err))
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() && c.table.Has(entry.Name()) {
				found[entry.Name()] = true
			}
		}
	}

	langs := make([]string, 0, len(found))
	for _, tag := range c.table.Tags() {
		if found[tag] {
			langs = append(langs, tag)
		}
	}
	return langs
}

// Variants lists the subdirectories of pattern/language. A missing directory
// yields an empty list without a diagnostic.
func (c *FSCatalog) Variants(pattern, language string) []string {
	dir := filepath.Join(pattern, language)
	if !c.isDir(dir) {
		return []string{}
	}

	entries, err := c.fs.ReadDir(dir)
	if err != nil {
		c.warn(fmt.Sprintf("error reading variants for %s/%s: %v", pattern, language, err))
		return []string{}
	}

	variants := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			variants = append(variants, entry.Name())
		}
	}

	sort.Strings(variants)
	return variants
}

// HasImplementation reports whether pattern/language exists and contains
// index.<ext> or at least one subdirectory. Unknown languages never have an
// implementation.
func (c *FSCatalog) HasImplementation(pattern, language string) bool {
	lang, ok := c.table.Lookup(language)
	if !ok {
		return false
	}

	dir := filepath.Join(pattern, language)
	entries, err := c.fs.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			c.debug(fmt.Sprintf("cannot read %s: %v", dir, err))
		}
		return false
	}

	entry := lang.EntryFile()
	for _, e := range entries {
		if e.IsDir() {
			return true
		}
		if e.Mode().IsRegular() && e.Name() == entry {
			return true
		}
	}
	return false
}

// Exists reports whether elem names an existing directory under the root.
func (c *FSCatalog) Exists(elem ...string) bool {
	return c.isDir(filepath.Join(elem...))
}

// ReadFile reads a file relative to the root.
func (c *FSCatalog) ReadFile(elem ...string) ([]byte, error) {
	name := filepath.Join(elem...)
	info, err := c.fs.Stat(name)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", c.Path(elem...))
	}
	return util.ReadFile(c.fs, name)
}

func (c *FSCatalog) isDir(name string) bool {
	if name == "" || name == "." {
		name = "/"
	}
	info, err := c.fs.Stat(name)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func (c *FSCatalog) warn(msg string) {
	if c.logger != nil {
		c.logger.LogWarn(msg)
	}
}

func (c *FSCatalog) debug(msg string) {
	if c.logger != nil {
		c.logger.LogDebug(msg)
	}
}
