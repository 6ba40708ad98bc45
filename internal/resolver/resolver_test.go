package resolver

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/patterns/internal/catalog"
	"github.com/harrison/patterns/internal/languages"
)

// fakeCatalog is an in-memory Catalog that counts filesystem queries.
type fakeCatalog struct {
	patterns []string
	dirs     map[string]bool
	variants map[string][]string
	queries  int
}

func (f *fakeCatalog) Root() string { return "root" }
func (f *fakeCatalog) Patterns() []string { f.queries++; return f.patterns }
func (f *fakeCatalog) Languages() []string { return nil }
func (f *fakeCatalog) ReadFile(...string) ([]byte, error) { return nil, errors.New("not implemented") }
func (f *fakeCatalog) HasImplementation(p, l string) bool {
	return f.dirs[filepath.Join(p, l)]
}
func (f *fakeCatalog) Variants(p, l string) []string {
	f.queries++
	if v, ok := f.variants[filepath.Join(p, l)]; ok {
		return v
	}
	return []string{}
}
func (f *fakeCatalog) Exists(elem ...string) bool {
	f.queries++
	return f.dirs[filepath.Join(elem...)]
}
func (f *fakeCatalog) Path(elem ...string) string {
	return filepath.Join(append([]string{"root"}, elem...)...)
}

var _ catalog.Catalog = (*fakeCatalog)(nil)

func newFake() *fakeCatalog {
	return &fakeCatalog{
		patterns: []string{"builder", "observer"},
		dirs: map[string]bool{
			"builder":               true,
			"builder/ts":            true,
			"builder/ts/functional": true,
			"builder/cobol":         true,
			"observer":              true,
			"observer/ts":           true,
		},
		variants: map[string][]string{
			"builder/ts": {"functional"},
		},
	}
}

func TestResolveConcreteScenario(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "builder/ts/index.ts", []byte("x"), 0644))
	require.NoError(t, fs.MkdirAll("builder/ts/functional", 0755))
	require.NoError(t, util.WriteFile(fs, "observer/ts/index.ts", []byte("x"), 0644))

	c := catalog.New(fs, "root", languages.Default())
	r := New(c, languages.Default())

	assert.Equal(t, []string{"builder", "observer"}, c.Patterns())
	assert.Equal(t, []string{"functional"}, c.Variants("builder", "ts"))

	inv, err := r.Resolve("builder", "ts", "")
	require.NoError(t, err)
	assert.Equal(t, "ts-node", inv.Executable)
	assert.Equal(t, filepath.Join("root", "builder", "ts"), inv.Path)

	inv, err = r.Resolve("builder", "ts", "functional")
	require.NoError(t, err)
	assert.Equal(t, "ts-node", inv.Executable)
	assert.Equal(t, filepath.Join("root", "builder", "ts", "functional"), inv.Path)

	_, err = r.Resolve("builder", "ts", "missing")
	assert.ErrorIs(t, err, ErrVariantNotFound)
}

func TestResolveUnsupportedLanguageEvenIfDirectoryExists(t *testing.T) {
	r := New(newFake(), languages.Default())

	_, err := r.Resolve("builder", "cobol", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
	assert.Equal(t, "No executable found for language: cobol", err.Error())

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "cobol", verr.Language)
}

func TestResolveIsIdempotent(t *testing.T) {
	r := New(newFake(), languages.Default())

	first, err := r.Resolve("builder", "ts", "functional")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := r.Resolve("builder", "ts", "functional")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestResolveWithoutVariantDoesNotTouchCatalog(t *testing.T) {
	fake := newFake()
	r := New(fake, languages.Default())

	inv, err := r.Resolve("anything", "py", "")
	require.NoError(t, err)
	assert.Equal(t, "python3", inv.Executable)
	assert.Equal(t, filepath.Join("root", "anything", "py"), inv.Path)
	assert.Zero(t, fake.queries)
}

func TestInvocationStringAndArgs(t *testing.T) {
	inv := Invocation{Executable: "cargo run --release", Path: "root/builder/rust"}

	assert.Equal(t, "cargo run --release root/builder/rust", inv.String())
	assert.Equal(t, []string{"cargo", "run", "--release", "root/builder/rust"}, inv.Args())

	spaced := Invocation{Executable: "node", Path: "my root/builder/js"}
	assert.Equal(t, []string{"node", "my root/builder/js"}, spaced.Args())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		language string
		variant  string
		wantErr  error
		wantMsg  string
	}{
		{
			name:     "valid without variant",
			pattern:  "builder",
			language: "ts",
		},
		{
			name:     "valid with variant",
			pattern:  "builder",
			language: "ts",
			variant:  "functional",
		},
		{
			name:     "unknown pattern",
			pattern:  "singleton",
			language: "ts",
			wantErr:  ErrUnknownPattern,
			wantMsg:  "Pattern 'singleton' not found. Use --list to see available patterns.",
		},
		{
			name:     "unknown pattern wins over unknown language",
			pattern:  "singleton",
			language: "cobol",
			wantErr:  ErrUnknownPattern,
		},
		{
			name:     "language not implemented",
			pattern:  "observer",
			language: "py",
			wantErr:  ErrLanguageNotImplemented,
			wantMsg:  "Language 'py' not implemented for pattern 'observer'. Use --list to see available options.",
		},
		{
			name:     "variant missing lists available",
			pattern:  "builder",
			language: "ts",
			variant:  "missing",
			wantErr:  ErrVariantNotFound,
			wantMsg:  "Variant 'missing' not found for pattern 'builder' in language 'ts'. Available variants: functional",
		},
		{
			name:     "variant on pair without variants",
			pattern:  "observer",
			language: "ts",
			variant:  "functional",
			wantErr:  ErrVariantNotFound,
			wantMsg:  "Variant 'functional' not found for pattern 'observer' in language 'ts'. Available variants: none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(newFake(), languages.Default())
			err := r.Validate(tt.pattern, tt.language, tt.variant)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, err.Error())
			}
		})
	}
}

func TestValidateAndResolve(t *testing.T) {
	r := New(newFake(), languages.Default())

	inv, err := r.ValidateAndResolve("builder", "ts", "functional")
	require.NoError(t, err)
	assert.Equal(t, "ts-node root/builder/ts/functional", inv.String())
	assert.Equal(t, "builder", inv.Pattern)
	assert.Equal(t, "functional", inv.Variant)

	// The directory exists, so validation passes, but the language table rejects it.
	_, err = r.ValidateAndResolve("builder", "cobol", "")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)

	_, err = r.ValidateAndResolve("nope", "ts", "")
	assert.ErrorIs(t, err, ErrUnknownPattern)
}
