package display

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/harrison/patterns/internal/history"
)

func plainPrinter() (*Printer, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewPrinterWithColor(&buf, false), &buf
}

func TestListEmpty(t *testing.T) {
	p, buf := plainPrinter()
	p.List(nil)

	assert.Equal(t, "Implemented languages:\n  No implemented languages found\n", buf.String())
}

func TestListBuilderScenario(t *testing.T) {
	p, buf := plainPrinter()
	p.List([]LanguageListing{{
		Tag: "ts",
		Patterns: []PatternListing{
			{Name: "builder", Summary: "Builder: Step by step.", Variants: []string{"functional"}},
			{Name: "observer"},
		},
	}})

	want := strings.Join([]string{
		"Implemented languages:",
		"  - ts",
		"  Available design patterns:",
		"  - builder",
		"    Builder: Step by step.",
		"    Example: patterns --pattern=builder --language=ts",
		"    Variants: functional",
		"    Example with variant: patterns --pattern=builder --language=ts --variant=functional",
		"  - observer",
		"    Example: patterns --pattern=observer --language=ts",
		"",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestExampleCommand(t *testing.T) {
	assert.Equal(t, "patterns --pattern=a --language=go", ExampleCommand("a", "go", ""))
	assert.Equal(t, "patterns --pattern=a --language=go --variant=v2", ExampleCommand("a", "go", "v2"))
}

func TestPrinterLines(t *testing.T) {
	p, buf := plainPrinter()
	p.Running("ts-node src/builder/ts")
	p.Stderr("warning: deprecated")
	p.Error(errors.New("Pattern 'x' not found."))

	assert.Equal(t,
		"Running: ts-node src/builder/ts\nstderr: warning: deprecated\nError: Pattern 'x' not found.\n",
		buf.String())
}

func TestColoredPrinterEmitsEscapes(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinterWithColor(&buf, true)
	p.Error(errors.New("boom"))

	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "Error: boom")
}

func TestNewPrinterOnBufferIsPlain(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).List(nil)
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestLanguages(t *testing.T) {
	p, buf := plainPrinter()
	p.Languages([]LanguageRow{
		{Tag: "ts", Launcher: "ts-node", Extension: "ts", Implemented: true},
		{Tag: "rust", Launcher: "cargo run --release", Extension: "rs"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "TAG"))
	assert.Contains(t, lines[1], "ts-node")
	assert.True(t, strings.HasSuffix(lines[1], "yes"))
	assert.Contains(t, lines[2], "cargo run --release")
	assert.True(t, strings.HasSuffix(lines[2], "-"))
}

func TestDescribe(t *testing.T) {
	p, buf := plainPrinter()
	p.Describe(Description{
		Pattern: "builder",
		Title:   "Builder",
		Summary: "Step by step.",
		Implementations: []Implementation{
			{Language: "ts", Launcher: "ts-node", Variants: []string{"functional"}},
			{Language: "py", Launcher: "python3"},
		},
	})

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Builder\n  Step by step.\n"))
	assert.Contains(t, out, "  - ts (ts-node)\n    Variants: functional\n")
	assert.Contains(t, out, "  - py (python3)\n    Example: patterns --pattern=builder --language=py\n")
}

func TestDescribeWithoutReadmeOrImplementations(t *testing.T) {
	p, buf := plainPrinter()
	p.Describe(Description{Pattern: "visitor"})

	assert.Equal(t, "visitor\n\n  No implementations found\n", buf.String())
}

func TestHistory(t *testing.T) {
	p, buf := plainPrinter()
	p.History(nil)
	assert.Equal(t, "No runs recorded\n", buf.String())

	buf.Reset()
	p.History([]*history.Run{
		{Pattern: "builder", Language: "ts", Variant: "functional", ExitCode: 0, Duration: 150 * time.Millisecond, StartedAt: time.Now()},
		{Pattern: "observer", Language: "py", ExitCode: -1, SpawnError: "not found", StartedAt: time.Now()},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[1], "functional")
	assert.Contains(t, lines[1], "150ms")
	assert.Contains(t, lines[2], "spawn")
}

func TestStats(t *testing.T) {
	p, buf := plainPrinter()
	p.Stats(nil)
	assert.Empty(t, buf.String())

	p.Stats([]history.Stat{{Pattern: "builder", Language: "ts", Runs: 3, Failures: 1}})
	assert.Contains(t, buf.String(), "PATTERN")
	assert.Contains(t, buf.String(), "builder")
}

func TestOutput(t *testing.T) {
	p, buf := plainPrinter()
	p.Output("")
	p.Output("one\n")
	p.Output("two")
	p.Stderr("oops\n")

	assert.Equal(t, "one\ntwo\nstderr: oops\n", buf.String())
}
