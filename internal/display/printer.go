package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/harrison/patterns/internal/logger"
)

// Program is the command name used in example invocations.
const Program = "patterns"

// Printer writes formatted output to a single writer.
type Printer struct {
	out    io.Writer
	header *color.Color
	accent *color.Color
	failed *color.Color
	faint  *color.Color
}

// NewPrinter returns a Printer for out, coloured only if out is a terminal.
func NewPrinter(out io.Writer) *Printer {
	return NewPrinterWithColor(out, logger.IsTerminal(out))
}

// NewPrinterWithColor returns a Printer with colour forced on or off.
func NewPrinterWithColor(out io.Writer, colored bool) *Printer {
	p := &Printer{
		out:    out,
		header: color.New(color.FgCyan, color.Bold),
		accent: color.New(color.FgGreen),
		failed: color.New(color.FgRed),
		faint:  color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.header, p.accent, p.failed, p.faint} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Println writes a plain line.
func (p *Printer) Println(a ...interface{}) {
	fmt.Fprintln(p.out, a...)
}

// Printf writes plain formatted text.
func (p *Printer) Printf(format string, a ...interface{}) {
	fmt.Fprintf(p.out, format, a...)
}

// Error writes "Error: <err>" in red.
func (p *Printer) Error(err error) {
	fmt.Fprintln(p.out, p.failed.Sprintf("Error: %v", err))
}

// Running announces the command about to be spawned.
func (p *Printer) Running(command string) {
	fmt.Fprintf(p.out, "Running: %s\n", p.accent.Sprint(command))
}

// Stderr echoes a child's captured stderr.
func (p *Printer) Stderr(stderr string) {
	fmt.Fprintf(p.out, "stderr: %s\n", strings.TrimRight(stderr, "\n"))
}

// Output writes a child's captured stdout, ending it with a newline.
func (p *Printer) Output(stdout string) {
	if stdout == "" {
		return
	}
	fmt.Fprint(p.out, stdout)
	if !strings.HasSuffix(stdout, "\n") {
		fmt.Fprintln(p.out)
	}
}
