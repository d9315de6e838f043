package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aura-dev/jiractl/internal/debug"
)

// Printer writes human-readable progress narration. Every tool prints through a
// Printer so dry-run and live runs share one line structure.
//
// In quiet mode only failure and warning lines are written, along with the
// detail lines that follow them.
type Printer struct {
	w      io.Writer
	indent string
	quiet  bool
	// shown records whether the last item line was written, shared by all
	// printers derived with Indent.
	shown *bool
}

// NewPrinter returns a Printer writing to w with no indentation. It is quiet
// when debug quiet mode is set.
func NewPrinter(w io.Writer) *Printer {
	quiet := debug.IsQuiet()
	shown := !quiet
	return &Printer{w: w, quiet: quiet, shown: &shown}
}

// Indent returns a Printer that prefixes every line with n extra spaces.
func (p *Printer) Indent(n int) *Printer {
	return &Printer{w: p.w, indent: p.indent + strings.Repeat(" ", n), quiet: p.quiet, shown: p.shown}
}

func (p *Printer) line(s string) {
	fmt.Fprintln(p.w, p.indent+s)
}

// progress writes a line that quiet mode suppresses.
func (p *Printer) progress(s string) {
	*p.shown = !p.quiet
	if p.quiet {
		return
	}
	p.line(s)
}

// essential writes a line that is printed even in quiet mode.
func (p *Printer) essential(s string) {
	*p.shown = true
	p.line(s)
}

// Blank prints an empty line.
func (p *Printer) Blank() {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.w)
}

// Section prints a "=== Title" header.
func (p *Printer) Section(format string, args ...interface{}) {
	p.progress(RenderSection(fmt.Sprintf(format, args...)))
}

// Infof prints a plain line.
func (p *Printer) Infof(format string, args ...interface{}) {
	p.progress(fmt.Sprintf(format, args...))
}

// Passf prints a line prefixed with the pass icon.
func (p *Printer) Passf(format string, args ...interface{}) {
	p.progress(RenderPass(IconPass) + " " + fmt.Sprintf(format, args...))
}

// Failf prints a line prefixed with the fail icon.
func (p *Printer) Failf(format string, args ...interface{}) {
	p.essential(RenderFail(IconFail) + " " + fmt.Sprintf(format, args...))
}

// Warnf prints a line prefixed with the warning icon.
func (p *Printer) Warnf(format string, args ...interface{}) {
	p.essential(RenderWarn(IconWarn) + " " + fmt.Sprintf(format, args...))
}

// Skipf prints a line prefixed with the skip icon.
func (p *Printer) Skipf(format string, args ...interface{}) {
	p.progress(RenderMuted(IconSkip) + " " + fmt.Sprintf(format, args...))
}

// DryRunf prints a line describing a mutation that was suppressed.
func (p *Printer) DryRunf(format string, args ...interface{}) {
	p.progress(RenderMuted(DryRunTag) + " " + fmt.Sprintf(format, args...))
}

// Detailf prints a continuation line aligned under the previous item's text.
// It is dropped when that item was.
func (p *Printer) Detailf(format string, args ...interface{}) {
	if !*p.shown {
		return
	}
	p.line(strings.Repeat(" ", len(DryRunTag)+1) + fmt.Sprintf(format, args...))
}
