package ui

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/muurk/airmap/internal/airport"
)

// Printer writes rendered components to a writer. Commands that print
// once and exit (list, show, scan) go through a Printer.
type Printer struct {
	out   io.Writer
	width int
	tty   bool
}

// NewPrinter creates a Printer for w. If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}

	p := &Printer{out: w, width: MinTerminalWidth}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.tty = true
		p.width = GetTerminalWidth()
	}
	return p
}

// Width returns the width used for rendering
func (p *Printer) Width() int {
	return p.width
}

// SetWidth overrides the detected width
func (p *Printer) SetWidth(width int) *Printer {
	p.width = clampWidth(width)
	return p
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params ...Param) {
	p.Println(NewHeader(title, command, params...).SetWidth(p.width).Render())
}

// PrintResult prints a result box at the printer's width
func (p *Printer) PrintResult(r *Result) {
	p.Println(r.SetWidth(p.width).Render())
}

// PrintAirports prints the catalog table
func (p *Printer) PrintAirports(airports []airport.Airport) {
	p.Println(RenderAirportTable(airports, p.width))
}

// PrintCard prints a loaded detail card
func (p *Printer) PrintCard(a airport.Airport, info airport.Info) {
	p.Println(RenderMarkdown(CardMarkdown(a, info), MarkdownStyle(p.tty), p.width))
}

// PrintFailedCard prints the card for a failed detail fetch
func (p *Printer) PrintFailedCard(a airport.Airport, message string) {
	p.Println(RenderMarkdown(FailedCardMarkdown(a, message), MarkdownStyle(p.tty), p.width))
}
