package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/airmap/internal/airport"
	"github.com/muurk/airmap/internal/detail"
)

// Card is the detail card beside the pin list. It is the controller's
// presentation sink; the controller only calls it from AppModel.Update.
type Card struct {
	phase   detail.Phase
	subject airport.Airport
	info    airport.Info
	err     error
}

func (c *Card) ShowLoading(subject airport.Airport) {
	c.phase = detail.PhaseLoading
	c.subject = subject
	c.info = airport.Info{}
	c.err = nil
}

func (c *Card) ShowLoaded(info airport.Info) {
	c.phase = detail.PhaseLoaded
	c.info = info
}

func (c *Card) ShowEmpty() {
	*c = Card{phase: detail.PhaseEmpty}
}

func (c *Card) ShowFailed(subject airport.Airport, err error) {
	c.phase = detail.PhaseFailed
	c.subject = subject
	c.err = err
}

// Visible reports whether the card is on screen
func (c *Card) Visible() bool {
	return c.phase != detail.PhaseEmpty
}

// Header is the text of the card's header line
func (c *Card) Header() string {
	if !c.Visible() {
		return ""
	}
	return c.subject.Code
}

// View renders the card body. spin is the current spinner frame, shown
// while loading.
func (c *Card) View(width int, spin string) string {
	if !c.Visible() {
		return ""
	}

	var b strings.Builder
	b.WriteString(CardHeaderStyle.Render(c.Header()))
	b.WriteString("\n\n")

	switch c.phase {
	case detail.PhaseLoading:
		b.WriteString(spin + " Loading detail...")

	case detail.PhaseLoaded:
		b.WriteString(TitleStyle.Render(c.info.Name))
		b.WriteString("\n\n")
		b.WriteString(row("City", c.info.City))
		b.WriteString("\n")
		b.WriteString(row("Country", c.info.Country))
		b.WriteString("\n")
		b.WriteString(row("Position", c.subject.Coordinates()))

	case detail.PhaseFailed:
		b.WriteString(CardErrorStyle.Render("✗ " + detail.ShortMessage(c.err)))
		b.WriteString("\n\n")
		b.WriteString(SubtitleStyle.Render("press r to retry"))
	}

	inner := width - 6
	if inner < 20 {
		inner = 20
	}
	style := CardStyle.Width(inner)
	if c.phase == detail.PhaseFailed {
		style = style.BorderForeground(ErrorColor)
	}
	return style.Render(b.String())
}

func row(key, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, CardKeyStyle.Render(key), CardValueStyle.Render(value))
}
