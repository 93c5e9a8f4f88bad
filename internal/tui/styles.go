package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/airmap/internal/version"
)

// Application branding
const (
	AppName = "AIRMAP"
)

// Layout constants
const (
	MinTerminalWidth = 72
	// CardWidth is the detail card's share of the screen, list gets the rest
	CardWidth = 44
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF5555") // Red

	TextColor      = lipgloss.Color("#FFFFFF")
	SubtleColor    = lipgloss.Color("#626262")
	BorderColor    = lipgloss.Color("#7D56F4")
	HighlightColor = lipgloss.Color("#43BF6D")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	// Pin rows in the airport list
	PinStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(TextColor)

	CursorPinStyle = lipgloss.NewStyle().
			Foreground(HighlightColor).
			Bold(true)

	PinDetailStyle = lipgloss.NewStyle().
			PaddingLeft(4).
			Foreground(SubtleColor)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	// CardStyle frames the detail card
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2)

	CardHeaderStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	CardKeyStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Width(10)

	CardValueStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	CardErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(WarningColor)
)

// buildHeaderContent is the application name, version and mode line
func buildHeaderContent(status string) string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " " + version.Short())

	if status == "" {
		return left
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", StatusStyle.Render(status))
}

// RenderApplicationContainer wraps a screen in the shared frame: header
// line, content, and a footer with context-sensitive help.
func RenderApplicationContainer(content, status, footer string, width, height int) string {
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	header := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(width-4).
		Padding(0, 1).
		Render(buildHeaderContent(status))

	foot := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Foreground(SubtleColor).
		Width(width-4).
		Padding(0, 1).
		Render(footer)

	body := lipgloss.NewStyle().
		Width(width - 4).
		Render(content)

	frame := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(width - 2)
	if height > 2 {
		frame = frame.Height(height - 2).AlignVertical(lipgloss.Top)
	}

	return frame.Render(lipgloss.JoinVertical(lipgloss.Left, header, body, foot))
}
