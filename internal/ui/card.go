package ui

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"

	"github.com/muurk/airmap/internal/airport"
)

// CardMarkdown is the detail card for a loaded airport as markdown
func CardMarkdown(a airport.Airport, info airport.Info) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", a.Code)
	fmt.Fprintf(&b, "## %s\n\n", info.Name)
	fmt.Fprintf(&b, "- **City:** %s\n", info.City)
	fmt.Fprintf(&b, "- **Country:** %s\n", info.Country)
	fmt.Fprintf(&b, "- **Coordinates:** %s\n", a.Coordinates())
	return b.String()
}

// FailedCardMarkdown is the card shown when detail could not be loaded
func FailedCardMarkdown(a airport.Airport, message string) string {
	return fmt.Sprintf("# %s\n\n> %s\n", a.Code, message)
}

var (
	rendererMu sync.Mutex
	// keyed by style and wrap width; NewTermRenderer is not cheap
	renderers = map[string]*glamour.TermRenderer{}
)

// MarkdownStyle picks a standard glamour style without querying the
// terminal. AIRMAP_MD_STYLE=light|dark overrides; otherwise "notty" when
// output is not a terminal and "dark" when it is.
func MarkdownStyle(tty bool) string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("AIRMAP_MD_STYLE"))) {
	case styles.LightStyle:
		return styles.LightStyle
	case styles.DarkStyle:
		return styles.DarkStyle
	}
	if !tty {
		return styles.NoTTYStyle
	}
	return styles.DarkStyle
}

// RenderMarkdown renders md with the given standard style, wrapping at
// width. On renderer errors the raw markdown is returned.
func RenderMarkdown(md, style string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}

	key := style + ":" + strconv.Itoa(width)

	rendererMu.Lock()
	defer rendererMu.Unlock()

	r := renderers[key]
	if r == nil {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		renderers[key] = r
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
