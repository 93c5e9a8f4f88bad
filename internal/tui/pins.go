package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/airmap/internal/airport"
)

// pinItem wraps an airport for use with bubbles/list
type pinItem struct {
	airport airport.Airport
}

func (p pinItem) FilterValue() string {
	return p.airport.Code + " " + p.airport.City + " " + p.airport.Country
}

func (p pinItem) Title() string { return p.airport.Code }

func (p pinItem) Description() string {
	return fmt.Sprintf("%s, %s", p.airport.City, p.airport.Country)
}

// pinDelegate renders one pin per two lines and marks the pin the card is
// showing.
type pinDelegate struct {
	// selected returns the code the card currently shows, "" for none
	selected func() string
}

func (d pinDelegate) Height() int { return 2 }

func (d pinDelegate) Spacing() int { return 0 }

func (d pinDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d pinDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	pin, ok := item.(pinItem)
	if !ok {
		return
	}

	marker := " "
	if d.selected != nil && d.selected() == pin.airport.Code {
		marker = "●"
	}

	title := marker + " " + pin.Title()
	if index == m.Index() {
		title = CursorPinStyle.Render("→ " + title)
	} else {
		title = PinStyle.Render(title)
	}

	_, _ = fmt.Fprintf(w, "%s\n%s", title, PinDetailStyle.Render(pin.Description()))
}

func pinItems(airports []airport.Airport) []list.Item {
	items := make([]list.Item, len(airports))
	for i, a := range airports {
		items[i] = pinItem{airport: a}
	}
	return items
}
