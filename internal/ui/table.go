package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/muurk/airmap/internal/airport"
)

var airportColumns = []string{"CODE", "NAME", "CITY", "COUNTRY", "LAT, LON"}

// RenderAirportTable renders the catalog as a bordered table for
// `airmap list`.
func RenderAirportTable(airports []airport.Airport, width int) string {
	rows := make([][]string, 0, len(airports))
	for _, a := range airports {
		rows = append(rows, []string{a.Code, a.Name, a.City, a.Country, a.Coordinates()})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(PrimaryColor)).
		Headers(airportColumns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return TableHeaderStyle
			case col == 0:
				return TableCodeStyle
			default:
				return TableCellStyle
			}
		})

	if width > 0 {
		t = t.Width(width)
	}
	return t.String()
}
