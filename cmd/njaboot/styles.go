package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	borderColor = lipgloss.Color("#d6dae0")
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// badgeColors maps the colour family of a badge class to a terminal colour.
var badgeColors = map[string]lipgloss.Color{
	"red":    lipgloss.Color("#dc2626"),
	"orange": lipgloss.Color("#ea580c"),
	"yellow": lipgloss.Color("#ca8a04"),
	"green":  lipgloss.Color("#16a34a"),
	"blue":   lipgloss.Color("#2563eb"),
	"indigo": lipgloss.Color("#4f46e5"),
	"purple": lipgloss.Color("#9333ea"),
	"gray":   lipgloss.Color("#6b7280"),
}

// badgeStyle colours a label from a class such as "bg-red-100 text-red-800".
func badgeStyle(class string) lipgloss.Style {
	for _, part := range strings.Fields(class) {
		fields := strings.Split(part, "-")
		if len(fields) == 3 && fields[0] == "text" {
			if c, ok := badgeColors[fields[1]]; ok {
				return lipgloss.NewStyle().Foreground(c)
			}
		}
	}
	return lipgloss.NewStyle()
}

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(borderColor)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.Render()
}
