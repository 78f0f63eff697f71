package tile

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"travelease/internal/summary/render"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#0B6E99", Dark: "#4FC1E9"}).
			Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true)
	dateStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#6B6B6B", Dark: "#9A9A9A"}).
			Italic(true)
)

// Card draws a view as a bordered terminal card of the given outer width.
// Expanded views carry their rendered content below the header.
func Card(v View, width int) string {
	inner := width - cardStyle.GetHorizontalFrameSize()

	header := titleStyle.Render(v.Title) + "  " + v.Indicator
	lines := []string{header}
	if v.Date != "" {
		lines = append(lines, dateStyle.Render(v.Date))
	}
	lines = append(lines, "")
	if v.Expanded {
		lines = append(lines, render.Terminal(v.Content, inner))
	} else {
		lines = append(lines, v.Preview)
	}

	style := cardStyle
	if inner > 0 {
		style = style.Width(inner)
	}
	return style.Render(strings.Join(lines, "\n"))
}
