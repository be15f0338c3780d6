package tui

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle styles the program title line.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HeaderStyle styles the column header row.
	HeaderStyle = lipgloss.NewStyle().Bold(true)

	// DetailStyle dims per-step detail text.
	DetailStyle = lipgloss.NewStyle().Faint(true)

	statusStyles = map[string]lipgloss.Style{
		"done":    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"running": lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"skipped": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"failed":  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		"pending": lipgloss.NewStyle().Faint(true),
	}
)

// StatusStyle returns the style for a step status, defaulting to plain.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
