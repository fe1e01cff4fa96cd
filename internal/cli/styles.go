package cli

import "github.com/charmbracelet/lipgloss"

var (
	colorMuted   = lipgloss.Color("#666666")
	colorPrimary = lipgloss.Color("#6C63FF")
	colorWarning = lipgloss.Color("#F39C12")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	markerStyle = lipgloss.NewStyle().Foreground(colorWarning)
	emptyStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	titleStyle  = lipgloss.NewStyle().Bold(true)
)
