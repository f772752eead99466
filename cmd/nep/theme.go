package main

import "github.com/charmbracelet/lipgloss"

// replTheme holds every style the CLI renders with. Without a color
// terminal lipgloss drops the colors and leaves the text unchanged.
type replTheme struct {
	prompt   lipgloss.Style
	result   lipgloss.Style
	err      lipgloss.Style
	muted    lipgloss.Style
	header   lipgloss.Style
	name     lipgloss.Style
	panel    lipgloss.Style
	panelTop lipgloss.Style
}

func newTheme() replTheme {
	var (
		crimson = lipgloss.Color("#DC143C")
		blue    = lipgloss.Color("#003893")
		green   = lipgloss.Color("#10B981")
		red     = lipgloss.Color("#EF4444")
		grey    = lipgloss.Color("#6B7280")
	)
	return replTheme{
		prompt:   lipgloss.NewStyle().Foreground(crimson).Bold(true),
		result:   lipgloss.NewStyle().Foreground(green),
		err:      lipgloss.NewStyle().Foreground(red),
		muted:    lipgloss.NewStyle().Foreground(grey),
		header:   lipgloss.NewStyle().Foreground(crimson).Bold(true),
		name:     lipgloss.NewStyle().Foreground(blue),
		panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(crimson).Padding(0, 1),
		panelTop: lipgloss.NewStyle().Foreground(crimson).Bold(true),
	}
}

var theme = newTheme()
