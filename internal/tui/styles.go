package tui

import "github.com/charmbracelet/lipgloss"

type theme struct {
	header     lipgloss.Style
	footer     lipgloss.Style
	panel      lipgloss.Style
	inputPanel lipgloss.Style

	title     lipgloss.Style
	status    lipgloss.Style
	faint     lipgloss.Style
	errText   lipgloss.Style
	selected  lipgloss.Style
	userLabel lipgloss.Style
	botLabel  lipgloss.Style
}

func newTheme() theme {
	accent := lipgloss.Color("6")
	muted := lipgloss.Color("8")
	warn := lipgloss.Color("1")

	return theme{
		header: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		footer: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
		panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),
		inputPanel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),

		title:     lipgloss.NewStyle().Bold(true),
		status:    lipgloss.NewStyle().Foreground(accent),
		faint:     lipgloss.NewStyle().Foreground(muted),
		errText:   lipgloss.NewStyle().Foreground(warn),
		selected:  lipgloss.NewStyle().Foreground(accent).Bold(true),
		userLabel: lipgloss.NewStyle().Foreground(accent).Bold(true),
		botLabel:  lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
	}
}

func joinHorizontal(parts ...string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
