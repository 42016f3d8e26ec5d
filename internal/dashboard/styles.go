package dashboard

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/sour/internal/ui"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(ui.ColorInfo).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(ui.ColorSecondary).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(ui.ColorMuted)

	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(ui.ColorMuted).
				Underline(true)

	feedbackStyle = lipgloss.NewStyle().
			Foreground(ui.ColorWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(ui.ColorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ui.ColorMuted)
)
