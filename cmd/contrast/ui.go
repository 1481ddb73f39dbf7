package main

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Header style for command output
	primaryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#81A1C1"))

	// Error style for error messages
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000"))

	// Success style for success messages
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))

	// Warning style for cautionary messages
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EBCB8B"))

	// Dim style for secondary detail lines
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#959595"))
)

func primaryText(s string) string { return primaryStyle.Render(s) }
func errorText(s string) string   { return errorStyle.Render(s) }
func successText(s string) string { return successStyle.Render(s) }
func warnText(s string) string    { return warnStyle.Render(s) }
func dimText(s string) string     { return dimStyle.Render(s) }
