package main

import (
	"github.com/charmbracelet/lipgloss"
)

// CLI styles. lipgloss drops the colors when stdout is not a terminal.
var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#81b29a")).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#719cd6")).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	faintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#738091"))
)
