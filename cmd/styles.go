package cmd

import "github.com/charmbracelet/lipgloss"

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF87")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAF00"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C"))
)
