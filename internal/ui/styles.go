package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
// - Default (white/black): Primary text
// - Accent (soft purple #A78BFA): Pattern ids, paths
// - Muted (gray): Secondary info, descriptions
// - Severity colors are reserved for issue markers

var (
	// Accent style for pattern ids and file paths
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA"))

	// Muted style for secondary info and hints
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA")).Bold(true)

	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
)
