package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorText     lipgloss.Color = "#cdd6f4"
	colorMuted    lipgloss.Color = "#a6adc8"
	colorBorder   lipgloss.Color = "#585b70"
	colorAccent   lipgloss.Color = "#89b4fa"
	colorSuccess  lipgloss.Color = "#a6e3a1"
	colorError    lipgloss.Color = "#f38ba8"
	colorWarn     lipgloss.Color = "#f9e2af"
	colorMantle   lipgloss.Color = "#181825"
	colorSurface0 lipgloss.Color = "#313244"
)

var (
	headerStyle     = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	progressStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	cursorStyle     = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	selectedStyle   = lipgloss.NewStyle().Foreground(colorSuccess)
	mutedStyle      = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle      = lipgloss.NewStyle().Foreground(colorError)
	hintStyle       = lipgloss.NewStyle().Foreground(colorWarn)
	chipStyle       = lipgloss.NewStyle().Foreground(colorText).Background(colorSurface0).Padding(0, 1)
	chipActiveStyle = lipgloss.NewStyle().Foreground(colorMantle).Background(colorAccent).Padding(0, 1)
	infoBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1)
	statusBarStyle  = lipgloss.NewStyle().Foreground(colorSuccess).Background(colorSurface0)
	statusErrStyle  = lipgloss.NewStyle().Foreground(colorError).Background(colorSurface0)
	footerStyle     = lipgloss.NewStyle().Background(colorMantle)
)
