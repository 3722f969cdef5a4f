package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/haskel/sysbar/internal/format"
	"github.com/haskel/sysbar/internal/monitor"
)

var (
	colorPrimary = lipgloss.Color("86")  // Cyan
	colorSuccess = lipgloss.Color("82")  // Green
	colorWarning = lipgloss.Color("214") // Orange
	colorDanger  = lipgloss.Color("196") // Red
	colorMuted   = lipgloss.Color("245") // Light gray
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(10)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	normalStyle   = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle  = lipgloss.NewStyle().Foreground(colorWarning)
	criticalStyle = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
)

func levelStyle(l format.Level) lipgloss.Style {
	switch l {
	case format.LevelWarning:
		return warningStyle
	case format.LevelCritical:
		return criticalStyle
	}
	return normalStyle
}

func thermalStyle(state string) lipgloss.Style {
	switch state {
	case monitor.ThermalFair:
		return warningStyle
	case monitor.ThermalSerious, monitor.ThermalCritical:
		return criticalStyle
	case monitor.ThermalUnknown:
		return mutedStyle
	}
	return normalStyle
}
