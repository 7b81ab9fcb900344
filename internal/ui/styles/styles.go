// Package styles defines the visual styling for the application.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/models"
)

// Color definitions for the dashboard theme.
var (
	Primary   = lipgloss.Color("39")  // Azure blue
	Secondary = lipgloss.Color("63")  // Purple
	Subtle    = lipgloss.Color("240") // Gray

	// Series colors
	CPU     = lipgloss.Color("208") // Orange
	Storage = lipgloss.Color("42")  // Green

	Success = lipgloss.Color("42")  // Green
	Error   = lipgloss.Color("196") // Red
	Warning = lipgloss.Color("220") // Yellow
	Info    = lipgloss.Color("39")  // Blue

	BgDark   = lipgloss.Color("235")
	BgLight  = lipgloss.Color("237")
	BgAccent = lipgloss.Color("236")

	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")

	// ToastStyle for floating notifications.
	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1).
			MarginBottom(1)
)

// TitleStyle is used for main headings.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// SubTitleStyle is used for section headings.
var SubTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Secondary)

// DocStyle provides consistent document margins.
var DocStyle = lipgloss.NewStyle().
	Margin(1, 2).
	Padding(0, 1)

// CardStyle creates a bordered card container.
var CardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Subtle).
	Padding(0, 1).
	MarginBottom(1)

// CardTitleStyle styles card headers.
var CardTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary)

// ErrorCardStyle outlines a card whose section failed to load.
var ErrorCardStyle = CardStyle.
	BorderForeground(Error)

// FocusedStyle is used for the selected row or column.
var FocusedStyle = lipgloss.NewStyle().
	Foreground(Primary).
	Bold(true)

// HelpStyle is the base style for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// HelpPanelStyle creates the help overlay panel.
var HelpPanelStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(Primary).
	Padding(1, 3).
	Background(BgDark)

// LabelStyle styles the label column of key/value rows.
var LabelStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// ValueStyle styles the value column of key/value rows.
var ValueStyle = lipgloss.NewStyle().
	Foreground(TextPrimary)

// KPIValueStyle styles the headline figure of a KPI card.
var KPIValueStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(TextPrimary)

// TableHeaderStyle styles table headers.
var TableHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	BorderStyle(lipgloss.NormalBorder()).
	BorderBottom(true).
	BorderForeground(Subtle)

// TableSelectedStyle styles the selected table column header.
var TableSelectedStyle = lipgloss.NewStyle().
	Background(BgAccent).
	Foreground(TextPrimary).
	Bold(true)

// BestBadgeStyle marks the best model.
var BestBadgeStyle = lipgloss.NewStyle().
	Foreground(Success).
	Bold(true)

// ErrorTextStyle for error messages.
var ErrorTextStyle = lipgloss.NewStyle().
	Foreground(Error)

// SuccessTextStyle for success messages.
var SuccessTextStyle = lipgloss.NewStyle().
	Foreground(Success)

// WarningTextStyle for warning messages.
var WarningTextStyle = lipgloss.NewStyle().
	Foreground(Warning)

// InfoTextStyle for info messages.
var InfoTextStyle = lipgloss.NewStyle().
	Foreground(Info)

var (
	scoreHighStyle   = lipgloss.NewStyle().Foreground(Success)
	scoreMediumStyle = lipgloss.NewStyle().Foreground(Warning)
	scoreLowStyle    = lipgloss.NewStyle().Foreground(Error)
)

// ScoreStyle colors a 0..100 normalized score.
func ScoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 80:
		return scoreHighStyle
	case score >= 50:
		return scoreMediumStyle
	default:
		return scoreLowStyle
	}
}

// DeltaStyle colors a KPI delta. Growth in demand is shown as a warning.
func DeltaStyle(delta *int64) lipgloss.Style {
	switch {
	case delta == nil:
		return HelpStyle
	case *delta > 0:
		return WarningTextStyle
	case *delta < 0:
		return SuccessTextStyle
	default:
		return HelpStyle
	}
}

// SectionStatusStyle colors a section's load status.
func SectionStatusStyle(s models.Status) lipgloss.Style {
	switch s {
	case models.StatusReady:
		return SuccessTextStyle
	case models.StatusError:
		return ErrorTextStyle
	default:
		return InfoTextStyle
	}
}

// ScaleStyle colors a scaling verdict.
func ScaleStyle(s models.ScaleStatus) lipgloss.Style {
	switch s {
	case models.ScaleUp:
		return ErrorTextStyle.Bold(true)
	case models.ScaleDown:
		return InfoTextStyle
	default:
		return SuccessTextStyle
	}
}

// DriftStyle colors a model health status.
func DriftStyle(s models.DriftStatus) lipgloss.Style {
	switch s {
	case models.DriftDetected:
		return ErrorTextStyle.Bold(true)
	case models.DriftStale:
		return WarningTextStyle
	default:
		return SuccessTextStyle
	}
}

// CenterHorizontal centers content horizontally within a given width.
func CenterHorizontal(content string, width int) string {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(content)
}

// CenterBoth centers content both horizontally and vertically.
func CenterBoth(content string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		AlignVertical(lipgloss.Center).
		Render(content)
}
