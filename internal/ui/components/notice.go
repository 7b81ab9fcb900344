package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/models"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/ui/styles"
)

// RetryHint tells the user how to reload a failed section.
const RetryHint = "press r to retry"

// RenderSectionNotice renders the inline banner for a failed section. It
// returns "" unless the section is in the error state. fallback marks that
// the data below is placeholder rather than the last good load.
func RenderSectionNotice(section string, state models.FailureState, fallback bool, width int) string {
	if state.Status != models.StatusError {
		return ""
	}

	msg := styles.ErrorTextStyle.Bold(true).Render("✗ "+section+" failed") + " " +
		styles.ErrorTextStyle.Render(state.Error)
	hint := RetryHint
	if fallback {
		hint = "showing placeholder data · " + hint
	} else {
		hint = "showing last loaded data · " + hint
	}

	return lipgloss.NewStyle().Width(max(width, 20)).Render(
		lipgloss.JoinVertical(lipgloss.Left, msg, styles.HelpStyle.Render(hint)),
	)
}

// RenderStatusBadge renders a compact section status such as "● ready".
func RenderStatusBadge(state models.FailureState) string {
	return styles.SectionStatusStyle(state.Status).Render("● " + string(state.Status))
}

// RenderFallbackBadge marks a section that is showing placeholder data.
func RenderFallbackBadge(fallback bool) string {
	if !fallback {
		return ""
	}
	return styles.WarningTextStyle.Render("[placeholder]")
}

// SectionCard wraps content in a card titled with the section name. Failed
// sections get a red border and the retry notice above their content.
func SectionCard(title string, state models.FailureState, fallback bool, content string, width int) string {
	inner := max(width-4, 16)

	header := styles.CardTitleStyle.Render(title)
	if badge := RenderFallbackBadge(fallback); badge != "" {
		header += " " + badge
	}

	parts := []string{header}
	if notice := RenderSectionNotice(title, state, fallback, inner); notice != "" {
		parts = append(parts, notice)
	}
	if content != "" {
		parts = append(parts, content)
	}

	card := styles.CardStyle
	if state.Status == models.StatusError {
		card = styles.ErrorCardStyle
	}
	return card.Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
