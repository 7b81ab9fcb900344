package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/models"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/pipeline/kpi"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/ui/styles"
)

// MinKPICardWidth is the narrowest card that still fits a value and delta.
const MinKPICardWidth = 18

// RenderKPICard renders a headline figure with its delta. A missing delta
// shows as "n/a" so the card never claims a change it cannot compute.
func RenderKPICard(k models.KPI, width int) string {
	width = max(width, MinKPICardWidth)

	value := k.Value
	if value == "" {
		value = "-"
	}
	delta := styles.DeltaStyle(k.Delta).Render("Δ " + kpi.FormatDelta(k.Delta))

	lines := []string{
		styles.CardTitleStyle.Render(k.Title),
		styles.KPIValueStyle.Render(value) + "  " + delta,
	}
	if k.Subtitle != "" {
		lines = append(lines, styles.HelpStyle.Render(k.Subtitle))
	}

	// CardStyle adds two columns of border and two of padding.
	return styles.CardStyle.Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// RenderKPIRow lays cards out side by side, splitting width evenly. Cards
// wrap onto a second row when the width cannot hold them all.
func RenderKPIRow(cards []models.KPI, width int) string {
	if len(cards) == 0 {
		return ""
	}
	perRow := len(cards)
	for perRow > 1 && width/perRow < MinKPICardWidth {
		perRow--
	}
	cardWidth := width / perRow

	var rows []string
	for start := 0; start < len(cards); start += perRow {
		end := min(start+perRow, len(cards))
		rendered := make([]string, 0, end-start)
		for _, c := range cards[start:end] {
			rendered = append(rendered, RenderKPICard(c, cardWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
