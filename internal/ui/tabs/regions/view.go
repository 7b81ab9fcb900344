package regions

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/models"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/pipeline/kpi"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/services"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/services/views"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/ui/components"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/ui/styles"
)

const minRegionCardWidth = 44

// View renders the regions tab.
func (m *Model) View() string {
	snap := m.state.Snapshot().Regions
	width := max(m.width-6, 40)

	title := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Regions"),
		styles.HelpStyle.Render(fmt.Sprintf("%d-step forecast per region", views.RegionSlots)),
		"",
	)

	var body string
	switch {
	case snap.HasData:
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.renderUsage(snap.Data, width-4),
			"",
			m.renderCards(snap.Data, width-4),
		)
	case snap.State.Status == models.StatusError:
		body = styles.HelpStyle.Render("No region data")
	default:
		body = components.RenderShimmer(services.SectionRegions, width-4, 0)
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left,
		title,
		components.SectionCard("Multi-region comparison", snap.State, snap.Fallback, body, width),
	))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderUsage compares current CPU usage across regions.
func (m *Model) renderUsage(data views.Regions, width int) string {
	if len(data.Regions) == 0 {
		return styles.HelpStyle.Render("No regions reported")
	}
	values := make([]float64, len(data.Regions))
	labels := make([]string, len(data.Regions))
	for i, r := range data.Regions {
		values[i] = r.Region.CPUUsage
		labels[i] = r.Region.Name
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.SubTitleStyle.Render("Current CPU usage"),
		components.RenderBarChart(values, labels, width),
	)
}

// renderCards lays region cards out in as many columns as fit.
func (m *Model) renderCards(data views.Regions, width int) string {
	perRow := max(width/minRegionCardWidth, 1)
	cardWidth := width / perRow

	var rows []string
	for start := 0; start < len(data.Regions); start += perRow {
		end := min(start+perRow, len(data.Regions))
		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cards = append(cards, m.renderCard(data.Regions[i], cardWidth, i == m.selected))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderCard(r views.Region, width int, selected bool) string {
	title := styles.CardTitleStyle.Render(r.Region.Name)
	if selected {
		title = styles.FocusedStyle.Render("▸ " + r.Region.Name)
	}

	usage := fmt.Sprintf("%s %s   %s %s",
		styles.LabelStyle.Render("cpu"), styles.ValueStyle.Render(r.CPU.Value),
		styles.LabelStyle.Render("storage"), styles.ValueStyle.Render(r.Storage.Value),
	)

	values := r.Forecast.Values()
	rounded := r.Forecast.Rounded()
	steps := make([]string, len(rounded))
	for i, v := range rounded {
		steps[i] = kpi.Format(float64(v), kpi.UnitNone)
	}
	forecast := components.RenderSparkline(values, len(values)) + "  " +
		styles.HelpStyle.Render(strings.Join(steps, " → "))

	peak := "-"
	if len(r.Region.PeakHours) > 0 {
		peak = strings.Join(r.Region.PeakHours, ", ")
	}

	lines := []string{
		title,
		usage,
		forecast,
		styles.LabelStyle.Render("peak ") + styles.ValueStyle.Render(peak),
	}
	if r.Region.Recommendation != "" {
		lines = append(lines, styles.HelpStyle.Width(max(width-6, 20)).Render(r.Region.Recommendation))
	}

	card := styles.CardStyle
	if selected {
		card = card.BorderForeground(styles.Primary)
	}
	return card.Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
