package comparison

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/models"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/pipeline/ranking"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/services"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/services/views"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/ui/components"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/ui/styles"
)

const (
	nameWidth   = 14
	metricWidth = 11
	avgWidth    = 7
)

// View renders the model comparison tab.
func (m *Model) View() string {
	snap := m.state.Snapshot().Models
	width := max(m.width-6, 40)

	sections := []string{m.renderTitle(snap.Data)}

	var body string
	switch {
	case snap.HasData:
		body = lipgloss.JoinVertical(lipgloss.Left, m.renderTable(snap.Data), "", m.renderDetail(snap.Data))
	case snap.State.Status == models.StatusError:
		body = styles.HelpStyle.Render("No models to compare")
	default:
		body = components.RenderShimmer(services.SectionModels, width-4, 0)
	}
	sections = append(sections, components.SectionCard("Model comparison", snap.State, snap.Fallback, body, width))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderTitle(data views.Models) string {
	title := styles.TitleStyle.Render("Forecasting Models")

	sub := "scores are 0-100, higher is better"
	if data.Sort.Key != "" {
		sub = fmt.Sprintf("sorted by %s (%s) · %s", data.Sort.Key, data.Sort.Order, sub)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, styles.HelpStyle.Render(sub), "")
}

// renderTable draws one row per model. The selected column is highlighted
// and the sorted column carries an arrow.
func (m *Model) renderTable(data views.Models) string {
	if len(data.Rows) == 0 {
		return styles.HelpStyle.Render("No models")
	}

	records := make([]models.ModelMetricRecord, len(data.Rows))
	for i, r := range data.Rows {
		records[i] = r.Record
	}
	dirs, _ := ranking.Directions(records, data.Metrics)

	columns := m.columns(data)
	header := make([]string, 0, len(columns)+1)
	for i, col := range columns {
		w := metricWidth
		label := col
		if col == ranking.KeyName {
			w = nameWidth
			label = "model"
		} else if d, ok := dirs[col]; ok {
			label += directionMark(d)
		}
		if col == data.Sort.Key {
			label += sortMark(data.Sort.Order)
		}

		style := styles.TableHeaderStyle
		if i == m.column {
			style = style.Inherit(styles.TableSelectedStyle)
		}
		header = append(header, style.Width(w).Render(label))
	}
	header = append(header, styles.TableHeaderStyle.Width(avgWidth).Render("avg"))

	lines := []string{"  " + lipgloss.JoinHorizontal(lipgloss.Top, header...)}
	for i, r := range data.Rows {
		lines = append(lines, m.renderRow(i, r, data.Metrics))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderRow(i int, r models.ModelRanking, metrics []string) string {
	cursor := "  "
	nameStyle := styles.ValueStyle
	if i == m.selected {
		cursor = styles.FocusedStyle.Render("▸ ")
		nameStyle = styles.FocusedStyle
	}

	name := r.Record.Name
	if r.Best {
		name += " ★"
	}
	cells := []string{nameStyle.Width(nameWidth).Render(name)}

	for _, metric := range metrics {
		cells = append(cells, lipgloss.NewStyle().Width(metricWidth).Render(m.cell(r, metric)))
	}
	cells = append(cells, styles.ScoreStyle(r.Average).Width(avgWidth).Render(fmt.Sprintf("%d", r.Average)))

	return cursor + lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (m *Model) cell(r models.ModelRanking, metric string) string {
	raw, ok := r.Record.Metric(metric)
	if !ok {
		return styles.HelpStyle.Render("-")
	}
	if !m.scores {
		return styles.ValueStyle.Render(formatRaw(raw))
	}
	score := r.Scores[metric]
	return styles.ScoreStyle(score).Render(fmt.Sprintf("%d", score))
}

// renderDetail shows the selected model's scores as animated bars.
func (m *Model) renderDetail(data views.Models) string {
	if m.selected >= len(data.Rows) {
		return ""
	}
	row := data.Rows[m.selected]

	title := styles.SubTitleStyle.Render(row.Record.Name)
	if row.Best {
		title += " " + styles.BestBadgeStyle.Render("best by "+ranking.CanonicalMetric)
	}

	lines := []string{title}
	barWidth := max(min(m.width-30, 50), 15)
	for _, metric := range data.Metrics {
		label := styles.LabelStyle.Width(8).Render(metric)
		if _, ok := row.Scores[metric]; !ok {
			lines = append(lines, label+" "+styles.HelpStyle.Render("not reported"))
			continue
		}

		var bar string
		if b, ok := m.bars[metric]; ok && m.barModel == row.Record.Name {
			bar = b.View(barWidth)
		} else {
			bar = components.RenderScoreCell(row.Scores[metric], barWidth)
		}
		raw, _ := row.Record.Metric(metric)
		lines = append(lines, label+" "+bar+"  "+styles.HelpStyle.Render(formatRaw(raw)))
	}

	if missing := missingMetrics(row, data.Metrics); len(missing) > 0 {
		lines = append(lines, styles.WarningTextStyle.Render("average excludes "+strings.Join(missing, ", ")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func missingMetrics(r models.ModelRanking, metrics []string) []string {
	var out []string
	for _, metric := range metrics {
		if _, ok := r.Scores[metric]; !ok {
			out = append(out, metric)
		}
	}
	slices.Sort(out)
	return out
}

func formatRaw(v float64) string {
	if v >= 100 {
		return fmt.Sprintf("%.1f", v)
	}
	return fmt.Sprintf("%.3g", v)
}

func directionMark(d models.Direction) string {
	if d == models.HigherIsBetter {
		return "↑"
	}
	return "↓"
}

func sortMark(o ranking.Order) string {
	if o == ranking.Descending {
		return " ▼"
	}
	return " ▲"
}
