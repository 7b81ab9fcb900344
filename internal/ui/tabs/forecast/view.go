package forecast

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/models"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/pipeline/kpi"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/services"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/ui/components"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/ui/styles"
)

const chartHeight = 8

// View renders the forecast tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return m.spinner.View(m.width, m.height)
	}

	snap := m.state.Snapshot()
	width := m.contentWidth()

	sections := []string{
		m.renderTitle(snap.Params),
		m.renderKPIs(snap, width),
		m.renderForecast(snap, width),
		m.renderReport(snap, width),
	}

	half := width / 2
	if half >= 36 {
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderMonitoring(snap, half),
			m.renderOptimization(snap, width-half),
		))
	} else {
		sections = append(sections,
			m.renderMonitoring(snap, width),
			m.renderOptimization(snap, width),
		)
	}
	sections = append(sections, m.renderCapacity(snap, width))

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) contentWidth() int {
	return max(m.width-6, 40)
}

func (m *Model) renderTitle(p services.Params) string {
	title := styles.TitleStyle.Render("Capacity Forecast")
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%s · next %d days", p.Region, p.Horizon))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// renderKPIs lays out the headline cards of every section that has data.
func (m *Model) renderKPIs(snap services.Snapshot, width int) string {
	var cards []models.KPI
	if snap.Forecast.HasData {
		cards = append(cards, snap.Forecast.Data.CPUKPI, snap.Forecast.Data.StorageKPI)
	}
	if snap.Report.HasData {
		cards = append(cards, snap.Report.Data.Utilization)
	}
	if snap.Monitoring.HasData {
		cards = append(cards, snap.Monitoring.Data.MAPE)
	}
	if len(cards) == 0 {
		return ""
	}
	return components.RenderKPIRow(cards, width)
}

// sectionBody returns the placeholder for a section that has nothing to
// show yet, or "" when the caller should render its data.
func (m *Model) sectionBody(name string, state models.FailureState, hasData bool, width int) string {
	if hasData {
		return ""
	}
	if state.Status == models.StatusError {
		return styles.HelpStyle.Render("No data")
	}
	return components.RenderShimmer(name, width-4, m.frame)
}

func (m *Model) renderForecast(snap services.Snapshot, width int) string {
	s := snap.Forecast
	if body := m.sectionBody(services.SectionForecast, s.State, s.HasData, width); body != "" {
		return components.SectionCard("Demand forecast", s.State, s.Fallback, body, width)
	}

	f := s.Data
	chartWidth := max(width-14, 20)

	var charts string
	if m.split {
		charts = lipgloss.JoinVertical(lipgloss.Left,
			components.RenderSeriesChart(f.CPU, chartWidth, chartHeight/2, "CPU"),
			"",
			components.RenderSeriesChart(f.Storage, chartWidth, chartHeight/2, "Storage (GB)"),
		)
	} else {
		charts = components.RenderMultiSeriesChart([]components.Series{
			{Label: "CPU", Series: f.CPU, Color: asciigraph.DarkOrange, Legend: styles.CPU},
			{Label: "Storage (GB)", Series: f.Storage, Color: asciigraph.Green, Legend: styles.Storage},
		}, chartWidth, chartHeight, "")
	}

	summary := fmt.Sprintf("%s %s   %s %s   %s %s",
		styles.LabelStyle.Render("mean"), styles.ValueStyle.Render(kpi.Format(f.Summary.Mean, kpi.UnitNone)),
		styles.LabelStyle.Render("min"), styles.ValueStyle.Render(kpi.Format(f.Summary.Min, kpi.UnitNone)),
		styles.LabelStyle.Render("max"), styles.ValueStyle.Render(kpi.Format(f.Summary.Max, kpi.UnitNone)),
	)

	parts := []string{charts, "", summary}
	if len(f.Defaulted) > 0 {
		parts = append(parts, styles.WarningTextStyle.Render("defaulted: "+strings.Join(f.Defaulted, ", ")))
	}

	title := fmt.Sprintf("Demand forecast · %s · %d days", orDash(f.Region), f.Horizon)
	return components.SectionCard(title, s.State, s.Fallback, lipgloss.JoinVertical(lipgloss.Left, parts...), width)
}

func (m *Model) renderReport(snap services.Snapshot, width int) string {
	s := snap.Report
	if body := m.sectionBody(services.SectionReport, s.State, s.HasData, width); body != "" {
		return components.SectionCard("Capacity report", s.State, s.Fallback, body, width)
	}

	r := s.Data
	capacity := r.Report.Capacity

	left := components.RenderSeriesChart(r.Trend, max(width/2-12, 20), chartHeight/2, "monthly demand")
	right := lipgloss.JoinVertical(lipgloss.Left,
		row("Trend", orDash(r.Report.Summary.Trend)),
		row("Average", kpi.Format(capacity.AverageForecast, kpi.UnitNone)),
		row("Capacity", kpi.Format(capacity.Capacity, kpi.UnitNone)),
		row("Utilization", kpi.Format(capacity.Utilization, kpi.UnitPercent)),
		row("Status", styles.ScaleStyle(capacity.Status).Render(orDash(string(capacity.Status)))),
		"",
		styles.HelpStyle.Width(max(width/2-6, 20)).Render(orDash(capacity.Recommendation)),
	)

	body := lipgloss.JoinVertical(lipgloss.Left,
		components.RenderKPIRow([]models.KPI{r.Demand, r.Peak}, width-4),
		lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right),
	)
	return components.SectionCard("Capacity report", s.State, s.Fallback, body, width)
}

func (m *Model) renderMonitoring(snap services.Snapshot, width int) string {
	s := snap.Monitoring
	if body := m.sectionBody(services.SectionMonitoring, s.State, s.HasData, width); body != "" {
		return components.SectionCard("Model health", s.State, s.Fallback, body, width)
	}

	mon := s.Data.Monitoring
	rows := []string{
		row("Status", styles.DriftStyle(mon.Status).Render(orDash(string(mon.Status)))),
		row("MAPE", kpi.Format(mon.MAPE, kpi.UnitPercent)),
		row("Threshold", kpi.Format(mon.Threshold, kpi.UnitPercent)),
		row("Since retrain", fmt.Sprintf("%s days", kpi.Format(mon.DaysSinceRetrain, kpi.UnitNone))),
	}
	if mon.RetrainTriggered {
		rows = append(rows, styles.WarningTextStyle.Render("retraining triggered"))
	}
	if mon.Message != "" {
		rows = append(rows, "", styles.HelpStyle.Width(max(width-6, 20)).Render(mon.Message))
	}
	return components.SectionCard("Model health", s.State, s.Fallback, lipgloss.JoinVertical(lipgloss.Left, rows...), width)
}

func (m *Model) renderOptimization(snap services.Snapshot, width int) string {
	s := snap.Optimization
	if body := m.sectionBody(services.SectionOptimization, s.State, s.HasData, width); body != "" {
		return components.SectionCard("Scaling suggestion", s.State, s.Fallback, body, width)
	}

	o := s.Data.Optimization
	change := fmt.Sprintf("%+.0f%%", o.SuggestedChange)
	rows := []string{
		row("Verdict", styles.ScaleStyle(o.Status).Render(orDash(string(o.Status)))),
		row("Action", orDash(string(o.Action))),
		row("Change", change),
		row("Next cycle", s.Data.NextCycle.Value),
		row("Load", orDash(o.LoadLevel)),
		"",
		styles.HelpStyle.Width(max(width-6, 20)).Render(orDash(o.Recommendation)),
	}
	return components.SectionCard("Scaling suggestion", s.State, s.Fallback, lipgloss.JoinVertical(lipgloss.Left, rows...), width)
}

func (m *Model) renderCapacity(snap services.Snapshot, width int) string {
	s := snap.Capacity
	if body := m.sectionBody(services.SectionCapacity, s.State, s.HasData, width); body != "" {
		return components.SectionCard("Capacity plan", s.State, s.Fallback, body, width)
	}

	c := s.Data.Capacity
	rows := []string{
		components.RenderKPIRow([]models.KPI{s.Data.Utilization, s.Data.Headroom}, width-4),
		row("Verdict", styles.ScaleStyle(c.Status).Render(orDash(string(c.Status)))),
		row("Avg forecast", kpi.Format(c.AverageForecast, kpi.UnitNone)),
		row("Capacity", kpi.Format(c.Capacity, kpi.UnitNone)),
		"",
		styles.HelpStyle.Width(max(width-6, 20)).Render(orDash(c.Recommendation)),
	}
	return components.SectionCard("Capacity plan", s.State, s.Fallback, lipgloss.JoinVertical(lipgloss.Left, rows...), width)
}

func row(label, value string) string {
	return styles.LabelStyle.Width(14).Render(label+":") + " " + styles.ValueStyle.Render(value)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
