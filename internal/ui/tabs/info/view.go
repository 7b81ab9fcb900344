package info

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/models"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/section"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/services"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/ui/components"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/ui/styles"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderSectionsCard(),
		m.renderServiceCard(),
		m.renderConfigCard(),
		m.renderAboutCard(),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Section health, model service, configuration and build")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 90)
}

// sectionInfo is the per-section view of one snapshot entry.
type sectionInfo struct {
	name     string
	state    models.FailureState
	fallback bool
	updated  string
}

func infoOf[T any](name string, s section.State[T]) sectionInfo {
	updated := "never"
	if !s.UpdatedAt.IsZero() {
		updated = humanize.Time(s.UpdatedAt)
	}
	return sectionInfo{name: name, state: s.State, fallback: s.Fallback, updated: updated}
}

func (m *Model) sectionInfos() []sectionInfo {
	snap := m.state.Snapshot()
	infos := []sectionInfo{
		infoOf(services.SectionForecast, snap.Forecast),
		infoOf(services.SectionReport, snap.Report),
		infoOf(services.SectionMonitoring, snap.Monitoring),
		infoOf(services.SectionRegions, snap.Regions),
		infoOf(services.SectionOptimization, snap.Optimization),
		infoOf(services.SectionCapacity, snap.Capacity),
		infoOf(services.SectionService, snap.Service),
		infoOf(services.SectionModels, snap.Models),
	}

	if m.state.IsInitialLoading() {
		for i := range infos {
			infos[i].state = models.FailureState{Status: models.StatusLoading}
		}
	}
	return infos
}

// renderSectionsCard lists every section with its load status.
func (m *Model) renderSectionsCard() string {
	rows := []string{styles.CardTitleStyle.Render("Sections"), ""}

	for _, s := range m.sectionInfos() {
		line := styles.LabelStyle.Width(14).Render(s.name) + " " +
			lipgloss.NewStyle().Width(12).Render(components.RenderStatusBadge(s.state)) + " " +
			styles.HelpStyle.Width(16).Render(s.updated)
		if badge := components.RenderFallbackBadge(s.fallback); badge != "" {
			line += " " + badge
		}
		rows = append(rows, line)
		if s.state.Status == models.StatusError {
			rows = append(rows, "  "+styles.ErrorTextStyle.Render("└ "+s.state.Error))
		}
	}

	if failed := m.state.FailedSections(); len(failed) > 0 {
		rows = append(rows, "", styles.HelpStyle.Render(fmt.Sprintf("%d failed · press R to retry them, r to reload all", len(failed))))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderServiceCard shows what the forecast service has loaded.
func (m *Model) renderServiceCard() string {
	s := m.state.Snapshot().Service
	if !s.HasData {
		return components.SectionCard("Model service", s.State, s.Fallback,
			styles.HelpStyle.Render("No status yet"), m.cardWidth())
	}

	st := s.Data.Status
	overall := styles.SuccessTextStyle.Render("all loaded")
	if !s.Data.Loaded {
		overall = styles.WarningTextStyle.Render("not fully loaded")
	}

	rows := []string{
		overall,
		"",
		m.renderConfigRow("CPU model", modelLine(st.CPUModel)),
		m.renderConfigRow("Storage model", modelLine(st.StorageModel)),
		m.renderConfigRow("Dataset", fmt.Sprintf("%s · %s rows × %d columns",
			st.Dataset.Status, humanize.Comma(int64(st.Dataset.Rows)), st.Dataset.Columns)),
	}
	return components.SectionCard("Model service", s.State, s.Fallback,
		lipgloss.JoinVertical(lipgloss.Left, rows...), m.cardWidth())
}

func modelLine(info models.ModelInfo) string {
	line := info.Status
	if info.Type != "" {
		line += " · " + info.Type
	}
	if info.Features > 0 {
		line += fmt.Sprintf(" · %d features", info.Features)
	}
	return line
}

// renderConfigCard renders the effective configuration.
func (m *Model) renderConfigCard() string {
	rows := []string{styles.CardTitleStyle.Render("Configuration"), ""}

	if m.config == nil {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	} else {
		c := m.config
		params := m.state.Snapshot().Params
		horizon := c.Horizon
		if params.Horizon > 0 {
			horizon = params.Horizon
		}

		metricsAddr := c.MetricsAddr
		if metricsAddr == "" {
			metricsAddr = "disabled"
		}
		logFile := c.LogFile
		if logFile == "" {
			logFile = "default"
		}

		rows = append(rows,
			m.renderConfigRow("Forecast API", c.APIURL),
			m.renderConfigRow("Region", c.Region),
			m.renderConfigRow("Horizon", fmt.Sprintf("%d days", horizon)),
			m.renderConfigRow("Capacity", humanize.Commaf(c.Capacity)),
			m.renderConfigRow("Model MAPE", fmt.Sprintf("%.1f%%", c.MAPE)),
			m.renderConfigRow("Regions", strings.Join(c.Regions, ", ")),
			m.renderConfigRow("Model metrics", c.ModelMetricsPath),
			m.renderConfigRow("Refresh", c.RefreshInterval.String()),
			m.renderConfigRow("Timeout", c.RequestTimeout.String()),
			m.renderConfigRow("Concurrency", fmt.Sprintf("%d", c.MaxConcurrentFetches)),
			m.renderConfigRow("Log", c.LogLevel+" · "+logFile),
			m.renderConfigRow("Metrics", metricsAddr),
		)
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderConfigRow renders a configuration key-value row.
func (m *Model) renderConfigRow(label, value string) string {
	return styles.LabelStyle.Width(16).Render(label+":") + " " + styles.ValueStyle.Render(value)
}

// renderAboutCard renders the version information card.
func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("About " + version.AppName),
		"",
		m.renderConfigRow("Version", version.GetVersion()),
		m.renderConfigRow("Commit", version.GetCommit()),
		m.renderConfigRow("Built", version.GetDate()),
		m.renderConfigRow("Go Version", runtime.Version()),
		m.renderConfigRow("Platform", runtime.GOOS+"/"+runtime.GOARCH),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
