// Package forecast provides the forecast tab: demand charts, KPI cards, the
// capacity report, model health and the scaling suggestion.
package forecast

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/app"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/services"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/ui/components"
)

// keyMap defines the key bindings specific to the forecast tab.
type keyMap struct {
	Horizon      key.Binding
	Split        key.Binding
	Retry        key.Binding
	ScrollUp     key.Binding
	ScrollDown   key.Binding
	ScrollTop    key.Binding
	ScrollBottom key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Horizon: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "toggle 7/30 day horizon"),
		),
		Split: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "combined/split charts"),
		),
		Retry: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "retry failed sections"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "scroll down"),
		),
		ScrollTop: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		ScrollBottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
	}
}

// Model represents the forecast tab state.
type Model struct {
	state    *app.State
	spinner  components.LoadingSpinner
	keys     keyMap
	viewport viewport.Model
	width    int
	height   int
	split    bool
	frame    int
}

// New creates a new forecast tab.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		spinner:  components.NewSpinner("Loading forecast..."),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init starts the loading spinner.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		m.frame++
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Horizon):
		return func() tea.Msg { return app.ToggleHorizonMsg{} }

	case key.Matches(msg, m.keys.Split):
		m.split = !m.split

	case key.Matches(msg, m.keys.Retry):
		failed := m.failedSections()
		if len(failed) == 0 {
			return nil
		}
		return func() tea.Msg { return app.RefreshMsg{Sections: failed} }

	case key.Matches(msg, m.keys.ScrollTop):
		m.viewport.GotoTop()

	case key.Matches(msg, m.keys.ScrollBottom):
		m.viewport.GotoBottom()

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

// failedSections returns the failed sections this tab shows.
func (m *Model) failedSections() []string {
	var out []string
	for _, name := range m.state.FailedSections() {
		switch name {
		case services.SectionForecast, services.SectionReport,
			services.SectionMonitoring, services.SectionOptimization,
			services.SectionCapacity:
			out = append(out, name)
		}
	}
	return out
}

// SetSize sets the available size for the tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Horizon, m.keys.Split, m.keys.Retry}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Horizon, m.keys.Split, m.keys.Retry},
		{m.keys.ScrollUp, m.keys.ScrollDown, m.keys.ScrollTop, m.keys.ScrollBottom},
	}
}
