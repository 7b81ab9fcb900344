// Package regions provides the multi-region comparison tab.
package regions

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/app"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/models"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/services"
)

type keyMap struct {
	Next  key.Binding
	Prev  key.Binding
	Retry key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "next region"),
		),
		Prev: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "prev region"),
		),
		Retry: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "retry regions"),
		),
	}
}

// Model represents the regions tab state.
type Model struct {
	state    *app.State
	keys     keyMap
	viewport viewport.Model
	width    int
	height   int
	selected int
}

// New creates a new regions tab.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	n := len(m.state.Snapshot().Regions.Data.Regions)
	switch {
	case key.Matches(keyMsg, m.keys.Next):
		if n > 0 {
			m.selected = (m.selected + 1) % n
		}
	case key.Matches(keyMsg, m.keys.Prev):
		if n > 0 {
			m.selected = (m.selected - 1 + n) % n
		}
	case key.Matches(keyMsg, m.keys.Retry):
		if m.state.SectionStatus(services.SectionRegions).Status == models.StatusError {
			return m, func() tea.Msg { return app.RefreshMsg{Sections: []string{services.SectionRegions}} }
		}
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(keyMsg)
		return m, cmd
	}
	return m, nil
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
	return []key.Binding{m.keys.Next, m.keys.Prev, m.keys.Retry}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Next, m.keys.Prev},
		{m.keys.Retry},
	}
}
