// Package comparison provides the model comparison tab: a sortable table of
// forecasting model metrics with normalized scores.
package comparison

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/app"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/pipeline/ranking"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/services/views"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/ui/components"
)

type keyMap struct {
	NextColumn key.Binding
	PrevColumn key.Binding
	Sort       key.Binding
	Up         key.Binding
	Down       key.Binding
	Best       key.Binding
	Raw        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextColumn: key.NewBinding(
			key.WithKeys("]", "."),
			key.WithHelp("]/.", "next column"),
		),
		PrevColumn: key.NewBinding(
			key.WithKeys("[", ","),
			key.WithHelp("[/,", "prev column"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s", "enter"),
			key.WithHelp("s", "sort by column"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "prev model"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "next model"),
		),
		Best: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "jump to best"),
		),
		Raw: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "raw values/scores"),
		),
	}
}

// Model represents the model comparison tab state.
type Model struct {
	state  *app.State
	keys   keyMap
	width  int
	height int

	column   int
	selected int
	scores   bool

	bars     map[string]*components.ScoreBar
	barModel string
}

// New creates a new model comparison tab.
func New(state *app.State) *Model {
	return &Model{
		state:  state,
		keys:   defaultKeyMap(),
		scores: true,
		bars:   make(map[string]*components.ScoreBar),
	}
}

// Init initializes the tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case components.AnimationTickMsg:
		return m, m.stepBars(msg)

	case app.SnapshotMsg, app.SortedMsg, app.RefreshDoneMsg:
		m.clampSelection()
		return m, m.syncBars()

	case tea.KeyMsg:
		cmd := m.handleKeyMsg(msg)
		return m, tea.Batch(cmd, m.syncBars())
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	data := m.data()
	columns := m.columns(data)

	switch {
	case key.Matches(msg, m.keys.NextColumn):
		if len(columns) > 0 {
			m.column = (m.column + 1) % len(columns)
		}

	case key.Matches(msg, m.keys.PrevColumn):
		if len(columns) > 0 {
			m.column = (m.column - 1 + len(columns)) % len(columns)
		}

	case key.Matches(msg, m.keys.Sort):
		if m.column < len(columns) {
			sortKey := columns[m.column]
			return func() tea.Msg { return app.SortMsg{Key: sortKey} }
		}

	case key.Matches(msg, m.keys.Down):
		if n := len(data.Rows); n > 0 {
			m.selected = (m.selected + 1) % n
		}

	case key.Matches(msg, m.keys.Up):
		if n := len(data.Rows); n > 0 {
			m.selected = (m.selected - 1 + n) % n
		}

	case key.Matches(msg, m.keys.Best):
		for i, r := range data.Rows {
			if r.Best {
				m.selected = i
				break
			}
		}

	case key.Matches(msg, m.keys.Raw):
		m.scores = !m.scores
	}
	return nil
}

func (m *Model) data() views.Models {
	return m.state.Snapshot().Models.Data
}

// columns returns the sortable keys in table order: name, then each metric.
func (m *Model) columns(data views.Models) []string {
	return append([]string{ranking.KeyName}, data.Metrics...)
}

func (m *Model) clampSelection() {
	data := m.data()
	if m.selected >= len(data.Rows) {
		m.selected = max(len(data.Rows)-1, 0)
	}
	if cols := m.columns(data); m.column >= len(cols) {
		m.column = len(cols) - 1
	}
}

// syncBars points the detail bars at the selected model's scores. Only one
// animation tick is returned however many bars start moving.
func (m *Model) syncBars() tea.Cmd {
	data := m.data()
	if m.selected >= len(data.Rows) {
		return nil
	}
	row := data.Rows[m.selected]

	var tick tea.Cmd
	for _, metric := range data.Metrics {
		bar, ok := m.bars[metric]
		if !ok {
			b := components.NewScoreBar(30)
			bar = &b
			m.bars[metric] = bar
		}
		if cmd := bar.SetScore(row.Scores[metric]); cmd != nil && tick == nil {
			tick = cmd
		}
	}
	m.barModel = row.Record.Name
	return tick
}

func (m *Model) stepBars(msg components.AnimationTickMsg) tea.Cmd {
	var next tea.Cmd
	for metric, bar := range m.bars {
		updated, cmd := bar.Update(msg)
		m.bars[metric] = &updated
		if cmd != nil && next == nil {
			next = cmd
		}
	}
	return next
}

// SetSize sets the available size for the tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.PrevColumn, m.keys.NextColumn, m.keys.Sort}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.PrevColumn, m.keys.NextColumn, m.keys.Sort},
		{m.keys.Up, m.keys.Down, m.keys.Best},
		{m.keys.Raw},
	}
}
