package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/ui/styles"
)

// LoadingSpinner is shown by a tab until its first snapshot arrives.
type LoadingSpinner struct {
	spinner spinner.Model
	label   string
}

// NewSpinner creates a loading spinner with the given label.
func NewSpinner(label string) LoadingSpinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)
	return LoadingSpinner{spinner: s, label: label}
}

// Tick returns the command that starts the spinner.
func (l LoadingSpinner) Tick() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner on its own tick messages.
func (l LoadingSpinner) Update(msg tea.Msg) (LoadingSpinner, tea.Cmd) {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return l, cmd
}

// Label returns the current label.
func (l LoadingSpinner) Label() string {
	return l.label
}

// View renders the spinner and label centered in width x height.
func (l LoadingSpinner) View(width, height int) string {
	content := l.spinner.View() + " " + lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(l.label)
	return styles.CenterBoth(content, width, height)
}
