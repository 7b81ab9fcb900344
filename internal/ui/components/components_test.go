package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/models"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/ui/styles"
)

func series(t *testing.T, values []float64, labels []string) models.NormalizedSeries {
	t.Helper()
	s, err := models.NewSeries(values, labels)
	if err != nil {
		t.Fatalf("NewSeries() error = %v", err)
	}
	return s
}

func int64p(v int64) *int64 { return &v }

func TestSpinner(t *testing.T) {
	s := NewSpinner("Loading forecast")
	if s.Label() != "Loading forecast" {
		t.Errorf("Label() = %q, want Loading forecast", s.Label())
	}
	if s.Tick() == nil {
		t.Error("Tick() returned nil")
	}
	if _, cmd := s.Update(spinner.TickMsg{}); cmd == nil {
		t.Error("Update(TickMsg) should schedule the next tick")
	}
	if view := s.View(40, 5); !strings.Contains(view, "Loading forecast") {
		t.Errorf("View() = %q, missing label", view)
	}
}

func TestRenderSeriesChart(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if got := RenderSeriesChart(models.NormalizedSeries{}, 40, 5, ""); !strings.Contains(got, NoData) {
			t.Errorf("RenderSeriesChart() = %q, want %q", got, NoData)
		}
	})

	t.Run("labels under chart", func(t *testing.T) {
		s := series(t, []float64{1, 3, 2}, []string{"Mon", "Tue", "Wed"})
		got := RenderSeriesChart(s, 30, 4, "CPU")
		for _, want := range []string{"CPU", "Mon", "Tue", "Wed"} {
			if !strings.Contains(got, want) {
				t.Errorf("RenderSeriesChart() missing %q", want)
			}
		}
	})

	t.Run("tiny dimensions are clamped", func(t *testing.T) {
		s := series(t, []float64{1, 2}, []string{"a", "b"})
		if got := RenderSeriesChart(s, 1, 1, ""); got == "" {
			t.Error("RenderSeriesChart() returned empty string")
		}
	})
}

func TestRenderMultiSeriesChart(t *testing.T) {
	cpu := series(t, []float64{1, 2, 3}, []string{"Mon", "Tue", "Wed"})
	storage := series(t, []float64{3, 2}, []string{"Mon", "Tue"})

	got := RenderMultiSeriesChart([]Series{
		{Label: "CPU", Series: cpu, Color: asciigraph.DarkOrange, Legend: styles.CPU},
		{Label: "Storage", Series: storage, Color: asciigraph.Green, Legend: styles.Storage},
	}, 30, 4, "demand")

	for _, want := range []string{"CPU", "Storage", "Wed", "demand"} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderMultiSeriesChart() missing %q", want)
		}
	}

	if got := RenderMultiSeriesChart(nil, 30, 4, ""); !strings.Contains(got, NoData) {
		t.Errorf("RenderMultiSeriesChart(nil) = %q, want %q", got, NoData)
	}
}

func TestPadTo(t *testing.T) {
	got := padTo([]float64{1, 2}, 4)
	want := []float64{1, 2, 2, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("padTo() = %v, want %v", got, want)
		}
	}
	if got := padTo(nil, 3); len(got) != 0 {
		t.Errorf("padTo(nil) = %v, want empty", got)
	}
}

func TestLabelRow(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		width  int
		want   []string
		absent []string
	}{
		{"spread", []string{"Mon", "Sun"}, 20, []string{"Mon", "Sun"}, nil},
		{"single", []string{"Jan"}, 20, []string{"Jan"}, nil},
		{"collisions dropped", []string{"Day 1", "Day 2", "Day 3"}, 6, []string{"Day 1"}, []string{"Day 2"}},
		{"empty", nil, 20, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := labelRow(tt.labels, tt.width)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("labelRow() = %q, missing %q", got, w)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(got, a) {
					t.Errorf("labelRow() = %q, should drop %q", got, a)
				}
			}
		})
	}
}

func TestRenderBarChart(t *testing.T) {
	if got := RenderBarChart(nil, nil, 40); got != "" {
		t.Errorf("RenderBarChart(nil) = %q, want empty", got)
	}

	got := RenderBarChart([]float64{10, 5}, []string{"East", "West"}, 40)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if strings.Count(lines[0], "█") <= strings.Count(lines[1], "█") {
		t.Errorf("larger value should draw a longer bar:\n%s", got)
	}
	if !strings.Contains(lines[1], "5.0") {
		t.Errorf("line = %q, missing value", lines[1])
	}
}

func TestRenderSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		width  int
		want   string
	}{
		{"empty", nil, 10, ""},
		{"rising", []float64{1, 2, 3}, 3, "▁▄█"},
		{"flat", []float64{5, 5}, 2, "▅▅"},
		{"zero width", []float64{1}, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderSparkline(tt.values, tt.width); got != tt.want {
				t.Errorf("RenderSparkline() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderLegend(t *testing.T) {
	got := RenderLegend([]LegendItem{
		{Label: "CPU", Color: lipgloss.Color("1")},
		{Label: "Storage", Color: lipgloss.Color("2")},
	})
	if !strings.Contains(got, "CPU") || !strings.Contains(got, "Storage") {
		t.Errorf("RenderLegend() = %q", got)
	}
}

func TestRenderKPICard(t *testing.T) {
	tests := []struct {
		name string
		kpi  models.KPI
		want []string
	}{
		{
			name: "with delta",
			kpi:  models.KPI{Title: "CPU demand", Value: "7,450", Delta: int64p(250), Subtitle: "next period"},
			want: []string{"CPU demand", "7,450", "+250", "next period"},
		},
		{
			name: "no delta",
			kpi:  models.KPI{Title: "Peak", Value: "9"},
			want: []string{"Peak", "n/a"},
		},
		{
			name: "empty value",
			kpi:  models.KPI{Title: "Utilization"},
			want: []string{"Utilization", "-"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderKPICard(tt.kpi, 30)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("RenderKPICard() missing %q:\n%s", w, got)
				}
			}
		})
	}
}

func TestRenderKPIRow(t *testing.T) {
	if got := RenderKPIRow(nil, 80); got != "" {
		t.Errorf("RenderKPIRow(nil) = %q, want empty", got)
	}

	cards := []models.KPI{{Title: "A", Value: "1"}, {Title: "B", Value: "2"}, {Title: "C", Value: "3"}}

	wide := RenderKPIRow(cards, 120)
	narrow := RenderKPIRow(cards, 30)
	if lipgloss.Height(narrow) <= lipgloss.Height(wide) {
		t.Errorf("narrow row height %d should exceed wide row height %d",
			lipgloss.Height(narrow), lipgloss.Height(wide))
	}
}

func TestRenderSectionNotice(t *testing.T) {
	failed := models.FailureState{Status: models.StatusError, Error: "status 503"}

	tests := []struct {
		name     string
		state    models.FailureState
		fallback bool
		want     []string
	}{
		{"ready", models.FailureState{Status: models.StatusReady}, false, nil},
		{"loading", models.FailureState{Status: models.StatusLoading}, false, nil},
		{"error with last data", failed, false, []string{"report failed", "status 503", RetryHint, "last loaded"}},
		{"error with placeholder", failed, true, []string{"placeholder", RetryHint}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderSectionNotice("report", tt.state, tt.fallback, 80)
			if tt.want == nil {
				if got != "" {
					t.Errorf("RenderSectionNotice() = %q, want empty", got)
				}
				return
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("RenderSectionNotice() missing %q:\n%s", w, got)
				}
			}
		})
	}
}

func TestBadges(t *testing.T) {
	if got := RenderStatusBadge(models.FailureState{Status: models.StatusReady}); !strings.Contains(got, "ready") {
		t.Errorf("RenderStatusBadge() = %q", got)
	}
	if got := RenderFallbackBadge(false); got != "" {
		t.Errorf("RenderFallbackBadge(false) = %q, want empty", got)
	}
	if got := RenderFallbackBadge(true); !strings.Contains(got, "placeholder") {
		t.Errorf("RenderFallbackBadge(true) = %q", got)
	}
}

func TestSectionCard(t *testing.T) {
	ok := SectionCard("Regions", models.FailureState{Status: models.StatusReady}, false, "East", 60)
	if !strings.Contains(ok, "Regions") || !strings.Contains(ok, "East") {
		t.Errorf("SectionCard() = %q", ok)
	}
	if strings.Contains(ok, RetryHint) {
		t.Error("ready card should not show retry hint")
	}

	failed := SectionCard("Regions", models.FailureState{Status: models.StatusError, Error: "boom"}, true, "East", 60)
	for _, w := range []string{"boom", RetryHint, "[placeholder]", "East"} {
		if !strings.Contains(failed, w) {
			t.Errorf("failed SectionCard() missing %q:\n%s", w, failed)
		}
	}
}
