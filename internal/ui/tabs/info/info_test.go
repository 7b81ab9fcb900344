package info

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/app"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/config"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/models"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/section"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/services"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/services/views"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/version"
)

func testConfig() *config.Config {
	return &config.Config{
		APIURL:               "http://forecast.test",
		Region:               "East",
		Horizon:              7,
		Capacity:             10000,
		MAPE:                 8.5,
		Regions:              []string{"East US", "West US"},
		ModelMetricsPath:     "/tmp/models.yaml",
		RefreshInterval:      time.Minute,
		RequestTimeout:       15 * time.Second,
		MaxConcurrentFetches: 4,
		LogLevel:             "info",
	}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMain(m *testing.M) {
	version.Version, version.Commit, version.Date = "v1.2.3", "abc123", "2026-01-01"
	m.Run()
}

func TestNew(t *testing.T) {
	m := New(app.NewState(), testConfig())
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() != nil {
		t.Error("Init() should return nil")
	}
}

func TestModel_View(t *testing.T) {
	state := app.NewState()
	state.SetSnapshot(services.Snapshot{
		Params: services.Params{Horizon: 30},
		Forecast: section.State[views.Forecast]{
			State:     models.FailureState{Status: models.StatusReady},
			UpdatedAt: time.Now(),
		},
		Report: section.State[views.Report]{
			State:    models.FailureState{Status: models.StatusError, Error: "status 502"},
			Fallback: true,
		},
	})
	m := New(state, testConfig())
	m.SetSize(100, 80)

	view := m.View()
	for _, want := range []string{
		"Sections", "forecast", "ready", "report", "status 502", "[placeholder]", "never",
		"press R", "http://forecast.test", "30 days", "10,000", "East US, West US", "disabled",
		"v1.2.3", "abc123",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestModel_ViewServiceCard(t *testing.T) {
	loaded := models.ModelInfo{Status: models.LoadedStatus, Type: "XGBRegressor", Features: 12}
	state := app.NewState()
	state.SetSnapshot(services.Snapshot{
		Service: section.State[views.ServiceStatus]{
			State:   models.FailureState{Status: models.StatusReady},
			HasData: true,
			Data: views.ServiceStatus{Loaded: true, Status: models.ServiceStatus{
				CPUModel:     loaded,
				StorageModel: loaded,
				Dataset:      models.DatasetInfo{Status: models.LoadedStatus, Rows: 2190, Columns: 14},
			}},
		},
	})
	m := New(state, testConfig())
	m.SetSize(100, 80)

	view := m.View()
	for _, want := range []string{"Model service", "all loaded", "XGBRegressor", "12 features", "2,190 rows", "capacity", "service"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestModel_ViewServiceFallback(t *testing.T) {
	state := app.NewState()
	state.SetSnapshot(services.Snapshot{
		Service: section.State[views.ServiceStatus]{
			State:    models.FailureState{Status: models.StatusError, Error: "metrics response missing cpu_model_status: model not loaded"},
			HasData:  true,
			Fallback: true,
			Data:     views.FallbackServiceStatus(),
		},
	})
	m := New(state, testConfig())
	m.SetSize(100, 80)

	view := m.View()
	for _, want := range []string{"not fully loaded", "unknown", "model not loaded"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestModel_ViewBeforeFirstSnapshot(t *testing.T) {
	m := New(app.NewState(), nil)
	m.SetSize(100, 80)

	view := m.View()
	if !strings.Contains(view, "Configuration not loaded") {
		t.Error("View() should note missing configuration")
	}
	if strings.Contains(view, "● ready") || strings.Contains(view, "● error") {
		t.Error("every section should read loading before the first snapshot")
	}
}

func TestModel_Retry(t *testing.T) {
	state := app.NewState()
	m := New(state, testConfig())

	state.SetSnapshot(services.Snapshot{})
	if _, cmd := m.Update(keyMsg("R")); cmd != nil {
		t.Error("R with nothing failed should be a no-op")
	}

	state.SetSnapshot(services.Snapshot{
		Monitoring: section.State[views.Monitoring]{State: models.FailureState{Status: models.StatusError, Error: "x"}},
		Models:     section.State[views.Models]{State: models.FailureState{Status: models.StatusError, Error: "y"}},
	})
	_, cmd := m.Update(keyMsg("R"))
	if cmd == nil {
		t.Fatal("R should request a refresh of failed sections")
	}
	msg, ok := cmd().(app.RefreshMsg)
	if !ok {
		t.Fatalf("R produced %T, want RefreshMsg", cmd())
	}
	if len(msg.Sections) != 2 || msg.Sections[0] != services.SectionMonitoring || msg.Sections[1] != services.SectionModels {
		t.Errorf("Sections = %v, want [monitoring models]", msg.Sections)
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState(), testConfig())
	if len(m.ShortHelp()) == 0 || len(m.FullHelp()) == 0 {
		t.Error("help bindings are empty")
	}
}
