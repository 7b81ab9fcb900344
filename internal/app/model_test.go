package app

import (
	"errors"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/config"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/models"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/section"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/services"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/services/views"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/stub"
)

// newStubManager returns a manager talking to an in-process forecast stub.
func newStubManager(t *testing.T) (*services.Manager, *stub.Service) {
	t.Helper()

	svc := stub.New(8.5)
	srv := httptest.NewServer(stub.NewRouter(svc))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		APIURL:               srv.URL,
		Region:               "East",
		Horizon:              7,
		Capacity:             10000,
		MAPE:                 8.5,
		Regions:              []string{"East", "West"},
		ModelMetricsPath:     filepath.Join(t.TempDir(), "models.yaml"),
		RequestTimeout:       2 * time.Second,
		MaxConcurrentFetches: 2,
	}
	mgr, err := services.NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })
	return mgr, svc
}

// fakeTab records what it receives.
type fakeTab struct {
	name   string
	msgs   int
	width  int
	height int
}

func (f *fakeTab) Init() tea.Cmd    { return nil }
func (f *fakeTab) View() string     { return "content of " + f.name }
func (f *fakeTab) SetSize(w, h int) { f.width, f.height = w, h }

func (f *fakeTab) Update(tea.Msg) (Tab, tea.Cmd) {
	f.msgs++
	return f, nil
}

func (f *fakeTab) ShortHelp() []key.Binding {
	return []key.Binding{key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "do "+f.name))}
}
func (f *fakeTab) FullHelp() [][]key.Binding { return nil }

func fakeTabs() []Tab {
	return []Tab{&fakeTab{name: "forecast"}, &fakeTab{name: "models"}, &fakeTab{name: "regions"}, &fakeTab{name: "info"}}
}

func readyModel(mgr *services.Manager) *Model {
	m := NewModel(mgr)
	m.SetTabs(fakeTabs())
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func TestNewModel(t *testing.T) {
	model := NewModel(nil)
	if model.state == nil {
		t.Error("State should be initialized")
	}
	if model.activeTab != TabForecast {
		t.Error("Default tab should be Forecast")
	}
	if len(model.tabs) != 4 {
		t.Errorf("Should have 4 tab placeholders, got %d", len(model.tabs))
	}
}

func TestModel_Init(t *testing.T) {
	model := NewModel(nil)
	if model.Init() == nil {
		t.Error("Init returned nil command")
	}
	if len(model.state.GetNotifications()) != 1 {
		t.Error("Init should show the loading notification")
	}
}

func TestModel_Update_WindowSize(t *testing.T) {
	model := NewModel(nil)
	tabs := fakeTabs()
	model.SetTabs(tabs)

	newModel, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 50})
	m := newModel.(*Model)

	if m.width != 100 || m.height != 50 {
		t.Errorf("size = %dx%d, want 100x50", m.width, m.height)
	}
	if !m.IsReady() {
		t.Error("Model should be ready after WindowSizeMsg")
	}
	if ft := tabs[0].(*fakeTab); ft.width != 100 || ft.height != 45 {
		t.Errorf("tab size = %dx%d, want 100x45", ft.width, ft.height)
	}
}

func TestModel_TabKeys(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want TabID
	}{
		{"Two", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}}, TabModels},
		{"Three", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}}, TabRegions},
		{"Four", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'4'}}, TabInfo},
		{"Next", tea.KeyMsg{Type: tea.KeyTab}, TabModels},
		{"PrevWraps", tea.KeyMsg{Type: tea.KeyShiftTab}, TabInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := readyModel(nil)
			m.Update(tt.msg)
			if m.GetActiveTab() != tt.want {
				t.Errorf("ActiveTab = %v, want %v", m.GetActiveTab(), tt.want)
			}
		})
	}
}

func TestModel_TabSwitchMsg(t *testing.T) {
	m := readyModel(nil)
	m.Update(TabSwitchMsg{Tab: TabRegions})
	if m.GetActiveTab() != TabRegions {
		t.Errorf("ActiveTab = %v, want Regions", m.GetActiveTab())
	}
}

func TestModel_KeysReachActiveTab(t *testing.T) {
	m := readyModel(nil)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if got := m.tabs[TabForecast].(*fakeTab).msgs; got == 0 {
		t.Error("active tab did not receive key")
	}
	if got := m.tabs[TabModels].(*fakeTab).msgs; got != 0 {
		t.Errorf("inactive tab received %d messages", got)
	}
}

func TestModel_RefreshKey(t *testing.T) {
	m := readyModel(nil)
	cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if cmd == nil {
		t.Fatal("refresh key returned nil")
	}
	if msg, ok := cmd().(RefreshMsg); !ok || len(msg.Sections) != 0 {
		t.Errorf("refresh key produced %#v, want RefreshMsg for all sections", msg)
	}
}

func TestModel_QuitKey(t *testing.T) {
	m := readyModel(nil)
	cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("quit key returned nil")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit key should quit")
	}
}

func TestModel_Update_Tick(t *testing.T) {
	model := NewModel(nil)
	_, cmd := model.Update(TickMsg{Time: time.Now()})
	if cmd == nil {
		t.Error("TickMsg should return a command (next tick)")
	}
}

func TestModel_View(t *testing.T) {
	model := NewModel(nil)

	if view := model.View(); !strings.Contains(view, "Loading...") {
		t.Error("View should show Loading when not ready")
	}

	model.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	view := model.View()
	for _, want := range []string{"Forecast", "Models", "Regions", "Info", "not yet implemented"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}
}

func TestModel_ViewStatusBar(t *testing.T) {
	m := readyModel(nil)
	m.state.SetSnapshot(services.Snapshot{
		Regions: section.State[views.Regions]{
			State: models.FailureState{Status: models.StatusError, Error: "boom"},
		},
	})

	view := m.View()
	if !strings.Contains(view, "failed: regions") {
		t.Error("status bar should name the failed section")
	}
	if !strings.Contains(view, "r retry") {
		t.Error("status bar should show the retry key")
	}
}

func TestModel_Help(t *testing.T) {
	m := readyModel(nil)

	m.Update(ToggleHelpMsg{})
	if !m.showHelp {
		t.Fatal("showHelp should be true")
	}

	view := m.View()
	if !strings.Contains(view, "Keyboard Shortcuts") {
		t.Error("View should show help modal")
	}
	if !strings.Contains(view, "do forecast") {
		t.Error("help should include the active tab's bindings")
	}

	m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEsc})
	if m.showHelp {
		t.Error("showHelp should be false after esc")
	}
}

func TestModel_Notifications(t *testing.T) {
	m := readyModel(nil)

	m.Update(AddNotificationMsg{Message: "Test Note", Type: NotificationInfo})
	if len(m.state.GetNotifications()) != 1 {
		t.Errorf("Expected 1 notification, got %d", len(m.state.GetNotifications()))
	}
	if !strings.Contains(m.View(), "Test Note") {
		t.Error("View should show notification")
	}

	m.Update(RemoveNotificationMsg{ID: "nonexistent"})
	m.Update(ClearExpiredNotificationsMsg{})
}

func TestModel_LoadingMessages(t *testing.T) {
	m := NewModel(nil)

	m.Update(StartLoadingMsg{Sections: []string{services.SectionForecast}})
	if !m.state.IsLoading(services.SectionForecast) {
		t.Error("forecast should be loading")
	}
	if len(m.state.GetNotifications()) != 1 {
		t.Error("loading notification missing")
	}

	m.Update(StopLoadingMsg{Sections: []string{services.SectionForecast}})
	if m.state.AnyLoading() {
		t.Error("nothing should be loading")
	}
	if len(m.state.GetNotifications()) != 0 {
		t.Error("loading notification should be cleared")
	}
}

func TestModel_HandleServiceEvent(t *testing.T) {
	m := NewModel(nil)

	m.handleServiceEvent(services.RefreshStartedEvent{Sections: []string{services.SectionReport}})
	if !m.state.IsLoading(services.SectionReport) {
		t.Error("RefreshStartedEvent should mark sections loading")
	}

	m.handleServiceEvent(services.SectionUpdatedEvent{
		Section: services.SectionReport,
		State:   models.FailureState{Status: models.StatusReady},
	})
	if m.state.IsLoading(services.SectionReport) {
		t.Error("SectionUpdatedEvent should settle the section")
	}

	cmd := m.handleServiceEvent(services.ErrorEvent{Service: services.SectionRegions, Error: errors.New("status 503")})
	if cmd == nil {
		t.Fatal("ErrorEvent should produce a notification")
	}
	add, ok := cmd().(AddNotificationMsg)
	if !ok || add.Type != NotificationError {
		t.Fatalf("ErrorEvent produced %#v", add)
	}
	if !strings.Contains(add.Message, "regions") || !strings.Contains(add.Message, "press r") {
		t.Errorf("Message = %q, want section and retry hint", add.Message)
	}
}

func TestModel_RefreshDone(t *testing.T) {
	m := NewModel(nil)
	m.state.SetLoading(true, services.SectionForecast)

	cmds := m.handleRefreshDone(RefreshDoneMsg{
		Sections: []string{services.SectionForecast},
		Snapshot: services.Snapshot{Params: services.Params{Horizon: 30}},
	})
	if m.state.AnyLoading() {
		t.Error("refreshed sections should be settled")
	}
	if m.state.Snapshot().Params.Horizon != 30 {
		t.Error("snapshot not applied")
	}
	if len(cmds) != 1 {
		t.Errorf("success refresh should notify, got %d cmds", len(cmds))
	}

	cmds = m.handleRefreshDone(RefreshDoneMsg{
		Sections: []string{services.SectionForecast},
		Errors:   map[string]error{services.SectionForecast: errors.New("x")},
	})
	if len(cmds) != 0 {
		t.Error("failed refresh is reported through ErrorEvent, not here")
	}
}

func TestModel_WithManager(t *testing.T) {
	mgr, svc := newStubManager(t)
	svc.SetFault(stub.EndpointReport, stub.Fault{Status: 502})

	m := readyModel(mgr)

	msg := m.commands.Refresh()()
	m.Update(msg)

	snap := m.state.Snapshot()
	if snap.Forecast.State.Status != models.StatusReady {
		t.Errorf("forecast = %v, want ready", snap.Forecast.State.Status)
	}
	if snap.Report.State.Status != models.StatusError || !snap.Report.Fallback {
		t.Errorf("report = %+v, want error with fallback", snap.Report.State)
	}
	if got := m.state.FailedSections(); len(got) != 1 || got[0] != services.SectionReport {
		t.Errorf("FailedSections() = %v, want [report]", got)
	}
}

func TestModel_HandleSpinnerTick(t *testing.T) {
	model := NewModel(nil)
	_, cmd := model.Update(spinner.TickMsg{})
	if cmd == nil {
		t.Error("Spinner tick should return command")
	}
}

func TestTabID_String(t *testing.T) {
	tests := []struct {
		id   TabID
		want string
	}{
		{TabForecast, "Forecast"},
		{TabModels, "Models"},
		{TabRegions, "Regions"},
		{TabInfo, "Info"},
		{TabID(999), "Unknown"},
		{TabID(-1), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.id.String(); got != tt.want {
			t.Errorf("TabID(%d).String() = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()
	if len(km.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(km.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}
