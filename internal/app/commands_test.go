package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/models"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/pipeline/ranking"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/services"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/stub"
)

func TestCommands_Tick(t *testing.T) {
	cmds := NewCommands(nil)
	if cmds.Tick(time.Millisecond) == nil {
		t.Error("Tick returned nil")
	}
	if cmds.DefaultTick() == nil {
		t.Error("DefaultTick returned nil")
	}
}

func TestCommands_NilManager(t *testing.T) {
	cmds := NewCommands(nil)
	if cmds.Refresh() != nil {
		t.Error("Refresh() with nil manager should be nil")
	}
	if cmds.Sort("mape") != nil {
		t.Error("Sort() with nil manager should be nil")
	}
	if cmds.ToggleHorizon() != nil {
		t.Error("ToggleHorizon() with nil manager should be nil")
	}
}

func TestCommands_Notifications(t *testing.T) {
	cmds := NewCommands(nil)

	tests := []struct {
		name string
		fn   func(string) tea.Cmd
		want NotificationType
	}{
		{"Success", cmds.NotifySuccess, NotificationSuccess},
		{"Error", cmds.NotifyError, NotificationError},
		{"Warning", cmds.NotifyWarning, NotificationWarning},
		{"Info", cmds.NotifyInfo, NotificationInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.fn("msg")()

			addMsg, ok := msg.(AddNotificationMsg)
			if !ok {
				t.Fatalf("Expected AddNotificationMsg, got %T", msg)
			}
			if addMsg.Type != tt.want {
				t.Errorf("Type = %v, want %v", addMsg.Type, tt.want)
			}
			if addMsg.Message != "msg" {
				t.Errorf("Message = %q, want msg", addMsg.Message)
			}
			if addMsg.Duration <= 0 {
				t.Errorf("Duration = %v, want positive", addMsg.Duration)
			}
		})
	}
}

func TestCommands_Quit(t *testing.T) {
	msg := NewCommands(nil).Quit()()
	if _, ok := msg.(tea.QuitMsg); !ok {
		t.Errorf("Expected QuitMsg, got %T", msg)
	}
}

func TestSectionErrorMessage(t *testing.T) {
	got := sectionErrorMessage(services.SectionRegions, errors.New("status 503"))
	for _, want := range []string{"regions", "status 503", "press r"} {
		if !strings.Contains(got, want) {
			t.Errorf("sectionErrorMessage() = %q, missing %q", got, want)
		}
	}
}

func TestCommands_Refresh(t *testing.T) {
	mgr, svc := newStubManager(t)
	svc.SetFault(stub.EndpointMonitoring, stub.Fault{Status: 500})

	msg := NewCommands(mgr).Refresh(services.SectionForecast, services.SectionMonitoring)()
	done, ok := msg.(RefreshDoneMsg)
	if !ok {
		t.Fatalf("Expected RefreshDoneMsg, got %T", msg)
	}
	if len(done.Sections) != 2 {
		t.Errorf("Sections = %v, want 2", done.Sections)
	}
	if len(done.Errors) != 1 || done.Errors[services.SectionMonitoring] == nil {
		t.Errorf("Errors = %v, want only monitoring", done.Errors)
	}
	if done.Snapshot.Forecast.State.Status != models.StatusReady {
		t.Errorf("forecast status = %v, want ready", done.Snapshot.Forecast.State.Status)
	}
	if done.Snapshot.Monitoring.State.Status != models.StatusError {
		t.Errorf("monitoring status = %v, want error", done.Snapshot.Monitoring.State.Status)
	}
}

func TestCommands_RefreshAllByDefault(t *testing.T) {
	mgr, _ := newStubManager(t)

	done := NewCommands(mgr).Refresh()().(RefreshDoneMsg)
	if len(done.Sections) != len(services.Sections) {
		t.Errorf("Sections = %v, want all", done.Sections)
	}
	if len(done.Errors) != 0 {
		t.Errorf("Errors = %v, want none", done.Errors)
	}
}

func TestCommands_Sort(t *testing.T) {
	mgr, _ := newStubManager(t)
	cmds := NewCommands(mgr)

	sorted := cmds.Sort("mape")().(SortedMsg)
	if sorted.Sorter.Order != ranking.Descending {
		t.Errorf("Order = %v, want descending on repeated key", sorted.Sorter.Order)
	}

	sorted = cmds.Sort("r2")().(SortedMsg)
	if sorted.Sorter.Key != "r2" || sorted.Sorter.Order != ranking.Ascending {
		t.Errorf("Sorter = %+v, want r2 ascending", sorted.Sorter)
	}
	if sorted.Snapshot.Models.Data.Sort.Key != "r2" {
		t.Errorf("snapshot sort key = %q, want r2", sorted.Snapshot.Models.Data.Sort.Key)
	}
}

func TestCommands_ToggleHorizon(t *testing.T) {
	mgr, _ := newStubManager(t)

	if cmd := NewCommands(mgr).ToggleHorizon(); cmd == nil {
		t.Fatal("ToggleHorizon returned nil")
	}
	if got := mgr.Params().Horizon; got != 30 {
		t.Errorf("Horizon = %d, want 30", got)
	}
}
