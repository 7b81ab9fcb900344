package app

import (
	"context"
	"fmt"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// loadSnapshotCmd returns a command that copies the current section data.
func loadSnapshotCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		return SnapshotMsg{Snapshot: mgr.Snapshot()}
	}
}

// refreshCmd returns a command that reloads sections and reports the outcome.
func refreshCmd(mgr *services.Manager, sections []string) tea.Cmd {
	names := sections
	if len(names) == 0 {
		names = services.Sections
	}
	names = slices.Clone(names)

	return func() tea.Msg {
		errs := mgr.Refresh(context.Background(), names...)
		return RefreshDoneMsg{
			Sections: names,
			Errors:   errs,
			Snapshot: mgr.Snapshot(),
		}
	}
}

// sortCmd returns a command that applies a model table column choice.
func sortCmd(mgr *services.Manager, key string) tea.Cmd {
	return func() tea.Msg {
		sorter := mgr.SortModels(key)
		return SortedMsg{Sorter: sorter, Snapshot: mgr.Snapshot()}
	}
}

// toggleHorizonCmd switches the forecast horizon and reloads the sections
// that depend on it.
func toggleHorizonCmd(mgr *services.Manager) tea.Cmd {
	horizon := mgr.ToggleHorizon()
	return tea.Batch(
		func() tea.Msg { return HorizonChangedMsg{Horizon: horizon} },
		refreshCmd(mgr, []string{services.SectionForecast, services.SectionOptimization, services.SectionCapacity}),
	)
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

// sectionErrorMessage names the failed section and how to retry it.
func sectionErrorMessage(section string, err error) string {
	return fmt.Sprintf("%s unavailable: %v (press r to retry)", section, err)
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return notifyCmd(NotificationSuccess, message, DefaultNotificationDuration)
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return notifyCmd(NotificationError, message, LongNotificationDuration)
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return notifyCmd(NotificationWarning, message, DefaultNotificationDuration)
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return notifyCmd(NotificationInfo, message, QuickNotificationDuration)
}

func notifyCmd(t NotificationType, message string, d time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{Type: t, Message: message, Duration: d}
	}
}

// Commands provides a public interface to the command functions.
type Commands struct {
	manager *services.Manager
}

// NewCommands creates a new Commands instance.
func NewCommands(mgr *services.Manager) *Commands {
	return &Commands{manager: mgr}
}

// Tick returns a tick command with the specified interval.
func (c *Commands) Tick(interval time.Duration) tea.Cmd {
	return tickCmd(interval)
}

// DefaultTick returns a tick command with the default interval.
func (c *Commands) DefaultTick() tea.Cmd {
	return defaultTickCmd()
}

// Refresh returns a command that reloads the named sections, or all of them.
func (c *Commands) Refresh(sections ...string) tea.Cmd {
	if c.manager == nil {
		return nil
	}
	return refreshCmd(c.manager, sections)
}

// Sort returns a command that sorts the model table by a column.
func (c *Commands) Sort(key string) tea.Cmd {
	if c.manager == nil {
		return nil
	}
	return sortCmd(c.manager, key)
}

// ToggleHorizon returns a command that switches the forecast horizon.
func (c *Commands) ToggleHorizon() tea.Cmd {
	if c.manager == nil {
		return nil
	}
	return toggleHorizonCmd(c.manager)
}

// NotifySuccess returns a command that adds a success notification.
func (c *Commands) NotifySuccess(message string) tea.Cmd {
	return notifySuccessCmd(message)
}

// NotifyError returns a command that adds an error notification.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message)
}

// NotifyWarning returns a command that adds a warning notification.
func (c *Commands) NotifyWarning(message string) tea.Cmd {
	return notifyWarningCmd(message)
}

// NotifyInfo returns a command that adds an info notification.
func (c *Commands) NotifyInfo(message string) tea.Cmd {
	return notifyInfoCmd(message)
}

// ClearNotification returns a command that removes a notification after a delay.
func (c *Commands) ClearNotification(id string, delay time.Duration) tea.Cmd {
	return clearNotificationCmd(id, delay)
}

// Quit returns a command that quits the application.
func (c *Commands) Quit() tea.Cmd {
	return tea.Quit
}

// Batch combines multiple commands into one.
func (c *Commands) Batch(cmds ...tea.Cmd) tea.Cmd {
	return tea.Batch(cmds...)
}
