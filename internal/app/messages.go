package app

import (
	"time"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/pipeline/ranking"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that sections are starting to load.
type StartLoadingMsg struct {
	Sections []string
}

// StopLoadingMsg signals that sections have finished loading.
type StopLoadingMsg struct {
	Sections []string
}

// RefreshMsg requests a reload of the named sections, or all of them when
// Sections is empty.
type RefreshMsg struct {
	Sections []string
}

// RefreshDoneMsg carries the outcome of a refresh.
type RefreshDoneMsg struct {
	Sections []string
	Errors   map[string]error
	Snapshot services.Snapshot
}

// SnapshotMsg carries a fresh copy of every section.
type SnapshotMsg struct {
	Snapshot services.Snapshot
}

// SortMsg asks for the model table to be sorted by a column. Choosing the
// current column flips the order.
type SortMsg struct {
	Key string
}

// SortedMsg reports the applied model table sort.
type SortedMsg struct {
	Sorter   ranking.Sorter
	Snapshot services.Snapshot
}

// ToggleHorizonMsg asks to switch between the 7 and 30 day forecast.
type ToggleHorizonMsg struct{}

// HorizonChangedMsg reports the new forecast horizon.
type HorizonChangedMsg struct {
	Horizon int
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
