// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"slices"
	"sync"
	"time"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/models"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/services"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// State is shared between the root model and the tabs. It holds the last
// snapshot of every dashboard section plus UI-only bookkeeping.
type State struct {
	mu sync.RWMutex

	snapshot    services.Snapshot
	hasSnapshot bool
	loading     map[string]bool
	lastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates an empty state waiting for its first snapshot.
func NewState() *State {
	return &State{
		loading:       make(map[string]bool),
		notifications: make([]Notification, 0),
	}
}

// SetSnapshot replaces the section data shown by the tabs.
func (s *State) SetSnapshot(snap services.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
	s.hasSnapshot = true
	s.lastUpdated = time.Now()
}

// Snapshot returns the last section snapshot.
func (s *State) Snapshot() services.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// IsInitialLoading returns true until the first snapshot arrives.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.hasSnapshot
}

// SectionStatus returns the load state of a section from the last snapshot.
// Sections never seen are reported as loading.
func (s *State) SectionStatus(name string) models.FailureState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasSnapshot {
		return models.FailureState{Status: models.StatusLoading}
	}
	if state, ok := sectionStates(s.snapshot)[name]; ok {
		return state
	}
	return models.FailureState{Status: models.StatusLoading}
}

// FailedSections lists the sections whose last load failed, in display order.
func (s *State) FailedSections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasSnapshot {
		return nil
	}

	states := sectionStates(s.snapshot)
	var failed []string
	for _, name := range services.Sections {
		if states[name].Status == models.StatusError {
			failed = append(failed, name)
		}
	}
	return failed
}

func sectionStates(snap services.Snapshot) map[string]models.FailureState {
	return map[string]models.FailureState{
		services.SectionForecast:     snap.Forecast.State,
		services.SectionReport:       snap.Report.State,
		services.SectionMonitoring:   snap.Monitoring.State,
		services.SectionRegions:      snap.Regions.State,
		services.SectionOptimization: snap.Optimization.State,
		services.SectionCapacity:     snap.Capacity.State,
		services.SectionService:      snap.Service.State,
		services.SectionModels:       snap.Models.State,
	}
}

// SetLoading marks sections as loading or settled.
func (s *State) SetLoading(loading bool, sections ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range sections {
		if loading {
			s.loading[name] = true
		} else {
			delete(s.loading, name)
		}
	}
}

// AnyLoading returns true if any section is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.loading) > 0
}

// IsLoading reports whether a section is currently loading.
func (s *State) IsLoading(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading[name]
}

// GetLoadingSections returns the sections currently loading, sorted.
func (s *State) GetLoadingSections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sections := make([]string, 0, len(s.loading))
	for name := range s.loading {
		sections = append(sections, name)
	}
	slices.Sort(sections)
	return sections
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	})

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = activeNotifications(s.notifications)
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return activeNotifications(s.notifications)
}

func activeNotifications(all []Notification) []Notification {
	active := make([]Notification, 0, len(all))
	for _, n := range all {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}

// GetLastUpdated returns the last time a snapshot was applied.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// TimeSinceUpdate returns the duration since the last snapshot.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.lastUpdated)
}
