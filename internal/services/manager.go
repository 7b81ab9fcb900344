// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/config"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/logger"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/models"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/pipeline/ranking"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/section"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/services/catalog"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/services/forecast"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/services/views"
)

// Section names.
const (
	SectionForecast     = "forecast"
	SectionReport       = "report"
	SectionMonitoring   = "monitoring"
	SectionRegions      = "regions"
	SectionOptimization = "optimization"
	SectionCapacity     = "capacity"
	SectionService      = "service"
	SectionModels       = "models"
)

// Sections lists every section in display order.
var Sections = []string{
	SectionForecast, SectionReport, SectionMonitoring,
	SectionRegions, SectionOptimization, SectionCapacity,
	SectionService, SectionModels,
}

type (
	// SectionUpdatedEvent is emitted when a section finishes a load, whatever
	// the outcome.
	SectionUpdatedEvent struct {
		Section string
		State   models.FailureState
	}

	// RefreshStartedEvent is emitted when sections start loading.
	RefreshStartedEvent struct {
		Sections []string
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (SectionUpdatedEvent) isServiceEvent() {}
func (RefreshStartedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()          {}

// Notifier shows a desktop notification.
type Notifier func(title, body string) error

func desktopNotify(title, body string) error {
	return beeep.Notify(title, body, "")
}

// Params are the forecast request parameters the dashboard sends.
type Params struct {
	Region   string
	Horizon  int
	Capacity float64
	MAPE     float64
	Regions  []string
}

// Manager owns the dashboard sections and keeps them loaded.
type Manager struct {
	mu          sync.RWMutex
	source      forecast.Source
	catalog     *catalog.Service
	params      Params
	sorter      ranking.Sorter
	interval    time.Duration
	limit       int
	notify      Notifier
	now         func() time.Time
	subscribers []chan<- ServiceEvent

	forecast     *section.Section[views.Forecast]
	report       *section.Section[views.Report]
	monitoring   *section.Section[views.Monitoring]
	regions      *section.Section[views.Regions]
	optimization *section.Section[views.Optimization]
	capacity     *section.Section[views.Capacity]
	service      *section.Section[views.ServiceStatus]
	models       *section.Section[views.Models]

	lastDrift *bool
	lastScale *models.ScaleStatus

	ctx      context.Context
	cancel   context.CancelFunc
	stopChan chan struct{}
	started  bool
	closed   bool
	wg       sync.WaitGroup
}

// NewManager creates a manager talking to the configured forecast service.
func NewManager(cfg *config.Config) (*Manager, error) {
	cat, err := catalog.New(cfg.ModelMetricsPath)
	if err != nil {
		return nil, err
	}
	return NewManagerWith(cfg, forecast.NewClient(cfg.APIURL, cfg.RequestTimeout), cat), nil
}

// NewManagerWith creates a manager over an explicit source and catalog. The
// manager takes ownership of cat.
func NewManagerWith(cfg *config.Config, src forecast.Source, cat *catalog.Service) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	m := &Manager{
		source:  src,
		catalog: cat,
		params: Params{
			Region:   cfg.Region,
			Horizon:  cfg.Horizon,
			Capacity: cfg.Capacity,
			MAPE:     cfg.MAPE,
			Regions:  slices.Clone(cfg.Regions),
		},
		sorter:   ranking.Sorter{Key: ranking.CanonicalMetric},
		interval: cfg.RefreshInterval,
		limit:    cfg.MaxConcurrentFetches,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
		stopChan: make(chan struct{}),
	}
	if cfg.Notifications {
		m.notify = desktopNotify
	}

	// Fallbacks read the parameters current at the time of the failed load.
	m.forecast = section.New(SectionForecast, func() views.Forecast {
		return views.FallbackForecast(m.Params().Horizon)
	})
	m.report = section.New(SectionReport, func() views.Report { return views.FallbackReport(m.now()) })
	m.monitoring = section.New(SectionMonitoring, views.FallbackMonitoring)
	m.regions = section.New(SectionRegions, func() views.Regions {
		return views.FallbackRegions(m.Params().Regions)
	})
	m.optimization = section.New(SectionOptimization, func() views.Optimization {
		return views.FallbackOptimization(m.Params().Region)
	})
	m.capacity = section.New(SectionCapacity, func() views.Capacity {
		return views.FallbackCapacity(m.Params().Capacity)
	})
	m.service = section.New(SectionService, views.FallbackServiceStatus)
	m.models = section.New(SectionModels, views.FallbackModels)

	return m
}

// SetNotifier replaces the desktop notifier. nil disables notifications.
func (m *Manager) SetNotifier(n Notifier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notify = n
}

// Params returns the current request parameters.
func (m *Manager) Params() Params {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p := m.params
	p.Regions = slices.Clone(p.Regions)
	return p
}

// ToggleHorizon switches between the 7 and 30 day forecast and returns the
// new horizon. Callers refresh the forecast, optimization and capacity
// sections.
func (m *Manager) ToggleHorizon() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.params.Horizon == 7 {
		m.params.Horizon = 30
	} else {
		m.params.Horizon = 7
	}
	return m.params.Horizon
}

// Start begins periodic refreshes and catalog watching. The first refresh
// runs immediately.
func (m *Manager) Start() {
	m.mu.Lock()
	if m.started || m.closed {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	m.wg.Add(2)
	go m.poll()
	go m.routeEvents()
}

func (m *Manager) poll() {
	defer m.wg.Done()

	m.Refresh(m.ctx)
	if m.interval <= 0 {
		return
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Refresh(m.ctx)
		case <-m.stopChan:
			return
		}
	}
}

// routeEvents reranks models when the catalog file changes.
func (m *Manager) routeEvents() {
	defer m.wg.Done()

	for {
		select {
		case event := <-m.catalog.Events():
			switch event.Type {
			case catalog.EventChanged:
				m.Refresh(m.ctx, SectionModels)
			case catalog.EventError:
				m.broadcast(ErrorEvent{Service: "catalog", Error: event.Error})
			}
		case <-m.stopChan:
			return
		}
	}
}

// Refresh reloads the named sections, or all of them when none are named,
// and returns the errors of the sections that failed.
func (m *Manager) Refresh(ctx context.Context, names ...string) map[string]error {
	if len(names) == 0 {
		names = Sections
	}

	units := make([]section.Unit, 0, len(names))
	for _, name := range names {
		u, err := m.unit(name)
		if err != nil {
			return map[string]error{name: err}
		}
		units = append(units, u)
	}

	m.broadcast(RefreshStartedEvent{Sections: slices.Clone(names)})
	errs := section.RunAll(ctx, m.limit, units...)

	for _, name := range names {
		state, _ := m.Status(name)
		m.broadcast(SectionUpdatedEvent{Section: name, State: state})
		if err, failed := errs[name]; failed && !errors.Is(err, context.Canceled) {
			logger.Warn("section load failed", "section", name, "error", err)
			m.broadcast(ErrorEvent{Service: name, Error: err})
		}
	}

	m.checkNotifications()
	return errs
}

func (m *Manager) unit(name string) (section.Unit, error) {
	p := m.Params()

	switch name {
	case SectionForecast:
		return section.Bind(m.forecast, func(ctx context.Context) (views.Forecast, error) {
			raw, err := m.source.Forecast(ctx, p.Horizon, p.Region)
			if err != nil {
				return views.Forecast{}, err
			}
			return views.BuildForecast(raw, p.Horizon)
		}), nil

	case SectionReport:
		return section.Bind(m.report, func(ctx context.Context) (views.Report, error) {
			raw, err := m.source.Report(ctx, p.Capacity, p.MAPE)
			if err != nil {
				return views.Report{}, err
			}
			return views.BuildReport(raw, m.now())
		}), nil

	case SectionMonitoring:
		return section.Bind(m.monitoring, func(ctx context.Context) (views.Monitoring, error) {
			raw, err := m.source.Monitoring(ctx, &p.MAPE)
			if err != nil {
				return views.Monitoring{}, err
			}
			return views.BuildMonitoring(raw)
		}), nil

	case SectionRegions:
		return section.Bind(m.regions, func(ctx context.Context) (views.Regions, error) {
			raw, err := m.source.MultiRegion(ctx, p.Regions)
			if err != nil {
				return views.Regions{}, err
			}
			return views.BuildRegions(raw)
		}), nil

	case SectionOptimization:
		return section.Bind(m.optimization, func(ctx context.Context) (views.Optimization, error) {
			raw, err := m.source.Optimization(ctx, forecast.OptimizationRequest{
				Capacity:     p.Capacity,
				ForecastDays: p.Horizon,
				Region:       p.Region,
			})
			if err != nil {
				return views.Optimization{}, err
			}
			return views.BuildOptimization(raw)
		}), nil

	case SectionCapacity:
		return section.Bind(m.capacity, func(ctx context.Context) (views.Capacity, error) {
			raw, err := m.source.CapacityPlanning(ctx, forecast.CapacityRequest{
				Capacity:     p.Capacity,
				ForecastDays: p.Horizon,
			})
			if err != nil {
				return views.Capacity{}, err
			}
			return views.BuildCapacity(raw)
		}), nil

	case SectionService:
		return section.Bind(m.service, func(ctx context.Context) (views.ServiceStatus, error) {
			raw, err := m.source.ModelStatus(ctx)
			if err != nil {
				return views.ServiceStatus{}, err
			}
			return views.BuildServiceStatus(raw)
		}), nil

	case SectionModels:
		m.mu.RLock()
		sorter := m.sorter
		m.mu.RUnlock()
		return section.Bind(m.models, func(context.Context) (views.Models, error) {
			return views.BuildModels(m.catalog.Records(), sorter)
		}), nil
	}
	return nil, fmt.Errorf("unknown section %q", name)
}

// SortModels applies a column choice to the model table and reranks it.
func (m *Manager) SortModels(key string) ranking.Sorter {
	m.mu.Lock()
	m.sorter = m.sorter.Toggle(key)
	sorter := m.sorter
	m.mu.Unlock()

	m.Refresh(m.ctx, SectionModels)
	return sorter
}

// Sorter returns the model table's sort selection.
func (m *Manager) Sorter() ranking.Sorter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sorter
}

// checkNotifications fires a desktop notification when monitoring starts
// reporting drift or the optimizer starts asking to scale up. The first
// observation only sets the baseline.
func (m *Manager) checkNotifications() {
	mon := m.monitoring.Snapshot()
	opt := m.optimization.Snapshot()

	m.mu.Lock()
	notify := m.notify
	var alerts [][2]string

	if mon.State.Status == models.StatusReady {
		drifting := mon.Data.Monitoring.Drifting()
		if m.lastDrift != nil && !*m.lastDrift && drifting {
			alerts = append(alerts, [2]string{
				"Model drift detected",
				fmt.Sprintf("MAPE %.2f%% exceeds %.1f%%. %s", mon.Data.Monitoring.MAPE,
					mon.Data.Monitoring.Threshold, mon.Data.Monitoring.Recommendation),
			})
		}
		m.lastDrift = &drifting
	}

	if opt.State.Status == models.StatusReady {
		status := opt.Data.Optimization.Status
		if m.lastScale != nil && *m.lastScale != models.ScaleUp && status == models.ScaleUp {
			alerts = append(alerts, [2]string{
				"Scale up suggested: " + opt.Data.Optimization.Region,
				opt.Data.Optimization.Recommendation,
			})
		}
		m.lastScale = &status
	}
	m.mu.Unlock()

	if notify == nil {
		return
	}
	for _, a := range alerts {
		if err := notify(a[0], a[1]); err != nil {
			logger.Debug("desktop notification failed", "error", err)
		}
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Forecast returns the forecast section.
func (m *Manager) Forecast() section.State[views.Forecast] { return m.forecast.Snapshot() }

// Report returns the capacity report section.
func (m *Manager) Report() section.State[views.Report] { return m.report.Snapshot() }

// Monitoring returns the model health section.
func (m *Manager) Monitoring() section.State[views.Monitoring] { return m.monitoring.Snapshot() }

// Regions returns the regions section.
func (m *Manager) Regions() section.State[views.Regions] { return m.regions.Snapshot() }

// Optimization returns the scaling suggestion section.
func (m *Manager) Optimization() section.State[views.Optimization] {
	return m.optimization.Snapshot()
}

// Capacity returns the capacity planning section.
func (m *Manager) Capacity() section.State[views.Capacity] { return m.capacity.Snapshot() }

// Service returns the model service status section.
func (m *Manager) Service() section.State[views.ServiceStatus] { return m.service.Snapshot() }

// Models returns the model comparison section.
func (m *Manager) Models() section.State[views.Models] { return m.models.Snapshot() }

// Catalog returns the model catalog service.
func (m *Manager) Catalog() *catalog.Service { return m.catalog }

// Status returns the load state of a section.
func (m *Manager) Status(name string) (models.FailureState, bool) {
	switch name {
	case SectionForecast:
		return m.forecast.Status(), true
	case SectionReport:
		return m.report.Status(), true
	case SectionMonitoring:
		return m.monitoring.Status(), true
	case SectionRegions:
		return m.regions.Status(), true
	case SectionOptimization:
		return m.optimization.Status(), true
	case SectionCapacity:
		return m.capacity.Status(), true
	case SectionService:
		return m.service.Status(), true
	case SectionModels:
		return m.models.Status(), true
	}
	return models.FailureState{}, false
}

// Snapshot is every section's state at one instant.
type Snapshot struct {
	Params       Params                             `json:"params"`
	Forecast     section.State[views.Forecast]      `json:"forecast"`
	Report       section.State[views.Report]        `json:"report"`
	Monitoring   section.State[views.Monitoring]    `json:"monitoring"`
	Regions      section.State[views.Regions]       `json:"regions"`
	Optimization section.State[views.Optimization]  `json:"optimization"`
	Capacity     section.State[views.Capacity]      `json:"capacity"`
	Service      section.State[views.ServiceStatus] `json:"service"`
	Models       section.State[views.Models]        `json:"models"`
}

// Snapshot copies every section.
func (m *Manager) Snapshot() Snapshot {
	return Snapshot{
		Params:       m.Params(),
		Forecast:     m.Forecast(),
		Report:       m.Report(),
		Monitoring:   m.Monitoring(),
		Regions:      m.Regions(),
		Optimization: m.Optimization(),
		Capacity:     m.Capacity(),
		Service:      m.Service(),
		Models:       m.Models(),
	}
}

// Close stops polling, discards in-flight loads and closes the catalog.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	close(m.stopChan)
	m.cancel()

	m.forecast.Close()
	m.report.Close()
	m.monitoring.Close()
	m.regions.Close()
	m.optimization.Close()
	m.capacity.Close()
	m.service.Close()
	m.models.Close()

	m.wg.Wait()

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	return m.catalog.Close()
}
