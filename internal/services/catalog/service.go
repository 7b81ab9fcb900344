// Package catalog loads the model comparison file and watches it for edits.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/logger"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/models"
)

// File is the on-disk layout of the model comparison file. Directions apply
// to every model; a model may override them with its own direction map.
type File struct {
	Directions map[string]models.Direction `yaml:"directions"`
	Models     []models.ModelMetricRecord  `yaml:"models"`
}

// Event reports a reload of the catalog.
type Event struct {
	Type  EventType
	Error error
}

// EventType defines the type of catalog event.
type EventType int

const (
	EventLoaded EventType = iota
	EventChanged
	EventError
)

// Service keeps the current model records in memory.
type Service struct {
	mu            sync.RWMutex
	records       []models.ModelMetricRecord
	builtin       bool
	filePath      string
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	stopOnce      sync.Once
	debounceTimer *time.Timer
}

// Default returns the comparison shown when no file exists.
func Default() []models.ModelMetricRecord {
	dirs := map[string]models.Direction{
		"mape":  models.LowerIsBetter,
		"rmse":  models.LowerIsBetter,
		"mae":   models.LowerIsBetter,
		"r2":    models.HigherIsBetter,
		"speed": models.HigherIsBetter,
	}
	rec := func(name string, mape, rmse, mae, r2, speed float64) models.ModelMetricRecord {
		d := make(map[string]models.Direction, len(dirs))
		for k, v := range dirs {
			d[k] = v
		}
		return models.ModelMetricRecord{
			Name:      name,
			Metrics:   map[string]float64{"mape": mape, "rmse": rmse, "mae": mae, "r2": r2, "speed": speed},
			Direction: d,
		}
	}
	return []models.ModelMetricRecord{
		rec("ARIMA", 8.5, 412.3, 301.7, 0.87, 0.92),
		rec("Prophet", 7.2, 365.9, 270.4, 0.90, 0.75),
		rec("LSTM", 6.1, 320.4, 241.8, 0.93, 0.40),
		rec("XGBoost", 6.8, 338.2, 255.1, 0.91, 0.85),
	}
}

// New loads filePath and starts watching it. A missing file is not an error:
// the built-in comparison is served until the file appears.
func New(filePath string) (*Service, error) {
	s := &Service{
		filePath:  filePath,
		eventChan: make(chan Event, 16),
		stopChan:  make(chan struct{}),
	}

	if err := s.load(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load model catalog: %w", err)
		}
		s.records = Default()
		s.builtin = true
	}

	if filePath != "" {
		if err := s.startWatcher(); err != nil {
			logger.Warn("model catalog watcher disabled", "path", filePath, "error", err)
		}
	}

	s.sendEvent(Event{Type: EventLoaded})
	return s, nil
}

// Parse decodes a catalog file, filling each model's missing directions from
// the file-level map.
func Parse(data []byte) ([]models.ModelMetricRecord, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid model catalog: %w", err)
	}

	seen := make(map[string]bool, len(f.Models))
	out := make([]models.ModelMetricRecord, 0, len(f.Models))
	for i, m := range f.Models {
		if m.Name == "" {
			return nil, fmt.Errorf("model %d has no name", i+1)
		}
		if seen[m.Name] {
			return nil, fmt.Errorf("duplicate model %q", m.Name)
		}
		seen[m.Name] = true

		dirs := make(map[string]models.Direction, len(m.Metrics))
		for metric := range m.Metrics {
			if d, ok := m.Direction[metric]; ok {
				dirs[metric] = d
			} else if d, ok := f.Directions[metric]; ok {
				dirs[metric] = d
			}
		}
		for metric, d := range dirs {
			if !d.Valid() {
				return nil, fmt.Errorf("model %q: direction %q for %s must be lower or higher", m.Name, d, metric)
			}
		}
		m.Direction = dirs
		out = append(out, m)
	}
	return out, nil
}

// Records returns a copy of the current model records.
func (s *Service) Records() []models.ModelMetricRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ModelMetricRecord, len(s.records))
	for i, r := range s.records {
		out[i] = r
		out[i].Metrics = make(map[string]float64, len(r.Metrics))
		for k, v := range r.Metrics {
			out[i].Metrics[k] = v
		}
		out[i].Direction = make(map[string]models.Direction, len(r.Direction))
		for k, v := range r.Direction {
			out[i].Direction[k] = v
		}
	}
	return out
}

// Builtin reports whether the built-in comparison is being served.
func (s *Service) Builtin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.builtin
}

// Path returns the watched file path.
func (s *Service) Path() string {
	return s.filePath
}

// Events returns the event channel for subscribing to catalog reloads.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

func (s *Service) load() error {
	if s.filePath == "" {
		return os.ErrNotExist
	}
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}
	records, err := Parse(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.records = records
	s.builtin = false
	s.mu.Unlock()
	return nil
}

// startWatcher watches the parent directory so the file may be created later.
func (s *Service) startWatcher() error {
	dir := filepath.Dir(s.filePath)
	if _, err := os.Stat(dir); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}
	s.watcher = watcher

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(s.filePath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				s.mu.Lock()
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(debounceInterval, s.handleFileChange)
				s.mu.Unlock()
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// handleFileChange reloads the catalog. A broken edit keeps the last good
// records.
func (s *Service) handleFileChange() {
	if err := s.load(); err != nil {
		logger.Warn("model catalog reload failed", "path", s.filePath, "error", err)
		s.sendEvent(Event{Type: EventError, Error: err})
		return
	}
	logger.Debug("model catalog reloaded", "path", s.filePath)
	s.sendEvent(Event{Type: EventChanged})
}

// sendEvent sends an event without blocking, dropping the oldest if full.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the file watcher.
func (s *Service) Close() error {
	var err error
	s.stopOnce.Do(func() {
		close(s.stopChan)

		s.mu.Lock()
		if s.debounceTimer != nil {
			s.debounceTimer.Stop()
		}
		s.mu.Unlock()

		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}
