// Package section isolates independently fetched parts of the dashboard so
// that one failing source never blanks or blocks another.
package section

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/logger"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/metrics"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/models"
)

// State is a point-in-time copy of a section.
type State[T any] struct {
	Name  string              `json:"name"`
	State models.FailureState `json:"state"`
	Data  T                   `json:"data"`
	// HasData is true once Data holds something renderable: a successful
	// load or the static fallback.
	HasData bool `json:"has_data"`
	// Fallback is true while Data is the static fallback set.
	Fallback  bool      `json:"fallback"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ticket identifies one load attempt. Only the newest ticket can complete.
type Ticket struct {
	gen     uint64
	started time.Time
	prev    models.FailureState
}

// Section tracks the load state of one dashboard section.
//
// A load moves the section to loading; success moves it to ready. A failure
// moves it to error and keeps the last ready data, or installs the static
// fallback if nothing has loaded yet. Results for superseded tickets, or
// arriving after Close, are dropped.
type Section[T any] struct {
	name     string
	fallback func() T

	mu            sync.Mutex
	gen           uint64
	closed        bool
	state         models.FailureState
	data          T
	loaded        bool
	usingFallback bool
	updated       time.Time
}

// New creates a section in the loading state. fallback supplies the static
// data shown when the first load fails.
func New[T any](name string, fallback func() T) *Section[T] {
	return &Section[T]{
		name:     name,
		fallback: fallback,
		state:    models.FailureState{Status: models.StatusLoading},
	}
}

// Name returns the section name.
func (s *Section[T]) Name() string {
	return s.name
}

// Begin starts a load attempt and supersedes any outstanding one.
func (s *Section[T]) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	t := Ticket{gen: s.gen, started: time.Now(), prev: s.state}
	s.state = models.FailureState{Status: models.StatusLoading}
	return t
}

// Complete applies the outcome of the attempt identified by t. It reports
// false when the result was discarded.
func (s *Section[T]) Complete(t Ticket, data T, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || t.gen != s.gen {
		logger.Debug("discarded stale section result", "section", s.name, "ticket", t.gen, "current", s.gen)
		metrics.RecordSection(s.name, metrics.OutcomeDiscarded, time.Since(t.started))
		return false
	}

	s.updated = time.Now()
	if err == nil {
		s.state = models.FailureState{Status: models.StatusReady}
		s.data = data
		s.loaded = true
		s.usingFallback = false
		metrics.RecordSection(s.name, metrics.OutcomeReady, time.Since(t.started))
		return true
	}

	s.state = models.FailureState{Status: models.StatusError, Error: err.Error()}
	if !s.loaded && !s.usingFallback && s.fallback != nil {
		s.data = s.fallback()
		s.usingFallback = true
	}
	metrics.RecordSection(s.name, metrics.OutcomeError, time.Since(t.started))
	return true
}

// Run performs one load with fetch. Panics inside fetch count as failures.
// If ctx ends before fetch returns, the result is discarded. The returned
// error is the fetch failure, for reporting only.
func (s *Section[T]) Run(ctx context.Context, fetch func(context.Context) (T, error)) error {
	t := s.Begin()
	data, err := call(ctx, s.name, fetch)
	if ctx.Err() != nil {
		s.abandon(t)
		return ctx.Err()
	}
	s.Complete(t, data, err)
	return err
}

func call[T any](ctx context.Context, name string, fetch func(context.Context) (T, error)) (data T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic during load: %v", name, r)
		}
	}()
	return fetch(ctx)
}

// abandon drops t's result. A still-current attempt returns the section to
// the state it had before t began.
func (s *Section[T]) abandon(t Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed && t.gen == s.gen {
		s.state = t.prev
	}
	metrics.RecordSection(s.name, metrics.OutcomeDiscarded, time.Since(t.started))
}

// Close tears the section down. Outstanding and future results are dropped.
func (s *Section[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.gen++
}

// Snapshot returns a copy of the current state.
func (s *Section[T]) Snapshot() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State[T]{
		Name:      s.name,
		State:     s.state,
		Data:      s.data,
		HasData:   s.loaded || s.usingFallback,
		Fallback:  s.usingFallback,
		UpdatedAt: s.updated,
	}
}

// Status returns the current failure state.
func (s *Section[T]) Status() models.FailureState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
