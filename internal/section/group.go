package section

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Unit is a section bound to the fetch that loads it.
type Unit interface {
	Name() string
	Refresh(ctx context.Context) error
}

// Loader binds a section to its fetch function.
type Loader[T any] struct {
	*Section[T]
	Fetch func(context.Context) (T, error)
}

// Bind returns a Unit that loads s with fetch.
func Bind[T any](s *Section[T], fetch func(context.Context) (T, error)) Loader[T] {
	return Loader[T]{Section: s, Fetch: fetch}
}

// Refresh runs one load cycle.
func (l Loader[T]) Refresh(ctx context.Context) error {
	return l.Run(ctx, l.Fetch)
}

// RunAll refreshes units concurrently, at most limit at a time (no limit
// when limit <= 0). A failing unit never cancels the others. The result
// maps each failed unit's name to its error.
func RunAll(ctx context.Context, limit int, units ...Unit) map[string]error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs = make(map[string]error)
	)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for _, u := range units {
		u := u
		g.Go(func() error {
			if err := u.Refresh(ctx); err != nil {
				mu.Lock()
				errs[u.Name()] = err
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errs
}
