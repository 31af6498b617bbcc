// Package registry holds in-memory indexes of parsed pattern documents and
// ledger entries.
//
// Each registry keeps one immutable snapshot. Refresh parses the corpus
// again and replaces the snapshot with a single pointer store, so readers
// never see a half-built collection. Readers that need Refresh and a
// subsequent read to observe the same snapshot must sequence those calls.
package registry

import (
	"log/slog"
	"sync/atomic"
)

// snapshot is a lazily loaded, atomically replaced slice of records.
type snapshot[T any] struct {
	items  atomic.Pointer[[]T]
	load   func() ([]T, error)
	logger *slog.Logger
	name   string
}

// refresh rebuilds the records and swaps them in.
func (s *snapshot[T]) refresh() error {
	items, err := s.load()
	if err != nil {
		return err
	}
	s.items.Store(&items)
	return nil
}

// all returns the current records, loading them on first use. A failed
// first load is logged and yields an empty snapshot.
func (s *snapshot[T]) all() []T {
	if p := s.items.Load(); p != nil {
		return *p
	}

	items, err := s.load()
	if err != nil {
		s.logger.Warn("Failed to load registry", slog.String("registry", s.name), slog.String("error", err.Error()))
		items = []T{}
	}
	s.items.CompareAndSwap(nil, &items)
	return *s.items.Load()
}

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
