// Package table implements the table registry operations.
package table

import (
	"context"
	"sync"

	"restaurant-ordering/internal/apperr"
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/storage"
)

type Service struct {
	store storage.TableStore
	log   *logger.Logger

	// mu serializes the availability check with the flip so concurrent
	// reservations of one table cannot both succeed.
	mu sync.Mutex
}

func New(store storage.TableStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.New("table")
	}
	return &Service{store: store, log: log}
}

// Reserve marks a table unavailable. Reserving an already-reserved table is a
// conflict.
func (s *Service) Reserve(ctx context.Context, number string) (domain.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.store.GetTableByNumber(ctx, number)
	if err != nil {
		return domain.Table{}, err
	}
	if !t.Available {
		return domain.Table{}, apperr.Conflictf("table is already occupied")
	}
	t.Available = false
	updated, err := s.store.UpdateTable(ctx, t)
	if err != nil {
		return domain.Table{}, err
	}
	s.log.Info("table_reserved", map[string]any{"table": number})
	return updated, nil
}

// Free marks a table available. Freeing an already-free table is not an
// error.
func (s *Service) Free(ctx context.Context, number string) (domain.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.store.GetTableByNumber(ctx, number)
	if err != nil {
		return domain.Table{}, err
	}
	t.Available = true
	updated, err := s.store.UpdateTable(ctx, t)
	if err != nil {
		return domain.Table{}, err
	}
	s.log.Info("table_freed", map[string]any{"table": number})
	return updated, nil
}

// ListAvailable returns available tables, optionally requiring a minimum seat
// count.
func (s *Service) ListAvailable(ctx context.Context, minSeats int) ([]domain.Table, error) {
	tables, err := s.store.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	available := make([]domain.Table, 0, len(tables))
	for _, t := range tables {
		if t.Available && t.Seats >= minSeats {
			available = append(available, t)
		}
	}
	return available, nil
}
