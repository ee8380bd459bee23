package in_mem

import (
	"context"
	"log/slog"
	"sync"

	"github.com/DjordjeVuckovic/trec-hunter/internal/dataset"
)

// InMemStorer keeps exported rows per run id. Used by tests and dry runs.
type InMemStorer struct {
	storageLock sync.RWMutex
	storage     map[string][]dataset.Row
}

func NewInMemStorer() *InMemStorer {
	return &InMemStorer{
		storage: make(map[string][]dataset.Row),
	}
}

func (s *InMemStorer) SaveBulk(ctx context.Context, runID string, rows []dataset.Row) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	s.storage[runID] = append(s.storage[runID], rows...)
	slog.Info("saved rows to in-memory storage", "run_id", runID, "rows", len(rows))
	return nil
}

func (s *InMemStorer) Rows(runID string) []dataset.Row {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	rows := make([]dataset.Row, len(s.storage[runID]))
	copy(rows, s.storage[runID])
	return rows
}
