package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/DjordjeVuckovic/trec-hunter/internal/registry"
)

// Registry keeps whole datasets in process memory. Used by tests and as a
// cheap backend when a caller already holds the records.
type Registry struct {
	mu       sync.RWMutex
	datasets map[string]*Dataset
}

func NewRegistry() *Registry {
	return &Registry{
		datasets: make(map[string]*Dataset),
	}
}

func (r *Registry) Register(id string, ds *Dataset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.datasets[id] = ds
}

func (r *Registry) Resolve(id string) (registry.Dataset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ds, ok := r.datasets[id]
	if !ok {
		return nil, registry.ErrNotFound
	}
	return ds, nil
}

func (r *Registry) Identifiers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.datasets))
	for id := range r.datasets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Dataset streams records out of in-memory slices. Err, when set, is
// delivered after all records, which lets tests exercise mid-stream
// failure handling.
type Dataset struct {
	DocRecords   []registry.Doc
	QueryRecords []registry.Query
	QrelRecords  []registry.Qrel

	DocsErr    error
	QueriesErr error
	QrelsErr   error
}

func (d *Dataset) Docs(ctx context.Context) (<-chan registry.Result[registry.Doc], error) {
	return stream(ctx, d.DocRecords, d.DocsErr), nil
}

func (d *Dataset) Queries(ctx context.Context) (<-chan registry.Result[registry.Query], error) {
	return stream(ctx, d.QueryRecords, d.QueriesErr), nil
}

func (d *Dataset) Qrels(ctx context.Context) (<-chan registry.Result[registry.Qrel], error) {
	return stream(ctx, d.QrelRecords, d.QrelsErr), nil
}

func stream[T any](ctx context.Context, records []T, failWith error) <-chan registry.Result[T] {
	out := make(chan registry.Result[T])
	go func() {
		defer close(out)
		for _, rec := range records {
			select {
			case out <- registry.Result[T]{Record: rec}:
			case <-ctx.Done():
				return
			}
		}
		if failWith != nil {
			select {
			case out <- registry.Result[T]{Err: failWith}:
			case <-ctx.Done():
			}
		}
	}()
	return out
}
