package dataset

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/trec-hunter/internal/apperr"
	"github.com/DjordjeVuckovic/trec-hunter/internal/registry"
)

type Mode string

const (
	ModePassage  Mode = "passage"
	ModeDocument Mode = "document"
)

const (
	MinYear = 2019
	MaxYear = 2021
)

// Adapter binds to one TREC Deep Learning corpus+judgments dataset. It keeps
// no data of its own between calls; every operation streams through the
// registry handle resolved at construction.
type Adapter struct {
	ds   registry.Dataset
	name string
	year int
	mode Mode
	log  *slog.Logger
}

type Option func(*Adapter)

func WithLogger(log *slog.Logger) Option {
	return func(a *Adapter) {
		a.log = log
	}
}

// Identifier maps a (year, mode) pair to the registry naming scheme. 2021
// collections live under the v2 corpus names.
func Identifier(year int, mode Mode) string {
	if year == 2021 {
		return fmt.Sprintf("msmarco-%s-v2/trec-dl-%d", mode, year)
	}
	return fmt.Sprintf("msmarco-%s/trec-dl-%d", mode, year)
}

func New(reg registry.Registry, year int, mode Mode, opts ...Option) (*Adapter, error) {
	if year < MinYear || year > MaxYear {
		return nil, apperr.NewValidation(fmt.Sprintf("year must be between %d and %d, got %d", MinYear, MaxYear, year))
	}
	if mode != ModePassage && mode != ModeDocument {
		return nil, apperr.NewValidation(fmt.Sprintf("mode must be %q or %q, got %q", ModePassage, ModeDocument, mode))
	}

	name := Identifier(year, mode)

	ds, err := reg.Resolve(name)
	if err != nil {
		return nil, apperr.NewNotFound(name, err)
	}

	a := &Adapter{
		ds:   ds,
		name: name,
		year: year,
		mode: mode,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *Adapter) Name() string {
	return a.name
}

func (a *Adapter) Year() int {
	return a.year
}

func (a *Adapter) Mode() Mode {
	return a.mode
}

// Bundle is the in-memory result of a bulk Load. The three slices are closed
// under the judged-query relation: every query has at least one qrel, every
// qrel's query is present, every doc is referenced by at least one qrel.
type Bundle struct {
	Docs    []registry.Doc
	Queries []registry.Query
	Qrels   []registry.Qrel
}

func emptyBundle() *Bundle {
	return &Bundle{
		Docs:    []registry.Doc{},
		Queries: []registry.Query{},
		Qrels:   []registry.Qrel{},
	}
}

// Load bulk-loads the dataset restricted to judged queries. limit > 0 caps
// the number of judged queries kept, in registry iteration order; limit <= 0
// means unlimited. Load never fails: any streaming error is logged and an
// empty bundle is returned instead.
func (a *Adapter) Load(ctx context.Context, limit int) *Bundle {
	allQrels, err := drain(ctx, a.ds.Qrels)
	if err != nil {
		a.log.Error("failed to load dataset", "dataset", a.name, "error", err)
		return emptyBundle()
	}

	judged := make(map[string]bool, len(allQrels))
	for _, r := range allQrels {
		judged[r.QueryID] = true
	}

	allQueries, err := drain(ctx, a.ds.Queries)
	if err != nil {
		a.log.Error("failed to load dataset", "dataset", a.name, "error", err)
		return emptyBundle()
	}

	queries := make([]registry.Query, 0, len(judged))
	for _, q := range allQueries {
		if judged[q.ID] {
			queries = append(queries, q)
		}
	}
	if limit > 0 && len(queries) > limit {
		queries = queries[:limit]
	}

	retained := make(map[string]bool, len(queries))
	for _, q := range queries {
		retained[q.ID] = true
	}

	qrels := make([]registry.Qrel, 0, len(allQrels))
	docIDs := make(map[string]bool)
	for _, r := range allQrels {
		if retained[r.QueryID] {
			qrels = append(qrels, r)
			docIDs[r.DocID] = true
		}
	}

	docsCh, err := a.ds.Docs(ctx)
	if err != nil {
		a.log.Error("failed to load dataset", "dataset", a.name, "error", err)
		return emptyBundle()
	}
	docs := make([]registry.Doc, 0, len(docIDs))
	for res := range docsCh {
		if res.Err != nil {
			a.log.Error("failed to load dataset", "dataset", a.name, "error", res.Err)
			return emptyBundle()
		}
		if docIDs[res.Record.ID] {
			docs = append(docs, res.Record)
		}
	}

	a.log.Info("dataset loaded",
		"dataset", a.name,
		"docs", len(docs),
		"queries", len(queries),
		"qrels", len(qrels))

	return &Bundle{Docs: docs, Queries: queries, Qrels: qrels}
}

// IterDocs streams raw documents without judged-query filtering. limit > 0
// caps the number of yielded records; limit <= 0 streams the whole corpus.
// Stream errors are delivered in-band on the returned channel. Cancel ctx
// when abandoning the stream early, otherwise the producer stays blocked.
func (a *Adapter) IterDocs(ctx context.Context, limit int) (<-chan registry.Result[registry.Doc], error) {
	ch, err := a.ds.Docs(ctx)
	if err != nil {
		return nil, err
	}
	return capStream(ctx, ch, limit), nil
}

func (a *Adapter) IterQueries(ctx context.Context, limit int) (<-chan registry.Result[registry.Query], error) {
	ch, err := a.ds.Queries(ctx)
	if err != nil {
		return nil, err
	}
	return capStream(ctx, ch, limit), nil
}

func (a *Adapter) IterQrels(ctx context.Context, limit int) (<-chan registry.Result[registry.Qrel], error) {
	ch, err := a.ds.Qrels(ctx)
	if err != nil {
		return nil, err
	}
	return capStream(ctx, ch, limit), nil
}

func drain[T any](ctx context.Context, open func(context.Context) (<-chan registry.Result[T], error)) ([]T, error) {
	ch, err := open(ctx)
	if err != nil {
		return nil, err
	}
	var records []T
	for res := range ch {
		if res.Err != nil {
			return nil, res.Err
		}
		records = append(records, res.Record)
	}
	return records, nil
}

func capStream[T any](ctx context.Context, in <-chan registry.Result[T], limit int) <-chan registry.Result[T] {
	if limit <= 0 {
		return in
	}

	out := make(chan registry.Result[T])
	go func() {
		defer close(out)
		count := 0
		for res := range in {
			select {
			case out <- res:
			case <-ctx.Done():
				return
			}
			if res.Err != nil {
				return
			}
			count++
			if count >= limit {
				return
			}
		}
	}()
	return out
}
