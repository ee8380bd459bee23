package dataset_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/DjordjeVuckovic/trec-hunter/internal/apperr"
	"github.com/DjordjeVuckovic/trec-hunter/internal/dataset"
	"github.com/DjordjeVuckovic/trec-hunter/internal/registry"
	"github.com/DjordjeVuckovic/trec-hunter/internal/registry/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixtureDataset() *memory.Dataset {
	// d4 is deliberately unjudged; q3 deliberately has no qrels.
	return &memory.Dataset{
		DocRecords: []registry.Doc{
			{ID: "d1", Text: "x is a thing"},
			{ID: "d2", Text: "about y"},
			{ID: "d3", Text: "more about y"},
			{ID: "d4", Text: "never judged"},
		},
		QueryRecords: []registry.Query{
			{ID: "q1", Text: "what is x"},
			{ID: "q2", Text: "what is y"},
			{ID: "q3", Text: "orphan query"},
		},
		QrelRecords: []registry.Qrel{
			{QueryID: "q1", DocID: "d1", Relevance: 2},
			{QueryID: "q2", DocID: "d2", Relevance: 1},
			{QueryID: "q2", DocID: "d3", Relevance: 0},
		},
	}
}

func newFixtureRegistry(t *testing.T) *memory.Registry {
	t.Helper()
	reg := memory.NewRegistry()
	reg.Register("msmarco-passage/trec-dl-2020", newFixtureDataset())
	return reg
}

func TestIdentifier(t *testing.T) {
	tests := []struct {
		year int
		mode dataset.Mode
		want string
	}{
		{2019, dataset.ModePassage, "msmarco-passage/trec-dl-2019"},
		{2019, dataset.ModeDocument, "msmarco-document/trec-dl-2019"},
		{2020, dataset.ModePassage, "msmarco-passage/trec-dl-2020"},
		{2020, dataset.ModeDocument, "msmarco-document/trec-dl-2020"},
		{2021, dataset.ModePassage, "msmarco-passage-v2/trec-dl-2021"},
		{2021, dataset.ModeDocument, "msmarco-document-v2/trec-dl-2021"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, dataset.Identifier(tt.year, tt.mode))
		})
	}
}

type recordingRegistry struct {
	resolveCalls int
}

func (r *recordingRegistry) Resolve(id string) (registry.Dataset, error) {
	r.resolveCalls++
	return nil, registry.ErrNotFound
}

func (r *recordingRegistry) Identifiers() []string { return nil }

func TestNew_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name string
		year int
		mode dataset.Mode
	}{
		{"year too early", 2018, dataset.ModePassage},
		{"year too late", 2022, dataset.ModePassage},
		{"unknown mode", 2020, dataset.Mode("paragraph")},
		{"empty mode", 2020, dataset.Mode("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &recordingRegistry{}
			_, err := dataset.New(reg, tt.year, tt.mode)

			var ve *apperr.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, 0, reg.resolveCalls, "validation must fail before any registry lookup")
		})
	}
}

func TestNew_DatasetNotFound(t *testing.T) {
	reg := memory.NewRegistry()

	_, err := dataset.New(reg, 2021, dataset.ModeDocument)

	var nfe *apperr.NotFoundError
	require.ErrorAs(t, err, &nfe)
	assert.Equal(t, "msmarco-document-v2/trec-dl-2021", nfe.Identifier)

	var ve *apperr.ValidationError
	assert.False(t, errors.As(err, &ve), "not-found must stay distinct from validation errors")
}

func TestNew_ExposesConfiguration(t *testing.T) {
	a, err := dataset.New(newFixtureRegistry(t), 2020, dataset.ModePassage)
	require.NoError(t, err)

	assert.Equal(t, "msmarco-passage/trec-dl-2020", a.Name())
	assert.Equal(t, 2020, a.Year())
	assert.Equal(t, dataset.ModePassage, a.Mode())
}

func assertClosure(t *testing.T, b *dataset.Bundle) {
	t.Helper()

	judged := make(map[string]bool)
	referenced := make(map[string]bool)
	queryIDs := make(map[string]bool)
	for _, q := range b.Queries {
		queryIDs[q.ID] = true
	}
	for _, r := range b.Qrels {
		assert.True(t, queryIDs[r.QueryID], "qrel for %s references a missing query", r.QueryID)
		judged[r.QueryID] = true
		referenced[r.DocID] = true
	}
	for _, q := range b.Queries {
		assert.True(t, judged[q.ID], "query %s has no qrel in the bundle", q.ID)
	}
	for _, d := range b.Docs {
		assert.True(t, referenced[d.ID], "doc %s is not referenced by any qrel", d.ID)
	}
}

func TestLoad_FiltersToJudgedQueries(t *testing.T) {
	a, err := dataset.New(newFixtureRegistry(t), 2020, dataset.ModePassage)
	require.NoError(t, err)

	b := a.Load(context.Background(), 0)

	require.Len(t, b.Queries, 2)
	assert.Equal(t, "q1", b.Queries[0].ID)
	assert.Equal(t, "q2", b.Queries[1].ID)
	assert.Len(t, b.Qrels, 3)
	assert.Len(t, b.Docs, 3)
	assertClosure(t, b)
}

func TestLoad_LimitCapsJudgedQueries(t *testing.T) {
	a, err := dataset.New(newFixtureRegistry(t), 2020, dataset.ModePassage)
	require.NoError(t, err)

	b := a.Load(context.Background(), 1)

	require.Len(t, b.Queries, 1)
	assert.Equal(t, "q1", b.Queries[0].ID)
	require.Len(t, b.Qrels, 1)
	assert.Equal(t, "d1", b.Qrels[0].DocID)
	require.Len(t, b.Docs, 1)
	assert.Equal(t, "d1", b.Docs[0].ID)
	assertClosure(t, b)
}

func TestLoad_LimitLargerThanJudgedQueries(t *testing.T) {
	a, err := dataset.New(newFixtureRegistry(t), 2020, dataset.ModePassage)
	require.NoError(t, err)

	b := a.Load(context.Background(), 100)

	assert.Len(t, b.Queries, 2)
	assertClosure(t, b)
}

func TestLoad_NeverFails(t *testing.T) {
	streamErr := fmt.Errorf("disk gone")

	tests := []struct {
		name  string
		build func(ds *memory.Dataset)
	}{
		{"qrels stream fails", func(ds *memory.Dataset) { ds.QrelsErr = streamErr }},
		{"queries stream fails", func(ds *memory.Dataset) { ds.QueriesErr = streamErr }},
		{"docs stream fails", func(ds *memory.Dataset) { ds.DocsErr = streamErr }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := newFixtureDataset()
			tt.build(ds)
			reg := memory.NewRegistry()
			reg.Register("msmarco-passage/trec-dl-2020", ds)

			var logBuf bytes.Buffer
			log := slog.New(slog.NewTextHandler(&logBuf, nil))

			a, err := dataset.New(reg, 2020, dataset.ModePassage, dataset.WithLogger(log))
			require.NoError(t, err)

			b := a.Load(context.Background(), 0)

			assert.Empty(t, b.Docs)
			assert.Empty(t, b.Queries)
			assert.Empty(t, b.Qrels)
			assert.NotNil(t, b.Docs)
			assert.NotNil(t, b.Queries)
			assert.NotNil(t, b.Qrels)
			assert.Contains(t, logBuf.String(), "msmarco-passage/trec-dl-2020")
			assert.Contains(t, logBuf.String(), "disk gone")
		})
	}
}

func collect[T any](t *testing.T, ch <-chan registry.Result[T]) []T {
	t.Helper()
	var records []T
	for res := range ch {
		require.NoError(t, res.Err)
		records = append(records, res.Record)
	}
	return records
}

func TestIterDocs_NoJudgmentFiltering(t *testing.T) {
	a, err := dataset.New(newFixtureRegistry(t), 2020, dataset.ModePassage)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := a.IterDocs(ctx, 0)
	require.NoError(t, err)
	docs := collect(t, ch)

	require.Len(t, docs, 4)
	assert.Equal(t, "d4", docs[3].ID, "unjudged doc must still be yielded")
}

func TestIterDocs_Limit(t *testing.T) {
	a, err := dataset.New(newFixtureRegistry(t), 2020, dataset.ModePassage)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := a.IterDocs(ctx, 3)
	require.NoError(t, err)
	docs := collect(t, ch)

	require.Len(t, docs, 3)
	assert.Equal(t, []string{"d1", "d2", "d3"}, []string{docs[0].ID, docs[1].ID, docs[2].ID})
}

func TestIterQueries_Limit(t *testing.T) {
	a, err := dataset.New(newFixtureRegistry(t), 2020, dataset.ModePassage)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := a.IterQueries(ctx, 2)
	require.NoError(t, err)
	queries := collect(t, ch)

	require.Len(t, queries, 2)
	assert.Equal(t, "q1", queries[0].ID)
}

func TestIterQrels_ErrorPropagates(t *testing.T) {
	ds := newFixtureDataset()
	ds.QrelsErr = fmt.Errorf("stream broken")
	reg := memory.NewRegistry()
	reg.Register("msmarco-passage/trec-dl-2020", ds)

	a, err := dataset.New(reg, 2020, dataset.ModePassage)
	require.NoError(t, err)

	ch, err := a.IterQrels(context.Background(), 0)
	require.NoError(t, err)

	var sawErr bool
	for res := range ch {
		if res.Err != nil {
			sawErr = true
			assert.Contains(t, res.Err.Error(), "stream broken")
		}
	}
	assert.True(t, sawErr, "iterator must surface the stream error to the caller")
}

func TestLoad_IsRepeatable(t *testing.T) {
	a, err := dataset.New(newFixtureRegistry(t), 2020, dataset.ModePassage)
	require.NoError(t, err)

	first := a.Load(context.Background(), 0)
	second := a.Load(context.Background(), 0)

	assert.Equal(t, first, second)
}
