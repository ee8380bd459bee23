package dataset_test

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/DjordjeVuckovic/trec-hunter/internal/apperr"
	"github.com/DjordjeVuckovic/trec-hunter/internal/dataset"
	"github.com/DjordjeVuckovic/trec-hunter/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten_SingleJudgment(t *testing.T) {
	b := &dataset.Bundle{
		Docs:    []registry.Doc{{ID: "d1", Text: "x is a thing"}},
		Queries: []registry.Query{{ID: "q1", Text: "what is x"}},
		Qrels:   []registry.Qrel{{QueryID: "q1", DocID: "d1", Relevance: 2}},
	}

	table, err := dataset.Flatten(b)
	require.NoError(t, err)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, dataset.Row{
		QueryID:     "q1",
		QueryText:   "what is x",
		DocID:       "d1",
		PassageText: "x is a thing",
		Relevance:   2,
	}, table.Rows[0])
}

func TestFlatten_DropsRowsWithMissingText(t *testing.T) {
	b := &dataset.Bundle{
		Docs: []registry.Doc{
			{ID: "d1", Text: "x is a thing"},
			{ID: "d2", Text: ""},
		},
		Queries: []registry.Query{{ID: "q1", Text: "what is x"}},
		Qrels: []registry.Qrel{
			{QueryID: "q1", DocID: "d1", Relevance: 2},
			{QueryID: "q1", DocID: "d2", Relevance: 1},
			{QueryID: "q1", DocID: "d9", Relevance: 1},
			{QueryID: "q9", DocID: "d1", Relevance: 1},
		},
	}

	table, err := dataset.Flatten(b)
	require.NoError(t, err)

	require.Len(t, table.Rows, 1, "empty-text, unknown-doc and unknown-query qrels are dropped")
	assert.Equal(t, "d1", table.Rows[0].DocID)
}

func TestFlatten_RowOrderFollowsQrels(t *testing.T) {
	b := &dataset.Bundle{
		Docs: []registry.Doc{
			{ID: "d1", Text: "one"},
			{ID: "d2", Text: "two"},
		},
		Queries: []registry.Query{
			{ID: "q1", Text: "first"},
			{ID: "q2", Text: "second"},
		},
		Qrels: []registry.Qrel{
			{QueryID: "q2", DocID: "d2", Relevance: 1},
			{QueryID: "q1", DocID: "d1", Relevance: 0},
		},
	}

	table, err := dataset.Flatten(b)
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "q2", table.Rows[0].QueryID)
	assert.Equal(t, "q1", table.Rows[1].QueryID)
	assert.Equal(t, 0, table.Rows[1].Relevance)
}

func TestFlatten_MalformedInput(t *testing.T) {
	tests := []struct {
		name   string
		bundle *dataset.Bundle
	}{
		{"nil bundle", nil},
		{"missing qrels", &dataset.Bundle{Docs: []registry.Doc{}, Queries: []registry.Query{}}},
		{"missing docs", &dataset.Bundle{Queries: []registry.Query{}, Qrels: []registry.Qrel{}}},
		{"missing queries", &dataset.Bundle{Docs: []registry.Doc{}, Qrels: []registry.Qrel{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dataset.Flatten(tt.bundle)

			var ve *apperr.ValidationError
			require.ErrorAs(t, err, &ve)
		})
	}
}

func TestFlatten_EmptyButPresentFieldsAreValid(t *testing.T) {
	b := &dataset.Bundle{
		Docs:    []registry.Doc{},
		Queries: []registry.Query{},
		Qrels:   []registry.Qrel{},
	}

	table, err := dataset.Flatten(b)
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
}

func TestTable_WriteCSV(t *testing.T) {
	table := &dataset.Table{Rows: []dataset.Row{
		{QueryID: "q1", QueryText: "what is x", DocID: "d1", PassageText: "x is a thing", Relevance: 2},
	}}

	var buf bytes.Buffer
	require.NoError(t, table.WriteCSV(&buf))

	want := "query_id,query_text,doc_id,passage_text,relevance\nq1,what is x,d1,x is a thing,2\n"
	assert.Equal(t, want, buf.String())
}

func TestTable_WriteTable(t *testing.T) {
	table := &dataset.Table{Rows: []dataset.Row{
		{QueryID: "q1", QueryText: "what is x", DocID: "d1", PassageText: "x is a thing", Relevance: 2},
	}}

	var buf bytes.Buffer
	table.WriteTable(&buf)

	assert.Contains(t, buf.String(), "QUERY_ID")
	assert.Contains(t, buf.String(), "q1")
}

func TestTable_WriteTable_TruncatesOnRuneBoundaries(t *testing.T) {
	table := &dataset.Table{Rows: []dataset.Row{
		{
			QueryID:     "q1",
			QueryText:   "what is x",
			DocID:       "d1",
			PassageText: strings.Repeat("ü", 80),
			Relevance:   2,
		},
	}}

	var buf bytes.Buffer
	table.WriteTable(&buf)

	assert.True(t, utf8.ValidString(buf.String()))
	assert.Contains(t, buf.String(), "...")
	assert.NotContains(t, buf.String(), string(utf8.RuneError))
}
