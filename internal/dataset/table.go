package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/DjordjeVuckovic/trec-hunter/internal/apperr"
)

// Row is one flattened (query, doc, relevance) triple.
type Row struct {
	QueryID     string `json:"query_id"`
	QueryText   string `json:"query_text"`
	DocID       string `json:"doc_id"`
	PassageText string `json:"passage_text"`
	Relevance   int    `json:"relevance"`
}

type Table struct {
	Rows []Row `json:"rows"`
}

// Flatten joins a bundle into a flat table, one row per qrel whose query and
// doc both resolve to non-empty text. Qrels pointing at filtered-out or
// text-less records are dropped silently; row order follows qrel order.
// A nil bundle or a nil field slice is a malformed input and fails.
func Flatten(b *Bundle) (*Table, error) {
	if b == nil {
		return nil, apperr.NewValidation("bundle is nil")
	}
	if b.Docs == nil || b.Queries == nil || b.Qrels == nil {
		return nil, apperr.NewValidation("bundle must contain docs, queries and qrels")
	}

	docText := make(map[string]string, len(b.Docs))
	for _, d := range b.Docs {
		docText[d.ID] = d.Text
	}
	queryText := make(map[string]string, len(b.Queries))
	for _, q := range b.Queries {
		queryText[q.ID] = q.Text
	}

	rows := make([]Row, 0, len(b.Qrels))
	for _, r := range b.Qrels {
		query := queryText[r.QueryID]
		passage := docText[r.DocID]
		if query == "" || passage == "" {
			continue
		}
		rows = append(rows, Row{
			QueryID:     r.QueryID,
			QueryText:   query,
			DocID:       r.DocID,
			PassageText: passage,
			Relevance:   r.Relevance,
		})
	}

	return &Table{Rows: rows}, nil
}

var tableHeader = []string{"query_id", "query_text", "doc_id", "passage_text", "relevance"}

func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tableHeader); err != nil {
		return fmt.Errorf("write table header: %w", err)
	}
	for _, row := range t.Rows {
		record := []string{row.QueryID, row.QueryText, row.DocID, row.PassageText, strconv.Itoa(row.Relevance)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write table row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable renders a human-readable preview, truncating long text fields.
func (t *Table) WriteTable(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "QUERY_ID\tQUERY\tDOC_ID\tPASSAGE\tREL\n")
	for _, row := range t.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
			row.QueryID, clip(row.QueryText, 40), row.DocID, clip(row.PassageText, 60), row.Relevance)
	}
	_ = tw.Flush()
}

func clip(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-3]) + "..."
}
