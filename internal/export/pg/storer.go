package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/trec-hunter/internal/dataset"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Storer struct {
	db *pgxpool.Pool
}

func NewStorer(ctx context.Context, pool *ConnectionPool) (*Storer, error) {
	s := &Storer{db: pool.conn}
	if err := s.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}
	return s, nil
}

func (s *Storer) EnsureSchema(ctx context.Context) error {
	cmd := `
        CREATE TABLE IF NOT EXISTS qrels_flat (
            run_id       TEXT        NOT NULL,
            query_id     TEXT        NOT NULL,
            query_text   TEXT        NOT NULL,
            doc_id       TEXT        NOT NULL,
            passage_text TEXT        NOT NULL,
            relevance    INT         NOT NULL,
            exported_at  TIMESTAMPTZ NOT NULL,
            PRIMARY KEY (run_id, query_id, doc_id)
        );
    `
	if _, err := s.db.Exec(ctx, cmd); err != nil {
		return fmt.Errorf("failed to create qrels_flat table: %w", err)
	}
	return nil
}

func (s *Storer) SaveBulk(ctx context.Context, runID string, rows []dataset.Row) error {
	if len(rows) == 0 {
		return nil
	}

	now := time.Now()
	records := make([][]interface{}, len(rows))
	for i, r := range rows {
		records[i] = []interface{}{
			runID,
			r.QueryID,
			r.QueryText,
			r.DocID,
			r.PassageText,
			r.Relevance,
			now,
		}
	}

	_, err := s.db.CopyFrom(
		ctx,
		pgx.Identifier{"qrels_flat"},
		[]string{"run_id", "query_id", "query_text", "doc_id", "passage_text", "relevance", "exported_at"},
		pgx.CopyFromRows(records),
	)
	if err != nil {
		return fmt.Errorf("failed to bulk insert qrel rows: %w", err)
	}
	return nil
}

// CountRows reports how many rows a run exported, for verification.
func (s *Storer) CountRows(ctx context.Context, runID string) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, "SELECT count(*) FROM qrels_flat WHERE run_id = $1", runID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count exported rows: %w", err)
	}
	return count, nil
}
