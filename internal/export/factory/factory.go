package factory

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/trec-hunter/internal/export"
	"github.com/DjordjeVuckovic/trec-hunter/internal/export/es"
	"github.com/DjordjeVuckovic/trec-hunter/internal/export/in_mem"
	"github.com/DjordjeVuckovic/trec-hunter/internal/export/pg"
)

// NewStorer creates an export.Storer for the configured backend.
func NewStorer(ctx context.Context, cfg *StorageConfig) (export.Storer, error) {
	switch cfg.Type {
	case export.PG:
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		return pg.NewStorer(ctx, pool)

	case export.ES:
		return es.NewStorer(ctx, *cfg.Es)

	case export.InMem:
		return in_mem.NewInMemStorer(), nil

	default:
		return nil, fmt.Errorf(string(export.ErrUnsupportedStorer), cfg.Type)
	}
}
