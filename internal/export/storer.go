package export

import (
	"context"

	"github.com/DjordjeVuckovic/trec-hunter/internal/dataset"
)

// Storer persists flattened qrel rows for downstream training/evaluation
// pipelines.
type Storer interface {
	SaveBulk(ctx context.Context, runID string, rows []dataset.Row) error
}

type Type string

const (
	ES    Type = "es"
	PG    Type = "pg"
	InMem Type = "in_mem"
)

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported storer type: %s"
)

func (e StorerError) Error() string {
	return string(e)
}
