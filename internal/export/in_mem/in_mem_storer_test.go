package in_mem

import (
	"context"
	"testing"

	"github.com/DjordjeVuckovic/trec-hunter/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemStorer_SaveBulk(t *testing.T) {
	s := NewInMemStorer()

	rows := []dataset.Row{
		{QueryID: "q1", DocID: "d1", Relevance: 2},
		{QueryID: "q1", DocID: "d2", Relevance: 0},
	}

	require.NoError(t, s.SaveBulk(context.Background(), "run-1", rows))
	require.NoError(t, s.SaveBulk(context.Background(), "run-1", rows[:1]))

	assert.Len(t, s.Rows("run-1"), 3)
	assert.Empty(t, s.Rows("run-2"))
}
