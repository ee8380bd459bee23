package registry

import (
	"context"
	"errors"
)

// ErrNotFound is the raw signal a Registry returns for an unknown dataset
// identifier. Callers above the registry layer wrap it, they do not expose it.
var ErrNotFound = errors.New("unknown dataset identifier")

// Doc is a single corpus entry. Text may be empty when the underlying
// collection carries no body for the id.
type Doc struct {
	ID   string `json:"doc_id"`
	Text string `json:"text"`
}

type Query struct {
	ID   string `json:"query_id"`
	Text string `json:"text"`
}

// Qrel is one relevance judgment connecting a query to a doc.
type Qrel struct {
	QueryID   string `json:"query_id"`
	DocID     string `json:"doc_id"`
	Relevance int    `json:"relevance"`
}

// Result carries one streamed record or the error that interrupted the
// stream. A Result with a non-nil Err is terminal for that stream.
type Result[T any] struct {
	Record T
	Err    error
}

// Dataset is one resolved corpus plus its topics and judgments. Every call
// opens a fresh stream over the underlying source; streams are finite,
// forward-only and closed when drained or when ctx is cancelled.
type Dataset interface {
	Docs(ctx context.Context) (<-chan Result[Doc], error)
	Queries(ctx context.Context) (<-chan Result[Query], error)
	Qrels(ctx context.Context) (<-chan Result[Qrel], error)
}

// Registry resolves dataset identifiers to handles. Resolve returns
// ErrNotFound (possibly wrapped) for identifiers it does not know.
type Registry interface {
	Resolve(id string) (Dataset, error)
	Identifiers() []string
}
