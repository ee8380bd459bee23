package local

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/DjordjeVuckovic/trec-hunter/internal/registry"
)

// Registry serves datasets from a local data home directory. The directory
// layout is described by a catalog; identifiers not listed there resolve to
// registry.ErrNotFound.
type Registry struct {
	root    string
	entries map[string]CatalogEntry
}

func NewRegistry(root string, catalog *Catalog) *Registry {
	entries := make(map[string]CatalogEntry, len(catalog.Datasets))
	for _, e := range catalog.Datasets {
		entries[e.ID] = e
	}
	return &Registry{root: root, entries: entries}
}

// NewRegistryFromDir loads <root>/catalog.yaml and builds a registry over it.
func NewRegistryFromDir(root string) (*Registry, error) {
	catalog, err := LoadCatalog(filepath.Join(root, "catalog.yaml"))
	if err != nil {
		return nil, fmt.Errorf("load data home %s: %w", root, err)
	}
	return NewRegistry(root, catalog), nil
}

func (r *Registry) Resolve(id string) (registry.Dataset, error) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, registry.ErrNotFound)
	}
	return &Dataset{root: r.root, entry: entry}, nil
}

func (r *Registry) Identifiers() []string {
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	return ids
}

// Dataset streams TREC-format files. Every iteration call opens the backing
// file anew, so concurrent and repeated scans never share reader state.
type Dataset struct {
	root  string
	entry CatalogEntry
}

func (d *Dataset) Docs(ctx context.Context) (<-chan registry.Result[registry.Doc], error) {
	return streamFile(ctx, filepath.Join(d.root, d.entry.Docs), parseDoc)
}

func (d *Dataset) Queries(ctx context.Context) (<-chan registry.Result[registry.Query], error) {
	return streamFile(ctx, filepath.Join(d.root, d.entry.Queries), parseQuery)
}

func (d *Dataset) Qrels(ctx context.Context) (<-chan registry.Result[registry.Qrel], error) {
	return streamFile(ctx, filepath.Join(d.root, d.entry.Qrels), parseQrel)
}

func streamFile[T any](ctx context.Context, path string, parse func(line string) (T, error)) (<-chan registry.Result[T], error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset file: %w", err)
	}

	var src io.Reader = file
	closer := func() { _ = file.Close() }
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("open gzip dataset file: %w", err)
		}
		src = gz
		closer = func() {
			_ = gz.Close()
			_ = file.Close()
		}
	}

	out := make(chan registry.Result[T])
	go func() {
		defer close(out)
		defer closer()

		scanner := newLineScanner(src)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			rec, err := parse(line)
			if err != nil {
				slog.Debug("skipping malformed dataset line", "file", path, "error", err)
				continue
			}
			select {
			case out <- registry.Result[T]{Record: rec}:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			select {
			case out <- registry.Result[T]{Err: fmt.Errorf("read %s: %w", path, err)}:
			case <-ctx.Done():
			}
		}
	}()

	return out, nil
}
