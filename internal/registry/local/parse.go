package local

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/trec-hunter/internal/registry"
)

// MS MARCO corpus and query files are tab-separated `id<TAB>text`; qrels use
// the TREC format `qid iteration docid relevance` with arbitrary whitespace.

const maxLineBytes = 16 * 1024 * 1024

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	return scanner
}

func parseDoc(line string) (registry.Doc, error) {
	id, text, err := splitTSV(line)
	if err != nil {
		return registry.Doc{}, err
	}
	return registry.Doc{ID: id, Text: text}, nil
}

func parseQuery(line string) (registry.Query, error) {
	id, text, err := splitTSV(line)
	if err != nil {
		return registry.Query{}, err
	}
	return registry.Query{ID: id, Text: text}, nil
}

func splitTSV(line string) (string, string, error) {
	id, text, found := strings.Cut(line, "\t")
	if !found {
		return "", "", fmt.Errorf("expected id<TAB>text, got %q", truncate(line))
	}
	if id == "" {
		return "", "", fmt.Errorf("empty id in line %q", truncate(line))
	}
	return id, text, nil
}

func parseQrel(line string) (registry.Qrel, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return registry.Qrel{}, fmt.Errorf("expected 4 qrel fields, got %d", len(fields))
	}
	rel, err := strconv.Atoi(fields[3])
	if err != nil {
		return registry.Qrel{}, fmt.Errorf("invalid relevance %q: %w", fields[3], err)
	}
	return registry.Qrel{
		QueryID:   fields[0],
		DocID:     fields[2],
		Relevance: rel,
	}, nil
}

func truncate(line string) string {
	if len(line) > 80 {
		return line[:80] + "..."
	}
	return line
}
