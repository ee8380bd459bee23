package eval

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Run holds ranked retrieval results per query, as produced by a retrieval
// system in the standard TREC run format:
//
//	qid Q0 docid rank score tag
type Run struct {
	Tag     string
	Ranked  map[string][]string
	queryID []string
}

func (r *Run) QueryIDs() []string {
	return r.queryID
}

func LoadRunFile(path string) (*Run, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open run file: %w", err)
	}
	defer file.Close()

	run, err := ParseRun(file)
	if err != nil {
		return nil, fmt.Errorf("parse run file %s: %w", path, err)
	}
	return run, nil
}

func ParseRun(r io.Reader) (*Run, error) {
	type scored struct {
		docID string
		rank  int
	}
	byQuery := make(map[string][]scored)
	var order []string
	tag := ""

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 6 {
			slog.Debug("skipping malformed run line", "line", lineNo)
			continue
		}
		rank, err := strconv.Atoi(fields[3])
		if err != nil {
			slog.Debug("skipping run line with invalid rank", "line", lineNo, "rank", fields[3])
			continue
		}
		qid := fields[0]
		if _, ok := byQuery[qid]; !ok {
			order = append(order, qid)
		}
		byQuery[qid] = append(byQuery[qid], scored{docID: fields[2], rank: rank})
		tag = fields[5]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read run: %w", err)
	}
	if len(byQuery) == 0 {
		return nil, fmt.Errorf("run is empty")
	}

	ranked := make(map[string][]string, len(byQuery))
	for qid, docs := range byQuery {
		sort.SliceStable(docs, func(i, j int) bool { return docs[i].rank < docs[j].rank })
		ids := make([]string, len(docs))
		for i, d := range docs {
			ids[i] = d.docID
		}
		ranked[qid] = ids
	}

	return &Run{Tag: tag, Ranked: ranked, queryID: order}, nil
}
