package eval

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/DjordjeVuckovic/trec-hunter/internal/registry"
)

type Config struct {
	KValues            []int
	RelevanceThreshold int
}

func DefaultConfig() Config {
	return Config{
		KValues:            []int{5, 10, 100},
		RelevanceThreshold: 1,
	}
}

type QueryResult struct {
	QueryID     string
	PrecisionAt map[int]float64
	RecallAt    map[int]float64
	NDCGAt      map[int]float64
	AP          float64
	RR          float64
}

type Report struct {
	Tag     string
	Config  Config
	Queries []QueryResult

	MeanPrecisionAt map[int]float64
	MeanRecallAt    map[int]float64
	MeanNDCGAt      map[int]float64
	MAP             float64
	MRR             float64
}

// JudgmentsByQuery groups flat qrels into per-query doc judgment maps.
func JudgmentsByQuery(qrels []registry.Qrel) map[string]map[string]int {
	byQuery := make(map[string]map[string]int)
	for _, r := range qrels {
		m, ok := byQuery[r.QueryID]
		if !ok {
			m = make(map[string]int)
			byQuery[r.QueryID] = m
		}
		m[r.DocID] = r.Relevance
	}
	return byQuery
}

// Evaluate scores a run against relevance judgments. Every judged query
// contributes to the means: judged queries missing from the run score zero,
// and run queries without judgments are ignored.
func Evaluate(run *Run, qrels []registry.Qrel, cfg Config) *Report {
	def := DefaultConfig()
	if len(cfg.KValues) == 0 {
		cfg.KValues = def.KValues
	}
	if cfg.RelevanceThreshold == 0 {
		cfg.RelevanceThreshold = def.RelevanceThreshold
	}

	judgments := JudgmentsByQuery(qrels)

	report := &Report{
		Tag:             run.Tag,
		Config:          cfg,
		MeanPrecisionAt: make(map[int]float64, len(cfg.KValues)),
		MeanRecallAt:    make(map[int]float64, len(cfg.KValues)),
		MeanNDCGAt:      make(map[int]float64, len(cfg.KValues)),
	}

	qids := make([]string, 0, len(judgments))
	for qid := range judgments {
		qids = append(qids, qid)
	}
	sort.Strings(qids)

	for _, qid := range qids {
		jm := judgments[qid]
		ranked := run.Ranked[qid] // nil when the run skipped the query; all metrics score zero

		qr := QueryResult{
			QueryID:     qid,
			PrecisionAt: make(map[int]float64, len(cfg.KValues)),
			RecallAt:    make(map[int]float64, len(cfg.KValues)),
			NDCGAt:      make(map[int]float64, len(cfg.KValues)),
			AP:          AveragePrecision(ranked, jm, cfg.RelevanceThreshold),
			RR:          ReciprocalRank(ranked, jm, cfg.RelevanceThreshold),
		}
		for _, k := range cfg.KValues {
			qr.PrecisionAt[k] = PrecisionAtK(ranked, jm, k, cfg.RelevanceThreshold)
			qr.RecallAt[k] = RecallAtK(ranked, jm, k, cfg.RelevanceThreshold)
			qr.NDCGAt[k] = NDCGAtK(ranked, jm, k)
		}
		report.Queries = append(report.Queries, qr)
	}

	n := float64(len(report.Queries))
	if n == 0 {
		return report
	}
	for _, qr := range report.Queries {
		report.MAP += qr.AP / n
		report.MRR += qr.RR / n
		for _, k := range cfg.KValues {
			report.MeanPrecisionAt[k] += qr.PrecisionAt[k] / n
			report.MeanRecallAt[k] += qr.RecallAt[k] / n
			report.MeanNDCGAt[k] += qr.NDCGAt[k] / n
		}
	}

	return report
}

func (r *Report) WriteTable(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== TREC DL Evaluation: %s ===\n\n", r.Tag)
	fmt.Fprintf(tw, "queries evaluated:\t%d\n", len(r.Queries))
	fmt.Fprintf(tw, "MAP:\t%.4f\n", r.MAP)
	fmt.Fprintf(tw, "MRR:\t%.4f\n", r.MRR)
	for _, k := range r.Config.KValues {
		fmt.Fprintf(tw, "P@%d:\t%.4f\n", k, r.MeanPrecisionAt[k])
	}
	for _, k := range r.Config.KValues {
		fmt.Fprintf(tw, "R@%d:\t%.4f\n", k, r.MeanRecallAt[k])
	}
	for _, k := range r.Config.KValues {
		fmt.Fprintf(tw, "NDCG@%d:\t%.4f\n", k, r.MeanNDCGAt[k])
	}
	_ = tw.Flush()
}
