package eval

import (
	"math"
	"sort"
)

// Ranking metrics over string doc IDs. judgments maps doc ID to a graded
// relevance; unjudged docs count as grade 0.

// PrecisionAtK computes the fraction of top-K results that are relevant.
// A document is relevant if its judgment >= relevanceThreshold.
func PrecisionAtK(ranked []string, judgments map[string]int, k int, relevanceThreshold int) float64 {
	if k <= 0 || len(ranked) == 0 {
		return 0
	}

	n := min(k, len(ranked))
	var relevant int

	for i := 0; i < n; i++ {
		if judgments[ranked[i]] >= relevanceThreshold {
			relevant++
		}
	}

	return float64(relevant) / float64(k)
}

// RecallAtK computes the fraction of all relevant documents found in top-K.
func RecallAtK(ranked []string, judgments map[string]int, k int, relevanceThreshold int) float64 {
	if k <= 0 || len(ranked) == 0 {
		return 0
	}

	totalRelevant := countRelevant(judgments, relevanceThreshold)
	if totalRelevant == 0 {
		return 0
	}

	n := min(k, len(ranked))
	var found int

	for i := 0; i < n; i++ {
		if judgments[ranked[i]] >= relevanceThreshold {
			found++
		}
	}

	return float64(found) / float64(totalRelevant)
}

// AveragePrecision computes the mean of precision values at each relevant rank position.
func AveragePrecision(ranked []string, judgments map[string]int, relevanceThreshold int) float64 {
	if len(ranked) == 0 {
		return 0
	}

	totalRelevant := countRelevant(judgments, relevanceThreshold)
	if totalRelevant == 0 {
		return 0
	}

	var sumPrecision float64
	var relevantSeen int

	for i, docID := range ranked {
		if judgments[docID] >= relevanceThreshold {
			relevantSeen++
			sumPrecision += float64(relevantSeen) / float64(i+1)
		}
	}

	return sumPrecision / float64(totalRelevant)
}

// ReciprocalRank returns 1/rank of the first relevant document.
func ReciprocalRank(ranked []string, judgments map[string]int, relevanceThreshold int) float64 {
	for i, docID := range ranked {
		if judgments[docID] >= relevanceThreshold {
			return 1.0 / float64(i+1)
		}
	}
	return 0
}

// NDCGAtK computes Normalized Discounted Cumulative Gain at rank K.
// Uses graded relevance: DCG = sum((2^rel - 1) / log2(i+2)) for i in 0..K-1.
func NDCGAtK(ranked []string, judgments map[string]int, k int) float64 {
	if k <= 0 || len(ranked) == 0 || len(judgments) == 0 {
		return 0
	}

	dcg := dcgAtK(ranked, judgments, k)
	idcg := idealDCGAtK(judgments, k)

	if idcg == 0 {
		return 0
	}

	return dcg / idcg
}

func dcgAtK(ranked []string, judgments map[string]int, k int) float64 {
	n := min(k, len(ranked))
	var dcg float64

	for i := 0; i < n; i++ {
		rel := judgments[ranked[i]] // 0 for unjudged
		dcg += (math.Pow(2, float64(rel)) - 1) / math.Log2(float64(i+2))
	}

	return dcg
}

func idealDCGAtK(judgments map[string]int, k int) float64 {
	rels := make([]int, 0, len(judgments))
	for _, rel := range judgments {
		if rel > 0 {
			rels = append(rels, rel)
		}
	}

	sort.Sort(sort.Reverse(sort.IntSlice(rels)))

	n := min(k, len(rels))
	var idcg float64

	for i := 0; i < n; i++ {
		idcg += (math.Pow(2, float64(rels[i])) - 1) / math.Log2(float64(i+2))
	}

	return idcg
}

func countRelevant(judgments map[string]int, threshold int) int {
	var count int
	for _, rel := range judgments {
		if rel >= threshold {
			count++
		}
	}
	return count
}
