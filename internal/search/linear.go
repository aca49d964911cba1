package search

import (
	"sort"

	"github.com/llmx/llmx/internal/index"
)

// linearFuse implements the legacy hybrid mode: normalize BM25 scores by
// their max, take 0.5*normalized_bm25 + 0.5*cosine. RRF is the default;
// this exists only for compatibility with configs that pin the old
// behavior.
func linearFuse(lexical, vector []index.SearchResult, limit int) []index.SearchResult {
	maxBM25 := 0.0
	for _, r := range lexical {
		if r.Score > maxBM25 {
			maxBM25 = r.Score
		}
	}

	byID := map[string]index.SearchResult{}
	combined := map[string]float64{}

	for _, r := range lexical {
		norm := 0.0
		if maxBM25 > 0 {
			norm = r.Score / maxBM25
		}
		combined[r.ChunkID] += 0.5 * norm
		byID[r.ChunkID] = r
	}
	for _, r := range vector {
		combined[r.ChunkID] += 0.5 * r.Score
		if _, ok := byID[r.ChunkID]; !ok {
			byID[r.ChunkID] = r
		}
	}

	ids := make([]string, 0, len(combined))
	for id := range combined {
		ids = append(ids, id)
	}
	sort.SliceStable(ids, func(i, j int) bool { return combined[ids[i]] > combined[ids[j]] })
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	out := make([]index.SearchResult, 0, len(ids))
	for _, id := range ids {
		r := byID[id]
		r.Score = combined[id]
		out = append(out, r)
	}
	return out
}
