package search

import (
	"math"
	"sort"

	"github.com/llmx/llmx/internal/index"
)

// Vector ranks chunks by cosine similarity between each chunk's embedding
// and queryVec. Returns nil if embeddings are absent or misaligned.
func Vector(idx *index.IndexFile, queryVec []float32, filters index.SearchFilters, limit int) []index.SearchResult {
	if len(idx.Embeddings) != len(idx.Chunks) {
		return nil
	}

	type scored struct {
		i     int
		score float64
	}
	var hits []scored
	for i := range idx.Chunks {
		c := &idx.Chunks[i]
		if !passesFilters(c, filters) {
			continue
		}
		hits = append(hits, scored{i: i, score: cosine(idx.Embeddings[i], queryVec)})
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].score > hits[b].score })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	results := make([]index.SearchResult, 0, len(hits))
	for _, h := range hits {
		c := &idx.Chunks[h.i]
		results = append(results, toSearchResult(c, idx.ChunkRefs[c.ID], h.score))
	}
	return results
}

// cosine assumes vectors are typically L2-normalized (per the embedder
// contract) but still divides by norms defensively.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
