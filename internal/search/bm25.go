// Package search implements the lexical (BM25), vector (cosine), and
// hybrid (RRF) scorers over an index.IndexFile, plus the orchestrator that
// ties them together under a token budget.
package search

import (
	"math"
	"sort"
	"strings"

	"github.com/llmx/llmx/internal/index"
	"github.com/llmx/llmx/internal/tokenizer"
)

const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// BM25 ranks chunks in idx against query, honoring filters, and truncates
// to limit.
func BM25(idx *index.IndexFile, query string, filters index.SearchFilters, limit int) []index.SearchResult {
	queryTokens := tokenizer.Tokenize(query)
	if len(queryTokens) == 0 {
		return nil
	}

	n := len(idx.Chunks)
	if n == 0 {
		n = 1
	}
	avgDL := averageTokenEstimate(idx.Chunks)

	byID := make(map[string]*index.Chunk, len(idx.Chunks))
	for i := range idx.Chunks {
		byID[idx.Chunks[i].ID] = &idx.Chunks[i]
	}

	scores := map[string]float64{}
	seen := map[string]bool{}
	for _, t := range dedupe(queryTokens) {
		entry, ok := idx.InvertedIndex[t]
		if !ok {
			continue
		}
		df := entry.DF
		idf := math.Log((float64(n)-float64(df)+0.5)/(float64(df)+0.5) + 1)
		for _, p := range entry.Postings {
			c, ok := byID[p.ChunkID]
			if !ok || !passesFilters(c, filters) {
				continue
			}
			dl := float64(c.TokenEstimate)
			tf := float64(p.TF)
			denom := tf + bm25K1*(1-bm25B+bm25B*(dl/avgDL))
			scores[p.ChunkID] += idf * tf * (bm25K1 + 1) / denom
			seen[p.ChunkID] = true
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.SliceStable(ids, func(i, j int) bool { return scores[ids[i]] > scores[ids[j]] })
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	results := make([]index.SearchResult, 0, len(ids))
	for _, id := range ids {
		c := byID[id]
		results = append(results, toSearchResult(c, idx.ChunkRefs[c.ID], scores[id]))
	}
	return results
}

func averageTokenEstimate(chunks []index.Chunk) float64 {
	if len(chunks) == 0 {
		return 1.0
	}
	total := 0
	for _, c := range chunks {
		total += c.TokenEstimate
	}
	return float64(total) / float64(len(chunks))
}

func dedupe(tokens []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func passesFilters(c *index.Chunk, f index.SearchFilters) bool {
	if f.PathExact != "" && c.Path != f.PathExact {
		return false
	}
	if f.PathPrefix != "" && !strings.HasPrefix(c.Path, f.PathPrefix) {
		return false
	}
	if f.Kind != "" && c.Kind != f.Kind {
		return false
	}
	if f.SymbolPrefix != "" {
		if c.Symbol == "" || !strings.HasPrefix(c.Symbol, f.SymbolPrefix) {
			return false
		}
	}
	if f.HeadingPrefix != "" {
		joined := strings.Join(c.HeadingPath, "/")
		if !strings.HasPrefix(joined, f.HeadingPrefix) {
			return false
		}
	}
	return true
}

func toSearchResult(c *index.Chunk, ref string, score float64) index.SearchResult {
	return index.SearchResult{
		ChunkID:       c.ID,
		ChunkRef:      ref,
		Score:         score,
		Path:          c.Path,
		StartLine:     c.StartLine,
		EndLine:       c.EndLine,
		Snippet:       snippet(c.Content),
		HeadingPath:   c.HeadingPath,
		Kind:          c.Kind,
		TokenEstimate: c.TokenEstimate,
	}
}

func snippet(content string) string {
	r := []rune(content)
	if len(r) <= 200 {
		return content
	}
	return string(r[:200]) + "…"
}
