package search

import (
	"sort"

	"github.com/llmx/llmx/internal/index"
)

// RRFConstant is the standard reciprocal-rank-fusion constant.
const RRFConstant = 60

// RRFFuse merges ranked id lists via unweighted, unnormalized Reciprocal
// Rank Fusion: score[d] += 1/(k + rank + 1) for every occurrence of d,
// summed across lists. Ranks are zero-based within each list.
func RRFFuse(lists [][]string, limit int) []string {
	scores := map[string]float64{}
	order := []string{}
	for _, list := range lists {
		for rank, id := range list {
			if _, ok := scores[id]; !ok {
				order = append(order, id)
			}
			scores[id] += 1.0 / float64(RRFConstant+rank+1)
		}
	}

	sort.SliceStable(order, func(i, j int) bool { return scores[order[i]] > scores[order[j]] })
	if limit > 0 && len(order) > limit {
		order = order[:limit]
	}
	return order
}

// RRFFuseResults fuses ranked SearchResult lists (keeping the first-seen
// metadata for each chunk id) and returns them re-scored by RRF.
func RRFFuseResults(lists [][]index.SearchResult, limit int) []index.SearchResult {
	byID := map[string]index.SearchResult{}
	idLists := make([][]string, len(lists))
	for li, list := range lists {
		ids := make([]string, len(list))
		for i, r := range list {
			ids[i] = r.ChunkID
			if _, ok := byID[r.ChunkID]; !ok {
				byID[r.ChunkID] = r
			}
		}
		idLists[li] = ids
	}

	fusedIDs := RRFFuse(idLists, limit)
	scores := rrfScores(idLists)

	out := make([]index.SearchResult, 0, len(fusedIDs))
	for _, id := range fusedIDs {
		r := byID[id]
		r.Score = scores[id]
		out = append(out, r)
	}
	return out
}

func rrfScores(lists [][]string) map[string]float64 {
	scores := map[string]float64{}
	for _, list := range lists {
		for rank, id := range list {
			scores[id] += 1.0 / float64(RRFConstant+rank+1)
		}
	}
	return scores
}
