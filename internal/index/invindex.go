package index

import "github.com/llmx/llmx/internal/tokenizer"

// BuildInvertedIndex tokenizes every chunk's content and assembles a
// term -> postings map. Postings within a term are sorted by chunk id so
// that the resulting index is deterministic across rebuilds.
func BuildInvertedIndex(chunks []Chunk) InvertedIndex {
	idx := InvertedIndex{}
	for _, c := range chunks {
		counts := map[string]int{}
		docLen := tokenizer.TokenizeCounts(c.Content, counts)
		for term, tf := range counts {
			entry, ok := idx[term]
			if !ok {
				entry = &TermEntry{}
				idx[term] = entry
			}
			entry.DF++
			entry.Postings = append(entry.Postings, Posting{
				ChunkID: c.ID,
				TF:      tf,
				DocLen:  docLen,
			})
		}
	}
	for _, entry := range idx {
		sortPostings(entry.Postings)
	}
	return idx
}

func sortPostings(p []Posting) {
	for i := 1; i < len(p); i++ {
		for j := i; j > 0 && p[j-1].ChunkID > p[j].ChunkID; j-- {
			p[j-1], p[j] = p[j], p[j-1]
		}
	}
}
