package index

// ComputeStats derives summary counters from a finalized chunk set.
func ComputeStats(files []FileMeta, chunks []Chunk) Stats {
	s := Stats{
		TotalFiles:  len(files),
		TotalChunks: len(chunks),
	}
	if len(chunks) == 0 {
		return s
	}
	totalChars, totalTokens := 0, 0
	for _, c := range chunks {
		totalChars += len([]rune(c.Content))
		totalTokens += c.TokenEstimate
	}
	s.AvgChunkChars = totalChars / len(chunks)
	s.AvgChunkTokens = totalTokens / len(chunks)
	return s
}
