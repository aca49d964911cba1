package search

import (
	"context"
	"testing"

	"github.com/llmx/llmx/internal/embed"
	"github.com/llmx/llmx/internal/ingest"
	"github.com/llmx/llmx/internal/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestIndex(t *testing.T) *index.IndexFile {
	t.Helper()
	return ingest.Ingest([]index.FileInput{
		{Path: "a.md", Data: []byte("# Alpha\n\nthe quick brown fox jumps\n")},
		{Path: "b.md", Data: []byte("# Beta\n\nanother unrelated document about cats\n")},
	}, ingest.DefaultOptions())
}

func TestBM25_EmptyQueryReturnsNil(t *testing.T) {
	idx := buildTestIndex(t)
	results := BM25(idx, "", index.SearchFilters{}, 10)
	assert.Nil(t, results)
}

func TestBM25_RanksMatchingChunkFirst(t *testing.T) {
	idx := buildTestIndex(t)
	results := BM25(idx, "fox jumps", index.SearchFilters{}, 10)
	require.NotEmpty(t, results)
	assert.Equal(t, "a.md", results[0].Path)
}

func TestBM25_PathPrefixFilterExcludesOtherFiles(t *testing.T) {
	idx := buildTestIndex(t)
	results := BM25(idx, "document", index.SearchFilters{PathPrefix: "a.md"}, 10)
	for _, r := range results {
		assert.Equal(t, "a.md", r.Path)
	}
}

func TestBM25_ResultsCarryChunkRef(t *testing.T) {
	idx := buildTestIndex(t)
	results := BM25(idx, "fox jumps", index.SearchFilters{}, 10)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.NotEmpty(t, r.ChunkRef)
		assert.Equal(t, idx.ChunkRefs[r.ChunkID], r.ChunkRef)
	}
}

func TestRRFFuse_ConsensusOutranksSingleList(t *testing.T) {
	list1 := []string{"doc1", "doc2"}
	list2 := []string{"doc2", "doc3"}
	merged := RRFFuse([][]string{list1, list2}, 10)
	require.NotEmpty(t, merged)
	assert.Equal(t, "doc2", merged[0])
}

func TestRRFFuse_RespectsLimit(t *testing.T) {
	list := []string{"doc1", "doc2", "doc3"}
	merged := RRFFuse([][]string{list}, 2)
	assert.Len(t, merged, 2)
}

func TestVector_EmbeddingLengthMismatchReturnsNil(t *testing.T) {
	idx := buildTestIndex(t)
	idx.Embeddings = [][]float32{{1, 0}}
	results := Vector(idx, []float32{1, 0}, index.SearchFilters{}, 10)
	assert.Nil(t, results)
}

func TestOrchestrator_LexicalStrategy(t *testing.T) {
	idx := buildTestIndex(t)
	resp, err := Run(context.Background(), idx, nil, Request{
		Query:    "fox jumps",
		Strategy: StrategyLexical,
		Limit:    5,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "a.md", resp.Results[0].Path)
}

func TestOrchestrator_VectorStrategyWithoutEmbedderFallsBackToLexical(t *testing.T) {
	idx := buildTestIndex(t)
	resp, err := Run(context.Background(), idx, nil, Request{
		Query:    "fox jumps",
		Strategy: StrategyVector,
		Limit:    5,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "a.md", resp.Results[0].Path)
}

func TestOrchestrator_HybridWithoutEmbedderDegradesToLexical(t *testing.T) {
	idx := buildTestIndex(t)
	resp, err := Run(context.Background(), idx, nil, Request{
		Query:    "fox jumps",
		Strategy: StrategyHybrid,
		Limit:    5,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Results)
}

func TestOrchestrator_TokenBudgetTruncates(t *testing.T) {
	idx := buildTestIndex(t)
	resp, err := Run(context.Background(), idx, nil, Request{
		Query:     "fox jumps document cats",
		Strategy:  StrategyLexical,
		Limit:     10,
		MaxTokens: 1,
	})
	require.NoError(t, err)
	assert.True(t, len(resp.Results) <= 1)
}

func TestOrchestrator_HybridWithEmbedder(t *testing.T) {
	idx := buildTestIndex(t)
	e := embed.NewFallback()
	vecs := make([][]float32, len(idx.Chunks))
	for i, c := range idx.Chunks {
		v, err := e.Embed(context.Background(), c.Content)
		require.NoError(t, err)
		vecs[i] = v
	}
	idx.Embeddings = vecs
	idx.EmbeddingModel = e.ModelID()

	resp, err := Run(context.Background(), idx, e, Request{
		Query:    "fox jumps",
		Strategy: StrategyHybrid,
		Limit:    5,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Results)
}
