package search

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/llmx/llmx/internal/embed"
	"github.com/llmx/llmx/internal/index"
)

// Strategy selects how lexical and vector scores combine.
type Strategy string

const (
	StrategyLexical Strategy = "lexical"
	StrategyVector  Strategy = "vector"
	StrategyHybrid  Strategy = "hybrid"
)

// Request is the orchestrator's input contract.
type Request struct {
	Query           string
	Filters         index.SearchFilters
	Limit           int
	MaxTokens       int
	Strategy        Strategy
	LegacyLinearFuse bool
}

// Response mirrors the handler-level search contract.
type Response struct {
	Results      []index.SearchResult
	TruncatedIDs []string
	TotalMatches int
}

// Run executes a search against idx. Vector and hybrid strategies require
// an embedder; a nil embedder silently degrades hybrid to lexical-only,
// matching the vector scorer's own defensive empty-result behavior.
func Run(ctx context.Context, idx *index.IndexFile, embedder embed.Embedder, req Request) (Response, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}
	fanoutLimit := req.Limit * 2

	strategy := req.Strategy
	if strategy == "" {
		strategy = StrategyHybrid
	}

	var lexical, vector []index.SearchResult
	vectorUnavailable := false

	switch strategy {
	case StrategyLexical:
		lexical = BM25(idx, req.Query, req.Filters, fanoutLimit)
	case StrategyVector:
		vector = runVector(ctx, idx, embedder, req.Query, req.Filters, fanoutLimit)
		if vector == nil {
			vectorUnavailable = true
			lexical = BM25(idx, req.Query, req.Filters, fanoutLimit)
		}
	default: // hybrid
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			lexical = BM25(idx, req.Query, req.Filters, fanoutLimit)
			return nil
		})
		g.Go(func() error {
			vector = runVector(gctx, idx, embedder, req.Query, req.Filters, fanoutLimit)
			return nil
		})
		if err := g.Wait(); err != nil {
			return Response{}, err
		}
	}

	var candidates []index.SearchResult
	switch {
	case strategy == StrategyLexical:
		candidates = lexical
	case strategy == StrategyVector:
		// EmbedderError: embeddings requested but unavailable falls back to
		// BM25-only rather than returning zero results.
		if vectorUnavailable {
			candidates = lexical
		} else {
			candidates = vector
		}
	case req.LegacyLinearFuse:
		candidates = linearFuse(lexical, vector, req.Limit)
	default:
		candidates = RRFFuseResults([][]index.SearchResult{lexical, vector}, req.Limit)
	}

	total := len(candidates)
	results, truncated := applyTokenBudget(candidates, req.Limit, req.MaxTokens)

	return Response{Results: results, TruncatedIDs: truncated, TotalMatches: total}, nil
}

func runVector(ctx context.Context, idx *index.IndexFile, embedder embed.Embedder, query string, filters index.SearchFilters, limit int) []index.SearchResult {
	if embedder == nil {
		return nil
	}
	qvec, err := embedder.Embed(ctx, query)
	if err != nil {
		return nil
	}
	return Vector(idx, qvec, filters, limit)
}

// applyTokenBudget includes ranked results in order while the running
// token total stays within maxTokens, up to limit results; everything
// excluded for budget reasons lands in truncatedIDs.
func applyTokenBudget(ranked []index.SearchResult, limit, maxTokens int) ([]index.SearchResult, []string) {
	if maxTokens <= 0 {
		if len(ranked) > limit {
			return ranked[:limit], idsOf(ranked[limit:])
		}
		return ranked, nil
	}

	var (
		included  []index.SearchResult
		truncated []string
		used      int
	)
	for _, r := range ranked {
		if len(included) == limit {
			truncated = append(truncated, r.ChunkID)
			continue
		}
		if used+r.TokenEstimate > maxTokens {
			truncated = append(truncated, r.ChunkID)
			continue
		}
		used += r.TokenEstimate
		included = append(included, r)
	}
	return included, truncated
}

func idsOf(results []index.SearchResult) []string {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ChunkID
	}
	return ids
}
