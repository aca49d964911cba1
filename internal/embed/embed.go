// Package embed defines the embedder contract consumed by search and
// ingest, plus a deterministic hash-based fallback that needs no model
// weights or network access.
package embed

import "context"

// Embedder produces fixed-dimension, unit-norm vectors for text. Any
// concrete implementation (neural or deterministic) satisfies this
// contract; callers never inspect how vectors are produced.
type Embedder interface {
	Dimension() int
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	ModelID() string
}
