package embed

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/llmx/llmx/internal/tokenizer"
)

// FallbackDimensions is the vector width of the deterministic fallback
// embedder: no model artifact is required to exercise search end to end.
const FallbackDimensions = 384

// FallbackModelID identifies vectors produced by Fallback, so a store can
// detect a model change and refuse to mix embedding spaces.
const FallbackModelID = "hash-sha256-384"

// Fallback is a deterministic, hash-based embedder: each token hashes via
// SHA-256 into a vector slot, and the accumulated vector is L2-normalized.
// It needs no network access or model download and is reproducible across
// runs and machines.
type Fallback struct {
	mu     sync.RWMutex
	closed bool
}

// NewFallback constructs a ready-to-use Fallback embedder.
func NewFallback() *Fallback {
	return &Fallback{}
}

func (e *Fallback) Dimension() int  { return FallbackDimensions }
func (e *Fallback) ModelID() string { return FallbackModelID }

func (e *Fallback) Embed(ctx context.Context, text string) ([]float32, error) {
	e.mu.RLock()
	closed := e.closed
	e.mu.RUnlock()
	if closed {
		return nil, fmt.Errorf("embed: fallback embedder is closed")
	}

	trimmed := strings.TrimSpace(text)
	vec := make([]float32, FallbackDimensions)
	if trimmed == "" {
		return vec, nil
	}

	for _, tok := range tokenizer.Tokenize(trimmed) {
		idx, weight := hashSlot(tok, FallbackDimensions)
		vec[idx] += weight
	}
	return normalize(vec), nil
}

func (e *Fallback) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Close marks the embedder unavailable; subsequent Embed calls fail.
func (e *Fallback) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

// hashSlot maps a token to a vector index and a signed unit weight, both
// derived from the same SHA-256 digest so the mapping is deterministic.
func hashSlot(token string, dim int) (int, float32) {
	sum := sha256.Sum256([]byte(token))
	idx := int(binary.BigEndian.Uint32(sum[0:4]) % uint32(dim))
	sign := float32(1)
	if sum[4]&1 == 1 {
		sign = -1
	}
	return idx, sign
}

func normalize(v []float32) []float32 {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	if sumSq == 0 {
		return v
	}
	norm := math.Sqrt(sumSq)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
