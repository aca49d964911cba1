package handler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/llmx/llmx/internal/embed"
	"github.com/llmx/llmx/internal/errors"
	"github.com/llmx/llmx/internal/export"
	"github.com/llmx/llmx/internal/index"
	"github.com/llmx/llmx/internal/ingest"
	"github.com/llmx/llmx/internal/search"
	"github.com/llmx/llmx/internal/store"
)

// Handler wires the five host-facing operations to the underlying
// ingest/search/store/export packages. It holds no state of its own
// beyond a store handle and a default embedder; cmd/llmx and
// internal/mcpserver both call through the same instance shape.
type Handler struct {
	Store    *store.Store
	Embedder embed.Embedder
}

// New constructs a Handler backed by st, using embedder as the default
// vector embedder (embed.NewFallback() when the caller has no neural
// embedder configured).
func New(st *store.Store, embedder embed.Embedder) *Handler {
	return &Handler{Store: st, Embedder: embedder}
}

// Index reads every path in req.Paths from disk, runs (or incrementally
// updates) the ingest pipeline, embeds every chunk, and persists the
// result. Filesystem walking is the caller's responsibility: req.Paths
// must already be a flat list of file paths, never directories.
func (h *Handler) Index(ctx context.Context, req IndexRequest) (IndexResponse, error) {
	if len(req.Paths) == 0 {
		return IndexResponse{}, errors.InvalidInput("index: paths must not be empty", nil)
	}

	opts := applyIngestOverrides(ingest.DefaultOptions(), req.Options)

	inputs, ioWarnings := readInputs(req.Paths)
	rootKey := canonicalPathsKey(req.Paths)

	prevMeta, existed := h.Store.FindMetadataByPath(rootKey)

	var idx *index.IndexFile
	if existed {
		prev, err := h.Store.Load(prevMeta.ID)
		if err != nil {
			return IndexResponse{}, errors.StoreIOError("index: load previous index", err)
		}
		idx = ingest.Update(prev, inputs, opts)
	} else {
		idx = ingest.Ingest(inputs, opts)
	}
	idx.Warnings = append(idx.Warnings, ioWarnings...)

	if h.Embedder != nil {
		texts := make([]string, len(idx.Chunks))
		for i, c := range idx.Chunks {
			texts[i] = c.Content
		}
		vecs, err := h.Embedder.EmbedBatch(ctx, texts)
		if err != nil {
			// Embedding failure is retryable and never blocks persisting a
			// lexically-searchable index.
			idx.Embeddings = nil
			idx.EmbeddingModel = ""
		} else {
			idx.Embeddings = vecs
			idx.EmbeddingModel = h.Embedder.ModelID()
		}
	}

	if _, err := h.Store.Save(idx, rootKey, time.Now().UnixMilli()); err != nil {
		return IndexResponse{}, errors.StoreIOError("index: save index", err)
	}

	return IndexResponse{
		IndexID:  idx.IndexID,
		Created:  !existed,
		Stats:    idx.Stats,
		Warnings: idx.Warnings,
	}, nil
}

// Search runs a lexical search, or a hybrid lexical+vector search when
// req.UseSemantic is set, against a previously built index and applies
// the token budget.
func (h *Handler) Search(ctx context.Context, req SearchRequest) (SearchResponse, error) {
	if req.IndexID == "" {
		return SearchResponse{}, errors.InvalidInput("search: index_id is required", nil)
	}
	if strings.TrimSpace(req.Query) == "" {
		return SearchResponse{}, errors.InvalidInput("search: query is required", nil)
	}

	idx, err := h.Store.Load(req.IndexID)
	if err != nil {
		if store.IsNotFound(err) {
			return SearchResponse{}, errors.NotFound(fmt.Sprintf("search: index %q not found", req.IndexID), err)
		}
		return SearchResponse{}, errors.StoreIOError("search: load index", err)
	}

	strategy := search.StrategyHybrid
	if !req.UseSemantic {
		strategy = search.StrategyLexical
	}

	resp, err := search.Run(ctx, idx, h.Embedder, search.Request{
		Query:     req.Query,
		Filters:   req.Filters,
		Limit:     req.Limit,
		MaxTokens: req.MaxTokens,
		Strategy:  strategy,
	})
	if err != nil {
		return SearchResponse{}, errors.Internal("search: run", err)
	}

	return SearchResponse{
		Results:      resp.Results,
		TruncatedIDs: resp.TruncatedIDs,
		TotalMatches: resp.TotalMatches,
	}, nil
}

// Explore lists files, a chunk outline, or symbols within an index,
// optionally narrowed by a path prefix.
func (h *Handler) Explore(ctx context.Context, req ExploreRequest) (ExploreResponse, error) {
	idx, err := h.Store.Load(req.IndexID)
	if err != nil {
		if store.IsNotFound(err) {
			return ExploreResponse{}, errors.NotFound(fmt.Sprintf("explore: index %q not found", req.IndexID), err)
		}
		return ExploreResponse{}, errors.StoreIOError("explore: load index", err)
	}

	var items []string
	switch req.Mode {
	case ExploreFiles:
		items = exploreFiles(idx, req.PathFilter)
	case ExploreOutline:
		items = exploreOutline(idx, req.PathFilter)
	case ExploreSymbols:
		items = exploreSymbols(idx, req.PathFilter)
	default:
		return ExploreResponse{}, errors.InvalidInput(fmt.Sprintf("explore: unknown mode %q", req.Mode), nil)
	}

	return ExploreResponse{Items: items, Total: len(items)}, nil
}

// Manage lists or deletes stored indexes.
func (h *Handler) Manage(ctx context.Context, req ManageRequest) (ManageResponse, error) {
	switch req.Action {
	case ManageList:
		return ManageResponse{Success: true, Indexes: h.Store.List()}, nil
	case ManageDelete:
		if req.IndexID == "" {
			return ManageResponse{}, errors.InvalidInput("manage: index_id is required for delete", nil)
		}
		if err := h.Store.Delete(req.IndexID); err != nil {
			return ManageResponse{}, errors.StoreIOError("manage: delete index", err)
		}
		return ManageResponse{Success: true, Message: fmt.Sprintf("deleted %s", req.IndexID)}, nil
	default:
		return ManageResponse{}, errors.InvalidInput(fmt.Sprintf("manage: unknown action %q", req.Action), nil)
	}
}

// GetChunk resolves a chunk by exact id, by chunk_ref, or by id prefix.
// A nil, nil return means "not found" without surfacing an error, matching
// the Chunk? optional-return contract.
func (h *Handler) GetChunk(ctx context.Context, req GetChunkRequest) (*index.Chunk, error) {
	idx, err := h.Store.Load(req.IndexID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, errors.NotFound(fmt.Sprintf("get_chunk: index %q not found", req.IndexID), err)
		}
		return nil, errors.StoreIOError("get_chunk: load index", err)
	}

	key := req.ChunkIDOrRefOrPrefix
	if key == "" {
		return nil, errors.InvalidInput("get_chunk: chunk id, ref, or prefix is required", nil)
	}

	refToID := map[string]string{}
	for id, ref := range idx.ChunkRefs {
		refToID[ref] = id
	}

	if id, ok := refToID[key]; ok {
		return findChunkByID(idx, id), nil
	}

	var prefixMatch *index.Chunk
	for i := range idx.Chunks {
		c := &idx.Chunks[i]
		if c.ID == key {
			return c, nil
		}
		if strings.HasPrefix(c.ID, key) {
			if prefixMatch != nil {
				// ambiguous prefix: fall through to "not found" rather than
				// silently guessing.
				prefixMatch = nil
				break
			}
			prefixMatch = c
		}
	}
	return prefixMatch, nil
}

func findChunkByID(idx *index.IndexFile, id string) *index.Chunk {
	for i := range idx.Chunks {
		if idx.Chunks[i].ID == id {
			return &idx.Chunks[i]
		}
	}
	return nil
}

func applyIngestOverrides(defaults ingest.Options, o *IngestOptionsInput) ingest.Options {
	if o == nil {
		return defaults
	}
	if o.ChunkTargetChars != nil {
		defaults.ChunkTargetChars = *o.ChunkTargetChars
	}
	if o.ChunkMaxChars != nil {
		defaults.ChunkMaxChars = *o.ChunkMaxChars
	}
	if o.MaxFileBytes != nil {
		defaults.MaxFileBytes = *o.MaxFileBytes
	}
	if o.MaxTotalBytes != nil {
		defaults.MaxTotalBytes = *o.MaxTotalBytes
	}
	if o.MaxChunksPerFile != nil {
		defaults.MaxChunksPerFile = *o.MaxChunksPerFile
	}
	return defaults
}

// readInputs reads every path into a FileInput, recording an IO warning
// (rather than aborting the whole call) for any path that cannot be read.
func readInputs(paths []string) ([]index.FileInput, []index.IngestWarning) {
	inputs := make([]index.FileInput, 0, len(paths))
	var warnings []index.IngestWarning

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			warnings = append(warnings, index.IngestWarning{
				Path: p, Code: index.WarnIOError,
				Message: fmt.Sprintf("skipped: %v", err),
			})
			continue
		}
		in := index.FileInput{Path: p, Data: data}
		if fi, err := os.Stat(p); err == nil {
			ms := uint64(fi.ModTime().UnixMilli())
			in.MtimeMs = &ms
		}
		inputs = append(inputs, in)
	}
	return inputs, warnings
}

// canonicalPathsKey derives the registry root-path key for a multi-path
// index request: the sorted, deduped, newline-joined path set. A
// single-path request's key is just that path, matching the common case
// of indexing one directory tree's already-enumerated files.
func canonicalPathsKey(paths []string) string {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)
	deduped := sorted[:0]
	for _, p := range sorted {
		if len(deduped) == 0 || p != deduped[len(deduped)-1] {
			deduped = append(deduped, p)
		}
	}
	return filepath.ToSlash(strings.Join(deduped, "\n"))
}

func exploreFiles(idx *index.IndexFile, pathFilter string) []string {
	var out []string
	for _, f := range idx.Files {
		if pathFilter != "" && !strings.HasPrefix(f.Path, pathFilter) {
			continue
		}
		out = append(out, f.Path)
	}
	sort.Strings(out)
	return out
}

func exploreOutline(idx *index.IndexFile, pathFilter string) []string {
	chunks := make([]index.Chunk, 0, len(idx.Chunks))
	for _, c := range idx.Chunks {
		if pathFilter != "" && !strings.HasPrefix(c.Path, pathFilter) {
			continue
		}
		chunks = append(chunks, c)
	}
	sort.SliceStable(chunks, func(i, j int) bool {
		if chunks[i].Path != chunks[j].Path {
			return chunks[i].Path < chunks[j].Path
		}
		return chunks[i].StartLine < chunks[j].StartLine
	})

	refs := export.ResolveRefs(idx, chunks)
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, export.OutlineLine(c, refs[c.ID]))
	}
	return out
}

func exploreSymbols(idx *index.IndexFile, pathFilter string) []string {
	var out []string
	for _, c := range idx.Chunks {
		if c.Symbol == "" {
			continue
		}
		if pathFilter != "" && !strings.HasPrefix(c.Path, pathFilter) {
			continue
		}
		out = append(out, c.Path+":"+c.Symbol)
	}
	sort.Strings(out)
	return out
}
