// Package handler implements the host-facing operation surface consumed
// identically by the CLI and the MCP server: index, search, explore,
// manage, get_chunk.
package handler

import (
	"github.com/llmx/llmx/internal/index"
)

// IndexRequest is the input to Index.
type IndexRequest struct {
	Paths   []string
	Options *IngestOptionsInput
}

// IngestOptionsInput carries the subset of ingest options a caller may
// override; zero/nil fields fall back to defaults.
type IngestOptionsInput struct {
	ChunkTargetChars *int
	ChunkMaxChars    *int
	MaxFileBytes     *int
	MaxTotalBytes    *int
	MaxChunksPerFile *int
}

// IndexResponse is the output of Index.
type IndexResponse struct {
	IndexID  string
	Created  bool
	Stats    index.Stats
	Warnings []index.IngestWarning
}

// SearchRequest is the input to Search.
type SearchRequest struct {
	IndexID     string
	Query       string
	Filters     index.SearchFilters
	Limit       int
	MaxTokens   int
	UseSemantic bool
}

// SearchResponse is the output of Search.
type SearchResponse struct {
	Results      []index.SearchResult
	TruncatedIDs []string
	TotalMatches int
}

// ExploreMode is the closed set of explore views.
type ExploreMode string

const (
	ExploreFiles   ExploreMode = "files"
	ExploreOutline ExploreMode = "outline"
	ExploreSymbols ExploreMode = "symbols"
)

// ExploreRequest is the input to Explore.
type ExploreRequest struct {
	IndexID    string
	Mode       ExploreMode
	PathFilter string
}

// ExploreResponse is the output of Explore.
type ExploreResponse struct {
	Items []string
	Total int
}

// ManageAction is the closed set of management operations.
type ManageAction string

const (
	ManageList   ManageAction = "list"
	ManageDelete ManageAction = "delete"
)

// ManageRequest is the input to Manage.
type ManageRequest struct {
	Action  ManageAction
	IndexID string
}

// ManageResponse is the output of Manage.
type ManageResponse struct {
	Success bool
	Indexes []index.Metadata
	Message string
}

// GetChunkRequest is the input to GetChunk.
type GetChunkRequest struct {
	IndexID              string
	ChunkIDOrRefOrPrefix string
}
