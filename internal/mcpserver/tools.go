package mcpserver

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/llmx/llmx/internal/handler"
	"github.com/llmx/llmx/internal/index"
	"github.com/llmx/llmx/internal/tokenizer"
)

// chunkKindFromString maps a lowercase/mixed-case kind filter string to the
// closed ChunkKind enum; unrecognized values leave the filter unset rather
// than erroring, and the scorers skip the kind check when it is empty, so
// an unknown kind searches every kind.
func chunkKindFromString(s string) tokenizer.ChunkKind {
	switch strings.ToLower(s) {
	case "markdown", "md":
		return tokenizer.KindMarkdown
	case "json":
		return tokenizer.KindJSON
	case "javascript", "js":
		return tokenizer.KindJavaScript
	case "html":
		return tokenizer.KindHTML
	case "text", "txt":
		return tokenizer.KindText
	case "image", "img":
		return tokenizer.KindImage
	default:
		return ""
	}
}

// IndexToolInput is the index tool's argument shape.
type IndexToolInput struct {
	Paths            []string `json:"paths" jsonschema:"file paths to ingest"`
	ChunkTargetChars int      `json:"chunk_target_chars,omitempty" jsonschema:"target chunk size in characters, default 4000"`
	ChunkMaxChars    int      `json:"chunk_max_chars,omitempty" jsonschema:"hard chunk size cap in characters, default 8000"`
	MaxFileBytes     int      `json:"max_file_bytes,omitempty" jsonschema:"skip files larger than this many bytes, default 10MiB"`
	MaxTotalBytes    int      `json:"max_total_bytes,omitempty" jsonschema:"skip any file that would push the running total past this many bytes, default 50MiB"`
	MaxChunksPerFile int      `json:"max_chunks_per_file,omitempty" jsonschema:"cap chunks kept per file, default 2000"`
}

// IndexToolOutput is the index tool's result shape.
type IndexToolOutput struct {
	IndexID  string                 `json:"index_id"`
	Created  bool                   `json:"created"`
	Stats    index.Stats            `json:"stats"`
	Warnings []index.IngestWarning  `json:"warnings"`
}

func (s *Server) indexTool(ctx context.Context, _ *mcp.CallToolRequest, in IndexToolInput) (*mcp.CallToolResult, IndexToolOutput, error) {
	req := handler.IndexRequest{Paths: in.Paths, Options: optionsFromInput(in)}
	resp, err := s.handler.Index(ctx, req)
	if err != nil {
		return nil, IndexToolOutput{}, err
	}
	return nil, IndexToolOutput{
		IndexID: resp.IndexID, Created: resp.Created,
		Stats: resp.Stats, Warnings: resp.Warnings,
	}, nil
}

func optionsFromInput(in IndexToolInput) *handler.IngestOptionsInput {
	if in.ChunkTargetChars == 0 && in.ChunkMaxChars == 0 && in.MaxFileBytes == 0 &&
		in.MaxTotalBytes == 0 && in.MaxChunksPerFile == 0 {
		return nil
	}
	opts := &handler.IngestOptionsInput{}
	if in.ChunkTargetChars > 0 {
		opts.ChunkTargetChars = &in.ChunkTargetChars
	}
	if in.ChunkMaxChars > 0 {
		opts.ChunkMaxChars = &in.ChunkMaxChars
	}
	if in.MaxFileBytes > 0 {
		opts.MaxFileBytes = &in.MaxFileBytes
	}
	if in.MaxTotalBytes > 0 {
		opts.MaxTotalBytes = &in.MaxTotalBytes
	}
	if in.MaxChunksPerFile > 0 {
		opts.MaxChunksPerFile = &in.MaxChunksPerFile
	}
	return opts
}

// SearchFiltersInput narrows a search request.
type SearchFiltersInput struct {
	PathPrefix    string `json:"path_prefix,omitempty"`
	Kind          string `json:"kind,omitempty"`
	HeadingPrefix string `json:"heading_prefix,omitempty"`
	SymbolPrefix  string `json:"symbol_prefix,omitempty"`
}

// SearchToolInput is the search tool's argument shape.
type SearchToolInput struct {
	IndexID     string              `json:"index_id" jsonschema:"the index to search"`
	Query       string              `json:"query" jsonschema:"the search query"`
	Filters     *SearchFiltersInput `json:"filters,omitempty"`
	Limit       int                 `json:"limit,omitempty" jsonschema:"maximum number of results, default 20"`
	MaxTokens   int                 `json:"max_tokens,omitempty" jsonschema:"token budget for returned snippets"`
	UseSemantic bool                `json:"use_semantic,omitempty" jsonschema:"enable hybrid lexical+vector search, default false (lexical only)"`
}

// SearchToolOutput is the search tool's result shape.
type SearchToolOutput struct {
	Results      []index.SearchResult `json:"results"`
	TruncatedIDs []string             `json:"truncated_ids,omitempty"`
	TotalMatches int                  `json:"total_matches"`
}

func (s *Server) searchTool(ctx context.Context, _ *mcp.CallToolRequest, in SearchToolInput) (*mcp.CallToolResult, SearchToolOutput, error) {
	req := handler.SearchRequest{
		IndexID: in.IndexID, Query: in.Query, Limit: in.Limit,
		MaxTokens: in.MaxTokens, UseSemantic: in.UseSemantic,
		Filters: filtersFromInput(in.Filters),
	}
	resp, err := s.handler.Search(ctx, req)
	if err != nil {
		return nil, SearchToolOutput{}, err
	}
	return nil, SearchToolOutput{
		Results: resp.Results, TruncatedIDs: resp.TruncatedIDs, TotalMatches: resp.TotalMatches,
	}, nil
}

func filtersFromInput(in *SearchFiltersInput) index.SearchFilters {
	if in == nil {
		return index.SearchFilters{}
	}
	return index.SearchFilters{
		PathPrefix:    in.PathPrefix,
		Kind:          chunkKindFromString(in.Kind),
		HeadingPrefix: in.HeadingPrefix,
		SymbolPrefix:  in.SymbolPrefix,
	}
}

// ExploreToolInput is the explore tool's argument shape.
type ExploreToolInput struct {
	IndexID    string `json:"index_id"`
	Mode       string `json:"mode" jsonschema:"one of files, outline, symbols"`
	PathFilter string `json:"path_filter,omitempty"`
}

// ExploreToolOutput is the explore tool's result shape.
type ExploreToolOutput struct {
	Items []string `json:"items"`
	Total int      `json:"total"`
}

func (s *Server) exploreTool(ctx context.Context, _ *mcp.CallToolRequest, in ExploreToolInput) (*mcp.CallToolResult, ExploreToolOutput, error) {
	resp, err := s.handler.Explore(ctx, handler.ExploreRequest{
		IndexID: in.IndexID, Mode: handler.ExploreMode(in.Mode), PathFilter: in.PathFilter,
	})
	if err != nil {
		return nil, ExploreToolOutput{}, err
	}
	return nil, ExploreToolOutput{Items: resp.Items, Total: resp.Total}, nil
}

// ManageToolInput is the manage tool's argument shape.
type ManageToolInput struct {
	Action  string `json:"action" jsonschema:"one of list, delete"`
	IndexID string `json:"index_id,omitempty"`
}

// ManageToolOutput is the manage tool's result shape.
type ManageToolOutput struct {
	Success bool             `json:"success"`
	Indexes []index.Metadata `json:"indexes,omitempty"`
	Message string           `json:"message,omitempty"`
}

func (s *Server) manageTool(ctx context.Context, _ *mcp.CallToolRequest, in ManageToolInput) (*mcp.CallToolResult, ManageToolOutput, error) {
	resp, err := s.handler.Manage(ctx, handler.ManageRequest{
		Action: handler.ManageAction(in.Action), IndexID: in.IndexID,
	})
	if err != nil {
		return nil, ManageToolOutput{}, err
	}
	return nil, ManageToolOutput{Success: resp.Success, Indexes: resp.Indexes, Message: resp.Message}, nil
}

// GetChunkToolInput is the get_chunk tool's argument shape.
type GetChunkToolInput struct {
	IndexID string `json:"index_id"`
	ChunkID string `json:"chunk_id" jsonschema:"a chunk id, its short ref, or an id prefix"`
}

// GetChunkToolOutput is the get_chunk tool's result shape; Found is false
// when no chunk matched.
type GetChunkToolOutput struct {
	Found bool         `json:"found"`
	Chunk *index.Chunk `json:"chunk,omitempty"`
}

func (s *Server) getChunkTool(ctx context.Context, _ *mcp.CallToolRequest, in GetChunkToolInput) (*mcp.CallToolResult, GetChunkToolOutput, error) {
	c, err := s.handler.GetChunk(ctx, handler.GetChunkRequest{IndexID: in.IndexID, ChunkIDOrRefOrPrefix: in.ChunkID})
	if err != nil {
		return nil, GetChunkToolOutput{}, err
	}
	if c == nil {
		return nil, GetChunkToolOutput{Found: false}, nil
	}
	return nil, GetChunkToolOutput{Found: true, Chunk: c}, nil
}
