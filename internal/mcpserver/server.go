// Package mcpserver adapts the five llmx operations (index, search,
// explore, manage, get_chunk) to MCP tools. It is a thin transport: every
// handler call here delegates straight to internal/handler, the same
// functions cmd/llmx calls for its non-interactive subcommands.
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/llmx/llmx/internal/handler"
)

// Version is the llmx release identifier reported to MCP clients.
const Version = "0.1.0"

// Server is the MCP adapter over a Handler.
type Server struct {
	mcp     *mcp.Server
	handler *handler.Handler
	logger  *slog.Logger
}

// New constructs an MCP server wired to h and registers its five tools.
func New(h *handler.Handler) *Server {
	s := &Server{
		handler: h,
		logger:  slog.Default(),
	}
	s.mcp = mcp.NewServer(&mcp.Implementation{Name: "llmx", Version: Version}, nil)
	s.registerTools()
	return s
}

// MCPServer returns the underlying SDK server, e.g. for tests that want to
// drive it directly.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Serve runs the server over the given transport. Only "stdio" is
// supported; llmx's MCP surface is a local adapter, not a network service.
func (s *Server) Serve(ctx context.Context, transport string) error {
	switch transport {
	case "stdio", "":
		s.logger.Info("starting MCP server", slog.String("transport", "stdio"))
		err := s.mcp.Run(ctx, &mcp.StdioTransport{})
		if err != nil && err != context.Canceled {
			s.logger.Error("MCP server stopped with error", slog.String("error", err.Error()))
		}
		return err
	default:
		return fmt.Errorf("mcpserver: unknown transport %q (supported: stdio)", transport)
	}
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "index",
		Description: "Build or incrementally update a local index over a set of file paths. Returns the index id, whether it was newly created, summary stats, and any per-file warnings.",
	}, s.indexTool)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search",
		Description: "Lexical (BM25) search over a previously built index, or hybrid lexical+vector search when use_semantic is set. Returns ranked chunks within a token budget, plus the ids of any results truncated for budget reasons.",
	}, s.searchTool)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "explore",
		Description: "List an index's files, its chunk outline, or its symbols, optionally narrowed to a path prefix.",
	}, s.exploreTool)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "manage",
		Description: "List stored indexes or delete one by id.",
	}, s.manageTool)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_chunk",
		Description: "Fetch one chunk's full content and metadata by its id, short ref, or id prefix.",
	}, s.getChunkTool)

	s.logger.Info("MCP tools registered", slog.Int("count", 5))
}
