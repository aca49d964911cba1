package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/llmx/llmx/internal/handler"
	"github.com/llmx/llmx/internal/index"
	"github.com/llmx/llmx/internal/tokenizer"
)

func newSearchCmd() *cobra.Command {
	var (
		indexID     string
		limit       int
		maxTokens   int
		useSemantic bool
		pathPrefix  string
		kind        string
		jsonOut     bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Search a previously built index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := newHandler()
			if err != nil {
				return err
			}

			resp, err := h.Search(cmd.Context(), handler.SearchRequest{
				IndexID:     indexID,
				Query:       strings.Join(args, " "),
				Limit:       limit,
				MaxTokens:   maxTokens,
				UseSemantic: useSemantic,
				Filters: index.SearchFilters{
					PathPrefix: pathPrefix,
					Kind:       parseKindFlag(kind),
				},
			})
			if err != nil {
				return err
			}

			if wantsJSON(jsonOut) {
				return printJSON(resp)
			}

			fmt.Printf("%d matches (showing %d)\n\n", resp.TotalMatches, len(resp.Results))
			for _, r := range resp.Results {
				fmt.Printf("[%s] %s:%d-%d  score=%.4f\n", r.ChunkRef, r.Path, r.StartLine, r.EndLine, r.Score)
				fmt.Printf("  %s\n\n", r.Snippet)
			}
			if len(resp.TruncatedIDs) > 0 {
				fmt.Printf("(%d additional results truncated by token budget)\n", len(resp.TruncatedIDs))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&indexID, "index-id", "", "Index to search (required)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of results")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Token budget for returned snippets (0 = unbounded)")
	cmd.Flags().BoolVar(&useSemantic, "semantic", false, "Enable hybrid lexical+vector search")
	cmd.Flags().StringVar(&pathPrefix, "path-prefix", "", "Restrict results to paths with this prefix")
	cmd.Flags().StringVar(&kind, "kind", "", "Restrict results to a chunk kind (markdown, json, js, html, text, image)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON output")
	_ = cmd.MarkFlagRequired("index-id")
	return cmd
}

// parseKindFlag maps a lowercase --kind flag value to the closed ChunkKind
// enum; an unrecognized value leaves the filter unset.
func parseKindFlag(s string) tokenizer.ChunkKind {
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
