package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llmx/llmx/internal/handler"
)

func newGetChunkCmd() *cobra.Command {
	var (
		indexID string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "get-chunk <chunk-id-or-ref-or-prefix>",
		Short: "Fetch one chunk's full content and metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := newHandler()
			if err != nil {
				return err
			}

			chunk, err := h.GetChunk(cmd.Context(), handler.GetChunkRequest{
				IndexID: indexID, ChunkIDOrRefOrPrefix: args[0],
			})
			if err != nil {
				return err
			}
			if chunk == nil {
				if wantsJSON(jsonOut) {
					return printJSON(nil)
				}
				fmt.Println("no matching chunk")
				return nil
			}

			if wantsJSON(jsonOut) {
				return printJSON(chunk)
			}

			fmt.Printf("%s  %s:%d-%d\n\n%s\n", chunk.ID, chunk.Path, chunk.StartLine, chunk.EndLine, chunk.Content)
			return nil
		},
	}

	cmd.Flags().StringVar(&indexID, "index-id", "", "Index to look up (required)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON output")
	_ = cmd.MarkFlagRequired("index-id")
	return cmd
}
