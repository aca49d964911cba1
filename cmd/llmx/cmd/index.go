package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llmx/llmx/internal/handler"
)

func newIndexCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "index <path>...",
		Short: "Build or incrementally update an index over a set of files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := newHandler()
			if err != nil {
				return err
			}
			resp, err := h.Index(cmd.Context(), handler.IndexRequest{Paths: args})
			if err != nil {
				return err
			}

			if wantsJSON(jsonOut) {
				return printJSON(resp)
			}

			verb := "Updated"
			if resp.Created {
				verb = "Created"
			}
			fmt.Printf("%s index %s\n", verb, resp.IndexID)
			fmt.Printf("  files: %d  chunks: %d  avg tokens/chunk: %d\n",
				resp.Stats.TotalFiles, resp.Stats.TotalChunks, resp.Stats.AvgChunkTokens)
			for _, w := range resp.Warnings {
				fmt.Printf("  warning [%s] %s: %s\n", w.Code, w.Path, w.Message)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON output")
	return cmd
}
