package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llmx/llmx/internal/handler"
)

func newExploreCmd() *cobra.Command {
	var (
		indexID     string
		mode        string
		pathFilter  string
		jsonOut     bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "List an index's files, chunk outline, or symbols",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := newHandler()
			if err != nil {
				return err
			}

			if interactive {
				return runExploreTUI(cmd.Context(), h, indexID)
			}

			resp, err := h.Explore(cmd.Context(), handler.ExploreRequest{
				IndexID:    indexID,
				Mode:       handler.ExploreMode(mode),
				PathFilter: pathFilter,
			})
			if err != nil {
				return err
			}

			if wantsJSON(jsonOut) {
				return printJSON(resp)
			}

			for _, item := range resp.Items {
				fmt.Println(item)
			}
			fmt.Printf("\n%d items\n", resp.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&indexID, "index-id", "", "Index to explore (required)")
	cmd.Flags().StringVar(&mode, "mode", "files", "One of files, outline, symbols")
	cmd.Flags().StringVar(&pathFilter, "path-filter", "", "Restrict to paths with this prefix")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON output")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Launch the interactive TUI explorer")
	_ = cmd.MarkFlagRequired("index-id")
	return cmd
}
