package cmd

import (
	"github.com/spf13/cobra"

	"github.com/llmx/llmx/internal/mcpserver"
)

func newServeCmd() *cobra.Command {
	var transport string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server, exposing index/search/explore/manage/get_chunk as tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := newHandler()
			if err != nil {
				return err
			}
			return mcpserver.New(h).Serve(cmd.Context(), transport)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport to serve over (only stdio is supported)")
	return cmd
}
