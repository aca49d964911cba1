package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/llmx/llmx/internal/handler"
)

func newManageCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "manage <list|delete>",
		Short: "List or delete stored indexes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			action := handler.ManageAction(args[0])
			indexID, _ := cmd.Flags().GetString("index-id")

			h, err := newHandler()
			if err != nil {
				return err
			}

			resp, err := h.Manage(cmd.Context(), handler.ManageRequest{Action: action, IndexID: indexID})
			if err != nil {
				return err
			}

			if wantsJSON(jsonOut) {
				return printJSON(resp)
			}

			if resp.Message != "" {
				fmt.Println(resp.Message)
			}
			for _, m := range resp.Indexes {
				fmt.Printf("%s  %s  files=%d chunks=%d  created=%s\n",
					m.ID, m.RootPath, m.FileCount, m.ChunkCount,
					time.UnixMilli(m.CreatedAt).Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.Flags().String("index-id", "", "Index id (required for delete)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON output")
	return cmd
}
