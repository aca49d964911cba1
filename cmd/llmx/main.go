// Command llmx is the local CLI front end over the index/search/explore/
// manage/get_chunk operation surface in internal/handler.
package main

import (
	"os"

	"github.com/llmx/llmx/cmd/llmx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
