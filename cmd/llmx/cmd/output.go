package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

// wantsJSON reports whether output should be machine-readable: either the
// caller explicitly asked for it, or stdout isn't a terminal (piped into
// another tool, which almost always wants structured output).
func wantsJSON(explicit bool) bool {
	if explicit {
		return true
	}
	return !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
