package logging

import (
	"os"
	"path/filepath"
)

// DefaultLogDir returns the default log directory (~/.llmx/logs/). Falls
// back to the temp directory if the home directory is unavailable.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".llmx", "logs")
	}
	return filepath.Join(home, ".llmx", "logs")
}

// DefaultLogPath returns the default server log path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "llmx.log")
}

// EnsureLogDir creates the log directory if it doesn't exist.
func EnsureLogDir() error {
	return os.MkdirAll(DefaultLogDir(), 0o755)
}
