package cmd

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_RegistersAllSubcommands(t *testing.T) {
	// Given: the root command
	root := NewRootCmd()

	// When/Then: every operation has a subcommand
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"index", "search", "explore", "manage", "get-chunk", "serve"} {
		assert.True(t, names[want], "expected subcommand %q to be registered", want)
	}
}

func TestRootCmd_DebugFlagWritesLogFile(t *testing.T) {
	// Given: an isolated HOME (for the log file) and storage dir (for the store)
	home := t.TempDir()
	t.Setenv("HOME", home)
	storeDir := t.TempDir()

	// When: running a real subcommand with --debug, so PersistentPreRunE/PostRunE
	// (which --help alone would short-circuit) actually execute
	root := NewRootCmd()
	root.SetArgs([]string{"--debug", "--storage-dir", storeDir, "manage", "list"})
	require.NoError(t, root.Execute())

	// Then: the rotating log file was created
	_, err := os.Stat(filepath.Join(home, ".llmx", "logs", "llmx.log"))
	assert.NoError(t, err)
}

func TestRootCmd_ShowsHelp(t *testing.T) {
	// Given: the root command
	root := NewRootCmd()
	root.SetArgs([]string{"--help"})

	// When: executing with --help
	err := root.Execute()

	// Then: it succeeds without requiring any subcommand-specific flags
	require.NoError(t, err)
}

// captureStdout redirects os.Stdout for the duration of fn and returns what
// was written. Subcommand bodies print directly to os.Stdout (not through
// cobra's OutOrStdout), so this is the only way to observe their output.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestCLI_IndexThenSearchRoundTrip(t *testing.T) {
	// Given: a source file on disk and an isolated storage directory
	srcDir := t.TempDir()
	storeDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "greeter.md")
	require.NoError(t, os.WriteFile(srcPath, []byte("# Greeter\n\nPrints a friendly greeting to the console.\n"), 0o644))

	// When: indexing the file through the CLI
	indexOut := captureStdout(t, func() {
		root := NewRootCmd()
		root.SetArgs([]string{"--storage-dir", storeDir, "index", srcPath, "--json"})
		require.NoError(t, root.Execute())
	})
	assert.Contains(t, indexOut, "IndexID")

	indexID := extractJSONString(t, indexOut, "IndexID")
	require.NotEmpty(t, indexID)

	// Then: searching that index from a fresh root command finds the file
	searchOut := captureStdout(t, func() {
		root := NewRootCmd()
		root.SetArgs([]string{"--storage-dir", storeDir, "search", "--index-id", indexID, "greeting", "--json"})
		require.NoError(t, root.Execute())
	})
	assert.Contains(t, searchOut, "greeter.md")
}

// extractJSONString is a minimal helper that pulls `"key": "value"` out of
// pretty-printed JSON without pulling in a second decode path just for tests.
func extractJSONString(t *testing.T, doc, key string) string {
	t.Helper()
	marker := `"` + key + `": "`
	i := indexOf(doc, marker)
	if i < 0 {
		return ""
	}
	start := i + len(marker)
	end := indexOf(doc[start:], `"`)
	require.GreaterOrEqual(t, end, 0)
	return doc[start : start+end]
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
