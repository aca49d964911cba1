package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/llmx/llmx/internal/index"
	"github.com/llmx/llmx/internal/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestIndex(t *testing.T) *index.IndexFile {
	t.Helper()
	return ingest.Ingest([]index.FileInput{
		{Path: "a.md", Data: []byte("# Title\n\nhello world\n")},
	}, ingest.DefaultOptions())
}

func TestBuildLLMDoc_ContainsFileHeadingAndRef(t *testing.T) {
	idx := buildTestIndex(t)
	refs := ResolveRefs(idx, idx.Chunks)
	doc := BuildLLMDoc(idx, refs)
	assert.Contains(t, doc, "# llm.md (pointer manifest)")
	assert.Contains(t, doc, "a.md")
	assert.Contains(t, doc, refs[idx.Chunks[0].ID])
}

func TestBuildManifest_ColumnarShape(t *testing.T) {
	idx := buildTestIndex(t)
	refs := ResolveRefs(idx, idx.Chunks)
	data, err := BuildManifest(idx, refs)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(2), decoded["format_version"])
	paths, ok := decoded["paths"].([]any)
	require.True(t, ok)
	assert.Equal(t, "a.md", paths[0])
	rows, ok := decoded["chunks"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 1)
	row, ok := rows[0].([]any)
	require.True(t, ok)
	assert.Equal(t, float64(0), row[3]) // path_i
}

func TestBuildChunkFiles_FrontMatterRoundTrips(t *testing.T) {
	idx := buildTestIndex(t)
	refs := ResolveRefs(idx, idx.Chunks)
	files, err := BuildChunkFiles(idx, refs)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.True(t, strings.HasPrefix(files[0].Name, "chunks/"))
	assert.True(t, strings.HasPrefix(files[0].Body, "---\n"))
	assert.Contains(t, files[0].Body, "ref: ")
}

func TestCompactRepeatedLines_CollapsesRunsOfThreeOrMore(t *testing.T) {
	text := "a\na\na\na\nb\n"
	out, compacted := compactRepeatedLines(text, 3)
	assert.True(t, compacted)
	assert.Contains(t, out, "repeated 3 more times")
	assert.Contains(t, out, "b")
}

func TestCompactRepeatedLines_LeavesShortRunsAlone(t *testing.T) {
	text := "a\na\nb\n"
	out, compacted := compactRepeatedLines(text, 3)
	assert.False(t, compacted)
	assert.Equal(t, "a\na\nb\n", out)
}

func TestBuildZip_ContainsExpectedEntries(t *testing.T) {
	idx := buildTestIndex(t)
	data, err := BuildZip(idx)
	require.NoError(t, err)

	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range r.File {
		names[f.Name] = true
	}
	assert.True(t, names["llm.md"])
	assert.True(t, names["index.json"])
	assert.True(t, names["manifest.json"])

	found := false
	for name := range names {
		if strings.HasPrefix(name, "chunks/") {
			found = true
		}
	}
	assert.True(t, found)
}
