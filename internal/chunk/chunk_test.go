package chunk

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/llmx/llmx/internal/tokenizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sha256hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// TestScenarioS1_DeterministicMarkdown mirrors the literal scenario in
// spec.md §8 S1.
func TestScenarioS1_DeterministicMarkdown(t *testing.T) {
	path := "docs/a.md"
	text := "# Title\n\nHello world\n"

	drafts := Chunk(path, text, tokenizer.KindMarkdown, DefaultOptions())
	require.Len(t, drafts, 1)
	chunks := Finalize(path, drafts)
	require.Len(t, chunks, 1)

	c := chunks[0]
	assert.Equal(t, []string{"Title"}, c.HeadingPath)
	assert.Equal(t, 1, c.StartLine)
	assert.Equal(t, 3, c.EndLine)

	wantHash := sha256hex("# Title\n\nHello world")
	assert.Equal(t, wantHash, c.ContentHash)
	assert.Equal(t, sha256hex(path+"\n"+wantHash+"\n0"), c.ID)
}

func TestScenarioS2_ImageNoUTF8(t *testing.T) {
	path := "assets/pic.png"
	drafts := chunkImage(path, "")
	require.Len(t, drafts, 1)
	assert.Equal(t, "Image: pic.png\nSource: assets/pic.png", drafts[0].Content)
	assert.Equal(t, 1, drafts[0].StartLine)
	assert.Equal(t, 1, drafts[0].EndLine)
}

func TestMarkdown_FenceSkipsHeadingDetection(t *testing.T) {
	text := "# A\n\n```\n# not a heading\n```\n\nreal text\n"
	drafts := Chunk("a.md", text, tokenizer.KindMarkdown, DefaultOptions())
	require.NotEmpty(t, drafts)
	assert.Equal(t, []string{"A"}, drafts[0].HeadingPath)
}

func TestMarkdown_HeadingStackPop(t *testing.T) {
	text := "### Three\nbody\n###### Six\nmore\n"
	drafts := Chunk("a.md", text, tokenizer.KindMarkdown, DefaultOptions())
	require.Len(t, drafts, 2)
	assert.Equal(t, []string{"Three"}, drafts[0].HeadingPath)
	assert.Equal(t, []string{"Three", "Six"}, drafts[1].HeadingPath)
}

func TestJSON_ObjectOneDraftPerKey(t *testing.T) {
	text := `{"a": 1, "b": {"nested": true}}`
	drafts := chunkJSON(text, DefaultOptions())
	require.Len(t, drafts, 2)
	assert.Equal(t, "$.a", drafts[0].Address)
	assert.Equal(t, "a", drafts[0].Symbol)
	assert.Equal(t, "$.b", drafts[1].Address)
}

func TestJSON_ArraySlidingWindow(t *testing.T) {
	text := `[1,2,3,4,5]`
	drafts := chunkJSON(text, DefaultOptions())
	require.Len(t, drafts, 1)
	assert.Equal(t, "$[0:5]", drafts[0].Address)
}

func TestJSON_ValuesReserializedToCanonicalCompactForm(t *testing.T) {
	text := "{\n  \"a\": {\n    \"nested\":    true,\n    \"list\": [\n      1,\n      2\n    ]\n  }\n}\n"
	drafts := chunkJSON(text, DefaultOptions())
	require.Len(t, drafts, 1)
	assert.Equal(t, `{"list":[1,2],"nested":true}`, drafts[0].Content)
}

func TestJSON_ArrayElementsReserializedToCanonicalCompactForm(t *testing.T) {
	text := "[\n  { \"x\":   1 },\n  {\"y\": 2}\n]\n"
	drafts := chunkJSON(text, DefaultOptions())
	require.Len(t, drafts, 1)
	assert.Equal(t, `[{"x":1},{"y":2}]`, drafts[0].Content)
}

func TestJSON_InvalidFallsBackToText(t *testing.T) {
	text := "not json at all, just text"
	drafts := chunkJSON(text, DefaultOptions())
	require.NotEmpty(t, drafts)
	assert.Equal(t, tokenizer.KindJSON, drafts[0].Kind)
}

func TestHTML_StripsTagsAndDecodesEntities(t *testing.T) {
	text := "<h1>Title &amp; More</h1>\n<p>Hello&nbsp;World</p>\n"
	drafts := Chunk("a.html", text, tokenizer.KindHTML, DefaultOptions())
	require.NotEmpty(t, drafts)
	assert.Equal(t, []string{"Title & More"}, drafts[0].HeadingPath)
	assert.Contains(t, drafts[0].Content, "Hello World")
}

func TestHTML_SkipsScriptContent(t *testing.T) {
	text := "<script>var x = 1;</script>\n<p>visible</p>\n"
	drafts := Chunk("a.html", text, tokenizer.KindHTML, DefaultOptions())
	require.NotEmpty(t, drafts)
	assert.NotContains(t, drafts[0].Content, "var x")
	assert.Contains(t, drafts[0].Content, "visible")
}

func TestText_LongLineSplitIntoSlices(t *testing.T) {
	opts := Options{ChunkTargetChars: 10, ChunkMaxChars: 20}
	long := ""
	for i := 0; i < 45; i++ {
		long += "x"
	}
	drafts := chunkText(long, opts)
	require.Len(t, drafts, 3)
	assert.Equal(t, 20, len(drafts[0].Content))
	assert.Equal(t, 5, len(drafts[2].Content))
}

func TestFinalize_OccurrenceCounterDistinguishesDuplicates(t *testing.T) {
	drafts := []Draft{
		{Kind: tokenizer.KindText, StartLine: 1, EndLine: 1, Content: "same"},
		{Kind: tokenizer.KindText, StartLine: 2, EndLine: 2, Content: "same"},
	}
	chunks := Finalize("f.txt", drafts)
	require.Len(t, chunks, 2)
	assert.NotEqual(t, chunks[0].ID, chunks[1].ID)
	assert.Equal(t, chunks[0].ContentHash, chunks[1].ContentHash)
}

func TestFinalize_EmptyDraftsProduceNoChunk(t *testing.T) {
	drafts := []Draft{{Kind: tokenizer.KindText, Content: "   \n  "}}
	chunks := Finalize("f.txt", drafts)
	assert.Empty(t, chunks)
}
