package ingest

import (
	"testing"

	"github.com/llmx/llmx/internal/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngest_SortsChunksByPathThenStartLine(t *testing.T) {
	inputs := []index.FileInput{
		{Path: "b.md", Data: []byte("# B\n\nbody\n")},
		{Path: "a.md", Data: []byte("# A\n\nbody\n")},
	}
	idx := Ingest(inputs, DefaultOptions())
	require.Len(t, idx.Files, 2)
	assert.Equal(t, "a.md", idx.Files[0].Path)
	assert.Equal(t, "b.md", idx.Files[1].Path)
	require.Len(t, idx.Chunks, 2)
	assert.Equal(t, "a.md", idx.Chunks[0].Path)
	assert.Equal(t, "b.md", idx.Chunks[1].Path)
}

func TestIngest_DeterministicAcrossRuns(t *testing.T) {
	inputs := []index.FileInput{
		{Path: "a.md", Data: []byte("# A\n\nhello world\n")},
		{Path: "sub/b.txt", Data: []byte("plain text body\n")},
	}
	first := Ingest(inputs, DefaultOptions())
	second := Ingest(inputs, DefaultOptions())
	assert.Equal(t, first.IndexID, second.IndexID)
	require.Len(t, first.Chunks, len(second.Chunks))
	for i := range first.Chunks {
		assert.Equal(t, first.Chunks[i].ID, second.Chunks[i].ID)
	}
}

func TestIngest_InvalidUTF8SkippedWithWarning(t *testing.T) {
	inputs := []index.FileInput{
		{Path: "bad.txt", Data: []byte{0xff, 0xfe, 0xfd}},
	}
	idx := Ingest(inputs, DefaultOptions())
	assert.Empty(t, idx.Files)
	require.Len(t, idx.Warnings, 1)
	assert.Equal(t, index.WarnUTF8, idx.Warnings[0].Code)
}

func TestIngest_MaxFileBytesSkipsOversizedFile(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxFileBytes = 4
	inputs := []index.FileInput{{Path: "big.txt", Data: []byte("way too big")}}
	idx := Ingest(inputs, opts)
	assert.Empty(t, idx.Files)
	require.Len(t, idx.Warnings, 1)
	assert.Equal(t, index.WarnMaxFileBytes, idx.Warnings[0].Code)
}

func TestIngest_ImageGetsAssetPath(t *testing.T) {
	inputs := []index.FileInput{{Path: "../pic.png", Data: []byte{0x89, 0x50, 0x4e, 0x47}}}
	idx := Ingest(inputs, DefaultOptions())
	require.Len(t, idx.Chunks, 1)
	assert.Equal(t, "images/pic.png", idx.Chunks[0].AssetPath)
}

func TestBuildChunkRefs_PaddedBase36(t *testing.T) {
	chunks := []index.Chunk{
		{ID: "id1", Path: "a.md", StartLine: 1, EndLine: 1},
		{ID: "id2", Path: "a.md", StartLine: 2, EndLine: 2},
	}
	refs := BuildChunkRefs(chunks)
	assert.Equal(t, "c0001", refs["id1"])
	assert.Equal(t, "c0002", refs["id2"])
}

func TestUpdate_ReusesUnchangedFileChunksVerbatim(t *testing.T) {
	opts := DefaultOptions()
	prev := Ingest([]index.FileInput{
		{Path: "a.md", Data: []byte("# A\n\nbody\n")},
		{Path: "b.md", Data: []byte("# B\n\nbody\n")},
	}, opts)

	updated := Update(prev, []index.FileInput{
		{Path: "a.md", Data: []byte("# A\n\nbody\n")},
		{Path: "b.md", Data: []byte("# B2\n\nnew body\n")},
	}, opts)

	var aID, bID string
	for _, c := range prev.Chunks {
		if c.Path == "a.md" {
			aID = c.ID
		}
		if c.Path == "b.md" {
			bID = c.ID
		}
	}
	var gotA, gotB string
	for _, c := range updated.Chunks {
		if c.Path == "a.md" {
			gotA = c.ID
		}
		if c.Path == "b.md" {
			gotB = c.ID
		}
	}
	assert.Equal(t, aID, gotA)
	assert.NotEqual(t, bID, gotB)
	assert.NotEqual(t, prev.IndexID, updated.IndexID)
}

func TestUpdate_DropsFilesAbsentFromNewInputs(t *testing.T) {
	opts := DefaultOptions()
	prev := Ingest([]index.FileInput{
		{Path: "a.md", Data: []byte("# A\n\nbody\n")},
		{Path: "b.md", Data: []byte("# B\n\nbody\n")},
	}, opts)

	updated := Update(prev, []index.FileInput{
		{Path: "a.md", Data: []byte("# A\n\nbody\n")},
	}, opts)

	require.Len(t, updated.Files, 1)
	assert.Equal(t, "a.md", updated.Files[0].Path)
}

func TestUpdateSelective_CarriesForwardKeptPaths(t *testing.T) {
	opts := DefaultOptions()
	prev := Ingest([]index.FileInput{
		{Path: "a.md", Data: []byte("# A\n\nbody\n")},
		{Path: "b.md", Data: []byte("# B\n\nbody\n")},
	}, opts)

	updated := UpdateSelective(prev, []index.FileInput{
		{Path: "c.md", Data: []byte("# C\n\nbody\n")},
	}, []string{"b.md"}, opts)

	paths := map[string]bool{}
	for _, f := range updated.Files {
		paths[f.Path] = true
	}
	assert.True(t, paths["b.md"])
	assert.True(t, paths["c.md"])
	assert.False(t, paths["a.md"])
}

func TestUpdate_Idempotence(t *testing.T) {
	opts := DefaultOptions()
	inputs := []index.FileInput{
		{Path: "a.md", Data: []byte("# A\n\nbody\n")},
	}
	fresh := Ingest(inputs, opts)
	updated := Update(fresh, inputs, opts)
	assert.Equal(t, fresh.IndexID, updated.IndexID)
	require.Len(t, updated.Chunks, len(fresh.Chunks))
	for i := range fresh.Chunks {
		assert.Equal(t, fresh.Chunks[i].ID, updated.Chunks[i].ID)
	}
}
