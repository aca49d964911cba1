package handler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmx/llmx/internal/embed"
	"github.com/llmx/llmx/internal/store"
)

func newTestHandler(t *testing.T) (*Handler, string) {
	t.Helper()
	srcDir := t.TempDir()
	storeDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.md"), []byte("# Title\n\nhello search world\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "b.md"), []byte("# Other\n\nunrelated content\n"), 0o644))

	st, err := store.New(storeDir)
	require.NoError(t, err)

	h := New(st, embed.NewFallback())
	return h, srcDir
}

func paths(dir string, names ...string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = filepath.Join(dir, n)
	}
	return out
}

func TestHandler_Index_CreatesThenUpdates(t *testing.T) {
	h, dir := newTestHandler(t)
	ctx := context.Background()

	resp, err := h.Index(ctx, IndexRequest{Paths: paths(dir, "a.md", "b.md")})
	require.NoError(t, err)
	assert.True(t, resp.Created)
	assert.Equal(t, 2, resp.Stats.TotalFiles)
	firstID := resp.IndexID

	resp2, err := h.Index(ctx, IndexRequest{Paths: paths(dir, "a.md", "b.md")})
	require.NoError(t, err)
	assert.False(t, resp2.Created)
	assert.Equal(t, firstID, resp2.IndexID)
}

func TestHandler_Index_MissingPathProducesWarningNotError(t *testing.T) {
	h, dir := newTestHandler(t)
	ctx := context.Background()

	resp, err := h.Index(ctx, IndexRequest{Paths: paths(dir, "a.md", "missing.md")})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Stats.TotalFiles)
	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, "io_error", resp.Warnings[0].Code)
}

func TestHandler_Index_EmptyPathsIsInvalidInput(t *testing.T) {
	h, _ := newTestHandler(t)
	_, err := h.Index(context.Background(), IndexRequest{})
	assert.Error(t, err)
}

func TestHandler_Search_FindsRelevantChunk(t *testing.T) {
	h, dir := newTestHandler(t)
	ctx := context.Background()

	idxResp, err := h.Index(ctx, IndexRequest{Paths: paths(dir, "a.md", "b.md")})
	require.NoError(t, err)

	searchResp, err := h.Search(ctx, SearchRequest{IndexID: idxResp.IndexID, Query: "search world", Limit: 5})
	require.NoError(t, err)
	require.NotEmpty(t, searchResp.Results)
	assert.Contains(t, searchResp.Results[0].Path, "a.md")
}

func TestHandler_Search_MissingQueryIsInvalidInput(t *testing.T) {
	h, dir := newTestHandler(t)
	ctx := context.Background()
	idxResp, err := h.Index(ctx, IndexRequest{Paths: paths(dir, "a.md")})
	require.NoError(t, err)

	_, err = h.Search(ctx, SearchRequest{IndexID: idxResp.IndexID})
	assert.Error(t, err)
}

func TestHandler_Search_UnknownIndexIsNotFound(t *testing.T) {
	h, _ := newTestHandler(t)
	_, err := h.Search(context.Background(), SearchRequest{IndexID: "nope", Query: "x"})
	assert.Error(t, err)
}

func TestHandler_Explore_FilesModeListsPaths(t *testing.T) {
	h, dir := newTestHandler(t)
	ctx := context.Background()
	idxResp, err := h.Index(ctx, IndexRequest{Paths: paths(dir, "a.md", "b.md")})
	require.NoError(t, err)

	resp, err := h.Explore(ctx, ExploreRequest{IndexID: idxResp.IndexID, Mode: ExploreFiles})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
}

func TestHandler_Explore_OutlineModeListsChunkEntries(t *testing.T) {
	h, dir := newTestHandler(t)
	ctx := context.Background()
	idxResp, err := h.Index(ctx, IndexRequest{Paths: paths(dir, "a.md")})
	require.NoError(t, err)

	resp, err := h.Explore(ctx, ExploreRequest{IndexID: idxResp.IndexID, Mode: ExploreOutline})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Items)
}

func TestHandler_Explore_UnknownModeIsInvalidInput(t *testing.T) {
	h, dir := newTestHandler(t)
	ctx := context.Background()
	idxResp, err := h.Index(ctx, IndexRequest{Paths: paths(dir, "a.md")})
	require.NoError(t, err)

	_, err = h.Explore(ctx, ExploreRequest{IndexID: idxResp.IndexID, Mode: "bogus"})
	assert.Error(t, err)
}

func TestHandler_Manage_ListAndDelete(t *testing.T) {
	h, dir := newTestHandler(t)
	ctx := context.Background()
	idxResp, err := h.Index(ctx, IndexRequest{Paths: paths(dir, "a.md")})
	require.NoError(t, err)

	list, err := h.Manage(ctx, ManageRequest{Action: ManageList})
	require.NoError(t, err)
	assert.True(t, list.Success)
	assert.Len(t, list.Indexes, 1)

	del, err := h.Manage(ctx, ManageRequest{Action: ManageDelete, IndexID: idxResp.IndexID})
	require.NoError(t, err)
	assert.True(t, del.Success)

	list2, err := h.Manage(ctx, ManageRequest{Action: ManageList})
	require.NoError(t, err)
	assert.Empty(t, list2.Indexes)
}

func TestHandler_Manage_DeleteWithoutIDIsInvalidInput(t *testing.T) {
	h, _ := newTestHandler(t)
	_, err := h.Manage(context.Background(), ManageRequest{Action: ManageDelete})
	assert.Error(t, err)
}

func TestHandler_GetChunk_ByExactIDAndByRef(t *testing.T) {
	h, dir := newTestHandler(t)
	ctx := context.Background()
	idxResp, err := h.Index(ctx, IndexRequest{Paths: paths(dir, "a.md")})
	require.NoError(t, err)

	loaded, err := h.Store.Load(idxResp.IndexID)
	require.NoError(t, err)
	require.NotEmpty(t, loaded.Chunks)
	want := loaded.Chunks[0]
	ref := loaded.ChunkRefs[want.ID]

	byID, err := h.GetChunk(ctx, GetChunkRequest{IndexID: idxResp.IndexID, ChunkIDOrRefOrPrefix: want.ID})
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, want.ID, byID.ID)

	byRef, err := h.GetChunk(ctx, GetChunkRequest{IndexID: idxResp.IndexID, ChunkIDOrRefOrPrefix: ref})
	require.NoError(t, err)
	require.NotNil(t, byRef)
	assert.Equal(t, want.ID, byRef.ID)
}

func TestHandler_GetChunk_UnknownKeyReturnsNilNotError(t *testing.T) {
	h, dir := newTestHandler(t)
	ctx := context.Background()
	idxResp, err := h.Index(ctx, IndexRequest{Paths: paths(dir, "a.md")})
	require.NoError(t, err)

	got, err := h.GetChunk(ctx, GetChunkRequest{IndexID: idxResp.IndexID, ChunkIDOrRefOrPrefix: "doesnotexist"})
	require.NoError(t, err)
	assert.Nil(t, got)
}
