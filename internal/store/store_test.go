package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/llmx/llmx/internal/index"
	"github.com/llmx/llmx/internal/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildIndex(t *testing.T) *index.IndexFile {
	t.Helper()
	return ingest.Ingest([]index.FileInput{
		{Path: "a.md", Data: []byte("# A\n\nhello world\n")},
	}, ingest.DefaultOptions())
}

func TestStore_SaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	idx := buildIndex(t)
	id, err := s.Save(idx, "/repo/root", 1000)
	require.NoError(t, err)
	assert.Equal(t, idx.IndexID, id)

	_, err = os.Stat(filepath.Join(dir, id+".json"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, id+".json.tmp"))
	assert.True(t, os.IsNotExist(err))

	loaded, err := s.Load(id)
	require.NoError(t, err)
	assert.Equal(t, idx.IndexID, loaded.IndexID)
	require.Len(t, loaded.Chunks, len(idx.Chunks))
	assert.NotEmpty(t, loaded.InvertedIndex)
	assert.NotEmpty(t, loaded.ChunkRefs)
}

func TestStore_LoadMissingReturnsNotFound(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	_, err = s.Load("does-not-exist")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestStore_FindByPathAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	idx := buildIndex(t)
	_, err = s.Save(idx, "/repo/root", 1000)
	require.NoError(t, err)

	meta, ok := s.FindMetadataByPath("/repo/root")
	require.True(t, ok)
	assert.Equal(t, idx.IndexID, meta.ID)

	require.NoError(t, s.Delete(idx.IndexID))
	_, ok = s.FindMetadataByPath("/repo/root")
	assert.False(t, ok)

	_, err = s.Load(idx.IndexID)
	assert.True(t, IsNotFound(err))
}

func TestStore_ReopenReadsPersistedRegistry(t *testing.T) {
	dir := t.TempDir()
	s1, err := New(dir)
	require.NoError(t, err)
	idx := buildIndex(t)
	_, err = s1.Save(idx, "/repo/root", 1000)
	require.NoError(t, err)

	s2, err := New(dir)
	require.NoError(t, err)
	list := s2.List()
	require.Len(t, list, 1)
	assert.Equal(t, idx.IndexID, list[0].ID)
}

func TestStore_CorruptRegistryDefaultsToEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "registry.json"), []byte("{not json"), 0o644))

	s, err := New(dir)
	require.NoError(t, err)
	assert.Empty(t, s.List())
}

func TestLock_TryLockExclusivity(t *testing.T) {
	dir := t.TempDir()
	l1 := NewLock(dir)
	l2 := NewLock(dir)

	ok, err := l1.TryLock()
	require.NoError(t, err)
	assert.True(t, ok)

	ok2, err := l2.TryLock()
	require.NoError(t, err)
	assert.False(t, ok2)

	require.NoError(t, l1.Unlock())
}
