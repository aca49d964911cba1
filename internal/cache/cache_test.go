package cache

import (
	"testing"

	"github.com/llmx/llmx/internal/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(path string, mtime int64) *index.IndexFile {
	m := uint64(mtime)
	return &index.IndexFile{
		Files: []index.FileMeta{{Path: path, MtimeMs: &m}},
		Chunks: []index.Chunk{{ID: "c1", Path: path, Content: "hello"}},
	}
}

func TestCache_PutThenGetHit(t *testing.T) {
	c := New(0)
	c.statFn = func(string) (int64, bool) { return 100, true }
	idx := newTestIndex("a.md", 100)
	c.Put("/root", idx)

	got, ok := c.Get("/root")
	require.True(t, ok)
	assert.Equal(t, idx, got)
}

func TestCache_GetMissOnMtimeChange(t *testing.T) {
	c := New(0)
	c.statFn = func(string) (int64, bool) { return 200, true }
	idx := newTestIndex("a.md", 100)
	c.Put("/root", idx)

	_, ok := c.Get("/root")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_GetMissOnFileMissing(t *testing.T) {
	c := New(0)
	c.statFn = func(string) (int64, bool) { return 0, false }
	idx := newTestIndex("a.md", 100)
	c.Put("/root", idx)

	_, ok := c.Get("/root")
	assert.False(t, ok)
}

func TestCache_EvictsLRUWhenBudgetExceeded(t *testing.T) {
	c := New(10)
	c.statFn = func(string) (int64, bool) { return 100, true }
	c.Put("/first", newTestIndex("a.md", 100))
	c.Put("/second", newTestIndex("b.md", 100))

	_, ok := c.Get("/first")
	assert.False(t, ok)
	_, ok = c.Get("/second")
	assert.True(t, ok)
}

func TestSampleFiles_StrideWithinSampleSize(t *testing.T) {
	files := make([]index.FileMeta, 37)
	for i := range files {
		files[i] = index.FileMeta{Path: "f"}
	}
	s := sampleFiles(files)
	assert.LessOrEqual(t, len(s), sampleSize)
}
