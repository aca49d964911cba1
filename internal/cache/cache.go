// Package cache implements the dynamic, byte-budgeted secondary cache
// keyed by canonical root path (spec.md §4.11): a speed optimization for
// repeated queries against an unchanged tree, orthogonal to the index
// store's own cache.
package cache

import (
	"os"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/llmx/llmx/internal/index"
)

const (
	// DefaultByteBudget bounds the sum of approximate entry sizes.
	DefaultByteBudget = 500 * 1024 * 1024
	// sampleSize is the number of (path, mtime_ms) pairs sampled per entry
	// for cheap invalidation checks.
	sampleSize = 10
)

type fileSample struct {
	path    string
	mtimeMs int64
}

type entry struct {
	idx     *index.IndexFile
	sample  []fileSample
	size    int64
}

// Cache is a byte-budgeted LRU of IndexFiles keyed by canonical root path.
type Cache struct {
	mu     sync.Mutex
	budget int64
	used   int64
	lru    *lru.Cache[string, *entry]
	statFn func(string) (mtimeMs int64, ok bool)
}

// New constructs a Cache with the given byte budget (0 uses the default).
func New(byteBudget int64) *Cache {
	if byteBudget <= 0 {
		byteBudget = DefaultByteBudget
	}
	// Capacity here bounds entry *count* as a backstop; byte-budget
	// eviction below is the real policy, enforced in Put.
	backing, _ := lru.New[string, *entry](1 << 20)
	return &Cache{
		budget: byteBudget,
		lru:    backing,
		statFn: statMtimeMs,
	}
}

func statMtimeMs(path string) (int64, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	return info.ModTime().UnixMilli(), true
}

func approximateSize(idx *index.IndexFile) int64 {
	var total int64
	for _, c := range idx.Chunks {
		total += int64(len(c.Content))
	}
	total += int64(100 * len(idx.Files))
	total += int64(200 * len(idx.Chunks))
	return total
}

// sampleFiles deterministically picks up to sampleSize (path, mtime_ms)
// pairs with stride len/sampleSize.
func sampleFiles(files []index.FileMeta) []fileSample {
	n := len(files)
	if n == 0 {
		return nil
	}
	count := sampleSize
	if n < count {
		count = n
	}
	stride := n / count
	if stride < 1 {
		stride = 1
	}
	samples := make([]fileSample, 0, count)
	for i := 0; i < n && len(samples) < count; i += stride {
		f := files[i]
		mtime := int64(0)
		if f.MtimeMs != nil {
			mtime = int64(*f.MtimeMs)
		}
		samples = append(samples, fileSample{path: f.Path, mtimeMs: mtime})
	}
	return samples
}

// Put inserts idx under root, evicting LRU entries until the new total fits
// the byte budget.
func (c *Cache) Put(root string, idx *index.IndexFile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := approximateSize(idx)
	if old, ok := c.lru.Peek(root); ok {
		c.used -= old.size
		c.lru.Remove(root)
	}

	for c.used+size > c.budget && c.lru.Len() > 0 {
		_, evicted, ok := c.lru.RemoveOldest()
		if !ok {
			break
		}
		c.used -= evicted.size
	}

	c.lru.Add(root, &entry{idx: idx, sample: sampleFiles(idx.Files), size: size})
	c.used += size
}

// Get returns the cached IndexFile for root if present and its sampled
// files are unchanged; otherwise it evicts the stale entry and reports a
// miss.
func (c *Cache) Get(root string) (*index.IndexFile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Get(root)
	if !ok {
		return nil, false
	}
	for _, s := range e.sample {
		mtime, exists := c.statFn(s.path)
		if !exists || mtime != s.mtimeMs {
			c.lru.Remove(root)
			c.used -= e.size
			return nil, false
		}
	}
	return e.idx, true
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
