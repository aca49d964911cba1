// Package store persists IndexFiles under a storage directory with atomic
// temp-and-rename writes, an in-memory LRU cache of hydrated IndexFiles,
// and a registry mapping canonical root paths to their index metadata.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/llmx/llmx/internal/index"
	"github.com/llmx/llmx/internal/ingest"
	"github.com/llmx/llmx/internal/tokenizer"
)

const defaultCacheSize = 32

// storedIndex is the on-disk shape of {index_id}.json: it omits the
// derived fields (inverted_index, chunk_refs, stats), which the store
// rebuilds on load, and warnings, which are not kept.
type storedIndex struct {
	ID             string        `json:"id"`
	RootPath       string        `json:"root_path"`
	CreatedAt      int64         `json:"created_at"`
	Version        int           `json:"version"`
	IndexID        string        `json:"index_id"`
	Files          []index.FileMeta `json:"files"`
	Chunks         []index.Chunk    `json:"chunks"`
	Embeddings     [][]float32      `json:"embeddings,omitempty"`
	EmbeddingModel string           `json:"embedding_model,omitempty"`
}

type registryEntry struct {
	ID         string `json:"id"`
	RootPath   string `json:"root_path"`
	CreatedAt  int64  `json:"created_at"`
	FileCount  int    `json:"file_count"`
	ChunkCount int    `json:"chunk_count"`
}

type registryFile struct {
	Indexes map[string]registryEntry `json:"indexes"`
}

// Store is the single owner of storage_dir. Its methods serialize on an
// internal mutex within one process; it takes no cross-process lock, so
// callers sharing storage_dir across processes serialize themselves (e.g.
// with Lock), per the single-writer contract of the artifact it persists.
type Store struct {
	dir string

	mu       sync.Mutex
	registry registryFile
	cache    *lru.Cache[string, *index.IndexFile]
	logger   *slog.Logger
}

// New opens (or creates) a store rooted at dir, loading registry.json if
// present. A corrupt registry is logged and treated as empty rather than
// aborting.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create dir: %w", err)
	}
	cache, err := lru.New[string, *index.IndexFile](defaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("store: init cache: %w", err)
	}
	s := &Store{dir: dir, cache: cache, logger: slog.Default()}

	reg, err := readRegistry(filepath.Join(dir, "registry.json"))
	if err != nil {
		s.logger.Warn("registry decode failed, starting empty", "error", err)
		reg = registryFile{Indexes: map[string]registryEntry{}}
	}
	if reg.Indexes == nil {
		reg.Indexes = map[string]registryEntry{}
	}
	s.registry = reg
	return s, nil
}

func readRegistry(path string) (registryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return registryFile{Indexes: map[string]registryEntry{}}, nil
		}
		return registryFile{}, err
	}
	var reg registryFile
	if err := json.Unmarshal(data, &reg); err != nil {
		return registryFile{}, err
	}
	return reg, nil
}

func canonicalRootKey(rootPath string) string {
	return tokenizer.SHA256HexString(rootPath)
}

func (s *Store) indexPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *Store) registryPath() string {
	return filepath.Join(s.dir, "registry.json")
}

// atomicWriteJSON serializes v and writes it via a sibling .tmp file
// followed by a rename, so readers never observe a half-written file.
func atomicWriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("store: write temp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("store: rename: %w", err)
	}
	return nil
}

// Save persists idx, updates the in-memory cache, and records/overwrites
// the registry entry for rootPath. Overwriting reuses idx.IndexID.
func (s *Store) Save(idx *index.IndexFile, rootPath string, createdAt int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := canonicalRootKey(rootPath)
	if prev, ok := s.registry.Indexes[key]; ok {
		createdAt = prev.CreatedAt
	}

	stored := storedIndex{
		ID:             idx.IndexID,
		RootPath:       rootPath,
		CreatedAt:      createdAt,
		Version:        idx.Version,
		IndexID:        idx.IndexID,
		Files:          idx.Files,
		Chunks:         idx.Chunks,
		Embeddings:     idx.Embeddings,
		EmbeddingModel: idx.EmbeddingModel,
	}
	if err := atomicWriteJSON(s.indexPath(idx.IndexID), stored); err != nil {
		return "", err
	}

	s.cache.Add(idx.IndexID, idx)

	s.registry.Indexes[key] = registryEntry{
		ID:         idx.IndexID,
		RootPath:   rootPath,
		CreatedAt:  createdAt,
		FileCount:  len(idx.Files),
		ChunkCount: len(idx.Chunks),
	}
	if err := atomicWriteJSON(s.registryPath(), s.registry); err != nil {
		return "", err
	}
	return idx.IndexID, nil
}

// Load returns the fully-hydrated IndexFile for id, from cache if present,
// otherwise from disk with chunk_refs/inverted_index/stats rebuilt.
func (s *Store) Load(id string) (*index.IndexFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, ok := s.cache.Get(id); ok {
		return cached, nil
	}

	data, err := os.ReadFile(s.indexPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("store: %w", errNotFound(id))
		}
		return nil, fmt.Errorf("store: read %s: %w", id, err)
	}
	var stored storedIndex
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", id, err)
	}

	idx := &index.IndexFile{
		Version:        stored.Version,
		IndexID:        stored.IndexID,
		Files:          stored.Files,
		Chunks:         stored.Chunks,
		Embeddings:     stored.Embeddings,
		EmbeddingModel: stored.EmbeddingModel,
	}
	idx.ChunkRefs = ingest.BuildChunkRefs(idx.Chunks)
	idx.InvertedIndex = index.BuildInvertedIndex(idx.Chunks)
	idx.Stats = index.ComputeStats(idx.Files, idx.Chunks)
	idx.Warnings = nil

	s.cache.Add(id, idx)
	return idx, nil
}

// List returns every registry entry.
func (s *Store) List() []index.Metadata {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]index.Metadata, 0, len(s.registry.Indexes))
	for _, e := range s.registry.Indexes {
		out = append(out, index.Metadata{
			ID: e.ID, RootPath: e.RootPath, CreatedAt: e.CreatedAt,
			FileCount: e.FileCount, ChunkCount: e.ChunkCount,
		})
	}
	return out
}

// Delete removes the on-disk artifact for id, evicts it from cache, and
// strips any registry entries pointing at it.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.indexPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("store: delete %s: %w", id, err)
	}
	s.cache.Remove(id)

	for k, e := range s.registry.Indexes {
		if e.ID == id {
			delete(s.registry.Indexes, k)
		}
	}
	return atomicWriteJSON(s.registryPath(), s.registry)
}

// FindByPath looks up the stored index id for a root path, then loads it.
func (s *Store) FindByPath(rootPath string) (*index.IndexFile, bool, error) {
	meta, ok := s.FindMetadataByPath(rootPath)
	if !ok {
		return nil, false, nil
	}
	idx, err := s.Load(meta.ID)
	if err != nil {
		return nil, false, err
	}
	return idx, true, nil
}

// FindMetadataByPath looks up the registry entry for a root path without
// hydrating the index.
func (s *Store) FindMetadataByPath(rootPath string) (index.Metadata, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.registry.Indexes[canonicalRootKey(rootPath)]
	if !ok {
		return index.Metadata{}, false
	}
	return index.Metadata{
		ID: e.ID, RootPath: e.RootPath, CreatedAt: e.CreatedAt,
		FileCount: e.FileCount, ChunkCount: e.ChunkCount,
	}, true
}

type notFoundError struct{ id string }

func (e notFoundError) Error() string { return fmt.Sprintf("index %q not found", e.id) }

func errNotFound(id string) error { return notFoundError{id: id} }

// IsNotFound reports whether err was produced by Load for a missing id.
func IsNotFound(err error) bool {
	for err != nil {
		if _, ok := err.(notFoundError); ok {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
