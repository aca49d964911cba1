// Package index defines the on-disk and in-memory artifact shapes: FileMeta,
// the inverted index, and the IndexFile itself, plus the pure functions
// that derive them from a chunk set.
package index

import "github.com/llmx/llmx/internal/tokenizer"

// FileInput is consumed only by ingest; never persisted.
type FileInput struct {
	Path              string
	Data              []byte
	MtimeMs           *uint64
	FingerprintSHA256 string
}

// FileMeta describes one ingested file.
type FileMeta struct {
	Path              string              `json:"path"`
	Kind              tokenizer.ChunkKind `json:"kind"`
	Bytes             int                 `json:"bytes"`
	SHA256            string              `json:"sha256"`
	LineCount         int                 `json:"line_count"`
	MtimeMs           *uint64             `json:"mtime_ms,omitempty"`
	FingerprintSHA256 string              `json:"fingerprint_sha256,omitempty"`
}

// Chunk is the persisted form of a content-addressed chunk.
type Chunk struct {
	ID            string              `json:"id"`
	ShortID       string              `json:"short_id"`
	Slug          string              `json:"slug"`
	Path          string              `json:"path"`
	Kind          tokenizer.ChunkKind `json:"kind"`
	ChunkIndex    int                 `json:"chunk_index"`
	StartLine     int                 `json:"start_line"`
	EndLine       int                 `json:"end_line"`
	Content       string              `json:"content"`
	ContentHash   string              `json:"content_hash"`
	TokenEstimate int                 `json:"token_estimate"`
	HeadingPath   []string            `json:"heading_path,omitempty"`
	Symbol        string              `json:"symbol,omitempty"`
	Address       string              `json:"address,omitempty"`
	AssetPath     string              `json:"asset_path,omitempty"`
}

// Posting is one chunk's contribution to a term's postings list.
type Posting struct {
	ChunkID string `json:"chunk_id"`
	TF      int    `json:"tf"`
	DocLen  int    `json:"doc_len"`
}

// TermEntry is one term's document frequency and postings.
type TermEntry struct {
	DF       int       `json:"df"`
	Postings []Posting `json:"postings"`
}

// InvertedIndex maps term to TermEntry. It is derived, never persisted.
type InvertedIndex map[string]*TermEntry

// SortedTerms returns the index's terms in lexical order, for deterministic
// iteration.
func (idx InvertedIndex) SortedTerms() []string {
	terms := make([]string, 0, len(idx))
	for t := range idx {
		terms = append(terms, t)
	}
	sortStrings(terms)
	return terms
}

// ChunkRefs maps chunk id to its short human-readable reference.
type ChunkRefs map[string]string

// Stats summarizes an IndexFile.
type Stats struct {
	TotalFiles      int `json:"total_files"`
	TotalChunks     int `json:"total_chunks"`
	AvgChunkChars   int `json:"avg_chunk_chars"`
	AvgChunkTokens  int `json:"avg_chunk_tokens"`
}

// IngestWarning records a non-fatal, accumulated condition during ingest.
type IngestWarning struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Warning codes.
const (
	WarnMaxTotalBytes    = "max_total_bytes"
	WarnMaxFileBytes     = "max_file_bytes"
	WarnMaxChunksPerFile = "max_chunks_per_file"
	WarnUTF8             = "utf8"
	WarnIOError          = "io_error"
)

// SearchFilters narrows a search to chunks matching every set field.
type SearchFilters struct {
	PathExact     string
	PathPrefix    string
	Kind          tokenizer.ChunkKind
	HeadingPrefix string
	SymbolPrefix  string
}

// SearchResult is one ranked hit.
type SearchResult struct {
	ChunkID     string              `json:"chunk_id"`
	ChunkRef    string              `json:"chunk_ref"`
	Score       float64             `json:"score"`
	Path        string              `json:"path"`
	StartLine   int                 `json:"start_line"`
	EndLine     int                 `json:"end_line"`
	Snippet     string              `json:"snippet"`
	HeadingPath []string            `json:"heading_path,omitempty"`
	Kind        tokenizer.ChunkKind `json:"-"`
	TokenEstimate int               `json:"-"`
}

// IndexFile is the full in-memory artifact.
type IndexFile struct {
	Version         int             `json:"version"`
	IndexID         string          `json:"index_id"`
	Files           []FileMeta      `json:"files"`
	Chunks          []Chunk         `json:"chunks"`
	ChunkRefs       ChunkRefs       `json:"-"`
	InvertedIndex   InvertedIndex   `json:"-"`
	Stats           Stats           `json:"-"`
	Warnings        []IngestWarning `json:"-"`
	Embeddings      [][]float32     `json:"embeddings,omitempty"`
	EmbeddingModel  string          `json:"embedding_model,omitempty"`
}

// Metadata is a registry entry: one per stored index, keyed by the SHA-256
// of its canonical root path.
type Metadata struct {
	ID         string `json:"id"`
	RootPath   string `json:"root_path"`
	CreatedAt  int64  `json:"created_at"`
	FileCount  int    `json:"file_count"`
	ChunkCount int    `json:"chunk_count"`
}

func sortStrings(s []string) {
	// insertion sort would do, but stdlib sort keeps this simple and is
	// already imported transitively by most callers; avoid here to keep
	// this file dependency-free for index_test.go's minimal imports.
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
