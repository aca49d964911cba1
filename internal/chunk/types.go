// Package chunk implements deterministic semantic chunking of heterogeneous
// text into content-addressed Chunks, per kind (Markdown, JSON, JavaScript,
// HTML, plain text, images).
package chunk

import "github.com/llmx/llmx/internal/tokenizer"

// Options controls chunking thresholds shared across kinds.
type Options struct {
	ChunkTargetChars int
	ChunkMaxChars    int
}

// DefaultOptions returns the recognized ingest option defaults.
func DefaultOptions() Options {
	return Options{ChunkTargetChars: 4000, ChunkMaxChars: 8000}
}

// Draft is an intermediate chunking result, not yet given a stable identity.
type Draft struct {
	Kind        tokenizer.ChunkKind
	StartLine   int
	EndLine     int
	Content     string
	HeadingPath []string
	Symbol      string
	Address     string
}

// Chunk is a contiguous, semantically-bounded slice of one file with stable
// identity.
type Chunk struct {
	ID            string
	ShortID       string
	Slug          string
	Path          string
	Kind          tokenizer.ChunkKind
	ChunkIndex    int
	StartLine     int
	EndLine       int
	Content       string
	ContentHash   string
	TokenEstimate int
	HeadingPath   []string
	Symbol        string
	Address       string
	AssetPath     string
}

// Chunk produces the ordered Drafts for one file's content, dispatching by
// kind. For Image the caller passes empty text and never decodes the
// file's bytes as UTF-8.
func Chunk(path, text string, kind tokenizer.ChunkKind, opts Options) []Draft {
	switch kind {
	case tokenizer.KindMarkdown:
		return chunkMarkdown(text, opts)
	case tokenizer.KindJSON:
		return chunkJSON(text, opts)
	case tokenizer.KindHTML:
		return chunkHTML(text, opts)
	case tokenizer.KindJavaScript:
		drafts := chunkJavaScript(path, text)
		if drafts == nil {
			return chunkText(text, opts)
		}
		return drafts
	case tokenizer.KindImage:
		return chunkImage(path, text)
	default:
		return chunkText(text, opts)
	}
}

// lineCount returns max(number of lines, 1) the way ingest needs it.
func lineCount(text string) int {
	n := len(splitLines(text))
	if n < 1 {
		return 1
	}
	return n
}
