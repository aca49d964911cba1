// Package ingest drives the ordered pipeline that turns raw FileInputs into
// a fully-derived IndexFile: per-file chunking with warning accumulation,
// global chunk ordering, chunk_refs assignment, inverted index, stats, and
// index_id.
package ingest

import (
	"sort"
	"unicode/utf8"

	"github.com/llmx/llmx/internal/chunk"
	"github.com/llmx/llmx/internal/index"
	"github.com/llmx/llmx/internal/tokenizer"
)

// Options mirrors the recognized ingest options.
type Options struct {
	ChunkTargetChars int
	ChunkMaxChars    int
	MaxFileBytes     int
	MaxTotalBytes    int
	MaxChunksPerFile int
}

// DefaultOptions returns the recognized defaults.
func DefaultOptions() Options {
	return Options{
		ChunkTargetChars: 4000,
		ChunkMaxChars:    8000,
		MaxFileBytes:     10 * 1024 * 1024,
		MaxTotalBytes:    50 * 1024 * 1024,
		MaxChunksPerFile: 2000,
	}
}

func (o Options) chunkOptions() chunk.Options {
	return chunk.Options{ChunkTargetChars: o.ChunkTargetChars, ChunkMaxChars: o.ChunkMaxChars}
}

// Ingest runs the full pipeline (spec.md §4.3) over a set of raw inputs.
func Ingest(inputs []index.FileInput, opts Options) *index.IndexFile {
	sorted := make([]index.FileInput, len(inputs))
	copy(sorted, inputs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	var (
		files      []index.FileMeta
		allChunks  []index.Chunk
		warnings   []index.IngestWarning
		runningTot int
	)

	for _, in := range sorted {
		if runningTot+len(in.Data) > opts.MaxTotalBytes {
			warnings = append(warnings, index.IngestWarning{
				Path: in.Path, Code: index.WarnMaxTotalBytes,
				Message: "skipped: total ingest byte budget exceeded",
			})
			continue
		}
		if len(in.Data) > opts.MaxFileBytes {
			warnings = append(warnings, index.IngestWarning{
				Path: in.Path, Code: index.WarnMaxFileBytes,
				Message: "skipped: file byte budget exceeded",
			})
			continue
		}
		runningTot += len(in.Data)

		kind := tokenizer.DetectKind(in.Path)
		sha := tokenizer.SHA256Hex(in.Data)

		var drafts []chunk.Draft
		lineCount := 1
		if kind == tokenizer.KindImage {
			drafts = chunk.Chunk(in.Path, "", kind, opts.chunkOptions())
		} else {
			if !utf8.Valid(in.Data) {
				warnings = append(warnings, index.IngestWarning{
					Path: in.Path, Code: index.WarnUTF8,
					Message: "skipped: invalid UTF-8",
				})
				continue
			}
			text := string(in.Data)
			lineCount = countLines(text)
			drafts = chunk.Chunk(in.Path, text, kind, opts.chunkOptions())
		}

		finalized := chunk.Finalize(in.Path, drafts)
		if len(finalized) > opts.MaxChunksPerFile {
			warnings = append(warnings, index.IngestWarning{
				Path: in.Path, Code: index.WarnMaxChunksPerFile,
				Message: "truncated: exceeded max chunks per file",
			})
			finalized = finalized[:opts.MaxChunksPerFile]
		}

		for i := range finalized {
			finalized[i].ChunkIndex = i
			if kind == tokenizer.KindImage {
				finalized[i].AssetPath = "images/" + sanitizeZipPath(in.Path)
			}
			allChunks = append(allChunks, toIndexChunk(finalized[i]))
		}

		files = append(files, index.FileMeta{
			Path:              in.Path,
			Kind:              kind,
			Bytes:             len(in.Data),
			SHA256:            sha,
			LineCount:         lineCount,
			MtimeMs:           in.MtimeMs,
			FingerprintSHA256: in.FingerprintSHA256,
		})
	}

	sort.SliceStable(allChunks, func(i, j int) bool {
		if allChunks[i].Path != allChunks[j].Path {
			return allChunks[i].Path < allChunks[j].Path
		}
		return allChunks[i].StartLine < allChunks[j].StartLine
	})

	chunkRefs := BuildChunkRefs(allChunks)
	inverted := index.BuildInvertedIndex(allChunks)
	stats := index.ComputeStats(files, allChunks)
	indexID := index.ComputeIndexID(files)

	return &index.IndexFile{
		Version:       1,
		IndexID:       indexID,
		Files:         files,
		Chunks:        allChunks,
		ChunkRefs:     chunkRefs,
		InvertedIndex: inverted,
		Stats:         stats,
		Warnings:      warnings,
	}
}

func countLines(text string) int {
	if text == "" {
		return 1
	}
	n := 1
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			n++
		}
	}
	if len(text) > 0 && text[len(text)-1] == '\n' {
		n--
	}
	if n < 1 {
		return 1
	}
	return n
}
