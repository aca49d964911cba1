package ingest

import (
	"github.com/llmx/llmx/internal/chunk"
	"github.com/llmx/llmx/internal/index"
)

func toIndexChunk(c chunk.Chunk) index.Chunk {
	return index.Chunk{
		ID:            c.ID,
		ShortID:       c.ShortID,
		Slug:          c.Slug,
		Path:          c.Path,
		Kind:          c.Kind,
		ChunkIndex:    c.ChunkIndex,
		StartLine:     c.StartLine,
		EndLine:       c.EndLine,
		Content:       c.Content,
		ContentHash:   c.ContentHash,
		TokenEstimate: c.TokenEstimate,
		HeadingPath:   c.HeadingPath,
		Symbol:        c.Symbol,
		Address:       c.Address,
		AssetPath:     c.AssetPath,
	}
}

func sanitizeZipPath(p string) string {
	segments := splitPath(p)
	kept := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		kept = append(kept, seg)
	}
	return joinSlash(kept)
}

func splitPath(p string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(p); i++ {
		if p[i] == '/' || p[i] == '\\' {
			parts = append(parts, p[start:i])
			start = i + 1
		}
	}
	parts = append(parts, p[start:])
	return parts
}

func joinSlash(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "/"
		}
		out += p
	}
	return out
}
