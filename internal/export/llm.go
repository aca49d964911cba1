// Package export renders a finished index into host-facing artifacts:
// the llm.md outline, manifest.json, one Markdown file per chunk, and a
// zip bundle combining them. None of this adds index invariants; it only
// reads a finished index.IndexFile.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/llmx/llmx/internal/index"
	"github.com/llmx/llmx/internal/ingest"
	"github.com/llmx/llmx/internal/tokenizer"
)

// ResolveRefs returns idx.ChunkRefs if already populated, else rebuilds
// them from chunks — mirroring the teacher's "build if empty" fallback
// so export works even against a bare, freshly-decoded stored index.
func ResolveRefs(idx *index.IndexFile, chunks []index.Chunk) index.ChunkRefs {
	if len(idx.ChunkRefs) > 0 {
		return idx.ChunkRefs
	}
	return ingest.BuildChunkRefs(chunks)
}

func sortedChunks(idx *index.IndexFile) []index.Chunk {
	chunks := make([]index.Chunk, len(idx.Chunks))
	copy(chunks, idx.Chunks)
	sort.SliceStable(chunks, func(i, j int) bool {
		if chunks[i].Path != chunks[j].Path {
			return chunks[i].Path < chunks[j].Path
		}
		return chunks[i].StartLine < chunks[j].StartLine
	})
	return chunks
}

// BuildLLMDoc renders the llm.md outline: a per-file heading followed by
// one `- {ref} ({start}-{end}) {semantic-label}` line per chunk.
func BuildLLMDoc(idx *index.IndexFile, refs index.ChunkRefs) string {
	chunks := sortedChunks(idx)
	fileMeta := map[string]index.FileMeta{}
	for _, f := range idx.Files {
		fileMeta[f.Path] = f
	}

	var b strings.Builder
	b.WriteString("# llm.md (pointer manifest)\n\n")
	fmt.Fprintf(&b, "Index ID: %s\nFiles: %d  Chunks: %d\n\n", idx.IndexID, len(idx.Files), len(chunks))
	b.WriteString("Chunk files live under `chunks/` and are named `{ref}.md`.\n")
	b.WriteString("Prefer search to find refs, then open only the referenced chunk files.\n\n")

	if len(idx.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		b.WriteString("Some files were skipped or truncated.\n\n")
		for _, w := range idx.Warnings {
			fmt.Fprintf(&b, "- %s: %s\n", markdownCodeSpan(w.Path), sanitizeSingleLine(w.Message))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Files\n\n")
	currentPath := ""
	for _, c := range chunks {
		if c.Path != currentPath {
			currentPath = c.Path
			if meta, ok := fileMeta[currentPath]; ok {
				fmt.Fprintf(&b, "### %s (%s, %d lines)\n", currentPath, kindShortLabel(meta.Kind), meta.LineCount)
			} else {
				fmt.Fprintf(&b, "### %s\n", currentPath)
			}
		}
		ref := refs[c.ID]
		if ref == "" {
			ref = c.ShortID
		}
		b.WriteString(renderChunkEntryOutline(c, ref))
		b.WriteString("\n")
	}
	return b.String()
}

// OutlineLine renders a single chunk's outline entry, without its file
// heading — the unit internal/handler's explore(outline) mode lists.
func OutlineLine(c index.Chunk, ref string) string {
	if ref == "" {
		ref = c.ShortID
	}
	return renderChunkEntryOutline(c, ref)
}

func renderChunkEntryOutline(c index.Chunk, ref string) string {
	lines := fmt.Sprintf("%d-%d", c.StartLine, c.EndLine)

	var semantic string
	switch {
	case c.Kind == tokenizer.KindJavaScript && c.Symbol != "":
		semantic = fmt.Sprintf("`%s()`", c.Symbol)
	case c.Kind == tokenizer.KindMarkdown && len(c.HeadingPath) > 0:
		semantic = strings.Join(lastN(c.HeadingPath, 3), " > ")
	default:
		semantic = c.Slug
	}
	return fmt.Sprintf("- %s (%s) %s", ref, lines, semantic)
}

func lastN(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func kindShortLabel(k tokenizer.ChunkKind) string {
	switch k {
	case tokenizer.KindMarkdown:
		return "md"
	case tokenizer.KindJSON:
		return "json"
	case tokenizer.KindJavaScript:
		return "js"
	case tokenizer.KindHTML:
		return "html"
	case tokenizer.KindText:
		return "txt"
	case tokenizer.KindImage:
		return "img"
	default:
		return "?"
	}
}

func kindLabel(k tokenizer.ChunkKind) string {
	switch k {
	case tokenizer.KindMarkdown:
		return "markdown"
	case tokenizer.KindJSON:
		return "json"
	case tokenizer.KindJavaScript:
		return "java_script"
	case tokenizer.KindHTML:
		return "html"
	case tokenizer.KindText:
		return "text"
	case tokenizer.KindImage:
		return "image"
	default:
		return "unknown"
	}
}

func sanitizeSingleLine(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r < 0x20 {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func markdownCodeSpan(s string) string {
	cleaned := sanitizeSingleLine(s)
	fenceLen := maxBacktickRun(cleaned) + 1
	fence := strings.Repeat("`", fenceLen)
	if strings.HasPrefix(cleaned, " ") || strings.HasSuffix(cleaned, " ") {
		return fence + " " + cleaned + " " + fence
	}
	return fence + cleaned + fence
}

func maxBacktickRun(s string) int {
	maxRun, current := 0, 0
	for _, r := range s {
		if r == '`' {
			current++
			if current > maxRun {
				maxRun = current
			}
		} else {
			current = 0
		}
	}
	return maxRun
}
