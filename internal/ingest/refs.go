package ingest

import (
	"sort"
	"strconv"
	"strings"

	"github.com/llmx/llmx/internal/index"
)

// BuildChunkRefs assigns short, human-typeable references to chunks,
// deterministic across runs over identical inputs: refs depend only on
// (path, start_line, end_line, id).
func BuildChunkRefs(chunks []index.Chunk) index.ChunkRefs {
	ordered := make([]index.Chunk, len(chunks))
	copy(ordered, chunks)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.StartLine != b.StartLine {
			return a.StartLine < b.StartLine
		}
		if a.EndLine != b.EndLine {
			return a.EndLine < b.EndLine
		}
		return a.ID < b.ID
	})

	total := len(ordered)
	width := digitsBase36(total)
	if width < 4 {
		width = 4
	}

	refs := index.ChunkRefs{}
	seen := map[string]bool{}
	for i, c := range ordered {
		ref := "c" + padBase36(i+1, width)
		if seen[ref] {
			ref = ref + "-" + strconv.Itoa(i+1)
		}
		seen[ref] = true
		refs[c.ID] = ref
	}
	return refs
}

func padBase36(n, width int) string {
	s := strconv.FormatInt(int64(n), 36)
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s
}

func digitsBase36(total int) int {
	if total <= 0 {
		return 1
	}
	return len(strconv.FormatInt(int64(total), 36))
}
