package chunk

import (
	"regexp"
	"strings"

	"github.com/llmx/llmx/internal/tokenizer"
)

var headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// chunkMarkdown scans by line, tracking fence state and a heading stack.
// See spec.md §4.2 "Markdown" for the exact flush discipline.
func chunkMarkdown(text string, opts Options) []Draft {
	lines := splitLines(text)
	total := lineCount(text)

	var drafts []Draft
	var bufLines []string
	bufStart := 1
	bufChars := 0
	inFence := false
	var headingStack []string

	flush := func(endLine int) {
		if len(bufLines) == 0 {
			return
		}
		content := strings.Join(bufLines, "\n")
		if strings.TrimSpace(content) != "" {
			hp := append([]string(nil), headingStack...)
			drafts = append(drafts, Draft{
				Kind:        tokenizer.KindMarkdown,
				StartLine:   bufStart,
				EndLine:     endLine,
				Content:     content,
				HeadingPath: hp,
			})
		}
		bufLines = nil
		bufChars = 0
	}

	isFenceMarker := func(line string) bool {
		trimmed := strings.TrimLeft(line, " \t")
		return strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")
	}

	for idx, line := range lines {
		lineNo := idx + 1

		if isFenceMarker(line) {
			inFence = !inFence
		} else if !inFence {
			if m := headingPattern.FindStringSubmatch(line); m != nil {
				flush(lineNo - 1)
				level := len(m[1])
				if level-1 < len(headingStack) {
					headingStack = headingStack[:level-1]
				}
				headingStack = append(headingStack, strings.TrimSpace(m[2]))
				bufStart = lineNo
			}
		}

		bufLines = append(bufLines, line)
		bufChars += len(line) + 1

		if bufChars >= opts.ChunkMaxChars && !inFence {
			flush(lineNo)
			bufStart = lineNo + 1
		}
	}

	flush(maxInt(total, 1))
	return drafts
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
