package chunk

import (
	"strings"

	"github.com/llmx/llmx/internal/tokenizer"
)

// chunkText implements the plain-text flush rules from spec.md §4.2.
func chunkText(text string, opts Options) []Draft {
	lines := splitLines(text)
	total := lineCount(text)

	var drafts []Draft
	var bufLines []string
	bufStart := 1
	bufChars := 0

	flush := func(endLine int) {
		if len(bufLines) == 0 {
			return
		}
		content := strings.Join(bufLines, "\n")
		if strings.TrimSpace(content) != "" {
			drafts = append(drafts, Draft{
				Kind:      tokenizer.KindText,
				StartLine: bufStart,
				EndLine:   endLine,
				Content:   content,
			})
		}
		bufLines = nil
		bufChars = 0
	}

	for idx, line := range lines {
		lineNo := idx + 1

		if len(line) > opts.ChunkMaxChars {
			flush(lineNo - 1)
			for start := 0; start < len(line); start += opts.ChunkMaxChars {
				end := start + opts.ChunkMaxChars
				if end > len(line) {
					end = len(line)
				}
				drafts = append(drafts, Draft{
					Kind:      tokenizer.KindText,
					StartLine: lineNo,
					EndLine:   lineNo,
					Content:   line[start:end],
				})
			}
			bufStart = lineNo + 1
			continue
		}

		if strings.TrimSpace(line) == "" && len(bufLines) > 0 {
			if bufChars >= opts.ChunkTargetChars {
				flush(lineNo)
				bufStart = lineNo + 1
				continue
			}
			bufLines = append(bufLines, line)
			bufChars += len(line) + 1
			continue
		}

		bufLines = append(bufLines, line)
		bufChars += len(line) + 1

		if bufChars >= opts.ChunkMaxChars {
			flush(lineNo)
			bufStart = lineNo + 1
		}
	}

	flush(maxInt(total, 1))
	return drafts
}
