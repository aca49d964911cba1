package chunk

import (
	"path"
	"strings"

	"github.com/llmx/llmx/internal/tokenizer"
)

// chunkImage emits exactly one draft; image bytes are never UTF-8 decoded.
func chunkImage(filePath, _ string) []Draft {
	base := path.Base(strings.ReplaceAll(filePath, "\\", "/"))
	content := "Image: " + base + "\nSource: " + filePath
	return []Draft{{
		Kind:      tokenizer.KindImage,
		StartLine: 1,
		EndLine:   1,
		Content:   content,
	}}
}
