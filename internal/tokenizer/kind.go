package tokenizer

import "strings"

// ChunkKind is the closed enum of recognized chunk kinds.
type ChunkKind string

const (
	KindMarkdown   ChunkKind = "Markdown"
	KindJSON       ChunkKind = "Json"
	KindJavaScript ChunkKind = "JavaScript"
	KindHTML       ChunkKind = "Html"
	KindText       ChunkKind = "Text"
	KindImage      ChunkKind = "Image"
	KindUnknown    ChunkKind = "Unknown"
)

var extToKind = map[string]ChunkKind{
	"md": KindMarkdown, "markdown": KindMarkdown,
	"json": KindJSON,
	"js":   KindJavaScript, "ts": KindJavaScript, "tsx": KindJavaScript,
	"html": KindHTML, "htm": KindHTML,
	"txt": KindText, "log": KindText, "jsonl": KindText, "csv": KindText, "ini": KindText, "cfg": KindText, "conf": KindText,
	"xml": KindText,
	"png": KindImage, "jpg": KindImage, "jpeg": KindImage, "webp": KindImage, "gif": KindImage, "bmp": KindImage,
}

// DetectKind is a pure function of the filename extension (case-insensitive).
func DetectKind(path string) ChunkKind {
	ext := extension(path)
	if kind, ok := extToKind[ext]; ok {
		return kind
	}
	return KindUnknown
}

func extension(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 || i == len(path)-1 {
		return ""
	}
	slash := strings.LastIndexAny(path, "/\\")
	if slash > i {
		return ""
	}
	return strings.ToLower(path[i+1:])
}
