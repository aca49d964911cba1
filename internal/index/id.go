package index

import "github.com/llmx/llmx/internal/tokenizer"

// ComputeIndexID hashes the ordered (path, sha256) pairs of files. Callers
// must supply files already sorted by path (ingest guarantees this).
func ComputeIndexID(files []FileMeta) string {
	var buf []byte
	for _, f := range files {
		buf = append(buf, f.Path...)
		buf = append(buf, '\n')
		buf = append(buf, f.SHA256...)
		buf = append(buf, '\n')
	}
	return tokenizer.SHA256Hex(buf)
}
