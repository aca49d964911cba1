package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/llmx/llmx/internal/index"
)

// BuildZip composes the full export bundle: llm.md, the raw index.json,
// manifest.json, and one chunks/{ref}.md per chunk. archive/zip is the
// standard-library equivalent of the zip crate the original exporter
// used; no third-party zip library is warranted for plain deflate writes.
func BuildZip(idx *index.IndexFile) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	chunks := sortedChunks(idx)
	refs := ResolveRefs(idx, chunks)

	if err := writeEntry(w, "llm.md", []byte(BuildLLMDoc(idx, refs))); err != nil {
		return nil, err
	}

	indexJSON, err := json.Marshal(idx)
	if err != nil {
		return nil, fmt.Errorf("export: marshal index.json: %w", err)
	}
	if err := writeEntry(w, "index.json", indexJSON); err != nil {
		return nil, err
	}

	manifest, err := BuildManifest(idx, refs)
	if err != nil {
		return nil, err
	}
	if err := writeEntry(w, "manifest.json", manifest); err != nil {
		return nil, err
	}

	chunkFiles, err := BuildChunkFiles(idx, refs)
	if err != nil {
		return nil, err
	}
	for _, cf := range chunkFiles {
		if err := writeEntry(w, cf.Name, []byte(cf.Body)); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("export: close zip: %w", err)
	}
	return buf.Bytes(), nil
}

func writeEntry(w *zip.Writer, name string, content []byte) error {
	f, err := w.Create(name)
	if err != nil {
		return fmt.Errorf("export: create zip entry %s: %w", name, err)
	}
	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("export: write zip entry %s: %w", name, err)
	}
	return nil
}
