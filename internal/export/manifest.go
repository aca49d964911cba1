package export

import (
	"encoding/json"

	"github.com/llmx/llmx/internal/index"
)

const manifestFormatVersion = 2

// manifestChunkRow mirrors the original exporter's positional tuple shape
// as a same-order JSON array, to keep the columnar layout exact.
type manifestChunkRow struct {
	Ref           string
	ID            string
	Slug          string
	PathIndex     int
	KindIndex     int
	StartLine     int
	EndLine       int
	TokenEstimate int
	ContentSHA256 string
	HeadingPath   []string
	Symbol        *string
	Address       *string
	AssetPath     *string
}

func (r manifestChunkRow) MarshalJSON() ([]byte, error) {
	heading := r.HeadingPath
	if heading == nil {
		heading = []string{}
	}
	return json.Marshal([]any{
		r.Ref, r.ID, r.Slug, r.PathIndex, r.KindIndex,
		r.StartLine, r.EndLine, r.TokenEstimate, r.ContentSHA256,
		heading, r.Symbol, r.Address, r.AssetPath,
	})
}

type manifestV2 struct {
	FormatVersion int                `json:"format_version"`
	IndexID       string             `json:"index_id"`
	Files         []index.FileMeta   `json:"files"`
	Paths         []string           `json:"paths"`
	Kinds         []string           `json:"kinds"`
	ChunkColumns  []string           `json:"chunk_columns"`
	Chunks        []manifestChunkRow `json:"chunks"`
}

var manifestChunkColumns = []string{
	"ref", "id", "slug", "path_i", "kind_i", "start_line", "end_line",
	"token_estimate", "content_sha256", "heading_path", "symbol", "address", "asset_path",
}

// BuildManifest renders manifest.json: a columnar representation with
// shared paths[]/kinds[] string tables and per-chunk rows referencing
// them by integer index.
func BuildManifest(idx *index.IndexFile, refs index.ChunkRefs) ([]byte, error) {
	chunks := sortedChunks(idx)

	var paths, kinds []string
	pathIndex := map[string]int{}
	kindIndex := map[string]int{}

	rows := make([]manifestChunkRow, 0, len(chunks))
	for _, c := range chunks {
		ref := refs[c.ID]
		if ref == "" {
			ref = c.ShortID
		}

		pi, ok := pathIndex[c.Path]
		if !ok {
			pi = len(paths)
			paths = append(paths, c.Path)
			pathIndex[c.Path] = pi
		}

		label := kindLabel(c.Kind)
		ki, ok := kindIndex[label]
		if !ok {
			ki = len(kinds)
			kinds = append(kinds, label)
			kindIndex[label] = ki
		}

		rows = append(rows, manifestChunkRow{
			Ref: ref, ID: c.ID, Slug: c.Slug, PathIndex: pi, KindIndex: ki,
			StartLine: c.StartLine, EndLine: c.EndLine, TokenEstimate: c.TokenEstimate,
			ContentSHA256: c.ContentHash, HeadingPath: c.HeadingPath,
			Symbol: optionalString(c.Symbol), Address: optionalString(c.Address),
			AssetPath: optionalString(c.AssetPath),
		})
	}

	m := manifestV2{
		FormatVersion: manifestFormatVersion,
		IndexID:       idx.IndexID,
		Files:         idx.Files,
		Paths:         paths,
		Kinds:         kinds,
		ChunkColumns:  manifestChunkColumns,
		Chunks:        rows,
	}
	return json.Marshal(m)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
