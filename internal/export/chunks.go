package export

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/llmx/llmx/internal/index"
	"github.com/llmx/llmx/internal/tokenizer"
)

const minRepeatedLinesToCompact = 3

// ChunkFile is one member of the chunks/ export tree.
type ChunkFile struct {
	Name string
	Body string
}

type chunkFrontMatter struct {
	ChunkIndex    int      `yaml:"chunk_index"`
	Ref           string   `yaml:"ref"`
	ID            string   `yaml:"id"`
	Slug          string   `yaml:"slug"`
	Path          string   `yaml:"path"`
	Kind          string   `yaml:"kind"`
	Lines         [2]int   `yaml:"lines,flow"`
	TokenEstimate int      `yaml:"token_estimate"`
	ContentSHA256 string   `yaml:"content_sha256"`
	Compacted     bool     `yaml:"compacted"`
	HeadingPath   []string `yaml:"heading_path,flow"`
	Symbol        *string  `yaml:"symbol"`
	Address       *string  `yaml:"address"`
	AssetPath     *string  `yaml:"asset_path"`
}

// BuildChunkFiles renders one Markdown file per chunk, each with YAML
// front matter describing its metadata, named chunks/{ref}.md.
func BuildChunkFiles(idx *index.IndexFile, refs index.ChunkRefs) ([]ChunkFile, error) {
	chunks := sortedChunks(idx)
	out := make([]ChunkFile, 0, len(chunks))

	for i, c := range chunks {
		ref := refs[c.ID]
		if ref == "" {
			ref = c.ShortID
		}
		content, compacted := compactForExport(c)

		fm := chunkFrontMatter{
			ChunkIndex: i + 1, Ref: ref, ID: c.ID, Slug: c.Slug, Path: c.Path,
			Kind: kindLabel(c.Kind), Lines: [2]int{c.StartLine, c.EndLine},
			TokenEstimate: c.TokenEstimate, ContentSHA256: c.ContentHash, Compacted: compacted,
			HeadingPath: nonNilHeadingPath(c.HeadingPath),
			Symbol:      optionalString(c.Symbol), Address: optionalString(c.Address),
			AssetPath: optionalString(c.AssetPath),
		}

		yamlBytes, err := yaml.Marshal(fm)
		if err != nil {
			return nil, fmt.Errorf("export: marshal front matter for %s: %w", ref, err)
		}

		var body strings.Builder
		body.WriteString("---\n")
		body.Write(yamlBytes)
		body.WriteString("---\n\n")
		body.WriteString(content)

		out = append(out, ChunkFile{Name: "chunks/" + ref + ".md", Body: body.String()})
	}
	return out, nil
}

func nonNilHeadingPath(h []string) []string {
	if h == nil {
		return []string{}
	}
	return h
}

// compactForExport collapses runs of 3+ identical lines in Text-kind
// content to save tokens in the exported bundle; other kinds pass through
// unchanged since their structure (headings, JSON keys, code symbols) is
// already compact.
func compactForExport(c index.Chunk) (string, bool) {
	if c.Kind != tokenizer.KindText {
		return c.Content, false
	}
	return compactRepeatedLines(c.Content, minRepeatedLinesToCompact)
}

func compactRepeatedLines(text string, minRepeat int) (string, bool) {
	lines := strings.Split(text, "\n")
	var out []string
	var current string
	count := 0
	haveCurrent := false
	compacted := false

	flush := func() {
		if !haveCurrent {
			return
		}
		if count >= minRepeat {
			out = append(out, current)
			out = append(out, fmt.Sprintf("... (previous line repeated %d more times)", count-1))
			compacted = true
		} else {
			for i := 0; i < count; i++ {
				out = append(out, current)
			}
		}
	}

	for _, line := range lines {
		if haveCurrent && line == current {
			count++
			continue
		}
		flush()
		current = line
		count = 1
		haveCurrent = true
	}
	flush()

	return strings.Join(out, "\n"), compacted
}
