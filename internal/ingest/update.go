package ingest

import (
	"sort"

	"github.com/llmx/llmx/internal/index"
	"github.com/llmx/llmx/internal/tokenizer"
)

type prevFile struct {
	meta   index.FileMeta
	chunks []index.Chunk
}

func indexPrev(prev *index.IndexFile) map[string]prevFile {
	chunksByPath := map[string][]index.Chunk{}
	for _, c := range prev.Chunks {
		chunksByPath[c.Path] = append(chunksByPath[c.Path], c)
	}
	byPath := map[string]prevFile{}
	for _, f := range prev.Files {
		byPath[f.Path] = prevFile{meta: f, chunks: chunksByPath[f.Path]}
	}
	return byPath
}

// Update reuses unchanged files verbatim (by content hash) and re-chunks
// everything else, then re-derives chunk_refs, inverted_index, stats, and
// index_id exactly as a fresh ingest would. Files present in prev but
// absent from newInputs are dropped.
func Update(prev *index.IndexFile, newInputs []index.FileInput, opts Options) *index.IndexFile {
	return update(prev, newInputs, nil, opts)
}

// UpdateSelective carries forward prior data for every path in keepPaths
// (deduped) that exists in prev, then applies the same reuse rule to
// newInputs, before re-deriving everything globally.
func UpdateSelective(prev *index.IndexFile, newInputs []index.FileInput, keepPaths []string, opts Options) *index.IndexFile {
	return update(prev, newInputs, keepPaths, opts)
}

func update(prev *index.IndexFile, newInputs []index.FileInput, keepPaths []string, opts Options) *index.IndexFile {
	prevByPath := indexPrev(prev)

	var (
		files     []index.FileMeta
		allChunks []index.Chunk
		warnings  []index.IngestWarning
	)
	have := map[string]bool{}

	keepSeen := map[string]bool{}
	for _, p := range keepPaths {
		if keepSeen[p] || have[p] {
			continue
		}
		keepSeen[p] = true
		if pf, ok := prevByPath[p]; ok {
			files = append(files, pf.meta)
			allChunks = append(allChunks, pf.chunks...)
			have[p] = true
		}
	}

	sorted := make([]index.FileInput, len(newInputs))
	copy(sorted, newInputs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	for _, in := range sorted {
		sha := tokenizer.SHA256Hex(in.Data)
		if pf, ok := prevByPath[in.Path]; ok && pf.meta.SHA256 == sha {
			files = replacePath(files, in.Path, pf.meta)
			allChunks = replaceChunksForPath(allChunks, in.Path, pf.chunks)
			have[in.Path] = true
			continue
		}
		single := Ingest([]index.FileInput{in}, opts)
		if len(single.Files) == 0 {
			files = dropPath(files, in.Path)
			allChunks = replaceChunksForPath(allChunks, in.Path, nil)
			warnings = append(warnings, single.Warnings...)
			continue
		}
		files = replacePath(files, in.Path, single.Files[0])
		allChunks = replaceChunksForPath(allChunks, in.Path, single.Chunks)
		warnings = append(warnings, single.Warnings...)
		have[in.Path] = true
	}

	sort.SliceStable(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	sort.SliceStable(allChunks, func(i, j int) bool {
		if allChunks[i].Path != allChunks[j].Path {
			return allChunks[i].Path < allChunks[j].Path
		}
		return allChunks[i].StartLine < allChunks[j].StartLine
	})

	chunkRefs := BuildChunkRefs(allChunks)
	inverted := index.BuildInvertedIndex(allChunks)
	stats := index.ComputeStats(files, allChunks)
	indexID := index.ComputeIndexID(files)

	return &index.IndexFile{
		Version:       1,
		IndexID:       indexID,
		Files:         files,
		Chunks:        allChunks,
		ChunkRefs:     chunkRefs,
		InvertedIndex: inverted,
		Stats:         stats,
		Warnings:      warnings,
	}
}

// replacePath appends meta for path, removing any existing entry for the
// same path first (keepPaths and newInputs may overlap).
func replacePath(files []index.FileMeta, path string, meta index.FileMeta) []index.FileMeta {
	out := files[:0:0]
	for _, f := range files {
		if f.Path != path {
			out = append(out, f)
		}
	}
	return append(out, meta)
}

func dropPath(files []index.FileMeta, path string) []index.FileMeta {
	out := files[:0:0]
	for _, f := range files {
		if f.Path != path {
			out = append(out, f)
		}
	}
	return out
}

func replaceChunksForPath(chunks []index.Chunk, path string, next []index.Chunk) []index.Chunk {
	out := chunks[:0:0]
	for _, c := range chunks {
		if c.Path != path {
			out = append(out, c)
		}
	}
	return append(out, next...)
}
