package chunk

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/llmx/llmx/internal/tokenizer"
)

// Finalize converts drafts for one file into Chunks, assigning content-
// addressed identity per spec.md §3 / §4.2 "Finalization".
func Finalize(filePath string, drafts []Draft) []Chunk {
	occurrence := map[string]int{}
	chunks := make([]Chunk, 0, len(drafts))

	for _, d := range drafts {
		if strings.TrimSpace(d.Content) == "" {
			continue
		}
		contentHash := tokenizer.SHA256HexString(d.Content)
		occ := occurrence[contentHash]
		occurrence[contentHash] = occ + 1

		id := tokenizer.SHA256HexString(filePath + "\n" + contentHash + "\n" + strconv.Itoa(occ))
		shortID := tokenizer.ShortID(id, 12)
		slug := buildSlug(filePath, d)

		chunks = append(chunks, Chunk{
			ID:            id,
			ShortID:       shortID,
			Slug:          slug,
			Path:          filePath,
			Kind:          d.Kind,
			StartLine:     d.StartLine,
			EndLine:       d.EndLine,
			Content:       d.Content,
			ContentHash:   contentHash,
			TokenEstimate: tokenizer.EstimateTokens(len([]rune(d.Content))),
			HeadingPath:   d.HeadingPath,
			Symbol:        d.Symbol,
			Address:       d.Address,
		})
	}
	return chunks
}

func buildSlug(filePath string, d Draft) string {
	stem := strings.TrimSuffix(path.Base(filePath), path.Ext(filePath))
	baseLimit := 28
	if d.Kind == tokenizer.KindImage {
		baseLimit = 72
	}
	base := truncateRunes(tokenizer.Slugify(stem), baseLimit)

	context := ""
	if len(d.HeadingPath) > 0 {
		context = d.HeadingPath[len(d.HeadingPath)-1]
	} else if d.Symbol != "" {
		context = d.Symbol
	} else if d.Address != "" {
		context = d.Address
	}

	slugContext := ""
	if context != "" {
		slugContext = tokenizer.Slugify(context)
		for strings.HasPrefix(slugContext, base) {
			slugContext = strings.TrimPrefix(slugContext, base)
			slugContext = strings.TrimLeft(slugContext, "-")
		}
		slugContext = truncateRunes(slugContext, 44)
		if slugContext == "" || slugContext == "chunk" || slugContext == base {
			slugContext = ""
		}
	}

	var result string
	if slugContext != "" {
		result = fmt.Sprintf("%s--%s", base, slugContext)
	} else {
		result = base
	}

	if d.Kind == tokenizer.KindText {
		result = fmt.Sprintf("%s-l%d-%d", result, d.StartLine, d.EndLine)
	}

	result = strings.Trim(truncateRunes(result, 96), "-")
	if result == "" {
		result = "chunk"
	}
	return result
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
