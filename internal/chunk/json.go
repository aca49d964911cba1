package chunk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/llmx/llmx/internal/tokenizer"
)

const jsonFallbackMaxBytes = 512 * 1024

// chunkJSON parses the input as JSON and emits one draft per top-level key
// (object), a sliding window of elements (array), or a single draft
// (anything else). Falls back to plain-text chunking, relabeled Json, if
// parsing fails or the input exceeds 512 KiB.
func chunkJSON(text string, opts Options) []Draft {
	if len(text) > jsonFallbackMaxBytes {
		return relabel(chunkText(text, opts), tokenizer.KindJSON)
	}

	total := lineCount(text)
	data := []byte(text)

	kind, keys, values, elements, isOther, err := parseTopLevel(data)
	if err != nil {
		return relabel(chunkText(text, opts), tokenizer.KindJSON)
	}

	var drafts []Draft
	switch kind {
	case "object":
		for i, key := range keys {
			drafts = append(drafts, jsonValueDrafts(key, []string{key}, key,
				fmt.Sprintf("$.%s", key), values[i], total, opts)...)
		}
	case "array":
		const maxWindow = 50
		start := 0
		for start < len(elements) {
			window := maxWindow
			if start+window > len(elements) {
				window = len(elements) - start
			}
			for window > 1 {
				joined := joinElements(elements[start : start+window])
				if len(joined) <= opts.ChunkMaxChars {
					break
				}
				window /= 2
			}
			end := start + window
			content := joinElements(elements[start:end])
			addr := fmt.Sprintf("$[%d:%d]", start, end)
			drafts = append(drafts, jsonValueDrafts("", nil, "", addr, []byte(content), total, opts)...)
			start = end
		}
	default:
		_ = isOther
		drafts = append(drafts, Draft{
			Kind:      tokenizer.KindJSON,
			StartLine: 1,
			EndLine:   total,
			Content:   text,
			Address:   "$",
		})
	}
	return drafts
}

// jsonValueDrafts emits one draft for content, or splits it into fixed-char
// slices suffixing the address with #1, #2, ... when it exceeds ChunkMaxChars.
func jsonValueDrafts(symbol string, headingPath []string, _ string, address string, content []byte, total int, opts Options) []Draft {
	s := string(content)
	if len(s) <= opts.ChunkMaxChars {
		return []Draft{{
			Kind:        tokenizer.KindJSON,
			StartLine:   1,
			EndLine:     total,
			Content:     s,
			HeadingPath: headingPath,
			Symbol:      symbol,
			Address:     address,
		}}
	}

	var drafts []Draft
	part := 1
	for start := 0; start < len(s); start += opts.ChunkMaxChars {
		end := start + opts.ChunkMaxChars
		if end > len(s) {
			end = len(s)
		}
		drafts = append(drafts, Draft{
			Kind:        tokenizer.KindJSON,
			StartLine:   1,
			EndLine:     total,
			Content:     s[start:end],
			HeadingPath: headingPath,
			Symbol:      symbol,
			Address:     fmt.Sprintf("%s#%d", address, part),
		})
		part++
	}
	return drafts
}

func joinElements(elems [][]byte) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = string(e)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// parseTopLevel walks the JSON document's top-level structure with
// json.Decoder, preserving insertion order for object keys and array
// elements, and returns each value's content re-serialized into canonical
// compact JSON (parse-then-marshal, stripping any original whitespace),
// matching a full parse→reserialize round trip rather than a raw byte slice.
func parseTopLevel(data []byte) (kind string, keys []string, values [][]byte, elements [][]byte, isOther bool, err error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, terr := dec.Token()
	if terr != nil {
		return "", nil, nil, nil, false, terr
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		// Scalar at top level.
		return "other", nil, nil, nil, true, nil
	}

	switch delim {
	case '{':
		for dec.More() {
			keyTok, kerr := dec.Token()
			if kerr != nil {
				return "", nil, nil, nil, false, kerr
			}
			key, _ := keyTok.(string)
			var raw json.RawMessage
			if derr := dec.Decode(&raw); derr != nil {
				return "", nil, nil, nil, false, derr
			}
			canonical, cerr := reserializeJSON(raw)
			if cerr != nil {
				return "", nil, nil, nil, false, cerr
			}
			keys = append(keys, key)
			values = append(values, canonical)
		}
		if _, cerr := dec.Token(); cerr != nil {
			return "", nil, nil, nil, false, cerr
		}
		return "object", keys, values, nil, false, nil
	case '[':
		for dec.More() {
			var raw json.RawMessage
			if derr := dec.Decode(&raw); derr != nil {
				return "", nil, nil, nil, false, derr
			}
			canonical, cerr := reserializeJSON(raw)
			if cerr != nil {
				return "", nil, nil, nil, false, cerr
			}
			elements = append(elements, canonical)
		}
		if _, cerr := dec.Token(); cerr != nil {
			return "", nil, nil, nil, false, cerr
		}
		return "array", nil, nil, elements, false, nil
	default:
		return "other", nil, nil, nil, true, nil
	}
}

// reserializeJSON parses raw into a generic value and marshals it back out,
// yielding canonical compact JSON regardless of the original's whitespace
// or indentation — a full parse→reserialize round trip.
func reserializeJSON(raw json.RawMessage) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func relabel(drafts []Draft, kind tokenizer.ChunkKind) []Draft {
	for i := range drafts {
		drafts[i].Kind = kind
	}
	return drafts
}
