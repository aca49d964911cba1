package chunk

import "strings"

// splitLines splits text into lines (without trailing '\n' or '\r'),
// 1-indexed by position in the returned slice (line i is lines[i-1]).
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	// A trailing '\n' produces one trailing empty element from strings.Split;
	// that element does not correspond to a real line.
	if len(raw) > 0 && raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}
	for i, l := range raw {
		raw[i] = strings.TrimSuffix(l, "\r")
	}
	return raw
}
