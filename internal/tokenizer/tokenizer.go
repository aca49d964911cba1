// Package tokenizer implements the token stream, noise filter, slug, short
// id, and hashing primitives shared by the chunker, the inverted index, and
// the BM25 scorer.
package tokenizer

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const maxTokenLen = 96

var noiseBlacklist = map[string]struct{}{
	"prev": {}, "next": {}, "show": {}, "more": {},
}

// isSeparator reports whether b is a separator byte: anything outside
// ASCII lowercase letters and digits. Tokenize lowercases input first, so
// uppercase letters also fall through here and get normalized upstream.
func isSeparator(b byte) bool {
	return !((b >= 'a' && b <= 'z') || (b >= '0' && b <= '9'))
}

// Tokenize produces a sequence of lowercase ASCII alphanumeric tokens, with
// noise filtered per isNoise.
func Tokenize(text string) []string {
	var out []string
	TokenizeFunc(text, func(tok string) {
		out = append(out, tok)
	})
	return out
}

// TokenizeCounts accumulates per-token term frequency into counts and
// returns the document length (count of accepted tokens). It produces
// output identical to Tokenize, just aggregated.
func TokenizeCounts(text string, counts map[string]int) int {
	docLen := 0
	TokenizeFunc(text, func(tok string) {
		counts[tok]++
		docLen++
	})
	return docLen
}

// TokenizeFunc is the shared scanning core: lowercase the input, split on
// any non-[a-z0-9] byte, drop runs longer than maxTokenLen entirely, and
// filter noise tokens, invoking emit for each accepted token in order.
func TokenizeFunc(text string, emit func(string)) {
	lower := strings.ToLower(text)
	start := -1
	tooLong := false

	flush := func(end int) {
		if start < 0 {
			return
		}
		if !tooLong {
			tok := lower[start:end]
			if !isNoise(tok) {
				emit(tok)
			}
		}
		start = -1
		tooLong = false
	}

	for i := 0; i < len(lower); i++ {
		b := lower[i]
		if isSeparator(b) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
		}
		if i-start+1 > maxTokenLen {
			tooLong = true
		}
	}
	flush(len(lower))
}

// isNoise reports whether tok should be filtered from the token stream.
func isNoise(tok string) bool {
	n := len(tok)
	if n == 0 {
		return true
	}
	if n == 1 && tok != "c" && tok != "r" {
		return true
	}
	if n > 64 {
		return true
	}
	if n >= 16 && isAllHex(tok) {
		return true
	}
	if n >= 3 && isAllDecimal(tok) {
		return true
	}
	if n >= 8 && digitFraction(tok) >= 2.0/3.0 {
		return true
	}
	if n >= 24 && !containsVowel(tok) {
		return true
	}
	if _, blacklisted := noiseBlacklist[tok]; blacklisted {
		return true
	}
	return false
}

func isAllHex(tok string) bool {
	for i := 0; i < len(tok); i++ {
		b := tok[i]
		if !((b >= '0' && b <= '9') || (b >= 'a' && b <= 'f')) {
			return false
		}
	}
	return true
}

func isAllDecimal(tok string) bool {
	for i := 0; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return false
		}
	}
	return true
}

func digitFraction(tok string) float64 {
	digits := 0
	for i := 0; i < len(tok); i++ {
		if tok[i] >= '0' && tok[i] <= '9' {
			digits++
		}
	}
	return float64(digits) / float64(len(tok))
}

func containsVowel(tok string) bool {
	for i := 0; i < len(tok); i++ {
		switch tok[i] {
		case 'a', 'e', 'i', 'o', 'u':
			return true
		}
	}
	return false
}

// EstimateTokens estimates a token count from a character count:
// ceil(charCount / 4).
func EstimateTokens(charCount int) int {
	return (charCount + 3) / 4
}

// Slugify lowercases s, turns any non-alphanumeric run into a single dash,
// and trims leading/trailing dashes. Returns "chunk" if the result is empty.
func Slugify(s string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(s) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if isAlnum {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash && b.Len() > 0 {
			b.WriteByte('-')
			lastDash = true
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "chunk"
	}
	return out
}

// SHA256Hex returns the lowercase hex SHA-256 digest of data.
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SHA256HexString is a convenience wrapper over SHA256Hex for string input.
func SHA256HexString(s string) string {
	return SHA256Hex([]byte(s))
}

// ShortID returns the first n characters (runes) of full.
func ShortID(full string, n int) string {
	r := []rune(full)
	if n >= len(r) {
		return full
	}
	return string(r[:n])
}
