package chunk

import (
	"regexp"
	"strings"

	"github.com/llmx/llmx/internal/tokenizer"
)

var (
	scriptOpen  = regexp.MustCompile(`(?i)<script[^>]*>`)
	scriptClose = regexp.MustCompile(`(?i)</script>`)
	styleOpen   = regexp.MustCompile(`(?i)<style[^>]*>`)
	styleClose  = regexp.MustCompile(`(?i)</style>`)
	headingTag  = regexp.MustCompile(`(?is)<h([1-6])[^>]*>(.*?)</h[1-6]>`)
	anyTag      = regexp.MustCompile(`<[^>]+>`)
	numericHex  = regexp.MustCompile(`(?i)&#x([0-9a-f]+);`)
	numericDec  = regexp.MustCompile(`&#(\d+);`)
)

var namedEntities = map[string]string{
	"&lt;": "<", "&gt;": ">", "&amp;": "&", "&quot;": "\"", "&apos;": "'", "&nbsp;": " ",
	"&#34;": "\"", "&#39;": "'",
}

// chunkHTML strips markup line by line per spec.md §4.2 "HTML".
func chunkHTML(text string, opts Options) []Draft {
	lines := splitLines(text)
	total := lineCount(text)

	var drafts []Draft
	var bufLines []string
	bufStart := 1
	bufChars := 0
	inScript, inStyle := false, false
	var headingStack []string

	flush := func(endLine int) {
		if len(bufLines) == 0 {
			return
		}
		content := strings.Join(bufLines, "\n")
		if strings.TrimSpace(content) != "" {
			hp := append([]string(nil), headingStack...)
			drafts = append(drafts, Draft{
				Kind:        tokenizer.KindHTML,
				StartLine:   bufStart,
				EndLine:     endLine,
				Content:     content,
				HeadingPath: hp,
			})
		}
		bufLines = nil
		bufChars = 0
	}

	appendLine := func(lineNo int, cleaned string) {
		if shouldDropHTMLLine(cleaned) {
			return
		}
		if len(bufLines) == 0 {
			bufStart = lineNo
		}
		bufLines = append(bufLines, cleaned)
		bufChars += len(cleaned) + 1
		if bufChars >= opts.ChunkMaxChars {
			flush(lineNo)
		}
	}

	for idx, line := range lines {
		lineNo := idx + 1

		if inScript {
			if scriptClose.MatchString(line) {
				inScript = false
			}
			continue
		}
		if inStyle {
			if styleClose.MatchString(line) {
				inStyle = false
			}
			continue
		}
		if scriptClose.MatchString(line) || styleClose.MatchString(line) {
			// A line carrying a closing tag is dropped whole, even when the
			// same line also opened the tag (inline <script>...</script>).
			continue
		}
		if scriptOpen.MatchString(line) {
			inScript = true
			continue
		}
		if styleOpen.MatchString(line) {
			inStyle = true
			continue
		}

		if m := headingTag.FindStringSubmatchIndex(line); m != nil {
			level := int(line[m[2]] - '0')
			heading := line[m[4]:m[5]]
			flush(lineNo - 1)
			if level-1 < len(headingStack) {
				headingStack = headingStack[:level-1]
			}
			headingStack = append(headingStack, cleanHTMLText(heading))
		}

		cleaned := cleanHTMLText(line)
		appendLine(lineNo, cleaned)
	}

	flush(maxInt(total, 1))
	return drafts
}

func cleanHTMLText(s string) string {
	s = anyTag.ReplaceAllString(s, " ")
	s = decodeHTMLEntities(s)
	s = collapseWhitespace(s)
	return strings.TrimSpace(s)
}

func decodeHTMLEntities(s string) string {
	for name, repl := range namedEntities {
		s = strings.ReplaceAll(s, name, repl)
	}
	s = numericHex.ReplaceAllStringFunc(s, func(match string) string {
		sub := numericHex.FindStringSubmatch(match)
		return decodeCodepoint(sub[1], 16)
	})
	s = numericDec.ReplaceAllStringFunc(s, func(match string) string {
		sub := numericDec.FindStringSubmatch(match)
		return decodeCodepoint(sub[1], 10)
	})
	return s
}

func decodeCodepoint(digits string, base int) string {
	var n int64
	for i := 0; i < len(digits); i++ {
		d := digits[i]
		var v int64
		switch {
		case d >= '0' && d <= '9':
			v = int64(d - '0')
		case d >= 'a' && d <= 'f':
			v = int64(d-'a') + 10
		case d >= 'A' && d <= 'F':
			v = int64(d-'A') + 10
		default:
			return "&#" + digits + ";"
		}
		n = n*int64(base) + v
	}
	return string(rune(n))
}

func collapseWhitespace(s string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range s {
		isSpace := r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == ' '
		if isSpace {
			if !lastSpace {
				b.WriteByte(' ')
			}
			lastSpace = true
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return b.String()
}

func shouldDropHTMLLine(s string) bool {
	if s == "" {
		return true
	}
	switch s {
	case "Prev", "Next", "Show more":
		return true
	}
	if len(s) <= 3 && isAllASCIIDigits(s) {
		return true
	}
	return false
}

func isAllASCIIDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
