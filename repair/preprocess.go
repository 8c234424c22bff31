package repair

import (
	"strings"

	"github.com/poiesic/jsonmend/scan"
)

// Preprocess strips non-JSON wrapping from text before any parse
// attempt: a UTF-8 BOM, markdown code fences, prose surrounding the
// outermost object, and trailing commas before a closer. It is pure and
// idempotent; when nothing matches it returns its input unchanged.
func Preprocess(text string) string {
	out := strings.TrimSpace(text)
	out = strings.TrimPrefix(out, "\uFEFF")
	out = stripFences(out)
	out = stripProse(out)
	out = stripTrailingCommas(out)
	return strings.TrimSpace(out)
}

// stripFences removes leading/trailing markdown fence lines. Repeated
// fence lines are all consumed so the result is stable under
// re-application.
func stripFences(text string) string {
	for {
		next := stripFenceOnce(text)
		if next == text {
			return text
		}
		text = next
	}
}

func stripFenceOnce(text string) string {
	text = strings.TrimSpace(text)
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && isFenceLine(lines[0]) {
		lines = lines[1:]
	}
	if len(lines) > 0 && isFenceLine(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// isFenceLine reports whether a line consists solely of a fence token,
// optionally followed by a language tag such as "json".
func isFenceLine(line string) bool {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "```") {
		return false
	}
	for _, r := range strings.TrimPrefix(line, "```") {
		if !isAlnumRune(r) {
			return false
		}
	}
	return true
}

func isAlnumRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// stripProse keeps only the outermost balanced object, dropping leading
// and trailing prose. When the object never closes (truncated input),
// only the leading prose is dropped so later passes can still repair the
// tail. Brace characters inside string literals are never treated as
// boundaries.
func stripProse(text string) string {
	start, end, ok := scan.OuterObject(text)
	if start < 0 {
		return text
	}
	if !ok {
		return text[start:]
	}
	return text[start:end]
}

// stripTrailingCommas removes commas that precede a closing brace or
// bracket, outside string literals only. The lookahead runs past
// whitespace and further commas so a whole run like ",,}" disappears in
// a single pass.
func stripTrailingCommas(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	c := scan.Cursor{}
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch == ',' && !c.InString() {
			j := i + 1
			for j < len(text) && (isJSONSpace(text[j]) || text[j] == ',') {
				j++
			}
			if j < len(text) && (text[j] == '}' || text[j] == ']') {
				c = c.Next(ch)
				continue
			}
		}
		b.WriteByte(ch)
		c = c.Next(ch)
	}
	return b.String()
}

func isJSONSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}
