package repair

import (
	"strings"

	"github.com/poiesic/jsonmend/scan"
)

// TruncateAndClose repairs truncated or structurally broken text by
// discarding everything after the last syntactically complete
// "key": value pair of the outermost object, then appending closers for
// whatever brackets remain open at the cut. errOffset, when >= 0,
// bounds the search to the prefix the strict parser accepted before
// failing; pass -1 when no offset is known.
//
// When no complete top-level pair exists but the text does open an
// object (for example it is cut inside the very first key), the result
// is the empty object. Text that never opens an object is returned
// unchanged: truncation repair has nothing to say about it, and the
// caller's fallback stage handles it instead. The pass is deterministic
// and never fails.
func TruncateAndClose(text string, errOffset int) string {
	trimmedLeft := strings.TrimLeft(text, " \t\r\n")
	leading := len(text) - len(trimmedLeft)
	trimmed := strings.TrimRight(trimmedLeft, " \t\r\n")

	limit := len(trimmed)
	if errOffset >= 0 {
		// The offset was reported against the untrimmed text.
		if adjusted := errOffset - leading; adjusted >= 0 && adjusted < limit {
			limit = adjusted
		}
	}

	cut, ok := lastTopLevelCut(trimmed, limit)
	if !ok {
		if strings.HasPrefix(trimmed, "{") {
			return "{}"
		}
		return text
	}
	kept := strings.TrimRight(trimmed[:cut], " \t\r\n")
	return kept + scan.Closers(scan.Balance(kept))
}

// lastTopLevelCut scans text up to limit with a pushdown tokenizer and
// returns the position just after the last value that completed a
// top-level "key": value pair. Nested structures count only once their
// brackets have balanced back to the outermost object; an unterminated
// string or unbalanced bracket run after the cut is exactly what the
// caller discards.
func lastTopLevelCut(text string, limit int) (cut int, found bool) {
	var stack []byte
	expect := expectValue
	i := 0

	top := func() byte {
		if len(stack) == 0 {
			return 0
		}
		return stack[len(stack)-1]
	}
	completeValue := func(pos int) {
		if len(stack) == 1 && stack[0] == '{' {
			cut = pos
			found = true
		}
		if len(stack) == 0 {
			expect = expectValue
		} else {
			expect = expectCommaOrEnd
		}
	}

	for i < limit {
		ch := text[i]

		if isJSONSpace(ch) {
			i++
			continue
		}

		switch expect {
		case expectKey:
			switch {
			case ch == '"':
				end, closed := boundedStringEnd(text, i, limit)
				if !closed {
					return cut, found
				}
				i = end
				expect = expectColon
			case ch == '}':
				stack = stack[:len(stack)-1]
				i++
				completeValue(i)
			default:
				i++
			}

		case expectColon:
			if ch == ':' {
				expect = expectValue
			}
			i++

		case expectValue:
			switch {
			case ch == '"':
				end, closed := boundedStringEnd(text, i, limit)
				if !closed {
					return cut, found
				}
				i = end
				completeValue(i)
			case ch == '{':
				stack = append(stack, ch)
				i++
				expect = expectKey
			case ch == '[':
				stack = append(stack, ch)
				i++
			case ch == ']' && top() == '[':
				stack = stack[:len(stack)-1]
				i++
				completeValue(i)
			case isNumberStart(ch):
				end := i
				for end < limit && isNumberByte(text[end]) {
					end++
				}
				i = end
				completeValue(i)
			case isLetterByte(ch):
				end := i
				for end < limit && isLetterByte(text[end]) {
					end++
				}
				word := text[i:end]
				i = end
				if word != "true" && word != "false" && word != "null" {
					// A cut-off or garbled literal is not a complete value.
					return cut, found
				}
				completeValue(i)
			default:
				i++
			}

		case expectCommaOrEnd:
			switch {
			case ch == ',':
				i++
				if top() == '{' {
					expect = expectKey
				} else {
					expect = expectValue
				}
			case ch == '}' && top() == '{':
				stack = stack[:len(stack)-1]
				i++
				completeValue(i)
			case ch == ']' && top() == '[':
				stack = stack[:len(stack)-1]
				i++
				completeValue(i)
			default:
				i++
			}
		}
	}

	return cut, found
}

// boundedStringEnd is scanStringEnd restricted to the search limit,
// additionally reporting whether the literal actually closed.
func boundedStringEnd(text string, i, limit int) (end int, closed bool) {
	i++ // opening quote
	for i < limit {
		switch text[i] {
		case '\\':
			i += 2
		case '"':
			return i + 1, true
		default:
			i++
		}
	}
	return limit, false
}
