package repair

import (
	"strings"
)

// tokenExpect tracks what the token scanner expects next at the current
// nesting level.
type tokenExpect int

const (
	expectValue tokenExpect = iota
	expectKey
	expectColon
	expectCommaOrEnd
)

// FixTokens rewrites common token-level defects of LLM near-JSON in a
// single left-to-right scan:
//
//   - bare property names (identifier runs, hyphens included) are
//     wrapped in double quotes
//   - property names missing only their opening quote are completed
//   - a missing colon between a quoted key and its value is inserted
//   - a missing comma between adjacent key/value pairs is inserted
//
// String literals are copied verbatim, so content inside strings is
// never rewritten. The pass is applied once per orchestration attempt
// and never fails; when no patterns match it returns its input
// unchanged.
func FixTokens(text string) string {
	var out strings.Builder
	out.Grow(len(text) + 16)

	var stack []byte
	expect := expectValue
	n := len(text)
	i := 0

	top := func() byte {
		if len(stack) == 0 {
			return 0
		}
		return stack[len(stack)-1]
	}
	pop := func(opener byte) {
		if top() == opener {
			stack = stack[:len(stack)-1]
		}
	}
	completeValue := func() {
		if len(stack) == 0 {
			expect = expectValue
		} else {
			expect = expectCommaOrEnd
		}
	}

	for i < n {
		ch := text[i]

		if isJSONSpace(ch) {
			out.WriteByte(ch)
			i++
			continue
		}

		switch expect {
		case expectKey:
			switch {
			case ch == '"':
				end := scanStringEnd(text, i)
				out.WriteString(text[i:end])
				i = end
				expect = expectColon
			case ch == '}':
				out.WriteByte(ch)
				pop('{')
				i++
				completeValue()
			case isIdentByte(ch):
				run, end := scanBareRun(text, i)
				next := end
				for next < n && isJSONSpace(text[next]) {
					next++
				}
				switch {
				case next < n && text[next] == ':':
					// Bare key: wrap the run in double quotes.
					out.WriteByte('"')
					out.WriteString(run)
					out.WriteByte('"')
					i = end
					expect = expectColon
				case next+1 < n && text[next] == '"' && text[next+1] == ':':
					// Key missing only its opening quote: reuse the
					// closing quote already present in the input.
					out.WriteByte('"')
					out.WriteString(run)
					out.WriteByte('"')
					i = next + 1
					expect = expectColon
				default:
					// Not a recognizable key; copy and move on.
					out.WriteString(text[i:end])
					i = end
				}
			default:
				out.WriteByte(ch)
				i++
			}

		case expectColon:
			switch {
			case ch == ':':
				out.WriteByte(ch)
				i++
				expect = expectValue
			case isValueStart(ch):
				// Missing colon between a key and its value; reprocess
				// ch as the value.
				out.WriteByte(':')
				expect = expectValue
			default:
				out.WriteByte(ch)
				i++
			}

		case expectValue:
			switch {
			case ch == '"':
				end := scanStringEnd(text, i)
				out.WriteString(text[i:end])
				i = end
				completeValue()
			case ch == '{':
				stack = append(stack, ch)
				out.WriteByte(ch)
				i++
				expect = expectKey
			case ch == '[':
				stack = append(stack, ch)
				out.WriteByte(ch)
				i++
				expect = expectValue
			case ch == ']':
				// Empty array
				out.WriteByte(ch)
				pop('[')
				i++
				completeValue()
			case isNumberStart(ch):
				end := i
				for end < n && isNumberByte(text[end]) {
					end++
				}
				out.WriteString(text[i:end])
				i = end
				completeValue()
			case isLetterByte(ch):
				// true, false, null -- or junk we cannot mend
				end := i
				for end < n && isLetterByte(text[end]) {
					end++
				}
				out.WriteString(text[i:end])
				i = end
				completeValue()
			default:
				out.WriteByte(ch)
				i++
			}

		case expectCommaOrEnd:
			switch {
			case ch == ',':
				out.WriteByte(ch)
				i++
				if top() == '{' {
					expect = expectKey
				} else {
					expect = expectValue
				}
			case ch == '}':
				out.WriteByte(ch)
				pop('{')
				i++
				completeValue()
			case ch == ']':
				out.WriteByte(ch)
				pop('[')
				i++
				completeValue()
			case top() == '{' && (ch == '"' || isIdentByte(ch)):
				// Missing comma between adjacent pairs; reprocess ch as
				// the next key.
				out.WriteByte(',')
				expect = expectKey
			default:
				out.WriteByte(ch)
				i++
			}
		}
	}

	return out.String()
}

// scanStringEnd returns the index one past the closing quote of the
// string literal opening at i, or len(text) when the literal never
// terminates.
func scanStringEnd(text string, i int) int {
	i++ // opening quote
	for i < len(text) {
		switch text[i] {
		case '\\':
			i += 2
		case '"':
			return i + 1
		default:
			i++
		}
	}
	return len(text)
}

// scanBareRun consumes an unquoted key candidate starting at i:
// identifier bytes plus interior spaces, with trailing spaces excluded
// from the run.
func scanBareRun(text string, i int) (run string, end int) {
	end = i
	for end < len(text) && (isIdentByte(text[end]) || text[end] == ' ') {
		end++
	}
	run = strings.TrimRight(text[i:end], " ")
	return run, i + len(run)
}

func isIdentByte(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') || ch == '_' || ch == '-'
}

func isLetterByte(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isNumberStart(ch byte) bool {
	return (ch >= '0' && ch <= '9') || ch == '-'
}

func isNumberByte(ch byte) bool {
	return (ch >= '0' && ch <= '9') || ch == '-' || ch == '+' || ch == '.' || ch == 'e' || ch == 'E'
}

// isValueStart reports whether ch can begin a JSON value.
func isValueStart(ch byte) bool {
	return ch == '"' || ch == '{' || ch == '[' || ch == 't' || ch == 'f' || ch == 'n' || isNumberStart(ch)
}
