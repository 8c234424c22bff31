// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package scan

// State is the string-literal state at a scan position.
type State int

const (
	// StateDefault means the position is outside any string literal.
	StateDefault State = iota
	// StateInString means the position is inside a double-quoted string.
	StateInString
	// StateInStringEscaped means the position is inside a string,
	// immediately after an unconsumed backslash.
	StateInStringEscaped
)

// Cursor is an immutable scan position: a byte offset plus the string
// state at that offset. Advancing returns a new cursor value.
type Cursor struct {
	Pos   int
	State State
}

// Next returns the cursor advanced over ch.
func (c Cursor) Next(ch byte) Cursor {
	switch c.State {
	case StateInString:
		switch ch {
		case '\\':
			c.State = StateInStringEscaped
		case '"':
			c.State = StateDefault
		}
	case StateInStringEscaped:
		// The escaped character is consumed whatever it is, so \" does
		// not terminate the string and \\ does not escape what follows.
		c.State = StateInString
	default:
		if ch == '"' {
			c.State = StateInString
		}
	}
	c.Pos++
	return c
}

// InString reports whether the cursor is inside a string literal.
func (c Cursor) InString() bool {
	return c.State != StateDefault
}

// InsideString reports whether offset lies inside a double-quoted string
// literal in text, accounting for escape sequences. It scans from the
// start of text, so the cost is O(offset) per call.
func InsideString(text string, offset int) bool {
	c := Cursor{}
	for i := 0; i < offset && i < len(text); i++ {
		c = c.Next(text[i])
	}
	return c.InString()
}

// Balance returns the unmatched open brackets of text, in the order they
// were opened. Brackets inside string literals are ignored. Stray closers
// that match nothing are also ignored.
func Balance(text string) []byte {
	var stack []byte
	c := Cursor{}
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if !c.InString() {
			switch ch {
			case '{', '[':
				stack = append(stack, ch)
			case '}':
				if len(stack) > 0 && stack[len(stack)-1] == '{' {
					stack = stack[:len(stack)-1]
				}
			case ']':
				if len(stack) > 0 && stack[len(stack)-1] == '[' {
					stack = stack[:len(stack)-1]
				}
			}
		}
		c = c.Next(ch)
	}
	return stack
}

// Closers returns the closing sequence that balances the given unmatched
// openers, in reverse-open order.
func Closers(openers []byte) string {
	closers := make([]byte, len(openers))
	for i, opener := range openers {
		if opener == '{' {
			closers[len(openers)-1-i] = '}'
		} else {
			closers[len(openers)-1-i] = ']'
		}
	}
	return string(closers)
}

// OuterObject locates the outermost balanced JSON object in text,
// returning the byte offsets of its opening brace and one past its
// closing brace. Braces inside string literals are ignored. ok is false
// when no opening brace exists or the object never closes.
func OuterObject(text string) (start, end int, ok bool) {
	start = -1
	depth := 0
	c := Cursor{}
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if !c.InString() {
			switch ch {
			case '{':
				if start < 0 {
					start = i
				}
				depth++
			case '}':
				if start >= 0 {
					depth--
					if depth == 0 {
						return start, i + 1, true
					}
				}
			}
		}
		c = c.Next(ch)
	}
	return start, len(text), false
}
