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


// Package scan provides string-state-aware scanning primitives for
// near-JSON text.
//
// Every repair pass needs to know whether a given byte position lies
// inside a double-quoted string literal, so that braces, colons, commas
// and quotes that legitimately appear inside string values are never
// treated as structural. The scanner tracks that state with a small
// enumerated state machine (Default, InString, InStringEscaped) rather
// than regular expressions, guaranteeing linear-time behavior.
//
// Cursor is a value type: advancing returns a fresh cursor instead of
// mutating shared state, so passes that compose scans cannot observe
// stale positions. Passes that need string-state for many adjacent
// offsets should advance one cursor forward rather than calling
// InsideString repeatedly, which rescans from the start of the text.
//
// Structural characters in JSON are all ASCII, so the scanner operates
// on bytes; multi-byte UTF-8 sequences pass through the Default state
// untouched.
package scan
