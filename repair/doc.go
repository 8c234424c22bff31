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


// Package repair implements the lenient JSON repair engine for LLM
// completions.
//
// Model output that is supposed to be JSON frequently arrives broken:
// wrapped in markdown fences or prose, with unquoted property names,
// missing colons or commas, or cut off mid-object by a token limit.
// This package turns such text into a usable structured value, or a
// well-defined placeholder, without ever raising.
//
// # Pipeline
//
// The Pipeline runs a fixed, ordered fallback chain, short-circuiting
// on the first stage whose output parses strictly:
//
//  1. Strict parse of the raw input.
//  2. Preprocess: strip fences, surrounding prose, trailing commas.
//  3. FixTokens: quote bare keys, insert missing colons and commas.
//  4. TruncateAndClose: drop everything after the last complete
//     top-level pair and balance the brackets.
//  5. SynthesizeFallback: build a placeholder object that cannot fail.
//
// The chain is strictly linear, terminates in at most five parse
// attempts, and each stage produces a new candidate string rather than
// mutating its input. Every candidate is recorded as a
// core.RepairAttempt so callers can log why a fallback was produced.
//
// # Guarantees
//
//   - Repair never panics and never returns an error; the worst case
//     is a fallback object carrying marker fields and a reason.
//   - The returned value always re-serializes as strictly valid JSON.
//   - Bytes inside string literals are never rewritten, so values that
//     legitimately contain braces, colons or commas survive untouched.
//   - Each call is a pure computation over its own input; concurrent
//     callers need no coordination.
package repair
