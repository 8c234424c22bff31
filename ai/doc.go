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


// Package ai provides abstractions for the language-model services that
// produce the near-JSON text jsonmend repairs.
//
// The package defines the Completer interface for requesting structured
// completions from a chat model. It follows the dependency inversion
// principle: the repair engine depends on the abstraction, not on any
// concrete client.
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewCompleter) return INTERFACE types to
// enforce abstraction and prevent accidental coupling to concrete
// implementations:
//
//	completer, err := openai.NewCompleter(config)  // returns ai.Completer
//
// Test utility constructors (mock.NewMockCompleter) return CONCRETE types
// to enable test assertions and behavior injection via the mock's public
// methods (CallCount, CompleteFunc, Reset).
//
// # Usage Example
//
//	config := ai.NewConfig(
//	    ai.WithHost("http://localhost:11434"),  // /v1 added automatically
//	    ai.WithModel("qwen2.5:3b"),
//	)
//	completer, err := openai.NewCompleter(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	raw, err := completer.Complete(ctx, systemPrompt, userPrompt)
package ai
