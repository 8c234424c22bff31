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


package repair

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/jsonmend/core"
)

// Pipeline runs the ordered repair chain over near-JSON text.
// A Pipeline holds no per-call state and is safe for concurrent use.
type Pipeline struct {
	monitor Monitor
	logger  *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithMonitor sets a monitor that observes every stage attempt.
// Default is a no-op monitor.
func WithMonitor(monitor Monitor) Option {
	return func(p *Pipeline) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		p.monitor = monitor
		return nil
	}
}

// NewPipeline creates a repair pipeline.
func NewPipeline(opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		monitor: &noopMonitor{},
		logger:  slog.Default().With("component", "repair-pipeline"),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// pipelineStage is one entry in the ordered fallback chain: a stage
// identifier plus a pure text transform.
type pipelineStage struct {
	id    core.Stage
	apply func(text string, lastErr *ErrorInfo) string
}

// stages is the fixed chain. StageInitial passes the raw text through so
// already-valid input short-circuits on the first parse attempt.
var stages = []pipelineStage{
	{core.StageInitial, func(t string, _ *ErrorInfo) string { return t }},
	{core.StagePreprocessed, func(t string, _ *ErrorInfo) string { return Preprocess(t) }},
	{core.StageTokenRepaired, func(t string, _ *ErrorInfo) string { return FixTokens(t) }},
	{core.StageStructural, func(t string, lastErr *ErrorInfo) string {
		offset := -1
		if lastErr != nil {
			offset = lastErr.Offset
		}
		return TruncateAndClose(t, offset)
	}},
}

// Repair runs the fallback chain on input and returns the first
// strictly-parseable candidate, or a synthesized fallback when no stage
// converges. The returned attempt list is the ordered audit trail of
// every candidate tried.
//
// Repair never panics and never returns an unparseable value: the
// fallback stage cannot fail. Empty or whitespace-only input is routed
// straight to the fallback.
func (p *Pipeline) Repair(input core.RepairInput) (*core.ParsedResult, []core.RepairAttempt) {
	p.monitor.Start(input)

	attempts := make([]core.RepairAttempt, 0, len(stages)+1)

	if strings.TrimSpace(input.Text) == "" {
		return p.fallback(input, "empty input", attempts)
	}

	text := input.Text
	var lastErr *ErrorInfo
	for _, s := range stages {
		text = s.apply(text, lastErr)

		value, errInfo := tryStrictParse(text)
		attempt := core.RepairAttempt{Stage: s.id, Candidate: text, Parsed: errInfo == nil}
		attempts = append(attempts, attempt)
		p.monitor.StageResult(attempt)

		if errInfo == nil {
			p.logger.Debug("repair succeeded", "stage", s.id.String(), "length", len(text))
			result := core.Success(value, s.id)
			p.monitor.Finish(result)
			return result, attempts
		}
		lastErr = errInfo
	}

	reason := fmt.Sprintf("no repair stage produced valid JSON: %s", lastErr.Message)
	return p.fallback(input, reason, attempts)
}

// fallback is the terminal stage; it cannot fail.
func (p *Pipeline) fallback(input core.RepairInput, reason string, attempts []core.RepairAttempt) (*core.ParsedResult, []core.RepairAttempt) {
	obj := SynthesizeFallback(input.Text, reason, input.Hint)

	// The fallback object is built from fixed templates; marshaling it
	// cannot fail.
	candidate, _ := json.Marshal(obj)
	attempt := core.RepairAttempt{Stage: core.StageFallback, Candidate: string(candidate), Parsed: true}
	attempts = append(attempts, attempt)
	p.monitor.StageResult(attempt)

	p.logger.Debug("repair fell back", "reason", reason, "input_length", len(input.Text))
	result := core.FallbackResult(obj, reason)
	p.monitor.Finish(result)
	return result, attempts
}
