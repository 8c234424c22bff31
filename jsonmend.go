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


package jsonmend

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/poiesic/jsonmend/ai"
	"github.com/poiesic/jsonmend/ai/openai"
	"github.com/poiesic/jsonmend/batch"
	"github.com/poiesic/jsonmend/core"
	"github.com/poiesic/jsonmend/journal"
	"github.com/poiesic/jsonmend/journal/badger"
	"github.com/poiesic/jsonmend/repair"
)

// ErrNoCompleter is returned by Generate when the mender was built
// without a completion model.
var ErrNoCompleter = errors.New("no completer configured")

// Mender is the top-level entry point: it repairs near-JSON text,
// optionally journals every repair, and can drive a language model to
// produce the text in the first place.
type Mender struct {
	pipeline  *repair.Pipeline
	backend   *badger.Backend
	records   journal.RecordRepository
	completer ai.Completer
	logger    *slog.Logger
}

// MenderOption configures a Mender.
type MenderOption func(*menderOptions)

type menderOptions struct {
	journalPath string
	inMemory    bool
	aiConfig    *ai.Config
	completer   ai.Completer
	monitor     repair.Monitor
	logger      *slog.Logger
}

// WithJournalPath enables the repair journal, backed by a BadgerDB
// database at the given path.
func WithJournalPath(path string) MenderOption {
	return func(o *menderOptions) {
		o.journalPath = path
	}
}

// WithInMemoryJournal enables an in-memory repair journal.
// Intended for tests and short-lived processes.
func WithInMemoryJournal() MenderOption {
	return func(o *menderOptions) {
		o.inMemory = true
	}
}

// WithAIConfig enables Generate using an OpenAI-compatible completer
// built from the given configuration.
func WithAIConfig(config *ai.Config) MenderOption {
	return func(o *menderOptions) {
		o.aiConfig = config
	}
}

// WithCompleter enables Generate using the given completer.
// Takes precedence over WithAIConfig.
func WithCompleter(completer ai.Completer) MenderOption {
	return func(o *menderOptions) {
		o.completer = completer
	}
}

// WithMonitor sets a monitor that observes every repair stage.
func WithMonitor(monitor repair.Monitor) MenderOption {
	return func(o *menderOptions) {
		o.monitor = monitor
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) MenderOption {
	return func(o *menderOptions) {
		o.logger = logger
	}
}

// NewMender creates a Mender. With no options it repairs in memory only:
// no journal, no model.
func NewMender(opts ...MenderOption) (*Mender, error) {
	options := &menderOptions{}
	for _, opt := range opts {
		opt(options)
	}

	logger := options.logger
	if logger == nil {
		logger = slog.Default()
	}

	var pipelineOpts []repair.Option
	if options.logger != nil {
		pipelineOpts = append(pipelineOpts, repair.WithLogger(options.logger))
	}
	if options.monitor != nil {
		pipelineOpts = append(pipelineOpts, repair.WithMonitor(options.monitor))
	}
	pipeline, err := repair.NewPipeline(pipelineOpts...)
	if err != nil {
		return nil, err
	}

	m := &Mender{
		pipeline: pipeline,
		logger:   logger,
	}

	if options.journalPath != "" || options.inMemory {
		backend, err := badger.OpenBackend(options.journalPath, options.inMemory)
		if err != nil {
			return nil, err
		}
		records, err := badger.NewRecordRepository(backend)
		if err != nil {
			backend.Close()
			return nil, err
		}
		m.backend = backend
		m.records = records
	}

	switch {
	case options.completer != nil:
		m.completer = options.completer
	case options.aiConfig != nil:
		completer, err := openai.NewCompleter(options.aiConfig)
		if err != nil {
			m.Close()
			return nil, err
		}
		m.completer = completer
	}

	return m, nil
}

// Mend repairs text into a strictly valid JSON value. It never fails:
// when no repair converges the result is a synthesized fallback object
// marked with error and provider fields, shaped by hint when given.
func (m *Mender) Mend(ctx context.Context, text string, hint core.ShapeHint) *core.ParsedResult {
	result, _ := m.MendWithAttempts(ctx, text, hint)
	return result
}

// MendWithAttempts is Mend plus the ordered audit trail of every
// candidate the pipeline tried.
func (m *Mender) MendWithAttempts(ctx context.Context, text string, hint core.ShapeHint) (*core.ParsedResult, []core.RepairAttempt) {
	input := core.RepairInput{Text: text, Hint: hint}
	result, attempts := m.pipeline.Repair(input)

	if m.records != nil {
		m.journalRepair(ctx, input, result, attempts)
	}
	return result, attempts
}

// Generate asks the completion model for JSON and mends whatever comes
// back. A transport failure is returned as an error; a malformed
// completion is not, it goes through the repair chain like any other
// input.
func (m *Mender) Generate(ctx context.Context, system, user string, hint core.ShapeHint) (*core.ParsedResult, error) {
	if m.completer == nil {
		return nil, ErrNoCompleter
	}

	raw, err := m.completer.Complete(ctx, system, user)
	if err != nil {
		return nil, err
	}

	return m.Mend(ctx, raw, hint), nil
}

// RecordRepository returns the repair journal, or nil when the mender
// was built without one.
func (m *Mender) RecordRepository() journal.RecordRepository {
	return m.records
}

// NewBatchPipeline creates a batch pipeline sharing this mender's repair
// chain and journal.
func (m *Mender) NewBatchPipeline(opts ...batch.Option) (*batch.Pipeline, error) {
	if m.records != nil {
		opts = append([]batch.Option{batch.WithJournal(m.records)}, opts...)
	}
	return batch.NewPipeline(m.pipeline, opts...)
}

// journalRepair persists one repair outcome. Failures are logged only.
func (m *Mender) journalRepair(ctx context.Context, input core.RepairInput, result *core.ParsedResult, attempts []core.RepairAttempt) {
	output, err := json.Marshal(result.Value)
	if err != nil {
		m.logger.Error("error marshaling repair output for journal", "err", err)
		return
	}

	record := &core.RepairRecord{
		Input:    input.Text,
		Output:   string(output),
		Stage:    result.Stage,
		Reason:   result.Reason,
		Attempts: attempts,
	}
	if _, err := m.records.AddRecords(ctx, record); err != nil {
		m.logger.Error("error journaling repair record", "err", err)
	}
}

// Close releases the journal, when one was opened.
func (m *Mender) Close() error {
	if m.records != nil {
		if err := m.records.Close(); err != nil {
			m.logger.Error("error closing record repository", "err", err)
			return err
		}
	}
	if m.backend != nil {
		if err := m.backend.Close(); err != nil {
			m.logger.Error("error closing journal backend", "err", err)
			return err
		}
	}
	return nil
}
