package batch

import (
	"context"
	"encoding/json"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/jsonmend/core"
	"github.com/poiesic/jsonmend/journal"
	"github.com/poiesic/jsonmend/repair"
)

// Pipeline runs repairs over batches of inputs using a worker pool.
type Pipeline struct {
	repairer *repair.Pipeline
	records  journal.RecordRepository
	pool     *ants.Pool
	progress *ProgressTracker
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

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

// WithJournal sets a record repository that every repair is journaled to.
// Journaling errors are logged and do not fail the batch.
func WithJournal(records journal.RecordRepository) Option {
	return func(p *Pipeline) error {
		p.records = records
		return nil
	}
}

// WithProgress sets a progress tracker updated as inputs complete.
func WithProgress(progress *ProgressTracker) Option {
	return func(p *Pipeline) error {
		p.progress = progress
		return nil
	}
}

// NewPipeline creates a new batch pipeline around a repair pipeline.
func NewPipeline(repairer *repair.Pipeline, opts ...Option) (*Pipeline, error) {
	if repairer == nil {
		return nil, ErrRepairPipelineRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repairer: repairer,
		pool:     pool,
		logger:   slog.Default().With("component", "batch-pipeline"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Process repairs every input concurrently and returns the results in
// input order. Repair is total, so every input yields a result; a nil
// slice comes back only for an empty batch.
func (p *Pipeline) Process(ctx context.Context, inputs []core.RepairInput) []*core.ParsedResult {
	if len(inputs) == 0 {
		return nil
	}

	if p.progress != nil {
		p.progress.Start()
	}

	results := make([]*core.ParsedResult, len(inputs))
	var wg sync.WaitGroup

	for i, input := range inputs {
		i, input := i, input
		wg.Add(1)
		task := func() {
			defer wg.Done()
			result, attempts := p.repairer.Repair(input)
			results[i] = result

			if p.records != nil {
				p.journalRepair(ctx, input, result, attempts)
			}
			if p.progress != nil {
				p.progress.Increment(1)
			}
		}
		if err := p.pool.Submit(task); err != nil {
			// Pool saturated or released; do the work on the caller.
			p.logger.Warn("worker pool submit failed, running inline", "err", err)
			task()
		}
	}

	wg.Wait()

	if p.progress != nil {
		p.progress.Finish()
	}

	return results
}

// journalRepair persists one repair outcome. Failures are logged only.
func (p *Pipeline) journalRepair(ctx context.Context, input core.RepairInput, result *core.ParsedResult, attempts []core.RepairAttempt) {
	output, err := json.Marshal(result.Value)
	if err != nil {
		p.logger.Error("error marshaling repair output for journal", "err", err)
		return
	}

	record := &core.RepairRecord{
		Input:    input.Text,
		Output:   string(output),
		Stage:    result.Stage,
		Reason:   result.Reason,
		Attempts: attempts,
	}
	if _, err := p.records.AddRecords(ctx, record); err != nil {
		p.logger.Error("error journaling repair record", "err", err)
	}
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
