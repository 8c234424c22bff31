package journal

import (
	"context"
	"time"

	"github.com/poiesic/jsonmend/core"
)

// Repository provides common operations shared across all journal
// repositories. Implementations must be thread-safe and support
// concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the journal backend and releases resources.
	Close() error
}

// RecordRepository provides operations for managing repair records.
type RecordRepository interface {
	Repository
	// AddRecords adds one or more repair records to the journal.
	// For records with Id=0, derives a content-based ID from the input text.
	// Sets InsertedAt if not already set.
	// Returns the records with IDs and timestamps populated.
	AddRecords(ctx context.Context, records ...*core.RepairRecord) ([]*core.RepairRecord, error)

	// GetRecord retrieves a single repair record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetRecord(ctx context.Context, id core.ID) (*core.RepairRecord, error)

	// GetRecords retrieves multiple repair records by their IDs.
	// Returns only the records that exist (no error for missing records).
	GetRecords(ctx context.Context, ids ...core.ID) ([]*core.RepairRecord, error)

	// GetRecordsByStage retrieves records whose repair resolved at the
	// given stage, up to limit results, most recent first.
	GetRecordsByStage(ctx context.Context, stage core.Stage, limit int) ([]*core.RepairRecord, error)

	// GetRecordsByDateRange retrieves records within a time range.
	// Returns records where start <= InsertedAt < end, ordered by insertion time.
	GetRecordsByDateRange(ctx context.Context, start, end time.Time) ([]*core.RepairRecord, error)

	// GetRecentRecords retrieves the N most recent repair records,
	// ordered by insertion time descending.
	GetRecentRecords(ctx context.Context, limit int) ([]*core.RepairRecord, error)

	// DeleteRecords removes repair records by their IDs.
	// Also removes associated indices.
	// Returns ErrNotFound if any record doesn't exist.
	DeleteRecords(ctx context.Context, ids ...core.ID) error
}
