package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/jsonmend/core"
	"github.com/poiesic/jsonmend/journal"
)

// RecordRepository implements journal.RecordRepository for BadgerDB.
type RecordRepository struct {
	backend     *Backend
	ownsBackend bool
}

var _ journal.RecordRepository = (*RecordRepository)(nil)

// NewRecordRepository creates a new RecordRepository on an open backend.
func NewRecordRepository(backend *Backend) (*RecordRepository, error) {
	return &RecordRepository{backend: backend}, nil
}

// NewRepository opens a BadgerDB database at path and returns a record
// repository backed by it. Closing the repository closes the database.
func NewRepository(path string) (journal.RecordRepository, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	repo, err := NewRecordRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	repo.ownsBackend = true
	return repo, nil
}

// Close releases repository resources. When the repository owns its
// backend it closes the database as well.
func (r *RecordRepository) Close() error {
	if r.ownsBackend {
		return r.backend.Close()
	}
	return nil
}

// WithTransaction delegates to the backend.
func (r *RecordRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddRecords adds one or more repair records to the journal.
// Records with Id=0 get a content-based ID derived from their input
// text, so re-journaling the same input overwrites the earlier record
// instead of accumulating duplicates.
func (r *RecordRepository) AddRecords(ctx context.Context, records ...*core.RepairRecord) ([]*core.RepairRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if record.Id == 0 {
				record.Id = core.IDFromContent(record.Input)
			}
			if record.InsertedAt.IsZero() {
				record.InsertedAt = time.Now().UTC()
			}

			key := makeRecordKey(record.Id)

			// Drop stale index entries when overwriting an earlier
			// record for the same input.
			old, err := r.readRecord(tx, key)
			if err != nil {
				return err
			}
			if old != nil {
				if err := r.deleteIndexEntries(tx, old); err != nil {
					return err
				}
			}

			value := journal.MarshalRepairRecord(record)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			dateKey := makeDateKey(record.InsertedAt, record.Id)
			if err := tx.Set(dateKey, journal.MarshalID(record.Id)); err != nil {
				return err
			}

			stageKey := makeStageKey(record.Stage, record.InsertedAt, record.Id)
			if err := tx.Set(stageKey, journal.MarshalID(record.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// GetRecord retrieves a single repair record by ID.
func (r *RecordRepository) GetRecord(ctx context.Context, id core.ID) (*core.RepairRecord, error) {
	var result *core.RepairRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRecordKey(id)
		var err error
		result, err = r.readRecord(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return journal.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetRecords retrieves multiple repair records by their IDs.
func (r *RecordRepository) GetRecords(ctx context.Context, ids ...core.ID) ([]*core.RepairRecord, error) {
	var result []*core.RepairRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeRecordKey(id)
			record, err := r.readRecord(tx, key)
			if err != nil {
				return err
			}
			if record != nil {
				result = append(result, record)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetRecordsByStage retrieves records that resolved at the given stage,
// most recent first.
func (r *RecordRepository) GetRecordsByStage(ctx context.Context, stage core.Stage, limit int) ([]*core.RepairRecord, error) {
	if limit <= 0 {
		return nil, journal.ErrInvalidQuery
	}

	var results []*core.RepairRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek to the largest possible key within this stage.
		startKey := makeStageKey(stage, maxIndexTime(), core.ID(^uint64(0)))
		prefix := makePartialStageKey(stage)

		count := 0
		for iter.Seek(startKey); iter.Valid() && count < limit; iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			var recordID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				recordID, err = journal.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			record, err := r.readRecord(tx, makeRecordKey(recordID))
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
				count++
			}
		}
		return nil
	}, false)

	return results, err
}

// GetRecordsByDateRange retrieves records with start <= InsertedAt < end,
// ordered by insertion time.
func (r *RecordRepository) GetRecordsByDateRange(ctx context.Context, start, end time.Time) ([]*core.RepairRecord, error) {
	if start.Equal(end) {
		end = start.Add(1 * time.Microsecond)
	}

	var results []*core.RepairRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialDateKey(start)
		endKey := makePartialDateKey(end)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if slices.Compare(key, endKey) > 0 {
				break
			}

			var recordID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				recordID, err = journal.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			record, err := r.readRecord(tx, makeRecordKey(recordID))
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)

	return results, err
}

// GetRecentRecords retrieves the N most recent repair records, ordered by
// insertion time descending.
func (r *RecordRepository) GetRecentRecords(ctx context.Context, limit int) ([]*core.RepairRecord, error) {
	if limit <= 0 {
		return nil, journal.ErrInvalidQuery
	}

	var results []*core.RepairRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		startKey := makePartialDateKey(maxIndexTime())
		prefix := []byte(repairRecordDatePrefix + ":")

		count := 0
		for iter.Seek(startKey); iter.Valid() && count < limit; iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			var recordID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				recordID, err = journal.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			record, err := r.readRecord(tx, makeRecordKey(recordID))
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
				count++
			}
		}
		return nil
	}, false)

	return results, err
}

// DeleteRecords removes repair records by their IDs.
func (r *RecordRepository) DeleteRecords(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeRecordKey(id)

			record, err := r.readRecord(tx, key)
			if err != nil {
				return err
			}
			if record == nil {
				return journal.ErrNotFound
			}

			if err := r.deleteIndexEntries(tx, record); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Helper methods

// readRecord reads a repair record from the transaction.
func (r *RecordRepository) readRecord(tx *badger.Txn, key []byte) (*core.RepairRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.RepairRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = journal.UnmarshalRepairRecord(val)
		return unmarshalErr
	})
	return record, err
}

// deleteIndexEntries removes the date and stage index entries for a record.
func (r *RecordRepository) deleteIndexEntries(tx *badger.Txn, record *core.RepairRecord) error {
	if err := tx.Delete(makeDateKey(record.InsertedAt, record.Id)); err != nil {
		return err
	}
	return tx.Delete(makeStageKey(record.Stage, record.InsertedAt, record.Id))
}

// maxIndexTime is the upper seek bound for reverse index scans.
func maxIndexTime() time.Time {
	return time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC)
}
