package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/jsonmend/core"
)

// Key prefixes for different data types
const (
	repairRecordPrefix      = "reprec"
	repairRecordDatePrefix  = "reprecd"
	repairRecordStagePrefix = "reprecs"
)

// makeRecordKey generates a key for a repair record by ID.
func makeRecordKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", repairRecordPrefix, id))
}

// makeDateKey generates a composite key for the insertion-time index.
// Format: prefix:timestamp:id
func makeDateKey(timestamp time.Time, id core.ID) []byte {
	prefix := repairRecordDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialDateKey generates a partial key for date range queries.
// Format: prefix:timestamp
func makePartialDateKey(timestamp time.Time) []byte {
	prefix := repairRecordDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for timestamp
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	return buf
}

// makeStageKey generates a composite key for the stage index.
// Format: prefix:stage:timestamp:id
func makeStageKey(stage core.Stage, timestamp time.Time, id core.ID) []byte {
	prefix := repairRecordStagePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 24 // 8 bytes each for stage, timestamp and ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(stage))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialStageKey generates a partial key for stage queries.
// Format: prefix:stage
func makePartialStageKey(stage core.Stage) []byte {
	prefix := repairRecordStagePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for stage
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(stage))
	return buf
}
