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


package core

import (
	"fmt"
	"time"
)

// ValidateRepairRecord validates a RepairRecord according to domain rules.
//
// Validation rules:
//   - Input must not be empty
//   - Output must not be empty (a repair always yields serializable JSON)
//   - Stage must be valid
//   - InsertedAt must not be in the future
//
// NOT validated:
//   - Attempts (may be empty when diagnostics were not requested)
//   - Reason (empty on success records)
//   - ID (0 is valid before journaling assigns a content ID)
func ValidateRepairRecord(record *RepairRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRepairRecord)
	}

	if record.Input == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRepairRecord, ErrEmptyInput)
	}

	if record.Output == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRepairRecord, ErrEmptyOutput)
	}

	if err := ValidateStage(record.Stage); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRepairRecord, err)
	}

	if !IsValidTimestamp(record.InsertedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidRepairRecord, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateShapeHint validates a ShapeHint according to domain rules.
//
// Validation rules:
//   - Field names must not be empty
//   - Field kinds must be valid
//
// A nil or empty hint is valid: it yields a minimal fallback object.
func ValidateShapeHint(hint ShapeHint) error {
	for name, kind := range hint {
		if name == "" {
			return fmt.Errorf("%w: %w", ErrInvalidShapeHint, ErrEmptyFieldName)
		}
		if err := ValidateFieldKind(kind); err != nil {
			return fmt.Errorf("%w: field %q: %w", ErrInvalidShapeHint, name, err)
		}
	}
	return nil
}

// ValidateStage validates that a Stage has a valid value.
func ValidateStage(stage Stage) error {
	if stage < StageInitial || stage > StageFallback {
		return fmt.Errorf("%w: value %d", ErrInvalidStage, stage)
	}
	return nil
}

// ValidateFieldKind validates that a FieldKind has a valid value.
func ValidateFieldKind(kind FieldKind) error {
	if kind < FieldString || kind > FieldBool {
		return fmt.Errorf("%w: value %d", ErrInvalidFieldKind, kind)
	}
	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
