package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateRepairRecord(t *testing.T) {
	valid := func() *RepairRecord {
		return &RepairRecord{
			Input:      `{"title" "Quiz"}`,
			Output:     `{"title":"Quiz"}`,
			Stage:      StageTokenRepaired,
			InsertedAt: time.Now().UTC().Add(-time.Second),
		}
	}

	tests := []struct {
		name    string
		mutate  func(*RepairRecord)
		wantErr error
	}{
		{
			name:    "valid record",
			mutate:  func(r *RepairRecord) {},
			wantErr: nil,
		},
		{
			name:    "empty input",
			mutate:  func(r *RepairRecord) { r.Input = "" },
			wantErr: ErrEmptyInput,
		},
		{
			name:    "empty output",
			mutate:  func(r *RepairRecord) { r.Output = "" },
			wantErr: ErrEmptyOutput,
		},
		{
			name:    "invalid stage",
			mutate:  func(r *RepairRecord) { r.Stage = Stage(42) },
			wantErr: ErrInvalidStage,
		},
		{
			name:    "future timestamp",
			mutate:  func(r *RepairRecord) { r.InsertedAt = time.Now().Add(time.Hour) },
			wantErr: ErrInvalidTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := valid()
			tt.mutate(record)
			err := ValidateRepairRecord(record)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateRepairRecord() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRepairRecord() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidRepairRecord) {
				t.Errorf("ValidateRepairRecord() error %v does not wrap ErrInvalidRepairRecord", err)
			}
		})
	}
}

func TestValidateRepairRecord_Nil(t *testing.T) {
	err := ValidateRepairRecord(nil)
	if !errors.Is(err, ErrInvalidRepairRecord) {
		t.Errorf("ValidateRepairRecord(nil) error = %v, want ErrInvalidRepairRecord", err)
	}
}

func TestValidateShapeHint(t *testing.T) {
	tests := []struct {
		name    string
		hint    ShapeHint
		wantErr error
	}{
		{
			name:    "nil hint",
			hint:    nil,
			wantErr: nil,
		},
		{
			name:    "empty hint",
			hint:    ShapeHint{},
			wantErr: nil,
		},
		{
			name: "valid hint",
			hint: ShapeHint{
				"title":     FieldString,
				"questions": FieldArray,
				"count":     FieldNumber,
			},
			wantErr: nil,
		},
		{
			name:    "empty field name",
			hint:    ShapeHint{"": FieldString},
			wantErr: ErrEmptyFieldName,
		},
		{
			name:    "invalid kind",
			hint:    ShapeHint{"title": FieldKind(99)},
			wantErr: ErrInvalidFieldKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateShapeHint(tt.hint)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateShapeHint() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateShapeHint() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateStage(t *testing.T) {
	for _, stage := range []Stage{StageInitial, StagePreprocessed, StageTokenRepaired, StageStructural, StageFallback} {
		if err := ValidateStage(stage); err != nil {
			t.Errorf("ValidateStage(%v) unexpected error: %v", stage, err)
		}
	}
	if err := ValidateStage(Stage(0)); err == nil {
		t.Error("ValidateStage(0) expected error")
	}
	if err := ValidateStage(Stage(6)); err == nil {
		t.Error("ValidateStage(6) expected error")
	}
}

func TestIsValidTimestamp(t *testing.T) {
	if !IsValidTimestamp(time.Now().Add(-time.Minute)) {
		t.Error("IsValidTimestamp() rejected a past timestamp")
	}
	if IsValidTimestamp(time.Now().Add(time.Hour)) {
		t.Error("IsValidTimestamp() accepted a future timestamp")
	}
}
