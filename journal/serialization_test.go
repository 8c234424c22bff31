package journal

import (
	"testing"
	"time"

	"github.com/poiesic/jsonmend/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent(`{"broken": `)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalRepairRecord(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name   string
		record *core.RepairRecord
	}{
		{
			name: "minimal record",
			record: &core.RepairRecord{
				Id:         core.ID(1),
				Input:      `{"a": 1`,
				Output:     `{"a": 1}`,
				Stage:      core.StageStructural,
				InsertedAt: now,
			},
		},
		{
			name: "record with attempts",
			record: &core.RepairRecord{
				Id:     core.ID(2),
				Input:  "```json\n{title: \"Quiz\"}\n```",
				Output: `{"title": "Quiz"}`,
				Stage:  core.StageTokenRepaired,
				Attempts: []core.RepairAttempt{
					{Stage: core.StageInitial, Candidate: "```json\n{title: \"Quiz\"}\n```", Parsed: false},
					{Stage: core.StagePreprocessed, Candidate: `{title: "Quiz"}`, Parsed: false},
					{Stage: core.StageTokenRepaired, Candidate: `{"title": "Quiz"}`, Parsed: true},
				},
				InsertedAt: now,
			},
		},
		{
			name: "fallback record with reason",
			record: &core.RepairRecord{
				Id:     core.ID(3),
				Input:  "total garbage",
				Output: `{"error":"no repair stage produced valid JSON"}`,
				Stage:  core.StageFallback,
				Reason: "no repair stage produced valid JSON: invalid character 'o'",
				Attempts: []core.RepairAttempt{
					{Stage: core.StageInitial, Candidate: "total garbage", Parsed: false},
					{Stage: core.StageFallback, Candidate: `{"error":"..."}`, Parsed: true},
				},
				InsertedAt: now,
			},
		},
		{
			name: "record with multibyte input",
			record: &core.RepairRecord{
				Id:         core.ID(4),
				Input:      `{"título": "Química" ¡truncado!`,
				Output:     `{"título": "Química"}`,
				Stage:      core.StageStructural,
				InsertedAt: now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalRepairRecord(tt.record)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalRepairRecord(data)
			require.NoError(t, err)
			assert.Equal(t, tt.record, decoded)
		})
	}
}

func TestUnmarshalRepairRecord_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"truncated data", MarshalRepairRecord(&core.RepairRecord{
			Id:         core.ID(9),
			Input:      "x",
			Output:     "{}",
			Stage:      core.StageStructural,
			InsertedAt: time.Now().UTC(),
		})[:3]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalRepairRecord(tt.data)
			assert.Error(t, err)
		})
	}
}
