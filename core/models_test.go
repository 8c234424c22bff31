package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantSame bool
	}{
		{
			name:     "same content produces same ID",
			content:  `{"title": "Test"}`,
			wantSame: true,
		},
		{
			name:     "empty string",
			content:  "",
			wantSame: true,
		},
		{
			name:     "long content",
			content:  "This is a much longer piece of content that should still hash consistently",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if tt.wantSame && id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent(`{"a": 1}`)
	id2 := IDFromContent(`{"a": 2}`)

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestStage_String(t *testing.T) {
	tests := []struct {
		name  string
		stage Stage
		want  string
	}{
		{"initial", StageInitial, "initial"},
		{"preprocessed", StagePreprocessed, "preprocessed"},
		{"token repaired", StageTokenRepaired, "token_repaired"},
		{"structural", StageStructural, "structurally_repaired"},
		{"fallback", StageFallback, "fallback"},
		{"zero value", Stage(0), "unknown"},
		{"out of range", Stage(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.stage.String()
			if got != tt.want {
				t.Errorf("Stage.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFieldKind_Placeholder(t *testing.T) {
	if got := FieldString.Placeholder(); got != "" {
		t.Errorf("FieldString.Placeholder() = %v, want empty string", got)
	}
	if got := FieldNumber.Placeholder(); got != 0 {
		t.Errorf("FieldNumber.Placeholder() = %v, want 0", got)
	}
	if got, ok := FieldArray.Placeholder().([]any); !ok || len(got) != 0 {
		t.Errorf("FieldArray.Placeholder() = %v, want empty array", got)
	}
	if got, ok := FieldObject.Placeholder().(map[string]any); !ok || len(got) != 0 {
		t.Errorf("FieldObject.Placeholder() = %v, want empty object", got)
	}
	if got := FieldBool.Placeholder(); got != false {
		t.Errorf("FieldBool.Placeholder() = %v, want false", got)
	}
	// Unknown kinds degrade to the string placeholder.
	if got := FieldKind(0).Placeholder(); got != "" {
		t.Errorf("FieldKind(0).Placeholder() = %v, want empty string", got)
	}
}

func TestSuccess(t *testing.T) {
	value := map[string]any{"title": "Test"}
	result := Success(value, StageTokenRepaired)

	if result.Fallback {
		t.Error("Success() marked result as fallback")
	}
	if result.Stage != StageTokenRepaired {
		t.Errorf("Success() stage = %v, want %v", result.Stage, StageTokenRepaired)
	}
	if result.Reason != "" {
		t.Errorf("Success() reason = %q, want empty", result.Reason)
	}
}

func TestFallbackResult(t *testing.T) {
	value := map[string]any{"error": "not json"}
	result := FallbackResult(value, "not json")

	if !result.Fallback {
		t.Error("FallbackResult() not marked as fallback")
	}
	if result.Stage != StageFallback {
		t.Errorf("FallbackResult() stage = %v, want %v", result.Stage, StageFallback)
	}
	if result.Reason != "not json" {
		t.Errorf("FallbackResult() reason = %q, want %q", result.Reason, "not json")
	}
}
