package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for journal entities.
// It is generated from input content so that identical inputs map to the
// same journal record.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Stage identifies the pipeline stage that produced a repair candidate.
type Stage int

const (
	// StageInitial is the raw input, before any rewriting.
	StageInitial Stage = iota + 1
	// StagePreprocessed is the output of fence/prose/trailing-comma stripping.
	StagePreprocessed
	// StageTokenRepaired is the output of token-level rewriting.
	StageTokenRepaired
	// StageStructural is the output of truncate-and-close repair.
	StageStructural
	// StageFallback is a synthesized placeholder object.
	StageFallback
)

// stageNames maps stages to their wire/log names.
var stageNames = map[Stage]string{
	StageInitial:       "initial",
	StagePreprocessed:  "preprocessed",
	StageTokenRepaired: "token_repaired",
	StageStructural:    "structurally_repaired",
	StageFallback:      "fallback",
}

// String returns the stable name of the stage, or "unknown".
func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// FieldKind describes the expected JSON type of a top-level field.
// It is used only to shape fallback placeholders.
type FieldKind int

const (
	// FieldString expects a JSON string; placeholder "".
	FieldString FieldKind = iota + 1
	// FieldNumber expects a JSON number; placeholder 0.
	FieldNumber
	// FieldArray expects a JSON array; placeholder [].
	FieldArray
	// FieldObject expects a JSON object; placeholder {}.
	FieldObject
	// FieldBool expects a JSON boolean; placeholder false.
	FieldBool
)

// ShapeHint names the top-level fields a caller expects, with their kinds.
// A nil hint yields a minimal fallback object.
type ShapeHint map[string]FieldKind

// Placeholder returns the empty-typed value for a field kind.
// Unknown kinds default to the empty string so downstream field access
// still sees a value.
func (k FieldKind) Placeholder() any {
	switch k {
	case FieldNumber:
		return 0
	case FieldArray:
		return []any{}
	case FieldObject:
		return map[string]any{}
	case FieldBool:
		return false
	default:
		return ""
	}
}

// RepairInput is the raw text believed to contain one JSON object,
// plus the caller's optional expected-shape hint. Immutable once received.
type RepairInput struct {
	Text string
	Hint ShapeHint
}

// RepairAttempt is the output of one pipeline stage: the candidate text,
// the stage that produced it, and whether a strict parse of the candidate
// succeeded. The ordered attempt list forms the diagnostics audit trail.
type RepairAttempt struct {
	Stage     Stage
	Candidate string
	Parsed    bool
}

// ParsedResult is the single value a repair call produces. Value always
// re-serializes as strictly valid JSON, whether the result is genuine
// content or a synthesized fallback.
type ParsedResult struct {
	Value    any
	Stage    Stage
	Fallback bool
	// Reason describes what failed and at what stage. Empty on success.
	Reason string
}

// Success builds a ParsedResult for a candidate that parsed strictly.
func Success(value any, stage Stage) *ParsedResult {
	return &ParsedResult{Value: value, Stage: stage}
}

// FallbackResult builds a ParsedResult carrying a synthesized placeholder.
func FallbackResult(value any, reason string) *ParsedResult {
	return &ParsedResult{Value: value, Stage: StageFallback, Fallback: true, Reason: reason}
}

// RepairRecord is a journaled repair outcome. Records are persisted so
// fallback reasons can be mined offline to tune the repair heuristics.
type RepairRecord struct {
	Id         ID
	Input      string
	Output     string // Serialized result value
	Stage      Stage
	Reason     string // Empty unless the record is a fallback
	Attempts   []RepairAttempt
	InsertedAt time.Time
}
