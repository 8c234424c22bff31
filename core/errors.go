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

import "errors"

// Domain validation errors
var (
	// ErrInvalidRepairRecord indicates a RepairRecord failed validation.
	ErrInvalidRepairRecord = errors.New("invalid repair record")

	// ErrInvalidShapeHint indicates a ShapeHint failed validation.
	ErrInvalidShapeHint = errors.New("invalid shape hint")

	// ErrInvalidStage indicates an invalid Stage value.
	ErrInvalidStage = errors.New("invalid stage")

	// ErrInvalidFieldKind indicates an invalid FieldKind value.
	ErrInvalidFieldKind = errors.New("invalid field kind")

	// ErrEmptyInput indicates the Input field is empty.
	ErrEmptyInput = errors.New("input cannot be empty")

	// ErrEmptyOutput indicates the Output field is empty.
	ErrEmptyOutput = errors.New("output cannot be empty")

	// ErrEmptyFieldName indicates a hint field name is empty.
	ErrEmptyFieldName = errors.New("hint field name cannot be empty")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")
)
