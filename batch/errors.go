package batch

import "errors"

var (
	// ErrRepairPipelineRequired is returned when a repair pipeline is not provided.
	ErrRepairPipelineRequired = errors.New("repair pipeline required")
)
