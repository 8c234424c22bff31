package repair

import (
	"github.com/poiesic/jsonmend/core"
)

// Monitor provides hooks to observe the repair process.
// Implement this interface to track each stage's candidate and outcome,
// for example to feed observability tooling.
type Monitor interface {
	Start(input core.RepairInput)
	StageResult(attempt core.RepairAttempt)
	Finish(result *core.ParsedResult)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ core.RepairInput)        {}
func (n *noopMonitor) StageResult(_ core.RepairAttempt) {}
func (n *noopMonitor) Finish(_ *core.ParsedResult)     {}
