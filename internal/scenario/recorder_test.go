package scenario

import (
	"time"

	"github.com/vango-dev/vtree/pkg/vdom"
)

type countingRecorder struct {
	ops, cycles, hookErrors int
}

func (r *countingRecorder) RecordOp(vdom.Op)                                { r.ops++ }
func (r *countingRecorder) RecordCycle(string, vdom.Outcome, time.Duration) { r.cycles++ }
func (r *countingRecorder) RecordHookError(string, string)                  { r.hookErrors++ }
