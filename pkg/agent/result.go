package agent

import "time"

// Result captures the final outcome for a single query.
type Result struct {
	Output    string
	ToolCalls []ToolCallRecord
}

// ToolCallRecord records a single tool invocation performed during a query.
type ToolCallRecord struct {
	Name      string
	Arguments map[string]any
	OK        bool
	Reason    string
	Duration  time.Duration
}

// Failed reports whether the invocation came back negative.
func (r ToolCallRecord) Failed() bool {
	return !r.OK
}
