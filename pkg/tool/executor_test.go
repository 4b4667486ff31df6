package tool

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/cexll/mcpchat/pkg/mcp"
	"github.com/cexll/mcpchat/pkg/model"
)

type stubCaller struct {
	result *mcp.ToolCallResult
	err    error
	calls  int
}

func (s *stubCaller) CallTool(_ context.Context, _ string, _ map[string]any) (*mcp.ToolCallResult, error) {
	s.calls++
	return s.result, s.err
}

func TestExecuteSuccess(t *testing.T) {
	caller := &stubCaller{result: &mcp.ToolCallResult{Text: "sunny"}}
	exec := NewExecutor(caller, nil)

	out := exec.Execute(context.Background(), model.ToolCall{Name: "get-weather"})
	if !out.OK || out.Content != "sunny" {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestExecuteTransportErrorIsNegativeOutcome(t *testing.T) {
	caller := &stubCaller{err: errors.New("pipe closed")}
	exec := NewExecutor(caller, nil)

	out := exec.Execute(context.Background(), model.ToolCall{Name: "get-weather"})
	if out.OK {
		t.Fatalf("transport errors must not look like success: %+v", out)
	}
	if out.Reason != "pipe closed" {
		t.Fatalf("reason = %q", out.Reason)
	}
}

func TestExecuteServerSignaledFailure(t *testing.T) {
	caller := &stubCaller{result: &mcp.ToolCallResult{Text: "city is required", IsError: true}}
	exec := NewExecutor(caller, nil)

	out := exec.Execute(context.Background(), model.ToolCall{Name: "get-weather"})
	if out.OK || out.Reason != "city is required" {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestExecuteValidatesBeforeDispatch(t *testing.T) {
	caller := &stubCaller{result: &mcp.ToolCallResult{Text: "unreached"}}
	descriptors := []mcp.ToolDescriptor{{
		Name:   "get-weather",
		Schema: json.RawMessage(`{"type":"object","properties":{"city":{"type":"string"}},"required":["city"]}`),
	}}
	exec := NewExecutor(caller, descriptors)

	out := exec.Execute(context.Background(), model.ToolCall{Name: "get-weather", Arguments: map[string]any{}})
	if out.OK {
		t.Fatalf("missing required field should fail validation: %+v", out)
	}
	if !strings.Contains(out.Reason, "city") {
		t.Fatalf("reason = %q", out.Reason)
	}
	if caller.calls != 0 {
		t.Fatalf("invalid arguments must not be dispatched, got %d calls", caller.calls)
	}
}

func TestExecuteFallsBackToRawContent(t *testing.T) {
	caller := &stubCaller{result: &mcp.ToolCallResult{Content: json.RawMessage(`[{"type":"image"}]`)}}
	exec := NewExecutor(caller, nil)

	out := exec.Execute(context.Background(), model.ToolCall{Name: "snap"})
	if !out.OK || out.Content != `[{"type":"image"}]` {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestExecutorFirstSchemaWinsForDuplicates(t *testing.T) {
	caller := &stubCaller{result: &mcp.ToolCallResult{Text: "ok"}}
	descriptors := []mcp.ToolDescriptor{
		{Name: "dup", Schema: json.RawMessage(`{"type":"object","required":["a"]}`)},
		{Name: "dup", Schema: json.RawMessage(`{"type":"object","required":["b"]}`)},
	}
	exec := NewExecutor(caller, descriptors)

	out := exec.Execute(context.Background(), model.ToolCall{Name: "dup", Arguments: map[string]any{"a": 1}})
	if !out.OK {
		t.Fatalf("first advertised schema should govern validation: %+v", out)
	}
}
