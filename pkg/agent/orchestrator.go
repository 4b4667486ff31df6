// Package agent implements the tool-call orchestration loop: one user query
// in, zero or more tool executions, one assembled natural-language answer
// out.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cexll/mcpchat/pkg/model"
	"github.com/cexll/mcpchat/pkg/tool"
)

// ToolRunner executes one model-requested tool call. Satisfied by
// *tool.Executor; its Outcome is non-throwing by contract.
type ToolRunner interface {
	Execute(ctx context.Context, call model.ToolCall) tool.Outcome
}

// Orchestrator drives one query at a time through the chat gateway and the
// tool runner. It holds no transcript state between queries: every Query
// starts from a fresh single-message transcript.
type Orchestrator struct {
	model  model.Model
	runner ToolRunner
	tools  []model.ToolSpec
	logger zerolog.Logger

	// Optional hooks, nil means silent. They observe progress only; output
	// assembly does not depend on them.
	OnText     func(text string)
	OnToolCall func(name string, args map[string]any)
	OnToolDone func(name string, outcome tool.Outcome)
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithLogger attaches a structured logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// New constructs an orchestrator over the given gateway, runner, and tool
// registry. The registry is attached to first-round completions only;
// follow-up rounds always omit it.
func New(m model.Model, runner ToolRunner, tools []model.ToolSpec, opts ...Option) (*Orchestrator, error) {
	if m == nil {
		return nil, errors.New("agent: model is required")
	}
	if runner == nil {
		return nil, errors.New("agent: tool runner is required")
	}
	o := &Orchestrator{model: m, runner: runner, tools: tools, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Query runs one user query to completion. Gateway errors propagate to the
// caller, which owns the per-query error boundary. Tool failures never do:
// they are surfaced to the model as negative results and the loop proceeds.
func (o *Orchestrator) Query(ctx context.Context, input string) (*Result, error) {
	queryID := uuid.NewString()
	logger := o.logger.With().Str("query_id", queryID).Logger()
	logger.Debug().Int("tools", len(o.tools)).Msg("query started")

	transcript := []model.Message{{Role: model.RoleUser, Content: input}}
	result := &Result{}
	var out []string

	reply, err := o.model.Generate(ctx, transcript, o.tools)
	if err != nil {
		logger.Error().Err(err).Msg("completion failed")
		return nil, err
	}

	if reply.Content != "" {
		out = append(out, reply.Content)
		o.emitText(reply.Content)
	}

	if len(reply.ToolCalls) == 0 {
		result.Output = strings.Join(out, "\n")
		logger.Debug().Msg("query completed without tool calls")
		return result, nil
	}

	// The assistant's tool-call message joins the transcript before any
	// result does, so every follow-up sees the request it is answering.
	transcript = append(transcript, reply)

	for _, call := range reply.ToolCalls {
		record, resultMsg := o.runToolCall(ctx, logger, call)
		result.ToolCalls = append(result.ToolCalls, record)
		out = append(out, traceLine(call))
		transcript = append(transcript, resultMsg)

		// One follow-up completion per tool call, tools omitted, so the
		// model narrates each result before the next call is processed.
		// TODO: confirm with the protocol owners whether this should
		// collapse into a single follow-up per assistant turn with all
		// results attached.
		followUp, err := o.model.Generate(ctx, transcript, nil)
		if err != nil {
			logger.Error().Err(err).Str("tool", call.Name).Msg("follow-up completion failed")
			return nil, err
		}
		if followUp.Content != "" {
			out = append(out, followUp.Content)
			o.emitText(followUp.Content)
		}
	}

	result.Output = strings.Join(out, "\n")
	logger.Debug().Int("tool_calls", len(result.ToolCalls)).Msg("query completed")
	return result, nil
}

func (o *Orchestrator) runToolCall(ctx context.Context, logger zerolog.Logger, call model.ToolCall) (ToolCallRecord, model.Message) {
	if o.OnToolCall != nil {
		o.OnToolCall(call.Name, call.Arguments)
	}
	logger.Debug().Str("tool", call.Name).Msg("dispatching tool call")

	started := time.Now()
	outcome := o.runner.Execute(ctx, call)
	record := ToolCallRecord{
		Name:      call.Name,
		Arguments: call.Arguments,
		OK:        outcome.OK,
		Reason:    outcome.Reason,
		Duration:  time.Since(started),
	}
	if o.OnToolDone != nil {
		o.OnToolDone(call.Name, outcome)
	}
	if !outcome.OK {
		logger.Warn().Str("tool", call.Name).Str("reason", outcome.Reason).Msg("tool call failed")
	}

	content := outcome.Content
	if !outcome.OK {
		content = outcome.Reason
	}
	resultMsg := model.Message{
		Role: model.RoleUser,
		ToolResults: []model.ToolResult{{
			ToolUseID: call.ID,
			Content:   content,
			IsError:   !outcome.OK,
		}},
	}
	return record, resultMsg
}

func (o *Orchestrator) emitText(text string) {
	if o.OnText != nil {
		o.OnText(text)
	}
}

// traceLine renders the human-readable record of one tool invocation that is
// woven into the final answer.
func traceLine(call model.ToolCall) string {
	args, err := json.Marshal(call.Arguments)
	if err != nil || call.Arguments == nil {
		args = []byte("{}")
	}
	return fmt.Sprintf("[calling tool %s with args %s]", call.Name, args)
}
