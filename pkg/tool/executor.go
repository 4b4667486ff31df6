package tool

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/cexll/mcpchat/pkg/mcp"
	"github.com/cexll/mcpchat/pkg/model"
)

// Caller is the transport surface the executor dispatches over. Satisfied by
// *session.Session.
type Caller interface {
	CallTool(ctx context.Context, name string, args map[string]any) (*mcp.ToolCallResult, error)
}

// Outcome is the non-throwing result of one tool invocation. Transport
// errors, malformed replies, local validation failures, and server-signaled
// failures all land in OK=false with a Reason; none of them abort a query.
type Outcome struct {
	OK      bool
	Content string
	Reason  string
}

// Executor dispatches model-requested tool calls to the connected session.
type Executor struct {
	caller    Caller
	schemas   map[string]*JSONSchema
	validator Validator
	logger    zerolog.Logger
}

// ExecutorOption customizes an Executor.
type ExecutorOption func(*Executor)

// WithValidator swaps the pre-dispatch argument validator.
func WithValidator(v Validator) ExecutorOption {
	return func(e *Executor) { e.validator = v }
}

// WithExecutorLogger attaches a logger for dispatch tracing.
func WithExecutorLogger(logger zerolog.Logger) ExecutorOption {
	return func(e *Executor) { e.logger = logger }
}

// NewExecutor builds an executor over caller, indexing the advertised
// schemas for local pre-dispatch validation. For duplicate tool names the
// first advertisement wins, matching session dispatch.
func NewExecutor(caller Caller, descriptors []mcp.ToolDescriptor, opts ...ExecutorOption) *Executor {
	e := &Executor{
		caller:    caller,
		schemas:   make(map[string]*JSONSchema, len(descriptors)),
		validator: DefaultValidator{},
		logger:    zerolog.Nop(),
	}
	for _, desc := range descriptors {
		if _, taken := e.schemas[desc.Name]; taken {
			continue
		}
		e.schemas[desc.Name] = ParseSchema(desc.Schema)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute sends one request over the session transport and awaits its single
// reply. It never returns an error: every failure becomes a negative Outcome
// that the model gets to see as ordinary tool output. No retries and no
// timeout enforcement here; both are left to the transport.
func (e *Executor) Execute(ctx context.Context, call model.ToolCall) Outcome {
	if e.validator != nil {
		if err := e.validator.Validate(call.Arguments, e.schemas[call.Name]); err != nil {
			e.logger.Debug().Str("tool", call.Name).Err(err).Msg("argument validation failed")
			return Outcome{Reason: "invalid arguments for " + call.Name + ": " + err.Error()}
		}
	}

	result, err := e.caller.CallTool(ctx, call.Name, call.Arguments)
	if err != nil {
		e.logger.Debug().Str("tool", call.Name).Err(err).Msg("tool call failed")
		return Outcome{Reason: err.Error()}
	}
	if result.IsError {
		reason := result.Text
		if reason == "" {
			reason = "tool " + call.Name + " reported an error"
		}
		return Outcome{Reason: reason}
	}

	content := result.Text
	if content == "" && len(result.Content) > 0 {
		content = string(result.Content)
	}
	return Outcome{OK: true, Content: content}
}
