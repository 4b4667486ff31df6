package model

import "context"

// Model is the chat completion gateway: one blocking request, one assistant
// reply. Passing a nil or empty tools slice omits the tool registry from the
// request entirely, which is how follow-up rounds after tool results are
// issued. Implementations do not retry.
type Model interface {
	Generate(ctx context.Context, messages []Message, tools []ToolSpec) (Message, error)
}
