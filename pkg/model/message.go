package model

import "encoding/json"

// Conversation roles understood by the gateway.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single conversational turn exchanged with a model.
// A transcript is an ordered, append-only slice of Messages scoped to one
// query; past entries are never mutated.
type Message struct {
	Role        string
	Content     string
	ToolCalls   []ToolCall
	ToolResults []ToolResult
}

// ToolCall captures a tool invocation emitted by an assistant message.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// ToolResult carries the output of one tool invocation back to the model.
// It rides on a user-role message, one block per answered ToolCall.
type ToolResult struct {
	ToolUseID string
	Content   string
	IsError   bool
}

// ToolSpec advertises a callable tool to the model. InputSchema is the raw
// JSON Schema exactly as the tool server published it; the gateway passes it
// through without interpretation.
type ToolSpec struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}
