package mcp

import (
	"encoding/json"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolDescriptor is the metadata a server advertises for one tool. Schema is
// the input JSON Schema exactly as published; it is forwarded to the model
// and only partially interpreted locally.
type ToolDescriptor struct {
	Name        string
	Description string
	Schema      json.RawMessage
}

// ToolCallResult is the normalized outcome of a tools/call round-trip.
// Content keeps the raw content blocks; Text flattens the text blocks into a
// single string for callers that only narrate.
type ToolCallResult struct {
	Content json.RawMessage
	Text    string
	IsError bool
}

func toToolDescriptor(tool *mcpsdk.Tool) ToolDescriptor {
	if tool == nil {
		return ToolDescriptor{}
	}
	desc := ToolDescriptor{Name: tool.Name, Description: tool.Description}
	if tool.InputSchema != nil {
		if raw, err := json.Marshal(tool.InputSchema); err == nil {
			desc.Schema = raw
		}
	}
	return desc
}

func toToolCallResult(result *mcpsdk.CallToolResult) *ToolCallResult {
	if result == nil {
		return &ToolCallResult{}
	}
	out := &ToolCallResult{IsError: result.IsError}
	if len(result.Content) > 0 {
		if raw, err := json.Marshal(result.Content); err == nil {
			out.Content = raw
		}
	}
	var text strings.Builder
	for _, block := range result.Content {
		if tc, ok := block.(*mcpsdk.TextContent); ok {
			if text.Len() > 0 {
				text.WriteByte('\n')
			}
			text.WriteString(tc.Text)
		}
	}
	out.Text = text.String()
	return out
}
