package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	modelpkg "github.com/cexll/mcpchat/pkg/model"
)

// Ensure Model implements the model.Model interface.
var _ modelpkg.Model = (*Model)(nil)

// Model is a concrete gateway backed by Anthropic's Messages API.
type Model struct {
	client  *http.Client
	baseURL string
	model   string
	headers map[string]string
	opts    modelOptions
}

// Generate performs one blocking Messages API call. A nil tools slice omits
// the tools parameter, so the reply cannot contain tool_use blocks. Only the
// single message the API returns is consumed.
func (m *Model) Generate(ctx context.Context, messages []modelpkg.Message, tools []modelpkg.ToolSpec) (modelpkg.Message, error) {
	payload := m.buildPayload(messages, tools)
	resp, err := m.doRequest(ctx, payload)
	if err != nil {
		return modelpkg.Message{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return modelpkg.Message{}, readAPIError(resp)
	}

	var msgResp MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&msgResp); err != nil {
		return modelpkg.Message{}, fmt.Errorf("decode anthropic response: %w", err)
	}

	return convertResponse(msgResp), nil
}

func (m *Model) buildPayload(messages []modelpkg.Message, tools []modelpkg.ToolSpec) MessageRequest {
	systemText, chatMessages := toAnthropicMessages(messages)
	if m.opts.System != "" {
		if systemText != "" {
			systemText = systemText + "\n\n" + m.opts.System
		} else {
			systemText = m.opts.System
		}
	}

	payload := MessageRequest{
		Model:     m.model,
		Messages:  chatMessages,
		MaxTokens: m.opts.MaxTokens,
	}
	if payload.MaxTokens <= 0 {
		payload.MaxTokens = defaultMaxTokens
	}
	if systemText != "" {
		payload.System = systemText
	}
	for _, spec := range tools {
		payload.Tools = append(payload.Tools, ToolParam{
			Name:        spec.Name,
			Description: spec.Description,
			InputSchema: spec.InputSchema,
		})
	}
	if m.opts.Temperature != nil {
		payload.Temperature = m.opts.Temperature
	}
	if m.opts.Metadata != nil {
		payload.Metadata = cloneMetadata(m.opts.Metadata)
	}

	return payload
}

func (m *Model) doRequest(ctx context.Context, payload MessageRequest) (*http.Response, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("encode anthropic request: %w", err)
	}

	endpoint := m.baseURL + messagesPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("create anthropic request: %w", err)
	}

	for k, v := range m.headers {
		if v == "" {
			continue
		}
		req.Header.Set(k, v)
	}

	return m.client.Do(req)
}

func readAPIError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("anthropic api status %d: %w", resp.StatusCode, err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	var apiErr ErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return APIError{StatusCode: resp.StatusCode, Type: apiErr.Error.Type, Message: apiErr.Error.Message}
	}

	return APIError{StatusCode: resp.StatusCode, Message: string(body)}
}

func convertResponse(resp MessageResponse) modelpkg.Message {
	msg := modelpkg.Message{Role: resp.Role}
	var text strings.Builder
	var toolCalls []modelpkg.ToolCall
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "tool_use":
			toolCalls = append(toolCalls, modelpkg.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: block.Input,
			})
		}
	}
	msg.Content = text.String()
	msg.ToolCalls = toolCalls
	if msg.Role == "" {
		msg.Role = modelpkg.RoleAssistant
	}
	return msg
}

func toAnthropicMessages(messages []modelpkg.Message) (string, []MessageParam) {
	var systemParts []string
	out := make([]MessageParam, 0, len(messages))
	for _, msg := range messages {
		role := strings.ToLower(strings.TrimSpace(msg.Role))
		if role == "system" {
			if msg.Content != "" {
				systemParts = append(systemParts, msg.Content)
			}
			continue
		}

		blocks := make([]ContentBlock, 0, 1+len(msg.ToolCalls)+len(msg.ToolResults))
		// tool_result blocks must lead the user turn that answers a tool_use.
		for _, result := range msg.ToolResults {
			blocks = append(blocks, ContentBlock{
				Type:      "tool_result",
				ToolUseID: result.ToolUseID,
				Content:   result.Content,
				IsError:   result.IsError,
			})
		}
		if msg.Content != "" {
			blocks = append(blocks, ContentBlock{Type: "text", Text: msg.Content})
		}
		for _, call := range msg.ToolCalls {
			blocks = append(blocks, ContentBlock{
				Type:  "tool_use",
				ID:    call.ID,
				Name:  call.Name,
				Input: call.Arguments,
			})
		}
		if len(blocks) == 0 {
			blocks = append(blocks, ContentBlock{Type: "text", Text: ""})
		}

		out = append(out, MessageParam{Role: normalizeRole(role), Content: blocks})
	}

	if len(out) == 0 {
		out = append(out, MessageParam{
			Role:    modelpkg.RoleUser,
			Content: []ContentBlock{{Type: "text", Text: ""}},
		})
	}
	return strings.Join(systemParts, "\n\n"), out
}

func normalizeRole(role string) string {
	switch role {
	case "assistant", "model":
		return modelpkg.RoleAssistant
	default:
		return modelpkg.RoleUser
	}
}
