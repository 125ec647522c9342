package agui

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/uistream"
	"github.com/spetersoncode/uistream/toolargs"
)

// Role constants matching AG-UI protocol.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleDeveloper = "developer"
	RoleTool      = "tool"
)

// FromMessages converts an AG-UI message history into thread messages, for
// example to seed a thread with thread.InitThread.
//
// System and developer messages are not part of a rendered thread and are
// dropped. Tool messages become assistant messages holding one tool_result
// block. Tool call arguments must be JSON objects.
func FromMessages(msgs []events.Message, now time.Time) ([]*uistream.Message, error) {
	result := make([]*uistream.Message, 0, len(msgs))
	for _, msg := range msgs {
		m, err := FromMessage(msg, now)
		if err != nil {
			return nil, err
		}
		if m != nil {
			result = append(result, m)
		}
	}
	return result, nil
}

// FromMessage converts a single AG-UI message. It returns nil for roles that
// have no place in a thread.
func FromMessage(msg events.Message, now time.Time) (*uistream.Message, error) {
	m := &uistream.Message{
		ID:        msg.ID,
		Content:   []uistream.ContentBlock{},
		CreatedAt: now,
	}
	if m.ID == "" {
		m.ID = uistream.GenerateMessageID()
	}

	content := ""
	if msg.Content != nil {
		content = *msg.Content
	}

	switch msg.Role {
	case RoleSystem, RoleDeveloper:
		return nil, nil

	case RoleTool:
		m.Role = uistream.RoleAssistant
		toolCallID := ""
		if msg.ToolCallID != nil {
			toolCallID = *msg.ToolCallID
		}
		m.Content = append(m.Content, uistream.NewToolResultBlock(toolCallID, content, false))
		return m, nil

	default:
		m.Role = uistream.NormalizeRole(msg.Role)
	}

	if content != "" {
		m.Content = append(m.Content, uistream.NewTextBlock(content))
	}

	// Tool calls (assistant messages)
	for _, tc := range msg.ToolCalls {
		block := uistream.NewToolUseBlock(tc.ID, tc.Function.Name)
		input, found, _, err := toolargs.Buffer{}.Append(tc.ID, tc.Function.Arguments).Finalize(tc.ID)
		if err != nil {
			return nil, fmt.Errorf("agui: message %q: %w", m.ID, err)
		}
		if found {
			block.Input = input
		}
		m.Content = append(m.Content, block)
	}

	return m, nil
}

// ToMessages converts a thread into an AG-UI message history, for example to
// send it back to an agent backend.
//
// Text blocks are concatenated into the message content and tool_use blocks
// become tool calls. Every tool_result block becomes its own tool message
// following the message that holds it. Component and resource blocks have no
// AG-UI message form and are omitted.
func ToMessages(t *uistream.Thread) ([]events.Message, error) {
	result := make([]events.Message, 0, len(t.Messages))
	for _, msg := range t.Messages {
		converted, err := ToMessage(msg)
		if err != nil {
			return nil, err
		}
		result = append(result, converted...)
	}
	return result, nil
}

// ToMessage converts a single thread message. It returns the message itself
// followed by one tool message per tool result. It fails when a tool_use
// input cannot be encoded as JSON.
func ToMessage(msg *uistream.Message) ([]events.Message, error) {
	m := events.Message{
		ID:   msg.ID,
		Role: string(msg.Role),
	}
	if text := msg.Text(); text != "" {
		m.Content = &text
	}

	var results []events.Message
	for _, block := range msg.Content {
		switch block.Type {
		case uistream.BlockToolUse:
			args := []byte("{}")
			if len(block.Input) > 0 {
				encoded, err := json.Marshal(block.Input)
				if err != nil {
					return nil, fmt.Errorf("agui: message %q: tool call %q input: %w", msg.ID, block.ID, err)
				}
				args = encoded
			}
			m.ToolCalls = append(m.ToolCalls, events.ToolCall{
				ID:   block.ID,
				Type: "function",
				Function: events.Function{
					Name:      block.Name,
					Arguments: string(args),
				},
			})
		case uistream.BlockToolResult:
			content := resultText(block)
			toolCallID := block.ToolUseID
			results = append(results, events.Message{
				ID:         msg.ID + ":" + toolCallID,
				Role:       RoleTool,
				Content:    &content,
				ToolCallID: &toolCallID,
			})
		}
	}

	if m.Content == nil && len(m.ToolCalls) == 0 && len(results) > 0 {
		return results, nil
	}
	return append([]events.Message{m}, results...), nil
}

// resultText joins the text blocks of a tool result.
func resultText(block uistream.ContentBlock) string {
	text := ""
	for _, c := range block.Content {
		if c.Type == uistream.BlockText {
			text += c.Text
		}
	}
	return text
}
