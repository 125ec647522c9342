package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
)

// AG-UI event types the classifier recognizes but does not reduce. The SDK
// constants are used where the SDK exports them.
const (
	typeMessagesSnapshot           events.EventType = "MESSAGES_SNAPSHOT"
	typeRaw                        events.EventType = "RAW"
	typeTextMessageChunk           events.EventType = "TEXT_MESSAGE_CHUNK"
	typeToolCallChunk              events.EventType = "TOOL_CALL_CHUNK"
	typeThinkingStart              events.EventType = "THINKING_START"
	typeThinkingEnd                events.EventType = "THINKING_END"
	typeThinkingTextMessageStart   events.EventType = "THINKING_TEXT_MESSAGE_START"
	typeThinkingTextMessageContent events.EventType = "THINKING_TEXT_MESSAGE_CONTENT"
	typeThinkingTextMessageEnd     events.EventType = "THINKING_TEXT_MESSAGE_END"
)

// Raw is one deserialized wire event. Field names follow the AG-UI JSON
// encoding; which fields are set depends on Type.
type Raw struct {
	Type events.EventType `json:"type"`
	// Timestamp is in Unix milliseconds.
	Timestamp *int64 `json:"timestamp,omitempty"`

	ThreadID string `json:"threadId,omitempty"`
	RunID    string `json:"runId,omitempty"`

	// Message and Code are set on RUN_ERROR.
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`

	MessageID string `json:"messageId,omitempty"`
	Role      string `json:"role,omitempty"`
	Delta     string `json:"delta,omitempty"`

	ToolCallID      string `json:"toolCallId,omitempty"`
	ToolCallName    string `json:"toolCallName,omitempty"`
	ParentMessageID string `json:"parentMessageId,omitempty"`
	Content         string `json:"content,omitempty"`

	// Name and Value are set on CUSTOM.
	Name  string          `json:"name,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Decode parses one JSON-encoded wire event. Decoding succeeds for any type
// string; classification decides what the type means.
func Decode(data []byte) (Raw, error) {
	var r Raw
	if err := json.Unmarshal(data, &r); err != nil {
		return Raw{}, fmt.Errorf("event: decode: %w", err)
	}
	if r.Type == "" {
		return Raw{}, fmt.Errorf("event: decode: missing type")
	}
	return r, nil
}

// Time returns the event timestamp, or nil if the wire did not carry one.
func (r Raw) Time() *time.Time {
	if r.Timestamp == nil {
		return nil
	}
	t := time.UnixMilli(*r.Timestamp).UTC()
	return &t
}
