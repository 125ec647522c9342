package uistream

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role represents the role of a message sender in a thread.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// NormalizeRole maps a wire role onto a thread role.
// Anything other than "user" is treated as an assistant turn.
func NormalizeRole(role string) Role {
	if Role(role) == RoleUser {
		return RoleUser
	}
	return RoleAssistant
}

// BlockType identifies the kind of a content block.
type BlockType string

const (
	BlockText       BlockType = "text"
	BlockToolUse    BlockType = "tool_use"
	BlockToolResult BlockType = "tool_result"
	BlockComponent  BlockType = "component"
	BlockResource   BlockType = "resource"
)

// ComponentStreamingState tracks how far a component's props have streamed.
type ComponentStreamingState string

const (
	ComponentStarted   ComponentStreamingState = "started"
	ComponentStreaming ComponentStreamingState = "streaming"
	ComponentDone      ComponentStreamingState = "done"
)

// Resource is an opaque content reference carried by a resource block.
type Resource struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"`
}

// ContentBlock is one typed unit of a message's content.
// Only the fields relevant to Type are populated.
type ContentBlock struct {
	Type BlockType `json:"type"`

	// Text holds the accumulated text of a text block.
	Text string `json:"text,omitempty"`

	// ID identifies tool_use and component blocks.
	ID string `json:"id,omitempty"`
	// Name is the tool name or component name.
	Name string `json:"name,omitempty"`

	// Input holds the parsed tool arguments. Empty until the call is finalized.
	Input map[string]any `json:"input,omitempty"`

	// ToolUseID references the tool_use block a tool_result answers.
	ToolUseID string         `json:"toolUseId,omitempty"`
	Content   []ContentBlock `json:"content,omitempty"`
	IsError   bool           `json:"isError,omitempty"`

	// Props and State are replaced wholesale by patch application, never mutated.
	Props          map[string]any          `json:"props,omitempty"`
	State          map[string]any          `json:"state,omitempty"`
	StreamingState ComponentStreamingState `json:"streamingState,omitempty"`

	Resource *Resource `json:"resource,omitempty"`
}

// NewTextBlock creates a text content block.
func NewTextBlock(text string) ContentBlock {
	return ContentBlock{Type: BlockText, Text: text}
}

// NewToolUseBlock creates a tool_use block with empty input.
func NewToolUseBlock(id, name string) ContentBlock {
	return ContentBlock{
		Type:  BlockToolUse,
		ID:    id,
		Name:  name,
		Input: map[string]any{},
	}
}

// NewToolResultBlock creates a tool_result block carrying content as a single text block.
func NewToolResultBlock(toolUseID, content string, isError bool) ContentBlock {
	return ContentBlock{
		Type:      BlockToolResult,
		ToolUseID: toolUseID,
		Content:   []ContentBlock{NewTextBlock(content)},
		IsError:   isError,
	}
}

// NewComponentBlock creates a component block with empty props in the started state.
func NewComponentBlock(id, name string) ContentBlock {
	return ContentBlock{
		Type:           BlockComponent,
		ID:             id,
		Name:           name,
		Props:          map[string]any{},
		StreamingState: ComponentStarted,
	}
}

// NewResourceBlock creates a resource block.
func NewResourceBlock(r Resource) ContentBlock {
	return ContentBlock{Type: BlockResource, Resource: &r}
}

// Message is one turn in a thread.
//
// Messages are shared between snapshots. Code that needs to change a message
// must copy it with Clone and replace the pointer in a new thread.
type Message struct {
	ID        string         `json:"id"`
	Role      Role           `json:"role"`
	Content   []ContentBlock `json:"content"`
	CreatedAt time.Time      `json:"createdAt"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// GenerateMessageID creates a unique message identifier.
func GenerateMessageID() string {
	return "msg-" + uuid.New().String()
}

// NewUserMessage creates a user message with a single text block and a generated ID.
func NewUserMessage(text string, now time.Time) *Message {
	return &Message{
		ID:        GenerateMessageID(),
		Role:      RoleUser,
		Content:   []ContentBlock{NewTextBlock(text)},
		CreatedAt: now,
	}
}

// Clone returns a shallow copy of the message with its own content slice.
// Block maps are shared; they are never mutated in place.
func (m *Message) Clone() *Message {
	c := *m
	c.Content = make([]ContentBlock, len(m.Content), len(m.Content)+1)
	copy(c.Content, m.Content)
	return &c
}

// Text returns the concatenation of all text blocks in the message.
func (m *Message) Text() string {
	var b strings.Builder
	for _, block := range m.Content {
		if block.Type == BlockText {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}

// LastBlock returns the final content block, or nil if the message is empty.
func (m *Message) LastBlock() *ContentBlock {
	if len(m.Content) == 0 {
		return nil
	}
	return &m.Content[len(m.Content)-1]
}

// BlockIndex returns the index of the block with the given type and ID,
// searching from the end. It returns -1 if no block matches.
func (m *Message) BlockIndex(t BlockType, id string) int {
	for i := len(m.Content) - 1; i >= 0; i-- {
		if m.Content[i].Type == t && m.Content[i].ID == id {
			return i
		}
	}
	return -1
}
