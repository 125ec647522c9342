package uistream

import "time"

// Status is the lifecycle status of a thread and of its active run.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusStreaming Status = "streaming"
	StatusWaiting   Status = "waiting"
	StatusComplete  Status = "complete"
	StatusError     Status = "error"
)

// RunError describes why a run failed.
type RunError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// StreamingStatus describes the active run of a thread.
// It is reset whenever a new run starts.
type StreamingStatus struct {
	Status Status `json:"status"`
	RunID  string `json:"runId,omitempty"`
	// MessageID is the message currently receiving text deltas.
	MessageID string     `json:"messageId,omitempty"`
	StartTime *time.Time `json:"startTime,omitempty"`
	Error     *RunError  `json:"error,omitempty"`
	// PendingToolCallIDs lists client-side tool calls a waiting run needs results for.
	PendingToolCallIDs []string `json:"pendingToolCallIds,omitempty"`
}

// Thread is one conversation.
type Thread struct {
	ID        string         `json:"id"`
	Title     string         `json:"title,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Messages  []*Message     `json:"messages"`
	Status    Status         `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// NewThread creates an empty idle thread.
func NewThread(id string, now time.Time) Thread {
	return Thread{
		ID:        id,
		Messages:  []*Message{},
		Status:    StatusIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MessageIndex returns the index of the message with the given ID, or -1.
func (t *Thread) MessageIndex(id string) int {
	for i := len(t.Messages) - 1; i >= 0; i-- {
		if t.Messages[i].ID == id {
			return i
		}
	}
	return -1
}

// Message returns the message with the given ID, or nil.
func (t *Thread) Message(id string) *Message {
	if i := t.MessageIndex(id); i >= 0 {
		return t.Messages[i]
	}
	return nil
}

// LastMessage returns the most recently appended message, or nil.
func (t *Thread) LastMessage() *Message {
	if len(t.Messages) == 0 {
		return nil
	}
	return t.Messages[len(t.Messages)-1]
}

// WithMessage returns a copy of the thread with the message at index i replaced.
// The message slice is copied; the other messages are shared.
func (t Thread) WithMessage(i int, m *Message) Thread {
	msgs := make([]*Message, len(t.Messages))
	copy(msgs, t.Messages)
	msgs[i] = m
	t.Messages = msgs
	return t
}

// AppendMessage returns a copy of the thread with m appended.
func (t Thread) AppendMessage(m *Message) Thread {
	msgs := make([]*Message, len(t.Messages), len(t.Messages)+1)
	copy(msgs, t.Messages)
	t.Messages = append(msgs, m)
	return t
}
