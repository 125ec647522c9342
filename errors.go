package uistream

import (
	"errors"
	"fmt"
)

// ErrIntegrity marks errors caused by an event that references state the
// thread does not have, or that contradicts it. Every error in this file
// matches it with errors.Is.
var ErrIntegrity = errors.New("integrity violation")

// IsIntegrity reports whether err is an integrity violation.
func IsIntegrity(err error) bool {
	return errors.Is(err, ErrIntegrity)
}

// ThreadNotFoundError is returned when an event targets a thread with no record.
type ThreadNotFoundError struct {
	ThreadID string
}

func (e *ThreadNotFoundError) Error() string {
	return fmt.Sprintf("thread %q not found", e.ThreadID)
}

func (e *ThreadNotFoundError) Is(target error) bool {
	return target == ErrIntegrity
}

// MessageNotFoundError is returned when an event references a message the
// thread does not contain. An empty MessageID means the event needed the
// latest message and the thread had none.
type MessageNotFoundError struct {
	ThreadID  string
	MessageID string
	Event     string
}

func (e *MessageNotFoundError) Error() string {
	if e.MessageID == "" {
		return fmt.Sprintf("%s: thread %q has no messages", e.Event, e.ThreadID)
	}
	return fmt.Sprintf("%s: message %q not found in thread %q", e.Event, e.MessageID, e.ThreadID)
}

func (e *MessageNotFoundError) Is(target error) bool {
	return target == ErrIntegrity
}

// BlockNotFoundError is returned when a tool_use or component block cannot be
// located by ID in any message of the thread.
type BlockNotFoundError struct {
	ThreadID string
	Type     BlockType
	ID       string
}

func (e *BlockNotFoundError) Error() string {
	return fmt.Sprintf("%s block %q not found in thread %q", e.Type, e.ID, e.ThreadID)
}

func (e *BlockNotFoundError) Is(target error) bool {
	return target == ErrIntegrity
}

// IDMismatchError is returned when an end event does not close the item that is active.
type IDMismatchError struct {
	ThreadID string
	Event    string
	Active   string
	Got      string
}

func (e *IDMismatchError) Error() string {
	return fmt.Sprintf("%s: got %q but %q is active in thread %q", e.Event, e.Got, e.Active, e.ThreadID)
}

func (e *IDMismatchError) Is(target error) bool {
	return target == ErrIntegrity
}
