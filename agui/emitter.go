package agui

import (
	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/uistream/event"
	"github.com/spetersoncode/uistream/patch"
)

// Emitter builds the AG-UI events of a single run, including the CUSTOM
// envelopes for generative UI components. It is the producer-side mirror of
// event.Classify and is used by backends, fixtures and tests.
//
// Create a new Emitter for each run using NewEmitter. The Emitter holds no
// mutable state and is safe for concurrent use.
type Emitter struct {
	threadID string
	runID    string
}

// NewEmitter creates an Emitter for a single run.
// Empty IDs are generated.
func NewEmitter(threadID, runID string) *Emitter {
	if threadID == "" {
		threadID = events.GenerateThreadID()
	}
	if runID == "" {
		runID = events.GenerateRunID()
	}
	return &Emitter{
		threadID: threadID,
		runID:    runID,
	}
}

// ThreadID returns the thread ID for this emitter.
func (e *Emitter) ThreadID() string {
	return e.threadID
}

// RunID returns the run ID for this emitter.
func (e *Emitter) RunID() string {
	return e.runID
}

// RunStarted returns a RUN_STARTED event.
func (e *Emitter) RunStarted() events.Event {
	return events.NewRunStartedEvent(e.threadID, e.runID)
}

// RunFinished returns a RUN_FINISHED event.
func (e *Emitter) RunFinished() events.Event {
	return events.NewRunFinishedEvent(e.threadID, e.runID)
}

// RunError returns a RUN_ERROR event.
func (e *Emitter) RunError(err error, code string) events.Event {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	if code != "" {
		return events.NewRunErrorEvent(msg, events.WithErrorCode(code), events.WithRunID(e.runID))
	}
	return events.NewRunErrorEvent(msg, events.WithRunID(e.runID))
}

// AwaitingInput pauses the run until the client supplies results for the
// given tool calls.
func (e *Emitter) AwaitingInput(toolCallIDs ...string) events.Event {
	return events.NewCustomEvent(event.NameRunAwaitingInput,
		events.WithValue(event.AwaitingInputValue{PendingToolCallIDs: toolCallIDs}))
}

// Text returns the start, content and end events of a complete text message.
func (e *Emitter) Text(messageID, role string, deltas ...string) []events.Event {
	out := make([]events.Event, 0, len(deltas)+2)
	out = append(out, events.NewTextMessageStartEvent(messageID, events.WithRole(role)))
	for _, d := range deltas {
		out = append(out, events.NewTextMessageContentEvent(messageID, d))
	}
	return append(out, events.NewTextMessageEndEvent(messageID))
}

// ToolCall returns the start, args and end events of one tool call attached
// to parentMessageID. An empty parent attaches the call to the latest message.
func (e *Emitter) ToolCall(parentMessageID, toolCallID, name string, argChunks ...string) []events.Event {
	var start events.Event
	if parentMessageID != "" {
		start = events.NewToolCallStartEvent(toolCallID, name, events.WithParentMessageID(parentMessageID))
	} else {
		start = events.NewToolCallStartEvent(toolCallID, name)
	}
	out := []events.Event{start}
	for _, chunk := range argChunks {
		out = append(out, events.NewToolCallArgsEvent(toolCallID, chunk))
	}
	return append(out, events.NewToolCallEndEvent(toolCallID))
}

// ToolResult returns a TOOL_CALL_RESULT event recorded on messageID.
func (e *Emitter) ToolResult(messageID, toolCallID, content string) events.Event {
	return events.NewToolCallResultEvent(messageID, toolCallID, content)
}

// ComponentStart opens a component block on messageID.
func (e *Emitter) ComponentStart(messageID, componentID, name string) events.Event {
	return events.NewCustomEvent(event.NameComponentStart,
		events.WithValue(event.ComponentStartValue{
			MessageID:     messageID,
			ComponentID:   componentID,
			ComponentName: name,
		}))
}

// ComponentProps patches the props of a component.
func (e *Emitter) ComponentProps(componentID string, ops ...patch.Operation) events.Event {
	return events.NewCustomEvent(event.NameComponentPropsDelta,
		events.WithValue(event.ComponentDeltaValue{ComponentID: componentID, Operations: ops}))
}

// ComponentState patches the state of a component.
func (e *Emitter) ComponentState(componentID string, ops ...patch.Operation) events.Event {
	return events.NewCustomEvent(event.NameComponentStateDelta,
		events.WithValue(event.ComponentDeltaValue{ComponentID: componentID, Operations: ops}))
}

// ComponentEnd closes a component.
func (e *Emitter) ComponentEnd(componentID string) events.Event {
	return events.NewCustomEvent(event.NameComponentEnd,
		events.WithValue(event.ComponentEndValue{ComponentID: componentID}))
}
