// Package event classifies AG-UI wire events into the closed set of
// transitions the thread reducer understands.
//
// A transport hands the package an already-deserialized [Raw] record (see
// [Decode]). [Classify] turns it into a [Result]: either a normalized [Event]
// or one of the non-fatal drift outcomes (unsupported type, unknown custom
// name) or the exhaustiveness failure (unrecognized outer type).
package event

import "time"

// Type identifies a classified event.
type Type string

// Run lifecycle events
const (
	// RunStarted fires when a run begins or a waiting run resumes.
	RunStarted Type = "run_started"

	// RunFinished fires when a run completes successfully.
	RunFinished Type = "run_finished"

	// RunError fires when a run terminates with an error.
	RunError Type = "run_error"

	// RunAwaitingInput fires when a run pauses for client-side tool results.
	RunAwaitingInput Type = "run_awaiting_input"
)

// Message lifecycle events
const (
	// MessageStart fires when a new message begins.
	MessageStart Type = "message_start"

	// MessageContent carries a text delta for a started message.
	MessageContent Type = "message_content"

	// MessageEnd fires when a message stops receiving text.
	MessageEnd Type = "message_end"
)

// Tool call lifecycle events
const (
	// ToolCallStart fires when a tool call begins (contains tool name).
	ToolCallStart Type = "tool_call_start"

	// ToolCallArgs carries a fragment of the tool call's JSON arguments.
	ToolCallArgs Type = "tool_call_args"

	// ToolCallEnd fires when the arguments are complete.
	ToolCallEnd Type = "tool_call_end"

	// ToolCallResult carries the tool execution result.
	ToolCallResult Type = "tool_call_result"
)

// Component streaming events, carried in CUSTOM envelopes.
const (
	ComponentStart      Type = "component_start"
	ComponentPropsDelta Type = "component_props_delta"
	ComponentStateDelta Type = "component_state_delta"
	ComponentEnd        Type = "component_end"
)

// Event is a normalized, classified event. Only the fields relevant to Type
// are populated.
type Event struct {
	// Type identifies the kind of event.
	Type Type

	// ThreadID and RunID are set on run lifecycle events when the wire carried them.
	ThreadID string
	RunID    string

	// MessageID identifies the target message for message, tool result and
	// component start events.
	MessageID string

	// Role is the raw wire role of a started message.
	Role string

	// Delta is the text or argument fragment.
	Delta string

	// ToolCallID, ToolCallName and ParentMessageID describe tool call events.
	ToolCallID      string
	ToolCallName    string
	ParentMessageID string

	// Content is a tool call result.
	Content string

	// ComponentID and ComponentName describe component events.
	ComponentID   string
	ComponentName string

	// Operations is the JSON Patch for component props and state deltas.
	Operations []Operation

	// PendingToolCallIDs is set on RunAwaitingInput events.
	PendingToolCallIDs []string

	// ErrorMessage and ErrorCode are set on RunError events.
	ErrorMessage string
	ErrorCode    string

	// Timestamp is when the event occurred, if the wire carried it.
	Timestamp *time.Time
}
