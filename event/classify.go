package event

import (
	"errors"
	"fmt"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/uistream"
)

// ErrUnrecognizedType is reported for wire events whose type is outside the
// AG-UI enumeration. It indicates a producer bug rather than protocol drift.
var ErrUnrecognizedType = errors.New("event: unrecognized event type")

// Kind is the outcome of classifying a wire event.
type Kind int

const (
	// KindEvent means the wire event maps to a reducer transition.
	KindEvent Kind = iota
	// KindUnsupported means the type is part of the protocol but has no handler.
	KindUnsupported
	// KindUnknown means a CUSTOM event carried a name outside the known set.
	KindUnknown
	// KindUnrecognized means the outer type is not part of the protocol at all.
	KindUnrecognized
)

func (k Kind) String() string {
	switch k {
	case KindEvent:
		return "event"
	case KindUnsupported:
		return "unsupported"
	case KindUnknown:
		return "unknown"
	case KindUnrecognized:
		return "unrecognized"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Result is the classification of one wire event.
type Result struct {
	Kind Kind
	// Event is set when Kind is KindEvent.
	Event Event
	// WireType is the outer type of the wire event.
	WireType events.EventType
	// Name is the custom event name for CUSTOM envelopes.
	Name string
}

// Err returns ErrUnrecognizedType for unrecognized events and nil otherwise.
func (r Result) Err() error {
	if r.Kind == KindUnrecognized {
		return fmt.Errorf("%w: %q", ErrUnrecognizedType, r.WireType)
	}
	return nil
}

// PayloadError reports a known event whose payload is missing required data.
// It is an integrity violation: the reducer cannot apply the event.
type PayloadError struct {
	Type   events.EventType
	Name   string
	Reason string
	Err    error
}

func (e *PayloadError) Error() string {
	label := string(e.Type)
	if e.Name != "" {
		label += " " + e.Name
	}
	if e.Err != nil {
		return fmt.Sprintf("event: %s: %s: %v", label, e.Reason, e.Err)
	}
	return fmt.Sprintf("event: %s: %s", label, e.Reason)
}

func (e *PayloadError) Unwrap() error {
	return e.Err
}

func (e *PayloadError) Is(target error) bool {
	return target == uistream.ErrIntegrity
}

// Classify maps a wire event onto a Result. It is a pure function of r.
// Only known events with an invalid payload produce an error.
func Classify(r Raw) (Result, error) {
	switch r.Type {
	// Run lifecycle
	case events.EventTypeRunStarted:
		return classified(r, Event{Type: RunStarted, ThreadID: r.ThreadID, RunID: r.RunID}), nil
	case events.EventTypeRunFinished:
		return classified(r, Event{Type: RunFinished, ThreadID: r.ThreadID, RunID: r.RunID}), nil
	case events.EventTypeRunError:
		return classified(r, Event{Type: RunError, RunID: r.RunID, ErrorMessage: r.Message, ErrorCode: r.Code}), nil

	// Message lifecycle
	case events.EventTypeTextMessageStart:
		if err := requireField(r, "messageId", r.MessageID); err != nil {
			return Result{}, err
		}
		return classified(r, Event{Type: MessageStart, MessageID: r.MessageID, Role: r.Role}), nil
	case events.EventTypeTextMessageContent:
		if err := requireField(r, "messageId", r.MessageID); err != nil {
			return Result{}, err
		}
		return classified(r, Event{Type: MessageContent, MessageID: r.MessageID, Delta: r.Delta}), nil
	case events.EventTypeTextMessageEnd:
		if err := requireField(r, "messageId", r.MessageID); err != nil {
			return Result{}, err
		}
		return classified(r, Event{Type: MessageEnd, MessageID: r.MessageID}), nil

	// Tool call lifecycle
	case events.EventTypeToolCallStart:
		if err := requireField(r, "toolCallId", r.ToolCallID); err != nil {
			return Result{}, err
		}
		return classified(r, Event{
			Type:            ToolCallStart,
			ToolCallID:      r.ToolCallID,
			ToolCallName:    r.ToolCallName,
			ParentMessageID: r.ParentMessageID,
		}), nil
	case events.EventTypeToolCallArgs:
		if err := requireField(r, "toolCallId", r.ToolCallID); err != nil {
			return Result{}, err
		}
		return classified(r, Event{Type: ToolCallArgs, ToolCallID: r.ToolCallID, Delta: r.Delta}), nil
	case events.EventTypeToolCallEnd:
		if err := requireField(r, "toolCallId", r.ToolCallID); err != nil {
			return Result{}, err
		}
		return classified(r, Event{Type: ToolCallEnd, ToolCallID: r.ToolCallID}), nil
	case events.EventTypeToolCallResult:
		if err := requireField(r, "toolCallId", r.ToolCallID); err != nil {
			return Result{}, err
		}
		if err := requireField(r, "messageId", r.MessageID); err != nil {
			return Result{}, err
		}
		return classified(r, Event{
			Type:       ToolCallResult,
			ToolCallID: r.ToolCallID,
			MessageID:  r.MessageID,
			Role:       r.Role,
			Content:    r.Content,
		}), nil

	// Extension envelope
	case events.EventTypeCustom:
		return classifyCustom(r)

	// Part of the protocol, no handler yet
	case events.EventTypeStepStarted, events.EventTypeStepFinished,
		events.EventTypeStateSnapshot, events.EventTypeStateDelta,
		typeMessagesSnapshot, typeRaw,
		typeTextMessageChunk, typeToolCallChunk,
		typeThinkingStart, typeThinkingEnd,
		typeThinkingTextMessageStart, typeThinkingTextMessageContent, typeThinkingTextMessageEnd:
		return Result{Kind: KindUnsupported, WireType: r.Type}, nil

	default:
		return Result{Kind: KindUnrecognized, WireType: r.Type}, nil
	}
}

// classified wraps a normalized event, stamping the wire timestamp.
func classified(r Raw, e Event) Result {
	e.Timestamp = r.Time()
	return Result{Kind: KindEvent, Event: e, WireType: r.Type, Name: r.Name}
}

// requireField fails with a PayloadError when a required identifier is empty.
func requireField(r Raw, field, value string) error {
	if value == "" {
		return &PayloadError{Type: r.Type, Name: r.Name, Reason: "missing " + field}
	}
	return nil
}
