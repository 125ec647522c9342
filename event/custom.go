package event

import (
	"encoding/json"

	"github.com/spetersoncode/uistream/patch"
)

// Operation is a JSON Patch operation carried by component delta events.
type Operation = patch.Operation

// Known CUSTOM event names.
const (
	NameComponentStart      = "tambo.component.start"
	NameComponentPropsDelta = "tambo.component.props_delta"
	NameComponentStateDelta = "tambo.component.state_delta"
	NameComponentEnd        = "tambo.component.end"
	NameRunAwaitingInput    = "tambo.run.awaiting_input"
)

// ComponentStartValue is the value of a tambo.component.start event.
type ComponentStartValue struct {
	MessageID     string `json:"messageId"`
	ComponentID   string `json:"componentId"`
	ComponentName string `json:"componentName"`
}

// ComponentDeltaValue is the value of props_delta and state_delta events.
type ComponentDeltaValue struct {
	ComponentID string      `json:"componentId"`
	Operations  []Operation `json:"operations"`
}

// ComponentEndValue is the value of a tambo.component.end event.
type ComponentEndValue struct {
	ComponentID string `json:"componentId"`
}

// AwaitingInputValue is the value of a tambo.run.awaiting_input event.
type AwaitingInputValue struct {
	PendingToolCallIDs []string `json:"pendingToolCallIds"`
}

// decodeValue unmarshals a custom event value into v.
func decodeValue(r Raw, v any) error {
	if len(r.Value) == 0 || string(r.Value) == "null" {
		return &PayloadError{Type: r.Type, Name: r.Name, Reason: "missing value"}
	}
	if err := json.Unmarshal(r.Value, v); err != nil {
		return &PayloadError{Type: r.Type, Name: r.Name, Reason: "invalid value", Err: err}
	}
	return nil
}

// classifyCustom maps a CUSTOM envelope onto a component or run event.
func classifyCustom(r Raw) (Result, error) {
	switch r.Name {
	case NameComponentStart:
		var v ComponentStartValue
		if err := decodeValue(r, &v); err != nil {
			return Result{}, err
		}
		if err := requireField(r, "messageId", v.MessageID); err != nil {
			return Result{}, err
		}
		if err := requireField(r, "componentId", v.ComponentID); err != nil {
			return Result{}, err
		}
		return classified(r, Event{
			Type:          ComponentStart,
			MessageID:     v.MessageID,
			ComponentID:   v.ComponentID,
			ComponentName: v.ComponentName,
		}), nil

	case NameComponentPropsDelta, NameComponentStateDelta:
		var v ComponentDeltaValue
		if err := decodeValue(r, &v); err != nil {
			return Result{}, err
		}
		if err := requireField(r, "componentId", v.ComponentID); err != nil {
			return Result{}, err
		}
		t := ComponentPropsDelta
		if r.Name == NameComponentStateDelta {
			t = ComponentStateDelta
		}
		return classified(r, Event{
			Type:        t,
			ComponentID: v.ComponentID,
			Operations:  v.Operations,
		}), nil

	case NameComponentEnd:
		var v ComponentEndValue
		if err := decodeValue(r, &v); err != nil {
			return Result{}, err
		}
		if err := requireField(r, "componentId", v.ComponentID); err != nil {
			return Result{}, err
		}
		return classified(r, Event{Type: ComponentEnd, ComponentID: v.ComponentID}), nil

	case NameRunAwaitingInput:
		var v AwaitingInputValue
		if len(r.Value) > 0 {
			if err := decodeValue(r, &v); err != nil {
				return Result{}, err
			}
		}
		return classified(r, Event{
			Type:               RunAwaitingInput,
			PendingToolCallIDs: v.PendingToolCallIDs,
		}), nil

	default:
		return Result{Kind: KindUnknown, WireType: r.Type, Name: r.Name}, nil
	}
}
