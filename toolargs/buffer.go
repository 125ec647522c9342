// Package toolargs accumulates streamed tool-call argument fragments.
//
// A Buffer is an immutable value: Append and Finalize return a new Buffer and
// leave the receiver untouched, so a buffer can be stored in a state snapshot
// and shared between snapshots.
package toolargs

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
)

// MalformedToolArgumentsError is returned when accumulated arguments are not a
// JSON object at finalize time.
type MalformedToolArgumentsError struct {
	ToolCallID string
	Raw        string
	Err        error
}

func (e *MalformedToolArgumentsError) Error() string {
	return fmt.Sprintf("toolargs: malformed arguments for tool call %q: %v (raw: %q)", e.ToolCallID, e.Err, e.Raw)
}

func (e *MalformedToolArgumentsError) Unwrap() error {
	return e.Err
}

// Buffer maps tool-call IDs to their accumulated raw JSON argument strings.
// The zero value is an empty buffer.
type Buffer struct {
	entries map[string]string
}

// Append returns a buffer with delta concatenated onto the entry for id,
// creating the entry if needed.
func (b Buffer) Append(id, delta string) Buffer {
	next := make(map[string]string, len(b.entries)+1)
	maps.Copy(next, b.entries)
	next[id] += delta
	return Buffer{entries: next}
}

// Finalize parses and removes the entry for id.
//
// If there is no entry, found is false and the receiver is returned unchanged:
// tool calls may have no arguments at all. An entry that does not parse as a
// JSON object yields a *MalformedToolArgumentsError and the receiver unchanged.
// An entry that is empty or whitespace parses as an empty object.
func (b Buffer) Finalize(id string) (value map[string]any, found bool, next Buffer, err error) {
	raw, ok := b.entries[id]
	if !ok {
		return nil, false, b, nil
	}

	value = map[string]any{}
	if strings.TrimSpace(raw) != "" {
		var parsed any
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			return nil, true, b, &MalformedToolArgumentsError{ToolCallID: id, Raw: raw, Err: err}
		}
		obj, isObj := parsed.(map[string]any)
		if !isObj {
			return nil, true, b, &MalformedToolArgumentsError{
				ToolCallID: id,
				Raw:        raw,
				Err:        fmt.Errorf("arguments are %T, not an object", parsed),
			}
		}
		value = obj
	}

	remaining := make(map[string]string, len(b.entries)-1)
	for k, v := range b.entries {
		if k != id {
			remaining[k] = v
		}
	}
	return value, true, Buffer{entries: remaining}, nil
}

// Has reports whether an entry exists for id.
func (b Buffer) Has(id string) bool {
	_, ok := b.entries[id]
	return ok
}

// Raw returns the accumulated string for id.
func (b Buffer) Raw(id string) (string, bool) {
	s, ok := b.entries[id]
	return s, ok
}

// Len returns the number of pending tool calls.
func (b Buffer) Len() int {
	return len(b.entries)
}
