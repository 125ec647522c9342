// Package patch applies RFC 6902 JSON Patch operations to immutable objects.
//
// Apply never mutates its target. The target is encoded to JSON, patched, and
// decoded into a fresh value, so the result shares no maps or slices with the
// input. Numbers in the result are float64, as with encoding/json.
package patch

import (
	"encoding/json"
	"fmt"
	"slices"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// Op is a JSON Patch operation name.
type Op string

const (
	OpAdd     Op = "add"
	OpRemove  Op = "remove"
	OpReplace Op = "replace"
	OpMove    Op = "move"
	OpCopy    Op = "copy"
	OpTest    Op = "test"
)

// Operation is a single JSON Patch operation.
//
// A nil Value counts as present only when the operation was built with Add,
// Replace or Test, or decoded from JSON carrying an explicit "value": null.
type Operation struct {
	Op    Op
	Path  string
	From  string
	Value any

	hasValue bool
}

// Add returns an add operation.
func Add(path string, value any) Operation {
	return Operation{Op: OpAdd, Path: path, Value: value, hasValue: true}
}

// Replace returns a replace operation.
func Replace(path string, value any) Operation {
	return Operation{Op: OpReplace, Path: path, Value: value, hasValue: true}
}

// Test returns a test operation.
func Test(path string, value any) Operation {
	return Operation{Op: OpTest, Path: path, Value: value, hasValue: true}
}

// Remove returns a remove operation.
func Remove(path string) Operation {
	return Operation{Op: OpRemove, Path: path}
}

// HasValue reports whether the operation carries a value, including an
// explicit null.
func (o Operation) HasValue() bool {
	return o.hasValue || o.Value != nil
}

func (o Operation) needsValue() bool {
	return o.Op == OpAdd || o.Op == OpReplace || o.Op == OpTest
}

// wire encodes the operation. A present nil value is sent as an explicit null.
func (o Operation) wire() map[string]any {
	m := map[string]any{"op": string(o.Op), "path": o.Path}
	if o.HasValue() {
		m["value"] = o.Value
	}
	if o.From != "" || o.Op == OpMove || o.Op == OpCopy {
		m["from"] = o.From
	}
	return m
}

// MarshalJSON implements json.Marshaler.
func (o Operation) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.wire())
}

// UnmarshalJSON implements json.Unmarshaler. It records whether "value" was
// present so that a missing value can be told apart from null.
func (o *Operation) UnmarshalJSON(data []byte) error {
	var w struct {
		Op    Op              `json:"op"`
		Path  string          `json:"path"`
		From  string          `json:"from"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*o = Operation{Op: w.Op, Path: w.Path, From: w.From}
	if w.Value != nil {
		o.hasValue = true
		if err := json.Unmarshal(w.Value, &o.Value); err != nil {
			return err
		}
	}
	return nil
}

// PatchApplicationError reports a patch that could not be applied.
type PatchApplicationError struct {
	Operations []Operation
	// TargetKeys are the sorted top-level keys of the target.
	TargetKeys []string
	Err        error
}

func (e *PatchApplicationError) Error() string {
	return fmt.Sprintf("patch: apply %d operation(s) to object with keys %v: %v",
		len(e.Operations), e.TargetKeys, e.Err)
}

func (e *PatchApplicationError) Unwrap() error {
	return e.Err
}

// Apply applies ops to target in order and returns the patched object.
// A nil target is treated as an empty object.
func Apply(target map[string]any, ops []Operation) (map[string]any, error) {
	fail := func(err error) (map[string]any, error) {
		return nil, &PatchApplicationError{
			Operations: ops,
			TargetKeys: keys(target),
			Err:        err,
		}
	}

	if target == nil {
		target = map[string]any{}
	}
	doc, err := json.Marshal(target)
	if err != nil {
		return fail(fmt.Errorf("encode target: %w", err))
	}

	out := doc
	if len(ops) > 0 {
		wire := make([]map[string]any, len(ops))
		for i, op := range ops {
			if op.Op == "" {
				return fail(fmt.Errorf("operation %d: missing op", i))
			}
			if op.needsValue() && !op.HasValue() {
				return fail(fmt.Errorf("operation %d: %s requires a value", i, op.Op))
			}
			wire[i] = op.wire()
		}
		raw, err := json.Marshal(wire)
		if err != nil {
			return fail(fmt.Errorf("encode operations: %w", err))
		}
		p, err := jsonpatch.DecodePatch(raw)
		if err != nil {
			return fail(err)
		}
		out, err = p.Apply(doc)
		if err != nil {
			return fail(err)
		}
	}

	var result map[string]any
	if err := json.Unmarshal(out, &result); err != nil {
		return fail(fmt.Errorf("decode result: %w", err))
	}
	if result == nil {
		// root replaced with null
		return fail(fmt.Errorf("result is not an object"))
	}
	return result, nil
}

// keys returns the sorted top-level keys of m.
func keys(m map[string]any) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	slices.Sort(ks)
	return ks
}
