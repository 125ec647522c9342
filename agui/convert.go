package agui

import (
	"fmt"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/uistream/event"
)

// FromEvent converts an SDK event into the wire record the classifier reads.
// The conversion goes through the event's JSON encoding, so the result is
// exactly what a remote consumer of the same event would decode.
func FromEvent(ev events.Event) (event.Raw, error) {
	if ev == nil {
		return event.Raw{}, fmt.Errorf("agui: nil event")
	}
	data, err := ev.ToJSON()
	if err != nil {
		return event.Raw{}, fmt.Errorf("agui: encode %s: %w", ev.Type(), err)
	}
	return event.Decode(data)
}

// FromEvents converts a sequence of SDK events, stopping at the first failure.
func FromEvents(evs []events.Event) ([]event.Raw, error) {
	out := make([]event.Raw, 0, len(evs))
	for i, ev := range evs {
		raw, err := FromEvent(ev)
		if err != nil {
			return nil, fmt.Errorf("agui: event %d: %w", i, err)
		}
		out = append(out, raw)
	}
	return out, nil
}
