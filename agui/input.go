package agui

import (
	"time"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/uistream"
)

// ThreadInput is the request that opens a thread on a host, optionally with
// history the client already holds. Messages use the AG-UI message format.
type ThreadInput struct {
	ThreadID string           `json:"threadId"`
	Title    string           `json:"title,omitempty"`
	Messages []events.Message `json:"messages,omitempty"`
	Metadata map[string]any   `json:"metadata,omitempty"`
}

// Prepare converts the input into a seed for thread.InitThread. A missing
// thread ID is generated.
func (in *ThreadInput) Prepare(now time.Time) (string, *uistream.Thread, error) {
	id := in.ThreadID
	if id == "" {
		id = events.GenerateThreadID()
	}
	msgs, err := FromMessages(in.Messages, now)
	if err != nil {
		return "", nil, err
	}
	seed := uistream.NewThread(id, now)
	seed.Title = in.Title
	seed.Metadata = in.Metadata
	seed.Messages = msgs
	return id, &seed, nil
}
