package thread

import (
	"maps"
	"time"

	"github.com/spetersoncode/uistream"
	"github.com/spetersoncode/uistream/toolargs"
)

// PlaceholderThreadID identifies the thread that exists before the server has
// assigned a real thread ID.
const PlaceholderThreadID = "placeholder"

// Record bundles everything known about one thread. Records are immutable
// once published in a State.
type Record struct {
	Thread    uistream.Thread          `json:"thread"`
	Streaming uistream.StreamingStatus `json:"streaming"`
	// Args holds tool-call arguments still streaming for the active run.
	Args toolargs.Buffer `json:"-"`
}

// newRecord creates an idle record for an empty thread.
func newRecord(id string, now time.Time) *Record {
	return &Record{
		Thread:    uistream.NewThread(id, now),
		Streaming: uistream.StreamingStatus{Status: uistream.StatusIdle},
	}
}

// State maps thread IDs to thread records and tracks the thread in focus.
//
// State is a value: every transition returns a new State whose Threads map is
// a fresh copy, while untouched records are shared by pointer.
type State struct {
	Threads         map[string]*Record `json:"threads"`
	CurrentThreadID string             `json:"currentThreadId"`
}

// NewState creates a state holding only the placeholder thread, which is current.
func NewState(now time.Time) State {
	return State{
		Threads:         map[string]*Record{PlaceholderThreadID: newRecord(PlaceholderThreadID, now)},
		CurrentThreadID: PlaceholderThreadID,
	}
}

// Record returns the record for id.
func (s State) Record(id string) (*Record, bool) {
	r, ok := s.Threads[id]
	return r, ok
}

// Current returns the record of the thread in focus, or nil.
func (s State) Current() *Record {
	return s.Threads[s.CurrentThreadID]
}

// with returns a state in which id maps to r.
func (s State) with(id string, r *Record) State {
	threads := make(map[string]*Record, len(s.Threads)+1)
	maps.Copy(threads, s.Threads)
	threads[id] = r
	return State{Threads: threads, CurrentThreadID: s.CurrentThreadID}
}
