package thread

import (
	"time"

	"github.com/spetersoncode/uistream"
	"github.com/spetersoncode/uistream/toolargs"
)

// InitThread creates a record for id if none exists. A non-nil seed supplies
// the initial thread contents, for example history fetched before streaming
// resumes. The seed itself is not modified: the thread is copied with its ID
// replaced by id and its message slice copied, but the *Message values are
// shared with the seed. Messages are never written in place. An existing
// record is left untouched.
func InitThread(s State, id string, seed *uistream.Thread, now time.Time) State {
	if _, ok := s.Threads[id]; ok {
		return s
	}
	r := newRecord(id, now)
	if seed != nil {
		t := *seed
		t.ID = id
		t.Messages = append([]*uistream.Message{}, seed.Messages...)
		if t.Status == "" {
			t.Status = uistream.StatusIdle
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		if t.UpdatedAt.IsZero() {
			t.UpdatedAt = now
		}
		r.Thread = t
	}
	return s.with(id, r)
}

// SwitchThread makes id the current thread. Thread data is not touched.
func SwitchThread(s State, id string) State {
	return State{Threads: s.Threads, CurrentThreadID: id}
}

// StartNewThread resets the placeholder thread to a fresh empty record and
// makes it current. It returns the placeholder ID.
func StartNewThread(s State, now time.Time) (State, string) {
	next := s.with(PlaceholderThreadID, newRecord(PlaceholderThreadID, now))
	next.CurrentThreadID = PlaceholderThreadID
	return next, PlaceholderThreadID
}

// AddUserMessage appends a message created by the host, typically the user's
// turn shown optimistically before the server echoes it.
func AddUserMessage(s State, threadID string, msg *uistream.Message, now time.Time) (State, error) {
	r, ok := s.Threads[threadID]
	if !ok {
		return s, &uistream.ThreadNotFoundError{ThreadID: threadID}
	}
	next := *r
	next.Thread = r.Thread.AppendMessage(msg)
	next.Thread.UpdatedAt = now
	return s.with(threadID, &next), nil
}

// MarkError moves a thread into the error state on behalf of the host, for
// example after a reduction failed with an integrity violation.
func MarkError(s State, threadID, message, code string, now time.Time) (State, error) {
	r, ok := s.Threads[threadID]
	if !ok {
		return s, &uistream.ThreadNotFoundError{ThreadID: threadID}
	}
	next := *r
	next.Thread.Status = uistream.StatusError
	next.Thread.UpdatedAt = now
	next.Streaming.Status = uistream.StatusError
	next.Streaming.MessageID = ""
	next.Streaming.Error = &uistream.RunError{Message: message, Code: code}
	return s.with(threadID, &next), nil
}

// Restore replaces the record for rec.Thread.ID, typically with a snapshot
// loaded from persistence. Pending tool-call arguments are not persisted, so
// the restored record starts with an empty buffer.
func Restore(s State, rec Record) State {
	rec.Args = toolargs.Buffer{}
	return s.with(rec.Thread.ID, &rec)
}
