package thread

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spetersoncode/uistream"
	"github.com/spetersoncode/uistream/event"
	"github.com/spetersoncode/uistream/patch"
	"github.com/spetersoncode/uistream/toolargs"
)

// Reducer folds classified events into thread state.
//
// Reduce is a pure function of its inputs apart from the clock and the drift
// diagnostics it logs. A Reducer holds no per-run state and is safe for
// concurrent use, but events for one thread must be reduced in delivery order.
type Reducer struct {
	opts *Options
}

// NewReducer creates a Reducer.
func NewReducer(opts ...Option) *Reducer {
	return &Reducer{opts: ApplyOptions(opts...)}
}

var defaultReducer = NewReducer()

// Reduce applies res to the thread threadID using a default Reducer.
func Reduce(s State, res event.Result, threadID string) (State, error) {
	return defaultReducer.Reduce(s, res, threadID)
}

func (r *Reducer) logger() *slog.Logger {
	if r.opts.Logger != nil {
		return r.opts.Logger
	}
	return slog.Default()
}

func (r *Reducer) now() time.Time {
	if r.opts.Clock != nil {
		return r.opts.Clock()
	}
	return time.Now()
}

// Reduce applies one classified event to the thread threadID and returns the
// next state. Unsupported and unknown events return s unchanged. On error s
// is returned unchanged; errors caused by references to missing or
// contradicting state match uistream.ErrIntegrity.
func (r *Reducer) Reduce(s State, res event.Result, threadID string) (State, error) {
	switch res.Kind {
	case event.KindEvent:
	case event.KindUnsupported:
		r.logger().Warn("ignoring unsupported event", "type", res.WireType, "thread_id", threadID)
		return s, nil
	case event.KindUnknown:
		r.logger().Warn("ignoring unknown custom event", "name", res.Name, "thread_id", threadID)
		return s, nil
	case event.KindUnrecognized:
		if r.opts.Strict {
			return s, res.Err()
		}
		r.logger().Warn("ignoring unrecognized event type", "type", res.WireType, "thread_id", threadID)
		return s, nil
	default:
		return s, fmt.Errorf("thread: unhandled classification %s", res.Kind)
	}

	ev := res.Event
	if ev.Type == event.RunStarted {
		return s.with(threadID, r.runStarted(s.Threads[threadID], threadID, ev)), nil
	}

	rec, ok := s.Threads[threadID]
	if !ok {
		return s, &uistream.ThreadNotFoundError{ThreadID: threadID}
	}
	next, err := r.apply(rec, threadID, ev)
	if err != nil {
		return s, err
	}
	if next == rec {
		return s, nil
	}
	return s.with(threadID, next), nil
}

// runStarted resets the streaming status of rec, creating the record when the
// thread is not known yet. Unknown threads are expected during optimistic
// client flows.
func (r *Reducer) runStarted(rec *Record, threadID string, ev event.Event) *Record {
	now := r.now()
	if rec == nil {
		rec = newRecord(threadID, now)
	}
	start := now
	if ev.Timestamp != nil {
		start = *ev.Timestamp
	}

	next := *rec
	next.Thread.Status = uistream.StatusStreaming
	next.Thread.UpdatedAt = now
	next.Streaming = uistream.StreamingStatus{
		Status:    uistream.StatusStreaming,
		RunID:     ev.RunID,
		StartTime: &start,
	}
	next.Args = toolargs.Buffer{}
	return &next
}

// apply performs every transition except run start. It returns rec itself
// when the event leaves the record unchanged.
func (r *Reducer) apply(rec *Record, threadID string, ev event.Event) (*Record, error) {
	next := *rec
	next.Thread.UpdatedAt = r.now()

	switch ev.Type {
	// Run lifecycle
	case event.RunFinished:
		next.Thread.Status = uistream.StatusComplete
		next.Streaming.Status = uistream.StatusComplete
		next.Streaming.MessageID = ""

	case event.RunError:
		next.Thread.Status = uistream.StatusError
		next.Streaming.Status = uistream.StatusError
		next.Streaming.MessageID = ""
		next.Streaming.Error = &uistream.RunError{Message: ev.ErrorMessage, Code: ev.ErrorCode}

	case event.RunAwaitingInput:
		next.Thread.Status = uistream.StatusWaiting
		next.Streaming.Status = uistream.StatusWaiting
		next.Streaming.PendingToolCallIDs = ev.PendingToolCallIDs

	// Message lifecycle
	case event.MessageStart:
		created := next.Thread.UpdatedAt
		if ev.Timestamp != nil {
			created = *ev.Timestamp
		}
		next.Thread = next.Thread.AppendMessage(&uistream.Message{
			ID:        ev.MessageID,
			Role:      uistream.NormalizeRole(ev.Role),
			Content:   []uistream.ContentBlock{},
			CreatedAt: created,
		})
		next.Streaming.MessageID = ev.MessageID

	case event.MessageContent:
		i := next.Thread.MessageIndex(ev.MessageID)
		if i < 0 {
			return nil, &uistream.MessageNotFoundError{ThreadID: threadID, MessageID: ev.MessageID, Event: string(ev.Type)}
		}
		m := next.Thread.Messages[i].Clone()
		if last := m.LastBlock(); last != nil && last.Type == uistream.BlockText {
			last.Text += ev.Delta
		} else {
			m.Content = append(m.Content, uistream.NewTextBlock(ev.Delta))
		}
		next.Thread = next.Thread.WithMessage(i, m)

	case event.MessageEnd:
		if active := next.Streaming.MessageID; active != "" && active != ev.MessageID {
			return nil, &uistream.IDMismatchError{ThreadID: threadID, Event: string(ev.Type), Active: active, Got: ev.MessageID}
		}
		next.Streaming.MessageID = ""

	// Tool call lifecycle
	case event.ToolCallStart:
		i, err := toolCallParent(&next.Thread, threadID, ev)
		if err != nil {
			return nil, err
		}
		m := next.Thread.Messages[i].Clone()
		m.Content = append(m.Content, uistream.NewToolUseBlock(ev.ToolCallID, ev.ToolCallName))
		next.Thread = next.Thread.WithMessage(i, m)

	case event.ToolCallArgs:
		next.Args = next.Args.Append(ev.ToolCallID, ev.Delta)

	case event.ToolCallEnd:
		input, found, remaining, err := next.Args.Finalize(ev.ToolCallID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", uistream.ErrIntegrity, err)
		}
		if !found {
			return rec, nil
		}
		mi, bi, ok := findBlock(&next.Thread, uistream.BlockToolUse, ev.ToolCallID)
		if !ok {
			return nil, &uistream.BlockNotFoundError{ThreadID: threadID, Type: uistream.BlockToolUse, ID: ev.ToolCallID}
		}
		m := next.Thread.Messages[mi].Clone()
		m.Content[bi].Input = input
		next.Thread = next.Thread.WithMessage(mi, m)
		next.Args = remaining

	case event.ToolCallResult:
		i := next.Thread.MessageIndex(ev.MessageID)
		if i < 0 {
			return nil, &uistream.MessageNotFoundError{ThreadID: threadID, MessageID: ev.MessageID, Event: string(ev.Type)}
		}
		m := next.Thread.Messages[i].Clone()
		m.Content = append(m.Content, uistream.NewToolResultBlock(ev.ToolCallID, ev.Content, false))
		next.Thread = next.Thread.WithMessage(i, m)

	// Components
	case event.ComponentStart:
		i := next.Thread.MessageIndex(ev.MessageID)
		if i < 0 {
			return nil, &uistream.MessageNotFoundError{ThreadID: threadID, MessageID: ev.MessageID, Event: string(ev.Type)}
		}
		m := next.Thread.Messages[i].Clone()
		m.Content = append(m.Content, uistream.NewComponentBlock(ev.ComponentID, ev.ComponentName))
		next.Thread = next.Thread.WithMessage(i, m)

	case event.ComponentPropsDelta, event.ComponentStateDelta:
		mi, bi, ok := findBlock(&next.Thread, uistream.BlockComponent, ev.ComponentID)
		if !ok {
			return nil, &uistream.BlockNotFoundError{ThreadID: threadID, Type: uistream.BlockComponent, ID: ev.ComponentID}
		}
		m := next.Thread.Messages[mi].Clone()
		block := &m.Content[bi]
		if ev.Type == event.ComponentPropsDelta {
			props, err := patch.Apply(block.Props, ev.Operations)
			if err != nil {
				return nil, fmt.Errorf("%w: component %q props: %w", uistream.ErrIntegrity, ev.ComponentID, err)
			}
			block.Props = props
		} else {
			state, err := patch.Apply(block.State, ev.Operations)
			if err != nil {
				return nil, fmt.Errorf("%w: component %q state: %w", uistream.ErrIntegrity, ev.ComponentID, err)
			}
			block.State = state
		}
		if block.StreamingState == uistream.ComponentStarted {
			block.StreamingState = uistream.ComponentStreaming
		}
		next.Thread = next.Thread.WithMessage(mi, m)

	case event.ComponentEnd:
		// Reserved for finalization; the protocol does not define any yet.
		return rec, nil

	default:
		return nil, fmt.Errorf("thread: no transition for event type %q", ev.Type)
	}

	return &next, nil
}

// toolCallParent resolves the message a tool call attaches to: the explicit
// parent when given, otherwise the latest message.
func toolCallParent(t *uistream.Thread, threadID string, ev event.Event) (int, error) {
	if ev.ParentMessageID != "" {
		i := t.MessageIndex(ev.ParentMessageID)
		if i < 0 {
			return -1, &uistream.MessageNotFoundError{ThreadID: threadID, MessageID: ev.ParentMessageID, Event: string(ev.Type)}
		}
		return i, nil
	}
	if len(t.Messages) == 0 {
		return -1, &uistream.MessageNotFoundError{ThreadID: threadID, Event: string(ev.Type)}
	}
	return len(t.Messages) - 1, nil
}

// findBlock locates a block by type and ID, searching the most recent
// messages first.
func findBlock(t *uistream.Thread, typ uistream.BlockType, id string) (msg, block int, ok bool) {
	for i := len(t.Messages) - 1; i >= 0; i-- {
		if j := t.Messages[i].BlockIndex(typ, id); j >= 0 {
			return i, j, true
		}
	}
	return -1, -1, false
}
