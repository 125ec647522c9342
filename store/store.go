package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spetersoncode/uistream"
	"github.com/spetersoncode/uistream/event"
	"github.com/spetersoncode/uistream/thread"
)

// Store holds the current thread state for a host and serializes every
// transition. Readers get complete snapshots; a snapshot is never modified
// after it is published.
type Store struct {
	mu      sync.RWMutex
	state   thread.State
	reducer *thread.Reducer
	adapter Adapter
	logger  *slog.Logger
	clock   func() time.Time

	// synced holds the record last written for each thread. Records are
	// immutable, so pointer equality means nothing changed since.
	synced map[string]*thread.Record
}

// New creates a Store with the given adapter and reducer options.
// If adapter is nil, a default in-memory adapter is used.
func New(adapter Adapter, opts ...thread.Option) *Store {
	if adapter == nil {
		adapter = NewMemoryAdapter()
	}
	o := thread.ApplyOptions(opts...)
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := o.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Store{
		state:   thread.NewState(clock()),
		reducer: thread.NewReducer(opts...),
		adapter: adapter,
		logger:  logger,
		clock:   clock,
		synced:  make(map[string]*thread.Record),
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() thread.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Record returns the current record for a thread.
func (s *Store) Record(threadID string) (*thread.Record, bool) {
	return s.Snapshot().Record(threadID)
}

// Dispatch classifies raw and reduces it into the thread threadID. An empty
// threadID targets the current thread. On error the state is unchanged.
func (s *Store) Dispatch(threadID string, raw event.Raw) (thread.State, error) {
	res, err := event.Classify(raw)
	if err != nil {
		return s.Snapshot(), err
	}
	return s.DispatchResult(threadID, res)
}

// DispatchResult reduces an already classified event.
func (s *Store) DispatchResult(threadID string, res event.Result) (thread.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if threadID == "" {
		threadID = s.state.CurrentThreadID
	}
	next, err := s.reducer.Reduce(s.state, res, threadID)
	if err != nil {
		s.logger.Debug("event rejected", "thread_id", threadID, "type", res.WireType, "error", err)
		return s.state, err
	}
	s.state = next
	return next, nil
}

// InitThread creates a thread, optionally seeded with history.
func (s *Store) InitThread(id string, seed *uistream.Thread) thread.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = thread.InitThread(s.state, id, seed, s.clock())
	return s.state
}

// CreateThread is InitThread that reports whether it created the thread. It
// returns false, leaving the state unchanged, when a record for id exists.
func (s *Store) CreateThread(id string, seed *uistream.Thread) (thread.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.state.Threads[id]; exists {
		return s.state, false
	}
	s.state = thread.InitThread(s.state, id, seed, s.clock())
	return s.state, true
}

// SwitchThread focuses the thread id.
func (s *Store) SwitchThread(id string) thread.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = thread.SwitchThread(s.state, id)
	return s.state
}

// StartNewThread resets and focuses the placeholder thread.
func (s *Store) StartNewThread() (thread.State, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, id := thread.StartNewThread(s.state, s.clock())
	s.state = next
	return next, id
}

// AddUserMessage appends a user message with the given text to a thread and
// returns the message.
func (s *Store) AddUserMessage(threadID, text string) (*uistream.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock()
	msg := uistream.NewUserMessage(text, now)
	next, err := thread.AddUserMessage(s.state, threadID, msg, now)
	if err != nil {
		return nil, err
	}
	s.state = next
	return msg, nil
}

// MarkError moves a thread into the error state.
func (s *Store) MarkError(threadID, message, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := thread.MarkError(s.state, threadID, message, code, s.clock())
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// Sync writes every thread that changed since the last sync to the adapter.
func (s *Store) Sync(ctx context.Context) error {
	s.mu.RLock()
	state := s.state
	s.mu.RUnlock()

	written := 0
	for id, rec := range state.Threads {
		if s.isSynced(id, rec) {
			continue
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return &SerializationError{ThreadID: id, Err: err}
		}
		if err := s.adapter.Set(ctx, id, data); err != nil {
			return err
		}
		s.markSynced(id, rec)
		written++
	}
	s.logger.Debug("store synced", "threads", written)
	return nil
}

// Reload replaces a thread with its persisted snapshot. Streaming tool-call
// arguments are not persisted and start empty.
func (s *Store) Reload(ctx context.Context, threadID string) error {
	data, ok, err := s.adapter.Get(ctx, threadID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotPersisted, threadID)
	}
	var rec thread.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return &SerializationError{ThreadID: threadID, Err: err}
	}
	if rec.Thread.ID != threadID {
		return &SerializationError{ThreadID: threadID, Err: fmt.Errorf("snapshot holds thread %q", rec.Thread.ID)}
	}

	s.mu.Lock()
	s.state = thread.Restore(s.state, rec)
	restored := s.state.Threads[threadID]
	s.mu.Unlock()
	s.markSynced(threadID, restored)
	return nil
}

// Load reloads every persisted thread.
func (s *Store) Load(ctx context.Context) error {
	ids, err := s.adapter.Keys(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.Reload(ctx, id); err != nil {
			return err
		}
	}
	s.logger.Info("threads loaded", "count", len(ids))
	return nil
}

// Forget deletes a thread's persisted snapshot. The in-memory record is kept.
func (s *Store) Forget(ctx context.Context, threadID string) error {
	if err := s.adapter.Delete(ctx, threadID); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.synced, threadID)
	s.mu.Unlock()
	return nil
}

func (s *Store) isSynced(id string, rec *thread.Record) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.synced[id] == rec
}

func (s *Store) markSynced(id string, rec *thread.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.synced[id] = rec
}
