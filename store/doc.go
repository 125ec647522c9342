// Package store holds thread state for a host process and persists thread
// snapshots through a pluggable [Adapter].
//
// [Store] wraps the pure reducer from package thread with a mutex so that
// concurrent producers (for example several HTTP requests streaming events)
// are applied one at a time, and readers always observe a complete state.
//
// # Basic Usage
//
//	s := store.New(nil, thread.WithLogger(logger))
//	s.InitThread("thread-1", nil)
//
//	raw, _ := event.Decode(line)
//	if _, err := s.Dispatch("thread-1", raw); uistream.IsIntegrity(err) {
//	    s.MarkError("thread-1", err.Error(), "integrity")
//	}
//
// # Persistence
//
// Persistence happens outside the reducer. Sync writes every thread whose
// record changed since the last sync; Reload and Load read snapshots back:
//
//	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	s := store.New(store.NewRedisAdapter(rdb, ""))
//	if err := s.Load(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Sync(ctx)
//
// Tool-call arguments that are still streaming are not persisted.
package store
