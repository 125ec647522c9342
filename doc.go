// Package uistream defines the thread model that AG-UI agent event streams
// accumulate into.
//
// A [Thread] is an ordered list of [Message] values. Each message holds typed
// [ContentBlock] values: text, tool_use, tool_result, component and resource.
// Threads and messages are immutable once published; code that changes a
// message copies it with [Message.Clone] first and builds a new thread with
// [Thread.WithMessage] or [Thread.AppendMessage].
//
// # Packages
//
// The module is split by concern:
//
//   - [github.com/spetersoncode/uistream/event]: decodes and classifies wire events
//   - [github.com/spetersoncode/uistream/thread]: the reducer and thread lifecycle
//   - [github.com/spetersoncode/uistream/toolargs]: streaming tool-call argument buffers
//   - [github.com/spetersoncode/uistream/patch]: JSON Patch application for component props and state
//   - [github.com/spetersoncode/uistream/store]: a concurrent state holder with snapshot persistence
//   - [github.com/spetersoncode/uistream/agui]: AG-UI SDK conversion, stream reading and event emission
//
// # Basic Usage
//
// Accumulate a stream into a store:
//
//	st := store.New(nil, thread.WithLogger(logger))
//
//	for raw, err := range agui.ReadEvents(resp.Body) {
//	    if err != nil {
//	        return err
//	    }
//	    if _, err := st.Dispatch(threadID, raw); err != nil {
//	        return err
//	    }
//	}
//
//	rec, _ := st.Record(threadID)
//	fmt.Println(rec.Thread.LastMessage().Text())
//
// # Errors
//
// Events that reference missing threads, messages or blocks, or that close
// the wrong item, fail with one of the error types in this package. All of
// them match [ErrIntegrity]:
//
//	if uistream.IsIntegrity(err) {
//	    // the stream and the thread disagree; the state was not changed
//	}
package uistream
