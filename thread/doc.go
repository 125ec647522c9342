// Package thread folds classified stream events into immutable multi-thread state.
//
// # Overview
//
// A [State] maps thread IDs to [Record] values (thread, streaming status and
// pending tool-call arguments) and names the thread currently in focus. The
// [Reducer] is the only code that changes records in response to events;
// the lifecycle functions [InitThread], [SwitchThread] and [StartNewThread]
// are driven explicitly by the host application.
//
// # Usage
//
//	state := thread.NewState(time.Now())
//	reducer := thread.NewReducer(thread.WithLogger(logger))
//
//	for raw := range wireEvents {
//	    res, err := event.Classify(raw)
//	    if err != nil {
//	        return err
//	    }
//	    state, err = reducer.Reduce(state, res, threadID)
//	    if err != nil {
//	        return err // integrity violation; state is unchanged
//	    }
//	    render(state)
//	}
//
// # Run states
//
// A thread moves idle -> streaming -> complete | error | waiting. A waiting
// thread resumes with a new RUN_STARTED. Complete and error threads only
// leave those states through a new RUN_STARTED, which resets the streaming
// status.
//
// # Sharing
//
// Every transition returns a new State. Records and messages that the event
// did not touch are shared with the previous state by pointer, so callers
// must treat everything reachable from a State as read-only.
package thread
