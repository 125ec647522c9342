// Package agui connects the thread accumulator to the AG-UI protocol SDK.
//
// AG-UI (Agent-User Interface) is an event-based protocol for streaming agent
// output to user-facing applications. Generative UI components travel inside
// CUSTOM envelopes whose names are listed in package event.
//
// # Overview
//
// This package provides:
//   - [FromEvent]: converts SDK events into [event.Raw] records for classification
//   - [ReadEvents]: decodes an SSE or JSON-lines response body
//   - [Emitter]: builds the AG-UI events of one run, component events included
//   - Message conversion utilities: [FromMessages], [ToMessages]
//   - [ThreadInput]: the request that opens a thread with prior history
//
// # Usage
//
// Consume an agent response stream:
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
// Produce events with the SDK and feed them straight into a store:
//
//	em := agui.NewEmitter(threadID, "")
//	raw, err := agui.FromEvent(em.ComponentStart("msg-1", "card-1", "WeatherCard"))
//
// # Message Conversion
//
// Use [FromMessages] to seed a thread from an AG-UI history:
//
//	msgs, err := agui.FromMessages(history, time.Now())
//	st.InitThread(threadID, &uistream.Thread{Messages: msgs})
//
// Use [ToMessages] to send a thread back to an agent:
//
//	msgs, err := agui.ToMessages(&rec.Thread)
//	if err != nil {
//	    return err
//	}
//	snapshot := events.NewMessagesSnapshotEvent(msgs)
package agui
