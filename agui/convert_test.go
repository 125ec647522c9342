package agui

import (
	"testing"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/uistream"
	"github.com/spetersoncode/uistream/patch"
	"github.com/spetersoncode/uistream/store"
)

func TestFromEvent(t *testing.T) {
	raw, err := FromEvent(events.NewTextMessageContentEvent("msg-1", "Hi"))
	require.NoError(t, err)
	assert.Equal(t, events.EventTypeTextMessageContent, raw.Type)
	assert.Equal(t, "msg-1", raw.MessageID)
	assert.Equal(t, "Hi", raw.Delta)

	_, err = FromEvent(nil)
	assert.Error(t, err)
}

func TestFromEvents_RunThroughStore(t *testing.T) {
	e := NewEmitter("t1", "run-1")

	var seq []events.Event
	seq = append(seq, e.RunStarted())
	seq = append(seq, e.Text("msg-1", RoleAssistant, "Checking ", "the weather.")...)
	seq = append(seq, e.ToolCall("msg-1", "tc-1", "get_weather", `{"city":`, `"NYC"}`)...)
	seq = append(seq,
		e.ComponentStart("msg-1", "card-1", "WeatherCard"),
		e.ComponentProps("card-1", patch.Add("/city", "NYC")),
		e.ComponentProps("card-1", patch.Add("/temp", 72)),
		e.ComponentState("card-1", patch.Add("/expanded", false)),
		e.ComponentEnd("card-1"),
	)
	seq = append(seq, e.Text("msg-2", RoleTool)...)
	seq = append(seq, e.ToolResult("msg-2", "tc-1", "72F and sunny"), e.RunFinished())

	raws, err := FromEvents(seq)
	require.NoError(t, err)

	st := store.New(nil)
	for _, raw := range raws {
		_, err := st.Dispatch("t1", raw)
		require.NoError(t, err, raw.Type)
	}

	rec, ok := st.Record("t1")
	require.True(t, ok)
	assert.Equal(t, uistream.StatusComplete, rec.Thread.Status)
	require.Len(t, rec.Thread.Messages, 2)

	first := rec.Thread.Messages[0]
	require.Len(t, first.Content, 3)
	assert.Equal(t, "Checking the weather.", first.Content[0].Text)
	assert.Equal(t, map[string]any{"city": "NYC"}, first.Content[1].Input)
	card := first.Content[2]
	assert.Equal(t, "WeatherCard", card.Name)
	assert.Equal(t, map[string]any{"city": "NYC", "temp": float64(72)}, card.Props)
	assert.Equal(t, map[string]any{"expanded": false}, card.State)

	second := rec.Thread.Messages[1]
	assert.Equal(t, uistream.RoleAssistant, second.Role)
	require.Len(t, second.Content, 1)
	assert.Equal(t, uistream.NewToolResultBlock("tc-1", "72F and sunny", false), second.Content[0])
}

func TestFromEvents_RunError(t *testing.T) {
	e := NewEmitter("t1", "run-1")
	raws, err := FromEvents([]events.Event{e.RunStarted(), e.RunError(assert.AnError, "UPSTREAM")})
	require.NoError(t, err)

	st := store.New(nil)
	for _, raw := range raws {
		_, err := st.Dispatch("t1", raw)
		require.NoError(t, err)
	}

	rec, _ := st.Record("t1")
	assert.Equal(t, uistream.StatusError, rec.Thread.Status)
	require.NotNil(t, rec.Streaming.Error)
	assert.Equal(t, assert.AnError.Error(), rec.Streaming.Error.Message)
	assert.Equal(t, "UPSTREAM", rec.Streaming.Error.Code)
}
