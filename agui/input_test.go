package agui

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/uistream"
)

func TestThreadInput_Prepare(t *testing.T) {
	var in ThreadInput
	require.NoError(t, json.Unmarshal([]byte(`{
		"threadId": "t1",
		"title": "Weather",
		"messages": [{"id": "u1", "role": "user", "content": "hi"}]
	}`), &in))

	id, seed, err := in.Prepare(now)
	require.NoError(t, err)
	assert.Equal(t, "t1", id)
	assert.Equal(t, "t1", seed.ID)
	assert.Equal(t, "Weather", seed.Title)
	assert.Equal(t, uistream.StatusIdle, seed.Status)
	require.Len(t, seed.Messages, 1)
	assert.Equal(t, "hi", seed.Messages[0].Text())
}

func TestThreadInput_GeneratesID(t *testing.T) {
	in := ThreadInput{}
	id, seed, err := in.Prepare(now)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, seed.ID)
	assert.Empty(t, seed.Messages)
}
