package uistream

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func TestRoleConstants(t *testing.T) {
	assert.Equal(t, Role("user"), RoleUser)
	assert.Equal(t, Role("assistant"), RoleAssistant)
}

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		role     string
		expected Role
	}{
		{"user", RoleUser},
		{"assistant", RoleAssistant},
		{"system", RoleAssistant},
		{"tool", RoleAssistant},
		{"", RoleAssistant},
		{"USER", RoleAssistant},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeRole(tt.role))
		})
	}
}

func TestBlockConstructors(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		assert.Equal(t, ContentBlock{Type: BlockText, Text: "hi"}, NewTextBlock("hi"))
	})

	t.Run("tool use starts with empty input", func(t *testing.T) {
		b := NewToolUseBlock("tc1", "get_weather")
		assert.Equal(t, BlockToolUse, b.Type)
		assert.Equal(t, "tc1", b.ID)
		assert.Equal(t, "get_weather", b.Name)
		assert.NotNil(t, b.Input)
		assert.Empty(t, b.Input)
	})

	t.Run("tool result wraps content in a text block", func(t *testing.T) {
		b := NewToolResultBlock("tc1", "72F", true)
		assert.Equal(t, BlockToolResult, b.Type)
		assert.Equal(t, "tc1", b.ToolUseID)
		assert.True(t, b.IsError)
		assert.Equal(t, []ContentBlock{NewTextBlock("72F")}, b.Content)
	})

	t.Run("component starts empty", func(t *testing.T) {
		b := NewComponentBlock("c1", "WeatherCard")
		assert.Equal(t, BlockComponent, b.Type)
		assert.Equal(t, ComponentStarted, b.StreamingState)
		assert.Empty(t, b.Props)
		assert.Nil(t, b.State)
	})

	t.Run("resource", func(t *testing.T) {
		b := NewResourceBlock(Resource{URI: "file:///a.txt", MimeType: "text/plain"})
		require.NotNil(t, b.Resource)
		assert.Equal(t, "file:///a.txt", b.Resource.URI)
	})
}

func TestNewUserMessage(t *testing.T) {
	m := NewUserMessage("hello", testNow)

	assert.True(t, strings.HasPrefix(m.ID, "msg-"))
	assert.Equal(t, RoleUser, m.Role)
	assert.Equal(t, testNow, m.CreatedAt)
	assert.Equal(t, "hello", m.Text())
	assert.NotEqual(t, m.ID, NewUserMessage("hello", testNow).ID)
}

func TestMessage_Clone(t *testing.T) {
	orig := &Message{ID: "m1", Role: RoleAssistant, Content: []ContentBlock{NewTextBlock("a")}}

	c := orig.Clone()
	c.Content[0].Text = "changed"
	c.Content = append(c.Content, NewTextBlock("b"))
	c.Role = RoleUser

	assert.Equal(t, "a", orig.Content[0].Text)
	assert.Len(t, orig.Content, 1)
	assert.Equal(t, RoleAssistant, orig.Role)
	assert.Equal(t, "changedb", c.Text())
}

func TestMessage_Text(t *testing.T) {
	m := &Message{Content: []ContentBlock{
		NewTextBlock("Checking "),
		NewToolUseBlock("tc1", "lookup"),
		NewTextBlock("done."),
	}}
	assert.Equal(t, "Checking done.", m.Text())
	assert.Empty(t, (&Message{}).Text())
}

func TestMessage_LastBlockAndBlockIndex(t *testing.T) {
	m := &Message{}
	assert.Nil(t, m.LastBlock())

	m.Content = []ContentBlock{
		NewToolUseBlock("x", "first"),
		NewTextBlock("between"),
		NewToolUseBlock("x", "second"),
		NewComponentBlock("c", "Card"),
	}

	assert.Equal(t, BlockComponent, m.LastBlock().Type)
	assert.Equal(t, 2, m.BlockIndex(BlockToolUse, "x"), "searches from the end")
	assert.Equal(t, 3, m.BlockIndex(BlockComponent, "c"))
	assert.Equal(t, -1, m.BlockIndex(BlockComponent, "x"))
}

func TestMessage_JSON(t *testing.T) {
	m := &Message{
		ID:        "m1",
		Role:      RoleAssistant,
		CreatedAt: testNow,
		Content: []ContentBlock{
			NewTextBlock("hi"),
			{Type: BlockComponent, ID: "c", Name: "Card", Props: map[string]any{"title": "X"}, StreamingState: ComponentDone},
		},
	}

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "m1",
		"role": "assistant",
		"createdAt": "2026-01-02T03:04:05Z",
		"content": [
			{"type": "text", "text": "hi"},
			{"type": "component", "id": "c", "name": "Card", "props": {"title": "X"}, "streamingState": "done"}
		]
	}`, string(data))
}

func TestThread(t *testing.T) {
	th := NewThread("t1", testNow)
	assert.Equal(t, StatusIdle, th.Status)
	assert.NotNil(t, th.Messages)
	assert.Nil(t, th.LastMessage())
	assert.Equal(t, -1, th.MessageIndex("m1"))

	m1 := &Message{ID: "m1"}
	m2 := &Message{ID: "m2"}
	next := th.AppendMessage(m1).AppendMessage(m2)

	assert.Empty(t, th.Messages, "append copies the slice")
	assert.Same(t, m2, next.LastMessage())
	assert.Same(t, m1, next.Message("m1"))
	assert.Nil(t, next.Message("missing"))

	replaced := next.WithMessage(0, &Message{ID: "m1", Role: RoleUser})
	assert.Equal(t, RoleUser, replaced.Messages[0].Role)
	assert.Same(t, m1, next.Messages[0], "original thread keeps its message")
	assert.Same(t, m2, replaced.Messages[1], "other messages are shared")
}
