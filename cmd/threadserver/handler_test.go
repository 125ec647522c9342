package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/uistream"
	"github.com/spetersoncode/uistream/store"
	"github.com/spetersoncode/uistream/thread"
)

func newTestServer(t *testing.T, opts ...thread.Option) (*httptest.Server, *store.Store) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.New(nil, append([]thread.Option{thread.WithLogger(logger)}, opts...)...)
	cfg := &Config{Port: "0", LogLevel: "info", MaxBodyBytes: 1 << 20}
	srv := httptest.NewServer(NewThreadHandler(st, cfg, logger).Routes())
	t.Cleanup(srv.Close)
	return srv, st
}

func post(t *testing.T, srv *httptest.Server, path, contentType, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+path, contentType, strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestCreateAndGetThread(t *testing.T) {
	srv, st := newTestServer(t)

	resp := post(t, srv, "/api/threads", "application/json",
		`{"threadId":"t1","title":"Weather","messages":[{"id":"u1","role":"user","content":"hi"}]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeJSON[thread.Record](t, resp)
	assert.Equal(t, "t1", created.Thread.ID)
	assert.Equal(t, "Weather", created.Thread.Title)

	rec, ok := st.Record("t1")
	require.True(t, ok)
	require.Len(t, rec.Thread.Messages, 1)

	dup := post(t, srv, "/api/threads", "application/json", `{"threadId":"t1"}`)
	assert.Equal(t, http.StatusConflict, dup.StatusCode)

	get, err := http.Get(srv.URL + "/api/threads/t1")
	require.NoError(t, err)
	defer get.Body.Close()
	require.Equal(t, http.StatusOK, get.StatusCode)
	got := decodeJSON[thread.Record](t, get)
	assert.Equal(t, "hi", got.Thread.Messages[0].Text())

	missing, err := http.Get(srv.URL + "/api/threads/nope")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestCreateThread_ConcurrentSameID(t *testing.T) {
	srv, _ := newTestServer(t)

	const callers = 8
	statuses := make([]int, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := http.Post(srv.URL+"/api/threads", "application/json", strings.NewReader(`{"threadId":"shared"}`))
			if err != nil {
				return
			}
			defer resp.Body.Close()
			statuses[i] = resp.StatusCode
		}(i)
	}
	wg.Wait()

	created, conflicts := 0, 0
	for _, status := range statuses {
		switch status {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, callers-1, conflicts)
}

func TestCreateThread_BadBody(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := post(t, srv, "/api/threads", "application/json", `{"threadId":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListAndSwitchThreads(t *testing.T) {
	srv, st := newTestServer(t)
	st.InitThread("b", nil)
	st.InitThread("a", nil)

	resp := post(t, srv, "/api/threads/a/switch", "application/json", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "a", st.Snapshot().CurrentThreadID)

	list, err := http.Get(srv.URL + "/api/threads")
	require.NoError(t, err)
	defer list.Body.Close()
	got := decodeJSON[threadList](t, list)
	assert.Equal(t, "a", got.CurrentThreadID)
	assert.Equal(t, []string{"a", "b", thread.PlaceholderThreadID}, got.ThreadIDs)
}

func TestAddMessage(t *testing.T) {
	srv, st := newTestServer(t)
	st.InitThread("t1", nil)

	resp := post(t, srv, "/api/threads/t1/messages", "application/json", `{"text":"What's the weather?"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	msg := decodeJSON[uistream.Message](t, resp)
	assert.Equal(t, uistream.RoleUser, msg.Role)

	rec, _ := st.Record("t1")
	require.Len(t, rec.Thread.Messages, 1)
	assert.Equal(t, msg.ID, rec.Thread.Messages[0].ID)

	empty := post(t, srv, "/api/threads/t1/messages", "application/json", `{"text":"  "}`)
	assert.Equal(t, http.StatusBadRequest, empty.StatusCode)

	missing := post(t, srv, "/api/threads/nope/messages", "application/json", `{"text":"x"}`)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

const runSSE = `data: {"type":"RUN_STARTED","threadId":"t1","runId":"run_1"}

data: {"type":"TEXT_MESSAGE_START","messageId":"msg_1","role":"assistant"}

data: {"type":"TEXT_MESSAGE_CONTENT","messageId":"msg_1","delta":"Hi"}

data: {"type":"TEXT_MESSAGE_END","messageId":"msg_1"}

data: {"type":"RUN_FINISHED","threadId":"t1","runId":"run_1"}

`

func TestPostEvents(t *testing.T) {
	srv, st := newTestServer(t)

	resp := post(t, srv, "/api/threads/t1/events", "text/event-stream", runSSE)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decodeJSON[eventsResult](t, resp)
	assert.Equal(t, 5, res.Applied)
	assert.Empty(t, res.Error)
	require.NotNil(t, res.Record)
	assert.Equal(t, uistream.StatusComplete, res.Record.Thread.Status)

	rec, ok := st.Record("t1")
	require.True(t, ok)
	require.Len(t, rec.Thread.Messages, 1)
	assert.Equal(t, "Hi", rec.Thread.Messages[0].Text())
}

func TestPostEvents_Failures(t *testing.T) {
	t.Run("integrity violation marks thread error", func(t *testing.T) {
		srv, st := newTestServer(t)
		body := `{"type":"RUN_STARTED","runId":"r"}
{"type":"TEXT_MESSAGE_CONTENT","messageId":"ghost","delta":"x"}
{"type":"RUN_FINISHED","runId":"r"}
`
		resp := post(t, srv, "/api/threads/t1/events", "application/x-ndjson", body)
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		res := decodeJSON[eventsResult](t, resp)
		assert.Equal(t, 1, res.Applied)
		assert.Contains(t, res.Error, "ghost")

		rec, _ := st.Record("t1")
		assert.Equal(t, uistream.StatusError, rec.Thread.Status)
		require.NotNil(t, rec.Streaming.Error)
		assert.Equal(t, "integrity", rec.Streaming.Error.Code)
	})

	t.Run("unknown thread", func(t *testing.T) {
		srv, _ := newTestServer(t)
		resp := post(t, srv, "/api/threads/nope/events", "application/x-ndjson", `{"type":"RUN_FINISHED"}`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("undecodable line", func(t *testing.T) {
		srv, _ := newTestServer(t)
		resp := post(t, srv, "/api/threads/t1/events", "application/x-ndjson", "{oops}\n")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unrecognized type in strict mode", func(t *testing.T) {
		srv, _ := newTestServer(t, thread.WithStrict(true))
		body := `{"type":"RUN_STARTED","runId":"r"}
{"type":"MYSTERY"}
`
		resp := post(t, srv, "/api/threads/t1/events", "application/x-ndjson", body)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("unrecognized type is ignored by default", func(t *testing.T) {
		srv, _ := newTestServer(t)
		body := `{"type":"RUN_STARTED","runId":"r"}
{"type":"MYSTERY"}
{"type":"STEP_STARTED","stepName":"plan"}
`
		resp := post(t, srv, "/api/threads/t1/events", "application/x-ndjson", body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 3, decodeJSON[eventsResult](t, resp).Applied)
	})

	t.Run("body too large", func(t *testing.T) {
		srv, _ := newTestServer(t)
		big := bytes.Repeat([]byte("x"), 2<<20)
		resp := post(t, srv, "/api/threads/t1/events", "application/x-ndjson", string(big))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
