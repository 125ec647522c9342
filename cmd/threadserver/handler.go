package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spetersoncode/uistream"
	"github.com/spetersoncode/uistream/agui"
	"github.com/spetersoncode/uistream/event"
	"github.com/spetersoncode/uistream/store"
	"github.com/spetersoncode/uistream/thread"
)

type ctxKey struct{}

// ThreadHandler serves the thread store over HTTP.
type ThreadHandler struct {
	store  *store.Store
	config *Config
	logger *slog.Logger
	now    func() time.Time
}

// NewThreadHandler creates a handler for the given store.
func NewThreadHandler(st *store.Store, cfg *Config, logger *slog.Logger) *ThreadHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ThreadHandler{store: st, config: cfg, logger: logger, now: time.Now}
}

// Routes returns the HTTP routes of the handler.
func (h *ThreadHandler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler)
	mux.HandleFunc("GET /api/threads", h.listThreads)
	mux.HandleFunc("POST /api/threads", h.createThread)
	mux.HandleFunc("GET /api/threads/{id}", h.getThread)
	mux.HandleFunc("POST /api/threads/{id}/switch", h.switchThread)
	mux.HandleFunc("POST /api/threads/{id}/messages", h.addMessage)
	mux.HandleFunc("POST /api/threads/{id}/events", h.postEvents)
	return corsMiddleware(h.requestLogger(mux))
}

// requestLogger attaches a request-scoped logger carrying a request ID.
func (h *ThreadHandler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		log := h.logger.With("request_id", requestID, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, log)))
	})
}

func (h *ThreadHandler) log(r *http.Request) *slog.Logger {
	if log, ok := r.Context().Value(ctxKey{}).(*slog.Logger); ok {
		return log
	}
	return h.logger
}

type threadList struct {
	CurrentThreadID string   `json:"currentThreadId"`
	ThreadIDs       []string `json:"threadIds"`
}

func (h *ThreadHandler) listThreads(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot()
	list := threadList{CurrentThreadID: snap.CurrentThreadID, ThreadIDs: make([]string, 0, len(snap.Threads))}
	for id := range snap.Threads {
		list.ThreadIDs = append(list.ThreadIDs, id)
	}
	slices.Sort(list.ThreadIDs)
	writeJSON(w, http.StatusOK, list)
}

func (h *ThreadHandler) createThread(w http.ResponseWriter, r *http.Request) {
	log := h.log(r)

	var input agui.ThreadInput
	if !h.decodeBody(w, r, &input) {
		return
	}
	id, seed, err := input.Prepare(h.now())
	if err != nil {
		log.Warn("invalid thread input", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	snap, created := h.store.CreateThread(id, seed)
	if !created {
		writeError(w, http.StatusConflict, "thread already exists: "+id)
		return
	}
	h.sync(r)
	log.Info("thread created", "thread_id", id, "message_count", len(seed.Messages))
	writeJSON(w, http.StatusCreated, snap.Threads[id])
}

func (h *ThreadHandler) getThread(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, ok := h.store.Record(id)
	if !ok {
		writeError(w, http.StatusNotFound, "thread not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *ThreadHandler) switchThread(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	snap := h.store.SwitchThread(id)
	h.log(r).Debug("switched thread", "thread_id", id)
	writeJSON(w, http.StatusOK, map[string]string{"currentThreadId": snap.CurrentThreadID})
}

type messageInput struct {
	Text string `json:"text"`
}

func (h *ThreadHandler) addMessage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var input messageInput
	if !h.decodeBody(w, r, &input) {
		return
	}
	if strings.TrimSpace(input.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	msg, err := h.store.AddUserMessage(id, input.Text)
	var notFound *uistream.ThreadNotFoundError
	if errors.As(err, &notFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.sync(r)
	writeJSON(w, http.StatusCreated, msg)
}

type eventsResult struct {
	Applied int            `json:"applied"`
	Error   string         `json:"error,omitempty"`
	Record  *thread.Record `json:"record,omitempty"`
}

// postEvents reduces an SSE or JSON-lines body into the thread. Events are
// applied in order until one fails; an integrity failure moves the thread
// into the error state.
func (h *ThreadHandler) postEvents(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	log := h.log(r).With("thread_id", id)
	start := h.now()
	body := http.MaxBytesReader(w, r.Body, int64(h.config.MaxBodyBytes))

	applied := 0
	for raw, err := range agui.ReadEvents(body) {
		if err != nil {
			log.Warn("unreadable event", "applied", applied, "error", err)
			h.respondEvents(w, id, http.StatusBadRequest, applied, err)
			return
		}
		if _, err := h.store.Dispatch(id, raw); err != nil {
			h.rejectEvent(w, r, log, id, raw, applied, err)
			return
		}
		applied++
	}

	h.sync(r)
	log.Info("events applied", "applied", applied, "duration_ms", h.now().Sub(start).Milliseconds())
	h.respondEvents(w, id, http.StatusOK, applied, nil)
}

func (h *ThreadHandler) rejectEvent(w http.ResponseWriter, r *http.Request, log *slog.Logger, id string, raw event.Raw, applied int, err error) {
	var notFound *uistream.ThreadNotFoundError
	switch {
	case errors.As(err, &notFound):
		log.Warn("event for unknown thread", "type", raw.Type, "error", err)
		h.respondEvents(w, id, http.StatusNotFound, applied, err)
	case uistream.IsIntegrity(err), errors.Is(err, event.ErrUnrecognizedType):
		log.Error("event rejected", "type", raw.Type, "applied", applied, "error", err)
		if markErr := h.store.MarkError(id, err.Error(), "integrity"); markErr != nil {
			log.Error("failed to mark thread error", "error", markErr)
		}
		h.sync(r)
		h.respondEvents(w, id, http.StatusUnprocessableEntity, applied, err)
	default:
		log.Error("event failed", "type", raw.Type, "error", err)
		h.respondEvents(w, id, http.StatusInternalServerError, applied, err)
	}
}

func (h *ThreadHandler) respondEvents(w http.ResponseWriter, id string, status, applied int, err error) {
	res := eventsResult{Applied: applied}
	if err != nil {
		res.Error = err.Error()
	}
	if rec, ok := h.store.Record(id); ok {
		res.Record = rec
	}
	writeJSON(w, status, res)
}

// sync persists changed threads. Failures are logged; the in-memory state
// stays authoritative.
func (h *ThreadHandler) sync(r *http.Request) {
	if err := h.store.Sync(r.Context()); err != nil {
		h.log(r).Error("failed to persist threads", "error", err)
	}
}

func (h *ThreadHandler) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, int64(h.config.MaxBodyBytes))
	if err := json.NewDecoder(body).Decode(v); err != nil {
		h.log(r).Warn("invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// corsMiddleware adds CORS headers for cross-origin frontend requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// healthHandler returns a simple health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
