package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/kenroads/ntsabuddy/internal/chat"
	"github.com/kenroads/ntsabuddy/internal/curriculum"
	"github.com/kenroads/ntsabuddy/internal/llm"
	"github.com/kenroads/ntsabuddy/internal/quiz"
	"github.com/kenroads/ntsabuddy/internal/study"
)

// Providers bundles the three provider roles the handlers call.
type Providers struct {
	Content      study.ContentProvider
	Questions    quiz.QuestionProvider
	Conversation chat.ConversationProvider
}

// Handler serves the study-session endpoints.
//
// Every mutating handler follows the same shape: start the transition under
// the session lock, release it for the provider call, then apply the result
// under the lock again. A request that navigated in between wins; the older
// result is dropped by the session's fencing.
type Handler struct {
	sessions  *Registry
	providers Providers
	log       *zap.Logger
}

// NewHandler creates a handler.
func NewHandler(sessions *Registry, providers Providers, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{sessions: sessions, providers: providers, log: log}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListTopics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, curriculum.All())
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	e := h.sessions.create()
	h.log.Info("session created", zap.String("session_id", e.id))

	e.mu.Lock()
	snap := snapshot(e.id, e.session)
	e.mu.Unlock()
	writeJSON(w, http.StatusCreated, snap)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.respond(w, e)
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.Delete(mux.Vars(r)["id"]) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Session not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SelectTopic(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var req SelectTopicRequest
	if !decode(w, r, &req) {
		return
	}
	topic, found := curriculum.Lookup(req.TopicID)
	if !found {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Unknown topic_id"})
		return
	}

	e.mu.Lock()
	cr := e.session.SelectTopic(topic)
	e.mu.Unlock()

	h.fetchContent(r.Context(), e, cr)
	h.respond(w, e)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var req SearchRequest
	if !decode(w, r, &req) {
		return
	}

	e.mu.Lock()
	cr, started := e.session.Search(req.Query)
	e.mu.Unlock()

	if started {
		h.fetchContent(r.Context(), e, cr)
	}
	h.respond(w, e)
}

func (h *Handler) GoHome(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}
	e.mu.Lock()
	e.session.GoHome()
	e.mu.Unlock()
	h.respond(w, e)
}

func (h *Handler) StartQuiz(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var req StartQuizRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = string(quiz.Easy)
	}
	d, err := quiz.ParseDifficulty(req.Difficulty)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	var topic *curriculum.Topic
	if !req.Mock && req.TopicID != "" {
		t, found := curriculum.Lookup(req.TopicID)
		if !found {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Unknown topic_id"})
			return
		}
		topic = &t
	}

	e.mu.Lock()
	if !req.Mock && topic == nil {
		topic = e.session.Topic()
	}
	qr := e.session.StartQuiz(topic, d)
	e.mu.Unlock()

	res := qr.Fetch(h.ctx(r.Context(), e), h.providers.Questions)

	e.mu.Lock()
	if !e.session.ApplyQuiz(res) {
		h.log.Debug("stale quiz dropped", zap.String("session_id", e.id), zap.Uint64("ticket", res.Ticket))
	}
	e.mu.Unlock()
	h.respond(w, e)
}

func (h *Handler) Answer(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var req AnswerRequest
	if !decode(w, r, &req) {
		return
	}

	e.mu.Lock()
	correct, accepted := e.session.Quiz().SubmitAnswer(req.Option)
	resp := AnswerResponse{
		Accepted: accepted,
		Correct:  correct,
		Session:  snapshot(e.id, e.session),
	}
	e.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) NextQuestion(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}
	e.mu.Lock()
	e.session.Quiz().Advance()
	e.mu.Unlock()
	h.respond(w, e)
}

func (h *Handler) QuitQuiz(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}
	e.mu.Lock()
	cr, reload := e.session.QuitQuiz()
	e.mu.Unlock()

	if reload {
		h.fetchContent(r.Context(), e, cr)
	}
	h.respond(w, e)
}

func (h *Handler) SendChat(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var req ChatRequest
	if !decode(w, r, &req) {
		return
	}

	e.mu.Lock()
	pending := e.session.Chat().Pending()
	cr, started := e.session.SendChat(req.Text)
	e.mu.Unlock()

	if !started {
		status, msg := http.StatusBadRequest, "text must not be blank"
		if pending {
			status, msg = http.StatusConflict, "A reply is already pending"
		}
		writeJSON(w, status, ErrorResponse{Error: msg})
		return
	}

	reply := cr.Fetch(h.ctx(r.Context(), e), h.providers.Conversation)

	e.mu.Lock()
	e.session.ApplyChat(reply)
	e.mu.Unlock()
	h.respond(w, e)
}

func (h *Handler) fetchContent(ctx context.Context, e *entry, cr study.ContentRequest) {
	res := cr.Fetch(h.ctx(ctx, e), h.providers.Content)

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.session.ApplyContent(res) {
		h.log.Debug("stale content dropped", zap.String("session_id", e.id), zap.Uint64("gen", res.Gen))
	}
}

// ctx tags provider calls with the session for the event log. The request
// context is detached so a client hanging up does not turn a finished
// generation into fallback text for the next poll.
func (h *Handler) ctx(parent context.Context, e *entry) context.Context {
	return llm.WithSession(context.WithoutCancel(parent), e.id)
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*entry, bool) {
	e, ok := h.sessions.get(mux.Vars(r)["id"])
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Session not found"})
	}
	return e, ok
}

func (h *Handler) respond(w http.ResponseWriter, e *entry) {
	e.mu.Lock()
	snap := snapshot(e.id, e.session)
	e.mu.Unlock()
	writeJSON(w, http.StatusOK, snap)
}

// decode reads a JSON body. An empty body decodes to the zero value.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
