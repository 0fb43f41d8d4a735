// Package handlers exposes the analysis core over a thin JSON API. Handlers
// only move plain data in and out; all semantics live in the pipeline.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dvloznov/subscope/internal/api/middleware"
	"github.com/dvloznov/subscope/internal/pipeline"
	"github.com/dvloznov/subscope/internal/session"
	"github.com/dvloznov/subscope/internal/statement"
)

// maxStatementBytes caps uploaded statement size.
const maxStatementBytes = 10 << 20 // 10 MiB

// SessionsHandler handles analysis session endpoints.
type SessionsHandler struct {
	store    *session.Store
	analyzer *pipeline.Analyzer
	log      zerolog.Logger
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(store *session.Store, analyzer *pipeline.Analyzer, log zerolog.Logger) *SessionsHandler {
	return &SessionsHandler{
		store:    store,
		analyzer: analyzer,
		log:      log,
	}
}

// CreateSession handles POST /api/sessions. The request body is the raw
// statement file; the response is the new session with its detected
// subscriptions. Each upload runs the full load-and-detect pipeline once.
func (h *SessionsHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxStatementBytes))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	if len(raw) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Statement file is empty")
		return
	}

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		filename = "statement.csv"
	}

	state := &pipeline.AnalysisState{Raw: raw}
	if err := pipeline.NewAnalysisPipeline(h.analyzer).Execute(ctx, state); err != nil {
		h.writePipelineError(w, err)
		return
	}

	sess := session.New(filename, len(state.Records), state.Subscriptions)
	if err := h.store.Save(sess); err != nil {
		h.log.Error().Err(err).Msg("Failed to save session")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	h.log.Info().
		Str("session_id", sess.ID).
		Str("filename", filename).
		Int("subscriptions", len(sess.Subscriptions)).
		Msg("Session created")

	middleware.WriteJSON(w, http.StatusCreated, sess)
}

// ListSessions handles GET /api/sessions.
func (h *SessionsHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := h.store.List()
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// GetSubscriptions handles GET /api/sessions/{id}/subscriptions.
func (h *SessionsHandler) GetSubscriptions(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"subscriptions": sess.Subscriptions,
		"count":         len(sess.Subscriptions),
	})
}

// GetSavingTips handles GET /api/sessions/{id}/tips.
func (h *SessionsHandler) GetSavingTips(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"tips": pipeline.AdvisoryTexts(pipeline.SavingTips(sess.Subscriptions)),
	})
}

// GetAlternatives handles GET /api/sessions/{id}/alternatives. This issues
// its own model round trip on every call; results are never cached.
func (h *SessionsHandler) GetAlternatives(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	alternatives, err := h.analyzer.SuggestAlternatives(r.Context(), sess.Subscriptions)
	if err != nil {
		h.writePipelineError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"alternatives": pipeline.AdvisoryTexts(alternatives),
	})
}

// GetReminders handles GET /api/sessions/{id}/reminders.
func (h *SessionsHandler) GetReminders(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	reminders, err := h.analyzer.Reminders(r.Context(), sess.Subscriptions)
	if err != nil {
		h.writePipelineError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"reminders": pipeline.AdvisoryTexts(reminders),
		"email":     pipeline.ComposeReminderEmail(reminders),
	})
}

// GetSummary handles GET /api/sessions/{id}/summary.
func (h *SessionsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"monthly_totals": pipeline.MonthlyTotals(sess.Subscriptions),
	})
}

// Ask handles POST /api/sessions/{id}/ask with body {"question": "..."}.
func (h *SessionsHandler) Ask(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Question == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Question is required")
		return
	}

	answer, err := h.analyzer.Answer(r.Context(), sess.Subscriptions, req.Question)
	if err != nil {
		h.writePipelineError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"answer": answer,
	})
}

// lookup resolves the {id} path value to a session or writes a 404.
func (h *SessionsHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := h.store.Get(r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return sess, true
}

// writePipelineError maps core error kinds to HTTP statuses: an unreadable
// statement is the client's problem, a bad model response is the upstream's.
func (h *SessionsHandler) writePipelineError(w http.ResponseWriter, err error) {
	var formatErr *statement.FormatError
	var respErr *pipeline.ResponseFormatError

	switch {
	case errors.As(err, &formatErr):
		h.log.Warn().Err(err).Msg("Statement has no transaction table")
		middleware.WriteError(w, http.StatusUnprocessableEntity, formatErr.Error())
	case errors.As(err, &respErr):
		h.log.Error().Err(err).Str("operation", respErr.Op).Msg("Model response did not match schema")
		middleware.WriteError(w, http.StatusBadGateway, respErr.Error())
	default:
		h.log.Error().Err(err).Msg("Analysis failed")
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
