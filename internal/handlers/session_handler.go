package handlers

import (
	"net/http"

	"spellstory/internal/service"
)

// SessionHandler handles story play sessions
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type startSessionRequest struct {
	ListID int64 `json:"list_id"`
}

type answerRequest struct {
	Beat      int    `json:"beat"`
	Answer    string `json:"answer"`
	LatencyMs int64  `json:"latency_ms"`
}

// StartSession generates a story for a learner over one list
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	view, err := h.sessions.StartSession(r.Context(), r.PathValue("learner"), req.ListID)
	if err != nil {
		respondWithServiceError(w, "Error starting session", err)
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

// GetSession returns a session with its current statistics
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.GetSession(r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, "Error getting session", err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// EndSession discards a session
func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.EndSession(r.PathValue("id")); err != nil {
		respondWithServiceError(w, "Error ending session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecordResult records a game outcome reported by the client
func (h *SessionHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	var req service.ResultInput
	if !decodeJSON(w, r, &req) {
		return
	}

	outcome, err := h.sessions.RecordResult(r.Context(), r.PathValue("id"), req)
	if err != nil {
		respondWithServiceError(w, "Error recording result", err)
		return
	}
	respondJSON(w, http.StatusOK, outcome)
}

// SubmitAnswer checks an answer to a game beat and records the outcome
func (h *SessionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	outcome, err := h.sessions.SubmitAnswer(r.Context(), r.PathValue("id"), req.Beat, req.Answer, req.LatencyMs)
	if err != nil {
		respondWithServiceError(w, "Error checking answer", err)
		return
	}
	respondJSON(w, http.StatusOK, outcome)
}
