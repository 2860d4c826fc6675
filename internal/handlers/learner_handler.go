package handlers

import (
	"net/http"

	"spellstory/internal/service"
)

// LearnerHandler serves a learner's long-term progress
type LearnerHandler struct {
	learners *service.LearnerService
}

// NewLearnerHandler creates a new learner handler
func NewLearnerHandler(learners *service.LearnerService) *LearnerHandler {
	return &LearnerHandler{learners: learners}
}

// DueReviews lists the words due for review, most overdue first
func (h *LearnerHandler) DueReviews(w http.ResponseWriter, r *http.Request) {
	due, err := h.learners.DueReviews(r.Context(), r.PathValue("learner"))
	if err != nil {
		respondWithServiceError(w, "Error getting due reviews", err)
		return
	}
	respondJSON(w, http.StatusOK, due)
}

// Profile returns the learner's mechanic profile
func (h *LearnerHandler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.learners.Profile(r.Context(), r.PathValue("learner"))
	if err != nil {
		respondWithServiceError(w, "Error getting profile", err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// Summary returns word statistics across all of the learner's sessions
func (h *LearnerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.learners.Summary(r.Context(), r.PathValue("learner"))
	if err != nil {
		respondWithServiceError(w, "Error getting progress", err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// SuggestLearner hands out a fresh friendly learner id
func (h *LearnerHandler) SuggestLearner(w http.ResponseWriter, r *http.Request) {
	name, err := h.learners.SuggestLearner(r.Context())
	if err != nil {
		respondWithServiceError(w, "Error suggesting learner name", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"learner": name})
}
