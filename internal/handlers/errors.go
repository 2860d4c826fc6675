package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"spellstory/internal/service"
	"spellstory/internal/story"
	"spellstory/internal/validation"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	respondJSON(w, status, errorResponse{Error: userMsg})
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// respondWithServiceError maps service errors onto HTTP statuses
func respondWithServiceError(w http.ResponseWriter, logMsg string, err error) {
	var verr validation.ValidationError
	switch {
	case errors.As(err, &verr):
		respondWithError(w, http.StatusBadRequest, verr.Error(), "", nil)
	case errors.Is(err, service.ErrListNotFound), errors.Is(err, service.ErrSessionNotFound):
		respondWithError(w, http.StatusNotFound, err.Error(), "", nil)
	case errors.Is(err, service.ErrBlockedWord),
		errors.Is(err, service.ErrEmptyList),
		errors.Is(err, service.ErrWordNotInSession),
		errors.Is(err, service.ErrUnknownGameType),
		errors.Is(err, service.ErrNotGameBeat):
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
	case errors.Is(err, service.ErrInvalidShareLink):
		respondWithError(w, http.StatusBadRequest, ErrInvalidShareLinkMsg, "", nil)
	case errors.Is(err, story.ErrStoryUnavailable):
		respondWithError(w, http.StatusServiceUnavailable, ErrStoryUnavailableMsg, logMsg, err)
	case errors.Is(err, service.ErrNoFreeNickname):
		respondWithError(w, http.StatusServiceUnavailable, err.Error(), logMsg, err)
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, logMsg, err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return false
	}
	return true
}
