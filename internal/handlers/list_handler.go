package handlers

import (
	"net/http"
	"strconv"

	"spellstory/internal/service"
)

// ListHandler handles word list HTTP requests
type ListHandler struct {
	listService *service.ListService
}

// NewListHandler creates a new list handler
func NewListHandler(listService *service.ListService) *ListHandler {
	return &ListHandler{listService: listService}
}

type listRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Words       []string `json:"words"`
}

type wordsRequest struct {
	Words []string `json:"words"`
}

type shareRequest struct {
	Token string `json:"token"`
}

type shareResponse struct {
	Token string `json:"token"`
}

// ListLists returns every list with its word count
func (h *ListHandler) ListLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.listService.GetAllLists()
	if err != nil {
		respondWithServiceError(w, "Error getting lists", err)
		return
	}
	respondJSON(w, http.StatusOK, lists)
}

// CreateList creates a list from a JSON body
func (h *ListHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	list, err := h.listService.CreateList(r.Context(), req.Name, req.Description, req.Words)
	if err != nil {
		respondWithServiceError(w, "Error creating list", err)
		return
	}
	respondJSON(w, http.StatusCreated, list)
}

// GetList returns one list with its words
func (h *ListHandler) GetList(w http.ResponseWriter, r *http.Request) {
	listID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	list, err := h.listService.GetList(listID)
	if err != nil {
		respondWithServiceError(w, "Error getting list", err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// UpdateList renames a list and sets its description
func (h *ListHandler) UpdateList(w http.ResponseWriter, r *http.Request) {
	listID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req listRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	list, err := h.listService.UpdateList(listID, req.Name, req.Description)
	if err != nil {
		respondWithServiceError(w, "Error updating list", err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// DeleteList removes a list
func (h *ListHandler) DeleteList(w http.ResponseWriter, r *http.Request) {
	listID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.listService.DeleteList(listID); err != nil {
		respondWithServiceError(w, "Error deleting list", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetListWords returns the word records of a list, with audio filenames
func (h *ListHandler) GetListWords(w http.ResponseWriter, r *http.Request) {
	listID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	words, err := h.listService.GetListWords(listID)
	if err != nil {
		respondWithServiceError(w, "Error getting words", err)
		return
	}
	respondJSON(w, http.StatusOK, words)
}

// AddWords appends words to a list
func (h *ListHandler) AddWords(w http.ResponseWriter, r *http.Request) {
	listID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req wordsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	list, err := h.listService.AddWords(r.Context(), listID, req.Words)
	if err != nil {
		respondWithServiceError(w, "Error adding words", err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// ReplaceWords replaces the whole word sequence of a list
func (h *ListHandler) ReplaceWords(w http.ResponseWriter, r *http.Request) {
	listID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req wordsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	list, err := h.listService.ReplaceWords(r.Context(), listID, req.Words)
	if err != nil {
		respondWithServiceError(w, "Error replacing words", err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// ShareList returns a share token for a list
func (h *ListHandler) ShareList(w http.ResponseWriter, r *http.Request) {
	listID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	token, err := h.listService.ShareList(listID)
	if err != nil {
		respondWithServiceError(w, "Error sharing list", err)
		return
	}
	respondJSON(w, http.StatusOK, shareResponse{Token: token})
}

// PreviewShare decodes a share token without importing it
func (h *ListHandler) PreviewShare(w http.ResponseWriter, r *http.Request) {
	shared, err := h.listService.PreviewShared(r.PathValue("token"))
	if err != nil {
		respondWithServiceError(w, "Error reading share link", err)
		return
	}
	respondJSON(w, http.StatusOK, shared)
}

// ImportShare stores the list carried by a share token
func (h *ListHandler) ImportShare(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	list, err := h.listService.ImportShared(r.Context(), req.Token)
	if err != nil {
		respondWithServiceError(w, "Error importing shared list", err)
		return
	}
	respondJSON(w, http.StatusCreated, list)
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, ErrInvalidID, "", nil)
		return 0, false
	}
	return id, true
}
