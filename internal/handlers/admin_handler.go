package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"spellstory/internal/service"
)

// AdminHandler exposes backup and restore
type AdminHandler struct {
	backupService *service.BackupService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(backupService *service.BackupService) *AdminHandler {
	return &AdminHandler{backupService: backupService}
}

// ExportBackup streams a backup of all lists plus the learners named in ?learner=
func (h *AdminHandler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	learners := r.URL.Query()["learner"]

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("spellstory_backup_%s.json", timestamp)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if err := h.backupService.ExportToWriter(r.Context(), w, learners); err != nil {
		respondWithServiceError(w, "Error exporting backup", err)
		return
	}

	log.Printf("Backup exported with %d learners", len(learners))
}

// ImportBackup restores a backup posted as the request body
func (h *AdminHandler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBackupBodyBytes)

	if err := h.backupService.ImportFromReader(r.Context(), r.Body); err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to import backup", "Error importing backup", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
