package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"spellstory/internal/repository"
	"spellstory/internal/storage"
	"spellstory/internal/validation"
)

const backupVersion = "1.0"

// BackupData is the portable backup document
type BackupData struct {
	Version    string                              `json:"version"`
	ExportedAt time.Time                           `json:"exported_at"`
	Lists      []ListBackup                        `json:"lists"`
	Learners   map[string]*storage.LearnerProgress `json:"learners"`
}

// ListBackup is a word list for backup. IDs are not kept; lists get new IDs on import.
type ListBackup struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Words       []string  `json:"words"`
	CreatedAt   time.Time `json:"created_at"`
}

// BackupService handles backup and restore of lists and learner progress
type BackupService struct {
	listRepo *repository.ListRepository
	progress *storage.Progress
}

// NewBackupService creates a new backup service
func NewBackupService(listRepo *repository.ListRepository, progress *storage.Progress) *BackupService {
	return &BackupService{listRepo: listRepo, progress: progress}
}

// Export writes every list plus the progress of the named learners to a file
func (s *BackupService) Export(ctx context.Context, outputPath string, learners []string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(ctx, file, learners); err != nil {
		return err
	}

	log.Printf("Backup exported successfully to %s", outputPath)
	return nil
}

// ExportToWriter writes a backup document to w
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer, learners []string) error {
	backup := &BackupData{
		Version:    backupVersion,
		ExportedAt: time.Now().UTC(),
		Lists:      []ListBackup{},
		Learners:   make(map[string]*storage.LearnerProgress, len(learners)),
	}

	if err := s.exportLists(backup); err != nil {
		return fmt.Errorf("failed to export lists: %w", err)
	}
	for _, learner := range learners {
		if err := validation.ValidateLearner(learner); err != nil {
			return err
		}
		p, err := s.progress.Load(ctx, learner)
		if err != nil {
			return fmt.Errorf("failed to export progress for %s: %w", learner, err)
		}
		backup.Learners[learner] = p
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Exported: %d lists, %d learners", len(backup.Lists), len(backup.Learners))
	return nil
}

// Import restores a backup file
func (s *BackupService) Import(ctx context.Context, inputPath string) error {
	log.Printf("Starting import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, file)
}

// ImportFromReader restores a backup document. Lists are added alongside existing ones;
// learner progress in the backup replaces what is stored for those learners.
func (s *BackupService) ImportFromReader(ctx context.Context, reader io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != backupVersion {
		return fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	for _, list := range backup.Lists {
		if err := validation.ValidateListName(list.Name); err != nil {
			return fmt.Errorf("failed to import list %q: %w", list.Name, err)
		}
		if _, err := s.listRepo.CreateList(list.Name, list.Description, list.Words); err != nil {
			return fmt.Errorf("failed to import list %q: %w", list.Name, err)
		}
	}

	for learner, p := range backup.Learners {
		if err := validation.ValidateLearner(learner); err != nil {
			return err
		}
		if p == nil {
			continue
		}
		if err := s.progress.Replace(ctx, learner, p); err != nil {
			return fmt.Errorf("failed to import progress for %s: %w", learner, err)
		}
	}

	log.Printf("Import completed: %d lists, %d learners", len(backup.Lists), len(backup.Learners))
	return nil
}

func (s *BackupService) exportLists(backup *BackupData) error {
	summaries, err := s.listRepo.GetAllLists()
	if err != nil {
		return err
	}

	for _, summary := range summaries {
		list, err := s.listRepo.GetListByID(summary.ID)
		if err != nil {
			return err
		}
		if list == nil {
			continue
		}
		backup.Lists = append(backup.Lists, ListBackup{
			Name:        list.Name,
			Description: list.Description,
			Words:       list.Words,
			CreatedAt:   list.CreatedAt,
		})
	}
	return nil
}
