package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"spellstory/internal/models"
	"spellstory/internal/repository"
	"spellstory/internal/sharelink"
	"spellstory/internal/validation"
)

var (
	ErrListNotFound     = errors.New("list not found")
	ErrBlockedWord      = errors.New("list contains words that are not allowed")
	ErrInvalidShareLink = errors.New("invalid share link")
)

// WordFilter reports which of the given words must be refused
type WordFilter interface {
	BlockedWords(words []string) ([]string, error)
}

// Pronouncer produces an audio file for a word and returns its filename
type Pronouncer interface {
	GenerateAudioFile(ctx context.Context, word string) (string, error)
}

// ListService handles word list business logic
type ListService struct {
	listRepo   *repository.ListRepository
	filter     WordFilter
	codec      *sharelink.Codec
	pronouncer Pronouncer
}

// NewListService creates a new list service. filter and pronouncer may be nil.
func NewListService(listRepo *repository.ListRepository, filter WordFilter, codec *sharelink.Codec, pronouncer Pronouncer) *ListService {
	return &ListService{
		listRepo:   listRepo,
		filter:     filter,
		codec:      codec,
		pronouncer: pronouncer,
	}
}

// CreateList validates and stores a new list
func (s *ListService) CreateList(ctx context.Context, name, description string, words []string) (*models.WordList, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	words = validation.NormalizeWords(words)

	if err := validation.ValidateListName(name); err != nil {
		return nil, err
	}
	if err := validation.ValidateDescription(description); err != nil {
		return nil, err
	}
	if err := s.checkWords(words, true); err != nil {
		return nil, err
	}

	list, err := s.listRepo.CreateList(name, description, words)
	if err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}

	s.generateAudio(ctx, list.ID)
	return list, nil
}

// GetList returns a list with its words
func (s *ListService) GetList(listID int64) (*models.WordList, error) {
	list, err := s.listRepo.GetListByID(listID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, ErrListNotFound
	}
	return list, nil
}

// GetAllLists returns every list without its words
func (s *ListService) GetAllLists() ([]models.ListSummary, error) {
	return s.listRepo.GetAllLists()
}

// GetListWords returns the word records of a list, including audio filenames
func (s *ListService) GetListWords(listID int64) ([]models.Word, error) {
	if _, err := s.GetList(listID); err != nil {
		return nil, err
	}
	return s.listRepo.GetListWords(listID)
}

// UpdateList renames a list and replaces its description
func (s *ListService) UpdateList(listID int64, name, description string) (*models.WordList, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)

	if err := validation.ValidateListName(name); err != nil {
		return nil, err
	}
	if err := validation.ValidateDescription(description); err != nil {
		return nil, err
	}
	if _, err := s.GetList(listID); err != nil {
		return nil, err
	}

	if err := s.listRepo.UpdateList(listID, name, description); err != nil {
		return nil, err
	}
	return s.GetList(listID)
}

// DeleteList removes a list and its words
func (s *ListService) DeleteList(listID int64) error {
	if _, err := s.GetList(listID); err != nil {
		return err
	}
	return s.listRepo.DeleteList(listID)
}

// AddWords appends words to the end of a list
func (s *ListService) AddWords(ctx context.Context, listID int64, words []string) (*models.WordList, error) {
	words = validation.NormalizeWords(words)
	if err := s.checkWords(words, false); err != nil {
		return nil, err
	}
	if _, err := s.GetList(listID); err != nil {
		return nil, err
	}

	if err := s.listRepo.AddWords(listID, words); err != nil {
		return nil, fmt.Errorf("failed to add words: %w", err)
	}

	s.generateAudio(ctx, listID)
	return s.GetList(listID)
}

// ReplaceWords swaps the whole word sequence of a list
func (s *ListService) ReplaceWords(ctx context.Context, listID int64, words []string) (*models.WordList, error) {
	words = validation.NormalizeWords(words)
	if err := s.checkWords(words, true); err != nil {
		return nil, err
	}
	if _, err := s.GetList(listID); err != nil {
		return nil, err
	}

	if err := s.listRepo.ReplaceWords(listID, words); err != nil {
		return nil, fmt.Errorf("failed to replace words: %w", err)
	}

	s.generateAudio(ctx, listID)
	return s.GetList(listID)
}

// ShareList encodes a list as a share token
func (s *ListService) ShareList(listID int64) (string, error) {
	list, err := s.GetList(listID)
	if err != nil {
		return "", err
	}
	if len(list.Words) == 0 {
		return "", validation.ValidationError{Field: "words", Message: "cannot share a list with no words"}
	}
	return s.codec.Encode(*list)
}

// PreviewShared decodes a share token without storing anything
func (s *ListService) PreviewShared(token string) (sharelink.SharedList, error) {
	shared, ok := s.codec.Decode(token)
	if !ok {
		return sharelink.SharedList{}, ErrInvalidShareLink
	}
	return shared, nil
}

// ImportShared stores the list carried by a share token as a new list
func (s *ListService) ImportShared(ctx context.Context, token string) (*models.WordList, error) {
	shared, err := s.PreviewShared(token)
	if err != nil {
		return nil, err
	}
	return s.CreateList(ctx, shared.Name, shared.Description, shared.Words)
}

func (s *ListService) checkWords(words []string, allowEmpty bool) error {
	if err := validation.ValidateWords(words, allowEmpty); err != nil {
		return err
	}
	if s.filter == nil || len(words) == 0 {
		return nil
	}

	blocked, err := s.filter.BlockedWords(words)
	if err != nil {
		return fmt.Errorf("failed to check words: %w", err)
	}
	if len(blocked) > 0 {
		return fmt.Errorf("%w: %s", ErrBlockedWord, strings.Join(blocked, ", "))
	}
	return nil
}

// generateAudio fills in missing pronunciation files. Failures never fail the list operation.
func (s *ListService) generateAudio(ctx context.Context, listID int64) {
	if s.pronouncer == nil {
		return
	}

	words, err := s.listRepo.GetListWords(listID)
	if err != nil {
		log.Printf("Warning: Failed to load words for audio generation: %v", err)
		return
	}

	for _, word := range words {
		if word.AudioFilename != "" {
			continue
		}
		filename, err := s.pronouncer.GenerateAudioFile(ctx, word.Text)
		if err != nil {
			log.Printf("Warning: Failed to generate audio for '%s': %v", word.Text, err)
			continue
		}
		if err := s.listRepo.UpdateWordAudio(word.ID, filename); err != nil {
			log.Printf("Warning: Failed to update audio filename for word %d: %v", word.ID, err)
		}
	}
}
