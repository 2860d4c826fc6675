// Package story turns a word list into a playable story: it asks a text
// generator for the narrative and for per-word metadata, then enriches the
// game beats and assigns each one a mechanic.
package story

import (
	"context"
	"errors"

	"spellstory/internal/models"
)

// ErrStoryUnavailable means no story could be produced. The cause is wrapped.
var ErrStoryUnavailable = errors.New("story generation unavailable")

// StoryRequest is the input to story generation
type StoryRequest struct {
	Words        []string
	Theme        string
	ReadingLevel string
	BeatCount    int
}

// Generator is the external text-generation collaborator
type Generator interface {
	GenerateStory(ctx context.Context, req StoryRequest) (*models.Story, error)
	GenerateWordInfo(ctx context.Context, words []string) (map[string]models.WordInfo, error)
}
