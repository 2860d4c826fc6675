package story

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"spellstory/internal/config"
	"spellstory/internal/learning"
	"spellstory/internal/models"
)

// Service generates stories and prepares their game beats
type Service struct {
	generator Generator
	selector  *learning.Selector
	cfg       config.StoryConfig
}

// NewService creates a story service. The mechanics rotation comes from cfg.Mechanics.
func NewService(generator Generator, cfg config.StoryConfig) *Service {
	rotation := make([]models.GameType, 0, len(cfg.Mechanics))
	for _, m := range cfg.Mechanics {
		rotation = append(rotation, models.GameType(m))
	}
	return &Service{
		generator: generator,
		selector:  learning.NewSelector(rotation),
		cfg:       cfg,
	}
}

// Generate produces a story for words. The story and word-info calls run
// concurrently; if either fails the result wraps ErrStoryUnavailable and no
// story is returned.
func (s *Service) Generate(ctx context.Context, words []string) (*models.Story, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: no words to build a story from", ErrStoryUnavailable)
	}

	req := StoryRequest{
		Words:        words,
		Theme:        s.cfg.Theme,
		ReadingLevel: s.cfg.ReadingLevel,
		// room for one game beat per word plus an opening
		BeatCount: max(s.cfg.BeatCount, len(words)+1),
	}

	var (
		generated *models.Story
		info      map[string]models.WordInfo
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		st, err := s.generator.GenerateStory(gctx, req)
		if err != nil {
			return fmt.Errorf("generating story: %w", err)
		}
		if st == nil || len(st.Beats) == 0 {
			return errors.New("generating story: empty story")
		}
		generated = st
		return nil
	})
	g.Go(func() error {
		wi, err := s.generator.GenerateWordInfo(gctx, words)
		if err != nil {
			return fmt.Errorf("generating word info: %w", err)
		}
		info = wi
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("Error generating story for %d words: %v", len(words), err)
		return nil, fmt.Errorf("%w: %w", ErrStoryUnavailable, err)
	}

	return s.prepare(generated, info), nil
}

// prepare attaches word info to game beats and assigns mechanics
func (s *Service) prepare(st *models.Story, info map[string]models.WordInfo) *models.Story {
	beats := make([]models.Beat, len(st.Beats))
	for i, beat := range st.Beats {
		beats[i] = beat
		if !beat.IsGame() {
			continue
		}
		if wi, ok := learning.LookupWordInfo(info, beat.TargetWord); ok {
			beats[i].ExtraWordInfo = &wi
		}
	}

	return &models.Story{
		Title: st.Title,
		Beats: s.selector.AssignGameTypes(beats, info),
	}
}
