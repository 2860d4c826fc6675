package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spellstory/internal/learning"
	"spellstory/internal/models"
	"spellstory/internal/nickname"
	"spellstory/internal/storage"
	"spellstory/internal/validation"
)

// ProfileView is a learner's mechanic profile with the mechanic they do best at
type ProfileView struct {
	models.LearningStyleProfile
	BestMechanic models.GameType `json:"best_mechanic,omitempty"`
}

// ProgressSummary is the long-term picture of one learner across all sessions
type ProgressSummary struct {
	Learner       string                      `json:"learner"`
	TotalGames    int                         `json:"total_games"`
	WordStats     map[string]models.WordStats `json:"word_stats"`
	MasteredWords int                         `json:"mastered_words"`
	DueReviews    int                         `json:"due_reviews"`
}

// ErrNoFreeNickname is returned when every generated name already has progress
var ErrNoFreeNickname = errors.New("could not find an unused learner name")

const nicknameAttempts = 5

// LearnerService answers questions about a learner's stored progress
type LearnerService struct {
	progress *storage.Progress
	now      func() time.Time
}

// NewLearnerService creates a learner service
func NewLearnerService(progress *storage.Progress) *LearnerService {
	return &LearnerService{
		progress: progress,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// DueReviews returns the words the learner should practice now, most overdue first
func (s *LearnerService) DueReviews(ctx context.Context, learner string) ([]models.WordReviewData, error) {
	p, err := s.load(ctx, learner)
	if err != nil {
		return nil, err
	}

	reviews := make([]models.WordReviewData, 0, len(p.Reviews))
	for _, r := range p.Reviews {
		reviews = append(reviews, r)
	}
	return learning.DueForReview(reviews, s.now()), nil
}

// Profile returns the learner's mechanic profile
func (s *LearnerService) Profile(ctx context.Context, learner string) (*ProfileView, error) {
	p, err := s.load(ctx, learner)
	if err != nil {
		return nil, err
	}

	view := &ProfileView{LearningStyleProfile: p.Profile}
	if view.Mechanics == nil {
		view.Mechanics = map[models.GameType]models.MechanicPerformance{}
	}
	if best, ok := learning.BestMechanic(p.Profile); ok {
		view.BestMechanic = best
	}
	return view, nil
}

// Summary rebuilds word statistics from the learner's whole result history
func (s *LearnerService) Summary(ctx context.Context, learner string) (*ProgressSummary, error) {
	p, err := s.load(ctx, learner)
	if err != nil {
		return nil, err
	}

	stats := learning.RecomputeWordStats(p.Results)
	due := 0
	now := s.now()
	for _, r := range p.Reviews {
		if r.IsDue(now) {
			due++
		}
	}

	return &ProgressSummary{
		Learner:       learner,
		TotalGames:    len(p.Results),
		WordStats:     stats,
		MasteredWords: learning.CountMastered(stats),
		DueReviews:    due,
	}, nil
}

// SuggestLearner returns a generated learner id with no stored progress yet
func (s *LearnerService) SuggestLearner(ctx context.Context) (string, error) {
	for i := 0; i < nicknameAttempts; i++ {
		name, err := nickname.Generate()
		if err != nil {
			return "", fmt.Errorf("failed to generate learner name: %w", err)
		}
		p, err := s.load(ctx, name)
		if err != nil {
			return "", err
		}
		if len(p.Results) == 0 && len(p.Reviews) == 0 {
			return name, nil
		}
	}
	return "", ErrNoFreeNickname
}

func (s *LearnerService) load(ctx context.Context, learner string) (*storage.LearnerProgress, error) {
	if err := validation.ValidateLearner(learner); err != nil {
		return nil, err
	}
	p, err := s.progress.Load(ctx, learner)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress for %s: %w", learner, err)
	}
	return p, nil
}
