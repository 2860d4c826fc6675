package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"spellstory/internal/models"
)

// Record names within a learner's namespace
const (
	KeyGameResults     = "gameResults"
	KeyWordReviewData  = "wordReviewData"
	KeyLearningProfile = "learningProfile"
)

// LearnerProgress is everything persisted for one learner
type LearnerProgress struct {
	Results []models.GameResult              `json:"game_results"`
	Reviews map[string]models.WordReviewData `json:"word_review_data"`
	Profile models.LearningStyleProfile      `json:"learning_profile"`
}

// Progress reads and writes learner progress documents on top of a Store.
// Updates for the same Progress value are serialized.
type Progress struct {
	store Store
	mu    sync.Mutex
}

// NewProgress creates a progress repository over store
func NewProgress(store Store) *Progress {
	return &Progress{store: store}
}

// Key builds the store key for one record of a learner
func Key(learner, name string) string {
	return "learner/" + learner + "/" + name
}

// Load reads all three records for a learner. Absent records load as empty values.
func (p *Progress) Load(ctx context.Context, learner string) (*LearnerProgress, error) {
	results, err := p.loadResults(ctx, learner)
	if err != nil {
		return nil, err
	}
	reviews, err := p.loadReviews(ctx, learner)
	if err != nil {
		return nil, err
	}
	profile, err := p.loadProfile(ctx, learner)
	if err != nil {
		return nil, err
	}
	return &LearnerProgress{Results: results, Reviews: reviews, Profile: profile}, nil
}

// Update loads a learner's progress, applies fn and writes all records back.
// Nothing is written when fn returns an error.
func (p *Progress) Update(ctx context.Context, learner string, fn func(*LearnerProgress) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	progress, err := p.Load(ctx, learner)
	if err != nil {
		return err
	}
	if err := fn(progress); err != nil {
		return err
	}
	return p.save(ctx, learner, progress)
}

// Replace overwrites a learner's progress, used when restoring a backup
func (p *Progress) Replace(ctx context.Context, learner string, progress *LearnerProgress) error {
	if err := validateResults(learner, progress.Results); err != nil {
		return err
	}
	if err := validateReviews(learner, progress.Reviews); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.save(ctx, learner, progress)
}

func (p *Progress) save(ctx context.Context, learner string, progress *LearnerProgress) error {
	results := progress.Results
	if results == nil {
		results = []models.GameResult{}
	}
	reviews := progress.Reviews
	if reviews == nil {
		reviews = map[string]models.WordReviewData{}
	}

	// results go last: a failed save followed by a retry must not leave a duplicate result
	if err := p.put(ctx, Key(learner, KeyWordReviewData), reviews); err != nil {
		return err
	}
	if err := p.put(ctx, Key(learner, KeyLearningProfile), progress.Profile); err != nil {
		return err
	}
	return p.put(ctx, Key(learner, KeyGameResults), results)
}

func (p *Progress) put(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := p.store.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// get decodes the value at key into v. ok is false when the key is absent.
func (p *Progress) get(ctx context.Context, key string, v interface{}) (bool, error) {
	raw, ok, err := p.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	if !ok || raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, key, err)
	}
	return true, nil
}

func (p *Progress) loadResults(ctx context.Context, learner string) ([]models.GameResult, error) {
	var results []models.GameResult
	if _, err := p.get(ctx, Key(learner, KeyGameResults), &results); err != nil {
		return nil, err
	}
	if err := validateResults(learner, results); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Progress) loadReviews(ctx context.Context, learner string) (map[string]models.WordReviewData, error) {
	reviews := map[string]models.WordReviewData{}
	if _, err := p.get(ctx, Key(learner, KeyWordReviewData), &reviews); err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = map[string]models.WordReviewData{}
	}
	if err := validateReviews(learner, reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (p *Progress) loadProfile(ctx context.Context, learner string) (models.LearningStyleProfile, error) {
	var profile models.LearningStyleProfile
	if _, err := p.get(ctx, Key(learner, KeyLearningProfile), &profile); err != nil {
		return models.LearningStyleProfile{}, err
	}
	if profile.Mechanics == nil {
		profile.Mechanics = map[models.GameType]models.MechanicPerformance{}
	}
	return profile, nil
}

func validateResults(learner string, results []models.GameResult) error {
	for i, r := range results {
		if r.CompletedAt.IsZero() {
			return fmt.Errorf("%w: %s: result %d has no completion date", ErrCorruptRecord, Key(learner, KeyGameResults), i)
		}
	}
	return nil
}

func validateReviews(learner string, reviews map[string]models.WordReviewData) error {
	for word, r := range reviews {
		if r.LastReviewDate.IsZero() || r.NextReviewDate.IsZero() {
			return fmt.Errorf("%w: %s: review for %q is missing a date", ErrCorruptRecord, Key(learner, KeyWordReviewData), word)
		}
	}
	return nil
}
