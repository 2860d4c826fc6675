package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"spellstory/internal/models"
)

func TestProgressRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	progress := NewProgress(store)

	last := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	err := progress.Update(ctx, "sam", func(p *LearnerProgress) error {
		p.Results = append(p.Results, models.GameResult{
			ID:          "r1",
			Word:        "cat",
			GameType:    models.GameHangman,
			Correct:     true,
			LatencyMs:   900,
			CompletedAt: last,
		})
		p.Reviews["cat"] = models.WordReviewData{
			Word:           "cat",
			LastReviewDate: last,
			NextReviewDate: last.Add(24 * time.Hour),
			IntervalDays:   1,
			EaseFactor:     2.5,
			Repetitions:    1,
		}
		p.Profile.Mechanics[models.GameHangman] = models.MechanicPerformance{Attempts: 1, Correct: 1, TotalLatencyMs: 900}
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	raw, ok, _ := store.Get(ctx, Key("sam", KeyWordReviewData))
	if !ok {
		t.Fatal("wordReviewData not written")
	}
	if want := `"next_review_date":"2026-05-02T09:30:00Z"`; !strings.Contains(raw, want) {
		t.Errorf("stored review %s does not contain %s", raw, want)
	}

	loaded, err := progress.Load(ctx, "sam")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded.Results) != 1 || loaded.Results[0].Word != "cat" {
		t.Errorf("Results = %+v", loaded.Results)
	}
	review := loaded.Reviews["cat"]
	if !review.LastReviewDate.Equal(last) || !review.NextReviewDate.Equal(last.Add(24*time.Hour)) {
		t.Errorf("review dates did not round trip: %+v", review)
	}
	if loaded.Profile.Mechanics[models.GameHangman].Attempts != 1 {
		t.Errorf("Profile = %+v", loaded.Profile)
	}
}

func TestProgressLearnersAreIsolated(t *testing.T) {
	ctx := context.Background()
	progress := NewProgress(NewMemoryStore())

	err := progress.Update(ctx, "sam", func(p *LearnerProgress) error {
		p.Results = append(p.Results, models.GameResult{Word: "cat", CompletedAt: time.Now()})
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	other, err := progress.Load(ctx, "alex")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(other.Results) != 0 {
		t.Errorf("alex sees %d results from sam", len(other.Results))
	}
}

func TestProgressEmptyLoad(t *testing.T) {
	loaded, err := NewProgress(NewMemoryStore()).Load(context.Background(), "new")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded.Results) != 0 || len(loaded.Reviews) != 0 || len(loaded.Profile.Mechanics) != 0 {
		t.Errorf("Load() on empty store = %+v, want empty progress", loaded)
	}
	if loaded.Reviews == nil || loaded.Profile.Mechanics == nil {
		t.Error("Load() returned nil maps")
	}
}

func TestProgressCorruptRecords(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{
			name:  "malformed review date",
			key:   KeyWordReviewData,
			value: `{"cat":{"word":"cat","last_review_date":"yesterday","next_review_date":"2026-05-02T09:30:00Z"}}`,
		},
		{
			name:  "missing review date",
			key:   KeyWordReviewData,
			value: `{"cat":{"word":"cat","last_review_date":"2026-05-01T09:30:00Z"}}`,
		},
		{
			name:  "missing result date",
			key:   KeyGameResults,
			value: `[{"id":"r1","word":"cat","correct":true}]`,
		},
		{
			name:  "not json",
			key:   KeyLearningProfile,
			value: `{{{`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := NewMemoryStore()
			store.Set(ctx, Key("sam", tt.key), tt.value)

			_, err := NewProgress(store).Load(ctx, "sam")
			if !errors.Is(err, ErrCorruptRecord) {
				t.Errorf("Load() error = %v, want ErrCorruptRecord", err)
			}
		})
	}
}

func TestProgressUpdateAbortsOnError(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	progress := NewProgress(store)
	boom := errors.New("boom")

	err := progress.Update(ctx, "sam", func(p *LearnerProgress) error {
		p.Results = append(p.Results, models.GameResult{Word: "cat", CompletedAt: time.Now()})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update() error = %v, want boom", err)
	}
	if _, ok, _ := store.Get(ctx, Key("sam", KeyGameResults)); ok {
		t.Error("Update() wrote results despite fn error")
	}
}

func TestProgressReplaceRejectsCorrupt(t *testing.T) {
	progress := NewProgress(NewMemoryStore())

	err := progress.Replace(context.Background(), "sam", &LearnerProgress{
		Reviews: map[string]models.WordReviewData{"cat": {Word: "cat"}},
	})
	if !errors.Is(err, ErrCorruptRecord) {
		t.Errorf("Replace() error = %v, want ErrCorruptRecord", err)
	}
}

// flakyStore fails the first Set of failKey and records the order of writes
type flakyStore struct {
	*MemoryStore
	failKey string
	failed  bool
	writes  []string
}

func (f *flakyStore) Set(ctx context.Context, key, value string) error {
	f.writes = append(f.writes, key)
	if key == f.failKey && !f.failed {
		f.failed = true
		return errors.New("connection reset")
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func TestProgressRetryAfterFailedSaveKeepsOneResult(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{MemoryStore: NewMemoryStore(), failKey: Key("sam", KeyLearningProfile)}
	progress := NewProgress(store)

	record := func(p *LearnerProgress) error {
		p.Results = append(p.Results, models.GameResult{
			ID:          "r1",
			Word:        "cat",
			GameType:    models.GameHangman,
			Correct:     true,
			CompletedAt: time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC),
		})
		return nil
	}

	if err := progress.Update(ctx, "sam", record); err == nil {
		t.Fatal("Update() error = nil, want the store failure")
	}
	if last := store.writes[len(store.writes)-1]; last == Key("sam", KeyGameResults) {
		t.Errorf("results were written despite the failed save")
	}

	if err := progress.Update(ctx, "sam", record); err != nil {
		t.Fatalf("retry Update() error = %v", err)
	}
	if last := store.writes[len(store.writes)-1]; last != Key("sam", KeyGameResults) {
		t.Errorf("last write = %q, want results written last", last)
	}

	p, err := progress.Load(ctx, "sam")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(p.Results) != 1 {
		t.Errorf("stored results = %d, want 1 after retry", len(p.Results))
	}
}
