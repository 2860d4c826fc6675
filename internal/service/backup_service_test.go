package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"spellstory/internal/models"
	"spellstory/internal/repository"
	"spellstory/internal/storage"
)

func TestBackupRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := repository.NewListRepository(openTestDB(t))
	sourceProgress := storage.NewProgress(storage.NewMemoryStore())

	if _, err := source.CreateList("Animals", "Farm", []string{"cat", "dog"}); err != nil {
		t.Fatalf("CreateList() error = %v", err)
	}
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	err := sourceProgress.Update(ctx, "sam", func(p *storage.LearnerProgress) error {
		p.Results = append(p.Results, models.GameResult{ID: "r1", Word: "cat", GameType: models.GameHangman, Correct: true, CompletedAt: at})
		p.Reviews["cat"] = models.WordReviewData{Word: "cat", LastReviewDate: at, NextReviewDate: at.Add(24 * time.Hour), IntervalDays: 1, EaseFactor: 2.5}
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	var buf bytes.Buffer
	if err := NewBackupService(source, sourceProgress).ExportToWriter(ctx, &buf, []string{"sam"}); err != nil {
		t.Fatalf("ExportToWriter() error = %v", err)
	}

	target := repository.NewListRepository(openTestDB(t))
	targetProgress := storage.NewProgress(storage.NewMemoryStore())
	if err := NewBackupService(target, targetProgress).ImportFromReader(ctx, &buf); err != nil {
		t.Fatalf("ImportFromReader() error = %v", err)
	}

	lists, err := target.GetAllLists()
	if err != nil {
		t.Fatalf("GetAllLists() error = %v", err)
	}
	if len(lists) != 1 || lists[0].Name != "Animals" || lists[0].WordCount != 2 {
		t.Errorf("imported lists = %+v", lists)
	}

	p, err := targetProgress.Load(ctx, "sam")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(p.Results) != 1 || p.Results[0].ID != "r1" {
		t.Errorf("imported results = %+v", p.Results)
	}
	if r := p.Reviews["cat"]; !r.NextReviewDate.Equal(at.Add(24 * time.Hour)) {
		t.Errorf("imported review = %+v", r)
	}
}

func TestImportRejectsUnknownVersion(t *testing.T) {
	svc := NewBackupService(nil, storage.NewProgress(storage.NewMemoryStore()))

	err := svc.ImportFromReader(context.Background(), strings.NewReader(`{"version":"9.9"}`))
	if err == nil || !strings.Contains(err.Error(), "unsupported backup version") {
		t.Errorf("ImportFromReader() error = %v, want version error", err)
	}
}

func TestImportRejectsCorruptProgress(t *testing.T) {
	svc := NewBackupService(nil, storage.NewProgress(storage.NewMemoryStore()))
	doc := `{"version":"1.0","learners":{"sam":{"game_results":[{"id":"r1","word":"cat"}]}}}`

	err := svc.ImportFromReader(context.Background(), strings.NewReader(doc))
	if err == nil {
		t.Error("ImportFromReader() accepted a result without a completion date")
	}
}
