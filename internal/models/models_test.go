package models

import (
	"testing"
	"time"
)

func TestWordReviewDataIsDue(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		next time.Time
		want bool
	}{
		{
			name: "due in the future",
			next: now.Add(24 * time.Hour),
			want: false,
		},
		{
			name: "due exactly now",
			next: now,
			want: true,
		},
		{
			name: "overdue",
			next: now.Add(-48 * time.Hour),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			review := WordReviewData{Word: "cat", NextReviewDate: tt.next}
			if got := review.IsDue(now); got != tt.want {
				t.Errorf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMechanicPerformance(t *testing.T) {
	tests := []struct {
		name        string
		perf        MechanicPerformance
		wantAcc     float64
		wantLatency float64
	}{
		{
			name:        "never played",
			perf:        MechanicPerformance{},
			wantAcc:     0,
			wantLatency: 0,
		},
		{
			name:        "half correct",
			perf:        MechanicPerformance{Attempts: 4, Correct: 2, TotalLatencyMs: 8000},
			wantAcc:     0.5,
			wantLatency: 2000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.perf.Accuracy(); got != tt.wantAcc {
				t.Errorf("Accuracy() = %v, want %v", got, tt.wantAcc)
			}
			if got := tt.perf.MeanLatencyMs(); got != tt.wantLatency {
				t.Errorf("MeanLatencyMs() = %v, want %v", got, tt.wantLatency)
			}
		})
	}
}

func TestBeatIsGame(t *testing.T) {
	if (Beat{Type: BeatNarrative}).IsGame() {
		t.Error("narrative beat reported as game")
	}
	if !(Beat{Type: BeatGame, TargetWord: "cat"}).IsGame() {
		t.Error("game beat not reported as game")
	}
}
