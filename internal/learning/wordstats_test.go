package learning

import (
	"testing"
	"time"

	"spellstory/internal/models"
)

func result(word string, correct bool) models.GameResult {
	return models.GameResult{
		Word:        word,
		GameType:    models.GameHangman,
		Correct:     correct,
		LatencyMs:   1200,
		CompletedAt: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
	}
}

func TestUpdateWordStatsFirstResult(t *testing.T) {
	tests := []struct {
		name           string
		correct        bool
		wantCorrect    int
		wantConfidence float64
	}{
		{name: "first correct", correct: true, wantCorrect: 1, wantConfidence: 100},
		{name: "first incorrect", correct: false, wantCorrect: 0, wantConfidence: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UpdateWordStats(nil, result("cat", tt.correct))
			if got.Word != "cat" {
				t.Errorf("Word = %q, want cat", got.Word)
			}
			if got.Attempts != 1 {
				t.Errorf("Attempts = %d, want 1", got.Attempts)
			}
			if got.Correct != tt.wantCorrect {
				t.Errorf("Correct = %d, want %d", got.Correct, tt.wantCorrect)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tt.wantConfidence)
			}
		})
	}
}

func TestUpdateWordStatsDirection(t *testing.T) {
	tests := []struct {
		name    string
		prev    models.WordStats
		correct bool
		check   func(before, after float64) bool
		desc    string
	}{
		{
			name:    "correct raises mid confidence",
			prev:    models.WordStats{Word: "dog", Attempts: 4, Correct: 2, Confidence: 50},
			correct: true,
			check:   func(b, a float64) bool { return a > b },
			desc:    "strictly increase",
		},
		{
			name:    "incorrect lowers mid confidence",
			prev:    models.WordStats{Word: "dog", Attempts: 4, Correct: 2, Confidence: 50},
			correct: false,
			check:   func(b, a float64) bool { return a < b },
			desc:    "strictly decrease",
		},
		{
			name:    "correct at ceiling holds",
			prev:    models.WordStats{Word: "dog", Attempts: 3, Correct: 3, Confidence: 100},
			correct: true,
			check:   func(b, a float64) bool { return a == b },
			desc:    "hold at 100",
		},
		{
			name:    "incorrect at floor holds",
			prev:    models.WordStats{Word: "dog", Attempts: 3, Correct: 0, Confidence: 0},
			correct: false,
			check:   func(b, a float64) bool { return a == b },
			desc:    "hold at 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := tt.prev
			got := UpdateWordStats(&prev, result("dog", tt.correct))
			if !tt.check(tt.prev.Confidence, got.Confidence) {
				t.Errorf("confidence %v -> %v, expected to %s", tt.prev.Confidence, got.Confidence, tt.desc)
			}
			if prev != tt.prev {
				t.Error("UpdateWordStats modified its input")
			}
		})
	}
}

func TestConfidenceStaysBounded(t *testing.T) {
	// deterministic pseudo-random sequence of outcomes
	seq := uint32(7)
	var stats *models.WordStats
	for i := 0; i < 500; i++ {
		seq = seq*1103515245 + 12345
		next := UpdateWordStats(stats, result("fox", seq&0x100 != 0))
		if next.Confidence < 0 || next.Confidence > 100 {
			t.Fatalf("step %d: confidence %v out of [0,100]", i, next.Confidence)
		}
		stats = &next
	}
}

func TestRecomputeMatchesIncremental(t *testing.T) {
	history := []models.GameResult{
		result("cat", true),
		result("dog", false),
		result("cat", false),
		result("dog", true),
		result("cat", true),
	}

	incremental := map[string]models.WordStats{}
	for _, r := range history {
		var prev *models.WordStats
		if s, ok := incremental[r.Word]; ok {
			prev = &s
		}
		incremental[r.Word] = UpdateWordStats(prev, r)
	}

	recomputed := RecomputeWordStats(history)
	if len(recomputed) != len(incremental) {
		t.Fatalf("len = %d, want %d", len(recomputed), len(incremental))
	}
	for word, want := range incremental {
		if got := recomputed[word]; got != want {
			t.Errorf("%s: recomputed %+v, incremental %+v", word, got, want)
		}
	}
	if recomputed["cat"].Attempts != 3 || recomputed["cat"].Correct != 2 {
		t.Errorf("cat stats = %+v, want 3 attempts 2 correct", recomputed["cat"])
	}
}

func TestRecomputeEmptyHistory(t *testing.T) {
	if got := RecomputeWordStats(nil); len(got) != 0 {
		t.Errorf("RecomputeWordStats(nil) = %v, want empty", got)
	}
}
