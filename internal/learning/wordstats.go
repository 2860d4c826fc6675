// Package learning holds the adaptive engine: word confidence, session
// statistics, finale detection, review scheduling and game-type selection.
// Everything here is a pure function of its inputs; callers own persistence.
package learning

import (
	"spellstory/internal/models"
)

const (
	// MasteryThreshold is the confidence at or above which a word counts as mastered
	MasteryThreshold = 80.0

	maxConfidence = 100.0
)

// UpdateWordStats folds one game result into the existing stats for that word.
// prev may be nil for a word with no history.
func UpdateWordStats(prev *models.WordStats, result models.GameResult) models.WordStats {
	next := models.WordStats{Word: result.Word}
	if prev != nil {
		next = *prev
		next.Word = result.Word
	}

	next.Attempts++
	if result.Correct {
		next.Correct++
	}
	next.Confidence = confidence(next.Correct, next.Attempts)

	return next
}

// RecomputeWordStats rebuilds the per-word stats from a full result history.
// The result equals folding UpdateWordStats over the same history.
func RecomputeWordStats(results []models.GameResult) map[string]models.WordStats {
	stats := make(map[string]models.WordStats)
	for _, result := range results {
		var prev *models.WordStats
		if s, ok := stats[result.Word]; ok {
			prev = &s
		}
		stats[result.Word] = UpdateWordStats(prev, result)
	}
	return stats
}

// confidence is the correct-to-attempt ratio scaled to [0,100].
// A correct answer raises it unless already at 100; a miss lowers it unless already at 0.
func confidence(correct, attempts int) float64 {
	if attempts <= 0 {
		return 0
	}
	c := maxConfidence * float64(correct) / float64(attempts)
	if c < 0 {
		return 0
	}
	if c > maxConfidence {
		return maxConfidence
	}
	return c
}
