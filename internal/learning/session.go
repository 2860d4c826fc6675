package learning

import (
	"time"

	"spellstory/internal/models"
)

// CalculateSessionStats aggregates word stats and results into a session snapshot.
// It never fails: empty inputs give zero values.
func CalculateSessionStats(stats map[string]models.WordStats, results []models.GameResult, start, now time.Time) models.SessionStats {
	correct := 0
	for _, result := range results {
		if result.Correct {
			correct++
		}
	}

	accuracy := 0.0
	if len(results) > 0 {
		accuracy = float64(correct) / float64(len(results))
	}

	elapsed := now.Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}

	return models.SessionStats{
		TotalGames:    len(results),
		Accuracy:      accuracy,
		Elapsed:       elapsed,
		MasteredWords: CountMastered(stats),
	}
}

// CountMastered returns how many words are at or above the mastery threshold
func CountMastered(stats map[string]models.WordStats) int {
	count := 0
	for _, s := range stats {
		if s.Confidence >= MasteryThreshold {
			count++
		}
	}
	return count
}

// ShouldTriggerFinale reports whether the story should conclude.
// A session with no attempted words never reaches its finale.
func ShouldTriggerFinale(stats map[string]models.WordStats) bool {
	if len(stats) == 0 {
		return false
	}
	for _, s := range stats {
		if s.Confidence < MasteryThreshold {
			return false
		}
	}
	return true
}
