package learning

import (
	"sort"

	"spellstory/internal/models"
)

// UpdateLearningProfile adds one result to the learner's per-mechanic performance.
// The input profile is not modified.
func UpdateLearningProfile(profile models.LearningStyleProfile, result models.GameResult) models.LearningStyleProfile {
	next := models.LearningStyleProfile{
		Mechanics: make(map[models.GameType]models.MechanicPerformance, len(profile.Mechanics)+1),
		UpdatedAt: result.CompletedAt,
	}
	for k, v := range profile.Mechanics {
		next.Mechanics[k] = v
	}

	if result.GameType == "" {
		next.UpdatedAt = profile.UpdatedAt
		return next
	}

	perf := next.Mechanics[result.GameType]
	perf.Attempts++
	if result.Correct {
		perf.Correct++
	}
	if result.LatencyMs > 0 {
		perf.TotalLatencyMs += result.LatencyMs
	}
	next.Mechanics[result.GameType] = perf

	return next
}

// BestMechanic returns the mechanic with the highest accuracy. Ties go to the
// faster mean response, then to the name. ok is false for an empty profile.
func BestMechanic(profile models.LearningStyleProfile) (models.GameType, bool) {
	candidates := make([]models.GameType, 0, len(profile.Mechanics))
	for m, perf := range profile.Mechanics {
		if perf.Attempts > 0 {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}

	sort.Slice(candidates, func(i, j int) bool {
		pi := profile.Mechanics[candidates[i]]
		pj := profile.Mechanics[candidates[j]]
		if pi.Accuracy() != pj.Accuracy() {
			return pi.Accuracy() > pj.Accuracy()
		}
		if pi.MeanLatencyMs() != pj.MeanLatencyMs() {
			return pi.MeanLatencyMs() < pj.MeanLatencyMs()
		}
		return candidates[i] < candidates[j]
	})

	return candidates[0], true
}
