package models

import "time"

// WordReviewData is the spaced-repetition bookkeeping for one word
type WordReviewData struct {
	Word           string    `json:"word"`
	LastReviewDate time.Time `json:"last_review_date"`
	NextReviewDate time.Time `json:"next_review_date"`
	IntervalDays   int       `json:"interval_days"`
	EaseFactor     float64   `json:"ease_factor"`
	Repetitions    int       `json:"repetitions"`
}

// IsDue reports whether the word should be reviewed at now
func (r *WordReviewData) IsDue(now time.Time) bool {
	return !r.NextReviewDate.After(now)
}

// MechanicPerformance accumulates outcomes for one mechanic
type MechanicPerformance struct {
	Attempts       int   `json:"attempts"`
	Correct        int   `json:"correct"`
	TotalLatencyMs int64 `json:"total_latency_ms"`
}

// Accuracy returns the ratio of correct attempts, 0 when never played
func (p MechanicPerformance) Accuracy() float64 {
	if p.Attempts == 0 {
		return 0
	}
	return float64(p.Correct) / float64(p.Attempts)
}

// MeanLatencyMs returns the average response latency, 0 when never played
func (p MechanicPerformance) MeanLatencyMs() float64 {
	if p.Attempts == 0 {
		return 0
	}
	return float64(p.TotalLatencyMs) / float64(p.Attempts)
}

// LearningStyleProfile records which mechanics a learner performs best with
type LearningStyleProfile struct {
	Mechanics map[GameType]MechanicPerformance `json:"mechanics"`
	UpdatedAt time.Time                        `json:"updated_at"`
}
