package learning

import (
	"math"
	"sort"
	"time"

	"spellstory/internal/models"
)

const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3

	// MinIntervalDays is the interval used for a first review and after a lapse
	MinIntervalDays = 1
	// MaxIntervalDays caps how far ahead a review can be scheduled
	MaxIntervalDays = 36500

	qualityCorrect   = 4
	qualityIncorrect = 1
	passingQuality   = 3
)

// ReviewOutcome describes one review event. Quality is an optional 0-5 grade;
// when nil it defaults from Correct.
type ReviewOutcome struct {
	Correct bool
	Quality *int
}

func (o ReviewOutcome) quality() int {
	if o.Quality != nil {
		q := *o.Quality
		if q < 0 {
			q = 0
		}
		if q > 5 {
			q = 5
		}
		return q
	}
	if o.Correct {
		return qualityCorrect
	}
	return qualityIncorrect
}

// ScheduleReview computes the next review for a word after a review at time at.
// prev may be nil for a word never reviewed before. A pass before the word is
// due keeps the existing schedule; a miss always shortens it.
func ScheduleReview(prev *models.WordReviewData, word string, outcome ReviewOutcome, at time.Time) models.WordReviewData {
	ease := DefaultEaseFactor
	interval := 0
	reps := 0
	if prev != nil {
		if prev.EaseFactor > 0 {
			ease = prev.EaseFactor
		}
		interval = prev.IntervalDays
		reps = prev.Repetitions
	}

	q := outcome.quality()
	// an explicit grade below passing counts as a miss even if flagged correct
	passed := outcome.Correct && q >= passingQuality

	if passed && prev != nil && at.Before(prev.NextReviewDate) {
		early := *prev
		early.Word = word
		early.LastReviewDate = at
		early.EaseFactor = ease
		return early
	}

	var nextInterval int
	if passed {
		reps++
		nextInterval = growInterval(interval, ease, reps)
	} else {
		nextInterval = lapseInterval(interval, reps)
		reps = 0
		q = min(q, passingQuality-1)
	}

	return models.WordReviewData{
		Word:           word,
		LastReviewDate: at,
		NextReviewDate: at.AddDate(0, 0, nextInterval),
		IntervalDays:   nextInterval,
		EaseFactor:     updateEase(ease, q),
		Repetitions:    reps,
	}
}

// growInterval follows SM-2: 1 day, then 6 days, then interval * ease
func growInterval(interval int, ease float64, reps int) int {
	switch reps {
	case 1:
		return MinIntervalDays
	case 2:
		return 6
	default:
		if interval < MinIntervalDays {
			interval = 6
		}
		next := math.Ceil(float64(interval) * ease)
		if next > MaxIntervalDays {
			return MaxIntervalDays
		}
		return int(next)
	}
}

// lapseInterval shrinks the interval after a miss. Words still being learned
// reset to the minimum; well-known words keep part of their progress.
func lapseInterval(interval, reps int) int {
	if reps <= 2 || interval <= MinIntervalDays {
		return MinIntervalDays
	}

	var multiplier float64
	switch {
	case reps >= 10:
		multiplier = 0.7
	case reps >= 6:
		multiplier = 0.6
	default:
		multiplier = 0.5
	}

	next := int(math.Floor(float64(interval) * multiplier))
	if next >= interval {
		next = interval - 1
	}
	if next < MinIntervalDays {
		return MinIntervalDays
	}
	return next
}

func updateEase(ease float64, quality int) float64 {
	q := float64(quality)
	next := ease + 0.1 - (5-q)*(0.08+(5-q)*0.02)
	return math.Max(next, MinEaseFactor)
}

// DueForReview returns the reviews whose next date is at or before now,
// most overdue first. Ties are ordered by word.
func DueForReview(reviews []models.WordReviewData, now time.Time) []models.WordReviewData {
	due := make([]models.WordReviewData, 0, len(reviews))
	for _, r := range reviews {
		if r.IsDue(now) {
			due = append(due, r)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].NextReviewDate.Equal(due[j].NextReviewDate) {
			return due[i].Word < due[j].Word
		}
		return due[i].NextReviewDate.Before(due[j].NextReviewDate)
	})
	return due
}
