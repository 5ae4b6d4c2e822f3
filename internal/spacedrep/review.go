package spacedrep

import (
	"fmt"
	"math"
	"time"
)

// ReviewState holds the SM-2 scheduling state of a single review item.
// Zero EaseFactor and IntervalDays mean "never scheduled" and are replaced
// by DefaultEaseFactor and DefaultIntervalDays.
type ReviewState struct {
	EaseFactor   float64   `json:"ease_factor"`
	IntervalDays int       `json:"interval_days"`
	Repetitions  int       `json:"repetitions"`
	NextReviewAt time.Time `json:"next_review_at"`
}

// ReviewOutcome is the state produced by a single review.
type ReviewOutcome struct {
	EaseFactor   float64   `json:"ease_factor"`
	IntervalDays int       `json:"interval_days"`
	Repetitions  int       `json:"repetitions"`
	NextReviewAt time.Time `json:"next_review_at"`
	Passed       bool      `json:"passed"`
}

// State returns the outcome as the ReviewState to persist for the next review.
func (o ReviewOutcome) State() ReviewState {
	return ReviewState{
		EaseFactor:   o.EaseFactor,
		IntervalDays: o.IntervalDays,
		Repetitions:  o.Repetitions,
		NextReviewAt: o.NextReviewAt,
	}
}

// Validate checks that the stored fields can be fed into the formula.
func (rs ReviewState) Validate() error {
	if math.IsNaN(rs.EaseFactor) || math.IsInf(rs.EaseFactor, 0) {
		return fmt.Errorf("%w: ease factor %v is not finite", ErrInvalidState, rs.EaseFactor)
	}
	if rs.IntervalDays < 0 {
		return fmt.Errorf("%w: interval %d is negative", ErrInvalidState, rs.IntervalDays)
	}
	if rs.Repetitions < 0 {
		return fmt.Errorf("%w: repetitions %d is negative", ErrInvalidState, rs.Repetitions)
	}
	return nil
}

// withDefaults fills absent fields with the SM-2 starting values.
func (rs ReviewState) withDefaults() ReviewState {
	if rs.EaseFactor == 0 {
		rs.EaseFactor = DefaultEaseFactor
	}
	if rs.IntervalDays == 0 {
		rs.IntervalDays = DefaultIntervalDays
	}
	return rs
}

// IsDue returns true if the item is due for review (at or past the review time).
func (rs ReviewState) IsDue(now time.Time) bool {
	return !now.Before(rs.NextReviewAt)
}

// OverdueDays returns how many days past due the item is. Returns 0 if not yet due.
func (rs ReviewState) OverdueDays(now time.Time) float64 {
	if now.Before(rs.NextReviewAt) {
		return 0
	}
	return now.Sub(rs.NextReviewAt).Hours() / 24.0
}

// DaysUntilReview returns the number of days until the next review.
// Returns 0 if already due.
func (rs ReviewState) DaysUntilReview(now time.Time) int {
	if rs.IsDue(now) {
		return 0
	}
	return int(rs.NextReviewAt.Sub(now).Hours()/24.0) + 1
}
