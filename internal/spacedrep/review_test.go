package spacedrep

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestIsDue_BeforeDate(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rs := ReviewState{NextReviewAt: now.Add(24 * time.Hour)}
	if rs.IsDue(now) {
		t.Error("expected not due before review date")
	}
}

func TestIsDue_OnDate(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rs := ReviewState{NextReviewAt: now}
	if !rs.IsDue(now) {
		t.Error("expected due on review date")
	}
}

func TestOverdueDays_NotDue(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rs := ReviewState{NextReviewAt: now.Add(48 * time.Hour)}
	if got := rs.OverdueDays(now); got != 0 {
		t.Errorf("OverdueDays() = %f, want 0", got)
	}
}

func TestOverdueDays_ThreeDaysOverdue(t *testing.T) {
	reviewAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rs := ReviewState{NextReviewAt: reviewAt}
	got := rs.OverdueDays(reviewAt.Add(72 * time.Hour))
	if got < 2.99 || got > 3.01 {
		t.Errorf("OverdueDays() = %f, want ~3.0", got)
	}
}

func TestDaysUntilReview(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	// 4.5 days in the future -> int(4.5) + 1 = 5
	rs := ReviewState{NextReviewAt: now.Add(108 * time.Hour)}
	if got := rs.DaysUntilReview(now); got != 5 {
		t.Errorf("DaysUntilReview() = %d, want 5", got)
	}

	rs = ReviewState{NextReviewAt: now.Add(-time.Hour)}
	if got := rs.DaysUntilReview(now); got != 0 {
		t.Errorf("DaysUntilReview() = %d, want 0 when due", got)
	}
}

func TestValidate_RejectsNonFiniteEase(t *testing.T) {
	for _, ef := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		err := ReviewState{EaseFactor: ef}.Validate()
		if !errors.Is(err, ErrInvalidState) {
			t.Errorf("Validate(ease=%v) = %v, want ErrInvalidState", ef, err)
		}
	}
}

func TestValidate_RejectsNegativeCounts(t *testing.T) {
	if err := (ReviewState{IntervalDays: -1}).Validate(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("negative interval: got %v, want ErrInvalidState", err)
	}
	if err := (ReviewState{Repetitions: -2}).Validate(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("negative repetitions: got %v, want ErrInvalidState", err)
	}
	if err := (ReviewState{}).Validate(); err != nil {
		t.Errorf("zero state should be valid, got %v", err)
	}
}

func TestQualityLabel(t *testing.T) {
	tests := []struct {
		quality int
		want    string
	}{
		{0, "Complete blackout"},
		{3, "Correct with difficulty"},
		{5, "Perfect recall"},
		{-1, "Unknown"},
		{6, "Unknown"},
	}
	for _, tt := range tests {
		if got := QualityLabel(tt.quality); got != tt.want {
			t.Errorf("QualityLabel(%d) = %q, want %q", tt.quality, got, tt.want)
		}
	}
}

func TestRetentionRate(t *testing.T) {
	if got := RetentionRate(nil); got != 0 {
		t.Errorf("RetentionRate(nil) = %f, want 0", got)
	}
	got := RetentionRate([]int{5, 4, 3, 2, 0})
	if got != 0.6 {
		t.Errorf("RetentionRate = %f, want 0.6", got)
	}
}
