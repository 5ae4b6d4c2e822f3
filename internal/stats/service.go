package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/crosstrainer/internal/apperr"
	"github.com/abhisek/crosstrainer/internal/store"
)

// Defaults for the windowed queries.
const (
	DefaultDays       = 30
	DefaultNotesLimit = 20
)

// Service loads attempts and aggregates them.
type Service struct {
	attempts store.AttemptRepo
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a stats service over attempts.
func NewService(attempts store.AttemptRepo, opts ...Option) *Service {
	s := &Service{attempts: attempts, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summary summarises attempts created between from and to. Zero bounds
// are open.
func (s *Service) Summary(ctx context.Context, from, to time.Time) (*Summary, error) {
	attempts, err := s.load(ctx, from, to)
	if err != nil {
		return nil, err
	}
	sum := Summarize(attempts)
	return &sum, nil
}

// Daily returns per-day figures for the last days days. Zero means
// DefaultDays.
func (s *Service) Daily(ctx context.Context, days int) ([]Day, error) {
	if days < 0 {
		return nil, apperr.Invalid("days", "must not be negative")
	}
	if days == 0 {
		days = DefaultDays
	}
	attempts, err := s.load(ctx, s.now().AddDate(0, 0, -days), time.Time{})
	if err != nil {
		return nil, err
	}
	return DailyBreakdown(attempts), nil
}

// TimeByDifficulty returns inspection times per difficulty for attempts
// created at or after from.
func (s *Service) TimeByDifficulty(ctx context.Context, from time.Time) ([]DifficultyTimes, error) {
	attempts, err := s.load(ctx, from, time.Time{})
	if err != nil {
		return nil, err
	}
	return InspectionTimes(attempts), nil
}

// RecentNotes returns the newest attempts that carry notes. Zero means
// DefaultNotesLimit.
func (s *Service) RecentNotes(ctx context.Context, limit int) ([]store.Attempt, error) {
	if limit < 0 {
		return nil, apperr.Invalid("limit", "must not be negative")
	}
	if limit == 0 {
		limit = DefaultNotesLimit
	}
	out, err := s.attempts.List(ctx, store.AttemptFilter{
		QueryOpts: store.QueryOpts{Limit: limit},
		WithNotes: true,
	})
	if err != nil {
		return nil, fmt.Errorf("list noted attempts: %w", err)
	}
	if out == nil {
		out = []store.Attempt{}
	}
	return out, nil
}

func (s *Service) load(ctx context.Context, from, to time.Time) ([]store.Attempt, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, apperr.Invalid("date_to", "must not be before date_from")
	}
	attempts, err := s.attempts.List(ctx, store.AttemptFilter{QueryOpts: store.QueryOpts{From: from, To: to}})
	if err != nil {
		return nil, fmt.Errorf("load attempts: %w", err)
	}
	return attempts, nil
}
