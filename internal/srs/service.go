// Package srs schedules expert solve reconstructions for spaced-repetition
// review and serves their partial solutions.
package srs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/crosstrainer/internal/apperr"
	"github.com/abhisek/crosstrainer/internal/metrics"
	"github.com/abhisek/crosstrainer/internal/reconstruction"
	"github.com/abhisek/crosstrainer/internal/spacedrep"
	"github.com/abhisek/crosstrainer/internal/store"
)

// DefaultDueLimit is the number of due items returned when no limit is given.
const DefaultDueLimit = 10

// Service manages SRS items, reviews and the solve library.
type Service struct {
	solves  store.SolveRepo
	items   store.SRSRepo
	cache   *segmentCache
	metrics *metrics.Metrics
	now     func() time.Time

	cacheSize int
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMetrics records review and cache counters on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithCacheSize sets the number of parsed reconstructions kept in memory.
func WithCacheSize(n int) Option {
	return func(s *Service) { s.cacheSize = n }
}

// NewService creates an SRS service over the given repositories.
func NewService(solves store.SolveRepo, items store.SRSRepo, opts ...Option) (*Service, error) {
	s := &Service{
		solves:    solves,
		items:     items,
		now:       time.Now,
		cacheSize: defaultCacheSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	cache, err := newSegmentCache(s.cacheSize, s.metrics)
	if err != nil {
		return nil, fmt.Errorf("create segment cache: %w", err)
	}
	s.cache = cache
	return s, nil
}

// AddInput schedules a solve for review at a depth.
type AddInput struct {
	SolveID int64   `json:"solve_id"`
	Depth   int     `json:"depth"`
	Notes   *string `json:"notes"`
}

// Add schedules a solve at a depth. The item is due immediately.
func (s *Service) Add(ctx context.Context, in AddInput) (*store.SRSItem, error) {
	if err := validateDepth(in.Depth); err != nil {
		return nil, err
	}
	if _, err := s.solves.Get(ctx, in.SolveID); err != nil {
		return nil, fmt.Errorf("solve %d: %w", in.SolveID, err)
	}
	item := &store.SRSItem{
		SolveID:   in.SolveID,
		Depth:     in.Depth,
		Notes:     in.Notes,
		CreatedAt: s.now().UTC(),
	}
	if err := s.items.Create(ctx, item); err != nil {
		if errors.Is(err, apperr.ErrDuplicate) {
			return nil, fmt.Errorf("solve %d is already in SRS at depth %d: %w", in.SolveID, in.Depth, err)
		}
		return nil, fmt.Errorf("add srs item: %w", err)
	}
	return item, nil
}

// Remove deletes an item and its review history.
func (s *Service) Remove(ctx context.Context, id int64) error {
	if err := s.items.Delete(ctx, id); err != nil {
		return fmt.Errorf("remove srs item %d: %w", id, err)
	}
	return nil
}

// ItemState returns the scheduling state stored on an item.
func ItemState(it store.SRSItem) spacedrep.ReviewState {
	return spacedrep.ReviewState{
		EaseFactor:   it.EaseFactor,
		IntervalDays: it.IntervalDays,
		Repetitions:  it.Repetitions,
		NextReviewAt: it.NextReviewAt,
	}
}

// DueLabel describes when an item is due relative to now: "due today",
// "3d overdue" or "in 2d".
func DueLabel(it store.SRSItem, now time.Time) string {
	rs := ItemState(it)
	if !rs.IsDue(now) {
		return fmt.Sprintf("in %dd", rs.DaysUntilReview(now))
	}
	if days := int(rs.OverdueDays(now)); days > 0 {
		return fmt.Sprintf("%dd overdue", days)
	}
	return "due today"
}

// DueList is a page of due items and the total number due.
type DueList struct {
	Items    []store.DueItem `json:"items"`
	TotalDue int             `json:"total_due"`
}

// Due returns items due for review, oldest first. A nil depth matches
// every depth; a zero limit means DefaultDueLimit.
func (s *Service) Due(ctx context.Context, depth *int, limit int) (*DueList, error) {
	if depth != nil {
		if err := validateDepth(*depth); err != nil {
			return nil, err
		}
	}
	if limit < 0 {
		return nil, apperr.Invalid("limit", "must not be negative")
	}
	if limit == 0 {
		limit = DefaultDueLimit
	}

	now := s.now()
	items, err := s.items.Due(ctx, now, depth, limit)
	if err != nil {
		return nil, fmt.Errorf("list due items: %w", err)
	}
	total, err := s.items.CountDue(ctx, now, depth)
	if err != nil {
		return nil, fmt.Errorf("count due items: %w", err)
	}
	if items == nil {
		items = []store.DueItem{}
	}
	return &DueList{Items: items, TotalDue: total}, nil
}

// ReviewInput is one graded review of an item.
type ReviewInput struct {
	SRSItemID      int64   `json:"srs_item_id"`
	Quality        int     `json:"quality"`
	ResponseTimeMs *int64  `json:"response_time_ms"`
	UserSolution   *string `json:"user_solution"`
	Notes          *string `json:"notes"`
}

// ReviewResult is the rescheduled item.
type ReviewResult struct {
	Item    *store.SRSItem          `json:"item"`
	Outcome spacedrep.ReviewOutcome `json:"outcome"`
	Label   string                  `json:"label"`
}

// Review grades an item, reschedules it and records the review in one
// transaction.
func (s *Service) Review(ctx context.Context, in ReviewInput) (*ReviewResult, error) {
	if err := spacedrep.ValidateQuality(in.Quality); err != nil {
		return nil, apperr.Invalid("quality", "must be between %d and %d", spacedrep.MinQuality, spacedrep.MaxQuality)
	}
	if in.ResponseTimeMs != nil && *in.ResponseTimeMs < 0 {
		return nil, apperr.Invalid("response_time_ms", "must not be negative")
	}

	now := s.now()
	var outcome spacedrep.ReviewOutcome
	item, err := s.items.Review(ctx, in.SRSItemID, func(cur store.SRSItem) (store.ReviewUpdate, error) {
		var err error
		outcome, err = spacedrep.Next(ItemState(cur), in.Quality, now)
		if err != nil {
			return store.ReviewUpdate{}, err
		}
		return store.ReviewUpdate{
			EaseFactor:   outcome.EaseFactor,
			IntervalDays: outcome.IntervalDays,
			Repetitions:  outcome.Repetitions,
			NextReviewAt: outcome.NextReviewAt,
			ReviewedAt:   now,
			Passed:       outcome.Passed,
			Review: store.SRSReview{
				Quality:        in.Quality,
				ResponseTimeMs: in.ResponseTimeMs,
				UserSolution:   in.UserSolution,
				Notes:          in.Notes,
			},
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("review srs item %d: %w", in.SRSItemID, err)
	}
	s.metrics.ReviewRecorded(outcome.Passed)
	return &ReviewResult{Item: item, Outcome: outcome, Label: spacedrep.QualityLabel(in.Quality)}, nil
}

// Solution is the partial solution of an item's solve at a depth.
type Solution struct {
	ItemID        int64                         `json:"-"`
	SolveID       int64                         `json:"solve_id"`
	Solver        string                        `json:"solver"`
	Result        float64                       `json:"result"`
	Competition   *string                       `json:"competition"`
	Scramble      string                        `json:"scramble"`
	Depth         int                           `json:"depth"`
	Segments      *reconstruction.Segments      `json:"segments"`
	MovesAtDepth  string                        `json:"moves_at_depth"`
	MoveCount     int                           `json:"move_count"`
	SegmentsShown []reconstruction.ShownSegment `json:"segments_shown"`
	AlgCubingURL  string                        `json:"alg_cubing_url"`
}

// Solution returns the cross and the first depth pairs of the item's solve.
func (s *Service) Solution(ctx context.Context, itemID int64, depth int) (*Solution, error) {
	if err := validateDepth(depth); err != nil {
		return nil, err
	}
	item, err := s.items.Get(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get srs item %d: %w", itemID, err)
	}
	solve, err := s.solves.Get(ctx, item.SolveID)
	if err != nil {
		return nil, fmt.Errorf("get solve %d: %w", item.SolveID, err)
	}

	segs := s.cache.Segments(solve.ID, solve.Reconstruction)
	sol := reconstruction.SolutionAtDepth(segs, depth)
	return &Solution{
		ItemID:        item.ID,
		SolveID:       solve.ID,
		Solver:        solve.Solver,
		Result:        solve.Result,
		Competition:   solve.Competition,
		Scramble:      solve.Scramble,
		Depth:         depth,
		Segments:      segs,
		MovesAtDepth:  sol.Moves,
		MoveCount:     sol.MoveCount,
		SegmentsShown: sol.SegmentsShown,
		AlgCubingURL:  reconstruction.AlgCubingURL(solve.Scramble, sol.Moves),
	}, nil
}

func validateDepth(depth int) error {
	if depth < 0 || depth > reconstruction.MaxDepth {
		return apperr.Invalid("depth", "must be between 0 and %d", reconstruction.MaxDepth)
	}
	return nil
}
