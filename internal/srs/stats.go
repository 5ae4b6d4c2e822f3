package srs

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/crosstrainer/internal/spacedrep"
	"github.com/abhisek/crosstrainer/internal/store"
)

// statsWindow is the look-back window for review counts and retention.
const statsWindow = 7 * 24 * time.Hour

// DepthSummary aggregates the items at one depth.
type DepthSummary struct {
	Items   int     `json:"items"`
	AvgEase float64 `json:"avg_ease"`
}

// Stats summarises the review queue and recent review performance.
type Stats struct {
	TotalItems       int                  `json:"total_items"`
	DueToday         int                  `json:"due_today"`
	ByDepth          map[int]DepthSummary `json:"by_depth"`
	ReviewsLast7Days int                  `json:"reviews_last_7_days"`
	RetentionRate    float64              `json:"retention_rate"`
}

// Stats runs the independent summary queries concurrently.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	now := s.now()
	var (
		total, due int
		byDepth    []store.DepthStat
		qualities  []int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.items.Count(ctx)
		if err != nil {
			return fmt.Errorf("count items: %w", err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		n, err := s.items.CountDue(ctx, now, nil)
		if err != nil {
			return fmt.Errorf("count due items: %w", err)
		}
		due = n
		return nil
	})
	g.Go(func() error {
		rows, err := s.items.ByDepth(ctx)
		if err != nil {
			return fmt.Errorf("group items by depth: %w", err)
		}
		byDepth = rows
		return nil
	})
	g.Go(func() error {
		q, err := s.items.QualitiesSince(ctx, now.Add(-statsWindow))
		if err != nil {
			return fmt.Errorf("load recent reviews: %w", err)
		}
		qualities = q
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("srs stats: %w", err)
	}

	out := &Stats{
		TotalItems:       total,
		DueToday:         due,
		ByDepth:          make(map[int]DepthSummary, len(byDepth)),
		ReviewsLast7Days: len(qualities),
		RetentionRate:    spacedrep.RetentionRate(qualities),
	}
	for _, d := range byDepth {
		out.ByDepth[d.Depth] = DepthSummary{Items: d.Items, AvgEase: d.AvgEase}
	}
	return out, nil
}

// WatchDue publishes the due item count to the metrics gauge every interval
// until ctx is done. Count failures are returned unless ctx was cancelled.
func (s *Service) WatchDue(ctx context.Context, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		n, err := s.items.CountDue(ctx, s.now(), nil)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("count due items: %w", err)
		}
		s.metrics.SetDueItems(n)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
