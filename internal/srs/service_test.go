package srs

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/crosstrainer/internal/apperr"
	"github.com/abhisek/crosstrainer/internal/metrics"
	"github.com/abhisek/crosstrainer/internal/reconstruction"
	"github.com/abhisek/crosstrainer/internal/schema"
	"github.com/abhisek/crosstrainer/internal/store"
)

var t0 = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

const plainRecon = "Cross: R U R' // cross\n1st pair: U R U' R'\n2nd pair: L' U L\n3rd pair: y R U R'\nOLL: F R U R' U' F'\nPLL: R2 U R U R'"

func strp(s string) *string { return &s }
func intp(v int) *int       { return &v }
func floatp(v float64) *float64 {
	return &v
}

// fixture is a service over a fresh database with a settable clock.
type fixture struct {
	svc    *Service
	st     *store.Store
	mu     sync.Mutex
	now    time.Time
	solves []*store.Solve
}

func (f *fixture) clock() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fixture) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.Open(store.DriverSQLite, filepath.Join(t.TempDir(), "srs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	f := &fixture{st: st, now: t0}
	svc, err := NewService(st.Solves(), st.SRS(), WithClock(f.clock), WithCacheSize(8))
	require.NoError(t, err)
	f.svc = svc

	f.solves = []*store.Solve{
		{Solver: "Max Park", Result: 4.86, Competition: strp("Pacific Championship 2023"), Scramble: "F2 D", Reconstruction: strp(plainRecon), CreatedAt: t0},
		{Solver: "Yiheng Wang", Result: 4.48, Scramble: "B L2", Reconstruction: strp("XCross: D R' F\n2nd pair: U L U' L'"), AlgCubingURL: strp("https://alg.cubing.net/?alg=stored"), CreatedAt: t0},
		{Solver: "Sample Solver", Result: 9.99, Scramble: "U", CreatedAt: t0},
	}
	require.NoError(t, st.Solves().CreateBatch(context.Background(), f.solves))
	return f
}

func TestAdd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	item, err := f.svc.Add(ctx, AddInput{SolveID: f.solves[0].ID, Depth: 1, Notes: strp("tricky pair")})
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.Equal(t, 2.5, item.EaseFactor)
	assert.Equal(t, 1, item.IntervalDays)
	assert.Equal(t, 0, item.Repetitions)
	assert.True(t, item.NextReviewAt.Equal(t0), "new items are due immediately")

	_, err = f.svc.Add(ctx, AddInput{SolveID: f.solves[0].ID, Depth: 1})
	assert.ErrorIs(t, err, apperr.ErrDuplicate)

	_, err = f.svc.Add(ctx, AddInput{SolveID: 9999, Depth: 0})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	for _, depth := range []int{-1, 4} {
		_, err = f.svc.Add(ctx, AddInput{SolveID: f.solves[0].ID, Depth: depth})
		assert.True(t, apperr.IsValidation(err), "depth %d", depth)
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	item, err := f.svc.Add(ctx, AddInput{SolveID: f.solves[0].ID, Depth: 0})
	require.NoError(t, err)
	require.NoError(t, f.svc.Remove(ctx, item.ID))
	assert.ErrorIs(t, f.svc.Remove(ctx, item.ID), apperr.ErrNotFound)
}

func TestDue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for depth := 0; depth <= 3; depth++ {
		_, err := f.svc.Add(ctx, AddInput{SolveID: f.solves[0].ID, Depth: depth})
		require.NoError(t, err)
		f.advance(time.Minute)
	}

	due, err := f.svc.Due(ctx, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, due.TotalDue)
	require.Len(t, due.Items, 4)
	assert.Equal(t, 0, due.Items[0].Depth, "oldest first")
	assert.Equal(t, "F2 D", due.Items[0].Scramble)
	assert.Equal(t, "Max Park", due.Items[0].Solver)

	page, err := f.svc.Due(ctx, nil, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 4, page.TotalDue)

	two := 2
	byDepth, err := f.svc.Due(ctx, &two, 0)
	require.NoError(t, err)
	require.Len(t, byDepth.Items, 1)
	assert.Equal(t, 1, byDepth.TotalDue)

	bad := 7
	_, err = f.svc.Due(ctx, &bad, 0)
	assert.True(t, apperr.IsValidation(err))
	_, err = f.svc.Due(ctx, nil, -1)
	assert.True(t, apperr.IsValidation(err))
}

func TestReview(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	item, err := f.svc.Add(ctx, AddInput{SolveID: f.solves[0].ID, Depth: 0})
	require.NoError(t, err)

	res, err := f.svc.Review(ctx, ReviewInput{SRSItemID: item.ID, Quality: 4, UserSolution: strp("R U R'")})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Item.Repetitions)
	assert.Equal(t, 1, res.Item.IntervalDays)
	assert.Equal(t, 2.5, res.Item.EaseFactor)
	assert.Equal(t, 1, res.Item.TimesCorrect)
	assert.True(t, res.Item.NextReviewAt.Equal(t0.AddDate(0, 0, 1)))
	require.NotNil(t, res.Item.LastReviewedAt)
	assert.True(t, res.Outcome.Passed)
	assert.Equal(t, "Correct with hesitation", res.Label)

	due, err := f.svc.Due(ctx, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, due.TotalDue, "reviewed item is no longer due")

	f.advance(24 * time.Hour)
	res, err = f.svc.Review(ctx, ReviewInput{SRSItemID: item.ID, Quality: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Item.Repetitions)
	assert.Equal(t, 6, res.Item.IntervalDays)
	assert.Equal(t, 2.6, res.Item.EaseFactor)

	f.advance(6 * 24 * time.Hour)
	res, err = f.svc.Review(ctx, ReviewInput{SRSItemID: item.ID, Quality: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Item.Repetitions)
	assert.Equal(t, 1, res.Item.IntervalDays)
	assert.Equal(t, 2.06, res.Item.EaseFactor)
	assert.Equal(t, 2, res.Item.TimesCorrect)
	assert.Equal(t, 1, res.Item.TimesIncorrect)
	assert.False(t, res.Outcome.Passed)
}

func TestReviewErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, q := range []int{-1, 6} {
		_, err := f.svc.Review(ctx, ReviewInput{SRSItemID: 1, Quality: q})
		var ve *apperr.ValidationError
		require.True(t, errors.As(err, &ve), "quality %d: %v", q, err)
		assert.Equal(t, "quality", ve.Field)
	}

	_, err := f.svc.Review(ctx, ReviewInput{SRSItemID: 404, Quality: 3})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSolution(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	item, err := f.svc.Add(ctx, AddInput{SolveID: f.solves[0].ID, Depth: 0})
	require.NoError(t, err)

	tests := []struct {
		depth int
		moves string
		count int
		shown []string
	}{
		{0, "R U R'", 3, []string{"cross"}},
		{1, "R U R' U R U' R'", 7, []string{"cross", "1st pair"}},
		{3, "R U R' U R U' R' L' U L y R U R'", 13, []string{"cross", "1st pair", "2nd pair", "3rd pair"}},
	}
	for _, tt := range tests {
		sol, err := f.svc.Solution(ctx, item.ID, tt.depth)
		require.NoError(t, err)
		assert.Equal(t, tt.moves, sol.MovesAtDepth, "depth %d", tt.depth)
		assert.Equal(t, tt.count, sol.MoveCount, "depth %d", tt.depth)
		var names []string
		for _, s := range sol.SegmentsShown {
			names = append(names, s.Name)
		}
		assert.Equal(t, tt.shown, names, "depth %d", tt.depth)
		assert.Equal(t, f.solves[0].ID, sol.SolveID)
		assert.Equal(t, "Max Park", sol.Solver)
		assert.Equal(t, reconstruction.AlgCubingURL("F2 D", tt.moves), sol.AlgCubingURL)
		require.NotNil(t, sol.Segments)
		assert.Equal(t, reconstruction.CrossPlain, sol.Segments.CrossType)
	}
	assert.Equal(t, 1, f.svc.cache.Len())

	_, err = f.svc.Solution(ctx, item.ID, 4)
	assert.True(t, apperr.IsValidation(err))
	_, err = f.svc.Solution(ctx, 12345, 0)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSolutionWithoutReconstruction(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	item, err := f.svc.Add(ctx, AddInput{SolveID: f.solves[2].ID, Depth: 2})
	require.NoError(t, err)

	sol, err := f.svc.Solution(ctx, item.ID, 2)
	require.NoError(t, err)
	assert.Nil(t, sol.Segments)
	assert.Empty(t, sol.MovesAtDepth)
	assert.Zero(t, sol.MoveCount)
	assert.NotNil(t, sol.SegmentsShown)
	assert.Empty(t, sol.SegmentsShown)
}

func TestSegmentCacheInvalidatesOnTextChange(t *testing.T) {
	c, err := newSegmentCache(4, nil)
	require.NoError(t, err)

	first := c.Segments(1, strp("Cross: R U"))
	again := c.Segments(1, strp("Cross: R U"))
	assert.Same(t, first, again)

	changed := c.Segments(1, strp("XCross: R U F"))
	require.NotNil(t, changed)
	assert.Equal(t, reconstruction.XCross, changed.CrossType)
	assert.Equal(t, 1, c.Len())

	assert.Nil(t, c.Segments(2, nil))
	assert.Equal(t, 1, c.Len())
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	empty, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalItems)
	assert.Empty(t, empty.ByDepth)
	assert.Zero(t, empty.RetentionRate)

	a, err := f.svc.Add(ctx, AddInput{SolveID: f.solves[0].ID, Depth: 0})
	require.NoError(t, err)
	_, err = f.svc.Add(ctx, AddInput{SolveID: f.solves[1].ID, Depth: 0})
	require.NoError(t, err)
	_, err = f.svc.Add(ctx, AddInput{SolveID: f.solves[0].ID, Depth: 2})
	require.NoError(t, err)

	_, err = f.svc.Review(ctx, ReviewInput{SRSItemID: a.ID, Quality: 5})
	require.NoError(t, err)
	_, err = f.svc.Review(ctx, ReviewInput{SRSItemID: a.ID, Quality: 2})
	require.NoError(t, err)

	st, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, st.TotalItems)
	assert.Equal(t, 2, st.DueToday, "the reviewed item is next due tomorrow")
	assert.Equal(t, 2, st.ReviewsLast7Days)
	assert.InDelta(t, 0.5, st.RetentionRate, 1e-9)
	require.Contains(t, st.ByDepth, 0)
	require.Contains(t, st.ByDepth, 2)
	assert.Equal(t, 2, st.ByDepth[0].Items)
	assert.Equal(t, 1, st.ByDepth[2].Items)
	assert.Equal(t, 2.5, st.ByDepth[2].AvgEase)

	f.advance(8 * 24 * time.Hour)
	later, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, later.ReviewsLast7Days)
}

func TestSolves(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Add(ctx, AddInput{SolveID: f.solves[0].ID, Depth: 2})
	require.NoError(t, err)
	_, err = f.svc.Add(ctx, AddInput{SolveID: f.solves[0].ID, Depth: 0})
	require.NoError(t, err)

	page, err := f.svc.Solves(ctx, store.SolveFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total, "solves without a reconstruction are not listed")
	require.Len(t, page.Solves, 2)
	assert.Equal(t, "Yiheng Wang", page.Solves[0].Solver, "ordered by result")
	assert.Equal(t, []int{}, page.Solves[0].InSRS)
	assert.Equal(t, []int{0, 2}, page.Solves[1].InSRS)
	assert.True(t, page.Solves[1].HasReconstruction)

	filtered, err := f.svc.Solves(ctx, store.SolveFilter{Solver: "  park ", MaxResult: floatp(5)})
	require.NoError(t, err)
	assert.Equal(t, 1, filtered.Total)

	_, err = f.svc.Solves(ctx, store.SolveFilter{Limit: -1})
	assert.True(t, apperr.IsValidation(err))
}

func TestSolve(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	d, err := f.svc.Solve(ctx, f.solves[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Max Park", d.Solver)
	require.NotNil(t, d.ParsedSegments)
	assert.Equal(t, "1st pair: U R U' R'", d.ParsedSegments.Pair1.Line)
	assert.Equal(t, reconstruction.AlgCubingURL("F2 D", plainRecon), d.AlgCubingURL)
	assert.Equal(t, []int{}, d.InSRS)

	stored, err := f.svc.Solve(ctx, f.solves[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "https://alg.cubing.net/?alg=stored", stored.AlgCubingURL)
	assert.True(t, stored.ParsedSegments.Pair1.IsIncluded())

	_, err = f.svc.Solve(ctx, 777)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	raw := []byte(`[
		{"solver": "Luke Garrett", "result": 5.5, "scramble": "R2 U", "reconstruction": "Cross: D2", "solve_date": "2024-05-01", "stm_cross1": 2},
		{"solver": "Luke Garrett", "result": 6.1, "scramble": "F", "puzzle": "3x3", "competition": null}
	]`)
	solves, err := f.svc.Import(ctx, raw)
	require.NoError(t, err)
	require.Len(t, solves, 2)
	assert.NotZero(t, solves[0].ID)
	require.NotNil(t, solves[0].SolveDate)
	assert.Equal(t, "2024-05-01", solves[0].SolveDate.Format(time.DateOnly))

	got, err := f.svc.Solve(ctx, solves[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, *got.STMCross1)

	_, err = f.svc.Import(ctx, []byte(`[{"solver": "x"}]`))
	var invErr *schema.ErrInvalidDocument
	assert.True(t, errors.As(err, &invErr))

	none, err := f.svc.Import(ctx, []byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestConcurrentSolutions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	item, err := f.svc.Add(ctx, AddInput{SolveID: f.solves[0].ID, Depth: 0})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(depth int) {
			defer wg.Done()
			sol, err := f.svc.Solution(ctx, item.ID, depth)
			if err != nil {
				errs <- err
				return
			}
			if !strings.HasPrefix(sol.MovesAtDepth, "R U R'") {
				errs <- errors.New("unexpected moves " + sol.MovesAtDepth)
			}
		}(i % 4)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func dueGauge(m *metrics.Metrics) float64 {
	families, err := m.Registry().Gather()
	if err != nil {
		return -1
	}
	for _, f := range families {
		if f.GetName() == "crosstrainer_srs_due_items" {
			return f.GetMetric()[0].GetGauge().GetValue()
		}
	}
	return -1
}

func TestWatchDue(t *testing.T) {
	f := newFixture(t)
	m := metrics.New()
	svc, err := NewService(f.st.Solves(), f.st.SRS(), WithClock(f.clock), WithMetrics(m))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	for _, solve := range f.solves[:2] {
		_, err := svc.Add(ctx, AddInput{SolveID: solve.ID, Depth: 1})
		require.NoError(t, err)
	}

	done := make(chan error, 1)
	go func() { done <- svc.WatchDue(ctx, time.Hour) }()

	require.Eventually(t, func() bool { return dueGauge(m) == 2 }, 5*time.Second, 10*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("WatchDue did not stop after cancel")
	}
}

func TestDueLabel(t *testing.T) {
	tests := []struct {
		name string
		next time.Time
		want string
	}{
		{"exactly now", t0, "due today"},
		{"hours overdue", t0.Add(-5 * time.Hour), "due today"},
		{"days overdue", t0.Add(-50 * time.Hour), "2d overdue"},
		{"later today", t0.Add(3 * time.Hour), "in 1d"},
		{"two days out", t0.Add(36 * time.Hour), "in 2d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DueLabel(store.SRSItem{NextReviewAt: tt.next}, t0))
		})
	}
}

func TestItemState(t *testing.T) {
	it := store.SRSItem{EaseFactor: 2.36, IntervalDays: 6, Repetitions: 2, NextReviewAt: t0}
	rs := ItemState(it)
	assert.Equal(t, 2.36, rs.EaseFactor)
	assert.Equal(t, 6, rs.IntervalDays)
	assert.Equal(t, 2, rs.Repetitions)
	assert.True(t, rs.IsDue(t0))
}
