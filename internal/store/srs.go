package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/crosstrainer/internal/apperr"
)

var srsItemColumns = []string{
	"id", "solve_id", "depth", "ease_factor", "interval_days", "repetitions",
	"next_review_at", "last_reviewed_at", "times_correct", "times_incorrect",
	"notes", "created_at",
}

// Initial scheduling state of a new SRS item.
const (
	initialEaseFactor   = 2.5
	initialIntervalDays = 1
)

// srsRepo implements SRSRepo with the ent SQL builder.
type srsRepo struct {
	s *Store
}

// Create inserts item. Zero scheduling fields take the initial values and
// a zero NextReviewAt makes the item due at CreatedAt.
func (r *srsRepo) Create(ctx context.Context, item *SRSItem) error {
	if item.EaseFactor == 0 {
		item.EaseFactor = initialEaseFactor
	}
	if item.IntervalDays == 0 {
		item.IntervalDays = initialIntervalDays
	}
	if item.NextReviewAt.IsZero() {
		item.NextReviewAt = item.CreatedAt
	}
	query, args := r.s.builder().Insert(tableSRSItems).
		Columns(srsItemColumns[1:]...).
		Values(
			item.SolveID, item.Depth, item.EaseFactor, item.IntervalDays,
			item.Repetitions, timeArg(item.NextReviewAt), timePtrArg(item.LastReviewedAt),
			item.TimesCorrect, item.TimesIncorrect, strPtrArg(item.Notes),
			timeArg(item.CreatedAt),
		).
		Returning("id").
		Query()
	if err := r.s.db.QueryRowContext(ctx, query, args...).Scan(&item.ID); err != nil {
		return mapError("insert srs item", err)
	}
	item.NextReviewAt = item.NextReviewAt.UTC()
	item.CreatedAt = item.CreatedAt.UTC()
	return nil
}

func (r *srsRepo) Get(ctx context.Context, id int64) (*SRSItem, error) {
	return getSRSItem(ctx, r.s, r.s.db, id)
}

func getSRSItem(ctx context.Context, s *Store, q querier, id int64) (*SRSItem, error) {
	query, args := s.builder().Select(srsItemColumns...).
		From(s.builder().Table(tableSRSItems)).
		Where(entsql.EQ("id", id)).
		Query()
	item, err := scanSRSItem(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapError("get srs item", err)
	}
	return item, nil
}

func (r *srsRepo) Delete(ctx context.Context, id int64) error {
	query, args := r.s.builder().Delete(tableSRSItems).
		Where(entsql.EQ("id", id)).
		Query()
	res, err := r.s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError("delete srs item", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete srs item: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete srs item %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}

func (r *srsRepo) Due(ctx context.Context, now time.Time, depth *int, limit int) ([]DueItem, error) {
	b := r.s.builder()
	si := b.Table(tableSRSItems).As("si")
	sv := b.Table(tableSolves).As("s")

	cols := si.Columns(srsItemColumns...)
	cols = append(cols, sv.C("scramble"), sv.C("solver"), sv.C("result"), sv.C("competition"), sv.C("solve_date"))
	sel := b.Select(cols...).
		From(si).
		Join(sv).On(si.C("solve_id"), sv.C("id")).
		Where(entsql.LTE(si.C("next_review_at"), timeArg(now))).
		OrderBy(entsql.Asc(si.C("next_review_at")), entsql.Asc(si.C("id")))
	if depth != nil {
		sel.Where(entsql.EQ(si.C("depth"), *depth))
	}
	paginate(sel, limit, 0)
	query, args := sel.Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list due items: %w", err)
	}
	defer rows.Close()

	var out []DueItem
	for rows.Next() {
		var (
			d           DueItem
			lastReview  sql.NullTime
			notes       sql.NullString
			competition sql.NullString
			solveDate   sql.NullTime
		)
		err := rows.Scan(
			&d.ID, &d.SolveID, &d.Depth, &d.EaseFactor, &d.IntervalDays, &d.Repetitions,
			&d.NextReviewAt, &lastReview, &d.TimesCorrect, &d.TimesIncorrect, &notes,
			&d.CreatedAt, &d.Scramble, &d.Solver, &d.Result, &competition, &solveDate,
		)
		if err != nil {
			return nil, fmt.Errorf("scan due item: %w", err)
		}
		d.NextReviewAt = d.NextReviewAt.UTC()
		d.CreatedAt = d.CreatedAt.UTC()
		d.LastReviewedAt = nullTime(lastReview)
		d.Notes = nullString(notes)
		d.Competition = nullString(competition)
		d.SolveDate = nullTime(solveDate)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *srsRepo) CountDue(ctx context.Context, now time.Time, depth *int) (int, error) {
	sel := r.s.builder().Select(entsql.Count("*")).
		From(r.s.builder().Table(tableSRSItems)).
		Where(entsql.LTE("next_review_at", timeArg(now)))
	if depth != nil {
		sel.Where(entsql.EQ("depth", *depth))
	}
	query, args := sel.Query()
	var n int
	if err := r.s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count due items: %w", err)
	}
	return n, nil
}

func (r *srsRepo) Count(ctx context.Context) (int, error) {
	query, args := r.s.builder().Select(entsql.Count("*")).
		From(r.s.builder().Table(tableSRSItems)).
		Query()
	var n int
	if err := r.s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count srs items: %w", err)
	}
	return n, nil
}

func (r *srsRepo) Review(ctx context.Context, id int64, fn ReviewFunc) (*SRSItem, error) {
	var out *SRSItem
	err := r.s.withTx(ctx, func(tx *sql.Tx) error {
		cur, err := getSRSItem(ctx, r.s, tx, id)
		if err != nil {
			return err
		}
		upd, err := fn(*cur)
		if err != nil {
			return err
		}

		correct, incorrect := 0, 1
		if upd.Passed {
			correct, incorrect = 1, 0
		}
		query, args := r.s.builder().Update(tableSRSItems).
			Set("ease_factor", upd.EaseFactor).
			Set("interval_days", upd.IntervalDays).
			Set("repetitions", upd.Repetitions).
			Set("next_review_at", timeArg(upd.NextReviewAt)).
			Set("last_reviewed_at", timeArg(upd.ReviewedAt)).
			Add("times_correct", correct).
			Add("times_incorrect", incorrect).
			Where(entsql.EQ("id", id)).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return mapError("update srs item", err)
		}

		rv := upd.Review
		query, args = r.s.builder().Insert(tableReviews).
			Columns("srs_item_id", "quality", "response_time_ms", "user_solution", "notes", "created_at").
			Values(id, rv.Quality, int64PtrArg(rv.ResponseTimeMs), strPtrArg(rv.UserSolution), strPtrArg(rv.Notes), timeArg(upd.ReviewedAt)).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return mapError("insert srs review", err)
		}

		out, err = getSRSItem(ctx, r.s, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *srsRepo) ByDepth(ctx context.Context) ([]DepthStat, error) {
	query, args := r.s.builder().Select(
		"depth",
		entsql.As(entsql.Count("*"), "items"),
		entsql.As(entsql.Avg("ease_factor"), "avg_ease"),
	).
		From(r.s.builder().Table(tableSRSItems)).
		GroupBy("depth").
		OrderBy("depth").
		Query()
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("srs items by depth: %w", err)
	}
	defer rows.Close()

	var out []DepthStat
	for rows.Next() {
		var (
			ds  DepthStat
			avg sql.NullFloat64
		)
		if err := rows.Scan(&ds.Depth, &ds.Items, &avg); err != nil {
			return nil, fmt.Errorf("scan depth stat: %w", err)
		}
		ds.AvgEase = initialEaseFactor
		if avg.Valid && avg.Float64 != 0 {
			ds.AvgEase = avg.Float64
		}
		out = append(out, ds)
	}
	return out, rows.Err()
}

func (r *srsRepo) QualitiesSince(ctx context.Context, since time.Time) ([]int, error) {
	query, args := r.s.builder().Select("quality").
		From(r.s.builder().Table(tableReviews)).
		Where(entsql.GTE("created_at", timeArg(since))).
		OrderBy("id").
		Query()
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list review qualities: %w", err)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var q int
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("scan review quality: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *srsRepo) DepthsBySolve(ctx context.Context, solveIDs ...int64) (map[int64][]int, error) {
	out := make(map[int64][]int, len(solveIDs))
	if len(solveIDs) == 0 {
		return out, nil
	}
	ids := make([]any, len(solveIDs))
	for i, id := range solveIDs {
		ids[i] = id
	}
	query, args := r.s.builder().Select("solve_id", "depth").
		From(r.s.builder().Table(tableSRSItems)).
		Where(entsql.In("solve_id", ids...)).
		OrderBy("solve_id", "depth").
		Query()
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list srs depths: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			solveID int64
			depth   int
		)
		if err := rows.Scan(&solveID, &depth); err != nil {
			return nil, fmt.Errorf("scan srs depth: %w", err)
		}
		out[solveID] = append(out[solveID], depth)
	}
	return out, rows.Err()
}

func scanSRSItem(row rowScanner) (*SRSItem, error) {
	var (
		item       SRSItem
		lastReview sql.NullTime
		notes      sql.NullString
	)
	err := row.Scan(
		&item.ID, &item.SolveID, &item.Depth, &item.EaseFactor, &item.IntervalDays,
		&item.Repetitions, &item.NextReviewAt, &lastReview, &item.TimesCorrect,
		&item.TimesIncorrect, &notes, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.NextReviewAt = item.NextReviewAt.UTC()
	item.CreatedAt = item.CreatedAt.UTC()
	item.LastReviewedAt = nullTime(lastReview)
	item.Notes = nullString(notes)
	return &item, nil
}
