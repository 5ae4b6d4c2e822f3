package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

var attemptColumns = []string{
	"id", "session_id", "scramble", "cross_moves", "cross_color",
	"pairs_attempted", "cross_success", "pairs_planned", "inspection_time_ms",
	"used_unlimited_time", "notes", "created_at",
}

// attemptRepo implements AttemptRepo with the ent SQL builder.
type attemptRepo struct {
	s *Store
}

func (r *attemptRepo) Create(ctx context.Context, a *Attempt) error {
	if a.CrossColor == "" {
		a.CrossColor = DefaultCrossColor
	}
	query, args := r.s.builder().Insert(tableAttempts).
		Columns(attemptColumns[1:]...).
		Values(
			strPtrArg(a.SessionID), a.Scramble, a.CrossMoves, a.CrossColor,
			a.PairsAttempted, boolPtrArg(a.CrossSuccess), a.PairsPlanned,
			int64PtrArg(a.InspectionTimeMs), a.UsedUnlimitedTime, strPtrArg(a.Notes),
			timeArg(a.CreatedAt),
		).
		Returning("id").
		Query()
	if err := r.s.db.QueryRowContext(ctx, query, args...).Scan(&a.ID); err != nil {
		return mapError("insert attempt", err)
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return nil
}

func (r *attemptRepo) Get(ctx context.Context, id int64) (*Attempt, error) {
	query, args := r.s.builder().Select(attemptColumns...).
		From(r.s.builder().Table(tableAttempts)).
		Where(entsql.EQ("id", id)).
		Query()
	a, err := scanAttempt(r.s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapError("get attempt", err)
	}
	return a, nil
}

func (r *attemptRepo) List(ctx context.Context, f AttemptFilter) ([]Attempt, error) {
	sel := r.s.builder().Select(attemptColumns...).
		From(r.s.builder().Table(tableAttempts)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("id"))
	if f.SessionID != "" {
		sel.Where(entsql.EQ("session_id", f.SessionID))
	}
	if f.CrossMoves != 0 {
		sel.Where(entsql.EQ("cross_moves", f.CrossMoves))
	}
	if !f.From.IsZero() {
		sel.Where(entsql.GTE("created_at", timeArg(f.From)))
	}
	if !f.To.IsZero() {
		sel.Where(entsql.LTE("created_at", timeArg(f.To)))
	}
	if f.WithNotes {
		sel.Where(entsql.And(entsql.NotNull("notes"), entsql.NEQ("notes", "")))
	}
	paginate(sel, f.Limit, f.Offset)
	query, args := sel.Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttempt(row rowScanner) (*Attempt, error) {
	var (
		a          Attempt
		sessionID  sql.NullString
		success    sql.NullBool
		inspection sql.NullInt64
		notes      sql.NullString
	)
	err := row.Scan(
		&a.ID, &sessionID, &a.Scramble, &a.CrossMoves, &a.CrossColor,
		&a.PairsAttempted, &success, &a.PairsPlanned, &inspection,
		&a.UsedUnlimitedTime, &notes, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.SessionID = nullString(sessionID)
	a.CrossSuccess = nullBool(success)
	a.InspectionTimeMs = nullInt64(inspection)
	a.Notes = nullString(notes)
	a.CreatedAt = a.CreatedAt.UTC()
	return &a, nil
}
