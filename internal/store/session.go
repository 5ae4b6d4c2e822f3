package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/crosstrainer/internal/apperr"
)

var sessionColumns = []string{"id", "started_at", "ended_at", "notes", "created_at"}

// sessionRepo implements SessionRepo with the ent SQL builder.
type sessionRepo struct {
	s *Store
}

func (r *sessionRepo) Create(ctx context.Context, sess *Session) error {
	query, args := r.s.builder().Insert(tableSessions).
		Columns(sessionColumns...).
		Values(sess.ID, timeArg(sess.StartedAt), timePtrArg(sess.EndedAt), strPtrArg(sess.Notes), timeArg(sess.CreatedAt)).
		Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return mapError("insert session", err)
	}
	return nil
}

func (r *sessionRepo) Get(ctx context.Context, id string) (*Session, error) {
	return getSession(ctx, r.s, r.s.db, id)
}

func getSession(ctx context.Context, s *Store, q querier, id string) (*Session, error) {
	query, args := s.builder().Select(sessionColumns...).
		From(s.builder().Table(tableSessions)).
		Where(entsql.EQ("id", id)).
		Query()
	sess, err := scanSession(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapError("get session", err)
	}
	return sess, nil
}

func (r *sessionRepo) List(ctx context.Context, limit, offset int) ([]SessionSummary, error) {
	b := r.s.builder()
	s := b.Table(tableSessions).As("s")
	a := b.Table(tableAttempts).As("a")
	sel := b.Select(
		s.C("id"), s.C("started_at"), s.C("ended_at"), s.C("notes"), s.C("created_at"),
		entsql.As(entsql.Count(a.C("id")), "attempt_count"),
	).
		From(s).
		LeftJoin(a).On(s.C("id"), a.C("session_id")).
		GroupBy(s.C("id"), s.C("started_at"), s.C("ended_at"), s.C("notes"), s.C("created_at")).
		OrderBy(entsql.Desc(s.C("started_at")))
	paginate(sel, limit, offset)
	query, args := sel.Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var (
			sum   SessionSummary
			ended sql.NullTime
			notes sql.NullString
			count int64
		)
		if err := rows.Scan(&sum.ID, &sum.StartedAt, &ended, &notes, &sum.CreatedAt, &count); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sum.StartedAt = sum.StartedAt.UTC()
		sum.CreatedAt = sum.CreatedAt.UTC()
		sum.EndedAt = nullTime(ended)
		sum.Notes = nullString(notes)
		sum.AttemptCount = int(count)
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (r *sessionRepo) Update(ctx context.Context, id string, upd SessionUpdate) (*Session, error) {
	if upd.EndedAt == nil && upd.Notes == nil {
		return nil, fmt.Errorf("update session: %w", apperr.ErrNoUpdates)
	}

	var out *Session
	err := r.s.withTx(ctx, func(tx *sql.Tx) error {
		u := r.s.builder().Update(tableSessions).Where(entsql.EQ("id", id))
		if upd.EndedAt != nil {
			u.Set("ended_at", timeArg(*upd.EndedAt))
		}
		if upd.Notes != nil {
			u.Set("notes", *upd.Notes)
		}
		query, args := u.Query()
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return mapError("update session", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("update session %s: %w", id, apperr.ErrNotFound)
		}
		out, err = getSession(ctx, r.s, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func scanSession(row *sql.Row) (*Session, error) {
	var (
		sess  Session
		ended sql.NullTime
		notes sql.NullString
	)
	if err := row.Scan(&sess.ID, &sess.StartedAt, &ended, &notes, &sess.CreatedAt); err != nil {
		return nil, err
	}
	sess.StartedAt = sess.StartedAt.UTC()
	sess.CreatedAt = sess.CreatedAt.UTC()
	sess.EndedAt = nullTime(ended)
	sess.Notes = nullString(notes)
	return &sess, nil
}
