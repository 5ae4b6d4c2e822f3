package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

var solveColumns = []string{
	"id", "puzzle", "solver", "result", "competition", "solve_date", "scramble",
	"reconstruction", "method", "stm_cross1", "time_cross1", "alg_cubing_url",
	"created_at",
}

// solveRepo implements SolveRepo with the ent SQL builder.
type solveRepo struct {
	s *Store
}

func (r *solveRepo) CreateBatch(ctx context.Context, solves []*Solve) error {
	return r.s.withTx(ctx, func(tx *sql.Tx) error {
		for i, sv := range solves {
			if sv.Puzzle == "" {
				sv.Puzzle = DefaultPuzzle
			}
			query, args := r.s.builder().Insert(tableSolves).
				Columns(solveColumns[1:]...).
				Values(
					sv.Puzzle, sv.Solver, sv.Result, strPtrArg(sv.Competition),
					timePtrArg(sv.SolveDate), sv.Scramble, strPtrArg(sv.Reconstruction),
					strPtrArg(sv.Method), intPtrArg(sv.STMCross1), floatPtrArg(sv.TimeCross1),
					strPtrArg(sv.AlgCubingURL), timeArg(sv.CreatedAt),
				).
				Returning("id").
				Query()
			if err := tx.QueryRowContext(ctx, query, args...).Scan(&sv.ID); err != nil {
				return mapError(fmt.Sprintf("insert solve %d", i), err)
			}
		}
		return nil
	})
}

func (r *solveRepo) Get(ctx context.Context, id int64) (*Solve, error) {
	query, args := r.s.builder().Select(solveColumns...).
		From(r.s.builder().Table(tableSolves)).
		Where(entsql.EQ("id", id)).
		Query()
	sv, err := scanSolve(r.s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapError("get solve", err)
	}
	return sv, nil
}

func (r *solveRepo) List(ctx context.Context, f SolveFilter) ([]Solve, int, error) {
	where := []*entsql.Predicate{
		entsql.EQ("puzzle", DefaultPuzzle),
		entsql.NotNull("reconstruction"),
	}
	if f.Solver != "" {
		where = append(where, entsql.ContainsFold("solver", f.Solver))
	}
	if f.MinResult != nil {
		where = append(where, entsql.GTE("result", *f.MinResult))
	}
	if f.MaxResult != nil {
		where = append(where, entsql.LTE("result", *f.MaxResult))
	}

	countQuery, countArgs := r.s.builder().Select(entsql.Count("*")).
		From(r.s.builder().Table(tableSolves)).
		Where(entsql.And(where...)).
		Query()
	var total int
	if err := r.s.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count solves: %w", err)
	}

	sel := r.s.builder().Select(solveColumns...).
		From(r.s.builder().Table(tableSolves)).
		Where(entsql.And(where...)).
		OrderBy(entsql.Asc("result"), entsql.Asc("id"))
	paginate(sel, f.Limit, f.Offset)
	query, args := sel.Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list solves: %w", err)
	}
	defer rows.Close()

	var out []Solve
	for rows.Next() {
		sv, err := scanSolve(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan solve: %w", err)
		}
		out = append(out, *sv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list solves: %w", err)
	}
	return out, total, nil
}

func scanSolve(row rowScanner) (*Solve, error) {
	var (
		sv             Solve
		competition    sql.NullString
		solveDate      sql.NullTime
		reconstruction sql.NullString
		method         sql.NullString
		stm            sql.NullInt64
		timeCross      sql.NullFloat64
		algURL         sql.NullString
	)
	err := row.Scan(
		&sv.ID, &sv.Puzzle, &sv.Solver, &sv.Result, &competition, &solveDate,
		&sv.Scramble, &reconstruction, &method, &stm, &timeCross, &algURL,
		&sv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	sv.Competition = nullString(competition)
	sv.SolveDate = nullTime(solveDate)
	sv.Reconstruction = nullString(reconstruction)
	sv.Method = nullString(method)
	sv.STMCross1 = nullInt(stm)
	sv.TimeCross1 = nullFloat(timeCross)
	sv.AlgCubingURL = nullString(algURL)
	sv.CreatedAt = sv.CreatedAt.UTC()
	return &sv, nil
}
