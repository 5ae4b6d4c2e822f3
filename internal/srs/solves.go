package srs

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/abhisek/crosstrainer/internal/apperr"
	"github.com/abhisek/crosstrainer/internal/reconstruction"
	"github.com/abhisek/crosstrainer/internal/schema"
	"github.com/abhisek/crosstrainer/internal/store"
)

// DefaultSolveLimit is the browse page size when no limit is given.
const DefaultSolveLimit = 20

// SolveSummary is one row of the solve browser.
type SolveSummary struct {
	ID                int64      `json:"id"`
	Solver            string     `json:"solver"`
	Result            float64    `json:"result"`
	Competition       *string    `json:"competition"`
	SolveDate         *time.Time `json:"solve_date"`
	Scramble          string     `json:"scramble"`
	HasReconstruction bool       `json:"has_reconstruction"`
	STMCross1         *int       `json:"stm_cross1"`
	Method            *string    `json:"method"`
	InSRS             []int      `json:"in_srs"`
}

// SolvePage is a page of solves and the total number matching.
type SolvePage struct {
	Solves []SolveSummary `json:"solves"`
	Total  int            `json:"total"`
}

// Solves lists reconstructed 3x3 solves ordered by result, with the depths
// each is already scheduled at. A zero limit means DefaultSolveLimit.
func (s *Service) Solves(ctx context.Context, f store.SolveFilter) (*SolvePage, error) {
	if f.Limit < 0 || f.Offset < 0 {
		return nil, apperr.Invalid("limit", "limit and offset must not be negative")
	}
	if f.Limit == 0 {
		f.Limit = DefaultSolveLimit
	}
	f.Solver = strings.TrimSpace(f.Solver)

	rows, total, err := s.solves.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list solves: %w", err)
	}
	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	depths, err := s.items.DepthsBySolve(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("load srs depths: %w", err)
	}

	page := &SolvePage{Solves: make([]SolveSummary, 0, len(rows)), Total: total}
	for _, r := range rows {
		page.Solves = append(page.Solves, SolveSummary{
			ID:                r.ID,
			Solver:            r.Solver,
			Result:            r.Result,
			Competition:       r.Competition,
			SolveDate:         r.SolveDate,
			Scramble:          r.Scramble,
			HasReconstruction: r.Reconstruction != nil,
			STMCross1:         r.STMCross1,
			Method:            r.Method,
			InSRS:             inSRS(depths[r.ID]),
		})
	}
	return page, nil
}

// SolveDetail is a full solve with its parsed reconstruction.
type SolveDetail struct {
	ID             int64                    `json:"id"`
	Solver         string                   `json:"solver"`
	Result         float64                  `json:"result"`
	Competition    *string                  `json:"competition"`
	SolveDate      *time.Time               `json:"solve_date"`
	Scramble       string                   `json:"scramble"`
	Reconstruction *string                  `json:"reconstruction"`
	ParsedSegments *reconstruction.Segments `json:"parsed_segments"`
	Method         *string                  `json:"method"`
	STMCross1      *int                     `json:"stm_cross1"`
	TimeCross1     *float64                 `json:"time_cross1"`
	InSRS          []int                    `json:"in_srs"`
	AlgCubingURL   string                   `json:"alg_cubing_url"`
}

// Solve returns one solve. The stored viewer URL wins over a generated one.
func (s *Service) Solve(ctx context.Context, id int64) (*SolveDetail, error) {
	solve, err := s.solves.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get solve %d: %w", id, err)
	}
	depths, err := s.items.DepthsBySolve(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load srs depths: %w", err)
	}

	url := ""
	if solve.AlgCubingURL != nil && *solve.AlgCubingURL != "" {
		url = *solve.AlgCubingURL
	} else {
		alg := ""
		if solve.Reconstruction != nil {
			alg = *solve.Reconstruction
		}
		url = reconstruction.AlgCubingURL(solve.Scramble, alg)
	}

	return &SolveDetail{
		ID:             solve.ID,
		Solver:         solve.Solver,
		Result:         solve.Result,
		Competition:    solve.Competition,
		SolveDate:      solve.SolveDate,
		Scramble:       solve.Scramble,
		Reconstruction: solve.Reconstruction,
		ParsedSegments: s.cache.Segments(solve.ID, solve.Reconstruction),
		Method:         solve.Method,
		STMCross1:      solve.STMCross1,
		TimeCross1:     solve.TimeCross1,
		InSRS:          inSRS(depths[id]),
		AlgCubingURL:   url,
	}, nil
}

// importedSolve is one element of a solve import document.
type importedSolve struct {
	Puzzle         *string  `json:"puzzle"`
	Solver         string   `json:"solver"`
	Result         float64  `json:"result"`
	Competition    *string  `json:"competition"`
	SolveDate      *string  `json:"solve_date"`
	Scramble       string   `json:"scramble"`
	Reconstruction *string  `json:"reconstruction"`
	Method         *string  `json:"method"`
	STMCross1      *int     `json:"stm_cross1"`
	TimeCross1     *float64 `json:"time_cross1"`
	AlgCubingURL   *string  `json:"alg_cubing_url"`
}

// Import validates a JSON array of solves and inserts them in one
// transaction. It returns the inserted solves.
func (s *Service) Import(ctx context.Context, raw []byte) ([]*store.Solve, error) {
	if err := schema.Validate(schema.SolveImport, raw); err != nil {
		return nil, err
	}
	var docs []importedSolve
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode solves: %w", err)
	}

	now := s.now().UTC()
	solves := make([]*store.Solve, 0, len(docs))
	for i, d := range docs {
		solve := &store.Solve{
			Puzzle:         store.DefaultPuzzle,
			Solver:         d.Solver,
			Result:         d.Result,
			Competition:    d.Competition,
			Scramble:       d.Scramble,
			Reconstruction: d.Reconstruction,
			Method:         d.Method,
			STMCross1:      d.STMCross1,
			TimeCross1:     d.TimeCross1,
			AlgCubingURL:   d.AlgCubingURL,
			CreatedAt:      now,
		}
		if d.Puzzle != nil && *d.Puzzle != "" {
			solve.Puzzle = *d.Puzzle
		}
		if d.SolveDate != nil {
			t, err := time.Parse(time.DateOnly, *d.SolveDate)
			if err != nil {
				return nil, apperr.Invalid(fmt.Sprintf("[%d].solve_date", i), "is not a valid date")
			}
			solve.SolveDate = &t
		}
		solves = append(solves, solve)
	}
	if len(solves) == 0 {
		return solves, nil
	}
	if err := s.solves.CreateBatch(ctx, solves); err != nil {
		return nil, fmt.Errorf("import solves: %w", err)
	}
	return solves, nil
}

func inSRS(depths []int) []int {
	if depths == nil {
		return []int{}
	}
	out := slices.Clone(depths)
	slices.Sort(out)
	return out
}
