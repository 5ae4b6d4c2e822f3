package store

import (
	"context"
	"time"
)

// Defaults applied when a row is created without an explicit value.
const (
	DefaultCrossColor = "white"
	DefaultPuzzle     = "3x3"
)

// QueryOpts configures list queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	Offset int       // rows to skip
	From   time.Time // created_at >= From (zero = unbounded)
	To     time.Time // created_at <= To (zero = unbounded)
}

// Session is one practice session.
type Session struct {
	ID        string     `json:"id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
	Notes     *string    `json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
}

// SessionSummary is a session with the number of attempts recorded in it.
type SessionSummary struct {
	Session
	AttemptCount int `json:"attempt_count"`
}

// SessionUpdate carries the optional fields of a session update. Nil
// fields are left untouched.
type SessionUpdate struct {
	EndedAt *time.Time
	Notes   *string
}

// SessionRepo manages practice sessions.
type SessionRepo interface {
	Create(ctx context.Context, sess *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	// List returns sessions newest first with their attempt counts.
	List(ctx context.Context, limit, offset int) ([]SessionSummary, error)
	Update(ctx context.Context, id string, upd SessionUpdate) (*Session, error)
}

// Attempt is one recorded cross practice attempt.
type Attempt struct {
	ID                int64     `json:"id"`
	SessionID         *string   `json:"session_id"`
	Scramble          string    `json:"scramble"`
	CrossMoves        int       `json:"cross_moves"`
	CrossColor        string    `json:"cross_color"`
	PairsAttempted    int       `json:"pairs_attempted"`
	CrossSuccess      *bool     `json:"cross_success"`
	PairsPlanned      int       `json:"pairs_planned"`
	InspectionTimeMs  *int64    `json:"inspection_time_ms"`
	UsedUnlimitedTime bool      `json:"used_unlimited_time"`
	Notes             *string   `json:"notes"`
	CreatedAt         time.Time `json:"created_at"`
}

// AttemptFilter narrows attempt listings. Zero fields do not filter.
type AttemptFilter struct {
	QueryOpts
	SessionID  string
	CrossMoves int
	WithNotes  bool
}

// AttemptRepo manages practice attempts.
type AttemptRepo interface {
	Create(ctx context.Context, a *Attempt) error
	Get(ctx context.Context, id int64) (*Attempt, error)
	// List returns matching attempts newest first.
	List(ctx context.Context, f AttemptFilter) ([]Attempt, error)
}

// Solve is an expert solve with its reconstruction.
type Solve struct {
	ID             int64      `json:"id"`
	Puzzle         string     `json:"puzzle"`
	Solver         string     `json:"solver"`
	Result         float64    `json:"result"`
	Competition    *string    `json:"competition"`
	SolveDate      *time.Time `json:"solve_date"`
	Scramble       string     `json:"scramble"`
	Reconstruction *string    `json:"reconstruction"`
	Method         *string    `json:"method"`
	STMCross1      *int       `json:"stm_cross1"`
	TimeCross1     *float64   `json:"time_cross1"`
	AlgCubingURL   *string    `json:"alg_cubing_url"`
	CreatedAt      time.Time  `json:"created_at"`
}

// SolveFilter narrows solve browsing. Only 3x3 solves with a
// reconstruction are listed.
type SolveFilter struct {
	Solver    string
	MinResult *float64
	MaxResult *float64
	Limit     int
	Offset    int
}

// SolveRepo manages the solve library.
type SolveRepo interface {
	// CreateBatch inserts all solves in one transaction and sets their IDs.
	CreateBatch(ctx context.Context, solves []*Solve) error
	Get(ctx context.Context, id int64) (*Solve, error)
	// List returns matching solves ordered by result, plus the total
	// number of matches ignoring limit and offset.
	List(ctx context.Context, f SolveFilter) ([]Solve, int, error)
}

// SRSItem is one solve scheduled for review at a given depth.
type SRSItem struct {
	ID             int64      `json:"id"`
	SolveID        int64      `json:"solve_id"`
	Depth          int        `json:"depth"`
	EaseFactor     float64    `json:"ease_factor"`
	IntervalDays   int        `json:"interval_days"`
	Repetitions    int        `json:"repetitions"`
	NextReviewAt   time.Time  `json:"next_review_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at"`
	TimesCorrect   int        `json:"times_correct"`
	TimesIncorrect int        `json:"times_incorrect"`
	Notes          *string    `json:"notes"`
	CreatedAt      time.Time  `json:"created_at"`
}

// DueItem is an SRS item joined with the solve it reviews.
type DueItem struct {
	SRSItem
	Scramble    string     `json:"scramble"`
	Solver      string     `json:"solver"`
	Result      float64    `json:"result"`
	Competition *string    `json:"competition"`
	SolveDate   *time.Time `json:"solve_date"`
}

// SRSReview is one recorded review of an SRS item.
type SRSReview struct {
	ID             int64     `json:"id"`
	SRSItemID      int64     `json:"srs_item_id"`
	Quality        int       `json:"quality"`
	ResponseTimeMs *int64    `json:"response_time_ms"`
	UserSolution   *string   `json:"user_solution"`
	Notes          *string   `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}

// ReviewUpdate is the state written back by a review.
type ReviewUpdate struct {
	EaseFactor   float64
	IntervalDays int
	Repetitions  int
	NextReviewAt time.Time
	ReviewedAt   time.Time
	Passed       bool
	Review       SRSReview
}

// ReviewFunc computes the update for the current item state.
type ReviewFunc func(cur SRSItem) (ReviewUpdate, error)

// DepthStat aggregates SRS items at one depth.
type DepthStat struct {
	Depth   int     `json:"depth"`
	Items   int     `json:"items"`
	AvgEase float64 `json:"avg_ease"`
}

// SRSRepo manages SRS items and their review history.
type SRSRepo interface {
	Create(ctx context.Context, item *SRSItem) error
	Get(ctx context.Context, id int64) (*SRSItem, error)
	Delete(ctx context.Context, id int64) error
	// Due returns items with next_review_at <= now, oldest first. A nil
	// depth matches every depth.
	Due(ctx context.Context, now time.Time, depth *int, limit int) ([]DueItem, error)
	CountDue(ctx context.Context, now time.Time, depth *int) (int, error)
	Count(ctx context.Context) (int, error)
	// Review loads the item, applies fn and persists the new state and the
	// review row in a single transaction.
	Review(ctx context.Context, id int64, fn ReviewFunc) (*SRSItem, error)
	ByDepth(ctx context.Context) ([]DepthStat, error)
	// QualitiesSince returns the quality of every review created at or
	// after since.
	QualitiesSince(ctx context.Context, since time.Time) ([]int, error)
	// DepthsBySolve returns, per solve ID, the depths it is scheduled at.
	DepthsBySolve(ctx context.Context, solveIDs ...int64) (map[int64][]int, error)
}
