// Package practice records timed cross practice: sessions, the attempts
// made in them, and the trainer state machine that produces attempts.
package practice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/crosstrainer/internal/apperr"
	"github.com/abhisek/crosstrainer/internal/metrics"
	"github.com/abhisek/crosstrainer/internal/scramble"
	"github.com/abhisek/crosstrainer/internal/store"
)

// Listing defaults.
const (
	DefaultSessionLimit = 10
	DefaultAttemptLimit = 50
	MaxPairs            = 4
)

// AttemptInput is a practice attempt to record.
type AttemptInput struct {
	SessionID         *string `json:"session_id"`
	Scramble          string  `json:"scramble"`
	CrossMoves        int     `json:"cross_moves"`
	CrossColor        string  `json:"cross_color"`
	PairsAttempted    int     `json:"pairs_attempted"`
	CrossSuccess      *bool   `json:"cross_success"`
	PairsPlanned      int     `json:"pairs_planned"`
	InspectionTimeMs  *int64  `json:"inspection_time_ms"`
	UsedUnlimitedTime bool    `json:"used_unlimited_time"`
	Notes             *string `json:"notes"`
}

// Validate checks the attempt fields and normalises the cross colour.
func (in *AttemptInput) Validate() error {
	if strings.TrimSpace(in.Scramble) == "" {
		return apperr.Invalid("scramble", "is required")
	}
	if in.CrossMoves < scramble.MinMoves || in.CrossMoves > scramble.MaxMoves {
		return apperr.Invalid("cross_moves", "is required (%d-%d)", scramble.MinMoves, scramble.MaxMoves)
	}
	if in.PairsAttempted < 0 || in.PairsAttempted > MaxPairs {
		return apperr.Invalid("pairs_attempted", "must be between 0 and %d", MaxPairs)
	}
	if in.PairsPlanned < 0 || in.PairsPlanned > MaxPairs {
		return apperr.Invalid("pairs_planned", "must be between 0 and %d", MaxPairs)
	}
	if in.InspectionTimeMs != nil && *in.InspectionTimeMs < 0 {
		return apperr.Invalid("inspection_time_ms", "must not be negative")
	}
	color, err := scramble.NormalizeColor(in.CrossColor)
	if err != nil {
		var ve *apperr.ValidationError
		if errors.As(err, &ve) {
			ve.Field = "cross_color"
		}
		return err
	}
	in.CrossColor = color
	if in.SessionID != nil && *in.SessionID == "" {
		in.SessionID = nil
	}
	return nil
}

// Service manages practice sessions and attempts.
type Service struct {
	sessions store.SessionRepo
	attempts store.AttemptRepo
	metrics  *metrics.Metrics
	now      func() time.Time
	newID    func() string
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMetrics records attempt counters on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithIDGenerator replaces the session id generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// NewService creates a practice service over the given repositories.
func NewService(sessions store.SessionRepo, attempts store.AttemptRepo, opts ...Option) *Service {
	s := &Service{
		sessions: sessions,
		attempts: attempts,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartSession creates a new session starting now.
func (s *Service) StartSession(ctx context.Context) (*store.Session, error) {
	now := s.now().UTC()
	sess := &store.Session{ID: s.newID(), StartedAt: now, CreatedAt: now}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return sess, nil
}

// EndSession sets the end time and/or notes of a session. At least one of
// endedAt and notes must be non-nil.
func (s *Service) EndSession(ctx context.Context, id string, endedAt *time.Time, notes *string) (*store.Session, error) {
	if endedAt == nil && notes == nil {
		return nil, apperr.ErrNoUpdates
	}
	sess, err := s.sessions.Update(ctx, id, store.SessionUpdate{EndedAt: endedAt, Notes: notes})
	if err != nil {
		return nil, fmt.Errorf("update session %s: %w", id, err)
	}
	return sess, nil
}

// GetSession returns one session.
func (s *Service) GetSession(ctx context.Context, id string) (*store.Session, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	return sess, nil
}

// ListSessions returns sessions newest first. A zero limit means
// DefaultSessionLimit.
func (s *Service) ListSessions(ctx context.Context, limit, offset int) ([]store.SessionSummary, error) {
	limit, offset, err := pageBounds(limit, offset, DefaultSessionLimit)
	if err != nil {
		return nil, err
	}
	out, err := s.sessions.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if out == nil {
		out = []store.SessionSummary{}
	}
	return out, nil
}

// RecordAttempt validates and stores an attempt.
func (s *Service) RecordAttempt(ctx context.Context, in AttemptInput) (*store.Attempt, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	a := &store.Attempt{
		SessionID:         in.SessionID,
		Scramble:          strings.TrimSpace(in.Scramble),
		CrossMoves:        in.CrossMoves,
		CrossColor:        in.CrossColor,
		PairsAttempted:    in.PairsAttempted,
		CrossSuccess:      in.CrossSuccess,
		PairsPlanned:      in.PairsPlanned,
		InspectionTimeMs:  in.InspectionTimeMs,
		UsedUnlimitedTime: in.UsedUnlimitedTime,
		Notes:             in.Notes,
		CreatedAt:         s.now().UTC(),
	}
	if err := s.attempts.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("record attempt: %w", err)
	}
	s.metrics.AttemptRecorded(a.CrossSuccess)
	return a, nil
}

// GetAttempt returns one attempt.
func (s *Service) GetAttempt(ctx context.Context, id int64) (*store.Attempt, error) {
	a, err := s.attempts.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get attempt %d: %w", id, err)
	}
	return a, nil
}

// ListAttempts returns attempts newest first. A zero limit means
// DefaultAttemptLimit.
func (s *Service) ListAttempts(ctx context.Context, f store.AttemptFilter) ([]store.Attempt, error) {
	limit, offset, err := pageBounds(f.Limit, f.Offset, DefaultAttemptLimit)
	if err != nil {
		return nil, err
	}
	f.Limit, f.Offset = limit, offset
	if f.CrossMoves != 0 && (f.CrossMoves < scramble.MinMoves || f.CrossMoves > scramble.MaxMoves) {
		return nil, apperr.Invalid("cross_moves", "must be between %d and %d", scramble.MinMoves, scramble.MaxMoves)
	}
	out, err := s.attempts.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	if out == nil {
		out = []store.Attempt{}
	}
	return out, nil
}

func pageBounds(limit, offset, def int) (int, int, error) {
	if limit < 0 {
		return 0, 0, apperr.Invalid("limit", "must not be negative")
	}
	if offset < 0 {
		return 0, 0, apperr.Invalid("offset", "must not be negative")
	}
	if limit == 0 {
		limit = def
	}
	return limit, offset, nil
}
