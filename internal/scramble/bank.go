// Package scramble serves random scrambles from per-difficulty scramble
// lists loaded from disk.
package scramble

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"

	"github.com/abhisek/crosstrainer/internal/apperr"
	"github.com/abhisek/crosstrainer/internal/schema"
)

// Difficulty bounds (optimal cross length) and request limits.
const (
	MinMoves = 1
	MaxMoves = 7
	MaxCount = 100
)

// DefaultColor is the cross colour used when none is requested.
const DefaultColor = "white"

// Colors lists the accepted cross colours.
var Colors = []string{"white", "yellow", "red", "orange", "blue", "green"}

// ErrNoScrambles indicates the requested difficulty has no scrambles loaded.
var ErrNoScrambles = errors.New("no scrambles available")

// Scramble is one served scramble.
type Scramble struct {
	Scramble string `json:"scramble"`
	Moves    int    `json:"moves"`
	Color    string `json:"color"`
}

// Bank holds scramble lists keyed by cross move count. It is read-only
// after construction and safe for concurrent use.
type Bank struct {
	byMoves map[int][]string
	intn    func(n int) int
}

// Option configures a Bank.
type Option func(*Bank)

// WithIntn replaces the random index source.
func WithIntn(intn func(n int) int) Option {
	return func(b *Bank) { b.intn = intn }
}

// NewBank builds a bank from in-memory lists.
func NewBank(byMoves map[int][]string, opts ...Option) *Bank {
	b := &Bank{byMoves: make(map[int][]string, MaxMoves), intn: rand.IntN}
	for m := MinMoves; m <= MaxMoves; m++ {
		b.byMoves[m] = slices.Clone(byMoves[m])
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FileName returns the scramble file name for a difficulty.
func FileName(moves int) string {
	return fmt.Sprintf("cross_%d_move.json", moves)
}

// Load reads cross_<n>_move.json for every difficulty from dir. A missing
// or invalid file is logged and leaves that difficulty empty.
func Load(dir string, logger *slog.Logger, opts ...Option) *Bank {
	if logger == nil {
		logger = slog.Default()
	}
	lists := make(map[int][]string, MaxMoves)
	for m := MinMoves; m <= MaxMoves; m++ {
		path := filepath.Join(dir, FileName(m))
		list, err := loadFile(path)
		if err != nil {
			logger.Warn("failed to load scrambles", "path", path, "error", err)
			continue
		}
		lists[m] = list
		logger.Debug("loaded scrambles", "moves", m, "count", len(list))
	}
	return NewBank(lists, opts...)
}

func loadFile(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scramble file: %w", err)
	}
	if err := schema.Validate(schema.Scrambles, raw); err != nil {
		return nil, err
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode scramble list: %w", err)
	}
	return list, nil
}

// Random returns count scrambles of the given difficulty, sampled with
// replacement.
func (b *Bank) Random(moves, count int, color string) ([]Scramble, error) {
	if moves < MinMoves || moves > MaxMoves {
		return nil, apperr.Invalid("moves", "must be between %d and %d", MinMoves, MaxMoves)
	}
	if count < 1 || count > MaxCount {
		return nil, apperr.Invalid("count", "must be between 1 and %d", MaxCount)
	}
	color, err := NormalizeColor(color)
	if err != nil {
		return nil, err
	}

	list := b.byMoves[moves]
	if len(list) == 0 {
		return nil, fmt.Errorf("%d-move cross: %w", moves, ErrNoScrambles)
	}

	out := make([]Scramble, count)
	for i := range out {
		out[i] = Scramble{Scramble: list[b.intn(len(list))], Moves: moves, Color: color}
	}
	return out, nil
}

// Count returns the number of scrambles loaded for a difficulty.
func (b *Bank) Count(moves int) int {
	return len(b.byMoves[moves])
}

// Counts returns the scramble count of every difficulty.
func (b *Bank) Counts() map[int]int {
	out := make(map[int]int, MaxMoves)
	for m := MinMoves; m <= MaxMoves; m++ {
		out[m] = b.Count(m)
	}
	return out
}

// NormalizeColor returns DefaultColor for "" and rejects unknown colours.
func NormalizeColor(color string) (string, error) {
	if color == "" {
		return DefaultColor, nil
	}
	if !slices.Contains(Colors, color) {
		return "", apperr.Invalid("color", "must be one of %v", Colors)
	}
	return color, nil
}
