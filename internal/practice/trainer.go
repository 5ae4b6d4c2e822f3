package practice

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/crosstrainer/internal/scramble"
)

// Phase is the current phase of a trainer attempt.
type Phase int

const (
	PhaseReady      Phase = iota // Scramble shown, timer idle
	PhaseInspecting              // Inspection timer running
	PhaseResult                  // Timer stopped, awaiting results
	PhaseNotes                   // Editing notes
	PhaseSaved                   // Attempt submitted
)

func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "ready"
	case PhaseInspecting:
		return "inspecting"
	case PhaseResult:
		return "result"
	case PhaseNotes:
		return "notes"
	case PhaseSaved:
		return "saved"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

var (
	// ErrTimerRunning is returned for changes made while inspecting.
	ErrTimerRunning = errors.New("timer is running")

	// ErrIncomplete is returned when an attempt is submitted before the
	// cross result (and pairs planned, when attempting pairs) is set.
	ErrIncomplete = errors.New("attempt is incomplete")

	// ErrNoScramble is returned when no scramble has been set.
	ErrNoScramble = errors.New("no scramble")
)

// Settings are the trainer options that persist across attempts.
type Settings struct {
	Difficulty      int    // optimal cross length, 1-7
	PairsAttempting int    // pairs to plan during inspection, 0-4
	CrossColor      string // one of scramble.Colors

	// InspectionLimit is the allowed inspection time; zero is unlimited.
	InspectionLimit time.Duration
}

// DefaultSettings returns the settings a new trainer starts with.
func DefaultSettings() Settings {
	return Settings{Difficulty: 3, PairsAttempting: 1, CrossColor: scramble.DefaultColor}
}

// Tally counts saved attempts.
type Tally struct {
	Attempts  int
	Successes int
}

// SuccessRate returns the success percentage, 0 when nothing was saved.
func (t Tally) SuccessRate() float64 {
	if t.Attempts == 0 {
		return 0
	}
	return float64(t.Successes) / float64(t.Attempts) * 100
}

// Trainer is the state machine behind one practice attempt: start and stop
// the inspection timer, record the cross result and pairs planned, add
// notes, submit. It holds no I/O and is not safe for concurrent use.
type Trainer struct {
	settings Settings
	scramble string

	phase     Phase
	prevPhase Phase // phase to return to after notes
	startedAt time.Time
	elapsed   time.Duration
	timed     bool

	crossSuccess *bool
	pairsPlanned *int
	notes        string

	tally Tally
}

// NewTrainer returns a trainer in the ready phase.
func NewTrainer(settings Settings) *Trainer {
	return &Trainer{settings: settings}
}

// Settings returns the current settings.
func (t *Trainer) Settings() Settings { return t.settings }

// Phase returns the current phase.
func (t *Trainer) Phase() Phase { return t.phase }

// Scramble returns the current scramble.
func (t *Trainer) Scramble() string { return t.scramble }

// Tally returns the saved attempt counts.
func (t *Trainer) Tally() Tally { return t.tally }

// CrossSuccess returns the recorded cross result, nil when unset.
func (t *Trainer) CrossSuccess() *bool { return t.crossSuccess }

// PairsPlanned returns the recorded pairs planned, nil when unset.
func (t *Trainer) PairsPlanned() *int { return t.pairsPlanned }

// Notes returns the attempt notes.
func (t *Trainer) Notes() string { return t.notes }

// SetScramble loads a new scramble and resets the attempt.
func (t *Trainer) SetScramble(s string) {
	t.scramble = s
	t.Reset()
}

// Reset discards the current attempt's timer and results.
func (t *Trainer) Reset() {
	t.phase = PhaseReady
	t.prevPhase = PhaseReady
	t.startedAt = time.Time{}
	t.elapsed = 0
	t.timed = false
	t.crossSuccess = nil
	t.pairsPlanned = nil
	t.notes = ""
}

// Toggle starts the timer when ready and stops it when inspecting.
func (t *Trainer) Toggle(now time.Time) error {
	switch t.phase {
	case PhaseReady:
		return t.Start(now)
	case PhaseInspecting:
		return t.Stop(now)
	default:
		return fmt.Errorf("toggle timer in %s phase", t.phase)
	}
}

// Start begins inspection.
func (t *Trainer) Start(now time.Time) error {
	if t.phase != PhaseReady {
		return fmt.Errorf("start timer in %s phase", t.phase)
	}
	if t.scramble == "" {
		return ErrNoScramble
	}
	t.phase = PhaseInspecting
	t.startedAt = now
	t.elapsed = 0
	return nil
}

// Stop ends inspection and records the elapsed time.
func (t *Trainer) Stop(now time.Time) error {
	if t.phase != PhaseInspecting {
		return fmt.Errorf("stop timer in %s phase", t.phase)
	}
	t.elapsed = now.Sub(t.startedAt)
	if t.elapsed < 0 {
		t.elapsed = 0
	}
	t.timed = true
	t.phase = PhaseResult
	return nil
}

// Elapsed returns the inspection time so far.
func (t *Trainer) Elapsed(now time.Time) time.Duration {
	if t.phase == PhaseInspecting {
		return now.Sub(t.startedAt)
	}
	return t.elapsed
}

// OverLimit reports whether inspection exceeded the configured limit.
func (t *Trainer) OverLimit(now time.Time) bool {
	return t.settings.InspectionLimit > 0 && t.Elapsed(now) > t.settings.InspectionLimit
}

// SetCrossSuccess records whether the cross was solved as planned.
func (t *Trainer) SetCrossSuccess(ok bool) error {
	if err := t.editable(); err != nil {
		return err
	}
	t.crossSuccess = &ok
	if t.phase == PhaseReady {
		t.phase = PhaseResult
	}
	return nil
}

// SetPairsPlanned records how many pairs were planned during inspection.
func (t *Trainer) SetPairsPlanned(n int) error {
	if err := t.editable(); err != nil {
		return err
	}
	if t.crossSuccess == nil {
		return fmt.Errorf("set pairs planned: cross result not recorded: %w", ErrIncomplete)
	}
	if n < 0 || n > t.settings.PairsAttempting {
		return fmt.Errorf("pairs planned must be between 0 and %d", t.settings.PairsAttempting)
	}
	t.pairsPlanned = &n
	return nil
}

// SetPairsAttempting changes how many pairs are attempted. A recorded
// pairs-planned value above n is cleared.
func (t *Trainer) SetPairsAttempting(n int) error {
	if err := t.editable(); err != nil {
		return err
	}
	if n < 0 || n > MaxPairs {
		return fmt.Errorf("pairs attempting must be between 0 and %d", MaxPairs)
	}
	t.settings.PairsAttempting = n
	if t.pairsPlanned != nil && *t.pairsPlanned > n {
		t.pairsPlanned = nil
	}
	return nil
}

// SetDifficulty changes the cross length. The caller loads a new scramble.
func (t *Trainer) SetDifficulty(moves int) error {
	if err := t.editable(); err != nil {
		return err
	}
	if moves < scramble.MinMoves || moves > scramble.MaxMoves {
		return fmt.Errorf("difficulty must be between %d and %d", scramble.MinMoves, scramble.MaxMoves)
	}
	t.settings.Difficulty = moves
	return nil
}

// SetColor changes the cross colour.
func (t *Trainer) SetColor(color string) error {
	if err := t.editable(); err != nil {
		return err
	}
	color, err := scramble.NormalizeColor(color)
	if err != nil {
		return err
	}
	t.settings.CrossColor = color
	return nil
}

// SetInspectionLimit changes the allowed inspection time; zero is
// unlimited.
func (t *Trainer) SetInspectionLimit(d time.Duration) error {
	if err := t.editable(); err != nil {
		return err
	}
	if d < 0 {
		return fmt.Errorf("inspection limit must not be negative")
	}
	t.settings.InspectionLimit = d
	return nil
}

// BeginNotes enters the notes phase.
func (t *Trainer) BeginNotes() error {
	if err := t.editable(); err != nil {
		return err
	}
	if t.phase != PhaseNotes {
		t.prevPhase = t.phase
		t.phase = PhaseNotes
	}
	return nil
}

// EndNotes stores text and returns to the phase notes were opened from.
func (t *Trainer) EndNotes(text string) {
	if t.phase != PhaseNotes {
		return
	}
	t.notes = text
	t.phase = t.prevPhase
}

// CanSubmit reports whether the attempt has every required result.
func (t *Trainer) CanSubmit() bool {
	if t.phase == PhaseInspecting || t.phase == PhaseSaved || t.crossSuccess == nil || t.scramble == "" {
		return false
	}
	return t.settings.PairsAttempting == 0 || t.pairsPlanned != nil
}

// Attempt builds the attempt to record for sessionID (nil for none).
func (t *Trainer) Attempt(sessionID *string, now time.Time) (AttemptInput, error) {
	if !t.CanSubmit() {
		return AttemptInput{}, ErrIncomplete
	}
	in := AttemptInput{
		SessionID:         sessionID,
		Scramble:          t.scramble,
		CrossMoves:        t.settings.Difficulty,
		CrossColor:        t.settings.CrossColor,
		PairsAttempted:    t.settings.PairsAttempting,
		CrossSuccess:      t.crossSuccess,
		UsedUnlimitedTime: t.settings.InspectionLimit == 0 || t.OverLimit(now),
	}
	if t.pairsPlanned != nil {
		in.PairsPlanned = *t.pairsPlanned
	}
	if t.timed {
		ms := t.elapsed.Milliseconds()
		in.InspectionTimeMs = &ms
	}
	if t.notes != "" {
		notes := t.notes
		in.Notes = &notes
	}
	return in, nil
}

// MarkSaved records a successful submission.
func (t *Trainer) MarkSaved() {
	t.tally.Attempts++
	if t.crossSuccess != nil && *t.crossSuccess {
		t.tally.Successes++
	}
	t.phase = PhaseSaved
}

func (t *Trainer) editable() error {
	switch t.phase {
	case PhaseInspecting:
		return ErrTimerRunning
	case PhaseSaved:
		return fmt.Errorf("attempt already saved")
	}
	return nil
}
