// Package trainer is the practice screen: show a scramble, time the
// inspection, record the cross result and pairs planned, save.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/crosstrainer/internal/practice"
	"github.com/abhisek/crosstrainer/internal/scramble"
	"github.com/abhisek/crosstrainer/internal/screen"
	"github.com/abhisek/crosstrainer/internal/store"
	"github.com/abhisek/crosstrainer/internal/ui/components"
	"github.com/abhisek/crosstrainer/internal/ui/layout"
)

const tickInterval = 100 * time.Millisecond

// inspectionLimits is the cycle of limits the "l" key steps through.
var inspectionLimits = []time.Duration{0, 15 * time.Second, 8 * time.Second}

// shifted maps the shifted digit keys to pairs attempting.
var shifted = map[string]int{")": 0, "!": 1, "@": 2, "#": 3, "$": 4}

// Recorder persists sessions and attempts.
type Recorder interface {
	StartSession(ctx context.Context) (*store.Session, error)
	RecordAttempt(ctx context.Context, in practice.AttemptInput) (*store.Attempt, error)
}

// ScrambleSource serves random scrambles.
type ScrambleSource interface {
	Random(moves, count int, color string) ([]scramble.Scramble, error)
}

// Options configures the screen.
type Options struct {
	Recorder  Recorder
	Scrambles ScrambleSource
	Settings  practice.Settings

	// Review opens the SRS review screen; nil hides it.
	Review func() screen.Screen

	// Now replaces time.Now.
	Now func() time.Time
}

// Screen implements screen.Screen for cross practice.
type Screen struct {
	trainer    *practice.Trainer
	recorder   Recorder
	scrambles  ScrambleSource
	openReview func() screen.Screen
	now        func() time.Time

	sessionID *string
	notes     components.TextInput
	saving    bool
	status    string
	errMsg    string
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.StatusProvider  = (*Screen)(nil)
)

// New creates the screen and draws the first scramble.
func New(opts Options) *Screen {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Screen{
		trainer:    practice.NewTrainer(opts.Settings),
		recorder:   opts.Recorder,
		scrambles:  opts.Scrambles,
		openReview: opts.Review,
		now:        now,
		notes:      components.NewTextInput("Notes:", "what went wrong?", 500),
	}
	s.nextScramble()
	return s
}

func (s *Screen) Init() tea.Cmd {
	return s.startSession()
}

func (s *Screen) Title() string {
	return "Practice"
}

// Status returns the saved attempt tally.
func (s *Screen) Status() string {
	t := s.trainer.Tally()
	if t.Attempts == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d crosses  %.0f%%", t.Successes, t.Attempts, t.SuccessRate())
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionStartedMsg:
		if msg.Err != nil {
			s.status = "Attempts will be saved without a session: " + msg.Err.Error()
			return s, nil
		}
		id := msg.Session.ID
		s.sessionID = &id
		return s, nil

	case attemptSavedMsg:
		return s.handleSaved(msg)

	case timerTickMsg:
		if s.trainer.Phase() == practice.PhaseInspecting {
			return s, tick()
		}
		return s, nil

	case screen.ResumedMsg:
		s.status = ""
		return s, nil

	case tea.KeyPressMsg:
		if s.notes.Focused() {
			return s.handleNotesKey(msg)
		}
		return s.handleKey(msg)
	}

	if s.notes.Focused() {
		var cmd tea.Cmd
		s.notes, cmd = s.notes.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	s.status = ""

	switch key {
	case "space", " ":
		if s.trainer.Phase() == practice.PhaseSaved {
			s.nextScramble()
			return s, nil
		}
		if err := s.trainer.Toggle(s.now()); err != nil {
			s.status = s.describe(err)
			return s, nil
		}
		if s.trainer.Phase() == practice.PhaseInspecting {
			return s, tick()
		}
		return s, nil

	case "s", "f":
		s.report(s.trainer.SetCrossSuccess(key == "s"))
		return s, nil

	case "0", "1", "2", "3", "4":
		s.report(s.trainer.SetPairsPlanned(int(key[0] - '0')))
		return s, nil

	case ")", "!", "@", "#", "$":
		s.report(s.trainer.SetPairsAttempting(shifted[key]))
		return s, nil

	case "5", "6", "7":
		s.setDifficulty(int(key[0] - '0'))
		return s, nil

	case "+", "=":
		s.setDifficulty(s.trainer.Settings().Difficulty + 1)
		return s, nil

	case "-":
		s.setDifficulty(s.trainer.Settings().Difficulty - 1)
		return s, nil

	case "c":
		s.report(s.trainer.SetColor(nextColor(s.trainer.Settings().CrossColor)))
		return s, nil

	case "l":
		s.report(s.trainer.SetInspectionLimit(nextLimit(s.trainer.Settings().InspectionLimit)))
		return s, nil

	case "n":
		if err := s.trainer.BeginNotes(); err != nil {
			s.status = s.describe(err)
			return s, nil
		}
		return s, s.notes.Focus(s.trainer.Notes())

	case "enter":
		return s.submit()

	case "esc":
		s.trainer.Reset()
		return s, nil

	case "r":
		if s.openReview == nil {
			return s, nil
		}
		return s, screen.Push(s.openReview())

	case "q":
		return s, tea.Quit
	}
	return s, nil
}

func (s *Screen) handleNotesKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		s.trainer.EndNotes(s.notes.Blur())
		return s, nil
	case "esc":
		s.notes.Blur()
		s.trainer.EndNotes(s.trainer.Notes())
		return s, nil
	}
	var cmd tea.Cmd
	s.notes, cmd = s.notes.Update(msg)
	return s, cmd
}

func (s *Screen) submit() (screen.Screen, tea.Cmd) {
	if s.saving {
		return s, nil
	}
	in, err := s.trainer.Attempt(s.sessionID, s.now())
	if err != nil {
		s.status = s.describe(err)
		return s, nil
	}
	s.saving = true
	return s, func() tea.Msg {
		a, err := s.recorder.RecordAttempt(context.Background(), in)
		return attemptSavedMsg{Attempt: a, Err: err}
	}
}

func (s *Screen) handleSaved(msg attemptSavedMsg) (screen.Screen, tea.Cmd) {
	s.saving = false
	if msg.Err != nil {
		s.errMsg = "Failed to save attempt: " + msg.Err.Error()
		return s, nil
	}
	s.errMsg = ""
	s.trainer.MarkSaved()
	s.nextScramble()
	s.status = fmt.Sprintf("Saved attempt #%d", msg.Attempt.ID)
	return s, nil
}

func (s *Screen) startSession() tea.Cmd {
	if s.recorder == nil {
		return nil
	}
	return func() tea.Msg {
		sess, err := s.recorder.StartSession(context.Background())
		return sessionStartedMsg{Session: sess, Err: err}
	}
}

func (s *Screen) setDifficulty(moves int) {
	if err := s.trainer.SetDifficulty(moves); err != nil {
		s.status = s.describe(err)
		return
	}
	s.nextScramble()
}

// nextScramble draws a scramble for the current settings and resets the
// attempt.
func (s *Screen) nextScramble() {
	set := s.trainer.Settings()
	list, err := s.scrambles.Random(set.Difficulty, 1, set.CrossColor)
	if err != nil {
		s.trainer.SetScramble("")
		s.errMsg = err.Error()
		return
	}
	s.errMsg = ""
	s.trainer.SetScramble(list[0].Scramble)
}

func (s *Screen) report(err error) {
	if err != nil {
		s.status = s.describe(err)
	}
}

func (s *Screen) describe(err error) string {
	switch {
	case errors.Is(err, practice.ErrTimerRunning):
		return "Stop the timer first (space)"
	case errors.Is(err, practice.ErrNoScramble):
		return "No scramble loaded"
	case errors.Is(err, practice.ErrIncomplete):
		if s.trainer.CrossSuccess() == nil {
			return "Record the cross result first (s/f)"
		}
		return "Record pairs planned first (0-4)"
	}
	return err.Error()
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.notes.Focused() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save notes"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	switch s.trainer.Phase() {
	case practice.PhaseInspecting:
		return []layout.KeyHint{{Key: "Space", Description: "Stop"}}
	case practice.PhaseResult:
		return []layout.KeyHint{
			{Key: "S/F", Description: "Cross"},
			{Key: "0-4", Description: "Pairs planned"},
			{Key: "N", Description: "Notes"},
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Reset"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "Space", Description: "Inspect"},
		{Key: "5-7/+-", Description: "Difficulty"},
		{Key: "⇧0-4", Description: "Pairs"},
		{Key: "C", Description: "Colour"},
		{Key: "L", Description: "Limit"},
	}
	if s.openReview != nil {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Review"})
	}
	return append(hints, layout.KeyHint{Key: "Q", Description: "Quit"})
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}

func nextColor(cur string) string {
	i := slices.Index(scramble.Colors, cur)
	return scramble.Colors[(i+1)%len(scramble.Colors)]
}

func nextLimit(cur time.Duration) time.Duration {
	i := slices.Index(inspectionLimits, cur)
	return inspectionLimits[(i+1)%len(inspectionLimits)]
}
