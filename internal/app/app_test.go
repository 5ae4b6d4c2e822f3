package app

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/crosstrainer/internal/practice"
	"github.com/abhisek/crosstrainer/internal/scramble"
	"github.com/abhisek/crosstrainer/internal/screen"
	"github.com/abhisek/crosstrainer/internal/srs"
	"github.com/abhisek/crosstrainer/internal/store"
)

type nopRecorder struct{}

func (nopRecorder) StartSession(context.Context) (*store.Session, error) {
	return &store.Session{ID: "s"}, nil
}

func (nopRecorder) RecordAttempt(context.Context, practice.AttemptInput) (*store.Attempt, error) {
	return &store.Attempt{ID: 1}, nil
}

type nopReviewer struct{}

func (nopReviewer) Due(context.Context, *int, int) (*srs.DueList, error) {
	return &srs.DueList{}, nil
}

func (nopReviewer) Solution(context.Context, int64, int) (*srs.Solution, error) {
	return &srs.Solution{}, nil
}

func (nopReviewer) Review(context.Context, srs.ReviewInput) (*srs.ReviewResult, error) {
	return &srs.ReviewResult{}, nil
}

func newTestModel() AppModel {
	return newAppModel(Options{
		Recorder:  nopRecorder{},
		Scrambles: scramble.NewBank(map[int][]string{3: {"R U R' F2"}}),
		Settings:  practice.DefaultSettings(),
		Reviewer:  nopReviewer{},
	})
}

func update(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func TestRootIsTrainer(t *testing.T) {
	m, _ := update(newTestModel(), tea.WindowSizeMsg{Width: 100, Height: 30})
	if m.width != 100 || m.height != 30 {
		t.Errorf("size = %dx%d", m.width, m.height)
	}
	if m.stack.Active().Title() != "Practice" {
		t.Errorf("root = %q, want Practice", m.stack.Active().Title())
	}
	if content := m.stack.View(100, 24); !strings.Contains(content, "R U R' F2") {
		t.Errorf("trainer view missing scramble:\n%s", content)
	}
}

func TestReviewNavigation(t *testing.T) {
	m, _ := update(newTestModel(), tea.WindowSizeMsg{Width: 100, Height: 30})

	_, cmd := update(m, tea.KeyPressMsg{Code: 'r', Text: "r"})
	if cmd == nil {
		t.Fatal("expected push command")
	}
	m, _ = update(m, cmd())
	if m.stack.Depth() != 2 || m.stack.Active().Title() != "SRS Review" {
		t.Fatalf("depth %d, active %q", m.stack.Depth(), m.stack.Active().Title())
	}

	_, cmd = update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(screen.PopMsg); !ok {
		t.Fatal("esc should pop the review screen")
	}
	m, _ = update(m, screen.PopMsg{})
	if m.stack.Depth() != 1 {
		t.Errorf("depth = %d, want 1", m.stack.Depth())
	}
}

func TestCtrlCQuits(t *testing.T) {
	_, cmd := update(newTestModel(), tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
}
