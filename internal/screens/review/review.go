// Package review is the SRS review screen: plan the cross (and pairs) of a
// due expert solve, reveal the reconstruction, grade recall 0-5.
package review

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/crosstrainer/internal/screen"
	"github.com/abhisek/crosstrainer/internal/spacedrep"
	"github.com/abhisek/crosstrainer/internal/srs"
	"github.com/abhisek/crosstrainer/internal/store"
	"github.com/abhisek/crosstrainer/internal/ui/layout"
	"github.com/abhisek/crosstrainer/internal/ui/theme"
)

// batchSize is the number of due items loaded at once.
const batchSize = 20

// Reviewer serves due items and records reviews.
type Reviewer interface {
	Due(ctx context.Context, depth *int, limit int) (*srs.DueList, error)
	Solution(ctx context.Context, itemID int64, depth int) (*srs.Solution, error)
	Review(ctx context.Context, in srs.ReviewInput) (*srs.ReviewResult, error)
}

type phase int

const (
	phaseLoading phase = iota
	phaseQuestion
	phaseRevealed
	phaseDone
)

type dueLoadedMsg struct {
	List *srs.DueList
	Err  error
}

type solutionMsg struct {
	Solution *srs.Solution
	Err      error
}

type reviewedMsg struct {
	Result *srs.ReviewResult
	Err    error
}

// Screen implements screen.Screen for SRS review.
type Screen struct {
	reviewer Reviewer
	now      func() time.Time

	phase     phase
	items     []store.DueItem
	idx       int
	totalDue  int
	shownAt   time.Time
	elapsed   time.Duration
	solution  *srs.Solution
	reviewed  int
	lastLabel string
	busy      bool
	errMsg    string
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.StatusProvider  = (*Screen)(nil)
)

// New creates a review screen. A nil now uses time.Now.
func New(reviewer Reviewer, now func() time.Time) *Screen {
	if now == nil {
		now = time.Now
	}
	return &Screen{reviewer: reviewer, now: now}
}

func (s *Screen) Init() tea.Cmd {
	return s.loadDue()
}

func (s *Screen) Title() string {
	return "SRS Review"
}

// Status returns the number of reviews done and still due.
func (s *Screen) Status() string {
	if s.phase == phaseLoading {
		return ""
	}
	return fmt.Sprintf("%d reviewed  %d due", s.reviewed, s.remaining())
}

func (s *Screen) remaining() int {
	return max(s.totalDue-s.idx, 0)
}

func (s *Screen) current() *store.DueItem {
	if s.idx >= len(s.items) {
		return nil
	}
	return &s.items[s.idx]
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case dueLoadedMsg:
		s.busy = false
		if msg.Err != nil {
			s.errMsg = "Failed to load due items: " + msg.Err.Error()
			s.phase = phaseDone
			return s, nil
		}
		s.items = msg.List.Items
		s.totalDue = msg.List.TotalDue
		s.idx = 0
		s.showCurrent()
		return s, nil

	case solutionMsg:
		s.busy = false
		if msg.Err != nil {
			s.errMsg = "Failed to load solution: " + msg.Err.Error()
			return s, nil
		}
		s.solution = msg.Solution
		s.phase = phaseRevealed
		return s, nil

	case reviewedMsg:
		s.busy = false
		if msg.Err != nil {
			s.errMsg = "Failed to save review: " + msg.Err.Error()
			return s, nil
		}
		s.reviewed++
		s.lastLabel = msg.Result.Label
		s.idx++
		if s.idx >= len(s.items) {
			return s, s.loadDue()
		}
		s.showCurrent()
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.busy {
		return s, nil
	}
	key := msg.String()
	switch s.phase {
	case phaseQuestion:
		if key == "space" || key == " " || key == "enter" {
			s.elapsed = s.now().Sub(s.shownAt)
			s.errMsg = ""
			return s, s.loadSolution()
		}
	case phaseRevealed:
		if len(key) == 1 && key[0] >= '0' && key[0] <= '5' {
			s.errMsg = ""
			return s, s.grade(int(key[0] - '0'))
		}
	case phaseDone:
		if key == "enter" || key == "space" || key == " " {
			return s, screen.Pop()
		}
	}
	return s, nil
}

func (s *Screen) showCurrent() {
	s.solution = nil
	if s.current() == nil {
		s.phase = phaseDone
		return
	}
	s.phase = phaseQuestion
	s.shownAt = s.now()
}

func (s *Screen) loadDue() tea.Cmd {
	s.busy = true
	s.phase = phaseLoading
	return func() tea.Msg {
		list, err := s.reviewer.Due(context.Background(), nil, batchSize)
		return dueLoadedMsg{List: list, Err: err}
	}
}

func (s *Screen) loadSolution() tea.Cmd {
	item := s.current()
	s.busy = true
	return func() tea.Msg {
		sol, err := s.reviewer.Solution(context.Background(), item.ID, item.Depth)
		return solutionMsg{Solution: sol, Err: err}
	}
}

func (s *Screen) grade(quality int) tea.Cmd {
	item := s.current()
	ms := s.elapsed.Milliseconds()
	s.busy = true
	return func() tea.Msg {
		res, err := s.reviewer.Review(context.Background(), srs.ReviewInput{
			SRSItemID:      item.ID,
			Quality:        quality,
			ResponseTimeMs: &ms,
		})
		return reviewedMsg{Result: res, Err: err}
	}
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseQuestion:
		return []layout.KeyHint{
			{Key: "Space", Description: "Reveal"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseRevealed:
		return []layout.KeyHint{
			{Key: "0-5", Description: "Grade recall"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

// DepthGoal describes what to plan for an item at depth.
func DepthGoal(depth int) string {
	switch depth {
	case 0:
		return "Plan the cross"
	case 1:
		return "Plan the cross and 1st pair"
	default:
		return fmt.Sprintf("Plan the cross and %d pairs", depth)
	}
}

func (s *Screen) View(width, height int) string {
	var body string
	switch s.phase {
	case phaseLoading:
		body = theme.Hint.Render("Loading due items...")
	case phaseDone:
		body = s.renderDone()
	default:
		body = s.renderItem()
	}
	if s.errMsg != "" {
		body = lipgloss.JoinVertical(lipgloss.Center, body, "", theme.Incorrect.Render(s.errMsg))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (s *Screen) renderDone() string {
	msg := "No reviews due. Add solves with `crosstrainer srs add`."
	if s.reviewed > 0 {
		msg = fmt.Sprintf("All caught up! %d reviewed this sitting.", s.reviewed)
	}
	return theme.Card.Render(theme.Title.Render(msg) + "\n\n" + theme.Hint.Render("enter to go back"))
}

func (s *Screen) renderItem() string {
	item := s.current()
	var b strings.Builder
	b.WriteString(theme.Selected.Render(DepthGoal(item.Depth)))
	b.WriteString("\n\n")
	b.WriteString(theme.Scramble.Render(item.Scramble))
	b.WriteString("\n\n")

	source := fmt.Sprintf("%s, %.2f", item.Solver, item.Result)
	if item.Competition != nil {
		source += " @ " + *item.Competition
	}
	rows := []string{
		layout.RenderKeyValue("Solve", source),
		layout.RenderKeyValue("Interval", fmt.Sprintf("%d days, ease %.2f", item.IntervalDays, item.EaseFactor)),
		layout.RenderKeyValue("Due", srs.DueLabel(item.SRSItem, s.now())),
	}
	if s.lastLabel != "" {
		rows = append(rows, layout.RenderKeyValue("Last grade", theme.Status.Render(s.lastLabel)))
	}
	b.WriteString(strings.Join(rows, "\n"))

	if s.phase == phaseRevealed && s.solution != nil {
		b.WriteString("\n\n")
		b.WriteString(s.renderSolution())
	}
	return theme.Card.Width(76).Render(b.String())
}

func (s *Screen) renderSolution() string {
	sol := s.solution
	if sol.MoveCount == 0 {
		return theme.Hint.Render("No reconstruction available for this solve.")
	}
	lines := make([]string, 0, len(sol.SegmentsShown)+4)
	for _, seg := range sol.SegmentsShown {
		lines = append(lines, layout.RenderKeyValue(seg.Name, seg.Line))
	}
	lines = append(lines,
		layout.RenderKeyValue("Moves", fmt.Sprintf("%d STM", sol.MoveCount)),
		theme.Hint.Render(sol.AlgCubingURL),
		"",
		gradeLegend(),
	)
	return strings.Join(lines, "\n")
}

func gradeLegend() string {
	parts := make([]string, 0, spacedrep.MaxQuality+1)
	for q := spacedrep.MinQuality; q <= spacedrep.MaxQuality; q++ {
		style := theme.Incorrect
		if spacedrep.Passed(q) {
			style = theme.Correct
		}
		parts = append(parts, style.Render(fmt.Sprintf("%d", q))+" "+theme.Hint.Render(spacedrep.QualityLabel(q)))
	}
	return strings.Join(parts, "\n")
}
