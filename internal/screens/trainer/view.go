package trainer

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/crosstrainer/internal/practice"
	"github.com/abhisek/crosstrainer/internal/ui/layout"
	"github.com/abhisek/crosstrainer/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	now := s.now()
	set := s.trainer.Settings()

	var b strings.Builder
	scr := s.trainer.Scramble()
	if scr == "" {
		scr = "—"
	}
	b.WriteString(theme.Scramble.Render(scr))
	b.WriteString("\n\n")

	face := lipgloss.NewStyle().Foreground(theme.Face(set.CrossColor)).Bold(true).Render(set.CrossColor)
	rows := []string{
		layout.RenderKeyValue("Cross", fmt.Sprintf("%d moves, %s", set.Difficulty, face)),
		layout.RenderKeyValue("Pairs attempting", fmt.Sprintf("%d", set.PairsAttempting)),
		layout.RenderKeyValue("Inspection", s.renderClock(now)),
		layout.RenderKeyValue("Cross result", renderResult(s.trainer.CrossSuccess())),
	}
	if set.PairsAttempting > 0 {
		rows = append(rows, layout.RenderKeyValue("Pairs planned", renderPairs(s.trainer.PairsPlanned(), set.PairsAttempting)))
	}
	if s.notes.Focused() {
		rows = append(rows, s.notes.View())
	} else if n := s.trainer.Notes(); n != "" {
		rows = append(rows, layout.RenderKeyValue("Notes", theme.Body.Render(n)))
	}
	b.WriteString(strings.Join(rows, "\n"))

	card := theme.Card.Width(min(width-4, 72)).Render(b.String())

	var footer string
	switch {
	case s.errMsg != "":
		footer = theme.Incorrect.Render(s.errMsg)
	case s.saving:
		footer = theme.Hint.Render("Saving...")
	case s.status != "":
		footer = theme.Status.Render(s.status)
	}

	content := lipgloss.JoinVertical(lipgloss.Center, card, "", footer)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (s *Screen) renderClock(now time.Time) string {
	limit := s.trainer.Settings().InspectionLimit
	suffix := theme.Hint.Render("  (unlimited)")
	if limit > 0 {
		suffix = theme.Hint.Render(fmt.Sprintf("  (limit %ds)", int(limit.Seconds())))
	}

	phase := s.trainer.Phase()
	if phase == practice.PhaseReady {
		return theme.Hint.Render("press space") + suffix
	}
	clock := formatClock(s.trainer.Elapsed(now))
	if s.trainer.OverLimit(now) {
		return theme.TimerOver.Render(clock) + suffix
	}
	return theme.Timer.Render(clock) + suffix
}

// formatClock renders d as seconds with one decimal.
func formatClock(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func renderResult(ok *bool) string {
	switch {
	case ok == nil:
		return theme.Hint.Render("s = success, f = fail")
	case *ok:
		return theme.Correct.Render("✓ solved")
	default:
		return theme.Incorrect.Render("✗ failed")
	}
}

func renderPairs(planned *int, attempting int) string {
	if planned == nil {
		return theme.Hint.Render(fmt.Sprintf("0-%d", attempting))
	}
	return fmt.Sprintf("%d of %d", *planned, attempting)
}
