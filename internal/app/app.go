package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/crosstrainer/internal/practice"
	"github.com/abhisek/crosstrainer/internal/screen"
	"github.com/abhisek/crosstrainer/internal/screens/review"
	"github.com/abhisek/crosstrainer/internal/screens/trainer"
	"github.com/abhisek/crosstrainer/internal/ui/layout"
)

// Options holds the dependencies of the terminal trainer.
type Options struct {
	Recorder  trainer.Recorder
	Scrambles trainer.ScrambleSource
	Settings  practice.Settings

	// Reviewer enables the SRS review screen when non-nil.
	Reviewer review.Reviewer
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	stack  *screen.Stack
	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	topts := trainer.Options{
		Recorder:  opts.Recorder,
		Scrambles: opts.Scrambles,
		Settings:  opts.Settings,
	}
	if opts.Reviewer != nil {
		reviewer := opts.Reviewer
		topts.Review = func() screen.Screen { return review.New(reviewer, nil) }
	}
	return AppModel{stack: screen.NewStack(trainer.New(topts))}
}

func (m AppModel) Init() tea.Cmd {
	return m.stack.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.stack.Depth() > 1 {
				return m, screen.Pop()
			}
		}
	}

	cmd := m.stack.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.stack.Active()
	status := ""
	if sp, ok := active.(screen.StatusProvider); ok {
		status = sp.Status()
	}
	header := layout.RenderHeader(active.Title(), status, m.width)

	hints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		hints = append(hp.KeyHints(), hints...)
	}
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.stack.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
