// Package screen defines the screens of the terminal trainer and the stack
// that navigates between them.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/crosstrainer/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first shown.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface for screens with custom
// footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider is an optional interface for screens that show a status
// line in the header.
type StatusProvider interface {
	Status() string
}

// PushMsg requests a screen be pushed onto the stack.
type PushMsg struct {
	Screen Screen
}

// PopMsg requests the top screen be popped.
type PopMsg struct{}

// ResumedMsg is delivered to a screen uncovered by a pop.
type ResumedMsg struct{}

// Push returns a command that pushes s.
func Push(s Screen) tea.Cmd {
	return func() tea.Msg { return PushMsg{Screen: s} }
}

// Pop returns a command that pops the top screen.
func Pop() tea.Cmd {
	return func() tea.Msg { return PopMsg{} }
}

// Stack holds the open screens; the last one is active. The root screen
// is never popped.
type Stack struct {
	screens []Screen
}

// NewStack creates a stack with root as its only screen.
func NewStack(root Screen) *Stack {
	return &Stack{screens: []Screen{root}}
}

// Active returns the top screen.
func (s *Stack) Active() Screen {
	return s.screens[len(s.screens)-1]
}

// Depth returns the number of open screens.
func (s *Stack) Depth() int {
	return len(s.screens)
}

// Update applies navigation messages and forwards everything else to the
// active screen.
func (s *Stack) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushMsg:
		s.screens = append(s.screens, msg.Screen)
		return msg.Screen.Init()
	case PopMsg:
		if len(s.screens) == 1 {
			return nil
		}
		s.screens = s.screens[:len(s.screens)-1]
		return s.forward(ResumedMsg{})
	}
	return s.forward(msg)
}

func (s *Stack) forward(msg tea.Msg) tea.Cmd {
	top := len(s.screens) - 1
	updated, cmd := s.screens[top].Update(msg)
	s.screens[top] = updated
	return cmd
}

// View renders the active screen.
func (s *Stack) View(width, height int) string {
	return s.Active().View(width, height)
}
