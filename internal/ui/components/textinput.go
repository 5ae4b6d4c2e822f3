package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/crosstrainer/internal/ui/theme"
)

// TextInput wraps bubbles/textinput for single-line free text such as
// attempt notes.
type TextInput struct {
	Model textinput.Model
	Label string
}

// NewTextInput creates a blurred text input. A zero charLimit is unlimited.
func NewTextInput(label, placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return TextInput{Model: ti, Label: label}
}

// Focus starts editing with value preloaded.
func (t *TextInput) Focus(value string) tea.Cmd {
	t.Model.SetValue(value)
	t.Model.CursorEnd()
	return t.Model.Focus()
}

// Blur stops editing and returns the entered text.
func (t *TextInput) Blur() string {
	t.Model.Blur()
	return t.Model.Value()
}

// Focused reports whether the input is being edited.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the label and input.
func (t TextInput) View() string {
	label := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(t.Label)
	return label + " " + t.Model.View()
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}
