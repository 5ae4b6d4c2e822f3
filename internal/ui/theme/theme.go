package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary   = lipgloss.Color("#38BDF8") // Sky
	Secondary = lipgloss.Color("#A78BFA") // Violet
	Accent    = lipgloss.Color("#FACC15") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Sticker colours keyed by cross colour name.
var faceColors = map[string]color.Color{
	"white":  lipgloss.Color("#F8FAFC"),
	"yellow": lipgloss.Color("#FDE047"),
	"red":    lipgloss.Color("#EF4444"),
	"orange": lipgloss.Color("#FB923C"),
	"blue":   lipgloss.Color("#3B82F6"),
	"green":  lipgloss.Color("#22C55E"),
}

// Face returns the sticker colour for a cross colour, Text when unknown.
func Face(name string) color.Color {
	if c, ok := faceColors[name]; ok {
		return c
	}
	return Text
}

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Label = lipgloss.NewStyle().
		Foreground(TextDim).
		Width(18)

	// Scramble renders move sequences.
	Scramble = lipgloss.NewStyle().
			Bold(true).
			Foreground(Text)

	// Timer renders the inspection clock.
	Timer = lipgloss.NewStyle().
		Bold(true).
		Foreground(Accent)

	TimerOver = lipgloss.NewStyle().
			Bold(true).
			Foreground(Error)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Status = lipgloss.NewStyle().
		Foreground(Secondary)
)
