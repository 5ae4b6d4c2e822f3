// Package reconstruction parses free-text solve reconstructions into named
// segments and assembles partial solutions up to a requested F2L depth.
package reconstruction

import (
	"encoding/json"
	"fmt"
)

// CrossType identifies how many F2L pairs were solved together with the cross.
type CrossType string

const (
	CrossPlain CrossType = "cross"
	XCross     CrossType = "xcross"
	XXCross    CrossType = "xxcross"
)

// PairsIncluded returns the number of F2L pairs folded into the cross step.
func (c CrossType) PairsIncluded() int {
	switch c {
	case XXCross:
		return 2
	case XCross:
		return 1
	default:
		return 0
	}
}

// SlotKind tags the content of a segment slot.
type SlotKind int

const (
	SlotAbsent SlotKind = iota
	SlotLine
	SlotIncluded
)

// Slot is one named segment of a reconstruction: either absent, the
// original text line, or a marker that the step was already solved as
// part of an xcross/xxcross.
type Slot struct {
	Kind       SlotKind
	Line       string
	IncludedIn CrossType
}

// LineSlot returns a slot holding a reconstruction line.
func LineSlot(line string) Slot {
	return Slot{Kind: SlotLine, Line: line}
}

// IncludedSlot returns a slot marking a pair as solved inside cross.
func IncludedSlot(cross CrossType) Slot {
	return Slot{Kind: SlotIncluded, IncludedIn: cross}
}

// HasLine reports whether the slot holds an actual reconstruction line.
func (s Slot) HasLine() bool {
	return s.Kind == SlotLine
}

// IsIncluded reports whether the slot is the xcross/xxcross marker.
func (s Slot) IsIncluded() bool {
	return s.Kind == SlotIncluded
}

// String renders the slot the way reconstructions display it.
func (s Slot) String() string {
	switch s.Kind {
	case SlotLine:
		return s.Line
	case SlotIncluded:
		return fmt.Sprintf("(included in %s)", s.IncludedIn)
	default:
		return ""
	}
}

// Moves returns the move sequence of the slot. Absent and included slots
// contribute no moves.
func (s Slot) Moves() string {
	if !s.HasLine() {
		return ""
	}
	return ExtractMoves(s.Line)
}

// MarshalJSON encodes an absent slot as null and any other slot as its text.
func (s Slot) MarshalJSON() ([]byte, error) {
	if s.Kind == SlotAbsent {
		return []byte("null"), nil
	}
	return json.Marshal(s.String())
}

// Segments is a reconstruction split into its named steps.
type Segments struct {
	Inspection Slot      `json:"inspection"`
	Cross      Slot      `json:"cross"`
	CrossType  CrossType `json:"crossType"`
	Pair1      Slot      `json:"pair1"`
	Pair2      Slot      `json:"pair2"`
	Pair3      Slot      `json:"pair3"`
	Pair4      Slot      `json:"pair4"`
	OLL        Slot      `json:"oll"`
	PLL        Slot      `json:"pll"`
}

// Pair returns the slot of F2L pair n (1-4). Other values yield an absent slot.
func (s *Segments) Pair(n int) Slot {
	switch n {
	case 1:
		return s.Pair1
	case 2:
		return s.Pair2
	case 3:
		return s.Pair3
	case 4:
		return s.Pair4
	default:
		return Slot{}
	}
}
