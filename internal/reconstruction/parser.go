package reconstruction

import (
	"strings"
)

// includedPrefix marks sentinel text in reconstructions that were stored
// with the "(included in xcross)" placeholder instead of moves.
const includedPrefix = "(included"

// Parse splits a line-oriented reconstruction into segments. Each non-blank
// line is assigned to the first keyword it contains (case-insensitive);
// lines matching nothing are dropped. Assignment is a plain overwrite in
// line order, so a later line replaces an earlier one in the same slot.
// Returns nil when text has no content.
func Parse(text string) *Segments {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	segs := &Segments{CrossType: CrossPlain}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		assign(segs, line)
	}
	return segs
}

func assign(segs *Segments, line string) {
	lower := strings.ToLower(line)
	has := func(keywords ...string) bool {
		for _, k := range keywords {
			if strings.Contains(lower, k) {
				return true
			}
		}
		return false
	}

	switch {
	case has("inspection"):
		segs.Inspection = LineSlot(line)
	case has("xxcross"):
		segs.Cross = LineSlot(line)
		segs.CrossType = XXCross
		segs.Pair1 = IncludedSlot(XXCross)
		segs.Pair2 = IncludedSlot(XXCross)
	case has("xcross"):
		segs.Cross = LineSlot(line)
		segs.CrossType = XCross
		segs.Pair1 = IncludedSlot(XCross)
	case has("cross"):
		segs.Cross = LineSlot(line)
		segs.CrossType = CrossPlain
	case has("1st pair", "first pair"):
		segs.Pair1 = LineSlot(line)
	case has("2nd pair", "second pair"):
		segs.Pair2 = LineSlot(line)
	case has("3rd pair", "third pair"):
		segs.Pair3 = LineSlot(line)
	case has("4th pair", "fourth pair"):
		segs.Pair4 = LineSlot(line)
	case has("oll"):
		segs.OLL = LineSlot(line)
	case has("pll"):
		segs.PLL = LineSlot(line)
	}
}

// ExtractMoves returns the move sequence of a reconstruction line: any
// "// comment" suffix and leading "Label:" prefix are removed and the rest
// is trimmed. Empty lines and included-step placeholders yield "".
func ExtractMoves(line string) string {
	if line == "" || strings.HasPrefix(line, includedPrefix) {
		return ""
	}
	moves, _, _ := strings.Cut(line, "//")
	if _, after, ok := strings.Cut(moves, ":"); ok {
		moves = after
	}
	return strings.TrimSpace(moves)
}
