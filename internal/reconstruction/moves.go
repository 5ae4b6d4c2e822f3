package reconstruction

import (
	"regexp"
	"strings"
)

var rotationRe = regexp.MustCompile(`(?i)^[xyz]2?'?$`)

// CountMoves counts moves in STM, skipping whole-cube rotations
// (x, y, z with optional 2 and/or prime). Tokens are not otherwise
// validated.
func CountMoves(moves string) int {
	n := 0
	for _, tok := range strings.Fields(moves) {
		if !IsRotation(tok) {
			n++
		}
	}
	return n
}

// IsRotation reports whether tok is a whole-cube rotation.
func IsRotation(tok string) bool {
	return rotationRe.MatchString(tok)
}
