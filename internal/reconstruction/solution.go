package reconstruction

import (
	"net/url"
	"strings"
)

// MaxDepth is the deepest partial solution served: cross plus three pairs.
const MaxDepth = 3

var pairNames = [...]string{"", "1st pair", "2nd pair", "3rd pair"}

// ShownSegment names one reconstruction step included in a partial solution.
type ShownSegment struct {
	Name string `json:"name"`
	Line string `json:"line"`
}

// DepthSolution is the move sequence of a solve up to a given depth.
type DepthSolution struct {
	Moves         string         `json:"moves"`
	MoveCount     int            `json:"moveCount"`
	SegmentsShown []ShownSegment `json:"segmentsShown"`
}

// SolutionAtDepth assembles the cross and the first depth F2L pairs of segs.
// Pairs already solved by an xcross/xxcross count toward depth, so an
// xcross at depth 2 adds only the 2nd pair. Pair 4 is never included.
func SolutionAtDepth(segs *Segments, depth int) DepthSolution {
	sol := DepthSolution{SegmentsShown: []ShownSegment{}}
	if segs == nil {
		return sol
	}

	var moves []string
	if segs.Cross.HasLine() {
		sol.SegmentsShown = append(sol.SegmentsShown, ShownSegment{
			Name: string(segs.CrossType),
			Line: segs.Cross.Line,
		})
		moves = append(moves, segs.Cross.Moves())
	}

	pairsToAdd := max(0, depth-segs.CrossType.PairsIncluded())
	for i := 1; i <= MaxDepth; i++ {
		pair := segs.Pair(i)
		if pairsToAdd < i || !pair.HasLine() || strings.HasPrefix(pair.Line, includedPrefix) {
			continue
		}
		sol.SegmentsShown = append(sol.SegmentsShown, ShownSegment{Name: pairNames[i], Line: pair.Line})
		moves = append(moves, pair.Moves())
	}

	nonEmpty := moves[:0]
	for _, m := range moves {
		if m != "" {
			nonEmpty = append(nonEmpty, m)
		}
	}
	sol.Moves = strings.Join(nonEmpty, " ")
	sol.MoveCount = CountMoves(sol.Moves)
	return sol
}

// AlgCubingURL returns an alg.cubing.net link that replays alg on top of
// the scramble setup.
func AlgCubingURL(scramble, alg string) string {
	return "https://alg.cubing.net/?setup=" + escape(scramble) + "&alg=" + escape(alg)
}

// uriComponent maps QueryEscape output to encodeURIComponent output.
var uriComponent = strings.NewReplacer(
	"+", "%20",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%21", "!",
	"%2A", "*",
)

func escape(s string) string {
	return uriComponent.Replace(url.QueryEscape(s))
}
