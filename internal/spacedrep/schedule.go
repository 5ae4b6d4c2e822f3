package spacedrep

// SM-2 defaults and bounds.
const (
	DefaultEaseFactor   = 2.5
	MinEaseFactor       = 1.3
	DefaultIntervalDays = 1

	// SecondIntervalDays is the interval after the second consecutive pass.
	SecondIntervalDays = 6
)

// Quality ratings range from 0 (blackout) to 5 (perfect recall).
// Anything at or above PassingQuality counts as a successful review.
const (
	MinQuality     = 0
	MaxQuality     = 5
	PassingQuality = 3
)

var qualityLabels = [...]string{
	"Complete blackout",
	"Wrong, recognized after",
	"Wrong, seemed easy",
	"Correct with difficulty",
	"Correct with hesitation",
	"Perfect recall",
}

// QualityLabel returns a human-readable description of a quality rating.
func QualityLabel(quality int) string {
	if quality < MinQuality || quality > MaxQuality {
		return "Unknown"
	}
	return qualityLabels[quality]
}

// Passed reports whether a quality rating counts as a successful review.
func Passed(quality int) bool {
	return quality >= PassingQuality
}

// RetentionRate returns the share of passing ratings in qualities.
// Returns 0 for an empty history.
func RetentionRate(qualities []int) float64 {
	if len(qualities) == 0 {
		return 0
	}
	passed := 0
	for _, q := range qualities {
		if Passed(q) {
			passed++
		}
	}
	return float64(passed) / float64(len(qualities))
}
