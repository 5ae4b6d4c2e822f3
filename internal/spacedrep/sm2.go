package spacedrep

import (
	"math"
	"time"
)

// Next applies one SM-2 review with the given quality to current and
// returns the resulting schedule. The interval is chosen from the
// repetition count before it is incremented, and the ease factor is
// updated on failures as well as passes.
//
// nextReviewAt is computed with calendar-day arithmetic in now's location,
// so a review at 23:00 with a 1-day interval is due at 23:00 the next day
// even across DST changes.
func Next(current ReviewState, quality int, now time.Time) (ReviewOutcome, error) {
	if err := ValidateQuality(quality); err != nil {
		return ReviewOutcome{}, err
	}
	if err := current.Validate(); err != nil {
		return ReviewOutcome{}, err
	}

	rs := current.withDefaults()
	interval := rs.IntervalDays
	repetitions := rs.Repetitions

	if !Passed(quality) {
		repetitions = 0
		interval = DefaultIntervalDays
	} else {
		switch repetitions {
		case 0:
			interval = DefaultIntervalDays
		case 1:
			interval = SecondIntervalDays
		default:
			interval = max(DefaultIntervalDays, int(math.Round(float64(interval)*rs.EaseFactor)))
		}
		repetitions++
	}

	return ReviewOutcome{
		EaseFactor:   nextEaseFactor(rs.EaseFactor, quality),
		IntervalDays: interval,
		Repetitions:  repetitions,
		NextReviewAt: now.AddDate(0, 0, interval),
		Passed:       Passed(quality),
	}, nil
}

// nextEaseFactor is EF' = EF + (0.1 - (5-q)(0.08 + (5-q)0.02)),
// floored at MinEaseFactor and rounded to two decimals.
func nextEaseFactor(ef float64, quality int) float64 {
	d := float64(MaxQuality - quality)
	ef += 0.1 - d*(0.08+d*0.02)
	ef = math.Max(MinEaseFactor, ef)
	return math.Round(ef*100) / 100
}
