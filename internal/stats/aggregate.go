// Package stats aggregates practice attempts into the summaries shown by
// the stats command and the stats API.
package stats

import (
	"math"
	"slices"
	"time"

	"github.com/abhisek/crosstrainer/internal/store"
)

// Rate is an attempt count with its cross success percentage.
type Rate struct {
	Attempts    int     `json:"attempts"`
	SuccessRate float64 `json:"success_rate"`
}

// Summary is the overall practice summary.
type Summary struct {
	TotalAttempts           int          `json:"total_attempts"`
	TotalSessions           int          `json:"total_sessions"`
	OverallCrossSuccessRate float64      `json:"overall_cross_success_rate"`
	ByDifficulty            map[int]Rate `json:"by_difficulty"`
	ByPairsAttempted        map[int]Rate `json:"by_pairs_attempted"`
	AvgInspectionTimeMs     *int64       `json:"avg_inspection_time_ms"`
}

// Day is one calendar day (UTC) of practice.
type Day struct {
	Date              string  `json:"date"`
	Attempts          int     `json:"attempts"`
	SuccessRate       float64 `json:"success_rate"`
	AvgDifficulty     float64 `json:"avg_difficulty"`
	AvgPairsAttempted float64 `json:"avg_pairs_attempted"`
}

// DifficultyTimes splits inspection times at one difficulty by cross
// result. Attempts without a recorded result count as failures.
type DifficultyTimes struct {
	CrossMoves      int    `json:"cross_moves"`
	SuccessAvgMs    *int64 `json:"success_avg_ms,omitempty"`
	SuccessMedianMs *int64 `json:"success_median_ms,omitempty"`
	SuccessCount    int    `json:"success_count,omitempty"`
	FailAvgMs       *int64 `json:"fail_avg_ms,omitempty"`
	FailMedianMs    *int64 `json:"fail_median_ms,omitempty"`
	FailCount       int    `json:"fail_count,omitempty"`
}

// tally accumulates attempts and successes.
type tally struct {
	attempts, successes int
}

func (t *tally) add(a store.Attempt) {
	t.attempts++
	if a.CrossSuccess != nil && *a.CrossSuccess {
		t.successes++
	}
}

func (t tally) rate() Rate {
	return Rate{Attempts: t.attempts, SuccessRate: percent(t.successes, t.attempts)}
}

// Summarize computes the overall summary of attempts.
func Summarize(attempts []store.Attempt) Summary {
	out := Summary{
		TotalAttempts:    len(attempts),
		ByDifficulty:     map[int]Rate{},
		ByPairsAttempted: map[int]Rate{},
	}

	var (
		overall  tally
		byMoves  = map[int]*tally{}
		byPairs  = map[int]*tally{}
		sessions = map[string]struct{}{}
		timeSum  int64
		timed    int
	)
	for _, a := range attempts {
		overall.add(a)
		bucket(byMoves, a.CrossMoves).add(a)
		bucket(byPairs, a.PairsAttempted).add(a)
		if a.SessionID != nil {
			sessions[*a.SessionID] = struct{}{}
		}
		if a.InspectionTimeMs != nil {
			timeSum += *a.InspectionTimeMs
			timed++
		}
	}

	out.TotalSessions = len(sessions)
	out.OverallCrossSuccessRate = overall.rate().SuccessRate
	for k, t := range byMoves {
		out.ByDifficulty[k] = t.rate()
	}
	for k, t := range byPairs {
		out.ByPairsAttempted[k] = t.rate()
	}
	if timed > 0 {
		avg := int64(math.Round(float64(timeSum) / float64(timed)))
		out.AvgInspectionTimeMs = &avg
	}
	return out
}

// DailyBreakdown groups attempts by UTC calendar day, newest day first.
func DailyBreakdown(attempts []store.Attempt) []Day {
	type acc struct {
		tally
		moves, pairs int
	}
	days := map[string]*acc{}
	for _, a := range attempts {
		key := a.CreatedAt.UTC().Format(time.DateOnly)
		d, ok := days[key]
		if !ok {
			d = &acc{}
			days[key] = d
		}
		d.add(a)
		d.moves += a.CrossMoves
		d.pairs += a.PairsAttempted
	}

	out := make([]Day, 0, len(days))
	for date, d := range days {
		out = append(out, Day{
			Date:              date,
			Attempts:          d.attempts,
			SuccessRate:       percent(d.successes, d.attempts),
			AvgDifficulty:     round1(float64(d.moves) / float64(d.attempts)),
			AvgPairsAttempted: round1(float64(d.pairs) / float64(d.attempts)),
		})
	}
	slices.SortFunc(out, func(a, b Day) int {
		switch {
		case a.Date > b.Date:
			return -1
		case a.Date < b.Date:
			return 1
		}
		return 0
	})
	return out
}

// InspectionTimes reports average and median inspection time per
// difficulty, split by cross result. Untimed attempts are skipped.
func InspectionTimes(attempts []store.Attempt) []DifficultyTimes {
	type split struct{ success, fail []int64 }
	groups := map[int]*split{}
	for _, a := range attempts {
		if a.InspectionTimeMs == nil {
			continue
		}
		g, ok := groups[a.CrossMoves]
		if !ok {
			g = &split{}
			groups[a.CrossMoves] = g
		}
		if a.CrossSuccess != nil && *a.CrossSuccess {
			g.success = append(g.success, *a.InspectionTimeMs)
		} else {
			g.fail = append(g.fail, *a.InspectionTimeMs)
		}
	}

	out := make([]DifficultyTimes, 0, len(groups))
	for moves, g := range groups {
		dt := DifficultyTimes{CrossMoves: moves}
		if len(g.success) > 0 {
			dt.SuccessAvgMs, dt.SuccessMedianMs = mean(g.success), median(g.success)
			dt.SuccessCount = len(g.success)
		}
		if len(g.fail) > 0 {
			dt.FailAvgMs, dt.FailMedianMs = mean(g.fail), median(g.fail)
			dt.FailCount = len(g.fail)
		}
		out = append(out, dt)
	}
	slices.SortFunc(out, func(a, b DifficultyTimes) int { return a.CrossMoves - b.CrossMoves })
	return out
}

func bucket(m map[int]*tally, k int) *tally {
	t, ok := m[k]
	if !ok {
		t = &tally{}
		m[k] = t
	}
	return t
}

// percent returns 100*n/d rounded to one decimal, 0 when d is 0.
func percent(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return round1(100 * float64(n) / float64(d))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func mean(vals []int64) *int64 {
	var sum int64
	for _, v := range vals {
		sum += v
	}
	m := int64(math.Round(float64(sum) / float64(len(vals))))
	return &m
}

// median is the continuous 50th percentile, rounded to whole milliseconds.
func median(vals []int64) *int64 {
	s := slices.Clone(vals)
	slices.Sort(s)
	n := len(s)
	var m float64
	if n%2 == 1 {
		m = float64(s[n/2])
	} else {
		m = float64(s[n/2-1]+s[n/2]) / 2
	}
	r := int64(math.Round(m))
	return &r
}
