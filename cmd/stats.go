package cmd

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/crosstrainer/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show practice statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		svc := e.statsService()
		summary, err := svc.Summary(ctx, time.Time{}, time.Time{})
		if err != nil {
			return err
		}
		daily, err := svc.Daily(ctx, days)
		if err != nil {
			return err
		}
		times, err := svc.TimeByDifficulty(ctx, time.Time{})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if wantJSON(cmd) {
			return printJSON(out, map[string]any{
				"summary":            summary,
				"daily":              daily,
				"time_by_difficulty": times,
			})
		}
		printSummary(out, summary)
		fmt.Fprintln(out)
		printDaily(out, daily)
		fmt.Fprintln(out)
		printTimes(out, times)
		return nil
	},
}

func printSummary(w io.Writer, s *stats.Summary) {
	fmt.Fprintf(w, "Attempts:        %d in %d sessions\n", s.TotalAttempts, s.TotalSessions)
	fmt.Fprintf(w, "Cross success:   %.1f%%\n", s.OverallCrossSuccessRate)
	fmt.Fprintf(w, "Avg inspection:  %s\n", formatMs(s.AvgInspectionTimeMs))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-6s  %8s  %8s\n", "Moves", "Attempts", "Success")
	printRule(w, 26)
	for _, k := range sortedKeys(s.ByDifficulty) {
		r := s.ByDifficulty[k]
		fmt.Fprintf(w, "%-6d  %8d  %7.1f%%\n", k, r.Attempts, r.SuccessRate)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-6s  %8s  %8s\n", "Pairs", "Attempts", "Success")
	printRule(w, 26)
	for _, k := range sortedKeys(s.ByPairsAttempted) {
		r := s.ByPairsAttempted[k]
		fmt.Fprintf(w, "%-6d  %8d  %7.1f%%\n", k, r.Attempts, r.SuccessRate)
	}
}

func printDaily(w io.Writer, days []stats.Day) {
	fmt.Fprintf(w, "%-10s  %8s  %8s  %6s  %6s\n", "Date", "Attempts", "Success", "Moves", "Pairs")
	printRule(w, 46)
	for _, d := range days {
		fmt.Fprintf(w, "%-10s  %8d  %7.1f%%  %6.1f  %6.1f\n",
			d.Date, d.Attempts, d.SuccessRate, d.AvgDifficulty, d.AvgPairsAttempted)
	}
}

func printTimes(w io.Writer, times []stats.DifficultyTimes) {
	fmt.Fprintf(w, "%-6s  %10s  %10s  %10s  %10s\n", "Moves", "Success avg", "median", "Fail avg", "median")
	printRule(w, 56)
	for _, t := range times {
		fmt.Fprintf(w, "%-6d  %10s  %10s  %10s  %10s\n", t.CrossMoves,
			formatMs(t.SuccessAvgMs), formatMs(t.SuccessMedianMs),
			formatMs(t.FailAvgMs), formatMs(t.FailMedianMs))
	}
}

func sortedKeys(m map[int]stats.Rate) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func init() {
	statsCmd.Flags().Int("days", stats.DefaultDays, "Days of daily breakdown")
	addJSONFlag(statsCmd)
}
