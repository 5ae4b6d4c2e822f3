package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/crosstrainer/internal/spacedrep"
	"github.com/abhisek/crosstrainer/internal/srs"
)

var srsCmd = &cobra.Command{
	Use:   "srs",
	Short: "Manage spaced-repetition review of expert solves",
}

var srsAddCmd = &cobra.Command{
	Use:   "add <solve-id> <depth>",
	Short: "Schedule a solve for review at a depth (0 = cross only, up to 3 pairs)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		solveID, err := parseID(args[0])
		if err != nil {
			return err
		}
		depth, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid depth %q", args[1])
		}
		in := srs.AddInput{SolveID: solveID, Depth: depth}
		if cmd.Flags().Changed("notes") {
			notes, _ := cmd.Flags().GetString("notes")
			in.Notes = &notes
		}
		return withSRS(cmd, func(svc *srs.Service) error {
			item, err := svc.Add(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added item #%d (solve %d, depth %d)\n", item.ID, item.SolveID, item.Depth)
			return nil
		})
	},
}

var srsRemoveCmd = &cobra.Command{
	Use:   "remove <item-id>",
	Short: "Remove an item and its review history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withSRS(cmd, func(svc *srs.Service) error {
			if err := svc.Remove(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed item #%d\n", id)
			return nil
		})
	},
}

var srsDueCmd = &cobra.Command{
	Use:   "due",
	Short: "List items due for review",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		var depth *int
		if cmd.Flags().Changed("depth") {
			d, _ := cmd.Flags().GetInt("depth")
			depth = &d
		}
		return withSRS(cmd, func(svc *srs.Service) error {
			due, err := svc.Due(cmd.Context(), depth, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if wantJSON(cmd) {
				return printJSON(out, due)
			}

			now := time.Now()
			fmt.Fprintf(out, "%5s  %5s  %-24s  %6s  %4s  %5s  %-12s  %s\n",
				"Item", "Depth", "Solver", "Result", "Ease", "Int.", "Due", "Scramble")
			printRule(out, 114)
			for _, it := range due.Items {
				fmt.Fprintf(out, "%5d  %5d  %-24s  %6.2f  %4.2f  %4dd  %-12s  %s\n",
					it.ID, it.Depth, truncate(it.Solver, 24), it.Result,
					it.EaseFactor, it.IntervalDays, srs.DueLabel(it.SRSItem, now), it.Scramble)
			}
			fmt.Fprintf(out, "\n%d due\n", due.TotalDue)
			return nil
		})
	},
}

var srsSolutionCmd = &cobra.Command{
	Use:   "solution <item-id>",
	Short: "Show the cross and pairs of an item's solve",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		depth, _ := cmd.Flags().GetInt("depth")
		return withSRS(cmd, func(svc *srs.Service) error {
			sol, err := svc.Solution(cmd.Context(), id, depth)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if wantJSON(cmd) {
				return printJSON(out, sol)
			}

			fmt.Fprintf(out, "%s  %.2f\n", sol.Solver, sol.Result)
			fmt.Fprintf(out, "Scramble: %s\n", sol.Scramble)
			printRule(out, 60)
			for _, seg := range sol.SegmentsShown {
				fmt.Fprintf(out, "%-11s %s\n", seg.Name+":", seg.Line)
			}
			printRule(out, 60)
			fmt.Fprintf(out, "%s (%d moves)\n", sol.MovesAtDepth, sol.MoveCount)
			fmt.Fprintln(out, sol.AlgCubingURL)
			return nil
		})
	},
}

var srsReviewCmd = &cobra.Command{
	Use:   "review <item-id> <quality>",
	Short: "Grade a review (0-5) and reschedule the item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		quality, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid quality %q", args[1])
		}
		in := srs.ReviewInput{SRSItemID: id, Quality: quality}
		if cmd.Flags().Changed("notes") {
			notes, _ := cmd.Flags().GetString("notes")
			in.Notes = &notes
		}
		if cmd.Flags().Changed("solution") {
			sol, _ := cmd.Flags().GetString("solution")
			in.UserSolution = &sol
		}
		return withSRS(cmd, func(svc *srs.Service) error {
			res, err := svc.Review(cmd.Context(), in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if wantJSON(cmd) {
				return printJSON(out, res)
			}
			verdict := "failed"
			if res.Outcome.Passed {
				verdict = "passed"
			}
			fmt.Fprintf(out, "%s (%s). Next review %s, interval %dd, ease %.2f\n",
				res.Label, verdict, res.Item.NextReviewAt.Local().Format("2006-01-02 15:04"),
				res.Item.IntervalDays, res.Item.EaseFactor)
			return nil
		})
	},
}

var srsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise the review queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSRS(cmd, func(svc *srs.Service) error {
			st, err := svc.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if wantJSON(cmd) {
				return printJSON(out, st)
			}

			fmt.Fprintf(out, "Items:        %d\n", st.TotalItems)
			fmt.Fprintf(out, "Due today:    %d\n", st.DueToday)
			fmt.Fprintf(out, "Reviews (7d): %d\n", st.ReviewsLast7Days)
			fmt.Fprintf(out, "Retention:    %.1f%%\n", st.RetentionRate*100)
			fmt.Fprintln(out)
			fmt.Fprintf(out, "%5s  %5s  %8s\n", "Depth", "Items", "Avg ease")
			printRule(out, 22)
			for d := 0; d <= 3; d++ {
				ds, ok := st.ByDepth[d]
				if !ok {
					continue
				}
				fmt.Fprintf(out, "%5d  %5d  %8.2f\n", d, ds.Items, ds.AvgEase)
			}
			return nil
		})
	},
}

func init() {
	srsAddCmd.Flags().String("notes", "", "Notes for the item")
	srsDueCmd.Flags().Int("depth", 0, "Only items at this depth")
	srsDueCmd.Flags().Int("limit", srs.DefaultDueLimit, "Maximum items to list")
	srsSolutionCmd.Flags().Int("depth", 0, "Pairs to include after the cross (0-3)")
	srsReviewCmd.Flags().String("notes", "", "Review notes")
	srsReviewCmd.Flags().String("solution", "", "Your planned solution")
	srsReviewCmd.Long = "Grade a review and reschedule the item. Qualities:\n" + qualityLegend()

	for _, c := range []*cobra.Command{srsDueCmd, srsSolutionCmd, srsReviewCmd, srsStatsCmd} {
		addJSONFlag(c)
	}
	srsCmd.AddCommand(srsAddCmd, srsRemoveCmd, srsDueCmd, srsSolutionCmd, srsReviewCmd, srsStatsCmd)
}

func qualityLegend() string {
	s := ""
	for q := spacedrep.MinQuality; q <= spacedrep.MaxQuality; q++ {
		s += fmt.Sprintf("  %d  %s\n", q, spacedrep.QualityLabel(q))
	}
	return s
}
