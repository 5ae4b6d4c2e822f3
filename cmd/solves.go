package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/crosstrainer/internal/reconstruction"
	"github.com/abhisek/crosstrainer/internal/srs"
	"github.com/abhisek/crosstrainer/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import expert solves from a JSON array",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		return withSRS(cmd, func(svc *srs.Service) error {
			solves, err := svc.Import(cmd.Context(), raw)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d solves\n", len(solves))
			return nil
		})
	},
}

var solvesCmd = &cobra.Command{
	Use:   "solves",
	Short: "Browse the expert solve library",
}

var solvesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reconstructed 3x3 solves ordered by result",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := store.SolveFilter{}
		f.Solver, _ = cmd.Flags().GetString("solver")
		f.Limit, _ = cmd.Flags().GetInt("limit")
		f.Offset, _ = cmd.Flags().GetInt("offset")
		if cmd.Flags().Changed("min-result") {
			v, _ := cmd.Flags().GetFloat64("min-result")
			f.MinResult = &v
		}
		if cmd.Flags().Changed("max-result") {
			v, _ := cmd.Flags().GetFloat64("max-result")
			f.MaxResult = &v
		}

		return withSRS(cmd, func(svc *srs.Service) error {
			page, err := svc.Solves(cmd.Context(), f)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if wantJSON(cmd) {
				return printJSON(out, page)
			}

			fmt.Fprintf(out, "%5s  %-24s  %6s  %-30s  %-10s  %s\n",
				"ID", "Solver", "Result", "Competition", "Date", "SRS")
			printRule(out, 95)
			for _, s := range page.Solves {
				fmt.Fprintf(out, "%5d  %-24s  %6.2f  %-30s  %-10s  %s\n",
					s.ID, truncate(s.Solver, 24), s.Result,
					truncate(deref(s.Competition, "-"), 30), formatDate(s.SolveDate),
					formatDepths(s.InSRS))
			}
			fmt.Fprintf(out, "\n%d of %d solves\n", len(page.Solves), page.Total)
			return nil
		})
	},
}

var solvesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a solve with its parsed reconstruction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withSRS(cmd, func(svc *srs.Service) error {
			d, err := svc.Solve(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if wantJSON(cmd) {
				return printJSON(out, d)
			}

			fmt.Fprintf(out, "%s  %.2f  %s\n", d.Solver, d.Result, deref(d.Competition, ""))
			fmt.Fprintf(out, "Scramble: %s\n", d.Scramble)
			if d.ParsedSegments != nil {
				printRule(out, 60)
				printSegments(out, d.ParsedSegments)
			} else {
				fmt.Fprintln(out, "No reconstruction")
			}
			printRule(out, 60)
			fmt.Fprintf(out, "SRS depths: %s\n", formatDepths(d.InSRS))
			fmt.Fprintf(out, "%s\n", d.AlgCubingURL)
			return nil
		})
	},
}

// withSRS opens the store and runs fn with an SRS service.
func withSRS(cmd *cobra.Command, fn func(*srs.Service) error) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	svc, err := e.srsService()
	if err != nil {
		return err
	}
	return fn(svc)
}

func printSegments(w io.Writer, segs *reconstruction.Segments) {
	rows := []struct {
		name string
		slot reconstruction.Slot
	}{
		{"Inspection", segs.Inspection},
		{string(segs.CrossType), segs.Cross},
		{"1st pair", segs.Pair1},
		{"2nd pair", segs.Pair2},
		{"3rd pair", segs.Pair3},
		{"4th pair", segs.Pair4},
		{"OLL", segs.OLL},
		{"PLL", segs.PLL},
	}
	for _, r := range rows {
		if r.slot.Kind == reconstruction.SlotAbsent {
			continue
		}
		fmt.Fprintf(w, "%-11s %s\n", r.name+":", r.slot)
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func formatDepths(depths []int) string {
	if len(depths) == 0 {
		return "-"
	}
	parts := make([]string, len(depths))
	for i, d := range depths {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

func init() {
	solvesListCmd.Flags().String("solver", "", "Filter by solver name (substring)")
	solvesListCmd.Flags().Float64("min-result", 0, "Minimum result in seconds")
	solvesListCmd.Flags().Float64("max-result", 0, "Maximum result in seconds")
	solvesListCmd.Flags().Int("limit", srs.DefaultSolveLimit, "Page size")
	solvesListCmd.Flags().Int("offset", 0, "Page offset")
	addJSONFlag(solvesListCmd)
	addJSONFlag(solvesShowCmd)

	solvesCmd.AddCommand(solvesListCmd)
	solvesCmd.AddCommand(solvesShowCmd)
}
