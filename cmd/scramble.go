package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/crosstrainer/internal/config"
	"github.com/abhisek/crosstrainer/internal/logging"
	"github.com/abhisek/crosstrainer/internal/scramble"
)

var scrambleCmd = &cobra.Command{
	Use:   "scramble",
	Short: "Print random scrambles with a given optimal cross length",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
		bank := scramble.Load(cfg.ScramblesDir, logger)

		out := cmd.OutOrStdout()
		if counts, _ := cmd.Flags().GetBool("counts"); counts {
			return printCounts(cmd, cfg, bank)
		}

		moves, _ := cmd.Flags().GetInt("moves")
		count, _ := cmd.Flags().GetInt("count")
		color, _ := cmd.Flags().GetString("color")
		scrambles, err := bank.Random(moves, count, color)
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			return printJSON(out, scrambles)
		}
		for _, s := range scrambles {
			fmt.Fprintln(out, s.Scramble)
		}
		return nil
	},
}

func printCounts(cmd *cobra.Command, cfg config.Config, bank *scramble.Bank) error {
	out := cmd.OutOrStdout()
	counts := bank.Counts()
	if wantJSON(cmd) {
		return printJSON(out, counts)
	}
	fmt.Fprintf(out, "%-6s  %-20s  %s\n", "Moves", "File", "Scrambles")
	printRule(out, 40)
	for m := scramble.MinMoves; m <= scramble.MaxMoves; m++ {
		fmt.Fprintf(out, "%-6d  %-20s  %d\n", m, scramble.FileName(m), counts[m])
	}
	fmt.Fprintf(out, "\nfrom %s\n", cfg.ScramblesDir)
	return nil
}

func init() {
	scrambleCmd.Flags().Int("moves", 3, "Optimal cross length (1-7)")
	scrambleCmd.Flags().Int("count", 1, "Number of scrambles (1-100)")
	scrambleCmd.Flags().String("color", scramble.DefaultColor, "Cross color")
	scrambleCmd.Flags().Bool("counts", false, "Show how many scrambles are loaded per difficulty")
	addJSONFlag(scrambleCmd)
}
