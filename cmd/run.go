package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/crosstrainer/internal/app"
	"github.com/abhisek/crosstrainer/internal/practice"
	"github.com/abhisek/crosstrainer/internal/scramble"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Start the terminal cross trainer",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func init() {
	addTrainerFlags(practiceCmd)
}

// addTrainerFlags registers the initial trainer settings on cmd.
func addTrainerFlags(cmd *cobra.Command) {
	def := practice.DefaultSettings()
	cmd.Flags().Int("moves", def.Difficulty, "Optimal cross length of served scrambles (1-7)")
	cmd.Flags().Int("pairs", def.PairsAttempting, "Pairs to plan during inspection (0-4)")
	cmd.Flags().String("color", def.CrossColor, "Cross color")
	cmd.Flags().Duration("inspection", 0, "Inspection limit, e.g. 15s (0 for unlimited)")
}

// trainerSettings reads and validates the trainer flags of cmd.
func trainerSettings(cmd *cobra.Command) (practice.Settings, error) {
	s := practice.DefaultSettings()
	s.Difficulty, _ = cmd.Flags().GetInt("moves")
	s.PairsAttempting, _ = cmd.Flags().GetInt("pairs")
	s.InspectionLimit, _ = cmd.Flags().GetDuration("inspection")
	color, _ := cmd.Flags().GetString("color")

	if s.Difficulty < scramble.MinMoves || s.Difficulty > scramble.MaxMoves {
		return s, fmt.Errorf("--moves must be between %d and %d", scramble.MinMoves, scramble.MaxMoves)
	}
	if s.PairsAttempting < 0 || s.PairsAttempting > 4 {
		return s, fmt.Errorf("--pairs must be between 0 and 4")
	}
	if s.InspectionLimit < 0 {
		return s, fmt.Errorf("--inspection must not be negative")
	}
	c, err := scramble.NormalizeColor(color)
	if err != nil {
		return s, fmt.Errorf("--color: %w", err)
	}
	s.CrossColor = c
	s.InspectionLimit = s.InspectionLimit.Round(time.Second)
	return s, nil
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	settings, err := trainerSettings(cmd)
	if err != nil {
		return err
	}
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	bank := e.scrambleBank()
	if bank.Count(settings.Difficulty) == 0 {
		return fmt.Errorf("no %d-move scrambles found in %s (expected %s)",
			settings.Difficulty, e.cfg.ScramblesDir, scramble.FileName(settings.Difficulty))
	}

	opts := app.Options{
		Recorder:  e.practiceService(),
		Scrambles: bank,
		Settings:  settings,
	}
	svc, err := e.srsService()
	if err != nil {
		e.logger.Warn("SRS review unavailable", "error", err)
	} else {
		opts.Reviewer = svc
	}
	return app.Run(opts)
}
