package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/crosstrainer/internal/scramble"
	"github.com/abhisek/crosstrainer/internal/server"
)

// dueRefreshInterval is how often the due-items gauge is recomputed.
const dueRefreshInterval = time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the REST API",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		srsSvc, err := e.srsService()
		if err != nil {
			return err
		}
		bank := e.scrambleBank()
		for m, n := range bank.Counts() {
			if n == 0 {
				e.logger.Warn("no scrambles loaded", "moves", m, "file", scramble.FileName(m))
			}
		}

		srv := server.New(e.cfg.Server, server.Deps{
			Practice:  e.practiceService(),
			SRS:       srsSvc,
			Stats:     e.statsService(),
			Scrambles: bank,
			Metrics:   e.metrics,
			Logger:    e.logger,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			e.logger.Info("listening", "addr", e.cfg.Server.Addr)
			if err := srv.Run(gctx); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			return srsSvc.WatchDue(gctx, dueRefreshInterval)
		})
		if err := g.Wait(); err != nil {
			return err
		}
		e.logger.Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default :11001)")
}
