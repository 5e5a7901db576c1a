package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/sysmike/relfeed/internal/scheduler"
)

var (
	flagSchedule string
	flagNow      bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate the feed on a schedule",
	Long: `Stay in the foreground and regenerate the feed on the configured cron
schedule (default @hourly). Each run starts from scratch; a failed run keeps
the previous file and waits for the next tick.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if flagSchedule != "" {
			cfg.Schedule = flagSchedule
		}
		if err := scheduler.Validate(cfg.Schedule); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		run := func() {
			runCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
			defer cancel()
			if err := generate(runCtx, cfg, os.Stdout); err != nil {
				slog.Error("feed generation failed", "error", err)
			}
		}

		if flagNow {
			run()
		}

		s := scheduler.New(time.Local)
		if err := s.Schedule(cfg.Schedule, run); err != nil {
			return err
		}
		s.Start()
		fmt.Printf("Watching, next run at %s. Press Ctrl+C to stop.\n", s.Next().Format(time.RFC3339))

		<-ctx.Done()
		slog.Info("stopping, waiting for a running generation to finish")
		<-s.Stop().Done()
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVar(&flagSchedule, "schedule", "", "cron schedule (overrides schedule, e.g. \"*/30 * * * *\")")
	watchCmd.Flags().BoolVar(&flagNow, "now", false, "run once immediately before waiting for the schedule")
}
