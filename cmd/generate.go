package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/sysmike/relfeed/internal/config"
	"github.com/sysmike/relfeed/internal/github"
	"github.com/sysmike/relfeed/internal/history"
	"github.com/sysmike/relfeed/internal/metrics"
	"github.com/sysmike/relfeed/internal/pipeline"
	"github.com/sysmike/relfeed/internal/update"
)

// historyPath is swapped out by tests.
var historyPath = config.HistoryPath

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return generate(cmd.Context(), cfg, os.Stdout)
}

// loadConfig loads the config file, applies flag overrides and sets the log level.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if f := cmd.Flags().Lookup("limit"); f != nil && f.Changed {
		cfg.FeedLimit = flagLimit
	}
	if f := cmd.Flags().Lookup("output"); f != nil && f.Changed {
		cfg.Output = flagOutput
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	setupLogger(cfg.Level())
	return cfg, nil
}

func newClient(cfg *config.Config) *github.Client {
	return github.NewClient(github.Options{
		BaseURL:    cfg.APIBase,
		Token:      cfg.Token(),
		APIVersion: cfg.APIVersion,
		UserAgent:  "relfeed/" + version,
		Timeout:    cfg.TimeoutDuration(),
	})
}

// generate runs the pipeline once and writes the feed. On error no output
// file is touched.
func generate(ctx context.Context, cfg *config.Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	runner := pipeline.New(newClient(cfg), pipeline.Options{
		Username:    cfg.SourceUsername,
		Title:       cfg.Title(),
		ID:          cfg.ID(),
		Limit:       cfg.FeedLimit,
		Concurrency: cfg.Concurrency,
		MaxPages:    cfg.MaxPages,
	}, out, slog.Default())

	res, err := runner.Run(ctx)
	if err == nil {
		if err = pipeline.WriteFile(cfg.Output, res.Feed); err == nil {
			fmt.Fprintln(out, okStyle.Render(fmt.Sprintf("Feed saved to '%s'", cfg.Output)))
		}
	}

	recordRun(cfg, start, res, err, out)
	return err
}

// recordRun writes the run ledger and metrics. Failures here are warnings only.
func recordRun(cfg *config.Config, start time.Time, res pipeline.Result, runErr error, out io.Writer) {
	finished := time.Now()

	if cfg.MetricsFile != "" {
		m := metrics.New()
		m.Observe(res.Sources, res.Releases, res.Entries, finished.Sub(start), runErr)
		if err := m.WriteFile(cfg.MetricsFile); err != nil {
			slog.Warn("writing metrics", "error", err)
			fmt.Fprintf(out, "  %s %v\n", warnStyle.Render("[warn]"), err)
		}
	}

	if !cfg.History {
		return
	}
	store, err := history.Open(historyPath())
	if err != nil {
		slog.Warn("opening history", "error", err)
		return
	}
	defer store.Close()

	run := history.Run{
		StartedAt:  start,
		FinishedAt: finished,
		Sources:    res.Sources,
		Releases:   res.Releases,
		Entries:    res.Entries,
		Output:     cfg.Output,
	}
	if runErr != nil {
		run.Err = runErr.Error()
	}
	if _, err := store.Record(run); err != nil {
		slog.Warn("recording run", "error", err)
	}
}

func checkUpdate(ctx context.Context) *update.Result {
	if ctx == nil {
		ctx = context.Background()
	}
	client := github.NewClient(github.Options{
		Token:     os.Getenv("GITHUB_TOKEN"),
		UserAgent: "relfeed/" + version,
		Timeout:   5 * time.Second,
	})
	return update.Check(ctx, client, version)
}
