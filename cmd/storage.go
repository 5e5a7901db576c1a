package cmd

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/sysmike/relfeed/internal/history"
)

var flagPruneOlderThan string

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old entries from the run history",
	Long: `Delete recorded runs older than the given age and reclaim disk space.

The history only holds run counts for the stats command; feeds are never
stored and pruning has no effect on what the next run generates.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		retention, err := parseSince(flagPruneOlderThan)
		if err != nil {
			return fmt.Errorf("invalid --older-than value: %w", err)
		}

		db, err := history.Open(historyPath())
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		defer db.Close()

		deleted, err := db.Prune(retention)
		if err != nil {
			return fmt.Errorf("pruning: %w", err)
		}

		if deleted == 0 {
			fmt.Println("Nothing to prune.")
		} else {
			fmt.Printf("Pruned %d run(s) older than %s.\n", deleted, formatDuration(retention))
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show run history statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := historyPath()
		db, err := history.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		defer db.Close()

		count, size, err := db.Stats(dbPath)
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		fmt.Printf("History: %s\n", dbPath)
		fmt.Printf("Runs: %d\n", count)
		fmt.Printf("Size: %s\n", humanize.Bytes(uint64(size)))

		runs, err := db.Recent(5)
		if err != nil {
			return fmt.Errorf("reading runs: %w", err)
		}
		if len(runs) > 0 {
			fmt.Println()
		}
		for _, r := range runs {
			fmt.Println(formatRun(r))
		}
		return nil
	},
}

func init() {
	pruneCmd.Flags().StringVar(&flagPruneOlderThan, "older-than", "30d", "age of runs to delete (e.g., 30d, 720h)")
}

func formatRun(r history.Run) string {
	when := dimStyle.Render(humanize.Time(r.StartedAt))
	if !r.OK() {
		return fmt.Sprintf("%s  %s %s", when, warnStyle.Render("failed:"), r.Err)
	}
	return fmt.Sprintf("%s  %d sources, %d releases, %d entries -> %s",
		when, r.Sources, r.Releases, r.Entries, r.Output)
}

func parseSince(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}
