package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig string
	flagLimit  int
	flagOutput string
)

var rootCmd = &cobra.Command{
	Use:   "relfeed",
	Short: "Atom feed of releases from your starred GitHub repos",
	Long: `relfeed lists the repositories a GitHub user has starred, looks up the latest
release of each and writes the newest ones to an Atom feed.

Run it from cron or a systemd timer; every run rebuilds the feed from scratch.`,
	SilenceUsage: true,
	RunE:         runGenerate,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.Flags().IntVar(&flagLimit, "limit", 0, "max entries in the feed (overrides feed_limit)")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file (overrides output)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(statsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("relfeed %s (commit: %s, built: %s)\n", version, commit, date)
		if res := checkUpdate(cmd.Context()); res != nil {
			fmt.Println(warnStyle.Render(fmt.Sprintf("A newer version is available: %s (%s)", res.LatestVersion, res.URL)))
		}
	},
}

func Execute() {
	setupLogger(slog.LevelInfo)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

func setupLogger(level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
