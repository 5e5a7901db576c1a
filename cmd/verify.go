package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mmcdole/gofeed"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [file]",
	Short: "Check that a generated feed parses as Atom",
	Long:  "Parse a feed written by relfeed and list its entries. Defaults to the configured output file.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		} else {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			path = cfg.Output
		}
		return verify(path, os.Stdout)
	},
}

func verify(path string, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening feed: %w", err)
	}
	defer f.Close()

	feed, err := gofeed.NewParser().Parse(f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	if feed.FeedType != "atom" {
		return fmt.Errorf("%s is a %s feed, expected atom", path, feed.FeedType)
	}

	fmt.Fprintf(out, "%s\n", feed.Title)
	fmt.Fprintf(out, "%s\n", dimStyle.Render("updated "+feed.Updated))
	fmt.Fprintf(out, "%d entries\n", len(feed.Items))
	for _, item := range feed.Items {
		fmt.Fprintf(out, "  %s  %s\n", dimStyle.Render(item.Updated), item.Title)
	}
	return nil
}
