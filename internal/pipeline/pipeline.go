// Package pipeline wires the stages together: list starred repos, look up
// their latest releases, rank them and build the Atom document.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/sysmike/relfeed/internal/atom"
	"github.com/sysmike/relfeed/internal/github"
	"github.com/sysmike/relfeed/internal/release"
	"github.com/sysmike/relfeed/internal/render"
)

type Source interface {
	Starred(ctx context.Context, username string, maxPages int) ([]github.Repo, error)
	release.Lookup
}

type Options struct {
	Username    string
	Title       string
	ID          string
	Limit       int
	Concurrency int
	MaxPages    int
}

type Result struct {
	Sources  int
	Releases int
	Entries  int
	Feed     *atom.Feed
}

type Runner struct {
	src    Source
	opts   Options
	out    io.Writer
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Runner. Progress lines go to out; nil discards them.
func New(src Source, opts Options, out io.Writer, logger *slog.Logger) *Runner {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{src: src, opts: opts, out: out, logger: logger, now: time.Now}
}

// Run executes one full pass. An error means the listing failed and no feed
// was produced; lookup failures only shrink the feed.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	fmt.Fprintln(r.out, "Fetching starred repositories...")
	repos, err := r.src.Starred(ctx, r.opts.Username, r.opts.MaxPages)
	if err != nil {
		return Result{}, fmt.Errorf("fetching starred repos: %w", err)
	}
	fmt.Fprintf(r.out, "Found %d starred repositories.\n", len(repos))

	fmt.Fprintln(r.out, "Fetching releases from starred repos...")
	records := release.NewEnricher(r.src, r.opts.Concurrency, r.logger).Enrich(ctx, repos)
	r.logger.Info("releases looked up", "repos", len(repos), "found", len(records), "skipped", len(repos)-len(records))

	selected := release.Select(records, r.opts.Limit)
	fmt.Fprintf(r.out, "Found %d latest releases.\n", len(selected))

	feed := atom.Build(r.opts.Title, r.opts.ID, r.now(), selected, render.Markdown)
	return Result{
		Sources:  len(repos),
		Releases: len(records),
		Entries:  len(feed.Entries),
		Feed:     feed,
	}, nil
}

// WriteFile writes the feed next to path and renames it into place, so a
// failed write never leaves a partial file behind.
func WriteFile(path string, feed *atom.Feed) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".relfeed-*.xml")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := feed.WriteTo(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("moving feed into place: %w", err)
	}
	return nil
}
