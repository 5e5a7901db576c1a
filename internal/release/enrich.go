package release

import (
	"context"
	"log/slog"

	"github.com/sysmike/relfeed/internal/github"
	"golang.org/x/sync/errgroup"
)

type Lookup interface {
	LatestRelease(ctx context.Context, fullName string) (*github.Release, error)
}

type Enricher struct {
	lookup  Lookup
	workers int
	logger  *slog.Logger
}

func NewEnricher(lookup Lookup, workers int, logger *slog.Logger) *Enricher {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{lookup: lookup, workers: workers, logger: logger}
}

// Enrich looks up the latest release of every repo and returns the successes
// in input order. A failed or timestamp-less lookup drops only that repo.
func (e *Enricher) Enrich(ctx context.Context, repos []github.Repo) []Record {
	outcomes := make([]Outcome, len(repos))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, repo := range repos {
		i := i
		name := repo.FullName
		g.Go(func() error {
			outcomes[i] = e.one(ctx, name)
			return nil
		})
	}
	g.Wait()

	records := make([]Record, 0, len(repos))
	for i, o := range outcomes {
		if !o.OK() {
			e.logger.Debug("skipping repo", "repo", repos[i].FullName, "reason", o.Miss)
			continue
		}
		records = append(records, o.Record)
	}
	return records
}

func (e *Enricher) one(ctx context.Context, fullName string) Outcome {
	rel, err := e.lookup.LatestRelease(ctx, fullName)
	if err != nil {
		return Outcome{Miss: err}
	}
	return FromAPI(fullName, rel)
}
