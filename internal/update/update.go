package update

import (
	"context"
	"strings"
	"time"

	"github.com/sysmike/relfeed/internal/github"
)

// Repo is where relfeed itself publishes releases.
const Repo = "sysmike/relfeed"

// Result holds the outcome of a version check.
type Result struct {
	LatestVersion string
	URL           string
}

type Lookup interface {
	LatestRelease(ctx context.Context, fullName string) (*github.Release, error)
}

// Check asks GitHub whether a newer relfeed release exists.
// Returns nil on any error (non-fatal).
func Check(ctx context.Context, lookup Lookup, currentVersion string) *Result {
	current := strings.TrimPrefix(currentVersion, "v")
	if current == "" || current == "dev" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rel, err := lookup.LatestRelease(ctx, Repo)
	if err != nil || rel == nil {
		return nil
	}

	latest := strings.TrimPrefix(rel.TagName, "v")
	if latest == "" || latest == current {
		return nil
	}

	return &Result{LatestVersion: latest, URL: rel.HTMLURL}
}
