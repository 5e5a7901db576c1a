package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// PerPage is the GitHub maximum; fewer round trips per listing.
const PerPage = 100

// Paginate walks a numbered-page listing until a page comes back empty and
// returns every item in request order. The first failed page aborts the walk
// with no partial result. maxPages caps the walk when > 0.
func Paginate[T any](ctx context.Context, g Getter, baseURL string, maxPages int) ([]T, error) {
	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}

	var all []T
	for page := 1; ; page++ {
		if maxPages > 0 && page > maxPages {
			slog.Warn("page ceiling reached, listing may be incomplete", "url", baseURL, "max_pages", maxPages)
			return all, nil
		}

		u := fmt.Sprintf("%s%sper_page=%d&page=%d", baseURL, sep, PerPage, page)
		status, body, err := g.Get(ctx, u)
		if err != nil {
			return nil, &TransportError{URL: u, Err: err}
		}
		if !ok(status) {
			return nil, &TransportError{URL: u, Status: status}
		}

		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("decoding page %d of %s: %w", page, baseURL, err)
		}
		if len(items) == 0 {
			return all, nil
		}
		all = append(all, items...)
		slog.Debug("fetched page", "url", baseURL, "page", page, "items", len(items))
	}
}
