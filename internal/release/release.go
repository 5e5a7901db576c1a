package release

import (
	"errors"

	"github.com/sysmike/relfeed/internal/github"
)

var ErrNoTimestamp = errors.New("release has no published_at")

// Record is one repository's latest release, ready for ranking.
type Record struct {
	Source      string
	Tag         string
	Title       string
	URL         string
	PublishedAt string
	Body        string
}

// Outcome is the result of one lookup: a Record, or the reason it was missed.
type Outcome struct {
	Record Record
	Miss   error
}

func (o Outcome) OK() bool {
	return o.Miss == nil
}

// FromAPI maps a latest-release payload to a Record. Releases without a
// publication timestamp are misses.
func FromAPI(source string, rel *github.Release) Outcome {
	if rel == nil || rel.PublishedAt == nil || *rel.PublishedAt == "" {
		return Outcome{Miss: ErrNoTimestamp}
	}

	title := rel.TagName
	if rel.Name != nil && *rel.Name != "" {
		title = *rel.Name
	}
	var body string
	if rel.Body != nil {
		body = *rel.Body
	}

	return Outcome{Record: Record{
		Source:      source,
		Tag:         rel.TagName,
		Title:       title,
		URL:         rel.HTMLURL,
		PublishedAt: *rel.PublishedAt,
		Body:        body,
	}}
}
