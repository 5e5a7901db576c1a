package atom

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sysmike/relfeed/internal/release"
)

var fixedNow = time.Date(2024, 7, 1, 12, 30, 0, 0, time.FixedZone("CEST", 2*60*60))

func identity(s string) string { return s }

func sampleRecords() []release.Record {
	return []release.Record{
		{Source: "owner/c", Title: "Summer", Tag: "v2", URL: "https://github.com/owner/c/releases/tag/v2", PublishedAt: "2024-06-01T00:00:00Z", Body: "<p>C & friends</p>"},
		{Source: "owner/b", Title: "v1", Tag: "v1", URL: "https://github.com/owner/b/releases/tag/v1", PublishedAt: "2024-01-01T00:00:00Z"},
	}
}

func TestBuild(t *testing.T) {
	f := Build("My feed", "https://github.com/octocat/starred", fixedNow, sampleRecords(), identity)

	if f.Updated != "2024-07-01T10:30:00Z" {
		t.Errorf("expected UTC updated with Z suffix, got %q", f.Updated)
	}
	if len(f.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(f.Entries))
	}
	e := f.Entries[0]
	if e.Title != "owner/c – Summer" {
		t.Errorf("unexpected entry title %q", e.Title)
	}
	if e.Link.Href != "https://github.com/owner/c/releases/tag/v2" || e.ID != e.Link.Href {
		t.Errorf("link/id mismatch: %q %q", e.Link.Href, e.ID)
	}
	if e.Updated != "2024-06-01T00:00:00Z" {
		t.Errorf("unexpected entry updated %q", e.Updated)
	}
	if e.Content.Type != "html" {
		t.Errorf("expected content type html, got %q", e.Content.Type)
	}
}

func TestBuildUsesRenderer(t *testing.T) {
	var seen []string
	render := func(s string) string {
		seen = append(seen, s)
		return "<p>rendered</p>"
	}
	f := Build("t", "id", fixedNow, sampleRecords(), render)
	if len(seen) != 2 || seen[1] != "" {
		t.Errorf("renderer called with %q", seen)
	}
	if f.Entries[0].Content.Body != "<p>rendered</p>" {
		t.Errorf("unexpected content %q", f.Entries[0].Content.Body)
	}
}

func TestMarshalDocument(t *testing.T) {
	data, err := Marshal(Build("My feed", "urn:x", fixedNow, sampleRecords(), identity))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	out := string(data)

	if !strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Errorf("missing XML declaration: %q", out[:40])
	}
	if !strings.Contains(out, `<feed xmlns="http://www.w3.org/2005/Atom">`) {
		t.Error("missing Atom namespace on feed element")
	}
	if !strings.Contains(out, "\n  <title>My feed</title>") {
		t.Error("expected two-space indentation")
	}
	if !strings.Contains(out, `<link href="https://github.com/owner/c/releases/tag/v2"></link>`) {
		t.Error("missing entry link href")
	}
	if !strings.Contains(out, `<content type="html">&lt;p&gt;C &amp; friends&lt;/p&gt;</content>`) {
		t.Error("expected escaped HTML content")
	}
	if strings.Contains(out, "<p>C") {
		t.Error("content HTML leaked into the document structure")
	}
}

func TestMarshalParsesAsAtom(t *testing.T) {
	data, err := Marshal(Build("My feed", "urn:x", fixedNow, sampleRecords(), identity))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("gofeed parse: %v", err)
	}
	if parsed.FeedType != "atom" {
		t.Errorf("expected atom feed type, got %q", parsed.FeedType)
	}
	if parsed.Title != "My feed" {
		t.Errorf("unexpected title %q", parsed.Title)
	}
	if len(parsed.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(parsed.Items))
	}
	if parsed.Items[0].Title != "owner/c – Summer" {
		t.Errorf("unexpected first item title %q", parsed.Items[0].Title)
	}
	if !strings.Contains(parsed.Items[0].Content, "<p>C") {
		t.Errorf("content did not decode back to HTML: %q", parsed.Items[0].Content)
	}
}

func TestMarshalZeroEntries(t *testing.T) {
	data, err := Marshal(Build("Empty", "urn:empty", fixedNow, nil, identity))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var doc struct {
		XMLName xml.Name `xml:"feed"`
		Title   string   `xml:"title"`
		Updated string   `xml:"updated"`
		ID      string   `xml:"id"`
		Entries []struct {
			Title string `xml:"title"`
		} `xml:"entry"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("not well-formed: %v", err)
	}
	if doc.Title != "Empty" || doc.ID != "urn:empty" || doc.Updated == "" {
		t.Errorf("missing feed-level fields: %+v", doc)
	}
	if len(doc.Entries) != 0 {
		t.Errorf("expected no entries, got %d", len(doc.Entries))
	}
}

func TestMarshalTruncatedContentStaysWellFormed(t *testing.T) {
	// A fragment cut mid-tag is still plain text inside <content>
	records := []release.Record{{Source: "a/a", Title: "x", URL: "u", PublishedAt: "2024-01-01T00:00:00Z", Body: "<p>cut <a href=\"ht"}}
	data, err := Marshal(Build("t", "id", fixedNow, records, identity))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if _, err := gofeed.NewParser().Parse(bytes.NewReader(data)); err != nil {
		t.Fatalf("document with truncated fragment failed to parse: %v", err)
	}
}
