// Package atom builds and serializes the Atom document relfeed publishes.
package atom

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/sysmike/relfeed/internal/release"
)

const (
	Namespace  = "http://www.w3.org/2005/Atom"
	TimeFormat = "2006-01-02T15:04:05Z"
)

type Feed struct {
	XMLName xml.Name `xml:"http://www.w3.org/2005/Atom feed"`
	Title   string   `xml:"title"`
	Updated string   `xml:"updated"`
	ID      string   `xml:"id"`
	Entries []Entry  `xml:"entry"`
}

type Entry struct {
	Title   string  `xml:"title"`
	Link    Link    `xml:"link"`
	ID      string  `xml:"id"`
	Updated string  `xml:"updated"`
	Content Content `xml:"content"`
}

type Link struct {
	Href string `xml:"href,attr"`
}

type Content struct {
	Type string `xml:"type,attr"`
	Body string `xml:",chardata"`
}

// Build assembles a feed with one entry per record, in the given order.
// render converts each record's markdown body into the entry's HTML content.
func Build(title, id string, updated time.Time, records []release.Record, render func(string) string) *Feed {
	f := &Feed{
		Title:   title,
		Updated: updated.UTC().Format(TimeFormat),
		ID:      id,
		Entries: make([]Entry, 0, len(records)),
	}
	for _, r := range records {
		f.Entries = append(f.Entries, Entry{
			Title:   fmt.Sprintf("%s – %s", r.Source, r.Title),
			Link:    Link{Href: r.URL},
			ID:      r.URL,
			Updated: r.PublishedAt,
			Content: Content{Type: "html", Body: render(r.Body)},
		})
	}
	return f
}

// WriteTo writes the feed as an indented UTF-8 document with an XML declaration.
func (f *Feed) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(f); err != nil {
		return 0, fmt.Errorf("encoding feed: %w", err)
	}
	buf.WriteByte('\n')
	return buf.WriteTo(w)
}

func Marshal(f *Feed) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
