// Package render turns release notes written in GitHub-flavoured markdown
// into an HTML fragment that is safe to embed in a feed entry.
package render

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const (
	// MaxLen bounds the rendered fragment, in characters.
	MaxLen = 5000

	TruncatedMarker = "<p>... (truncated)</p>"
)

var (
	md     = goldmark.New(goldmark.WithExtensions(extension.GFM))
	policy = bluemonday.UGCPolicy()
)

// Markdown renders src and bounds the result to MaxLen characters. It never
// fails: empty input gives an empty fragment. The cut is made on the rendered
// HTML, so it can land inside a tag.
func Markdown(src string) string {
	return truncate(toHTML(src), MaxLen)
}

func toHTML(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "<p>" + html.EscapeString(src) + "</p>"
	}
	return policy.Sanitize(buf.String())
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + TruncatedMarker
}
