// Package github talks to the GitHub REST API: it lists the repositories a
// user has starred and looks up each repository's latest release.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL    = "https://api.github.com"
	DefaultAPIVersion = "2022-11-28"
)

// Getter is the transport capability the paginator and lookups depend on.
type Getter interface {
	Get(ctx context.Context, rawURL string) (status int, body []byte, err error)
}

// Repo is a starred repository. Only the key used for later lookups is kept.
type Repo struct {
	FullName string `json:"full_name"`
}

// Release is the subset of the latest-release payload the feed needs.
// Optional fields are pointers so "absent" and "empty" stay distinguishable.
type Release struct {
	TagName     string  `json:"tag_name"`
	Name        *string `json:"name"`
	HTMLURL     string  `json:"html_url"`
	PublishedAt *string `json:"published_at"`
	Body        *string `json:"body"`
}

type Options struct {
	BaseURL    string
	Token      string
	APIVersion string
	UserAgent  string
	Timeout    time.Duration
}

type Client struct {
	http    *http.Client
	baseURL string
	header  http.Header
}

func NewClient(opts Options) *Client {
	return NewClientWithHTTP(&http.Client{Timeout: opts.Timeout}, opts)
}

// NewClientWithHTTP lets tests supply an httptest server's client.
func NewClientWithHTTP(hc *http.Client, opts Options) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	if hc.Timeout == 0 {
		hc.Timeout = 10 * time.Second
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.APIVersion == "" {
		opts.APIVersion = DefaultAPIVersion
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "relfeed"
	}

	h := http.Header{}
	h.Set("Accept", "application/vnd.github+json")
	h.Set("X-GitHub-Api-Version", opts.APIVersion)
	h.Set("User-Agent", opts.UserAgent)
	if opts.Token != "" {
		h.Set("Authorization", "Bearer "+opts.Token)
	}

	return &Client{
		http:    hc,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		header:  h,
	}
}

// Get performs one GET with the client's headers. A non-2xx status is not an
// error here; callers decide whether it is fatal.
func (c *Client) Get(ctx context.Context, rawURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	for k, v := range c.header {
		req.Header[k] = v
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading body: %w", err)
	}
	return resp.StatusCode, body, nil
}

// Starred collects every repository the user has starred.
func (c *Client) Starred(ctx context.Context, username string, maxPages int) ([]Repo, error) {
	u := fmt.Sprintf("%s/users/%s/starred", c.baseURL, url.PathEscape(username))
	return Paginate[Repo](ctx, c, u, maxPages)
}

// LatestRelease fetches the latest published release of a repository.
func (c *Client) LatestRelease(ctx context.Context, fullName string) (*Release, error) {
	u := fmt.Sprintf("%s/repos/%s/releases/latest", c.baseURL, fullName)

	status, body, err := c.Get(ctx, u)
	if err != nil {
		return nil, &TransportError{URL: u, Err: err}
	}
	if !ok(status) {
		return nil, &TransportError{URL: u, Status: status}
	}

	var rel Release
	if err := json.Unmarshal(body, &rel); err != nil {
		return nil, fmt.Errorf("decoding release for %s: %w", fullName, err)
	}
	return &rel, nil
}

func ok(status int) bool {
	return status >= 200 && status < 300
}
