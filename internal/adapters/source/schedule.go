package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/okian/toto/internal/domain/model"
)

// Default scraping configuration constants.
const (
	defaultScheduleTimeout = 15 * time.Second
	maxScheduleBodyBytes   = 4 << 20
	defaultRowClass        = "match-row"
	defaultHomeClass       = "home-team"
	defaultAwayClass       = "away-team"
)

// ScheduleOption applies a configuration option to the ScheduleSource.
type ScheduleOption func(*ScheduleSource)

// WithHTTPClient sets the client used to fetch the page.
func WithHTTPClient(c *http.Client) ScheduleOption {
	return func(s *ScheduleSource) {
		if c != nil {
			s.client = c
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ScheduleOption {
	return func(s *ScheduleSource) {
		if d > 0 {
			s.client = &http.Client{Timeout: d}
		}
	}
}

// WithSelectors overrides the CSS classes of the fixture row and the two
// team cells.
func WithSelectors(row, home, away string) ScheduleOption {
	return func(s *ScheduleSource) {
		if row != "" && home != "" && away != "" {
			s.rowClass, s.homeClass, s.awayClass = row, home, away
		}
	}
}

// ScheduleSource scrapes the weekly slate from an HTML page: one
// tr.match-row per fixture with .home-team and .away-team cells.
type ScheduleSource struct {
	url       string
	client    *http.Client
	rowClass  string
	homeClass string
	awayClass string
}

// NewScheduleSource creates a ScheduleSource for url.
func NewScheduleSource(url string, opts ...ScheduleOption) *ScheduleSource {
	s := &ScheduleSource{
		url:       url,
		client:    &http.Client{Timeout: defaultScheduleTimeout},
		rowClass:  defaultRowClass,
		homeClass: defaultHomeClass,
		awayClass: defaultAwayClass,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Matches implements Source.
func (s *ScheduleSource) Matches(ctx context.Context) ([]model.Match, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScheduleUnreachable, err)
	}
	req.Header.Set("Accept", "text/html")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScheduleUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", ErrScheduleUnreachable, s.url, resp.Status)
	}
	return s.Parse(io.LimitReader(resp.Body, maxScheduleBodyBytes))
}

// Parse extracts the slate from an HTML document.
func (s *ScheduleSource) Parse(r io.Reader) ([]model.Match, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScheduleMismatch, err)
	}
	var matches []model.Match
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" && hasClass(n, s.rowClass) {
			home := findByClass(n, s.homeClass)
			away := findByClass(n, s.awayClass)
			if home != nil && away != nil {
				matches = append(matches, model.Match{Home: text(home), Away: text(away)})
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if len(matches) != model.SlateSize {
		return nil, fmt.Errorf("%w: found %d matches, want %d", ErrScheduleMismatch, len(matches), model.SlateSize)
	}
	return matches, nil
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func findByClass(n *html.Node, class string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && hasClass(c, class) {
			return c
		}
		if found := findByClass(c, class); found != nil {
			return found
		}
	}
	return nil
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
