// Package riksdagen is the HTTP client for the Riksdagen open-data API:
// the paginated listing endpoints (dokumentlista, anforandelista) and
// the per-document body endpoints (HTML and PDF renderings).
//
// The API tolerates only gentle paging, so all requests, listing and
// body alike, share one token-bucket rate limiter: one in-flight
// request at a time with a small global delay between requests.
package riksdagen

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/partikollen/partikollen/internal/core/domain"
	"github.com/partikollen/partikollen/internal/core/ports/driven"
)

// Ensure Client implements both outbound ports.
var (
	_ driven.ListingClient  = (*Client)(nil)
	_ driven.DocumentClient = (*Client)(nil)
)

// Default configuration values.
const (
	// DefaultBaseURL is the public open-data host.
	DefaultBaseURL = "https://data.riksdagen.se"

	// DefaultTimeout bounds every single request.
	DefaultTimeout = 30 * time.Second

	// DefaultPageSize matches the page size the original ingestion
	// scripts settled on.
	DefaultPageSize = 20

	// DefaultRate is the proactive throttle in requests per second.
	DefaultRate = 2.0

	userAgent = "partikollen (corpus ingestion; github.com/partikollen/partikollen)"
)

// Config holds client configuration.
type Config struct {
	// BaseURL is the API host (default: https://data.riksdagen.se).
	BaseURL string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// RequestsPerSecond is the global throttle (default: 2).
	RequestsPerSecond float64

	// HTTPClient overrides the HTTP client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client fetches listing pages and document bodies.
type Client struct {
	http    *http.Client
	baseURL string
	limiter *rate.Limiter
}

// NewClient creates a new API client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRate
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		http:    httpClient,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

// FetchPage fetches one page of listing entries for a query.
// An empty slice with a nil error means the listing is exhausted or the
// response lacked the expected wrapper.
func (c *Client) FetchPage(ctx context.Context, q driven.ListingQuery) ([]domain.ListingEntry, error) {
	body, err := c.get(ctx, c.listingURL(q))
	if err != nil {
		return nil, err
	}

	var envelope listingEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode listing page %d: %w", q.Page, err)
	}

	if q.Category == domain.CategoryDebate {
		if envelope.SpeechList == nil {
			return nil, nil
		}
		entries := make([]domain.ListingEntry, 0, len(envelope.SpeechList.Speeches))
		for _, s := range envelope.SpeechList.Speeches {
			entries = append(entries, s.toEntry())
		}
		return entries, nil
	}

	if envelope.DocumentList == nil {
		return nil, nil
	}
	entries := make([]domain.ListingEntry, 0, len(envelope.DocumentList.Documents))
	for _, d := range envelope.DocumentList.Documents {
		entries = append(entries, d.toEntry())
	}
	return entries, nil
}

// FetchHTML fetches the HTML rendering of an entry's body.
func (c *Client) FetchHTML(ctx context.Context, entry domain.ListingEntry) ([]byte, error) {
	u := entry.BodyURL
	if u == "" {
		u = c.baseURL + "/dokument/" + url.PathEscape(entry.ID) + ".html"
	}
	return c.get(ctx, u)
}

// FetchPDF fetches the PDF rendering at the parallel URL pattern.
func (c *Client) FetchPDF(ctx context.Context, entry domain.ListingEntry) ([]byte, error) {
	u := entry.BodyURL
	if u != "" && strings.HasSuffix(u, ".html") {
		u = strings.TrimSuffix(u, ".html") + ".pdf"
	} else {
		u = c.baseURL + "/dokument/" + url.PathEscape(entry.ID) + ".pdf"
	}
	return c.get(ctx, u)
}

// listingURL builds the listing request URL for a query.
func (c *Client) listingURL(q driven.ListingQuery) string {
	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}

	values := url.Values{}
	values.Set("utformat", "json")
	values.Set("sz", strconv.Itoa(size))
	values.Set("p", strconv.Itoa(q.Page))
	if q.Riksmote != "" {
		values.Set("rm", q.Riksmote)
	}
	if q.From != "" {
		values.Set("from", q.From)
	}
	if q.To != "" {
		values.Set("tom", q.To)
	}
	if q.NewestFirst {
		values.Set("sort", "datum")
		values.Set("sortorder", "desc")
	}

	if q.Category == domain.CategoryDebate {
		return c.baseURL + "/anforandelista/?" + values.Encode()
	}
	values.Set("doktyp", q.Category.DokTyp())
	return c.baseURL + "/dokumentlista/?" + values.Encode()
}

// get performs one throttled GET request.
func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", u, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", u, err)
	}
	return body, nil
}
