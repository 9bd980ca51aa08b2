// Package edgar retrieves company data from SEC EDGAR: the ticker registry,
// filing submissions, XBRL companyfacts and the company Atom filing feed.
//
// No API key required. Every request must carry a User-Agent identifying
// the requester per SEC policy, and requests are paced to stay well under
// the fair-access limit of 10 requests/second.
// Docs: https://www.sec.gov/edgar/sec-api-documentation
package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/seenimoa/secdcf/internal/infra"
)

const (
	defaultDataURL    = "https://data.sec.gov"
	defaultTickersURL = "https://www.sec.gov/files/company_tickers.json"
	defaultFeedURL    = "https://www.sec.gov/cgi-bin/browse-edgar"
	defaultUserAgent  = "secdcf/1.0 (contact@example.com)"
	defaultDelay      = 200 * time.Millisecond
)

// Client talks to the SEC EDGAR JSON and Atom endpoints.
type Client struct {
	dataURL    string
	tickersURL string
	feedURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     arbor.ILogger
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithDataURL overrides the data.sec.gov base URL.
func WithDataURL(url string) ClientOption {
	return func(c *Client) { c.dataURL = url }
}

// WithTickersURL overrides the company_tickers.json location.
func WithTickersURL(url string) ClientOption {
	return func(c *Client) { c.tickersURL = url }
}

// WithFeedURL overrides the browse-edgar Atom endpoint.
func WithFeedURL(url string) ClientOption {
	return func(c *Client) { c.feedURL = url }
}

// WithUserAgent sets the SEC contact User-Agent.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = client }
}

// WithRequestDelay sets the constant pause between requests.
func WithRequestDelay(d time.Duration) ClientOption {
	return func(c *Client) { c.limiter = infra.NewPacer(d) }
}

// WithLogger sets the logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates an EDGAR client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		dataURL:    defaultDataURL,
		tickersURL: defaultTickersURL,
		feedURL:    defaultFeedURL,
		userAgent:  defaultUserAgent,
		httpClient: infra.NewHTTPClient(30 * time.Second),
		limiter:    infra.NewPacer(defaultDelay),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = infra.OrNoOp(c.logger)
	return c
}

// SubmissionsURL returns the submissions document URL for a padded CIK.
func (c *Client) SubmissionsURL(cik string) string {
	return fmt.Sprintf("%s/submissions/CIK%s.json", c.dataURL, cik)
}

// CompanyFactsURL returns the companyfacts document URL for a padded CIK.
func (c *Client) CompanyFactsURL(cik string) string {
	return fmt.Sprintf("%s/api/xbrl/companyfacts/CIK%s.json", c.dataURL, cik)
}

// FetchSubmissions downloads the filing history for a CIK.
func (c *Client) FetchSubmissions(ctx context.Context, cik string) (*Submissions, error) {
	var subs Submissions
	if err := c.getJSON(ctx, c.SubmissionsURL(cik), &subs); err != nil {
		return nil, err
	}
	return &subs, nil
}

// FetchFacts downloads the XBRL companyfacts document for a CIK.
func (c *Client) FetchFacts(ctx context.Context, cik string) (*CompanyFacts, error) {
	var facts CompanyFacts
	if err := c.getJSON(ctx, c.CompanyFactsURL(cik), &facts); err != nil {
		return nil, err
	}
	return &facts, nil
}

// --- Shared helpers ---

func (c *Client) headers(accept string) map[string]string {
	return map[string]string{
		"User-Agent": c.userAgent,
		"Accept":     accept,
	}
}

// get performs one paced GET and returns the body. Failures are *RetrievalError.
func (c *Client) get(ctx context.Context, url, accept string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &RetrievalError{URL: url, Err: err}
	}

	c.logger.Debug().Str("url", url).Msg("EDGAR request")

	body, status, err := infra.DoGet(ctx, c.httpClient, url, c.headers(accept))
	if err != nil {
		return nil, &RetrievalError{URL: url, StatusCode: status, Err: err}
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, &RetrievalError{URL: url, StatusCode: status, Err: fmt.Errorf("read body: %w", err)}
	}
	return data, nil
}

// getJSON performs a paced GET and decodes the JSON body into dest.
func (c *Client) getJSON(ctx context.Context, url string, dest any) error {
	data, err := c.get(ctx, url, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return &RetrievalError{URL: url, StatusCode: http.StatusOK, Err: fmt.Errorf("parse JSON: %w", err)}
	}
	return nil
}
