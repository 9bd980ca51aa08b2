// Package price looks up the prior daily close of a ticker from Stooq's
// keyless CSV endpoint. Lookups are best effort: every failure is reported
// as "unavailable" rather than as an error.
package price

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/seenimoa/secdcf/internal/infra"
	"github.com/seenimoa/secdcf/pkg/utils"
)

const (
	defaultBaseURL = "https://stooq.com/q/d/l/"
	defaultSuffix  = "US"
)

// Client fetches daily bars from Stooq.
type Client struct {
	baseURL    string
	suffix     string
	httpClient *http.Client
	logger     arbor.ILogger
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL overrides the Stooq CSV endpoint.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// WithCountrySuffix sets the market suffix tried first (e.g. "US" for AAPL.US).
func WithCountrySuffix(s string) ClientOption {
	return func(c *Client) { c.suffix = s }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = client }
}

// WithLogger sets the logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a Stooq price client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		suffix:     defaultSuffix,
		httpClient: infra.NewHTTPClient(10 * time.Second),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = infra.OrNoOp(c.logger)
	return c
}

// Candidates returns the symbols tried for ticker, in order.
func (c *Client) Candidates(ticker string) []string {
	t := utils.NormalizeTicker(ticker)
	if t == "" {
		return nil
	}
	var out []string
	if !utils.IsClassTicker(t) && c.suffix != "" {
		out = append(out, t+"."+strings.ToUpper(c.suffix))
	}
	return append(out, t)
}

// PriorClose returns the most recent close for ticker. ok is false when no
// candidate symbol yields a parsable price.
func (c *Client) PriorClose(ctx context.Context, ticker string) (price float64, ok bool) {
	for _, sym := range c.Candidates(ticker) {
		p, err := c.fetchClose(ctx, sym)
		if err != nil {
			c.logger.Debug().Err(err).Str("symbol", sym).Msg("Stooq price unavailable")
			continue
		}
		c.logger.Debug().Str("symbol", sym).Str("close", strconv.FormatFloat(p, 'f', -1, 64)).Msg("Stooq prior close")
		return p, true
	}
	return 0, false
}

func (c *Client) fetchClose(ctx context.Context, symbol string) (float64, error) {
	u := c.baseURL + "?" + url.Values{"s": {strings.ToLower(symbol)}, "i": {"d"}}.Encode()

	body, _, err := infra.DoGet(ctx, c.httpClient, u, map[string]string{"Accept": "text/csv"})
	if err != nil {
		return 0, err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, 8<<20))
	if err != nil {
		return 0, err
	}
	return ParseLastClose(string(data))
}
