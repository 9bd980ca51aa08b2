package edgar

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/secdcf/internal/edgar/edgartest"
)

const testUA = "secdcf-test qa@example.com"

func newTestClient(srv *edgartest.Server, opts ...ClientOption) *Client {
	base := []ClientOption{
		WithDataURL(srv.DataURL()),
		WithTickersURL(srv.TickersURL()),
		WithFeedURL(srv.FeedURL()),
		WithHTTPClient(srv.Client()),
		WithUserAgent(testUA),
		WithRequestDelay(0),
	}
	return NewClient(append(base, opts...)...)
}

func TestClientURLs(t *testing.T) {
	c := NewClient()
	assert.Equal(t, "https://data.sec.gov/submissions/CIK0000320193.json", c.SubmissionsURL("0000320193"))
	assert.Equal(t, "https://data.sec.gov/api/xbrl/companyfacts/CIK0000320193.json", c.CompanyFactsURL("0000320193"))
	assert.Contains(t, c.FeedURL("0000320193"), "https://www.sec.gov/cgi-bin/browse-edgar?")
	assert.Contains(t, c.FeedURL("0000320193"), "CIK=0000320193")
	assert.Contains(t, c.FeedURL("0000320193"), "output=atom")
}

func TestFetchSubmissionsAndFacts(t *testing.T) {
	srv := edgartest.NewServer()
	defer srv.Close()
	srv.AddCompany("AAPL", 320193, "Apple Inc.",
		edgartest.SubmissionsJSON("Apple Inc.",
			edgartest.Filing{Form: "10-K", Accession: "0000320193-24-000123", Date: "2024-11-01"}),
		edgartest.FactsJSON(320193, "Apple Inc.", edgartest.AnnualFacts(2024, 100, 10, 5, 50, 20, 1000)...))

	c := newTestClient(srv)
	ctx := context.Background()

	subs, err := c.FetchSubmissions(ctx, "0000320193")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", subs.Name)
	assert.Equal(t, []string{"0000320193-24-000123"}, subs.Filings.Recent.AccessionNumber)

	facts, err := c.FetchFacts(ctx, "0000320193")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", facts.EntityName)
	assert.Equal(t, CIKNumber(320193), facts.CIK)
	assert.Contains(t, facts.Facts["us-gaap"], "NetCashProvidedByUsedInOperatingActivities")

	for _, ua := range srv.UserAgents() {
		assert.Equal(t, testUA, ua)
	}
}

func TestFetchErrorsAreRetrievalErrors(t *testing.T) {
	srv := edgartest.NewServer()
	defer srv.Close()
	srv.AddCompany("BAD", 42, "Bad Corp", "{not json", "")
	srv.Fail("/api/xbrl/companyfacts/CIK0000000007.json", http.StatusServiceUnavailable)

	c := newTestClient(srv)
	ctx := context.Background()

	tests := []struct {
		name       string
		call       func() error
		wantStatus int
	}{
		{"malformed body", func() error { _, err := c.FetchSubmissions(ctx, "0000000042"); return err }, http.StatusOK},
		{"missing document", func() error { _, err := c.FetchFacts(ctx, "0000000042"); return err }, http.StatusNotFound},
		{"server error", func() error { _, err := c.FetchFacts(ctx, "0000000007"); return err }, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var rerr *RetrievalError
			require.True(t, errors.As(err, &rerr), "got %T: %v", err, err)
			assert.Equal(t, tt.wantStatus, rerr.StatusCode)
			assert.NotEmpty(t, rerr.URL)
		})
	}
}

func TestFetchTransportFailure(t *testing.T) {
	srv := edgartest.NewServer()
	c := newTestClient(srv)
	srv.Close()

	_, err := c.FetchSubmissions(context.Background(), "0000320193")
	var rerr *RetrievalError
	require.True(t, errors.As(err, &rerr))
	assert.Zero(t, rerr.StatusCode)
}

func TestRequestsArePaced(t *testing.T) {
	srv := edgartest.NewServer()
	defer srv.Close()
	srv.AddCompany("AAPL", 320193, "Apple Inc.", edgartest.SubmissionsJSON("Apple Inc."), "")

	c := newTestClient(srv, WithRequestDelay(40*time.Millisecond))
	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := c.FetchSubmissions(context.Background(), "0000320193")
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 75*time.Millisecond)
}

func TestCancelledContext(t *testing.T) {
	srv := edgartest.NewServer()
	defer srv.Close()

	c := newTestClient(srv, WithRequestDelay(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	// consume the initial token, then cancel while waiting for the next
	_, _ = c.FetchSubmissions(ctx, "0000000001")
	cancel()

	_, err := c.FetchSubmissions(ctx, "0000000001")
	var rerr *RetrievalError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, 1, len(srv.Requests()))
}
