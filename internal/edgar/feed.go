package edgar

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/seenimoa/secdcf/pkg/models"
)

var (
	feedAccessionRe  = regexp.MustCompile(`accession-number=(\d{10}-\d{2}-\d{6})`)
	feedFilingDateRe = regexp.MustCompile(`<filing-date>\s*(\d{4}-\d{2}-\d{2})\s*</filing-date>`)
	feedFilingTypeRe = regexp.MustCompile(`<filing-type>\s*([^<\s]+)\s*</filing-type>`)
)

// FeedURL returns the browse-edgar Atom URL listing 10-series filings for a CIK.
func (c *Client) FeedURL(cik string) string {
	q := url.Values{}
	q.Set("action", "getcompany")
	q.Set("CIK", cik)
	q.Set("type", "10-")
	q.Set("dateb", "")
	q.Set("owner", "include")
	q.Set("count", "100")
	q.Set("output", "atom")
	return c.feedURL + "?" + q.Encode()
}

// FetchFilingFeed reads the company Atom feed and returns its filings in feed
// order. Entries without a recognisable accession number are skipped.
func (c *Client) FetchFilingFeed(ctx context.Context, cik string) ([]models.Filing, error) {
	feedURL := c.FeedURL(cik)
	data, err := c.get(ctx, feedURL, "application/atom+xml")
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().ParseString(string(data))
	if err != nil {
		return nil, &RetrievalError{URL: feedURL, StatusCode: http.StatusOK, Err: fmt.Errorf("parse Atom feed: %w", err)}
	}

	filings := make([]models.Filing, 0, len(feed.Items))
	for _, item := range feed.Items {
		f, ok := filingFromFeedItem(item)
		if !ok {
			c.logger.Debug().Str("title", item.Title).Msg("Skipping feed entry without accession number")
			continue
		}
		filings = append(filings, f)
	}
	return filings, nil
}

func filingFromFeedItem(item *gofeed.Item) (models.Filing, bool) {
	var f models.Filing

	m := feedAccessionRe.FindStringSubmatch(item.GUID)
	if m == nil {
		m = feedAccessionRe.FindStringSubmatch(item.Content)
	}
	if m == nil {
		return f, false
	}
	f.Accession = m[1]

	// form type: content, then category term (<category term="10-K" label="form type"/>), then title
	if m := feedFilingTypeRe.FindStringSubmatch(item.Content); m != nil {
		f.Form = m[1]
	}
	if f.Form == "" && len(item.Categories) > 0 {
		f.Form = strings.TrimSpace(item.Categories[0])
	}
	if f.Form == "" {
		if fields := strings.Fields(item.Title); len(fields) > 0 {
			f.Form = fields[0]
		}
	}

	switch {
	case feedFilingDateRe.MatchString(item.Content):
		f.FilingDate = feedFilingDateRe.FindStringSubmatch(item.Content)[1]
	case len(item.Updated) >= 10 && item.Updated[4] == '-':
		// local acceptance date, before any zone conversion
		f.FilingDate = item.Updated[:10]
	case item.UpdatedParsed != nil:
		f.FilingDate = item.UpdatedParsed.Format("2006-01-02")
	}
	return f, true
}
