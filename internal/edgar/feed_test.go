package edgar

import (
	"context"
	"errors"
	"testing"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/secdcf/internal/edgar/edgartest"
	"github.com/seenimoa/secdcf/pkg/models"
)

func TestFetchFilingFeed(t *testing.T) {
	srv := edgartest.NewServer()
	defer srv.Close()
	srv.SetFeed(320193, edgartest.AtomFeed("Apple Inc.",
		edgartest.FeedEntry{Form: "10-Q", Accession: "0000320193-25-000008", Date: "2025-01-31"},
		edgartest.FeedEntry{Form: "10-K", Accession: "0000320193-24-000123", Date: "2024-11-01"},
		edgartest.FeedEntry{Form: "10-Q", Accession: "0000320193-24-000081", Date: "2024-08-02"},
	))

	filings, err := newTestClient(srv).FetchFilingFeed(context.Background(), "0000320193")
	require.NoError(t, err)
	require.Len(t, filings, 3)
	assert.Equal(t, models.Filing{Form: "10-Q", Accession: "0000320193-25-000008", FilingDate: "2025-01-31"}, filings[0])
	assert.Equal(t, models.Filing{Form: "10-K", Accession: "0000320193-24-000123", FilingDate: "2024-11-01"}, filings[1])

	latest := LatestFilings(filings)
	require.NotNil(t, latest.Annual)
	require.NotNil(t, latest.Quarterly)
	assert.Equal(t, "0000320193-24-000123", latest.Annual.Accession)
	assert.Equal(t, "0000320193-25-000008", latest.Quarterly.Accession)
}

func TestFetchFilingFeedMalformed(t *testing.T) {
	srv := edgartest.NewServer()
	defer srv.Close()
	srv.SetFeed(1, "this is not a feed")

	_, err := newTestClient(srv).FetchFilingFeed(context.Background(), "0000000001")
	var rerr *RetrievalError
	require.True(t, errors.As(err, &rerr))
}

func TestFilingFromFeedItem(t *testing.T) {
	tests := []struct {
		name string
		item gofeed.Item
		want models.Filing
		ok   bool
	}{
		{
			name: "category and content",
			item: gofeed.Item{
				GUID:       "urn:tag:sec.gov,2008:accession-number=0000789019-24-000104",
				Categories: []string{"10-K"},
				Content:    "<filing-date>2024-07-30</filing-date>",
				Updated:    "2024-07-30T16:06:22-04:00",
			},
			want: models.Filing{Form: "10-K", Accession: "0000789019-24-000104", FilingDate: "2024-07-30"},
			ok:   true,
		},
		{
			name: "title and updated fallbacks",
			item: gofeed.Item{
				GUID:    "urn:tag:sec.gov,2008:accession-number=0000789019-24-000200",
				Title:   "10-Q  - Quarterly report [Sections 13 or 15(d)]",
				Updated: "2024-10-30T16:10:00-04:00",
			},
			want: models.Filing{Form: "10-Q", Accession: "0000789019-24-000200", FilingDate: "2024-10-30"},
			ok:   true,
		},
		{
			name: "no accession",
			item: gofeed.Item{GUID: "tag:example", Title: "10-K"},
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := filingFromFeedItem(&tt.item)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
