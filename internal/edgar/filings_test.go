package edgar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/secdcf/pkg/models"
)

func TestFilingsFromSubmissions(t *testing.T) {
	recent := RecentFilings{
		AccessionNumber: []string{"a1", "a2", "a3"},
		FilingDate:      []string{"2024-11-01", "2024-08-02"},
		Form:            []string{"10-K", "10-Q", "8-K"},
	}
	got := FilingsFromSubmissions(recent)
	require.Len(t, got, 2, "ragged arrays truncate to the shortest")
	assert.Equal(t, models.Filing{Form: "10-K", Accession: "a1", FilingDate: "2024-11-01"}, got[0])
	assert.Equal(t, models.Filing{Form: "10-Q", Accession: "a2", FilingDate: "2024-08-02"}, got[1])

	assert.Empty(t, FilingsFromSubmissions(RecentFilings{}))
}

func TestLatestFilings(t *testing.T) {
	tests := []struct {
		name        string
		filings     []models.Filing
		wantAnnual  *models.FilingRef
		wantQuarter *models.FilingRef
	}{
		{
			name: "first of each in recency order",
			filings: []models.Filing{
				{Form: "8-K", Accession: "8k", FilingDate: "2025-01-30"},
				{Form: "10-Q", Accession: "q1", FilingDate: "2025-01-31"},
				{Form: "10-K", Accession: "k1", FilingDate: "2024-11-01"},
				{Form: "10-Q", Accession: "q0", FilingDate: "2024-08-02"},
				{Form: "10-K", Accession: "k0", FilingDate: "2023-11-03"},
			},
			wantAnnual:  &models.FilingRef{Accession: "k1", FilingDate: "2024-11-01"},
			wantQuarter: &models.FilingRef{Accession: "q1", FilingDate: "2025-01-31"},
		},
		{
			name: "unordered input is sorted by filing date",
			filings: []models.Filing{
				{Form: "10-K", Accession: "old", FilingDate: "2022-10-28"},
				{Form: "10-K", Accession: "new", FilingDate: "2024-11-01"},
				{Form: "10-K", Accession: "mid", FilingDate: "2023-11-03"},
			},
			wantAnnual: &models.FilingRef{Accession: "new", FilingDate: "2024-11-01"},
		},
		{
			name: "equal dates keep given order",
			filings: []models.Filing{
				{Form: "10-Q", Accession: "first", FilingDate: "2024-05-03"},
				{Form: "10-Q", Accession: "second", FilingDate: "2024-05-03"},
			},
			wantQuarter: &models.FilingRef{Accession: "first", FilingDate: "2024-05-03"},
		},
		{
			name: "amendments do not count",
			filings: []models.Filing{
				{Form: "10-K/A", Accession: "amend", FilingDate: "2025-02-01"},
				{Form: "10-K", Accession: "orig", FilingDate: "2024-11-01"},
			},
			wantAnnual: &models.FilingRef{Accession: "orig", FilingDate: "2024-11-01"},
		},
		{
			name:    "no periodic reports",
			filings: []models.Filing{{Form: "S-1", Accession: "s1", FilingDate: "2020-01-01"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LatestFilings(tt.filings)
			assert.Equal(t, tt.wantAnnual, got.Annual)
			assert.Equal(t, tt.wantQuarter, got.Quarterly)
		})
	}
}

func TestLatestFilingsDoesNotReorderInput(t *testing.T) {
	in := []models.Filing{
		{Form: "10-K", Accession: "old", FilingDate: "2022-10-28"},
		{Form: "10-K", Accession: "new", FilingDate: "2024-11-01"},
	}
	LatestFilings(in)
	assert.Equal(t, "old", in[0].Accession)
}

func TestRecencyOrdered(t *testing.T) {
	assert.True(t, RecencyOrdered(nil))
	assert.True(t, RecencyOrdered([]models.Filing{
		{FilingDate: "2024-11-01"}, {FilingDate: "2024-11-01"}, {FilingDate: "2024-08-02"},
	}))
	assert.False(t, RecencyOrdered([]models.Filing{
		{FilingDate: "2024-08-02"}, {FilingDate: "2024-11-01"},
	}))
}
