package edgar

import (
	"sort"

	"github.com/seenimoa/secdcf/pkg/models"
)

// FilingsFromSubmissions zips the parallel recent-filing arrays. Ragged
// arrays are truncated to the shortest one.
func FilingsFromSubmissions(recent RecentFilings) []models.Filing {
	n := min(len(recent.Form), len(recent.AccessionNumber), len(recent.FilingDate))
	out := make([]models.Filing, n)
	for i := 0; i < n; i++ {
		out[i] = models.Filing{
			Form:       recent.Form[i],
			Accession:  recent.AccessionNumber[i],
			FilingDate: recent.FilingDate[i],
		}
	}
	return out
}

// RecencyOrdered reports whether filings are sorted most recent first.
func RecencyOrdered(filings []models.Filing) bool {
	for i := 1; i < len(filings); i++ {
		if filings[i].FilingDate > filings[i-1].FilingDate {
			return false
		}
	}
	return true
}

// LatestFilings returns the most recent 10-K and 10-Q. Filings are ordered
// by filing date, newest first, keeping the given order among equal dates;
// amended forms (10-K/A) do not count.
func LatestFilings(filings []models.Filing) models.LatestFilings {
	sorted := make([]models.Filing, len(filings))
	copy(sorted, filings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].FilingDate > sorted[j].FilingDate
	})

	var latest models.LatestFilings
	for _, f := range sorted {
		switch f.Form {
		case models.FormAnnual:
			if latest.Annual == nil {
				latest.Annual = &models.FilingRef{Accession: f.Accession, FilingDate: f.FilingDate}
			}
		case models.FormQuarterly:
			if latest.Quarterly == nil {
				latest.Quarterly = &models.FilingRef{Accession: f.Accession, FilingDate: f.FilingDate}
			}
		}
		if latest.Annual != nil && latest.Quarterly != nil {
			break
		}
	}
	return latest
}
