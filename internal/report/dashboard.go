package report

import (
	"bytes"
	"io"
	"time"

	"github.com/seenimoa/secdcf/internal/infra"
	"github.com/seenimoa/secdcf/pkg/models"
	"github.com/seenimoa/secdcf/pkg/utils"
)

// staleAfterDays flags annual reports older than roughly fifteen months.
const staleAfterDays = 456

// DashboardRow is one rendered index entry.
type DashboardRow struct {
	Ticker      string
	Href        string // page path relative to the dashboard
	CompanyName string
	Latest10K   string
	Latest10Q   string
	Stale       bool
}

// DashboardData is the template model for the dashboard.
type DashboardData struct {
	Site        Site
	Title       string
	GeneratedAt string
	Rows        []DashboardRow
}

// BuildDashboardData flattens index rows, keeping their order.
func BuildDashboardData(rows []models.IndexRow, generatedAt time.Time, site Site) DashboardData {
	d := DashboardData{
		Site:        site,
		Title:       "DCF Dashboard",
		GeneratedAt: utils.FormatTimestamp(generatedAt),
		Rows:        make([]DashboardRow, 0, len(rows)),
	}
	for _, r := range rows {
		t := utils.NormalizeTicker(r.Ticker)
		if t == "" {
			continue
		}
		row := DashboardRow{
			Ticker:      t,
			Href:        t + "/" + t + ".html",
			CompanyName: orDash(r.CompanyName),
			Latest10K:   filingDate(r.Latest.Annual),
			Latest10Q:   filingDate(r.Latest.Quarterly),
		}
		if r.Latest.Annual != nil {
			row.Stale = utils.FilingAge(r.Latest.Annual.FilingDate, generatedAt) > staleAfterDays
		}
		d.Rows = append(d.Rows, row)
	}
	return d
}

// RenderDashboard writes the dashboard listing every index row.
func RenderDashboard(w io.Writer, rows []models.IndexRow, generatedAt time.Time, site Site) error {
	return dashboardTemplate.Execute(w, BuildDashboardData(rows, generatedAt, site))
}

// WriteDashboard renders the dashboard and writes it atomically to path.
func WriteDashboard(path string, rows []models.IndexRow, generatedAt time.Time, site Site) error {
	var buf bytes.Buffer
	if err := RenderDashboard(&buf, rows, generatedAt, site); err != nil {
		return err
	}
	return infra.WriteFileAtomic(path, buf.Bytes(), 0o644)
}
