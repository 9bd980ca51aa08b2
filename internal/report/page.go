package report

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/seenimoa/secdcf/internal/infra"
	"github.com/seenimoa/secdcf/internal/valuation"
	"github.com/seenimoa/secdcf/pkg/models"
	"github.com/seenimoa/secdcf/pkg/utils"
)

// ════════════════════════════════════════════════════════════════════
// Options
// ════════════════════════════════════════════════════════════════════

// Site holds the links and assets shared by every rendered page.
type Site struct {
	StylesheetURL string
	ChartJSURL    string
	Name          string // footer copyright holder
	URL           string // footer home link
}

// DefaultSite returns the stock site settings.
func DefaultSite() Site {
	return Site{
		StylesheetURL: "https://alaskamoves.us/styles/css/dcf.css",
		ChartJSURL:    "https://cdn.jsdelivr.net/npm/chart.js",
		Name:          "Alaska Transportation & Trucking L.L.C.",
		URL:           "https://alaskamoves.us/index.html",
	}
}

// PageOptions controls valuation page rendering.
type PageOptions struct {
	Site              Site
	Price             *float64 // prior close, nil when unavailable or not requested
	PriceSource       string   // shown as a hint when Price is set
	Years             int
	GrowthPct         float64
	TerminalGrowthPct float64
	DiscountPct       float64
	Grid              valuation.SweepGrid
	Chart             ChartConfig
	GeneratedAt       time.Time
}

// DefaultPageOptions returns the stock scenario: 5 years, 5% growth,
// 2.5% terminal growth, 10% discount.
func DefaultPageOptions() PageOptions {
	return PageOptions{
		Site:              DefaultSite(),
		Years:             5,
		GrowthPct:         5,
		TerminalGrowthPct: 2.5,
		DiscountPct:       10,
		Grid:              valuation.DefaultSweepGrid,
		Chart:             DefaultChartConfig(),
	}
}

// ════════════════════════════════════════════════════════════════════
// Page Data: flattened for template rendering
// ════════════════════════════════════════════════════════════════════

// PageInputs are the pre-filled form values, as displayed.
type PageInputs struct {
	Price          string
	FCF0           string
	Years          string
	Growth         string
	TerminalGrowth string
	Discount       string
	NetDebt        string
	Shares         string
}

// Scenario holds the formatted default-scenario results.
type Scenario struct {
	IntrinsicValue  string
	Upside          string
	UpsideClass     string // up, down or empty
	EnterpriseValue string
	EquityValue     string
	PVCashflows     string
	PVTerminal      string
}

// SweepPoint is one sensitivity point as embedded for the client chart.
type SweepPoint struct {
	Rate  string  `json:"r"`
	Value float64 `json:"v"`
}

// PageData is the template model for the valuation page.
type PageData struct {
	Site        Site
	Title       string
	Ticker      string
	CompanyName string
	CIK         string
	Latest10K   string
	Latest10Q   string
	Sources     models.Sources

	Inputs     PageInputs
	PriceHint  string
	Missing    []string
	Scenario   *Scenario
	Error      string
	ChartSVG   template.HTML
	Sweep      []SweepPoint
	SweepMin   float64
	SweepStep  float64
	SweepCount int

	Methodology template.HTML
	GeneratedAt string
}

// ScenarioAssumptions returns the assumptions the page pre-fills for b.
// Unresolved derived values fall back to fcf0=0, netDebt=0, shares=1, and
// the monetary inputs are rounded to whole units as displayed.
func ScenarioAssumptions(b *models.EntityBundle, opts PageOptions) valuation.Assumptions {
	fcf0, netDebt, shares := 0.0, 0.0, 1.0
	if v := b.Derived.FCF0; v != nil {
		fcf0 = *v
	}
	if v := b.Derived.NetDebt; v != nil {
		netDebt = *v
	}
	if v := b.Derived.Shares; v != nil {
		shares = *v
	}
	a := valuation.FromPercent(math.Round(fcf0), opts.Years,
		opts.GrowthPct, opts.TerminalGrowthPct, opts.DiscountPct,
		math.Round(netDebt), math.Round(shares))
	a.Price = opts.Price
	return a
}

// BuildPageData computes the default scenario and sweep for b and flattens
// everything the template needs. Invalid defaults are reported in Error,
// not as a returned error.
func BuildPageData(b *models.EntityBundle, opts PageOptions) (PageData, error) {
	if b == nil {
		return PageData{}, errors.New("bundle is nil")
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}
	if opts.Grid.StepPct <= 0 {
		opts.Grid = valuation.DefaultSweepGrid
	}

	methodology, err := Methodology()
	if err != nil {
		return PageData{}, fmt.Errorf("render methodology: %w", err)
	}

	ticker := orDash(b.Ticker)
	a := ScenarioAssumptions(b, opts)
	rates := opts.Grid.Rates()

	d := PageData{
		Site:        opts.Site,
		Title:       "DCF – " + ticker,
		Ticker:      ticker,
		CompanyName: orDash(b.CompanyName),
		CIK:         b.CIK,
		Latest10K:   filingDate(b.Latest.Annual),
		Latest10Q:   filingDate(b.Latest.Quarterly),
		Sources:     b.Sources,
		Inputs: PageInputs{
			FCF0:           plain(a.FCF0),
			Years:          strconv.Itoa(opts.Years),
			Growth:         plain(opts.GrowthPct),
			TerminalGrowth: plain(opts.TerminalGrowthPct),
			Discount:       plain(opts.DiscountPct),
			NetDebt:        plain(a.NetDebt),
			Shares:         plain(a.Shares),
		},
		PriceHint:   "Enter latest price (prior close is fine).",
		Missing:     b.Derived.MissingFields(),
		SweepMin:    opts.Grid.MinPct,
		SweepStep:   opts.Grid.StepPct,
		SweepCount:  len(rates),
		Methodology: methodology,
		GeneratedAt: utils.FormatTimestamp(opts.GeneratedAt),
	}
	if opts.Price != nil && *opts.Price > 0 {
		d.Inputs.Price = strconv.FormatFloat(*opts.Price, 'f', 2, 64)
		src := opts.PriceSource
		if src == "" {
			src = "market data"
		}
		d.PriceHint = "Auto-filled from " + src + "."
	}

	res, err := valuation.Compute(a)
	if err != nil {
		d.Error = scenarioError(err)
		d.ChartSVG = template.HTML(emptySVG(opts.Chart, "No valuation for the default scenario"))
		return d, nil
	}
	d.Scenario = formatScenario(res, opts.Price)

	points, err := valuation.Sensitivity(a, opts.Grid)
	if err != nil {
		d.Error = scenarioError(err)
		d.ChartSVG = template.HTML(emptySVG(opts.Chart, "No sensitivity sweep"))
		return d, nil
	}
	d.Sweep = make([]SweepPoint, len(points))
	for i, p := range points {
		d.Sweep[i] = SweepPoint{Rate: strconv.FormatFloat(p.RatePct, 'f', 2, 64), Value: p.IntrinsicValuePerShare}
	}
	// chart output is built from escaped, numeric content only
	d.ChartSVG = template.HTML(SensitivityChart(points, opts.Price, opts.Chart))
	return d, nil
}

// RenderValuation writes the valuation page for b.
func RenderValuation(w io.Writer, b *models.EntityBundle, opts PageOptions) error {
	data, err := BuildPageData(b, opts)
	if err != nil {
		return err
	}
	return pageTemplate.Execute(w, data)
}

// WriteValuation renders the page for b and writes it atomically to path.
func WriteValuation(path string, b *models.EntityBundle, opts PageOptions) error {
	var buf bytes.Buffer
	if err := RenderValuation(&buf, b, opts); err != nil {
		return fmt.Errorf("render %s: %w", b.Ticker, err)
	}
	return infra.WriteFileAtomic(path, buf.Bytes(), 0o644)
}

func formatScenario(res *valuation.Result, price *float64) *Scenario {
	s := &Scenario{
		IntrinsicValue:  utils.FormatUSD(res.IntrinsicValuePerShare),
		Upside:          "—",
		EnterpriseValue: formatMoney(res.EnterpriseValue),
		EquityValue:     formatMoney(res.EquityValue),
		PVCashflows:     formatMoney(res.PVCashflows),
		PVTerminal:      formatMoney(res.PVTerminal),
	}
	if up, ok := valuation.Upside(res.IntrinsicValuePerShare, price); ok {
		s.Upside = utils.FormatPct(up)
		s.UpsideClass = "up"
		if up < 0 {
			s.UpsideClass = "down"
		}
	}
	return s
}

func scenarioError(err error) string {
	var invalid *valuation.InvalidAssumptionError
	var div *valuation.DivisionError
	switch {
	case errors.As(err, &invalid):
		return "Default scenario is invalid (" + invalid.Reason + "). Adjust the inputs and press Calculate."
	case errors.As(err, &div):
		return "Shares outstanding must be positive to compute a per-share value."
	default:
		return err.Error()
	}
}

// formatMoney renders whole dollars ("$1,234,567", "-$50").
func formatMoney(v float64) string {
	if !finite(v) {
		return "—"
	}
	if v < 0 {
		return "-$" + utils.FormatNumber(-v, 0)
	}
	return "$" + utils.FormatNumber(v, 0)
}

// plain formats an input value without grouping so the browser can parse it.
func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func filingDate(ref *models.FilingRef) string {
	if ref == nil || ref.FilingDate == "" {
		return "—"
	}
	return ref.FilingDate
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
