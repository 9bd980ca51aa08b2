// Package report renders the per-entity valuation page and the dashboard as
// self-contained HTML, with server-side SVG charts.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/seenimoa/secdcf/internal/valuation"
)

// ════════════════════════════════════════════════════════════════════
// SVG Chart Generator
// ════════════════════════════════════════════════════════════════════

// ChartConfig holds rendering parameters for SVG charts.
type ChartConfig struct {
	Width        int    // SVG width in pixels (default: 720)
	Height       int    // SVG height in pixels (default: 320)
	MarginTop    int    // top margin
	MarginRight  int    // right margin
	MarginBottom int    // bottom margin
	MarginLeft   int    // left margin
	BgColor      string // background color
	GridColor    string // grid line color
	TextColor    string // axis label color
	FontSize     int    // axis label font size
	Title        string // chart title
	XAxisLabel   string
	YAxisLabel   string
	Markers      []Marker // horizontal reference lines
}

// Marker is a labelled horizontal reference line at a Y value.
type Marker struct {
	Label string
	Value float64
	Color string
}

// DefaultChartConfig returns sensible defaults for chart rendering.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:        720,
		Height:       320,
		MarginTop:    40,
		MarginRight:  30,
		MarginBottom: 50,
		MarginLeft:   70,
		BgColor:      "#ffffff",
		GridColor:    "#e8e8e8",
		TextColor:    "#333333",
		FontSize:     11,
	}
}

// plotArea returns the usable drawing area dimensions.
func (c ChartConfig) plotArea() (x, y, w, h int) {
	return c.MarginLeft, c.MarginTop,
		c.Width - c.MarginLeft - c.MarginRight,
		c.Height - c.MarginTop - c.MarginBottom
}

// ════════════════════════════════════════════════════════════════════
// Line Chart
// ════════════════════════════════════════════════════════════════════

// LineChartSeries represents a named data series for line charts.
type LineChartSeries struct {
	Name   string
	Values []float64
	Color  string // hex color (optional, auto-assigned if empty)
}

// LineChart generates an SVG line chart with one or more series.
// Labels are optional X-axis labels corresponding to data points.
func LineChart(series []LineChartSeries, labels []string, cfg ChartConfig) string {
	if len(series) == 0 {
		return emptySVG(cfg, "No data")
	}

	if cfg.Width == 0 {
		title, markers, xl, yl := cfg.Title, cfg.Markers, cfg.XAxisLabel, cfg.YAxisLabel
		cfg = DefaultChartConfig()
		cfg.Title, cfg.Markers, cfg.XAxisLabel, cfg.YAxisLabel = title, markers, xl, yl
	}

	px, py, pw, ph := cfg.plotArea()

	minVal, maxVal := math.MaxFloat64, -math.MaxFloat64
	maxLen := 0
	for _, s := range series {
		if len(s.Values) > maxLen {
			maxLen = len(s.Values)
		}
		for _, v := range s.Values {
			if !finite(v) {
				continue
			}
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
	}
	if maxLen == 0 || minVal > maxVal {
		return emptySVG(cfg, "No data points")
	}
	for _, m := range cfg.Markers {
		if finite(m.Value) {
			minVal = math.Min(minVal, m.Value)
			maxVal = math.Max(maxVal, m.Value)
		}
	}

	vRange := maxVal - minVal
	if vRange < 0.001 {
		vRange = 1
	}
	minVal -= vRange * 0.05
	maxVal += vRange * 0.05
	vRange = maxVal - minVal

	xAt := func(i int) float64 {
		if maxLen == 1 {
			return float64(px) + float64(pw)/2
		}
		return float64(px) + float64(i)*float64(pw)/float64(maxLen-1)
	}
	yAt := func(v float64) float64 {
		return float64(py+ph) - (v-minVal)/vRange*float64(ph)
	}

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	fmt.Fprintf(&sb, `<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor)
	if cfg.Title != "" {
		fmt.Fprintf(&sb, `<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
			cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title))
	}

	// Y-axis grid
	gridLines := 5
	for i := 0; i <= gridLines; i++ {
		val := minVal + vRange*float64(i)/float64(gridLines)
		y := py + ph - int(float64(ph)*float64(i)/float64(gridLines))
		fmt.Fprintf(&sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-dasharray="3,3"/>`,
			px, y, px+pw, y, cfg.GridColor)
		fmt.Fprintf(&sb, `<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="end">%s</text>`,
			px-5, y+4, cfg.FontSize, cfg.TextColor, axisValue(val))
	}

	for _, m := range cfg.Markers {
		if !finite(m.Value) {
			continue
		}
		color := m.Color
		if color == "" {
			color = "#dc2626"
		}
		y := yAt(m.Value)
		fmt.Fprintf(&sb, `<line class="marker" x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-dasharray="6,4"/>`,
			px, y, px+pw, y, color)
		fmt.Fprintf(&sb, `<text x="%d" y="%.1f" font-size="10" fill="%s" text-anchor="end">%s</text>`,
			px+pw, y-4, color, escapeXML(m.Label))
	}

	defaultColors := []string{"#2563eb", "#ea580c", "#16a34a", "#e91e63", "#9c27b0", "#00bcd4"}
	for si, s := range series {
		color := s.Color
		if color == "" {
			color = defaultColors[si%len(defaultColors)]
		}

		var pathParts []string
		for i, v := range s.Values {
			if !finite(v) {
				continue
			}
			cmd := "L"
			if len(pathParts) == 0 {
				cmd = "M"
			}
			pathParts = append(pathParts, fmt.Sprintf("%s%.1f,%.1f", cmd, xAt(i), yAt(v)))
		}
		switch {
		case len(pathParts) > 1:
			fmt.Fprintf(&sb, `<path class="series" d="%s" fill="none" stroke="%s" stroke-width="2"/>`,
				strings.Join(pathParts, " "), color)
		case len(pathParts) == 1:
			for i, v := range s.Values {
				if finite(v) {
					fmt.Fprintf(&sb, `<circle class="series" cx="%.1f" cy="%.1f" r="3" fill="%s"/>`, xAt(i), yAt(v), color)
					break
				}
			}
		}

		if len(series) > 1 {
			ly := py + 10 + si*16
			fmt.Fprintf(&sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="2"/>`,
				px+10, ly, px+30, ly, color)
			fmt.Fprintf(&sb, `<text x="%d" y="%d" font-size="10" fill="%s">%s</text>`,
				px+35, ly+4, cfg.TextColor, escapeXML(s.Name))
		}
	}

	// X-axis labels
	if len(labels) > 0 {
		interval := maxLen / 8
		if interval < 1 {
			interval = 1
		}
		for i := 0; i < len(labels) && i < maxLen; i += interval {
			fmt.Fprintf(&sb, `<text x="%.1f" y="%d" font-size="%d" fill="%s" text-anchor="middle">%s</text>`,
				xAt(i), py+ph+18, cfg.FontSize-1, cfg.TextColor, escapeXML(labels[i]))
		}
	}
	if cfg.XAxisLabel != "" {
		fmt.Fprintf(&sb, `<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="middle">%s</text>`,
			px+pw/2, cfg.Height-8, cfg.FontSize, cfg.TextColor, escapeXML(cfg.XAxisLabel))
	}
	if cfg.YAxisLabel != "" {
		fmt.Fprintf(&sb, `<text x="14" y="%d" font-size="%d" fill="%s" text-anchor="middle" transform="rotate(-90 14 %d)">%s</text>`,
			py+ph/2, cfg.FontSize, cfg.TextColor, py+ph/2, escapeXML(cfg.YAxisLabel))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SensitivityChart plots intrinsic value per share against the discount rate.
// A positive price adds a reference line at the current price.
func SensitivityChart(points []valuation.SensitivityPoint, price *float64, cfg ChartConfig) string {
	if len(points) == 0 {
		return emptySVG(cfg, "No valid discount rates above terminal growth")
	}
	values := make([]float64, len(points))
	labels := make([]string, len(points))
	for i, p := range points {
		values[i] = p.IntrinsicValuePerShare
		labels[i] = strconv.FormatFloat(p.RatePct, 'f', 2, 64)
	}
	if cfg.Title == "" {
		cfg.Title = "DCF Sensitivity (Value/Share vs Discount Rate)"
	}
	if cfg.XAxisLabel == "" {
		cfg.XAxisLabel = "Discount Rate (%)"
	}
	if cfg.YAxisLabel == "" {
		cfg.YAxisLabel = "Value / Share (USD)"
	}
	if price != nil && *price > 0 {
		cfg.Markers = append(cfg.Markers, Marker{
			Label: "Price " + strconv.FormatFloat(*price, 'f', 2, 64),
			Value: *price,
		})
	}
	return LineChart([]LineChartSeries{{Name: "Intrinsic Value / Share", Values: values}}, labels, cfg)
}

// ════════════════════════════════════════════════════════════════════
// Helpers
// ════════════════════════════════════════════════════════════════════

func svgHeader(cfg ChartConfig) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height)
}

func emptySVG(cfg ChartConfig, msg string) string {
	if cfg.Width == 0 {
		cfg.Width = 400
	}
	if cfg.Height == 0 {
		cfg.Height = 200
	}
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"><rect width="%d" height="%d" fill="#f5f5f5"/><text x="%d" y="%d" text-anchor="middle" fill="#999" font-size="14">%s</text></svg>`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height, cfg.Width/2, cfg.Height/2, escapeXML(msg))
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}

// axisValue keeps tick labels short for large per-share values.
func axisValue(v float64) string {
	if math.Abs(v) >= 10000 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
