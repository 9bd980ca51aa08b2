package price

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
)

// ErrNoData is returned when the response holds no data rows.
var ErrNoData = errors.New("no price rows")

// bar is one row of a Stooq daily CSV (Date,Open,High,Low,Close,Volume).
type bar struct {
	Date   string `csv:"Date"`
	Open   string `csv:"Open"`
	High   string `csv:"High"`
	Low    string `csv:"Low"`
	Close  string `csv:"Close"`
	Volume string `csv:"Volume"`
}

// ParseLastClose returns the close of the last row of a Stooq daily CSV.
func ParseLastClose(body string) (float64, error) {
	// Stooq answers unknown symbols with a bare "No data" line
	if strings.TrimSpace(body) == "" {
		return 0, ErrNoData
	}
	var bars []*bar
	if err := gocsv.UnmarshalString(body, &bars); err != nil {
		return 0, fmt.Errorf("parse price csv: %w", err)
	}
	if len(bars) == 0 {
		return 0, ErrNoData
	}

	last := bars[len(bars)-1]
	raw := strings.TrimSpace(last.Close)
	if raw == "" {
		return 0, fmt.Errorf("no close on %s", last.Date)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse close: %w", err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("close is not finite: %q", raw)
	}
	return v, nil
}
