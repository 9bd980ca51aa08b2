package edgar

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// --- Submissions (data.sec.gov/submissions/CIK##########.json) ---

// Submissions is the subset of the submissions document the pipeline reads.
type Submissions struct {
	Name    string   `json:"name"`
	Tickers []string `json:"tickers"`
	Filings struct {
		Recent RecentFilings `json:"recent"`
	} `json:"filings"`
}

// RecentFilings holds the parallel arrays of the most recent filings,
// documented upstream as ordered most recent first.
type RecentFilings struct {
	AccessionNumber []string `json:"accessionNumber"`
	FilingDate      []string `json:"filingDate"`
	Form            []string `json:"form"`
}

// --- XBRL companyfacts (data.sec.gov/api/xbrl/companyfacts/CIK##########.json) ---

// CompanyFacts is the companyfacts document: taxonomy -> concept -> series.
type CompanyFacts struct {
	CIK        CIKNumber                     `json:"cik"`
	EntityName string                        `json:"entityName"`
	Facts      map[string]map[string]Concept `json:"facts"`
}

// Concept is one XBRL concept with its data points grouped by unit.
type Concept struct {
	Label       string                   `json:"label"`
	Description string                   `json:"description"`
	Units       map[string][]Observation `json:"units"`
}

// Observation is one reported data point.
type Observation struct {
	Start string   `json:"start,omitempty"`
	End   string   `json:"end"`
	Val   *float64 `json:"val"`
	Accn  string   `json:"accn"`
	FY    int      `json:"fy"`
	FP    string   `json:"fp"`
	Form  string   `json:"form"`
	Filed string   `json:"filed"`
	Frame string   `json:"frame,omitempty"`
	Qtrs  *int     `json:"qtrs,omitempty"` // quarters covered; usually absent
}

// FactSet is a flattened concept map across taxonomies.
type FactSet map[string]Concept

// factTaxonomies lists the taxonomies searched, highest precedence first.
// EntityCommonStockSharesOutstanding lives in dei, the financial concepts in us-gaap.
var factTaxonomies = []string{"us-gaap", "dei"}

// FactSet merges the searched taxonomies into one lookup map.
func (cf *CompanyFacts) FactSet() FactSet {
	fs := make(FactSet)
	if cf == nil {
		return fs
	}
	for i := len(factTaxonomies) - 1; i >= 0; i-- {
		for tag, c := range cf.Facts[factTaxonomies[i]] {
			fs[tag] = c
		}
	}
	return fs
}

// --- Registry (www.sec.gov/files/company_tickers.json) ---

// registryEntry is one row of company_tickers.json.
type registryEntry struct {
	CIK    CIKNumber `json:"cik_str"`
	Ticker string    `json:"ticker"`
	Title  string    `json:"title"`
}

// Company is a resolved registry entry.
type Company struct {
	CIK    string // 10-digit, zero-padded
	Ticker string
	Title  string
}

// CIKNumber decodes a CIK given either as a JSON number or a string.
type CIKNumber int64

// UnmarshalJSON implements json.Unmarshaler.
func (n *CIKNumber) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid CIK %s: %w", string(b), err)
	}
	*n = CIKNumber(v)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n CIKNumber) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(n))
}

// Padded returns the CIK zero-padded to 10 digits.
func (n CIKNumber) Padded() string {
	return PadCIK(int64(n))
}

// PadCIK pads a CIK number to 10 digits with leading zeros.
func PadCIK(cik int64) string {
	return fmt.Sprintf("%010d", cik)
}
