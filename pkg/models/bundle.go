package models

// Form types the pipeline tracks.
const (
	FormAnnual    = "10-K"
	FormQuarterly = "10-Q"
)

// Derived field names, as they appear in the bundle JSON.
const (
	FieldFCF0    = "fcf0"
	FieldNetDebt = "net_debt"
	FieldShares  = "shares"
)

// Filing is one entry of an entity's filing history.
type Filing struct {
	Form       string `json:"form"`
	Accession  string `json:"accession"`
	FilingDate string `json:"filingDate"` // YYYY-MM-DD
}

// FilingRef identifies the latest filing of one form type.
type FilingRef struct {
	Accession  string `json:"accession"`
	FilingDate string `json:"filingDate"`
}

// LatestFilings holds the most recent annual and quarterly report, either may be nil.
type LatestFilings struct {
	Annual    *FilingRef `json:"10-K"`
	Quarterly *FilingRef `json:"10-Q"`
}

// Derived holds the scalar DCF inputs extracted from companyfacts.
// A nil field means the value could not be resolved; it marshals to null
// and must not be replaced by a default before rendering.
type Derived struct {
	FCF0    *float64 `json:"fcf0"`
	NetDebt *float64 `json:"net_debt"`
	Shares  *float64 `json:"shares"`
}

// MissingFields lists the derived fields that are nil, in schema order.
func (d Derived) MissingFields() []string {
	var missing []string
	if d.FCF0 == nil {
		missing = append(missing, FieldFCF0)
	}
	if d.NetDebt == nil {
		missing = append(missing, FieldNetDebt)
	}
	if d.Shares == nil {
		missing = append(missing, FieldShares)
	}
	return missing
}

// Sources records the upstream documents a bundle was built from.
type Sources struct {
	Submissions  string `json:"submissions"`
	CompanyFacts string `json:"companyfacts"`
}

// EntityBundle is the persisted per-entity record.
type EntityBundle struct {
	Ticker      string        `json:"ticker"`
	CIK         string        `json:"cik"` // 10-digit, zero-padded
	CompanyName string        `json:"companyName"`
	Latest      LatestFilings `json:"latest"`
	Derived     Derived       `json:"derived"`
	Sources     Sources       `json:"sources"`
}

// IndexRow is one entry of the aggregate entity index.
type IndexRow struct {
	Ticker      string        `json:"ticker"`
	CompanyName string        `json:"companyName"`
	CIK         string        `json:"cik"`
	Latest      LatestFilings `json:"latest"`
	BundlePath  string        `json:"bundlePath"`
}

// IndexRowFor builds the index entry for a bundle persisted at path.
func IndexRowFor(b *EntityBundle, path string) IndexRow {
	return IndexRow{
		Ticker:      b.Ticker,
		CompanyName: b.CompanyName,
		CIK:         b.CIK,
		Latest:      b.Latest,
		BundlePath:  path,
	}
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
