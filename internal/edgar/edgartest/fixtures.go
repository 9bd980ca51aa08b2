package edgartest

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Filing is one row of the submissions recent-filings arrays.
type Filing struct {
	Form      string
	Accession string
	Date      string
}

// SubmissionsJSON renders a submissions document with the given recent filings.
func SubmissionsJSON(name string, filings ...Filing) string {
	recent := map[string][]string{
		"accessionNumber": {},
		"filingDate":      {},
		"form":            {},
	}
	for _, f := range filings {
		recent["accessionNumber"] = append(recent["accessionNumber"], f.Accession)
		recent["filingDate"] = append(recent["filingDate"], f.Date)
		recent["form"] = append(recent["form"], f.Form)
	}
	doc := map[string]any{
		"cik":     "320193",
		"name":    name,
		"tickers": []string{},
		"filings": map[string]any{"recent": recent},
	}
	return mustJSON(doc)
}

// Fact is one companyfacts data point. Val nil renders as JSON null.
type Fact struct {
	Taxonomy string // default us-gaap
	Tag      string
	Unit     string // default USD
	Val      *float64
	FY       int
	FP       string
	End      string
	Form     string
	Qtrs     *int
}

// V returns a pointer to v, for Fact.Val.
func V(v float64) *float64 { return &v }

// Q returns a pointer to q, for Fact.Qtrs.
func Q(q int) *int { return &q }

// FactsJSON renders a companyfacts document holding the given points.
func FactsJSON(cik int64, name string, facts ...Fact) string {
	tree := map[string]map[string]map[string]any{}
	for _, f := range facts {
		tax := f.Taxonomy
		if tax == "" {
			tax = "us-gaap"
		}
		unit := f.Unit
		if unit == "" {
			unit = "USD"
		}
		if tree[tax] == nil {
			tree[tax] = map[string]map[string]any{}
		}
		concept := tree[tax][f.Tag]
		if concept == nil {
			concept = map[string]any{"label": f.Tag, "description": "", "units": map[string][]map[string]any{}}
			tree[tax][f.Tag] = concept
		}
		units := concept["units"].(map[string][]map[string]any)
		point := map[string]any{
			"end":   f.End,
			"val":   f.Val,
			"accn":  fmt.Sprintf("0000000000-%02d-000001", f.FY%100),
			"fy":    f.FY,
			"fp":    f.FP,
			"form":  f.Form,
			"filed": f.End,
		}
		if f.Qtrs != nil {
			point["qtrs"] = *f.Qtrs
		}
		units[unit] = append(units[unit], point)
	}
	return mustJSON(map[string]any{"cik": cik, "entityName": name, "facts": tree})
}

// AnnualFacts returns a complete annual fact set for one fiscal year:
// cfo, capex, debt, cash and shares.
func AnnualFacts(fy int, cfo, capex, stDebt, ltDebt, cash, shares float64) []Fact {
	end := fmt.Sprintf("%d-09-30", fy)
	annual := func(tag string, v float64) Fact {
		return Fact{Tag: tag, Val: V(v), FY: fy, FP: "FY", End: end, Form: "10-K"}
	}
	return []Fact{
		annual("NetCashProvidedByUsedInOperatingActivities", cfo),
		annual("PaymentsToAcquirePropertyPlantAndEquipment", capex),
		annual("DebtCurrent", stDebt),
		annual("LongTermDebtNoncurrent", ltDebt),
		annual("CashAndCashEquivalentsAtCarryingValue", cash),
		{Taxonomy: "dei", Tag: "EntityCommonStockSharesOutstanding", Unit: "shares", Val: V(shares), FY: fy, FP: "FY", End: end, Form: "10-K"},
	}
}

// FeedEntry is one Atom feed entry.
type FeedEntry struct {
	Form      string
	Accession string
	Date      string
}

// AtomFeed renders a browse-edgar style Atom feed.
func AtomFeed(company string, entries ...FeedEntry) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="ISO-8859-1" ?>` + "\n")
	sb.WriteString(`<feed xmlns="http://www.w3.org/2005/Atom">` + "\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", company)
	sb.WriteString("<id>https://www.sec.gov/cgi-bin/browse-edgar</id>\n<updated>2025-01-01T00:00:00-05:00</updated>\n")
	for _, e := range entries {
		sb.WriteString("<entry>\n")
		fmt.Fprintf(&sb, `<category label="form type" scheme="https://www.sec.gov/" term="%s"/>`+"\n", e.Form)
		fmt.Fprintf(&sb, `<content type="text/xml"><accession-number>%s</accession-number><filing-date>%s</filing-date><filing-type>%s</filing-type></content>`+"\n",
			e.Accession, e.Date, e.Form)
		fmt.Fprintf(&sb, "<id>urn:tag:sec.gov,2008:accession-number=%s</id>\n", e.Accession)
		fmt.Fprintf(&sb, `<link href="https://www.sec.gov/Archives/edgar/data/%s-index.htm" rel="alternate" type="text/html"/>`+"\n", e.Accession)
		fmt.Fprintf(&sb, "<title>%s - Periodic report</title>\n", e.Form)
		fmt.Fprintf(&sb, "<updated>%sT16:30:00-04:00</updated>\n", e.Date)
		sb.WriteString("</entry>\n")
	}
	sb.WriteString("</feed>\n")
	return sb.String()
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}
