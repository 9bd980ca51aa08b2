package edgar

import (
	"math"
	"sort"
	"strings"

	"github.com/seenimoa/secdcf/pkg/models"
)

// ConceptSpec names one derived input and the XBRL tags that may carry it,
// in priority order.
type ConceptSpec struct {
	Name string
	Tags []string
	Unit string
}

// Concept tag table for the DCF inputs.
var (
	OperatingCashFlow = ConceptSpec{
		Name: "cfo",
		Tags: []string{"NetCashProvidedByUsedInOperatingActivities"},
		Unit: "USD",
	}
	CapitalExpenditure = ConceptSpec{
		Name: "capex",
		Tags: []string{"PaymentsToAcquirePropertyPlantAndEquipment", "PaymentsToAcquireProductiveAssets"},
		Unit: "USD",
	}
	ShortTermDebt = ConceptSpec{
		Name: "st_debt",
		Tags: []string{"DebtCurrent", "ShortTermBorrowings"},
		Unit: "USD",
	}
	LongTermDebt = ConceptSpec{
		Name: "lt_debt",
		Tags: []string{"LongTermDebtNoncurrent", "LongTermDebt"},
		Unit: "USD",
	}
	Cash = ConceptSpec{
		Name: "cash",
		Tags: []string{"CashAndCashEquivalentsAtCarryingValue"},
		Unit: "USD",
	}
	SharesOutstanding = ConceptSpec{
		Name: "shares",
		Tags: []string{"EntityCommonStockSharesOutstanding", "CommonStockSharesOutstanding"},
		Unit: "shares",
	}
)

// DerivedInputs lists every concept Derive consults.
var DerivedInputs = []ConceptSpec{
	OperatingCashFlow, CapitalExpenditure, ShortTermDebt, LongTermDebt, Cash, SharesOutstanding,
}

// Selection is the observation chosen for one concept.
type Selection struct {
	Tag   string
	Unit  string
	Value float64
	FY    int
	End   string
}

// SelectLatestAnnual picks the latest annual observation of a concept.
//
// The unit is the first present of: unitHint, USD, shares, then the remaining
// units in name order. Candidates are full-year points (fp=FY with qtrs 4 or 0),
// else any fp=FY point, else every point; the winner has the greatest (fy, end),
// later points winning ties. ok is false when the chosen unit has no points.
func SelectLatestAnnual(c Concept, unitHint string) (obs Observation, unit string, ok bool) {
	unit, found := chooseUnit(c.Units, unitHint)
	if !found {
		return Observation{}, "", false
	}
	points := c.Units[unit]

	candidates := filterPoints(points, func(p Observation) bool {
		return p.FP == "FY" && p.Qtrs != nil && (*p.Qtrs == 4 || *p.Qtrs == 0)
	})
	if len(candidates) == 0 {
		candidates = filterPoints(points, func(p Observation) bool { return p.FP == "FY" })
	}
	if len(candidates) == 0 {
		candidates = points
	}
	if len(candidates) == 0 {
		return Observation{}, unit, false
	}

	best := candidates[0]
	for _, p := range candidates[1:] {
		if !observationBefore(p, best) {
			best = p
		}
	}
	return best, unit, true
}

// SelectValue scans tags in priority order and returns the first tag whose
// latest annual observation carries a value. A present tag without a value
// does not stop the scan. An empty unitHint means "shares" for tags naming
// shares and "USD" otherwise.
func SelectValue(facts FactSet, tags []string, unitHint string) (Selection, bool) {
	for _, tag := range tags {
		c, present := facts[tag]
		if !present {
			continue
		}
		hint := unitHint
		if hint == "" {
			hint = defaultUnitHint(tag)
		}
		obs, unit, ok := SelectLatestAnnual(c, hint)
		if !ok || obs.Val == nil || math.IsNaN(*obs.Val) {
			continue
		}
		return Selection{Tag: tag, Unit: unit, Value: *obs.Val, FY: obs.FY, End: obs.End}, true
	}
	return Selection{}, false
}

// Derive computes the DCF inputs from a fact set. Inputs that cannot be
// resolved stay nil. The returned map holds every resolved selection by
// ConceptSpec name.
func Derive(facts FactSet) (models.Derived, map[string]Selection) {
	picked := make(map[string]Selection, len(DerivedInputs))
	for _, spec := range DerivedInputs {
		if sel, ok := SelectValue(facts, spec.Tags, spec.Unit); ok {
			picked[spec.Name] = sel
		}
	}

	var d models.Derived

	cfo, hasCFO := picked[OperatingCashFlow.Name]
	capex, hasCapex := picked[CapitalExpenditure.Name]
	if hasCFO && hasCapex {
		d.FCF0 = models.Float(cfo.Value - math.Abs(capex.Value))
	}

	st, hasST := picked[ShortTermDebt.Name]
	lt, hasLT := picked[LongTermDebt.Name]
	cash, hasCash := picked[Cash.Name]
	if hasST || hasLT || hasCash {
		// unresolved terms count as zero
		d.NetDebt = models.Float(st.Value + lt.Value - cash.Value)
	}

	if sh, ok := picked[SharesOutstanding.Name]; ok {
		d.Shares = models.Float(sh.Value)
	}

	return d, picked
}

func defaultUnitHint(tag string) string {
	if strings.Contains(tag, "Shares") {
		return "shares"
	}
	return "USD"
}

// chooseUnit returns the first unit present in units, in preference order.
func chooseUnit(units map[string][]Observation, hint string) (string, bool) {
	order := make([]string, 0, len(units)+3)
	if hint != "" {
		order = append(order, hint)
	}
	order = append(order, "USD", "shares")

	rest := make([]string, 0, len(units))
	for u := range units {
		rest = append(rest, u)
	}
	sort.Strings(rest)
	order = append(order, rest...)

	for _, u := range order {
		if _, ok := units[u]; ok {
			return u, true
		}
	}
	return "", false
}

func filterPoints(points []Observation, keep func(Observation) bool) []Observation {
	var out []Observation
	for _, p := range points {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// observationBefore orders observations by (fy, end).
func observationBefore(a, b Observation) bool {
	if a.FY != b.FY {
		return a.FY < b.FY
	}
	return a.End < b.End
}
