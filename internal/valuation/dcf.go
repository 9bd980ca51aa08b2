// Package valuation implements the single-stage discounted cash flow model
// with a Gordon-growth terminal value, and its discount-rate sensitivity sweep.
package valuation

import (
	"fmt"
	"math"
)

// InvalidAssumptionError is returned when the assumptions make the model undefined.
type InvalidAssumptionError struct {
	Reason string
}

func (e *InvalidAssumptionError) Error() string {
	return "invalid assumption: " + e.Reason
}

// DivisionError is returned when the per-share value would divide by a
// non-positive share count.
type DivisionError struct {
	Shares float64
}

func (e *DivisionError) Error() string {
	return fmt.Sprintf("cannot compute per-share value with %g shares outstanding", e.Shares)
}

// Assumptions are the model inputs. Rates are decimals (0.10 = 10%).
type Assumptions struct {
	FCF0           float64 // base-year free cash flow
	Years          int     // explicit projection horizon N
	Growth         float64 // g, annual FCF growth during the horizon
	TerminalGrowth float64 // g_t, perpetual growth after the horizon
	Discount       float64 // r
	NetDebt        float64
	Shares         float64
	Price          *float64 // optional market price
}

// FromPercent builds Assumptions from percentage rates as entered on the page.
func FromPercent(fcf0 float64, years int, growthPct, terminalGrowthPct, discountPct, netDebt, shares float64) Assumptions {
	return Assumptions{
		FCF0:           fcf0,
		Years:          years,
		Growth:         growthPct / 100,
		TerminalGrowth: terminalGrowthPct / 100,
		Discount:       discountPct / 100,
		NetDebt:        netDebt,
		Shares:         shares,
	}
}

// YearCashflow is one projected year.
type YearCashflow struct {
	Year         int
	Cashflow     float64
	PresentValue float64
}

// Result is the outcome of one DCF evaluation.
type Result struct {
	Projections            []YearCashflow
	PVCashflows            float64
	TerminalCashflow       float64 // FCF in year N+1
	TerminalValue          float64
	PVTerminal             float64
	EnterpriseValue        float64
	EquityValue            float64
	IntrinsicValuePerShare float64
}

// Validate checks the assumptions without computing anything.
func (a Assumptions) Validate() error {
	if a.Years < 1 {
		return &InvalidAssumptionError{Reason: fmt.Sprintf("projection years must be at least 1, got %d", a.Years)}
	}
	if a.Discount <= a.TerminalGrowth {
		return &InvalidAssumptionError{Reason: fmt.Sprintf(
			"discount rate %.4g%% must exceed terminal growth %.4g%%", a.Discount*100, a.TerminalGrowth*100)}
	}
	if a.Shares <= 0 {
		return &DivisionError{Shares: a.Shares}
	}
	return nil
}

// Compute evaluates the model:
//
//	fcf_t  = fcf0 * (1+g)^t                  t = 1..N
//	pv_t   = fcf_t / (1+r)^t
//	TV     = fcf_N * (1+g_t) / (r - g_t)
//	EV     = sum(pv_t) + TV / (1+r)^N
//	equity = EV - net debt
//	ivps   = equity / shares
func Compute(a Assumptions) (*Result, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	res := &Result{Projections: make([]YearCashflow, 0, a.Years)}

	fcf := a.FCF0
	for t := 1; t <= a.Years; t++ {
		fcf *= 1 + a.Growth
		pv := fcf / math.Pow(1+a.Discount, float64(t))
		res.Projections = append(res.Projections, YearCashflow{Year: t, Cashflow: fcf, PresentValue: pv})
		res.PVCashflows += pv
	}

	res.TerminalCashflow = fcf * (1 + a.TerminalGrowth)
	res.TerminalValue = res.TerminalCashflow / (a.Discount - a.TerminalGrowth)
	res.PVTerminal = res.TerminalValue / math.Pow(1+a.Discount, float64(a.Years))

	res.EnterpriseValue = res.PVCashflows + res.PVTerminal
	res.EquityValue = res.EnterpriseValue - a.NetDebt
	res.IntrinsicValuePerShare = res.EquityValue / a.Shares
	return res, nil
}

// Upside returns (ivps/price - 1) * 100. ok is false without a usable price.
func Upside(ivps float64, price *float64) (pct float64, ok bool) {
	if price == nil || *price <= 0 || math.IsNaN(*price) || math.IsInf(*price, 0) {
		return 0, false
	}
	return (ivps / *price - 1) * 100, true
}
