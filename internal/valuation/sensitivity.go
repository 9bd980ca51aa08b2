package valuation

import (
	"errors"
	"fmt"
	"math"
)

// SweepGrid is an inclusive discount-rate grid in percent.
type SweepGrid struct {
	MinPct  float64
	MaxPct  float64
	StepPct float64
}

// DefaultSweepGrid covers 4% to 20% in 0.25% steps.
var DefaultSweepGrid = SweepGrid{MinPct: 4, MaxPct: 20, StepPct: 0.25}

// Rates returns the grid points. Each rate is min + i*step, never an
// accumulated sum, so the grid is identical on every run.
func (g SweepGrid) Rates() []float64 {
	if g.StepPct <= 0 || g.MaxPct < g.MinPct {
		return nil
	}
	// tolerance absorbs representation error in (max-min)/step
	n := int(math.Floor((g.MaxPct-g.MinPct)/g.StepPct+1e-9)) + 1
	rates := make([]float64, n)
	for i := range rates {
		rates[i] = g.MinPct + float64(i)*g.StepPct
	}
	return rates
}

// SensitivityPoint is the per-share value at one discount rate.
type SensitivityPoint struct {
	RatePct                float64
	IntrinsicValuePerShare float64
}

// Sensitivity evaluates the model across the grid with a.Discount replaced by
// each grid rate. Rates at or below terminal growth are skipped; any other
// model error aborts the sweep.
func Sensitivity(a Assumptions, grid SweepGrid) ([]SensitivityPoint, error) {
	rates := grid.Rates()
	if rates == nil {
		return nil, &InvalidAssumptionError{Reason: fmt.Sprintf("empty sensitivity grid %+v", grid)}
	}

	points := make([]SensitivityPoint, 0, len(rates))
	for _, pct := range rates {
		scenario := a
		scenario.Discount = pct / 100
		res, err := Compute(scenario)
		if err != nil {
			var invalid *InvalidAssumptionError
			if errors.As(err, &invalid) && scenario.Discount <= scenario.TerminalGrowth {
				continue
			}
			return nil, err
		}
		points = append(points, SensitivityPoint{RatePct: pct, IntrinsicValuePerShare: res.IntrinsicValuePerShare})
	}
	return points, nil
}
