package valuation

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workedExample() Assumptions {
	return FromPercent(100, 5, 5, 2.5, 10, 50, 20)
}

// closedForm recomputes the model directly from the formula.
func closedForm(a Assumptions) float64 {
	sum := 0.0
	for t := 1; t <= a.Years; t++ {
		sum += a.FCF0 * math.Pow(1+a.Growth, float64(t)) / math.Pow(1+a.Discount, float64(t))
	}
	fcfN := a.FCF0 * math.Pow(1+a.Growth, float64(a.Years))
	tv := fcfN * (1 + a.TerminalGrowth) / (a.Discount - a.TerminalGrowth)
	ev := sum + tv/math.Pow(1+a.Discount, float64(a.Years))
	return (ev - a.NetDebt) / a.Shares
}

func TestComputeWorkedExample(t *testing.T) {
	a := workedExample()
	res, err := Compute(a)
	require.NoError(t, err)

	want := closedForm(a)
	assert.InEpsilon(t, want, res.IntrinsicValuePerShare, 1e-6)

	require.Len(t, res.Projections, 5)
	assert.InEpsilon(t, 105.0, res.Projections[0].Cashflow, 1e-12)
	assert.InEpsilon(t, 105.0/1.1, res.Projections[0].PresentValue, 1e-12)
	assert.InEpsilon(t, 100*math.Pow(1.05, 5), res.Projections[4].Cashflow, 1e-9)

	assert.InEpsilon(t, res.PVCashflows+res.PVTerminal, res.EnterpriseValue, 1e-12)
	assert.InEpsilon(t, res.EnterpriseValue-50, res.EquityValue, 1e-12)
	assert.InEpsilon(t, res.TerminalCashflow/(0.10-0.025), res.TerminalValue, 1e-12)

	// hand-computed: EV ~ 1518.86, ivps ~ 73.44
	assert.InDelta(t, 1518.855, res.EnterpriseValue, 0.001)
	assert.InDelta(t, 73.4428, res.IntrinsicValuePerShare, 0.0001)
}

func TestComputeRejects(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(a *Assumptions)
		wantInvArg bool
		wantDiv    bool
	}{
		{"discount equals terminal growth", func(a *Assumptions) { a.Discount = a.TerminalGrowth }, true, false},
		{"discount below terminal growth", func(a *Assumptions) { a.Discount = 0.02 }, true, false},
		{"zero years", func(a *Assumptions) { a.Years = 0 }, true, false},
		{"zero shares", func(a *Assumptions) { a.Shares = 0 }, false, true},
		{"negative shares", func(a *Assumptions) { a.Shares = -1 }, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := workedExample()
			tt.mutate(&a)
			res, err := Compute(a)
			assert.Nil(t, res)

			var inv *InvalidAssumptionError
			var div *DivisionError
			assert.Equal(t, tt.wantInvArg, errors.As(err, &inv), "err = %v", err)
			assert.Equal(t, tt.wantDiv, errors.As(err, &div), "err = %v", err)
		})
	}
}

func TestComputeNegativeCashflow(t *testing.T) {
	a := workedExample()
	a.FCF0 = -100
	res, err := Compute(a)
	require.NoError(t, err)
	assert.Less(t, res.IntrinsicValuePerShare, 0.0)
}

func TestUpside(t *testing.T) {
	price := 64.0
	pct, ok := Upside(80, &price)
	require.True(t, ok)
	assert.InDelta(t, 25.0, pct, 1e-9)

	zero := 0.0
	_, ok = Upside(80, &zero)
	assert.False(t, ok)

	_, ok = Upside(80, nil)
	assert.False(t, ok)
}

func TestFromPercent(t *testing.T) {
	a := FromPercent(1, 7, 5, 2.5, 10, 3, 4)
	assert.Equal(t, 7, a.Years)
	assert.InDelta(t, 0.05, a.Growth, 1e-15)
	assert.InDelta(t, 0.025, a.TerminalGrowth, 1e-15)
	assert.InDelta(t, 0.10, a.Discount, 1e-15)
	assert.Nil(t, a.Price)
}
