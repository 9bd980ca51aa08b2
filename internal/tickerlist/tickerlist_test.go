package tickerlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ledger = `date,account,amount,memo
2025-01-02,AAPL,1200.50,dividend
2025-01-03,MSFT,-300,buy
2025-01-04,AAPL,-800,buy
2025-01-05,NVDA,2000,sell
2025-01-06,msft,50,dividend
2025-01-07,KO,-2000,buy
2025-01-08,,10,blank account
`

func TestNormalize(t *testing.T) {
	got := Normalize([]string{" aapl", "$MSFT", "", "AAPL", "brk.b", "$ko "})
	assert.Equal(t, []string{"AAPL", "MSFT", "BRK.B", "KO"}, got)
}

func TestRankLedger(t *testing.T) {
	ranked, err := RankLedger(strings.NewReader(ledger))
	require.NoError(t, err)

	names := make([]string, len(ranked))
	for i, a := range ranked {
		names[i] = a.Account
	}
	// AAPL 2000.5; KO and NVDA tie at 2000 and sort by name; msft and MSFT are distinct accounts
	assert.Equal(t, []string{"AAPL", "KO", "NVDA", "MSFT", "msft"}, names)

	assert.InDelta(t, 1200.5, ranked[0].Income, 1e-9)
	assert.InDelta(t, -800, ranked[0].Spending, 1e-9)
	assert.InDelta(t, 2000.5, ranked[0].Magnitude, 1e-9)
}

func TestTopFromLedger(t *testing.T) {
	got, err := TopFromLedger(strings.NewReader(ledger), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "KO", "NVDA"}, got)

	// case-variant accounts collapse after normalisation
	got, err = TopFromLedger(strings.NewReader(ledger), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "KO", "NVDA", "MSFT"}, got)
}

func TestTopFromLedgerDedupesBeforeCut(t *testing.T) {
	csv := "account,amount\n$aapl,500\nAAPL,400\nmsft,300\nKO,200\n"
	got, err := TopFromLedger(strings.NewReader(csv), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT", "KO"}, got)
}

func TestLedgerExtraAndReorderedColumns(t *testing.T) {
	csv := "memo,AMOUNT,Date,ACCOUNT\nx,10,2025-01-01,VZ\ny,-50,2025-01-02,T\n"
	ranked, err := RankLedger(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "T", ranked[0].Account)
	assert.InDelta(t, -50, ranked[0].Spending, 1e-9)
	assert.Equal(t, "VZ", ranked[1].Account)
}

func TestTopFromLedgerErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		n    int
	}{
		{"non-positive n", ledger, 0},
		{"empty input", "", 5},
		{"missing amount column", "account,value\nAAPL,1\n", 5},
		{"bad amount", "account,amount\nAAPL,abc\n", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TopFromLedger(strings.NewReader(tt.csv), tt.n)
			assert.Error(t, err)
		})
	}
}

func TestLedgerHeaderTolerance(t *testing.T) {
	got, err := TopFromLedger(strings.NewReader("\ufeffAccount, Amount\nT,\"1,500\"\nVZ,-10\n"), 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"T", "VZ"}, got)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "top_tickers.json")
	require.NoError(t, Save(path, []string{"AAPL", "MSFT"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n  \"AAPL\",\n  \"MSFT\"\n]\n", string(data))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, got)
}

func TestLoadNormalises(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.json")
	require.NoError(t, os.WriteFile(path, []byte(`["aapl", "$msft", "AAPL", null, 123]`), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT", "123"}, got)
}

func TestLoadRejectsObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tickers": ["AAPL"]}`), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	listPath := filepath.Join(dir, "list.json")
	csvPath := filepath.Join(dir, "ledger.csv")
	defPath := filepath.Join(dir, "default.json")
	require.NoError(t, os.WriteFile(listPath, []byte(`["googl"]`), 0o644))
	require.NoError(t, os.WriteFile(csvPath, []byte(ledger), 0o644))
	require.NoError(t, os.WriteFile(defPath, []byte(`["SPY","QQQ"]`), 0o644))

	got, err := Resolve(Source{List: listPath, CSV: csvPath, Default: defPath})
	require.NoError(t, err)
	assert.Equal(t, []string{"GOOGL"}, got, "explicit list wins")

	got, err = Resolve(Source{CSV: csvPath, N: 2, Default: defPath})
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "KO"}, got)

	got, err = Resolve(Source{CSV: csvPath})
	require.NoError(t, err)
	assert.Len(t, got, 4, "default N covers every account")

	got, err = Resolve(Source{Default: defPath})
	require.NoError(t, err)
	assert.Equal(t, []string{"SPY", "QQQ"}, got)

	_, err = Resolve(Source{Default: filepath.Join(dir, "missing.json")})
	assert.ErrorContains(t, err, "default list not found")

	_, err = Resolve(Source{})
	assert.Error(t, err)
}
