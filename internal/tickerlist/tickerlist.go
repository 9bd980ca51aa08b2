// Package tickerlist produces the normalised ticker list that drives batch runs:
// from an explicit JSON list, a ledger CSV ranked by activity, or a default list.
package tickerlist

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/seenimoa/secdcf/internal/infra"
	"github.com/seenimoa/secdcf/pkg/utils"
)

// DefaultTopN is the ledger selection size when none is given.
const DefaultTopN = 10

// Normalize upper-cases, strips "$" and whitespace, drops empties and
// duplicates, and preserves first-seen order.
func Normalize(raw []string) []string {
	return utils.NormalizeTickers(raw)
}

// Load reads a JSON array of tickers. Non-string entries are stringified.
// The result is normalised.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("ticker list %s: expected a JSON array: %w", path, err)
	}
	raw := make([]string, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		raw = append(raw, fmt.Sprint(it))
	}
	return Normalize(raw), nil
}

// Save writes list as an indented JSON array, atomically.
func Save(path string, list []string) error {
	if list == nil {
		list = []string{}
	}
	return infra.WriteJSON(path, list)
}

// AccountActivity is one ledger account's aggregated flows.
type AccountActivity struct {
	Account   string
	Income    float64 // sum of positive amounts
	Spending  float64 // sum of negative amounts
	Magnitude float64 // |Income| + |Spending|
}

// ledgerRow is one ledger CSV record; other columns are ignored.
type ledgerRow struct {
	Account string `csv:"account"`
	Amount  string `csv:"amount"`
}

// ledgerReader lower-cases and trims the header row so column names match
// regardless of case, padding or a leading BOM.
type ledgerReader struct {
	*csv.Reader
	header []string
}

func (r *ledgerReader) ReadAll() ([][]string, error) {
	records, err := r.Reader.ReadAll()
	if err != nil || len(records) == 0 {
		return records, err
	}
	for i, h := range records[0] {
		records[0][i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}
	r.header = records[0]
	return records, nil
}

func (r *ledgerReader) hasColumn(name string) bool {
	for _, h := range r.header {
		if h == name {
			return true
		}
	}
	return false
}

// RankLedger reads a CSV with "account" and "amount" columns and returns every
// account ordered by magnitude descending, ties broken by account name.
func RankLedger(r io.Reader) ([]AccountActivity, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	lr := &ledgerReader{Reader: cr}

	var rows []ledgerRow
	if err := gocsv.UnmarshalCSV(lr, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, errors.New("ledger: empty CSV")
		}
		return nil, fmt.Errorf("ledger: %w", err)
	}
	if !lr.hasColumn("account") || !lr.hasColumn("amount") {
		return nil, fmt.Errorf("ledger: header must have account and amount columns, got %v", lr.header)
	}

	byAccount := make(map[string]*AccountActivity)
	for i, row := range rows {
		account := strings.TrimSpace(row.Account)
		amountStr := strings.TrimSpace(row.Amount)
		if account == "" || amountStr == "" {
			continue
		}
		amount, err := strconv.ParseFloat(strings.ReplaceAll(amountStr, ",", ""), 64)
		if err != nil {
			return nil, fmt.Errorf("ledger line %d: amount %q: %w", i+2, amountStr, err)
		}

		a := byAccount[account]
		if a == nil {
			a = &AccountActivity{Account: account}
			byAccount[account] = a
		}
		switch {
		case amount > 0:
			a.Income += amount
		case amount < 0:
			a.Spending += amount
		}
	}

	out := make([]AccountActivity, 0, len(byAccount))
	for _, a := range byAccount {
		a.Magnitude = math.Abs(a.Income) + math.Abs(a.Spending)
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Magnitude != out[j].Magnitude {
			return out[i].Magnitude > out[j].Magnitude
		}
		return out[i].Account < out[j].Account
	})
	return out, nil
}

// TopFromLedger returns the n most active ledger accounts as tickers.
// Accounts are normalised and deduplicated before the cut, so case or "$"
// variants of one ticker occupy a single slot.
func TopFromLedger(r io.Reader, n int) ([]string, error) {
	if n <= 0 {
		return nil, fmt.Errorf("top-N must be positive, got %d", n)
	}
	ranked, err := RankLedger(r)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(ranked))
	for i, a := range ranked {
		names[i] = a.Account
	}
	tickers := Normalize(names)
	if len(tickers) > n {
		tickers = tickers[:n]
	}
	return tickers, nil
}

// Source selects where a list comes from. The first non-empty of List, CSV,
// Default wins.
type Source struct {
	List    string // existing JSON list to echo
	CSV     string // ledger CSV to rank
	N       int    // top-N for CSV
	Default string // fallback JSON list
}

// Resolve produces the normalised list described by src.
func Resolve(src Source) ([]string, error) {
	switch {
	case src.List != "":
		return Load(src.List)
	case src.CSV != "":
		f, err := os.Open(src.CSV)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		n := src.N
		if n == 0 {
			n = DefaultTopN
		}
		return TopFromLedger(f, n)
	case src.Default != "":
		list, err := Load(src.Default)
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no ledger CSV given and default list not found: %s", src.Default)
		}
		return list, err
	default:
		return nil, errors.New("no ticker source: give a list, a ledger CSV or a default list")
	}
}
