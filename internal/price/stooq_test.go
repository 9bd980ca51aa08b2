package price

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "Date,Open,High,Low,Close,Volume\n" +
	"2025-01-29,234.12,239.86,234.01,239.36,45486100\n" +
	"2025-01-30,238.67,240.79,237.21,237.59,55658300\n\n"

func TestParseLastClose(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    float64
		wantErr bool
	}{
		{"last row close", sampleCSV, 237.59, false},
		{"crlf line endings", "Date,Open,High,Low,Close,Volume\r\n2025-01-30,1,2,0.5,1.5,100\r\n", 1.5, false},
		{"no data answer", "No data", 0, true},
		{"header only", "Date,Open,High,Low,Close,Volume\n", 0, true},
		{"short row", "Date,Open,High,Low,Close,Volume\n2025-01-30,1,2\n", 0, true},
		{"non-numeric close", "Date,Open,High,Low,Close,Volume\n2025-01-30,1,2,0.5,N/D,100\n", 0, true},
		{"empty", "", 0, true},
		{"no close column", "Date,Open\n2025-01-30,1\n", 0, true},
		{"blank close", "Date,Open,High,Low,Close,Volume\n2025-01-30,1,2,0.5,,100\n", 0, true},
		{"columns by name", "Close,Date\n12.5,2025-01-29\n13.25,2025-01-30\n", 13.25, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLastClose(tt.body)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLastCloseNoData(t *testing.T) {
	for _, body := range []string{"No data", "No data\n", "  \n"} {
		_, err := ParseLastClose(body)
		assert.ErrorIs(t, err, ErrNoData, "%q", body)
	}
}

func TestCandidates(t *testing.T) {
	c := NewClient()
	assert.Equal(t, []string{"AAPL.US", "AAPL"}, c.Candidates("aapl"))
	assert.Equal(t, []string{"MSFT.US", "MSFT"}, c.Candidates("$MSFT"))
	assert.Equal(t, []string{"BRK.B"}, c.Candidates("brk.b"))
	assert.Nil(t, c.Candidates(" "))

	noSuffix := NewClient(WithCountrySuffix(""))
	assert.Equal(t, []string{"AAPL"}, noSuffix.Candidates("AAPL"))
}

// stooqServer answers with bodies keyed by the lower-case s= parameter.
func stooqServer(t *testing.T, bodies map[string]string) (*httptest.Server, *[]string) {
	t.Helper()
	var mu sync.Mutex
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sym := r.URL.Query().Get("s")
		assert.Equal(t, "d", r.URL.Query().Get("i"))
		mu.Lock()
		seen = append(seen, sym)
		mu.Unlock()
		body, ok := bodies[sym]
		if !ok {
			http.Error(w, "unknown", http.StatusNotFound)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestPriorClose(t *testing.T) {
	t.Run("suffixed symbol first", func(t *testing.T) {
		srv, seen := stooqServer(t, map[string]string{"aapl.us": sampleCSV})
		c := NewClient(WithBaseURL(srv.URL+"/q/d/l/"), WithHTTPClient(srv.Client()))

		p, ok := c.PriorClose(context.Background(), "AAPL")
		require.True(t, ok)
		assert.Equal(t, 237.59, p)
		assert.Equal(t, []string{"aapl.us"}, *seen)
	})

	t.Run("falls back to bare ticker", func(t *testing.T) {
		srv, seen := stooqServer(t, map[string]string{
			"aapl.us": "No data",
			"aapl":    sampleCSV,
		})
		c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

		p, ok := c.PriorClose(context.Background(), "AAPL")
		require.True(t, ok)
		assert.Equal(t, 237.59, p)
		assert.Equal(t, []string{"aapl.us", "aapl"}, *seen)
	})

	t.Run("unavailable is not an error", func(t *testing.T) {
		srv, _ := stooqServer(t, map[string]string{})
		c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

		p, ok := c.PriorClose(context.Background(), "ZZZZ")
		assert.False(t, ok)
		assert.Zero(t, p)
	})

	t.Run("unreachable host", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		c := NewClient(WithBaseURL(srv.URL))

		_, ok := c.PriorClose(context.Background(), "AAPL")
		assert.False(t, ok)
	})
}
