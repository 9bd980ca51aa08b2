package infra

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor/models"
)

func TestDoGetSendsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secdcf test@example.com", r.Header.Get("User-Agent"))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	body, status, err := DoGet(context.Background(), srv.Client(), srv.URL, map[string]string{
		"User-Agent": "secdcf test@example.com",
	})
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"ok":true}`, string(data))
}

func TestDoGetNon2xx(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"not found", http.StatusNotFound},
		{"server error", http.StatusInternalServerError},
		{"teapot", http.StatusTeapot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte("nope"))
			}))
			defer srv.Close()

			body, status, err := DoGet(context.Background(), srv.Client(), srv.URL, nil)
			assert.Nil(t, body)
			assert.Equal(t, tt.status, status)

			var httpErr *HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, tt.status, httpErr.StatusCode)
		})
	}
}

func TestNewPacerSpacesRequests(t *testing.T) {
	p := NewPacer(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, p.Wait(ctx))
	require.NoError(t, p.Wait(ctx))
	require.NoError(t, p.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestNewPacerDisabled(t *testing.T) {
	p := NewPacer(0)
	start := time.Now()
	for i := 0; i < 10; i++ {
		require.NoError(t, p.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestWriteJSONAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "AAPL", "AAPL.json")

	require.NoError(t, WriteJSON(path, map[string]any{"ticker": "AAPL"}))
	require.NoError(t, WriteJSON(path, map[string]any{"ticker": "MSFT"}))

	var got map[string]string
	require.NoError(t, ReadJSON(path, &got))
	assert.Equal(t, "MSFT", got["ticker"])

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestReadJSONMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var v map[string]any
	assert.Error(t, ReadJSON(path, &v))
}

func TestOrNoOp(t *testing.T) {
	assert.NotNil(t, OrNoOp(nil))
	l := NewLogger("debug", "text")
	assert.Equal(t, l, OrNoOp(l))
}

func TestNoOpLoggerDiscards(t *testing.T) {
	l := NewNoOpLogger()
	assert.NotPanics(t, func() {
		l.Info().Str("ticker", "AAPL").Msg("dropped")
		l.WithCorrelationId("run-1").Warn().Err(errors.New("boom")).Msg("dropped")
	})

	n, err := discardWriter{}.Write([]byte("payload"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestConsoleConfig(t *testing.T) {
	assert.Equal(t, models.OutputFormatLogfmt, consoleConfig("text").OutputType)
	assert.Equal(t, models.OutputFormatLogfmt, consoleConfig("").OutputType)
	assert.Equal(t, models.OutputFormatJSON, consoleConfig("JSON").OutputType)
	assert.Equal(t, models.LogWriterTypeConsole, consoleConfig("json").Type)
}
