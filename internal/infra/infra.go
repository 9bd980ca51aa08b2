// Package infra provides shared infrastructure components used across
// the application: HTTP utilities, request pacing, atomic file output and logging.
package infra

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// --- HTTP helpers ---

// HTTPError wraps a non-2xx HTTP response.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d %s", e.StatusCode, e.Status)
	}
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// NewHTTPClient returns an HTTP client with the given timeout (30s when zero).
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// DoGet performs a GET request with the given headers and returns the response body.
// Any status outside 2xx is returned as *HTTPError with up to 1 KiB of the body.
// The caller is responsible for closing the returned ReadCloser.
func DoGet(ctx context.Context, client *http.Client, url string, headers map[string]string) (io.ReadCloser, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("HTTP GET %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, resp.StatusCode, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Body:       string(body),
		}
	}

	return resp.Body, resp.StatusCode, nil
}

// --- Request pacing ---

// NewPacer returns a limiter that releases one request per interval.
// The first request goes out immediately; interval <= 0 disables pacing.
func NewPacer(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}
