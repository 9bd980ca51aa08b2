package edgar

import "fmt"

// NotFoundError is returned when a ticker is absent from the SEC registry.
type NotFoundError struct {
	Ticker string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("ticker %q not found in SEC registry", e.Ticker)
}

// RetrievalError is returned for transport failures, non-2xx responses and
// malformed bodies. StatusCode is zero when no response was received.
type RetrievalError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieve %s: %v", e.URL, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}
