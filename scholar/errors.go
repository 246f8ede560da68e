package scholar

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrNoProfileFound is returned when a search yields no profile candidates.
var ErrNoProfileFound = errors.New("no scholar profiles found")

// InvalidProfileIndexError is returned when the requested profile index does
// not fall within the candidate list.
type InvalidProfileIndexError struct {
	Index int
	Count int
}

func (e InvalidProfileIndexError) Error() string {
	return fmt.Sprintf("profile index %d out of range: %d candidate(s) found", e.Index, e.Count)
}

// FetchError indicates a request for a page failed: network error, timeout,
// or a non-2xx response.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e FetchError) Unwrap() error {
	return e.Err
}

// errorTypeLabel maps a request failure to the metric/summary category used
// for error accounting.
func errorTypeLabel(err error, statusCode int) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return "connection"
	}

	switch statusCode {
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusTooManyRequests:
		return "rate_limited"
	}

	if err == nil {
		return "unknown"
	}
	return "other"
}
