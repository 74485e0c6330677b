package espi

import (
	"fmt"

	"github.com/umputun/espiscope/pkg/domain"
)

// HTTPError is a transport failure or non-200 response. StatusCode is 0 when no response was received.
type HTTPError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *HTTPError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status code: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *HTTPError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, domain.ErrFetchFailed) work
func (e *HTTPError) Is(target error) bool { return target == domain.ErrFetchFailed }

// ParseError is a page without expected table structure
type ParseError struct {
	URL    string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.URL, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, domain.ErrFetchFailed) work
func (e *ParseError) Is(target error) bool { return target == domain.ErrFetchFailed }
