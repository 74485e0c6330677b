package domain

import (
	"errors"
	"strings"
)

// error taxonomy shared by resolver, registry, poller and stores
var (
	ErrUnrecognized   = errors.New("unrecognized company identifier")
	ErrAmbiguous      = errors.New("ambiguous company name")
	ErrAlreadyTracked = errors.New("company is already tracked")
	ErrNotTracked     = errors.New("company is not tracked")
	ErrFetchFailed    = errors.New("fetch failed")
	ErrStoreCorrupted = errors.New("store corrupted")
	ErrDeliveryFailed = errors.New("delivery failed")
)

// AmbiguousError is returned when more than one company name matches fuzzy input
type AmbiguousError struct {
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	return ErrAmbiguous.Error() + ", candidates: " + strings.Join(e.Candidates, ", ")
}

// Is makes errors.Is(err, ErrAmbiguous) work
func (e *AmbiguousError) Is(target error) bool {
	return target == ErrAmbiguous
}
