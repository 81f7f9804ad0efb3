package fetch

import (
	"errors"
	"fmt"
)

// FetchError describes a failed page fetch. Transient distinguishes
// failures worth retrying (the fetcher already retried them before
// surfacing the error) from permanent ones such as a 404.
type FetchError struct {
	// URL is the page that failed.
	URL string

	// StatusCode is the HTTP status, or 0 when the request never completed.
	StatusCode int

	// Transient reports whether the failure class is retryable.
	Transient bool

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: %s failure: status %d", e.URL, kind, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %s failure: %v", e.URL, kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a transient fetch failure.
func IsTransient(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Transient
}
