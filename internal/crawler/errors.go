package crawler

import (
	"errors"
	"fmt"

	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/fetch"
)

// ErrorKind classifies why a page could not be normalized.
type ErrorKind int

const (
	// KindUnrecognizedLayout means the page's markup matched none of the
	// known layouts; the site markup changed or we hit an unseen structure.
	KindUnrecognizedLayout ErrorKind = iota

	// KindEmptyPage means the page parsed but contained neither examples
	// nor an explanation worth keeping.
	KindEmptyPage
)

// String returns the kind's report label.
func (k ErrorKind) String() string {
	switch k {
	case KindUnrecognizedLayout:
		return "unrecognized_layout"
	case KindEmptyPage:
		return "empty_page"
	default:
		return "unknown"
	}
}

// NormalizeError reports that a fetched page could not be turned into a
// grammar-point record. It is recovered locally: the crawler counts the
// failure and moves on to the next page.
type NormalizeError struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// URL is the page that failed.
	URL string
}

// Error implements the error interface.
func (e *NormalizeError) Error() string {
	return fmt.Sprintf("normalize %s: %s", e.URL, e.Kind)
}

// FailureReason maps a per-page error to its run-report bucket.
func FailureReason(err error) string {
	var ne *NormalizeError
	if errors.As(err, &ne) {
		return ne.Kind.String()
	}
	var fe *fetch.FetchError
	if errors.As(err, &fe) {
		if fe.Transient {
			return "fetch_transient"
		}
		return "fetch_permanent"
	}
	return "other"
}
