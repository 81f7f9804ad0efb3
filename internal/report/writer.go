package report

import (
	"io"
	"sort"
	"time"
)

// Summary is everything the run report presents: page-level crawl counts,
// card-level merge counts, and where the output went.
type Summary struct {
	// GeneratedAt is when the run finished.
	GeneratedAt time.Time `json:"generated_at"`

	// Mode is the crawl mode ("full" or "test").
	Mode string `json:"mode"`

	// DeckName is the learner-visible deck name.
	DeckName string `json:"deck_name"`

	// OutputPath is where the deck was written. Empty if nothing was
	// exported.
	OutputPath string `json:"output_path,omitempty"`

	// PagesAttempted is the number of pages fetched or tried.
	PagesAttempted int `json:"pages_attempted"`

	// PagesSucceeded is the number of pages normalized into records.
	PagesSucceeded int `json:"pages_succeeded"`

	// PagesFailed is the number of pages skipped with an error.
	PagesFailed int `json:"pages_failed"`

	// FailuresByReason buckets skipped pages by failure kind.
	FailuresByReason map[string]int `json:"failures_by_reason,omitempty"`

	// CardsNew is the number of cards that received fresh identifiers.
	CardsNew int `json:"cards_new"`

	// CardsUpdated is the number of cards that reused existing identifiers.
	CardsUpdated int `json:"cards_updated"`

	// CardsRetained is the number of existing cards carried over unchanged.
	CardsRetained int `json:"cards_retained"`

	// CardsTotal is the card count of the written deck.
	CardsTotal int `json:"cards_total"`

	// Error is set when the run aborted with a critical error.
	Error string `json:"error,omitempty"`
}

// FailureReasons returns the failure buckets sorted by name so output is
// deterministic.
func (s *Summary) FailureReasons() []string {
	reasons := make([]string, 0, len(s.FailuresByReason))
	for reason := range s.FailuresByReason {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	return reasons
}

// Writer defines the interface for run report output.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or both with
// the same API.
type Writer interface {
	// Write outputs the summary to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(summary *Summary) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously, for outputting to
// both terminal and a report file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the summary to all configured Writers. Returns the total
// bytes written; stops on the first error encountered.
func (m *MultiWriter) Write(summary *Summary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
