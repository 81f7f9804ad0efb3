package config

import "errors"

// Configuration validation errors returned by Config.Validate.
//
// Design decision: package-level sentinel errors rather than fmt.Errorf at
// the point of failure, so callers can branch with errors.Is while users
// still get a readable message.
var (
	// ErrNoOutputPath is returned when the output path is empty.
	ErrNoOutputPath = errors.New("no output path: --output must not be empty")

	// ErrTestURLWithoutTest is returned when --test-url is given without
	// --test.
	ErrTestURLWithoutTest = errors.New("--test-url requires the --test flag to be set")

	// ErrInvalidGrammarPointURL is returned when a target URL is not a
	// grammar-point page on the source wiki.
	ErrInvalidGrammarPointURL = errors.New("invalid URL: must be a grammar point page from the Chinese Grammar Wiki")

	// ErrInvalidDelay is returned when delay or jitter is negative.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxRetries is returned when the retry count is negative.
	ErrInvalidMaxRetries = errors.New("invalid max retries: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are requested.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
