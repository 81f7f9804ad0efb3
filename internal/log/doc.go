// Package log provides logger construction for the scraper, built on the
// standard slog package.
//
// A full crawl touches thousands of example sentences, and a single markup
// quirk on the source wiki tends to repeat across hundreds of pages. The
// ThrottleHandler collapses runs of identical warning messages so the
// interesting ones stay visible, while verbose mode still shows everything
// at debug level.
//
// Usage:
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
package log
