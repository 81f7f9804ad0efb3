package crawler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/model"
)

// Fetcher retrieves raw markup for a URL. The implementation owns pacing
// and retry; the coordinator simply blocks on Fetch and never issues
// concurrent requests.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Mode selects what the coordinator crawls.
type Mode struct {
	single bool
	target string
}

// Full crawls every grammar point reachable from the level indexes.
func Full() Mode {
	return Mode{}
}

// Single crawls exactly one grammar-point page. Used by test mode; issues
// exactly one fetch by construction, regardless of how many links the
// target page contains.
func Single(target string) Mode {
	return Mode{single: true, target: target}
}

// Coordinator drives the fetcher and parser over the site's link graph.
type Coordinator struct {
	// fetcher retrieves pages.
	fetcher Fetcher

	// baseURL is the grammar-point URL prefix.
	baseURL string

	// levelIndexes are the per-level index pages, walked in order.
	levelIndexes []string

	// blocklist holds page URLs never fetched (normalized to lowercase).
	blocklist map[string]bool

	// logger for structured logging.
	logger *slog.Logger
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithLevelIndexes sets the level index pages for full crawls.
func WithLevelIndexes(indexes []string) CoordinatorOption {
	return func(c *Coordinator) {
		c.levelIndexes = indexes
	}
}

// WithBlocklist sets page URLs to skip without fetching.
func WithBlocklist(urls []string) CoordinatorOption {
	return func(c *Coordinator) {
		for _, u := range urls {
			c.blocklist[strings.ToLower(u)] = true
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// NewCoordinator creates a Coordinator using the given fetcher.
func NewCoordinator(fetcher Fetcher, baseURL string, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		fetcher:   fetcher,
		baseURL:   baseURL,
		blocklist: make(map[string]bool),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result is one element of the crawl sequence: either a normalized record
// or the error that prevented one. Failures are values, not aborts; one
// broken page must not stop extraction of the rest.
type Result struct {
	// URL is the page this result came from.
	URL string

	// Record is the normalized record on success, nil otherwise.
	Record *model.GrammarPointRecord

	// Err is the failure on error, nil otherwise.
	Err error
}

// Stats summarizes a crawl for the run report.
type Stats struct {
	// Attempted is the number of pages pulled: every grammar-point page,
	// plus level indexes that failed. Attempted always equals
	// Succeeded + Failed.
	Attempted int

	// Succeeded is the number of pages normalized into records.
	Succeeded int

	// Failed is the number of pages skipped with an error.
	Failed int

	// FailuresByReason buckets failures for the report.
	FailuresByReason map[string]int
}

// Crawl returns the lazy crawl sequence for the given mode. The sequence is
// forward-only and non-restartable: each element is fetched and normalized
// on demand when Next is called, so a caller may stop early without paying
// for the rest of the crawl.
func (c *Coordinator) Crawl(mode Mode) *Iterator {
	return &Iterator{
		coord:          c,
		mode:           mode,
		pendingIndexes: append([]string(nil), c.levelIndexes...),
		visited:        make(map[string]bool),
		stats:          Stats{FailuresByReason: make(map[string]int)},
	}
}

// queuedPage is a discovered grammar-point URL awaiting fetch.
type queuedPage struct {
	url   string
	level model.Level
}

// Iterator is the pull-based crawl sequence.
type Iterator struct {
	coord          *Coordinator
	mode           Mode
	pendingIndexes []string
	queue          []queuedPage
	visited        map[string]bool
	done           bool
	stats          Stats
}

// Next pulls the next element of the sequence. It returns false when the
// crawl is exhausted or the context is cancelled.
func (it *Iterator) Next(ctx context.Context) (Result, bool) {
	if it.done || ctx.Err() != nil {
		return Result{}, false
	}

	if it.mode.single {
		it.done = true
		return it.fetchPoint(ctx, queuedPage{url: it.mode.target, level: model.LevelUnknown}), true
	}

	for {
		if len(it.queue) == 0 {
			if len(it.pendingIndexes) == 0 {
				it.done = true
				return Result{}, false
			}
			if res, yielded := it.refillFromNextIndex(ctx); yielded {
				return res, true
			}
			continue
		}

		page := it.queue[0]
		it.queue = it.queue[1:]

		if it.visited[page.url] {
			continue
		}
		it.visited[page.url] = true

		if it.coord.blocklist[strings.ToLower(page.url)] {
			it.coord.logger.Debug("skipping blocklisted page", "url", page.url)
			continue
		}

		return it.fetchPoint(ctx, page), true
	}
}

// refillFromNextIndex fetches the next level index and enqueues its
// grammar-point links. An index failure is yielded as a sequence element so
// the run report counts the lost level, rather than aborting the crawl.
func (it *Iterator) refillFromNextIndex(ctx context.Context) (Result, bool) {
	indexURL := it.pendingIndexes[0]
	it.pendingIndexes = it.pendingIndexes[1:]
	level := model.LevelFromIndexURL(indexURL)

	it.coord.logger.Info("fetching level index", "url", indexURL, "level", level)

	markup, err := it.coord.fetcher.Fetch(ctx, indexURL)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, false
		}
		it.stats.Attempted++
		it.recordFailure(err)
		return Result{URL: indexURL, Err: err}, true
	}

	urls, err := ParseIndexPage(strings.NewReader(markup), it.coord.baseURL)
	if err != nil {
		it.stats.Attempted++
		it.recordFailure(err)
		return Result{URL: indexURL, Err: err}, true
	}

	it.coord.logger.Info("level index parsed", "url", indexURL, "points", len(urls))
	for _, u := range urls {
		it.queue = append(it.queue, queuedPage{url: u, level: level})
	}
	return Result{}, false
}

// fetchPoint fetches and normalizes one grammar-point page.
func (it *Iterator) fetchPoint(ctx context.Context, page queuedPage) Result {
	it.stats.Attempted++

	markup, err := it.coord.fetcher.Fetch(ctx, page.url)
	if err != nil {
		it.recordFailure(err)
		return Result{URL: page.url, Err: err}
	}

	parser := NewParser(page.url, page.level, WithParserLogger(it.coord.logger))
	record, err := parser.Parse(strings.NewReader(markup))
	if err != nil {
		it.recordFailure(err)
		return Result{URL: page.url, Err: err}
	}

	it.stats.Succeeded++
	it.coord.logger.Debug("page normalized",
		"url", page.url,
		"title", record.Title,
		"examples", len(record.Examples),
	)
	return Result{URL: page.url, Record: record}
}

// recordFailure counts a failed page for the run report.
func (it *Iterator) recordFailure(err error) {
	it.stats.Failed++
	it.stats.FailuresByReason[FailureReason(err)]++
}

// Stats returns the crawl statistics accumulated so far.
func (it *Iterator) Stats() Stats {
	return it.stats
}
