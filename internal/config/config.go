package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. Pacing defaults are deliberately
// conservative: the source wiki sits behind bot-detection, and the whole
// point of sequential, slow fetching is to stay a polite, human-paced
// client.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "cgwanki"

	// BaseURL is the root of the grammar-point hierarchy. Every grammar
	// point lives directly under this prefix.
	BaseURL = "https://resources.allsetlearning.com/chinese/grammar/"

	// DefaultOutputPath is where the generated deck file is written when
	// --output is not given.
	DefaultOutputPath = "decks/cgw_examples.apkg"

	// DeckID is the deck's fixed numeric identity. Generated once with
	// a random draw from [1<<30, 1<<31) and never changed, so re-imports
	// update the same deck instead of creating a new one.
	DeckID = 1111957820

	// DeckName is the learner-visible deck name.
	DeckName = "Chinese Grammar Wiki Examples"

	// DefaultTestURL is the grammar point fetched by --test when no
	// --test-url is given.
	DefaultTestURL = BaseURL + "Standard_negation_with_%22bu%22"

	// DefaultDelay is the minimum pause between requests. Combined with
	// jitter this mimics a human reader's pacing.
	DefaultDelay = 1 * time.Second

	// DefaultJitter is the maximum random extra pause added on top of
	// DefaultDelay between requests.
	DefaultJitter = 3500 * time.Millisecond

	// DefaultTimeout is the per-request timeout. The wiki's interstitial
	// validation can hold a connection for several seconds.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxRetries is how many times a transient fetch failure is
	// retried before the page is skipped.
	DefaultMaxRetries = 3

	// DefaultUserAgent identifies the scraper in HTTP requests.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"

	// DefaultMaxBodySize limits how much of a response body is read.
	// Grammar-point pages are small; anything larger is not a page we want.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
)

// DefaultLevelIndexes are the per-level index pages crawled in full mode.
// The C2 index exists but is unpopulated on the site, so it is omitted until
// the wiki fills it in.
func DefaultLevelIndexes() []string {
	return []string{
		BaseURL + "A1_grammar_points",
		BaseURL + "A2_grammar_points",
		BaseURL + "B1_grammar_points",
		BaseURL + "B2_grammar_points",
		BaseURL + "C1_grammar_points",
	}
}

// DefaultBlocklist lists grammar-point pages known to be malformed or
// unfinished on the source site. They are skipped without being fetched.
func DefaultBlocklist() []string {
	return []string{
		BaseURL + "ASGH4A7W",
	}
}

// Config holds all options for one scraper run. It is populated from CLI
// flags plus the optional config file and passed through the application by
// dependency injection rather than global state.
type Config struct {
	// DeckPath is the existing deck to merge into. Empty means create a new
	// deck from scratch.
	DeckPath string

	// OutputPath is where the merged deck file is written.
	OutputPath string

	// TestMode bounds the crawl to a single grammar-point page.
	TestMode bool

	// TestURL overrides the default single-mode target. Only meaningful
	// with TestMode set.
	TestURL string

	// LevelIndexes are the index pages walked in full mode.
	LevelIndexes []string

	// Blocklist contains page URLs that are never fetched.
	Blocklist []string

	// Delay is the minimum pause between requests.
	Delay time.Duration

	// Jitter is the maximum random extra pause added per request.
	Jitter time.Duration

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// MaxRetries bounds transient-failure retries per page.
	MaxRetries int

	// UserAgent is sent with every request.
	UserAgent string

	// MaxBodySize limits response body reads, in bytes.
	MaxBodySize int64

	// Verbose enables debug logging.
	Verbose bool

	// JSONReport selects JSON run-report output. Mutually exclusive with
	// MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown run-report output.
	MarkdownReport bool

	// ReportFile writes the run report to a file instead of stdout.
	ReportFile string

	// ConfigFilePath is an explicit config file path; empty means search
	// the standard locations.
	ConfigFilePath string
}

// NewConfig returns a Config with all defaults applied.
func NewConfig() *Config {
	return &Config{
		OutputPath:   DefaultOutputPath,
		LevelIndexes: DefaultLevelIndexes(),
		Blocklist:    DefaultBlocklist(),
		Delay:        DefaultDelay,
		Jitter:       DefaultJitter,
		Timeout:      DefaultTimeout,
		MaxRetries:   DefaultMaxRetries,
		UserAgent:    DefaultUserAgent,
		MaxBodySize:  DefaultMaxBodySize,
	}
}

// XDGConfigDir returns the XDG config directory for the scraper, used as the
// last stop when searching for the config file.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGDataDir returns the XDG data directory for the scraper.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration, returning the first problem found.
// Called once after flag parsing, before any network activity.
func (c *Config) Validate() error {
	if c.OutputPath == "" {
		return ErrNoOutputPath
	}
	if c.TestURL != "" && !c.TestMode {
		// Not literally required by the crawl logic, but enforcing the
		// pairing catches the common mistake of passing --test-url alone
		// and expecting a bounded run.
		return ErrTestURLWithoutTest
	}
	if c.TestURL != "" {
		if err := ValidateGrammarPointURL(c.TestURL); err != nil {
			return err
		}
	}
	if c.Delay < 0 || c.Jitter < 0 {
		return ErrInvalidDelay
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxRetries < 0 {
		return ErrInvalidMaxRetries
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}

// ValidateGrammarPointURL checks that a URL is a plausible grammar-point
// page: absolute, under the grammar base URL, and not one of the level
// index pages.
func ValidateGrammarPointURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidGrammarPointURL
	}
	if !strings.HasPrefix(raw, BaseURL) {
		return ErrInvalidGrammarPointURL
	}
	for _, index := range DefaultLevelIndexes() {
		if strings.EqualFold(raw, index) {
			return ErrInvalidGrammarPointURL
		}
	}
	return nil
}
