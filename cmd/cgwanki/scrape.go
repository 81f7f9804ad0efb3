package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/card"
	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/config"
	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/crawler"
	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/deck"
	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/fetch"
	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/log"
	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/model"
	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/pipeline"
	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/report"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape grammar-point examples and write an Anki deck",
		Long: `Scrape crawls the Chinese Grammar Wiki level indexes, fetches every
grammar-point page, and extracts its example sentences and dialogs into
Anki flashcards.

Pages are fetched one at a time with a polite delay between requests.
Pages that fail to fetch or parse are skipped and counted; they never
abort the run.

Examples:
  # Scrape everything into a new deck
  cgwanki scrape

  # Merge new examples into an existing deck, keeping review history
  cgwanki scrape --deck decks/cgw_examples.apkg

  # Verify the setup against a single page
  cgwanki scrape --test

  # Verify against a specific grammar point
  cgwanki scrape --test --test-url https://resources.allsetlearning.com/chinese/grammar/Aspect_particle_%22le%22

  # Output a JSON run report
  cgwanki scrape --json

Configuration file (.cgwanki) example:
  userAgent: "my own user agent"
  delaySeconds: 2.5
  blocklist:
    - https://resources.allsetlearning.com/chinese/grammar/SOMEPAGE`,
		Args: cobra.NoArgs,
		RunE: runScrapeCmd,
	}

	// Deck flags
	cmd.Flags().StringP("deck", "d", "",
		"Path to existing .apkg deck to update with new examples (a new deck is created if not specified)")
	cmd.Flags().StringP("output", "o", config.DefaultOutputPath,
		"Output path for the generated deck")

	// Test mode flags
	cmd.Flags().BoolP("test", "t", false,
		"Only scrape a single grammar-point page (for verifying setup)")
	cmd.Flags().String("test-url", "",
		"Grammar-point page to scrape in --test mode (requires --test)")

	// Fetch behavior flags
	cmd.Flags().Duration("delay", config.DefaultDelay,
		"Minimum pause between requests")
	cmd.Flags().Duration("timeout", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().Int("max-retries", config.DefaultMaxRetries,
		"Retries per page on transient fetch failures")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .cgwanki in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON run report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown run report (mutually exclusive with --json)")
	cmd.Flags().String("report", "",
		"Write the run report to the specified file in addition to stdout")

	return cmd
}

// runScrapeCmd executes the scrape command.
func runScrapeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScrape(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the optional
// config file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.DeckPath, err = cmd.Flags().GetString("deck")
	if err != nil {
		return nil, err
	}

	cfg.OutputPath, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.TestMode, err = cmd.Flags().GetBool("test")
	if err != nil {
		return nil, err
	}

	cfg.TestURL, err = cmd.Flags().GetString("test-url")
	if err != nil {
		return nil, err
	}

	cfg.Delay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.MaxRetries, err = cmd.Flags().GetInt("max-retries")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load the config file if present. An explicitly specified path must
	// exist; a missing default-location file is fine.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("report")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// runScrape wires the components together and executes the run.
func runScrape(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	client := fetch.NewClient(
		fetch.WithDelay(cfg.Delay),
		fetch.WithJitter(cfg.Jitter),
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithMaxRetries(cfg.MaxRetries),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithLogger(logger),
	)

	coordinator := crawler.NewCoordinator(client, config.BaseURL,
		crawler.WithLevelIndexes(cfg.LevelIndexes),
		crawler.WithBlocklist(cfg.Blocklist),
		crawler.WithLogger(logger),
	)

	builder := card.NewBuilder(card.WithBuilderLogger(logger))

	mode := crawler.Full()
	modeName := "full"
	if cfg.TestMode {
		target := cfg.TestURL
		if target == "" {
			target = config.DefaultTestURL
		}
		mode = crawler.Single(target)
		modeName = "test"
	}

	meta := model.DeckMeta{ID: config.DeckID, Name: config.DeckName}
	run := pipeline.NewRun(cfg.DeckPath, cfg.OutputPath, meta, mode)

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewLoadDeckStep(logger),
		pipeline.NewCrawlStep(coordinator, builder, logger),
		pipeline.NewMergeStep(deck.NewAllocator(), logger),
		pipeline.NewWriteDeckStep(logger),
	)

	logger.Info("starting scrape",
		"mode", modeName,
		"deck", cfg.DeckPath,
		"output", cfg.OutputPath,
	)

	execErr := p.Execute(ctx, run)

	// The report is written even when the run failed: partial statistics
	// tell the user how far it got.
	summary := buildSummary(run, meta, modeName, execErr)
	if err := writeReport(cfg, summary); err != nil {
		logger.Error("failed to write run report", "error", err)
		if execErr == nil {
			execErr = err
		}
	}

	return execErr
}

// buildSummary collects run state into the report summary.
func buildSummary(run *pipeline.Run, meta model.DeckMeta, modeName string, execErr error) *report.Summary {
	summary := &report.Summary{
		GeneratedAt:      time.Now(),
		Mode:             modeName,
		DeckName:         meta.Name,
		PagesAttempted:   run.Stats.Crawl.Attempted,
		PagesSucceeded:   run.Stats.Crawl.Succeeded,
		PagesFailed:      run.Stats.Crawl.Failed,
		FailuresByReason: run.Stats.Crawl.FailuresByReason,
		CardsNew:         run.Stats.Merge.New,
		CardsUpdated:     run.Stats.Merge.Updated,
		CardsRetained:    run.Stats.Merge.Retained,
	}
	if run.Merged != nil {
		summary.CardsTotal = run.Merged.Len()
		if run.Merged.Len() > 0 {
			summary.OutputPath = run.OutputPath
		}
	}
	if execErr != nil {
		summary.Error = execErr.Error()
	}
	return summary
}

// writeReport renders the summary to stdout and, when --report is given, to
// a file in the same format.
func writeReport(cfg *config.Config, summary *report.Summary) error {
	newWriter := func(w io.Writer) report.Writer {
		switch {
		case cfg.JSONReport:
			return report.NewJSONWriter(w, report.WithPrettyPrint())
		case cfg.MarkdownReport:
			return report.NewMarkdownWriter(w)
		default:
			return report.NewSimpleWriter(w)
		}
	}

	writers := []report.Writer{newWriter(os.Stdout)}

	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}
		f, err := os.Create(cfg.ReportFile) //nolint:gosec // user-chosen report path
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close() //nolint:errcheck // flushed by Write below
		writers = append(writers, newWriter(f))
	}

	_, err := report.NewMultiWriter(writers...).Write(summary)
	return err
}
