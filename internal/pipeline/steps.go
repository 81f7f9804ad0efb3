package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/anki"
	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/card"
	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/crawler"
	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/deck"
	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/model"
)

// LoadDeckStep reads the existing deck before any network traffic happens.
//
// Design decision: A missing deck file and a malformed deck file are
// different situations. Missing means a fresh start (first run, or the user
// chose a new path) and proceeds with an empty deck. Malformed means the
// learner's review history exists but cannot be read; proceeding would
// regenerate every identifier and orphan that history, so it fails the run.
type LoadDeckStep struct {
	logger *slog.Logger
}

// NewLoadDeckStep creates a LoadDeckStep.
func NewLoadDeckStep(logger *slog.Logger) *LoadDeckStep {
	return &LoadDeckStep{logger: logger}
}

// Name returns the step name.
func (s *LoadDeckStep) Name() string {
	return "load_deck"
}

// Do loads the existing deck into the run.
func (s *LoadDeckStep) Do(_ context.Context, run *Run) error {
	if run.DeckPath == "" {
		run.Existing = model.NewDeck(run.Meta)
		return nil
	}

	if _, err := os.Stat(run.DeckPath); os.IsNotExist(err) {
		s.logger.Warn("existing deck not found, starting fresh", "path", run.DeckPath)
		run.Existing = model.NewDeck(run.Meta)
		return nil
	}

	existing, err := anki.Decode(run.DeckPath)
	if err != nil {
		return fmt.Errorf("failed to load existing deck: %w", err)
	}

	// Decode degrades to zero meta when the deck metadata blob is missing
	// or unreadable. The output must still carry the configured deck
	// identity, or re-imports stop matching the learner's deck.
	if existing.Meta == (model.DeckMeta{}) {
		s.logger.Warn("existing deck has no readable metadata, using configured deck identity",
			"path", run.DeckPath, "deckID", run.Meta.ID)
		existing.Meta = run.Meta
	}

	s.logger.Info("loaded existing deck", "path", run.DeckPath, "cards", existing.Len())
	run.Existing = existing
	return nil
}

// CrawlStep drives the crawl sequence and builds cards from each record.
// Page failures are logged and counted, never fatal.
type CrawlStep struct {
	coordinator *crawler.Coordinator
	builder     *card.Builder
	logger      *slog.Logger
}

// NewCrawlStep creates a CrawlStep.
func NewCrawlStep(coordinator *crawler.Coordinator, builder *card.Builder, logger *slog.Logger) *CrawlStep {
	return &CrawlStep{
		coordinator: coordinator,
		builder:     builder,
		logger:      logger,
	}
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do pulls the crawl sequence to exhaustion, accumulating cards and
// statistics on the run.
func (s *CrawlStep) Do(ctx context.Context, run *Run) error {
	it := s.coordinator.Crawl(run.Mode)

	for {
		result, ok := it.Next(ctx)
		if !ok {
			break
		}
		if result.Err != nil {
			s.logger.Warn("skipping page",
				"url", result.URL,
				"reason", crawler.FailureReason(result.Err),
				"error", result.Err,
			)
			continue
		}

		built := s.builder.Build(result.Record)
		s.logger.Debug("built cards",
			"url", result.URL,
			"title", result.Record.Title,
			"cards", len(built),
		)
		run.Cards = append(run.Cards, built...)
	}

	run.Stats.Crawl = it.Stats()
	if err := ctx.Err(); err != nil {
		return err
	}

	s.logger.Info("crawl finished",
		"attempted", run.Stats.Crawl.Attempted,
		"succeeded", run.Stats.Crawl.Succeeded,
		"failed", run.Stats.Crawl.Failed,
		"cards", len(run.Cards),
	)
	return nil
}

// MergeStep merges the scraped cards into the existing deck.
type MergeStep struct {
	alloc  *deck.Allocator
	logger *slog.Logger
}

// NewMergeStep creates a MergeStep.
func NewMergeStep(alloc *deck.Allocator, logger *slog.Logger) *MergeStep {
	return &MergeStep{alloc: alloc, logger: logger}
}

// Name returns the step name.
func (s *MergeStep) Name() string {
	return "merge"
}

// Do merges cards into the deck and records merge statistics.
func (s *MergeStep) Do(_ context.Context, run *Run) error {
	merged, stats := deck.Merge(run.Existing, run.Cards, s.alloc)
	run.Merged = merged
	run.Stats.Merge = stats

	s.logger.Info("merge finished",
		"new", stats.New,
		"updated", stats.Updated,
		"retained", stats.Retained,
		"total", merged.Len(),
	)
	return nil
}

// WriteDeckStep writes the merged deck as an .apkg file.
type WriteDeckStep struct {
	logger *slog.Logger
}

// NewWriteDeckStep creates a WriteDeckStep.
func NewWriteDeckStep(logger *slog.Logger) *WriteDeckStep {
	return &WriteDeckStep{logger: logger}
}

// Name returns the step name.
func (s *WriteDeckStep) Name() string {
	return "write_deck"
}

// Do writes the output package.
func (s *WriteDeckStep) Do(_ context.Context, run *Run) error {
	if run.Merged == nil || run.Merged.Len() == 0 {
		s.logger.Warn("nothing to export", "output", run.OutputPath)
		return nil
	}

	if err := anki.EncodeFile(run.Merged, run.OutputPath); err != nil {
		return fmt.Errorf("failed to write deck: %w", err)
	}

	s.logger.Info("wrote deck", "output", run.OutputPath, "cards", run.Merged.Len())
	return nil
}
