package pipeline

import (
	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/crawler"
	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/deck"
	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/model"
)

// Run is the shared state a scrape run accumulates as it moves through the
// pipeline. Each step reads what earlier steps produced and writes its own
// results back.
type Run struct {
	// DeckPath is the existing .apkg to merge into. Empty means start from
	// an empty deck.
	DeckPath string

	// OutputPath is where the merged .apkg is written.
	OutputPath string

	// Meta is the deck identity for the output package.
	Meta model.DeckMeta

	// Mode selects what to crawl.
	Mode crawler.Mode

	// Existing is the deck loaded from DeckPath (set by LoadDeckStep).
	Existing *model.Deck

	// Cards are the flashcards built from the crawl (set by CrawlStep).
	Cards []model.CardFields

	// Merged is the merge result (set by MergeStep).
	Merged *model.Deck

	// Stats accumulates per-phase statistics for the run report.
	Stats RunStats

	// PerformedSteps lists the names of steps that ran.
	PerformedSteps []string

	// Err is the first critical error a step reported, if any.
	Err error
}

// RunStats aggregates the numbers the run report prints.
type RunStats struct {
	// Crawl holds page-level counts.
	Crawl crawler.Stats

	// Merge holds card-level counts.
	Merge deck.Stats
}

// NewRun creates the initial run state.
func NewRun(deckPath, outputPath string, meta model.DeckMeta, mode crawler.Mode) *Run {
	return &Run{
		DeckPath:   deckPath,
		OutputPath: outputPath,
		Meta:       meta,
		Mode:       mode,
	}
}
