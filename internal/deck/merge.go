package deck

import (
	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/model"
)

// Stats summarizes one merge for the run report.
type Stats struct {
	// New counts cards that received a fresh identifier.
	New int

	// Updated counts cards that reused an existing identifier.
	Updated int

	// Retained counts existing cards the scrape no longer produced. They
	// stay in the deck: a page that failed to fetch this run, or a grammar
	// point removed from the site, must not cost the learner their cards.
	Retained int
}

// Merge combines scraped cards with an existing deck into a new deck.
//
// For each scraped card, the existing deck is consulted by content key: a
// match reuses the identifier with the card's fields overwritten wholesale
// (scrape output is authoritative for content; the identifier is
// authoritative for scheduling state). A miss allocates a fresh identifier.
// Existing cards whose key was not produced by this scrape are carried over
// unchanged. Output order is scraped cards in scrape order, then retained
// cards in their prior order.
//
// Merge never mutates existing and is idempotent: merging the same cards
// into its own output yields the same deck with zero new identifiers. A nil
// existing deck is treated as empty.
func Merge(existing *model.Deck, cards []model.CardFields, alloc *Allocator) (*model.Deck, Stats) {
	if existing == nil {
		existing = model.NewDeck(model.DeckMeta{})
	}

	merged := model.NewDeck(existing.Meta)
	var stats Stats

	lookup := existing.IdentifiersByContentKey()
	consumed := make(map[int64]bool, len(cards))

	for _, fields := range cards {
		id, known := lookup[fields.ContentKey]
		if known {
			if !consumed[id] {
				stats.Updated++
			}
			consumed[id] = true
		} else {
			id = alloc.Next()
			lookup[fields.ContentKey] = id
			consumed[id] = true
			stats.New++
		}
		merged.Put(id, fields)
	}

	for _, id := range existing.Order {
		if consumed[id] {
			continue
		}
		fields, ok := existing.Card(id)
		if !ok {
			continue
		}
		merged.Put(id, fields)
		stats.Retained++
	}

	return merged, stats
}
