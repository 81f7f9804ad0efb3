package model

// DeckMeta is the deck-level metadata stored in the flashcard container.
// The ID must stay fixed across runs so the flashcard application recognizes
// re-imports as updates to the same deck rather than a new deck.
type DeckMeta struct {
	// ID is the deck's long-lived numeric identity.
	ID int64

	// Name is the learner-visible deck name.
	Name string
}

// Deck is the persisted card collection. Cards are keyed by their long-lived
// identifier (the note ID the flashcard format uses to correlate scheduling
// state); Order preserves insertion order for deterministic output.
//
// Invariant: identifiers are unique within a deck. Once an identifier has
// been assigned to a content key, every subsequent merge that sees that key
// reuses the identifier, for as long as the deck is supplied as the merge
// base.
type Deck struct {
	// Meta is the deck metadata.
	Meta DeckMeta

	// Cards maps identifier to card fields.
	Cards map[int64]CardFields

	// Order lists identifiers in insertion order.
	Order []int64
}

// NewDeck creates an empty deck with the given metadata.
func NewDeck(meta DeckMeta) *Deck {
	return &Deck{
		Meta:  meta,
		Cards: make(map[int64]CardFields),
		Order: make([]int64, 0),
	}
}

// Put inserts or overwrites the card stored under id. Insertion order is
// recorded on first insert only; overwriting keeps the original position.
func (d *Deck) Put(id int64, card CardFields) {
	if _, exists := d.Cards[id]; !exists {
		d.Order = append(d.Order, id)
	}
	d.Cards[id] = card
}

// Card returns the card stored under id.
func (d *Deck) Card(id int64) (CardFields, bool) {
	c, ok := d.Cards[id]
	return c, ok
}

// Len returns the number of cards in the deck.
func (d *Deck) Len() int {
	return len(d.Order)
}

// IdentifiersByContentKey builds the content_key -> identifier lookup that
// makes identity preservation across runs possible. The deck retains the
// content key for exactly this purpose; without it, re-running the scraper
// would silently reset every card's learning history.
//
// Design decision: The lookup is built fresh per call rather than maintained
// incrementally because merge is the only consumer and runs once per
// invocation. No process-wide correlation state exists.
func (d *Deck) IdentifiersByContentKey() map[string]int64 {
	lookup := make(map[string]int64, len(d.Cards))
	for _, id := range d.Order {
		lookup[d.Cards[id].ContentKey] = id
	}
	return lookup
}
