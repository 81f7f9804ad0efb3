// Package model defines the core data structures shared across the scraper:
// grammar-point records extracted from the wiki, flashcard fields derived
// from them, and the persisted deck that carries learner-visible card
// identity across runs.
//
// Records and examples are transient; they exist only for the duration of a
// crawl and are folded into cards. The Deck is the only persisted entity.
// The content key computed here is the linchpin of identity preservation:
// it is derived purely from the grammar-point title and the hanzi text, so
// upstream corrections to pinyin or translations do not change a card's
// identity.
package model
