// Package deck merges freshly scraped cards into an existing deck while
// preserving each card's long-lived identifier. Identity is correlated
// through the content key stored on every card: a scraped card whose key
// already exists in the deck reuses that card's identifier (keeping the
// learner's scheduling state attached), a new key gets a fresh identifier,
// and existing cards whose key no longer appears in the scrape are retained
// untouched.
package deck
