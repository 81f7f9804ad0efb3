package anki

import "errors"

var (
	// ErrMalformedDeck is returned when an existing .apkg cannot be read.
	// Callers treat this as fatal: silently proceeding with an empty deck
	// would regenerate every card and orphan the learner's review history.
	ErrMalformedDeck = errors.New("malformed anki package")

	// ErrNoCollection is returned when the archive contains neither
	// collection.anki2 nor collection.anki21.
	ErrNoCollection = errors.New("no collection database in anki package")
)
