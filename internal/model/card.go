package model

import "strings"

// NoteModel selects which Anki note model a card uses. The reference deck
// uses three templates: plain translation cards, and "is this grammatical?"
// cards for correct and incorrect usage examples.
type NoteModel int

const (
	// NoteTranslation is the default front-hanzi / back-translation card.
	NoteTranslation NoteModel = iota

	// NoteValidExample asks whether the sentence is grammatical; the answer
	// is "correct".
	NoteValidExample

	// NoteInvalidExample asks the same question; the answer is "not correct".
	NoteInvalidExample
)

// String returns the note model name.
func (m NoteModel) String() string {
	switch m {
	case NoteValidExample:
		return "valid_example"
	case NoteInvalidExample:
		return "invalid_example"
	default:
		return "translation"
	}
}

// CardFields holds everything needed to populate one flashcard. The field set
// mirrors the reference deck's note type: hanzi, pinyin, translation, notes,
// structure pattern, source URL, and article title, in that order.
//
// Invariant: ContentKey is deterministic for the same source content and is
// never derived from Pinyin or Translation.
type CardFields struct {
	// Hanzi is the card's Chinese text. For dialogs, all turns joined with
	// "<br>" and prefixed with their speaker labels (cards render as HTML).
	Hanzi string

	// Pinyin is the reading, possibly filled in by the builder when the
	// source omits it. May be empty.
	Pinyin string

	// Translation is the English text. May be empty.
	Translation string

	// Notes is the per-example explanation, possibly empty.
	Notes string

	// Structure is the grammar point's structure pattern.
	Structure string

	// SourceURL is the grammar-point page the card came from.
	SourceURL string

	// Title is the grammar point's article title.
	Title string

	// Model selects the note template.
	Model NoteModel

	// Tags are the deck tags, sorted. Always includes the level tag and the
	// structure-pattern tag when a pattern exists.
	Tags []string

	// ContentKey is the stable content fingerprint (see ContentKey).
	ContentKey string
}

// Front returns the learner-facing question text.
func (c CardFields) Front() string {
	return c.Hanzi
}

// Back returns the learner-facing answer text: pinyin, translation, and the
// explanation excerpt, separated with "<br>" as the deck templates render
// HTML line breaks.
func (c CardFields) Back() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{c.Pinyin, c.Translation, c.Notes} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "<br>")
}

// HasTag reports whether the card carries the given tag.
func (c CardFields) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
