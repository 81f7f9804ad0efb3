package model

// ExampleKind distinguishes the two example layouts the wiki uses.
//
// Design decision: We model the layout as a closed tagged variant selected
// by structural sniffing in the parser rather than trial-and-error parsing.
// A page section with successive speaker-labeled lines is one Dialog example;
// isolated hanzi/pinyin/translation triples are Simple examples.
type ExampleKind int

const (
	// ExampleSimple is a single standalone example sentence.
	ExampleSimple ExampleKind = iota

	// ExampleDialog is a multi-turn dialog. All turns belong to one example
	// and produce exactly one card.
	ExampleDialog
)

// String returns a human-readable name for the example kind.
func (k ExampleKind) String() string {
	switch k {
	case ExampleSimple:
		return "simple"
	case ExampleDialog:
		return "dialog"
	default:
		return "unknown"
	}
}

// ExampleLabel marks whether a simple example demonstrates correct or
// incorrect usage. The wiki annotates some examples with "o" (correct) or
// "x" (incorrect) classes; unlabeled examples are plain translations.
type ExampleLabel int

const (
	// LabelNone is an unlabeled example (a plain translation sentence).
	LabelNone ExampleLabel = iota

	// LabelCorrect marks a grammatically correct usage example.
	LabelCorrect

	// LabelIncorrect marks a deliberately wrong usage example.
	LabelIncorrect
)

// String returns a human-readable name for the label.
func (l ExampleLabel) String() string {
	switch l {
	case LabelCorrect:
		return "correct"
	case LabelIncorrect:
		return "incorrect"
	default:
		return "none"
	}
}

// Turn is one line of an example: a sentence with its reading and
// translation. For dialog examples the speaker label is set ("A:", "B:");
// for simple examples it is empty.
//
// Invariant: Hanzi is never empty. Pinyin, Translation, and Notes may be
// empty strings when the source omits them, but they are always present as
// fields so downstream field mapping is total.
type Turn struct {
	// Speaker is the speaker label for dialog turns, empty otherwise.
	Speaker string

	// Hanzi is the Chinese text of the line. Never empty.
	Hanzi string

	// Pinyin is the romanized reading. May be empty (source omission).
	Pinyin string

	// Translation is the English translation. May be empty.
	Translation string

	// Notes is the inline explanation attached to the line, if any.
	Notes string
}

// ExampleRecord is a single example extracted from a grammar-point page.
// Simple examples have exactly one turn; dialog examples have the full
// ordered turn sequence.
type ExampleRecord struct {
	// Kind selects the layout variant.
	Kind ExampleKind

	// Label applies to simple examples only (correct/incorrect/none).
	// Dialogs are always plain translations.
	Label ExampleLabel

	// Turns holds the example content. len(Turns) == 1 for ExampleSimple.
	Turns []Turn
}

// GrammarPointRecord is the normalized form of one grammar-point page.
//
// Invariant: Title is never empty. A page from which no title can be
// extracted is a parse failure, not a valid zero-example record. Examples
// may be empty for explanation-only pages.
type GrammarPointRecord struct {
	// Title is the grammar point's article title.
	Title string

	// Level is the difficulty level the point was indexed under.
	Level Level

	// StructurePattern is the pattern summary (e.g. "Subj. + 很 + Adj."),
	// empty when the page has no structure block.
	StructurePattern string

	// Explanation is the prose explanation excerpt, possibly empty.
	Explanation string

	// SourceURL is the page the record was extracted from.
	SourceURL string

	// Examples is the ordered example list, possibly empty.
	Examples []ExampleRecord
}
