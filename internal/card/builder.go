package card

import (
	"log/slog"
	"sort"
	"strings"

	pinyinlib "github.com/mozillazg/go-pinyin"

	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/model"
)

// lineBreak joins dialog turns inside one field. Cards render as HTML, so
// line breaks are <br>, never \n.
const lineBreak = "<br>"

// Builder maps normalized records to flashcard fields.
type Builder struct {
	// logger for structured logging.
	logger *slog.Logger

	// pinyinArgs configures the fallback reading generator.
	pinyinArgs pinyinlib.Args
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithBuilderLogger sets a custom logger.
func WithBuilderLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	args := pinyinlib.NewArgs()
	args.Style = pinyinlib.Tone
	// Pass non-hanzi runes (punctuation, latin) through unchanged so the
	// generated reading lines up with the sentence.
	args.Fallback = func(r rune, _ pinyinlib.Args) []string {
		return []string{string(r)}
	}

	b := &Builder{
		logger:     slog.Default(),
		pinyinArgs: args,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build maps one record to its cards. Deterministic for a given record:
// every example yields exactly one card, dialogs included, and the card's
// content key depends only on the title and the hanzi text.
func (b *Builder) Build(record *model.GrammarPointRecord) []model.CardFields {
	cards := make([]model.CardFields, 0, len(record.Examples))
	for _, example := range record.Examples {
		var fields model.CardFields
		switch example.Kind {
		case model.ExampleDialog:
			fields = b.buildDialog(record, example)
		default:
			fields = b.buildSimple(record, example)
		}

		if fields.Pinyin == "" && fields.Hanzi != "" {
			fields.Pinyin = b.fallbackPinyin(fields.Hanzi)
			b.logger.Debug("generated fallback pinyin",
				"url", record.SourceURL, "hanzi", fields.Hanzi)
		}

		cards = append(cards, fields)
	}
	return cards
}

// buildSimple maps a single-sentence example to a card. The note model
// follows the example's correctness label.
func (b *Builder) buildSimple(record *model.GrammarPointRecord, example model.ExampleRecord) model.CardFields {
	turn := example.Turns[0]

	noteModel := model.NoteTranslation
	switch example.Label {
	case model.LabelCorrect:
		noteModel = model.NoteValidExample
	case model.LabelIncorrect:
		noteModel = model.NoteInvalidExample
	}

	return model.CardFields{
		Hanzi:       turn.Hanzi,
		Pinyin:      turn.Pinyin,
		Translation: turn.Translation,
		Notes:       turn.Notes,
		Structure:   record.StructurePattern,
		SourceURL:   record.SourceURL,
		Title:       record.Title,
		Model:       noteModel,
		Tags:        b.tags(record),
		ContentKey:  model.ContentKey(record.Title, turn.Hanzi),
	}
}

// buildDialog folds all turns of a dialog into one card. Each per-turn field
// is prefixed with the speaker label and the lines are joined with <br>;
// empty pinyin/translation/notes lines are dropped rather than rendered as
// blank rows. Dialogs are always plain translation cards.
//
// The speaker labels are presentation only: the content key is computed from
// the bare hanzi turns, so relabeling speakers does not orphan review
// history.
func (b *Builder) buildDialog(record *model.GrammarPointRecord, example model.ExampleRecord) model.CardFields {
	hanziLines := make([]string, 0, len(example.Turns))
	pinyinLines := make([]string, 0, len(example.Turns))
	transLines := make([]string, 0, len(example.Turns))
	noteLines := make([]string, 0, len(example.Turns))
	keyParts := make([]string, 0, len(example.Turns))

	for _, turn := range example.Turns {
		hanziLines = append(hanziLines, prependSpeaker(turn.Speaker, turn.Hanzi))
		if turn.Pinyin != "" {
			pinyinLines = append(pinyinLines, prependSpeaker(turn.Speaker, turn.Pinyin))
		}
		if turn.Translation != "" {
			transLines = append(transLines, prependSpeaker(turn.Speaker, turn.Translation))
		}
		if turn.Notes != "" {
			noteLines = append(noteLines, prependSpeaker(turn.Speaker, turn.Notes))
		}
		keyParts = append(keyParts, turn.Hanzi)
	}

	return model.CardFields{
		Hanzi:       strings.Join(hanziLines, lineBreak),
		Pinyin:      strings.Join(pinyinLines, lineBreak),
		Translation: strings.Join(transLines, lineBreak),
		Notes:       strings.Join(noteLines, lineBreak),
		Structure:   record.StructurePattern,
		SourceURL:   record.SourceURL,
		Title:       record.Title,
		Model:       model.NoteTranslation,
		Tags:        b.tags(record),
		ContentKey:  model.ContentKey(record.Title, keyParts...),
	}
}

// tags returns the sorted deck tags for a record: the level tag plus a
// slugged structure-pattern tag when the page carries a pattern.
func (b *Builder) tags(record *model.GrammarPointRecord) []string {
	var tags []string
	if record.Level != model.LevelUnknown && record.Level != "" {
		tags = append(tags, record.Level.Tag())
	}
	if slug := slugTag(record.StructurePattern); slug != "" {
		tags = append(tags, "pattern::"+slug)
	}
	sort.Strings(tags)
	return tags
}

// slugTag makes a string usable as an Anki tag. Tags are space-separated in
// the collection, so internal whitespace becomes hyphens.
func slugTag(s string) string {
	return strings.Join(strings.Fields(s), "-")
}

// prependSpeaker prefixes a dialog line with its speaker label.
func prependSpeaker(speaker, text string) string {
	if speaker == "" {
		return text
	}
	return speaker + " " + text
}

// fallbackPinyin generates a Tone-style reading for hanzi the source left
// unannotated. Heteronyms get their most common reading; the wiki's own
// pinyin is always preferred when present.
func (b *Builder) fallbackPinyin(hanzi string) string {
	var sb strings.Builder
	for _, candidates := range pinyinlib.Pinyin(hanzi, b.pinyinArgs) {
		if len(candidates) > 0 {
			sb.WriteString(candidates[0])
		}
	}
	return sb.String()
}
