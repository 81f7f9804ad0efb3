package card

import "github.com/snicholasbarton/cgw-to-anki-scraper/internal/model"

// Template IDs are stable 10-digit integers so regenerated decks diff
// cleanly against decks produced by earlier runs instead of overwriting
// unrelated note types.
const (
	// TranslationModelID identifies the plain translation note type.
	TranslationModelID = 2144434948

	// ValidExampleModelID identifies the "is this grammatical? yes" note type.
	ValidExampleModelID = 1139990969

	// InvalidExampleModelID identifies the "is this grammatical? no" note type.
	InvalidExampleModelID = 1513257399
)

// FieldNames is the note field list shared by all three note types, in
// storage order. The hanzi field is first and acts as the sort field.
var FieldNames = []string{
	"中文",
	"Pinyin",
	"English",
	"Notes",
	"Grammar Construct",
	"Source URL",
	"Article Title",
}

// Template describes one Anki note type: its identity plus the HTML used to
// render the question and answer sides.
type Template struct {
	// ID is the note type's stable identifier.
	ID int64

	// Name is the note type's display name.
	Name string

	// Front is the question-side HTML template.
	Front string

	// Back is the answer-side HTML template.
	Back string

	// CSS is the shared card styling.
	CSS string
}

const translationFront = `<div class="hanzi">{{中文}}</div>`

const translationBack = `{{FrontSide}}
<div class="spacer"> </div>
<div class="english">
    <div class="pinyin">{{Pinyin}}</div>
    <div class="spacerSmall"> </div>
    {{English}}
    <div class="spacerMedium"> </div>
    <div class="notes">{{Notes}}</div>
</div>

<div class="lessonInfo">
<div class="spacer"> </div>
<div>Pattern: <span class="lessonInfoHanzi">{{Grammar Construct}}</span></div>
Article: <a href={{Source URL}}>{{Article Title}}</a>
</div>`

const exampleFront = `<div class="header">Is this sentence grammatically correct?</div>
<div class="spacer"> </div>
<div class="hanzi">{{中文}}</div>`

const validExampleBack = `<div class="hanzi">{{中文}}</div>

<div class="english">
    <div class="spacerMedium"> </div>
    <div class="pinyin">{{Pinyin}}</div>
    <div class="spacerSmall"> </div>
    {{English}}
    <div class="spacerMedium"> </div>
    <div class="correct">Correct!</div>
    <div class="spacerMedium"> </div>
    <div class="notes">{{Notes}}</div>
</div>

<div class="lessonInfo">
<div class="spacer"> </div>
<div>Pattern: <span class="lessonInfoHanzi">{{Grammar Construct}}</span></div>
Article: <a href={{Source URL}}>{{Article Title}}</a>
</div>`

const invalidExampleBack = `<div class="hanzi">{{中文}}</div>

<div class="english">
    <div class="spacerMedium"> </div>
    <div class="pinyin">{{Pinyin}}</div>
    <div class="spacerSmall"> </div>
    {{English}}
    <div class="spacerMedium"> </div>
    <div class="incorrect">Not correct!</div>
    <div class="spacerMedium"> </div>
    <div class="notes">{{Notes}}</div>
</div>

<div class="lessonInfo">
<div class="spacer"> </div>
<div>Pattern: <span class="lessonInfoHanzi">{{Grammar Construct}}</span></div>
Article: <a href={{Source URL}}>{{Article Title}}</a>
</div>`

const styling = `.card {
font-family: arial;
font-size: 30px;
text-align: center;
color: black;
background-color: white;
}

.header {
font-family: arial;
font-size: 16px;
}

.hanzi {
font-family: SimSun;
font-size: 28px;
}

.pinyin {
color: gray;
}

.translation {
font-size: 26px;
}

.lessonInfoHanzi {
font-family: SimSun;
font-size: 12px;
}

.lessonInfo {
font-family: arial;
font-size: 10px;
}

.correct {
font-family: arial;
font-size: 26px;
color: green;
font-weight: bold;
}

.incorrect {
font-family: arial;
font-size: 26px;
color: red;
font-weight: bold;
}

.english {
font-family: arial;
font-size: 20px;
}

.notes {
font-family: arial;
font-size: 12px;
color: gray;
}

.spacer {
height: 20px;
}

.spacerSmall {
height: 3px;
}

.spacerMedium {
height: 10px;
}
`

// templates maps each note model to its Anki note type.
var templates = map[model.NoteModel]Template{
	model.NoteTranslation: {
		ID:    TranslationModelID,
		Name:  "CGW Translation",
		Front: translationFront,
		Back:  translationBack,
		CSS:   styling,
	},
	model.NoteValidExample: {
		ID:    ValidExampleModelID,
		Name:  "CGW Valid Example",
		Front: exampleFront,
		Back:  validExampleBack,
		CSS:   styling,
	},
	model.NoteInvalidExample: {
		ID:    InvalidExampleModelID,
		Name:  "CGW Invalid Example",
		Front: exampleFront,
		Back:  invalidExampleBack,
		CSS:   styling,
	},
}

// TemplateFor returns the Anki note type for the given note model.
func TemplateFor(m model.NoteModel) Template {
	if t, ok := templates[m]; ok {
		return t
	}
	return templates[model.NoteTranslation]
}
