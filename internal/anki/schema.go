package anki

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/card"
	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/model"
)

// collectionSchema is the Anki 2 collection schema. Only the tables the
// desktop client requires to import a package are populated; revlog and
// graves exist but stay empty for a freshly generated deck.
const collectionSchema = `
CREATE TABLE IF NOT EXISTS col (
	id INTEGER PRIMARY KEY,
	crt INTEGER NOT NULL,
	mod INTEGER NOT NULL,
	scm INTEGER NOT NULL,
	ver INTEGER NOT NULL,
	dty INTEGER NOT NULL,
	usn INTEGER NOT NULL,
	ls INTEGER NOT NULL,
	conf TEXT NOT NULL,
	models TEXT NOT NULL,
	decks TEXT NOT NULL,
	dconf TEXT NOT NULL,
	tags TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS notes (
	id INTEGER PRIMARY KEY,
	guid TEXT NOT NULL,
	mid INTEGER NOT NULL,
	mod INTEGER NOT NULL,
	usn INTEGER NOT NULL,
	tags TEXT NOT NULL,
	flds TEXT NOT NULL,
	sfld TEXT NOT NULL,
	csum INTEGER NOT NULL,
	flags INTEGER NOT NULL,
	data TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS cards (
	id INTEGER PRIMARY KEY,
	nid INTEGER NOT NULL,
	did INTEGER NOT NULL,
	ord INTEGER NOT NULL,
	mod INTEGER NOT NULL,
	usn INTEGER NOT NULL,
	type INTEGER NOT NULL,
	queue INTEGER NOT NULL,
	due INTEGER NOT NULL,
	ivl INTEGER NOT NULL,
	factor INTEGER NOT NULL,
	reps INTEGER NOT NULL,
	lapses INTEGER NOT NULL,
	left INTEGER NOT NULL,
	odue INTEGER NOT NULL,
	odid INTEGER NOT NULL,
	flags INTEGER NOT NULL,
	data TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revlog (
	id INTEGER PRIMARY KEY,
	cid INTEGER NOT NULL,
	usn INTEGER NOT NULL,
	ease INTEGER NOT NULL,
	ivl INTEGER NOT NULL,
	lastIvl INTEGER NOT NULL,
	factor INTEGER NOT NULL,
	time INTEGER NOT NULL,
	type INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS graves (
	usn INTEGER NOT NULL,
	oid INTEGER NOT NULL,
	type INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS ix_notes_csum ON notes (csum);
CREATE INDEX IF NOT EXISTS ix_cards_nid ON cards (nid);
CREATE INDEX IF NOT EXISTS ix_cards_sched ON cards (did, queue, due);
`

// collectionConf is the col.conf blob Anki expects on import.
const collectionConf = `{"activeDecks":[1],"addToCur":true,"collapseTime":1200,"curDeck":1,"curModel":null,"dueCounts":true,"estTimes":true,"newBury":true,"newSpread":0,"nextPos":1,"sortBackwards":false,"sortType":"noteFld","timeLim":0}`

// collectionDconf is the default deck-options group.
const collectionDconf = `{"1":{"id":1,"name":"Default","autoplay":true,"dyn":0,"lapse":{"delays":[10],"leechAction":0,"leechFails":8,"minInt":1,"mult":0},"maxTaken":60,"mod":0,"new":{"bury":true,"delays":[1,10],"initialFactor":2500,"ints":[1,4,7],"order":1,"perDay":20,"separate":true},"replayq":true,"rev":{"bury":true,"ease4":1.3,"fuzz":0.05,"ivlFct":1,"maxIvl":36500,"minSpace":1,"perDay":100},"timer":0,"usn":0}}`

// modelsJSON renders the three note types as the col.models blob, keyed by
// model id.
func modelsJSON(deckID int64, now int64) (string, error) {
	flds := make([]map[string]any, 0, len(card.FieldNames))
	for i, name := range card.FieldNames {
		flds = append(flds, map[string]any{
			"name":   name,
			"ord":    i,
			"sticky": false,
			"rtl":    false,
			"font":   "Liberation Sans",
			"size":   20,
			"media":  []string{},
		})
	}

	models := make(map[string]any, 3)
	for _, m := range []model.NoteModel{
		model.NoteTranslation,
		model.NoteValidExample,
		model.NoteInvalidExample,
	} {
		tmpl := card.TemplateFor(m)
		models[strconv.FormatInt(tmpl.ID, 10)] = map[string]any{
			"id":    tmpl.ID,
			"name":  tmpl.Name,
			"type":  0,
			"mod":   now,
			"usn":   0,
			"sortf": 0,
			"did":   deckID,
			"tmpls": []map[string]any{
				{
					"name":  tmpl.Name,
					"ord":   0,
					"qfmt":  tmpl.Front,
					"afmt":  tmpl.Back,
					"bqfmt": "",
					"bafmt": "",
					"did":   nil,
				},
			},
			"flds":      flds,
			"css":       tmpl.CSS,
			"latexPre":  "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n\\usepackage[utf8]{inputenc}\n\\usepackage{amssymb,amsmath}\n\\pagestyle{empty}\n\\setlength{\\parindent}{0in}\n\\begin{document}\n",
			"latexPost": "\\end{document}",
			"latexsvg":  false,
			"req":       []any{[]any{0, "all", []int{0}}},
			"tags":      []string{},
			"vers":      []string{},
		}
	}

	out, err := json.Marshal(models)
	if err != nil {
		return "", fmt.Errorf("failed to serialize note models: %w", err)
	}
	return string(out), nil
}

// decksJSON renders the col.decks blob: the mandatory default deck plus the
// target deck.
func decksJSON(meta model.DeckMeta, now int64) (string, error) {
	deckEntry := func(id int64, name string) map[string]any {
		return map[string]any{
			"id":               id,
			"name":             name,
			"desc":             "",
			"dyn":              0,
			"collapsed":        false,
			"browserCollapsed": false,
			"extendNew":        0,
			"extendRev":        0,
			"lrnToday":         []int{0, 0},
			"newToday":         []int{0, 0},
			"revToday":         []int{0, 0},
			"timeToday":        []int{0, 0},
			"conf":             1,
			"usn":              0,
			"mod":              now,
		}
	}

	decks := map[string]any{
		"1": deckEntry(1, "Default"),
		strconv.FormatInt(meta.ID, 10): deckEntry(meta.ID, meta.Name),
	}

	out, err := json.Marshal(decks)
	if err != nil {
		return "", fmt.Errorf("failed to serialize decks: %w", err)
	}
	return string(out), nil
}

// noteModelByID maps a stored note-type id back to the builder's model enum.
func noteModelByID(mid int64) model.NoteModel {
	switch mid {
	case card.ValidExampleModelID:
		return model.NoteValidExample
	case card.InvalidExampleModelID:
		return model.NoteInvalidExample
	default:
		return model.NoteTranslation
	}
}
