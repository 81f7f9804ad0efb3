package anki

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/card"
	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/model"
)

var testMeta = model.DeckMeta{ID: 1111957820, Name: "Chinese Grammar Wiki Examples"}

// testDeck builds a small deck spanning all three note models.
func testDeck() *model.Deck {
	d := model.NewDeck(testMeta)
	d.Put(1700000000001, model.CardFields{
		Hanzi:       "我不知道。",
		Pinyin:      "wǒ bù zhīdào",
		Translation: "I don't know.",
		Notes:       "very common",
		Structure:   "Subj. + 不 + Verb",
		SourceURL:   "https://resources.allsetlearning.com/chinese/grammar/Negation_with_bu",
		Title:       "Negation with bu",
		Model:       model.NoteTranslation,
		Tags:        []string{"level::A1", "pattern::Subj.-+-不-+-Verb"},
		ContentKey:  "key-translation",
	})
	d.Put(1700000000002, model.CardFields{
		Hanzi:      "我不去。",
		Pinyin:     "wǒ bù qù.",
		Title:      "Negation with bu",
		Model:      model.NoteValidExample,
		ContentKey: "key-valid",
	})
	d.Put(1700000000003, model.CardFields{
		Hanzi:      "我没去。",
		Title:      "Negation with bu",
		Model:      model.NoteInvalidExample,
		ContentKey: "key-invalid",
	})
	return d
}

// TestCodecRoundTrip tests that a deck survives encode and decode.
func TestCodecRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "roundtrip.apkg")
	original := testDeck()

	if err := EncodeFile(original, path); err != nil {
		t.Fatalf("EncodeFile: %v", err)
	}

	decoded, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if decoded.Meta != original.Meta {
		t.Errorf("Meta = %+v, want %+v", decoded.Meta, original.Meta)
	}
	if decoded.Len() != original.Len() {
		t.Fatalf("Len = %d, want %d", decoded.Len(), original.Len())
	}

	for _, id := range original.Order {
		want, _ := original.Card(id)
		got, ok := decoded.Card(id)
		if !ok {
			t.Fatalf("card %d missing after round-trip", id)
		}

		if got.Hanzi != want.Hanzi || got.Pinyin != want.Pinyin ||
			got.Translation != want.Translation || got.Notes != want.Notes ||
			got.Structure != want.Structure || got.SourceURL != want.SourceURL ||
			got.Title != want.Title {
			t.Errorf("card %d fields changed: got %+v, want %+v", id, got, want)
		}
		if got.ContentKey != want.ContentKey {
			t.Errorf("card %d ContentKey = %q, want %q", id, got.ContentKey, want.ContentKey)
		}
		if got.Model != want.Model {
			t.Errorf("card %d Model = %v, want %v", id, got.Model, want.Model)
		}
		if len(got.Tags) != len(want.Tags) {
			t.Errorf("card %d Tags = %v, want %v", id, got.Tags, want.Tags)
		}
	}

	// Note ids are allocated in increasing order, so id order reproduces
	// insertion order for decks we wrote ourselves.
	for i, id := range original.Order {
		if decoded.Order[i] != id {
			t.Errorf("Order[%d] = %d, want %d", i, decoded.Order[i], id)
		}
	}
}

// TestEncodeFileCreatesDirectories tests output path handling.
func TestEncodeFileCreatesDirectories(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "decks", "nested", "out.apkg")
	if err := EncodeFile(testDeck(), path); err != nil {
		t.Fatalf("EncodeFile: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected output file: %v", err)
	}
}

// TestEncodeArchiveLayout tests the .apkg container contents.
func TestEncodeArchiveLayout(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "layout.apkg")
	if err := EncodeFile(testDeck(), path); err != nil {
		t.Fatalf("EncodeFile: %v", err)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("output is not a zip: %v", err)
	}
	defer zr.Close() //nolint:errcheck // read-only archive

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	if !names["collection.anki2"] {
		t.Error("missing collection.anki2")
	}
	if !names["media"] {
		t.Error("missing media manifest")
	}
}

// TestDecodeMalformed tests malformed input classification.
func TestDecodeMalformed(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := Decode(filepath.Join(t.TempDir(), "nope.apkg"))
		if !errors.Is(err, ErrMalformedDeck) {
			t.Errorf("expected ErrMalformedDeck, got %v", err)
		}
	})

	t.Run("not a zip archive", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "junk.apkg")
		if err := os.WriteFile(path, []byte("not a zip"), 0600); err != nil {
			t.Fatal(err)
		}

		_, err := Decode(path)
		if !errors.Is(err, ErrMalformedDeck) {
			t.Errorf("expected ErrMalformedDeck, got %v", err)
		}
	})

	t.Run("zip without collection database", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "empty.apkg")
		f, err := os.Create(path)
		if err != nil {
			t.Fatal(err)
		}
		zw := zip.NewWriter(f)
		entry, err := zw.Create("media")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := entry.Write([]byte("{}")); err != nil {
			t.Fatal(err)
		}
		if err := zw.Close(); err != nil {
			t.Fatal(err)
		}
		if err := f.Close(); err != nil {
			t.Fatal(err)
		}

		_, err = Decode(path)
		if !errors.Is(err, ErrNoCollection) {
			t.Errorf("expected ErrNoCollection, got %v", err)
		}
	})
}

// TestCardFromNote tests tolerance for notes written by other tools.
func TestCardFromNote(t *testing.T) {
	t.Parallel()

	t.Run("short field lists read back as empty strings", func(t *testing.T) {
		t.Parallel()

		fields := cardFromNote("key", card.TranslationModelID, "", "我不知道。\x1fwǒ bù zhīdào")

		if fields.Hanzi != "我不知道。" {
			t.Errorf("Hanzi = %q", fields.Hanzi)
		}
		if fields.Pinyin != "wǒ bù zhīdào" {
			t.Errorf("Pinyin = %q", fields.Pinyin)
		}
		if fields.Translation != "" || fields.Title != "" {
			t.Error("expected missing fields to be empty")
		}
	})

	t.Run("unknown model id falls back to translation", func(t *testing.T) {
		t.Parallel()

		fields := cardFromNote("key", 999, "", "我。")
		if fields.Model != model.NoteTranslation {
			t.Errorf("Model = %v, want translation", fields.Model)
		}
	})

	t.Run("tags are split on whitespace", func(t *testing.T) {
		t.Parallel()

		fields := cardFromNote("key", card.TranslationModelID, " level::A1 pattern::x ", "我。")
		if len(fields.Tags) != 2 {
			t.Errorf("Tags = %v", fields.Tags)
		}
	})
}
