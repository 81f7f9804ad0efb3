package anki

import (
	"archive/zip"
	"context"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/card"
	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/model"
)

// fieldSeparator joins note fields inside the flds column.
const fieldSeparator = "\x1f"

// collection database names. Newer Anki versions write collection.anki21
// alongside or instead of collection.anki2; we read either and always write
// the older name, which every client accepts.
const (
	collectionName       = "collection.anki2"
	collectionNameLegacy = "collection.anki21"
	mediaManifestName    = "media"
)

// Encode writes the deck as an .apkg archive to w.
func Encode(deck *model.Deck, w io.Writer) error {
	tempDir, err := os.MkdirTemp("", "cgwanki-encode-*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir) //nolint:errcheck // best-effort cleanup

	dbPath := filepath.Join(tempDir, collectionName)
	if err := writeCollection(dbPath, deck); err != nil {
		return err
	}

	zw := zip.NewWriter(w)

	dbFile, err := os.Open(dbPath) //nolint:gosec // path is within our temp dir
	if err != nil {
		return fmt.Errorf("failed to reopen collection database: %w", err)
	}
	defer dbFile.Close() //nolint:errcheck // read-only file

	entry, err := zw.Create(collectionName)
	if err != nil {
		return fmt.Errorf("failed to create archive entry: %w", err)
	}
	if _, err := io.Copy(entry, dbFile); err != nil {
		return fmt.Errorf("failed to write collection into archive: %w", err)
	}

	// Empty media manifest: this deck carries no audio or images.
	media, err := zw.Create(mediaManifestName)
	if err != nil {
		return fmt.Errorf("failed to create media manifest: %w", err)
	}
	if _, err := media.Write([]byte("{}")); err != nil {
		return fmt.Errorf("failed to write media manifest: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}

// EncodeFile writes the deck to path, creating parent directories as needed.
func EncodeFile(deck *model.Deck, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path) //nolint:gosec // caller-chosen output path
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := Encode(deck, f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// writeCollection builds the collection database at dbPath.
func writeCollection(dbPath string, deck *model.Deck) error {
	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return fmt.Errorf("failed to create collection database: %w", err)
	}
	defer db.Close() //nolint:errcheck // close error is secondary

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, collectionSchema); err != nil {
		return fmt.Errorf("failed to create collection schema: %w", err)
	}

	now := time.Now()
	nowSec := now.Unix()
	nowMilli := now.UnixMilli()

	models, err := modelsJSON(deck.Meta.ID, nowSec)
	if err != nil {
		return err
	}
	decks, err := decksJSON(deck.Meta, nowSec)
	if err != nil {
		return err
	}

	colQuery := `
	INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
	VALUES (1, ?, ?, ?, 11, 0, 0, 0, ?, ?, ?, ?, '{}')
	`
	if _, err := db.ExecContext(ctx, colQuery,
		nowSec, nowMilli, nowMilli, collectionConf, models, decks, collectionDconf); err != nil {
		return fmt.Errorf("failed to write collection metadata: %w", err)
	}

	noteQuery := `
	INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
	VALUES (?, ?, ?, ?, 0, ?, ?, ?, ?, 0, '')
	`
	cardQuery := `
	INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due, ivl, factor, reps, lapses, left, odue, odid, flags, data)
	VALUES (?, ?, ?, 0, ?, 0, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')
	`

	for i, id := range deck.Order {
		fields := deck.Cards[id]
		flds := strings.Join([]string{
			fields.Hanzi,
			fields.Pinyin,
			fields.Translation,
			fields.Notes,
			fields.Structure,
			fields.SourceURL,
			fields.Title,
		}, fieldSeparator)

		// Tags are stored space-joined with surrounding spaces, matching
		// the client's own storage convention.
		tags := ""
		if len(fields.Tags) > 0 {
			tags = " " + strings.Join(fields.Tags, " ") + " "
		}

		mid := templateIDFor(fields.Model)
		if _, err := db.ExecContext(ctx, noteQuery,
			id, fields.ContentKey, mid, nowSec, tags, flds, fields.Hanzi, fieldChecksum(fields.Hanzi)); err != nil {
			return fmt.Errorf("failed to write note %d: %w", id, err)
		}
		if _, err := db.ExecContext(ctx, cardQuery,
			id, id, deck.Meta.ID, nowSec, i+1); err != nil {
			return fmt.Errorf("failed to write card %d: %w", id, err)
		}
	}

	return nil
}

// Decode reads an existing .apkg from path into a deck. Any structural
// problem (not a zip, no collection database, unreadable notes table) is
// reported as ErrMalformedDeck; the caller decides whether that is fatal.
func Decode(path string) (*model.Deck, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedDeck, path, err)
	}
	defer zr.Close() //nolint:errcheck // read-only archive

	tempDir, err := os.MkdirTemp("", "cgwanki-decode-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir) //nolint:errcheck // best-effort cleanup

	dbPath, err := extractCollection(&zr.Reader, tempDir)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedDeck, path, err)
	}
	defer db.Close() //nolint:errcheck // read-only database

	ctx := context.Background()

	deck := model.NewDeck(readDeckMeta(ctx, db))
	if err := readNotes(ctx, db, deck); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedDeck, path, err)
	}
	return deck, nil
}

// extractCollection copies the collection database out of the archive.
// Prefers collection.anki2 and falls back to collection.anki21.
func extractCollection(zr *zip.Reader, tempDir string) (string, error) {
	for _, name := range []string{collectionName, collectionNameLegacy} {
		f, err := zr.Open(name)
		if err != nil {
			continue
		}

		dbPath := filepath.Join(tempDir, collectionName)
		out, err := os.Create(dbPath) //nolint:gosec // path is within our temp dir
		if err != nil {
			_ = f.Close()
			return "", fmt.Errorf("failed to extract collection database: %w", err)
		}
		_, copyErr := io.Copy(out, f)
		_ = f.Close()
		if closeErr := out.Close(); copyErr == nil {
			copyErr = closeErr
		}
		if copyErr != nil {
			return "", fmt.Errorf("failed to extract collection database: %w", copyErr)
		}
		return dbPath, nil
	}
	return "", ErrNoCollection
}

// readDeckMeta recovers the deck id and name from the col.decks blob. A
// collection always carries the built-in default deck (id 1); the generated
// deck is the other entry. Missing or unparseable metadata degrades to zero
// meta rather than failing: the notes are still worth reading, and the
// caller substitutes its configured meta for a zero value.
func readDeckMeta(ctx context.Context, db *sql.DB) model.DeckMeta {
	var decksBlob string
	if err := db.QueryRowContext(ctx, "SELECT decks FROM col LIMIT 1").Scan(&decksBlob); err != nil {
		return model.DeckMeta{}
	}

	var decks map[string]struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(decksBlob), &decks); err != nil {
		return model.DeckMeta{}
	}

	for key, d := range decks {
		if key == "1" {
			continue
		}
		return model.DeckMeta{ID: d.ID, Name: d.Name}
	}
	return model.DeckMeta{}
}

// readNotes loads every note into the deck in id order.
func readNotes(ctx context.Context, db *sql.DB, deck *model.Deck) error {
	rows, err := db.QueryContext(ctx,
		"SELECT id, guid, mid, tags, flds FROM notes ORDER BY id")
	if err != nil {
		return fmt.Errorf("failed to read notes: %w", err)
	}
	defer rows.Close() //nolint:errcheck // rows.Err checked below

	for rows.Next() {
		var (
			id   int64
			guid string
			mid  int64
			tags string
			flds string
		)
		if err := rows.Scan(&id, &guid, &mid, &tags, &flds); err != nil {
			return fmt.Errorf("failed to scan note: %w", err)
		}

		deck.Put(id, cardFromNote(guid, mid, tags, flds))
	}
	return rows.Err()
}

// cardFromNote rebuilds card fields from a stored note row. Notes written by
// other tools may carry fewer fields than ours; missing trailing fields read
// back as empty strings.
func cardFromNote(guid string, mid int64, tags, flds string) model.CardFields {
	fields := strings.Split(flds, fieldSeparator)
	get := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}

	return model.CardFields{
		Hanzi:       get(0),
		Pinyin:      get(1),
		Translation: get(2),
		Notes:       get(3),
		Structure:   get(4),
		SourceURL:   get(5),
		Title:       get(6),
		Model:       noteModelByID(mid),
		Tags:        strings.Fields(tags),
		ContentKey:  guid,
	}
}

// templateIDFor returns the note-type id stored in the mid column.
func templateIDFor(m model.NoteModel) int64 {
	return card.TemplateFor(m).ID
}

// fieldChecksum is the integer form of the first 8 hex digits of the SHA-1
// of the sort field, which is how the client deduplicates notes.
func fieldChecksum(sortField string) int64 {
	sum := sha1.Sum([]byte(sortField)) //nolint:gosec // checksum format is fixed by the file format
	n, err := strconv.ParseInt(hex.EncodeToString(sum[:])[:8], 16, 64)
	if err != nil {
		return 0
	}
	return n
}
