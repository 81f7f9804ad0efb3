// Package anki reads and writes Anki package (.apkg) files.
//
// An .apkg is a zip archive holding a SQLite collection database
// (collection.anki2) and a media manifest. The codec maps a model.Deck onto
// the collection's notes and cards tables: the note id carries the card's
// stable identifier, the note guid carries the content key, and the note
// fields hold the seven flashcard fields joined with the 0x1f separator Anki
// uses internally.
//
// Design decision: We write a real collection database rather than a
// private interchange format for two reasons:
//  1. Output imports directly into Anki with note types and styling intact.
//  2. Re-reading our own output on the next run needs no side-channel state;
//     identity round-trips through the collection itself.
package anki
