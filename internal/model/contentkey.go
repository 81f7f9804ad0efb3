package model

import (
	"encoding/hex"
	"strings"
	"unicode"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/unicode/norm"
)

// contentKeySeparator separates the title namespace from the hanzi text and
// individual turns inside the hashed payload. 0x1f (unit separator) cannot
// appear in normalized text, so distinct inputs cannot produce the same
// payload by shifting characters across a boundary.
const contentKeySeparator = "\x1f"

// ContentKey computes the stable fingerprint that identifies "the same card"
// across independent runs. It is derived from the grammar-point title and the
// hanzi text only: pinyin and translations are corrected upstream far more
// often than the sentences themselves, and those corrections must not reset a
// learner's review history.
//
// The key is namespaced by title so that identical hanzi reused under two
// grammar points yields two distinct cards. For dialogs, pass one hanzi
// string per turn; turn boundaries are part of the key, speaker labels are
// not (they are presentation).
func ContentKey(title string, hanzi ...string) string {
	parts := make([]string, 0, len(hanzi)+1)
	parts = append(parts, strings.TrimSpace(norm.NFC.String(title)))
	for _, h := range hanzi {
		parts = append(parts, NormalizeHanzi(h))
	}

	sum := blake2b.Sum256([]byte(strings.Join(parts, contentKeySeparator)))
	return hex.EncodeToString(sum[:])
}

// NormalizeHanzi canonicalizes hanzi text for fingerprinting: NFC
// normalization followed by removal of all Unicode whitespace, including the
// ideographic space (U+3000) the wiki sometimes uses for alignment. The wiki's
// markup is inconsistent about spacing inside sentences, and spacing changes
// must not move a card's identity.
func NormalizeHanzi(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFC.String(s) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
