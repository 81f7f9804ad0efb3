// Package card turns normalized grammar-point records into flashcard fields.
// The builder is pure with respect to its inputs: the same record always
// produces the same cards, which is what keeps content keys stable across
// runs. Note templates and styling live in templates.go and mirror the
// reference deck's three note types.
package card
