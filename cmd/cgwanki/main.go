// Package main provides the entry point for the cgwanki CLI.
//
// cgwanki scrapes example sentences from the Chinese Grammar Wiki and
// packages them as an Anki deck, merging into an existing deck so learning
// progress survives re-scrapes.
//
// Usage:
//
//	cgwanki scrape
//	cgwanki scrape --deck decks/cgw_examples.apkg
//	cgwanki scrape --test
//
// See --help for all available options.
package main

// main is the entry point for cgwanki.
func main() {
	Execute()
}
