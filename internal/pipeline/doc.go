// Package pipeline orchestrates a scrape run as an ordered sequence of
// steps: load the existing deck, crawl and build cards, merge, write the
// output package. Steps share state through a Run value and are executed
// with stop-on-error semantics; the existing deck is loaded before any
// network traffic so a malformed deck fails the run without wasting a
// crawl.
package pipeline
