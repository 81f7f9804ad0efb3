package crawler

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ParseIndexPage extracts grammar-point URLs from a level index page.
// Points are linked from the index's wikitable through MediaWiki redirect
// anchors; the anchor's title attribute is the canonical article name, which
// joined to the base URL (spaces as underscores, MediaWiki convention) gives
// the point's page URL.
//
// The returned list preserves document order and is deduplicated: the same
// point is occasionally linked from more than one table row.
func ParseIndexPage(r io.Reader, baseURL string) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	urls := make([]string, 0)

	for _, table := range findAll(doc, func(n *html.Node) bool {
		return n.Data == "table" && hasClass(n, "wikitable")
	}) {
		for _, anchor := range findAll(table, func(n *html.Node) bool {
			return n.Data == "a" && hasClass(n, "mw-redirect")
		}) {
			title := getAttr(anchor, "title")
			if title == "" {
				continue
			}
			pointURL := baseURL + strings.ReplaceAll(title, " ", "_")
			if !seen[pointURL] {
				seen[pointURL] = true
				urls = append(urls, pointURL)
			}
		}
	}

	return urls, nil
}
