package crawler

import (
	"io"
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/snicholasbarton/cgw-to-anki-scraper/internal/model"
)

// CSS class names that act as structural landmarks on grammar-point pages.
// These have been stable across wiki redesigns; incidental styling classes
// have not, which is why detection keys on these alone.
const (
	classExampleBlock = "liju"    // example list container
	classStructure    = "jiegou"  // structure pattern block
	classDialog       = "dialog"  // dialog example list
	classSpeaker      = "speaker" // dialog speaker label span
	classPinyin       = "pinyin"  // reading span
	classTrans        = "trans"   // translation span
	classExpl         = "expl"    // inline explanation span
	classCorrect      = "o"       // correct usage example
	classIncorrect    = "x"       // incorrect usage example
)

// Parser normalizes a grammar-point page into a GrammarPointRecord.
//
// Design decision: We use golang.org/x/net/html rather than regex because:
//  1. It correctly handles the malformed HTML MediaWiki skins emit
//  2. Landmark sniffing needs a real DOM, not string offsets
//  3. Example spans must be detached from their parent to isolate the
//     hanzi text, which requires tree mutation
type Parser struct {
	// pageURL is the page being parsed, used in errors and warnings.
	pageURL string

	// level is the difficulty level the page was indexed under.
	level model.Level

	// logger for malformed-example warnings.
	logger *slog.Logger
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithParserLogger sets a custom logger.
func WithParserLogger(logger *slog.Logger) ParserOption {
	return func(p *Parser) {
		p.logger = logger
	}
}

// NewParser creates a parser for one grammar-point page.
func NewParser(pageURL string, level model.Level, opts ...ParserOption) *Parser {
	p := &Parser{
		pageURL: pageURL,
		level:   level,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse normalizes the page markup. Pages whose layout cannot be recognized
// return a *NormalizeError with KindUnrecognizedLayout; pages that parse but
// hold no usable content return KindEmptyPage. Examples with hanzi but
// missing pinyin or translation are kept with empty fields: learners still
// benefit from the hanzi alone.
func (p *Parser) Parse(r io.Reader) (*model.GrammarPointRecord, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, &NormalizeError{Kind: KindUnrecognizedLayout, URL: p.pageURL}
	}

	record := &model.GrammarPointRecord{
		Level:     p.level,
		SourceURL: p.pageURL,
	}

	if h1 := findFirst(doc, func(n *html.Node) bool { return n.Data == "h1" }); h1 != nil {
		record.Title = collapseText(nodeText(h1))
	}
	// A record with an empty title is a parse failure, not a valid
	// zero-example page.
	if record.Title == "" {
		return nil, &NormalizeError{Kind: KindUnrecognizedLayout, URL: p.pageURL}
	}

	if jiegou := findFirst(doc, func(n *html.Node) bool {
		return n.Data == "div" && hasClass(n, classStructure)
	}); jiegou != nil {
		record.StructurePattern = collapseText(nodeText(jiegou))
	}

	if para := findFirst(doc, func(n *html.Node) bool {
		return n.Data == "p" && collapseText(nodeText(n)) != ""
	}); para != nil {
		record.Explanation = collapseText(nodeText(para))
	}

	for _, block := range findAll(doc, func(n *html.Node) bool {
		return n.Data == "div" && hasClass(n, classExampleBlock)
	}) {
		record.Examples = append(record.Examples, p.parseExampleBlock(block)...)
	}

	if len(record.Examples) == 0 && record.Explanation == "" && record.StructurePattern == "" {
		return nil, &NormalizeError{Kind: KindEmptyPage, URL: p.pageURL}
	}

	return record, nil
}

// parseExampleBlock extracts the examples from one div.liju block.
// A ul.dialog groups all its lines into a single dialog example; a plain ul
// yields one simple example per line.
func (p *Parser) parseExampleBlock(block *html.Node) []model.ExampleRecord {
	ul := findFirst(block, func(n *html.Node) bool { return n.Data == "ul" })
	if ul == nil {
		p.logger.Warn("example block without list", "url", p.pageURL)
		return nil
	}

	items := findAll(ul, func(n *html.Node) bool { return n.Data == "li" })

	if hasClass(ul, classDialog) {
		if dialog, ok := p.parseDialog(items); ok {
			return []model.ExampleRecord{dialog}
		}
		return nil
	}

	examples := make([]model.ExampleRecord, 0, len(items))
	for _, li := range items {
		if ex, ok := p.parseSimple(li); ok {
			examples = append(examples, ex)
		}
	}
	return examples
}

// parseSimple extracts one simple example from a list item.
func (p *Parser) parseSimple(li *html.Node) (model.ExampleRecord, bool) {
	label := model.LabelNone
	switch {
	case hasClass(li, classCorrect):
		label = model.LabelCorrect
	case hasClass(li, classIncorrect):
		label = model.LabelIncorrect
	}

	turn, ok := p.parseTurn(li)
	if !ok {
		return model.ExampleRecord{}, false
	}

	return model.ExampleRecord{
		Kind:  model.ExampleSimple,
		Label: label,
		Turns: []model.Turn{turn},
	}, true
}

// parseDialog groups all speaker-labeled lines into one dialog example.
// Lines without a speaker tag are malformed and skipped with a warning;
// the remaining turns still form a usable card.
func (p *Parser) parseDialog(items []*html.Node) (model.ExampleRecord, bool) {
	turns := make([]model.Turn, 0, len(items))
	for _, li := range items {
		speaker, found := detachSpan(li, classSpeaker)
		if !found || speaker == "" {
			p.logger.Warn("dialog line missing speaker label", "url", p.pageURL)
			continue
		}

		turn, ok := p.parseTurn(li)
		if !ok {
			continue
		}
		turn.Speaker = speaker
		turns = append(turns, turn)
	}

	if len(turns) == 0 {
		return model.ExampleRecord{}, false
	}
	return model.ExampleRecord{Kind: model.ExampleDialog, Turns: turns}, true
}

// parseTurn pulls the annotated spans out of a list item and treats the
// remaining text as hanzi. Missing pinyin or translation become empty
// strings; a line with no hanzi at all is malformed and dropped.
func (p *Parser) parseTurn(li *html.Node) (model.Turn, bool) {
	pinyin, _ := detachSpan(li, classPinyin)
	trans, _ := detachSpan(li, classTrans)
	expl, _ := detachSpan(li, classExpl)

	hanzi := cleanHanzi(nodeText(li))
	if hanzi == "" {
		p.logger.Warn("example line missing hanzi", "url", p.pageURL)
		return model.Turn{}, false
	}

	return model.Turn{
		Hanzi:       hanzi,
		Pinyin:      collapseText(pinyin),
		Translation: collapseText(trans),
		Notes:       collapseText(expl),
	}, true
}

// detachSpan finds the first span with the given class under n, removes it
// from the tree, and returns its text. Detaching is what isolates the hanzi:
// after the annotated spans are gone, the remaining text of the line is the
// Chinese sentence.
func detachSpan(n *html.Node, class string) (string, bool) {
	span := findFirst(n, func(c *html.Node) bool {
		return c.Data == "span" && hasClass(c, class)
	})
	if span == nil {
		return "", false
	}
	text := nodeText(span)
	span.Parent.RemoveChild(span)
	return strings.TrimSpace(text), true
}

// findFirst returns the first element node under root (in document order)
// matching the predicate.
func findFirst(root *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && match(n) {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return found
}

// findAll returns all element nodes under root matching the predicate, in
// document order. Matching nodes are not descended into, so nested matches
// inside a match are not double-counted.
func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			found = append(found, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return found
}

// nodeText concatenates all text under n.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// hasClass reports whether the node's class attribute contains the given
// class name.
func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// collapseText trims text and collapses internal whitespace runs to single
// spaces.
func collapseText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// cleanHanzi strips all whitespace from a hanzi line. The wiki pads
// sentences with spaces and newlines for markup reasons; Chinese text
// carries no meaningful spacing.
func cleanHanzi(s string) string {
	return strings.Join(strings.Fields(s), "")
}
