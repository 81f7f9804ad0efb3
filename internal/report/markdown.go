package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
)

// MarkdownWriter outputs the run summary in Markdown format, designed for
// documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Scrape Report")
	md.PlainText("")

	status := "Complete"
	if summary.Error != "" {
		status = "Error - " + summary.Error
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Deck", summary.DeckName},
			{"Mode", summary.Mode},
			{"Finished", summary.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Status", status},
		},
	})
	md.PlainText("")

	md.H2("Pages")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"Attempted", strconv.Itoa(summary.PagesAttempted)},
			{"Succeeded", strconv.Itoa(summary.PagesSucceeded)},
			{"Skipped", strconv.Itoa(summary.PagesFailed)},
		},
	})
	md.PlainText("")

	if len(summary.FailuresByReason) > 0 {
		rows := make([][]string, 0, len(summary.FailuresByReason))
		for _, reason := range summary.FailureReasons() {
			rows = append(rows, []string{reason, strconv.Itoa(summary.FailuresByReason[reason])})
		}
		md.H3("Skipped pages by reason")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Reason", "Count"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	md.H2("Cards")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"New", strconv.Itoa(summary.CardsNew)},
			{"Updated", strconv.Itoa(summary.CardsUpdated)},
			{"Retained", strconv.Itoa(summary.CardsRetained)},
			{"Total", strconv.Itoa(summary.CardsTotal)},
		},
	})
	md.PlainText("")

	if summary.OutputPath != "" {
		md.PlainTextf("Deck written to `%s`.", summary.OutputPath)
	} else {
		md.PlainText("Nothing to export.")
	}

	return len(md.String()), md.Build()
}
