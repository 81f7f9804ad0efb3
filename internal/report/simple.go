package report

import (
	"fmt"
	"io"
	"strings"
)

// SimpleWriter outputs a human-readable text report for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because it works in every terminal and pipes cleanly to
// files and other tools.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in human-readable format.
func (w *SimpleWriter) Write(summary *Summary) (int, error) {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")
	sb.WriteString("                    SCRAPE REPORT\n")
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Deck:      %s\n", summary.DeckName))
	sb.WriteString(fmt.Sprintf("Mode:      %s\n", summary.Mode))
	sb.WriteString(fmt.Sprintf("Finished:  %s\n", summary.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
	if summary.Error != "" {
		sb.WriteString(fmt.Sprintf("Status:    ERROR - %s\n", summary.Error))
	} else {
		sb.WriteString("Status:    Complete\n")
	}
	sb.WriteString("\n")

	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\nPages\n")
	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Attempted: %d\n", summary.PagesAttempted))
	sb.WriteString(fmt.Sprintf("Succeeded: %d\n", summary.PagesSucceeded))
	sb.WriteString(fmt.Sprintf("Skipped:   %d\n", summary.PagesFailed))
	for _, reason := range summary.FailureReasons() {
		sb.WriteString(fmt.Sprintf("  %-22s %d\n", reason+":", summary.FailuresByReason[reason]))
	}
	sb.WriteString("\n")

	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\nCards\n")
	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("New:       %d\n", summary.CardsNew))
	sb.WriteString(fmt.Sprintf("Updated:   %d (content refreshed, identity kept)\n", summary.CardsUpdated))
	sb.WriteString(fmt.Sprintf("Retained:  %d (not seen this run, kept as-is)\n", summary.CardsRetained))
	sb.WriteString(fmt.Sprintf("Total:     %d\n", summary.CardsTotal))
	sb.WriteString("\n")

	if summary.OutputPath != "" {
		sb.WriteString(fmt.Sprintf("Deck written to %s\n", summary.OutputPath))
	} else {
		sb.WriteString("Nothing to export.\n")
	}

	return w.output.Write([]byte(sb.String()))
}
