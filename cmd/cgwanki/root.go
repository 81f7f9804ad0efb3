// Package main provides the entry point for the cgwanki CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for cgwanki.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cgwanki",
		Short: "Scrape Chinese Grammar Wiki examples into an Anki deck",
		Long: `cgwanki crawls the Chinese Grammar Wiki's grammar-point pages, extracts
their example sentences and dialogs, and writes them as an Anki deck.

When an existing deck is supplied, new cards are merged into it: cards whose
content is unchanged keep their identity (and therefore the learner's review
history), updated content is refreshed in place, and cards for pages that
could not be fetched are retained rather than dropped.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
