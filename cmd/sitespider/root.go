// Package main provides the entry point for the sitespider CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sitespider.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitespider",
		Short: "Recursive site crawler and URL mapper",
		Long: `sitespider crawls a site recursively from a seed URL, discovers every
linked URL, and classifies each one as internal or external to the seed
host. It can mirror fetched files to disk and export the discovered URL
sets to files.

Every crawl is recorded in a local history database; use the history
subcommand to list past crawls and diff their URL sets.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
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
