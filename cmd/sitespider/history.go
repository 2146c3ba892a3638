package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/sitespider/internal/config"
	"github.com/nao1215/sitespider/internal/database"
)

// NewHistoryCmd creates the history command.
// This command inspects past crawls stored in the history database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [host]",
		Short: "Inspect past crawls stored in the history database",
		Long: `History lists past crawl runs recorded by the crawl subcommand.

Without arguments it lists every host that has crawl history. With a
host argument it lists that host's crawls, newest first. With --diff it
compares the URL sets of the host's two most recent crawls and shows
which URLs appeared and which disappeared.

Examples:
  # List all crawled hosts
  sitespider history

  # List crawl history for a host
  sitespider history example.com

  # Diff the two most recent crawls of a host
  sitespider history --diff example.com

  # Machine-readable output
  sitespider history --json example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("sites", "s", false,
		"List all hosts with crawl history")
	cmd.Flags().BoolP("diff", "d", false,
		"Diff the URL sets of the two most recent crawls")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listSites, err := cmd.Flags().GetBool("sites")
	if err != nil {
		return err
	}
	diff, err := cmd.Flags().GetBool("diff")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database
	var host string
	if len(args) > 0 {
		// Hostnames are case-insensitive; the database stores them lowered
		host = strings.ToLower(args[0])
	}
	if diff && host == "" {
		return fmt.Errorf("--diff requires a host argument")
	}

	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close() //nolint:errcheck

	ctx := context.Background()

	switch {
	case listSites || host == "":
		return listCrawledHosts(ctx, cmd, db, jsonOutput)
	case diff:
		return diffCrawls(ctx, cmd, db, host, jsonOutput)
	default:
		return listCrawlHistory(ctx, cmd, db, host, jsonOutput)
	}
}

// listCrawledHosts lists every host that has crawl history.
func listCrawledHosts(ctx context.Context, cmd *cobra.Command, db *database.CrawlDB, jsonOutput bool) error {
	hosts, err := db.ListHosts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list hosts: %w", err)
	}

	if jsonOutput {
		return writeJSON(cmd, struct {
			Hosts []string `json:"hosts"`
		}{Hosts: hosts})
	}

	out := cmd.OutOrStdout()
	if len(hosts) == 0 {
		fmt.Fprintln(out, "No crawl history found.")
		fmt.Fprintln(out, "\nUse 'sitespider crawl <url>' to crawl a site.")
		return nil
	}

	fmt.Fprintf(out, "Crawled hosts (%d):\n\n", len(hosts))
	for _, h := range hosts {
		fmt.Fprintf(out, "  • %s\n", h)
	}
	fmt.Fprintln(out, "\nUse 'sitespider history <host>' to see a host's crawl history.")

	return nil
}

// listCrawlHistory lists all crawl records for a host, newest first.
func listCrawlHistory(ctx context.Context, cmd *cobra.Command, db *database.CrawlDB, host string, jsonOutput bool) error {
	history, err := db.CrawlHistory(ctx, host)
	if err != nil {
		return fmt.Errorf("failed to get crawl history: %w", err)
	}

	if jsonOutput {
		return writeJSON(cmd, struct {
			Host   string                  `json:"host"`
			Crawls []database.CrawlSummary `json:"crawls"`
		}{Host: host, Crawls: history})
	}

	out := cmd.OutOrStdout()
	if len(history) == 0 {
		fmt.Fprintf(out, "No crawl history found for %s\n", host)
		fmt.Fprintln(out, "\nUse 'sitespider crawl' to crawl this host.")
		return nil
	}

	fmt.Fprintf(out, "Crawl history for %s (%d crawls):\n\n", host, len(history))
	fmt.Fprintf(out, "  %-6s  %-20s  %-10s  %-10s  %-10s  %s\n",
		"ID", "Date", "Discovered", "Visited", "Rejected", "Duration")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 72))

	for _, s := range history {
		duration := s.Duration.Round(10 * time.Millisecond).String()
		if s.Interrupted {
			duration += " (interrupted)"
		}
		fmt.Fprintf(out, "  %-6d  %-20s  %-10d  %-10d  %-10d  %s\n",
			s.ID,
			s.StartedAt.Format("2006-01-02 15:04:05"),
			s.TotalCount,
			s.VisitedCount,
			s.RejectedCount,
			duration,
		)
	}

	fmt.Fprintln(out, "\nUse 'sitespider history --diff <host>' to diff the two most recent crawls.")

	return nil
}

// crawlDiff is the result of comparing two crawls' URL sets.
type crawlDiff struct {
	// Host is the crawled host.
	Host string `json:"host"`

	// NewerID and OlderID identify the compared crawls.
	NewerID int64 `json:"newer_id"`
	OlderID int64 `json:"older_id"`

	// Added lists URLs present in the newer crawl but not the older.
	Added []string `json:"added"`

	// Removed lists URLs present in the older crawl but not the newer.
	Removed []string `json:"removed"`
}

// diffCrawls compares the URL sets of a host's two most recent crawls.
func diffCrawls(ctx context.Context, cmd *cobra.Command, db *database.CrawlDB, host string, jsonOutput bool) error {
	history, err := db.CrawlHistory(ctx, host)
	if err != nil {
		return fmt.Errorf("failed to get crawl history: %w", err)
	}
	if len(history) < 2 {
		return fmt.Errorf("at least 2 crawls are required for a diff (found %d)", len(history))
	}

	newer, older := history[0], history[1]

	newerURLs, err := db.CrawlURLs(ctx, newer.ID)
	if err != nil {
		return fmt.Errorf("failed to get crawl urls: %w", err)
	}
	olderURLs, err := db.CrawlURLs(ctx, older.ID)
	if err != nil {
		return fmt.Errorf("failed to get crawl urls: %w", err)
	}

	diff := buildCrawlDiff(host, newer.ID, older.ID, newerURLs, olderURLs)

	if jsonOutput {
		return writeJSON(cmd, diff)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Diff for %s: crawl %d (%s) vs crawl %d (%s)\n\n",
		host,
		newer.ID, newer.StartedAt.Format("2006-01-02 15:04:05"),
		older.ID, older.StartedAt.Format("2006-01-02 15:04:05"),
	)

	if len(diff.Added) == 0 && len(diff.Removed) == 0 {
		fmt.Fprintln(out, "No differences: both crawls discovered the same URL set.")
		return nil
	}

	if len(diff.Added) > 0 {
		fmt.Fprintf(out, "Added (%d):\n", len(diff.Added))
		for _, u := range diff.Added {
			fmt.Fprintf(out, "  + %s\n", u)
		}
		fmt.Fprintln(out)
	}
	if len(diff.Removed) > 0 {
		fmt.Fprintf(out, "Removed (%d):\n", len(diff.Removed))
		for _, u := range diff.Removed {
			fmt.Fprintf(out, "  - %s\n", u)
		}
	}

	return nil
}

// buildCrawlDiff computes the added and removed URL sets.
// Both input slices are sorted by URL, so the outputs are sorted too.
func buildCrawlDiff(host string, newerID, olderID int64, newer, older []database.CrawlURL) crawlDiff {
	olderSet := make(map[string]struct{}, len(older))
	for _, u := range older {
		olderSet[u.URL] = struct{}{}
	}
	newerSet := make(map[string]struct{}, len(newer))
	for _, u := range newer {
		newerSet[u.URL] = struct{}{}
	}

	diff := crawlDiff{
		Host:    host,
		NewerID: newerID,
		OlderID: olderID,
		Added:   []string{},
		Removed: []string{},
	}
	for _, u := range newer {
		if _, ok := olderSet[u.URL]; !ok {
			diff.Added = append(diff.Added, u.URL)
		}
	}
	for _, u := range older {
		if _, ok := newerSet[u.URL]; !ok {
			diff.Removed = append(diff.Removed, u.URL)
		}
	}

	return diff
}

// writeJSON writes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
