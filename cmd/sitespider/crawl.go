package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/sitespider/internal/config"
	"github.com/nao1215/sitespider/internal/crawler"
	"github.com/nao1215/sitespider/internal/database"
	"github.com/nao1215/sitespider/internal/download"
	"github.com/nao1215/sitespider/internal/export"
	"github.com/nao1215/sitespider/internal/fetch"
	"github.com/nao1215/sitespider/internal/log"
	"github.com/nao1215/sitespider/internal/model"
	"github.com/nao1215/sitespider/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <url>",
		Short: "Crawl a site recursively from a seed URL",
		Long: `Crawl starts from the given URL and recursively follows every link it
discovers. URLs on the seed host are crawled; URLs on other hosts are
recorded but only fetched with --crawl-external.

Fetch initiations across the worker pool are paced so the crawl never
floods a server. Failures never abort a crawl; they are recorded in the
report.

Examples:
  # Map a site and print the discovered URL sets
  sitespider crawl https://example.com

  # Mirror the site to ./mirror
  sitespider crawl -d --download-dir mirror https://example.com

  # Follow links across host boundaries
  sitespider crawl -c https://example.com

  # Export the URL sets to files
  sitespider crawl --export all.txt --export-internal in.txt https://example.com

  # Slow, polite crawl honoring robots.txt
  sitespider crawl -t 1000 --robots https://example.com

Configuration file (.sitespider) example:
  sites:
    example.com:
      cookie: "session_id=abc123"
      headers:
        Authorization: "Bearer token"
      exclude:
        - /logout`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().BoolP("download", "d", false,
		"Mirror fetched files under the download directory")
	cmd.Flags().String("download-dir", config.DefaultDownloadDir,
		"Root directory for mirrored files")
	cmd.Flags().BoolP("crawl-external", "c", false,
		"Fetch URLs on hosts other than the seed host")
	cmd.Flags().IntP("max-url-length", "m", config.DefaultMaxURLLength,
		"Exclude URLs at or beyond this serialized length")
	cmd.Flags().StringSliceP("exclude", "e", nil,
		"Path prefixes to exclude from fetching (comma-separated)")

	// Pacing and concurrency flags
	cmd.Flags().IntP("timeout", "t", int(config.DefaultPaceInterval/time.Millisecond),
		"Minimum gap between fetch initiations in milliseconds (0 disables pacing)")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkerCount,
		"Number of concurrent fetch workers")
	cmd.Flags().Duration("request-timeout", config.DefaultRequestTimeout,
		"Per-request HTTP timeout")

	// Transport flags
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address for all requests (e.g., 127.0.0.1:9050)")
	cmd.Flags().Bool("robots", false,
		"Honor robots.txt; disallowed URLs are never fetched")
	cmd.Flags().StringP("user-agent", "A", config.DefaultUserAgent,
		"User-Agent header sent with every request")

	// Export flags
	cmd.Flags().String("export", "",
		"Write all discovered URLs to the given file")
	cmd.Flags().String("export-internal", "",
		"Write discovered internal URLs to the given file")
	cmd.Flags().String("export-external", "",
		"Write discovered external URLs to the given file")

	// Configuration file
	cmd.Flags().String("config", "",
		"Configuration file path (default: .sitespider in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().Bool("markdown", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with sensitive-value redaction
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown.
	// An interrupted crawl still reports and exports the partial result.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, finishing with partial results...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the optional
// configuration file. CLI flags the user set explicitly win over
// config-file values; config-file values win over built-in defaults.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	// The seed is validated and canonicalized up front so the rest of the
	// run works with its normalized form and host.
	seed, err := crawler.Normalize(args[0], nil)
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL %q: %w", args[0], err)
	}
	cfg.Seed = seed.String()

	cfg.Download, err = cmd.Flags().GetBool("download")
	if err != nil {
		return nil, err
	}

	cfg.DownloadDir, err = cmd.Flags().GetString("download-dir")
	if err != nil {
		return nil, err
	}

	cfg.CrawlExternal, err = cmd.Flags().GetBool("crawl-external")
	if err != nil {
		return nil, err
	}

	cfg.MaxURLLength, err = cmd.Flags().GetInt("max-url-length")
	if err != nil {
		return nil, err
	}

	cfg.ExcludePrefixes, err = cmd.Flags().GetStringSlice("exclude")
	if err != nil {
		return nil, err
	}

	paceMS, err := cmd.Flags().GetInt("timeout")
	if err != nil {
		return nil, err
	}
	cfg.PaceInterval = time.Duration(paceMS) * time.Millisecond

	cfg.Workers, err = cmd.Flags().GetInt("workers")
	if err != nil {
		return nil, err
	}

	cfg.RequestTimeout, err = cmd.Flags().GetDuration("request-timeout")
	if err != nil {
		return nil, err
	}

	cfg.ProxyAddress, err = cmd.Flags().GetString("proxy")
	if err != nil {
		return nil, err
	}

	cfg.RespectRobots, err = cmd.Flags().GetBool("robots")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.ExportAll, err = cmd.Flags().GetString("export")
	if err != nil {
		return nil, err
	}
	cfg.ExportInternal, err = cmd.Flags().GetString("export-internal")
	if err != nil {
		return nil, err
	}
	cfg.ExportExternal, err = cmd.Flags().GetString("export-external")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Load site-specific configurations from the config file.
	// If the user explicitly specified a config file path, error if not
	// found. If no path was specified, silently use an empty config.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	applySiteConfig(cmd, cfg, cfg.SiteConfigs.GetSiteConfig(seed.Host))

	// Every crawl is recorded in the XDG data directory
	cfg.DBDir = config.XDGDataDir()

	return cfg, nil
}

// applySiteConfig folds the seed host's config-file settings into cfg.
// A config-file value only applies when the corresponding flag was left
// at its default, so explicit flags always win.
func applySiteConfig(cmd *cobra.Command, cfg *config.Config, site config.SiteConfig) {
	if site.UserAgent != "" && !cmd.Flags().Changed("user-agent") {
		cfg.UserAgent = site.UserAgent
	}
	if site.Cookie != "" {
		cfg.Cookie = site.Cookie
	}
	if len(site.Headers) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string, len(site.Headers))
		}
		for k, v := range site.Headers {
			cfg.Headers[k] = v
		}
	}
	// Exclusions accumulate: flag prefixes and config prefixes both apply
	cfg.ExcludePrefixes = append(cfg.ExcludePrefixes, site.Exclude...)
	if site.MaxURLLength > 0 && !cmd.Flags().Changed("max-url-length") {
		cfg.MaxURLLength = site.MaxURLLength
	}
	if site.PaceIntervalMS > 0 && !cmd.Flags().Changed("timeout") {
		cfg.PaceInterval = time.Duration(site.PaceIntervalMS) * time.Millisecond
	}
}

// runCrawl executes the crawl and handles report, export, and history.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	seed, err := url.Parse(cfg.Seed)
	if err != nil {
		return fmt.Errorf("invalid seed URL %q: %w", cfg.Seed, err)
	}

	client, err := fetch.NewHTTPClient(fetch.ClientConfig{
		Timeout:      cfg.RequestTimeout,
		ProxyAddress: cfg.ProxyAddress,
		Cookie:       cfg.Cookie,
		Headers:      cfg.Headers,
	})
	if err != nil {
		return fmt.Errorf("failed to create HTTP client: %w", err)
	}

	fetcher := fetch.NewFetcher(client,
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
	)

	opts := []crawler.EngineOption{
		crawler.WithWorkers(cfg.Workers),
		crawler.WithPaceInterval(cfg.PaceInterval),
		crawler.WithCrawlExternal(cfg.CrawlExternal),
		crawler.WithMaxURLLength(cfg.MaxURLLength),
		crawler.WithExcludePrefixes(cfg.ExcludePrefixes),
		crawler.WithLogger(logger),
	}
	if cfg.Download {
		opts = append(opts, crawler.WithSaver(download.NewDownloader(cfg.DownloadDir)))
	}
	if cfg.RespectRobots {
		opts = append(opts, crawler.WithGatekeeper(fetch.NewRobotsGate(client, cfg.UserAgent, logger)))
	}

	engine := crawler.NewEngine(seed, fetcher, opts...)

	crawlReport, runErr := engine.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	// An interrupted crawl still exports and reports its partial result
	targets := export.Targets{
		All:      cfg.ExportAll,
		Internal: cfg.ExportInternal,
		External: cfg.ExportExternal,
	}
	if targets.Any() {
		if err := export.Write(crawlReport, targets, logger); err != nil {
			logger.Error("export failed", "error", err)
		}
	}

	if err := outputReport(cfg, crawlReport); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	saveCrawlReport(ctx, cfg, crawlReport, logger)

	return runErr
}

// outputReport outputs the crawl report in the requested format.
func outputReport(cfg *config.Config, crawlReport *model.CrawlReport) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports may carry session-derived URLs; keep them owner-readable
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close() //nolint:errcheck
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewConsoleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(crawlReport)
	return err
}

// saveCrawlReport appends the crawl to the history database.
// History is best effort: a database problem is logged, never fatal,
// because the crawl result has already been reported and exported.
func saveCrawlReport(ctx context.Context, cfg *config.Config, crawlReport *model.CrawlReport, logger *slog.Logger) {
	// An interrupted run must still record its partial crawl
	ctx = context.WithoutCancel(ctx)

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		logger.Error("failed to open history database", "dir", cfg.DBDir, "error", err)
		return
	}
	defer db.Close() //nolint:errcheck

	id, err := db.SaveCrawlReport(ctx, crawlReport)
	if err != nil {
		logger.Error("failed to save crawl history", "error", err)
		return
	}

	logger.Info("crawl recorded", "id", id, "host", crawlReport.SeedHost)
}
