// Package export writes the discovered URL sets to files, one URL per
// line. Export is a terminal, one-shot operation at the end of a crawl
// and never interacts with the live crawl state.
package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/sitespider/internal/model"
)

// Targets names the destination file for each URL set. Empty fields
// are skipped; each export is independent.
type Targets struct {
	// All receives every discovered URL, fetched or not.
	All string

	// Internal receives URLs on the seed host.
	Internal string

	// External receives URLs on other hosts.
	External string
}

// Any reports whether at least one export destination is configured.
func (t Targets) Any() bool {
	return t.All != "" || t.Internal != "" || t.External != ""
}

// Write writes each configured URL set from the report to its file.
// A failing export is logged and skipped; the others still proceed.
// The returned error wraps the first failure, for the exit path to
// report after all exports were attempted.
func Write(report *model.CrawlReport, targets Targets, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	var firstErr error
	write := func(path, name string, urls []string) {
		if path == "" {
			return
		}
		if err := writeURLList(path, urls); err != nil {
			logger.Error("export failed", "set", name, "path", path, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("export %s: %w", name, err)
			}
			return
		}
		logger.Debug("exported", "set", name, "path", path, "count", len(urls))
	}

	write(targets.All, "all", report.URLs)
	write(targets.Internal, "internal", report.InternalURLs)
	write(targets.External, "external", report.ExternalURLs)

	return firstErr
}

// writeURLList writes URLs to path, one per line, creating parent
// directories as needed. The report sorts its sets before export, so
// the file order is stable across runs.
func writeURLList(path string, urls []string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	var sb strings.Builder
	for _, u := range urls {
		sb.WriteString(u)
		sb.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}
