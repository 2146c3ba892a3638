package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nao1215/sitespider/internal/model"
)

// ConsoleWriter outputs human-readable crawl results.
// The URL sets are the primary content: internal URLs under a green
// header, external URLs under a red one, each URL on its own line so
// the output pipes cleanly into other tools.
//
// Design decision: We use fatih/color rather than raw ANSI escapes
// because it degrades to plain text automatically when the output is
// not a terminal, so redirecting the report to a file stays clean.
type ConsoleWriter struct {
	baseWriter

	// verbose enables the failure listing in the output.
	verbose bool

	// printer formats counters with digit grouping ("12,345").
	printer *message.Printer
}

// ConsoleWriterOption configures a ConsoleWriter.
type ConsoleWriterOption func(*ConsoleWriter)

// WithVerbose enables verbose output with per-URL failure details.
func WithVerbose(verbose bool) ConsoleWriterOption {
	return func(w *ConsoleWriter) {
		w.verbose = verbose
	}
}

// NewConsoleWriter creates a ConsoleWriter that outputs to the given writer.
func NewConsoleWriter(output io.Writer, opts ...ConsoleWriterOption) *ConsoleWriter {
	w := &ConsoleWriter{
		baseWriter: newBaseWriter(output),
		printer:    message.NewPrinter(language.English),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the crawl report in human-readable format.
func (w *ConsoleWriter) Write(report *model.CrawlReport) (int, error) {
	var sb strings.Builder

	w.writeURLSet(&sb, color.New(color.FgHiGreen, color.Bold), "Internal urls:", report.InternalURLs)
	w.writeURLSet(&sb, color.New(color.FgHiRed, color.Bold), "External urls:", report.ExternalURLs)
	w.writeSummary(&sb, report)
	if w.verbose {
		w.writeFailures(&sb, report)
	}

	return w.output.Write([]byte(sb.String()))
}

// writeURLSet writes one URL set with a colored header.
func (w *ConsoleWriter) writeURLSet(sb *strings.Builder, header *color.Color, title string, urls []string) {
	sb.WriteString(header.Sprint(title))
	sb.WriteString("\n")
	for _, u := range urls {
		sb.WriteString(u)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

// writeSummary writes the counter summary.
func (w *ConsoleWriter) writeSummary(sb *strings.Builder, report *model.CrawlReport) {
	bold := color.New(color.Bold)
	sb.WriteString(bold.Sprint("Summary:"))
	sb.WriteString("\n")

	w.writeCounter(sb, "discovered", report.TotalDiscovered())
	w.writeCounter(sb, "internal", len(report.InternalURLs))
	w.writeCounter(sb, "external", len(report.ExternalURLs))
	w.writeCounter(sb, "visited", report.VisitedCount)
	w.writeCounter(sb, "rejected", report.RejectedCount)
	if report.ExcludedCount > 0 {
		w.writeCounter(sb, "excluded", report.ExcludedCount)
	}
	if report.RobotsSkippedCount > 0 {
		w.writeCounter(sb, "robots skipped", report.RobotsSkippedCount)
	}
	if report.DownloadedCount > 0 {
		w.writeCounter(sb, "downloaded", report.DownloadedCount)
	}
	if n := report.FailedCount(); n > 0 {
		w.writeCounter(sb, "failed", n)
	}

	sb.WriteString(fmt.Sprintf("  %-16s %s\n", "duration", report.Duration().Round(10*time.Millisecond).String()))
	if report.Interrupted {
		sb.WriteString(color.New(color.FgYellow).Sprint("  interrupted: partial results"))
		sb.WriteString("\n")
	}
}

// writeCounter writes one aligned, digit-grouped counter line.
func (w *ConsoleWriter) writeCounter(sb *strings.Builder, label string, n int) {
	sb.WriteString(w.printer.Sprintf("  %-16s %d\n", label, n))
}

// writeFailures lists every recorded fetch and download failure.
func (w *ConsoleWriter) writeFailures(sb *strings.Builder, report *model.CrawlReport) {
	if len(report.Failures) == 0 {
		return
	}

	sb.WriteString("\n")
	sb.WriteString(color.New(color.FgYellow, color.Bold).Sprint("Failures:"))
	sb.WriteString("\n")
	for _, f := range report.Failures {
		sb.WriteString(fmt.Sprintf("  [%s] %s: %s\n", f.Stage, f.URL, f.Reason))
	}
}
