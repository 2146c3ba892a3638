package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/sitespider/internal/model"
)

// MarkdownWriter outputs crawl reports in Markdown format.
// This format is designed for documentation and sharing.
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

// Write outputs the crawl report in Markdown format.
func (w *MarkdownWriter) Write(report *model.CrawlReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeURLSets(md, report)
	w.writeFailures(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with crawl information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.CrawlReport) {
	md.H1("Crawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed", "`" + report.Seed + "`"},
			{"Host", report.SeedHost},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", report.Duration().String()},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.CrawlReport) string {
	if report.Interrupted {
		return "⚠️ Interrupted (partial results)"
	}
	return "✅ Complete"
}

// writeSummary writes the counter summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.CrawlReport) {
	md.H2("Summary")
	md.PlainText("")

	rows := [][]string{
		{"Discovered", strconv.Itoa(report.TotalDiscovered())},
		{"Internal", strconv.Itoa(len(report.InternalURLs))},
		{"External", strconv.Itoa(len(report.ExternalURLs))},
		{"Visited", strconv.Itoa(report.VisitedCount)},
		{"Rejected", strconv.Itoa(report.RejectedCount)},
	}
	if report.ExcludedCount > 0 {
		rows = append(rows, []string{"Excluded", strconv.Itoa(report.ExcludedCount)})
	}
	if report.RobotsSkippedCount > 0 {
		rows = append(rows, []string{"Robots skipped", strconv.Itoa(report.RobotsSkippedCount)})
	}
	if report.DownloadedCount > 0 {
		rows = append(rows, []string{"Downloaded", strconv.Itoa(report.DownloadedCount)})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Counter", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if report.TotalDiscovered() > 0 {
		w.writePieChart(md, report)
	}

	w.writeAlert(md, report)
}

// writePieChart writes a mermaid pie chart of the crawl outcomes.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.CrawlReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Crawl Outcomes"),
		piechart.WithShowData(true),
	)

	failed := report.FailedCount()
	if report.VisitedCount > 0 {
		chart.LabelAndIntValue("Visited", uint64(report.VisitedCount))
	}
	if rejected := report.RejectedCount - failed; rejected > 0 {
		chart.LabelAndIntValue("Rejected", uint64(rejected))
	}
	if failed > 0 {
		chart.LabelAndIntValue("Failed", uint64(failed))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the crawl outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.CrawlReport) {
	switch {
	case report.Interrupted:
		md.Warningf(
			"The crawl was interrupted before completion. %d URL(s) were gathered before the interruption.",
			report.TotalDiscovered(),
		)
	case report.FailedCount() > 0:
		md.Note(fmt.Sprintf(
			"%d URL(s) could not be fetched. See the failure listing below.",
			report.FailedCount(),
		))
	default:
		md.Tip(fmt.Sprintf("All %d fetched pages completed without errors.", report.VisitedCount))
	}
	md.PlainText("")
}

// writeURLSets writes the internal and external URL listings.
func (w *MarkdownWriter) writeURLSets(md *markdown.Markdown, report *model.CrawlReport) {
	md.H2("Internal URLs")
	md.PlainText("")
	if len(report.InternalURLs) == 0 {
		md.PlainText("No internal URLs discovered.")
	} else {
		md.BulletList(report.InternalURLs...)
	}
	md.PlainText("")

	md.H2("External URLs")
	md.PlainText("")
	if len(report.ExternalURLs) == 0 {
		md.PlainText("No external URLs discovered.")
	} else {
		md.BulletList(report.ExternalURLs...)
	}
	md.PlainText("")
}

// writeFailures writes the failure table, if any failures were recorded.
func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, report *model.CrawlReport) {
	if len(report.Failures) == 0 {
		return
	}

	md.H2("Failures")
	md.PlainText("")

	rows := make([][]string, len(report.Failures))
	for i, f := range report.Failures {
		rows[i] = []string{
			truncateString(f.URL, 60),
			f.Stage,
			truncateString(f.Reason, 80),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Stage", "Reason"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [sitespider](https://github.com/nao1215/sitespider)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
