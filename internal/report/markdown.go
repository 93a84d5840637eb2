package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/abhiatluri/NutritionTracker/internal/model"
)

// MarkdownWriter outputs a human-readable scrape summary in Markdown
// format, with a per-location status table and aggregate totals.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the scrape summary in Markdown format.
func (w *MarkdownWriter) Write(report *model.ScrapeReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeLocations(md, report)
	w.writeAlert(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the run-level summary table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.ScrapeReport) {
	md.H1("Dining Nutrition Scrape")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Scraped At", report.ScrapeTimestamp},
			{"Locations", strconv.Itoa(report.TotalLocations)},
			{"Succeeded", strconv.Itoa(report.SuccessCount())},
			{"Failed", strconv.Itoa(report.ErrorCount())},
			{"Food Items", strconv.Itoa(report.TotalFoodItems)},
		},
	})
	md.PlainText("")
}

// writeLocations writes the per-location status table.
func (w *MarkdownWriter) writeLocations(md *markdown.Markdown, report *model.ScrapeReport) {
	md.H2("Locations")
	md.PlainText("")

	if len(report.DetailedResults) == 0 {
		md.PlainText("No locations scraped.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.DetailedResults))
	for i, r := range report.DetailedResults {
		status := "✅ success"
		detail := "-"
		if r.Status == model.StatusError {
			status = "❌ error"
			detail = truncateString(r.ErrorDetail, 60)
		}
		rows[i] = []string{
			r.Location,
			status,
			strconv.Itoa(len(r.Items)),
			strconv.Itoa(r.ResolvedCount()),
			detail,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Location", "Status", "Items", "Resolved", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeAlert writes an alert reflecting the run outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.ScrapeReport) {
	switch {
	case report.TotalLocations == 0:
		md.Note("Nothing was scraped.")
	case report.SuccessCount() == 0:
		md.Warningf("All %d location(s) failed to scrape.", report.ErrorCount())
	case report.ErrorCount() > 0:
		md.Importantf("%d location(s) failed; their menus are missing from the dictionary.", report.ErrorCount())
	default:
		md.Tip("All locations scraped successfully.")
	}
	md.PlainText("")
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
