package report

import (
	"io"

	"github.com/abhiatluri/NutritionTracker/internal/model"
)

// Writer outputs a scrape report to a configured destination. The JSON
// form is for tool integration; the Markdown form is a human summary.
// Both consume the same envelope, so one run can be written to several
// destinations at once through MultiWriter.
type Writer interface {
	// Write outputs the report. It returns the number of bytes written
	// and any error encountered.
	Write(report *model.ScrapeReport) (int, error)
}

// MultiWriter writes a report to multiple Writers, in order. Writing
// stops at the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers. It returns the
// total bytes written across all writers.
func (m *MultiWriter) Write(report *model.ScrapeReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides the shared output destination for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
