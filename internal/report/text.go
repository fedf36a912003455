package report

import (
	"fmt"
	"io"

	"github.com/nao1215/clawweb/internal/model"
)

// TextWriter outputs human-readable text reports.
//
// Design decision: plain text with fixed-width alignment rather than
// ANSI colors because:
//  1. It works in all terminals without compatibility issues
//  2. It's easy to pipe to files or other tools
//  3. The summary lines stay grep-able across runs
type TextWriter struct {
	baseWriter

	// showLinks also prints the remembered edges, one per line.
	showLinks bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithShowLinks makes the writer list every remembered edge after the
// summary.
func WithShowLinks(show bool) TextWriterOption {
	return func(w *TextWriter) {
		w.showLinks = show
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the crawl summary. The Found/Followed lines keep their
// historical padding so existing scripts can keep scraping them.
func (w *TextWriter) Write(report *model.Report) (int, error) {
	var total int

	n, err := fmt.Fprintf(w.output, "Found:    %d\n", report.NumLinks)
	total += n
	if err != nil {
		return total, err
	}

	n, err = fmt.Fprintf(w.output, "Followed: %d\n", report.NumFollowed)
	total += n
	if err != nil {
		return total, err
	}

	if w.showLinks {
		for _, link := range report.Links {
			n, err = fmt.Fprintln(w.output, link.String())
			total += n
			if err != nil {
				return total, err
			}
		}
	}

	return total, nil
}
