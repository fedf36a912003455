package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/clawweb/internal/model"
)

// MarkdownWriter outputs reports in Markdown format, designed for
// documentation and sharing.
//
// Design decision: the nao1215/markdown library over string building
// because:
//  1. Type-safe markdown generation
//  2. Built-in tables and lists
//  3. GitHub-flavored markdown output
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

// Write outputs the full crawl report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeEdges(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with crawl information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.Report) {
	md.H1("clawweb Crawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Root URL", "`" + report.Root + "`"},
			{"Host", "`" + report.Host + "`"},
			{"Depth Limit", strconv.Itoa(report.DepthLimit)},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", report.Duration.String()},
		},
	})
	md.PlainText("")
}

// writeSummary writes the counter summary.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.Report) {
	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Counter", "Value"},
		Rows: [][]string{
			{"Links found", strconv.Itoa(report.NumLinks)},
			{"Pages followed", strconv.Itoa(report.NumFollowed)},
			{"Distinct URLs", strconv.Itoa(len(report.URLs))},
			{"Distinct edges", strconv.Itoa(len(report.Links))},
		},
	})
	md.PlainText("")
}

// writeEdges writes the link graph as a table, one row per edge.
func (w *MarkdownWriter) writeEdges(md *markdown.Markdown, report *model.Report) {
	md.H2("Link Graph")
	md.PlainText("")

	if len(report.Links) == 0 {
		md.PlainText("No links remembered.")
		md.PlainText("")
		return
	}

	title := cases.Title(language.English)
	rows := make([][]string, 0, len(report.Links))
	for _, link := range report.Links {
		rows = append(rows, []string{
			"`" + link.Source + "`",
			"`" + link.Destination + "`",
			title.String(string(link.Type)),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Source", "Destination", "Type"},
		Rows:   rows,
	})
	md.PlainText("")
}
