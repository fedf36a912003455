// Package report renders crawl results in text, JSON, and Markdown.
//
// All writers implement the Writer interface over *model.Report, so the
// CLI can pick a format (and destination) without the crawler knowing
// anything about output.
package report
