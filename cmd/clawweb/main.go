// Package main provides the entry point for the clawweb CLI.
//
// clawweb is a single-host breadth-first web crawler. Starting from a
// root URL it follows links on the root's host down to a depth limit
// and reports the discovered link graph.
//
// Usage:
//
//	clawweb <url>
//	clawweb --links <url>
//	clawweb --depth 5 --json <url>
//
// See --help for all available options.
package main

// main is the entry point for clawweb.
func main() {
	Execute()
}
