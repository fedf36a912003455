// Package main provides the entry point for the clawweb CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/clawweb/internal/config"
)

// NewRootCmd creates the root command for clawweb.
// The root command itself runs the crawl; subcommands cover history and
// version information.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clawweb [flags] <url>...",
		Short: "Single-host breadth-first web crawler",
		Long: `clawweb crawls a site breadth-first from a root URL, restricted to the
root's host, down to a configurable depth limit. It reports the set of
discovered links and the directed graph of edges between visited pages
and the URLs they reference.

Examples:
  # Crawl a site with the default depth limit
  clawweb https://example.com/

  # Print only the links on the root page, numbered
  clawweb --links https://example.com/

  # Shallow crawl with a Markdown report written to a file
  clawweb --depth 2 --markdown -o report.md https://example.com/

  # Stay under a path prefix and skip the archive
  clawweb --confine https://example.com/docs/ --exclude https://example.com/docs/archive/ https://example.com/docs/

Configuration file (.clawweb) example:
  sites:
    example.com:
      depth: 5
      exclude:
        - https://example.com/logout
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				fmt.Fprintln(cmd.ErrOrStderr(), cmd.UsageString())
				return config.ErrNoTarget
			}
			return nil
		},
		RunE:          runRootCmd,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Crawl behavior flags
	cmd.Flags().BoolP("links", "l", false,
		"Fetch only the root URL and print its outbound links")
	cmd.Flags().IntP("depth", "d", config.DefaultDepthLimit,
		"Maximum depth to traverse")
	cmd.Flags().String("confine", "",
		"Only follow and report URLs starting with this prefix")
	cmd.Flags().StringArray("exclude", nil,
		"Do not follow URLs starting with this prefix (repeatable)")
	cmd.Flags().Bool("no-host-lock", false,
		"Allow following links to hosts other than the root's")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency,
		"Number of fetches in flight within one depth level")
	cmd.Flags().Int("max-pages", config.DefaultMaxPages,
		"Maximum number of pages to fetch per crawl (0 = unlimited)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Per-request HTTP timeout (0 = transport default)")
	cmd.Flags().String("user-agent", "",
		"Custom User-Agent header")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .clawweb in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("save", false,
		"Save crawl results to the history database")

	// Global flags
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
