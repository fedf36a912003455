package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nao1215/clawweb/internal/config"
	"github.com/nao1215/clawweb/internal/database"
)

// NewHistoryCmd creates the history command, which lists crawl runs
// saved with --save.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved crawl runs",
		Long: `History lists crawl runs previously saved with --save, most recent
first, with their counters. Use the run ID with external tooling against
the SQLite database for deeper queries.`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory containing the history database")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	// A missing database just means nothing was ever saved.
	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(dbDir, opts)
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved crawls.")
		return nil
	}
	defer db.Close()

	crawls, err := db.ListCrawls(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list crawls: %w", err)
	}
	if len(crawls) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved crawls.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tROOT\tDEPTH\tFOUND\tFOLLOWED\tSTARTED\tDURATION")
	for _, c := range crawls {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%s\t%s\n",
			c.ID,
			c.Root,
			c.DepthLimit,
			c.NumLinks,
			c.NumFollowed,
			c.StartedAt.Local().Format("2006-01-02 15:04:05"),
			c.Duration,
		)
	}
	return w.Flush()
}
