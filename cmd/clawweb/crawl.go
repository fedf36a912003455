package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/clawweb/internal/config"
	"github.com/nao1215/clawweb/internal/crawler"
	"github.com/nao1215/clawweb/internal/database"
	"github.com/nao1215/clawweb/internal/log"
	"github.com/nao1215/clawweb/internal/model"
	"github.com/nao1215/clawweb/internal/report"
)

// runRootCmd executes the crawl (or links mode) for the root command.
func runRootCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	// Context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	if cfg.LinksOnly {
		return runLinks(ctx, cfg, logger, cmd.OutOrStdout())
	}
	return runCrawl(ctx, cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.LinksOnly, err = cmd.Flags().GetBool("links")
	if err != nil {
		return nil, err
	}
	cfg.DepthLimit, err = cmd.Flags().GetInt("depth")
	if err != nil {
		return nil, err
	}
	cfg.ConfinePrefix, err = cmd.Flags().GetString("confine")
	if err != nil {
		return nil, err
	}
	cfg.ExcludePrefixes, err = cmd.Flags().GetStringArray("exclude")
	if err != nil {
		return nil, err
	}
	noHostLock, err := cmd.Flags().GetBool("no-host-lock")
	if err != nil {
		return nil, err
	}
	cfg.HostLock = !noHostLock
	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}
	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}
	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}
	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}
	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB, err = cmd.Flags().GetBool("save")
	if err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	// Load per-host configuration.
	// An explicitly requested config file must exist; the default
	// locations are optional.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.Targets = args
	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// runCrawl crawls every target sequentially, each with its own Crawler
// instance, and writes diagnostics, reports, and history.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout, stderr io.Writer) error {
	var db *database.CrawlDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	for _, target := range cfg.Targets {
		if err := crawlOne(ctx, cfg, target, logger, db, stdout, stderr); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return nil
}

// crawlOne runs a single traversal from target.
func crawlOne(ctx context.Context, cfg *config.Config, target string, logger *slog.Logger, db *database.CrawlDB, stdout, stderr io.Writer) error {
	depth, confine, exclude, userAgent := settingsFor(cfg, target)

	c, err := crawler.New(target,
		crawler.WithDepthLimit(depth),
		crawler.WithConfinePrefix(confine),
		crawler.WithExclude(exclude),
		crawler.WithHostLock(cfg.HostLock),
		crawler.WithConcurrency(cfg.Concurrency),
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithFetcher(newFetcher(cfg, userAgent, logger)),
		crawler.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	fmt.Fprintf(stderr, "Crawling %s (Max Depth: %d)\n", target, depth)

	result, runErr := c.Run(ctx)
	if runErr != nil && ctx.Err() == nil {
		return runErr
	}

	summary := report.NewTextWriter(stderr)
	if _, err := summary.Write(result); err != nil {
		return err
	}

	if cfg.JSONReport || cfg.MarkdownReport {
		if err := writeReport(cfg, result, stdout); err != nil {
			return err
		}
	}

	if db != nil {
		id, err := db.SaveReport(ctx, result)
		if err != nil {
			return fmt.Errorf("failed to save crawl: %w", err)
		}
		logger.Info("crawl saved", "id", id, "root", target)
	}

	// A cancelled run still reported partial results; surface the
	// cancellation after they are written.
	return runErr
}

// settingsFor merges per-host config file settings over the global
// flags for one target URL.
func settingsFor(cfg *config.Config, target string) (depth int, confine string, exclude []string, userAgent string) {
	depth = cfg.DepthLimit
	confine = cfg.ConfinePrefix
	exclude = cfg.ExcludePrefixes
	userAgent = cfg.UserAgent

	u, err := url.Parse(target)
	if err != nil || cfg.SiteConfigs == nil {
		return depth, confine, exclude, userAgent
	}

	site := cfg.SiteConfigs.GetSiteConfig(u.Hostname())
	if site.Depth != 0 {
		depth = site.Depth
	}
	if site.Confine != "" {
		confine = site.Confine
	}
	if len(site.Exclude) > 0 {
		exclude = append(append([]string{}, exclude...), site.Exclude...)
	}
	if site.UserAgent != "" {
		userAgent = site.UserAgent
	}
	return depth, confine, exclude, userAgent
}

// newFetcher builds the page fetcher for one target.
// Timeout 0 leaves the client on transport defaults.
func newFetcher(cfg *config.Config, userAgent string, logger *slog.Logger) *crawler.Fetcher {
	client := &http.Client{Timeout: cfg.Timeout}

	opts := []crawler.FetcherOption{crawler.WithFetcherLogger(logger)}
	if userAgent != "" {
		opts = append(opts, crawler.WithUserAgent(userAgent))
	}
	return crawler.NewFetcher(client, opts...)
}

// writeReport renders the report in the selected format to stdout or,
// when --output is set, to a file.
func writeReport(cfg *config.Config, result *model.Report, stdout io.Writer) error {
	out := stdout
	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}
		f, err := os.Create(cfg.ReportFile) //nolint:gosec // User-provided report path is intentional
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		out = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewTextWriter(out, report.WithShowLinks(true))
	}

	_, err := w.Write(result)
	return err
}
