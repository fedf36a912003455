package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/nao1215/clawweb/internal/config"
)

// runLinks implements links mode: fetch only the target pages and print
// their outbound URLs, numbered from 1, one per line.
//
// Only URLs containing the literal substring "http" are printed. This is
// a text match, not scheme inspection: it is how the mode has always
// filtered out mailto:, tel:, and javascript: references, and absolute
// http(s) URLs always contain it.
func runLinks(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	for _, target := range cfg.Targets {
		_, _, _, userAgent := settingsFor(cfg, target)
		fetcher := newFetcher(cfg, userAgent, logger)

		links, err := fetcher.Fetch(ctx, target)
		if err != nil {
			// Same contract as the crawl: a failed page yields zero
			// links and is not fatal.
			logger.Warn("cannot fetch links", "url", target, "error", err)
			continue
		}

		n := 1
		for _, link := range links {
			if strings.Contains(link, "http") {
				fmt.Fprintf(out, "%d. %s\n", n, link)
				n++
			}
		}
	}
	return nil
}
