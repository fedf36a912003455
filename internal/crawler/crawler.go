package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/clawweb/internal/model"
)

// DefaultDepthLimit bounds traversal depth when no limit is configured.
// 30 levels is effectively unbounded for real sites while still
// guaranteeing termination on link cycles that slip past deduplication.
const DefaultDepthLimit = 30

// Crawler performs one breadth-first traversal from a root URL.
// It owns the frontier, the seen and visited sets, the link registry,
// and the crawl counters. A Crawler instance serves exactly one Run;
// create a fresh one per traversal.
type Crawler struct {
	root        string
	host        string
	depthLimit  int
	confine     string
	exclude     []string
	hostLock    bool
	recordAll   bool
	concurrency int
	maxPages    int
	fetcher     *Fetcher
	logger      *slog.Logger

	followFilters []Filter
	reportFilters []Filter

	// mu guards everything below. All membership checks and inserts
	// happen under it as one atomic step, which is what keeps the
	// fetch-at-most-once and enqueue-at-most-once invariants true when
	// concurrency is enabled.
	mu          sync.Mutex
	seen        map[string]bool
	visited     map[string]bool
	remembered  map[string]bool
	urlOrder    []string
	linkSet     map[string]bool
	linkOrder   []model.Link
	numLinks    int
	numFollowed int
}

// queueItem is one frontier entry: a URL and the depth it was
// discovered at. The root has depth 0.
type queueItem struct {
	url   string
	depth int
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithDepthLimit sets the maximum traversal depth. Items deeper than
// the limit are discarded without fetching.
func WithDepthLimit(depth int) Option {
	return func(c *Crawler) {
		c.depthLimit = depth
	}
}

// WithConfinePrefix restricts following and reporting to URLs starting
// with the given prefix. Empty means unconfined.
func WithConfinePrefix(prefix string) Option {
	return func(c *Crawler) {
		c.confine = prefix
	}
}

// WithExclude sets URL prefixes that must not be followed. The slice is
// copied per instance; crawlers never share exclusion state.
func WithExclude(prefixes []string) Option {
	return func(c *Crawler) {
		c.exclude = make([]string, len(prefixes))
		copy(c.exclude, prefixes)
	}
}

// WithHostLock enables or disables restricting traversal to the root's
// hostname. Enabled by default.
func WithHostLock(locked bool) Option {
	return func(c *Crawler) {
		c.hostLock = locked
	}
}

// WithRecordAll disables the report filters: every discovered link is
// counted and stored regardless of confine prefix or host. Following is
// unaffected.
func WithRecordAll(recordAll bool) Option {
	return func(c *Crawler) {
		c.recordAll = recordAll
	}
}

// WithConcurrency sets how many fetches may run at once within a depth
// level. The default of 1 gives strict FIFO breadth-first order; higher
// values keep level order (every depth-d item completes before any
// depth-d+1 item starts) but relax ordering within a level.
func WithConcurrency(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithMaxPages caps the number of pages fetched in one run.
// 0 means unbounded; the depth limit is then the only brake.
func WithMaxPages(n int) Option {
	return func(c *Crawler) {
		c.maxPages = n
	}
}

// WithFetcher sets the page fetcher. Defaults to NewFetcher(nil).
func WithFetcher(f *Fetcher) Option {
	return func(c *Crawler) {
		c.fetcher = f
	}
}

// WithLogger sets a custom logger for the crawler.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// New creates a Crawler rooted at root.
// The root's hostname is extracted here and drives the same-host filter
// for the whole run.
func New(root string, opts ...Option) (*Crawler, error) {
	u, err := url.Parse(root)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidRoot, root, err)
	}

	c := &Crawler{
		root:        root,
		host:        u.Hostname(),
		depthLimit:  DefaultDepthLimit,
		hostLock:    true,
		concurrency: 1,
		logger:      slog.Default(),
		seen:        make(map[string]bool),
		visited:     make(map[string]bool),
		remembered:  make(map[string]bool),
		linkSet:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.depthLimit < 0 {
		return nil, ErrDepthLimit
	}
	if c.fetcher == nil {
		c.fetcher = NewFetcher(nil, WithFetcherLogger(c.logger))
	}

	// The visited filter reads the map directly; filter chains are only
	// ever evaluated while mu is held.
	c.followFilters = []Filter{
		PrefixFilter{Prefix: c.confine},
		NewExclusionFilter(c.exclude),
		NewVisitedFilter(func(rawURL string) bool { return c.visited[rawURL] }),
	}
	if c.hostLock {
		c.followFilters = append(c.followFilters, HostFilter{Host: c.host, Logger: c.logger})
	}

	if !c.recordAll {
		c.reportFilters = []Filter{PrefixFilter{Prefix: c.confine}}
		if c.hostLock {
			c.reportFilters = append(c.reportFilters, HostFilter{Host: c.host, Logger: c.logger})
		}
	}

	return c, nil
}

// Host returns the hostname traversal is locked to.
func (c *Crawler) Host() string {
	return c.host
}

// Run executes the breadth-first traversal and returns the crawl report.
//
// The frontier is processed level by level. Within a level, items run
// through an errgroup bounded by the configured concurrency; at
// concurrency 1 this degenerates to the strict FIFO order of a single
// queue. Per-page failures are logged and abandoned; only context
// cancellation ends the run early, returning the partial report together
// with the context error.
func (c *Crawler) Run(ctx context.Context) (*model.Report, error) {
	start := time.Now()

	level := []queueItem{{url: c.root, depth: 0}}
	for len(level) > 0 && ctx.Err() == nil {
		var nextMu sync.Mutex
		var next []queueItem
		enqueue := func(item queueItem) {
			nextMu.Lock()
			next = append(next, item)
			nextMu.Unlock()
		}

		g := new(errgroup.Group)
		g.SetLimit(c.concurrency)
		for _, item := range level {
			g.Go(func() error {
				if ctx.Err() != nil {
					return nil
				}
				c.processItem(ctx, item, enqueue)
				return nil
			})
		}
		_ = g.Wait() // workers never return errors; failures are per-page

		level = next
	}

	report := c.snapshot(start)
	if err := ctx.Err(); err != nil {
		c.logger.Warn("crawl cancelled", "root", c.root, "reason", err)
		return report, err
	}
	return report, nil
}

// processItem handles one frontier item: filter, fetch, and record.
// Any failure is confined to this item.
func (c *Crawler) processItem(ctx context.Context, item queueItem, enqueue func(queueItem)) {
	if item.depth > c.depthLimit {
		return
	}

	c.mu.Lock()
	if c.maxPages > 0 && c.numFollowed >= c.maxPages {
		c.mu.Unlock()
		return
	}
	rejected := rejections(c.followFilters, item.url)
	if len(rejected) > 0 {
		c.mu.Unlock()
		if item.depth == 0 {
			// The traversal still runs, but with the root unfetchable
			// it will yield nothing; say why up front.
			c.logger.Warn("starting URL rejected by follow filters",
				"url", item.url, "filters", rejected)
		}
		return
	}
	// Mark before fetching: a failed fetch still counts as an attempt.
	c.visited[item.url] = true
	c.numFollowed++
	c.mu.Unlock()

	outbound, err := c.fetcher.Fetch(ctx, item.url)
	if err != nil {
		c.logger.Warn("cannot process URL", "url", item.url, "error", err)
		return
	}

	for _, raw := range outbound {
		linkURL := Normalize(raw)

		c.mu.Lock()
		if !c.seen[linkURL] {
			c.seen[linkURL] = true
			enqueue(queueItem{url: linkURL, depth: item.depth + 1})
		}
		// Recording is independent of following: a link can be
		// remembered even if its target is never fetched, and vice
		// versa.
		if len(rejections(c.reportFilters, linkURL)) == 0 {
			c.numLinks++
			if !c.remembered[linkURL] {
				c.remembered[linkURL] = true
				c.urlOrder = append(c.urlOrder, linkURL)
			}
			link := model.Link{Source: item.url, Destination: linkURL, Type: model.LinkTypeHref}
			if !c.linkSet[link.Key()] {
				c.linkSet[link.Key()] = true
				c.linkOrder = append(c.linkOrder, link)
			}
		}
		c.mu.Unlock()
	}
}

// snapshot assembles the report from current state.
func (c *Crawler) snapshot(start time.Time) *model.Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	urls := make([]string, len(c.urlOrder))
	copy(urls, c.urlOrder)
	links := make([]model.Link, len(c.linkOrder))
	copy(links, c.linkOrder)

	return &model.Report{
		Root:        c.root,
		Host:        c.host,
		DepthLimit:  c.depthLimit,
		StartedAt:   start,
		Duration:    time.Since(start),
		NumLinks:    c.numLinks,
		NumFollowed: c.numFollowed,
		URLs:        urls,
		Links:       links,
	}
}
