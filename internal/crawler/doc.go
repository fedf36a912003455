// Package crawler implements clawweb's breadth-first web crawler.
//
// # Architecture
//
// The package is built from three pieces:
//
//   - Crawler: the BFS engine. It owns the frontier queue, the seen and
//     visited sets, the link registry, and the crawl counters.
//   - Fetcher: retrieves a single page and extracts its outbound anchor
//     URLs, resolved to absolute form and deduplicated in document order.
//   - Filter: named URL predicates. One ordered chain gates whether a
//     URL is fetched, a second independent chain gates whether a
//     discovered link is recorded in the output graph.
//
// Decoupling "may fetch" from "should report" lets a crawl explore
// outside a confine prefix while only reporting in-scope edges, or the
// reverse.
//
// # Invariants
//
//   - A URL enters the frontier at most once (checked against the seen
//     set before insertion).
//   - A URL is fetched at most once (the visited filter is part of the
//     follow chain).
//   - Items deeper than the depth limit are discarded unfetched.
//   - Within one fetch, the same outbound URL is never emitted twice.
//
// When concurrency is enabled, frontier items of one depth level are
// processed by a bounded errgroup; all set updates go through atomic
// check-and-insert under a single mutex, so the invariants hold
// unchanged. Level order is preserved: every depth-d item completes
// before any depth-(d+1) item starts.
//
// # Failure model
//
// Nothing that happens to a single page is fatal to the crawl. Non-HTML
// responses, HTTP errors, connection failures, and unparseable candidate
// URLs are logged, contribute zero outbound links, and the loop moves on.
// There is no retry: a transient failure yields "no links from this page"
// for the duration of the run.
package crawler
