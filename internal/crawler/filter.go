package crawler

import (
	"log/slog"
	"net/url"
	"strings"
)

// Filter is a URL predicate used to gate crawler decisions. Filters are
// composed into ordered chains evaluated as a logical AND: a URL passes
// a chain only if every filter allows it.
//
// Design decision: we use named types rather than bare func(string) bool
// values because:
//  1. Each filter can be unit tested independently
//  2. Name() lets diagnostics say which filter rejected a URL
//  3. Filters can carry per-instance configuration state
type Filter interface {
	// Allow reports whether the URL passes this filter.
	Allow(rawURL string) bool

	// Name identifies the filter in diagnostics.
	Name() string
}

// rejections returns the names of every filter in the chain that
// rejects the URL. An empty result means the URL passes.
func rejections(filters []Filter, rawURL string) []string {
	var rejected []string
	for _, f := range filters {
		if !f.Allow(rawURL) {
			rejected = append(rejected, f.Name())
		}
	}
	return rejected
}

// PrefixFilter allows only URLs that start with a confine prefix.
// The zero prefix allows everything, so an unconfined crawl can use the
// same chain shape as a confined one.
type PrefixFilter struct {
	// Prefix is the confine prefix. Empty means unconfined.
	Prefix string
}

// Allow implements Filter.
func (f PrefixFilter) Allow(rawURL string) bool {
	return f.Prefix == "" || strings.HasPrefix(rawURL, f.Prefix)
}

// Name implements Filter.
func (f PrefixFilter) Name() string { return "confine-prefix" }

// ExclusionFilter rejects URLs that start with any excluded prefix.
type ExclusionFilter struct {
	prefixes []string
}

// NewExclusionFilter creates an ExclusionFilter over a private copy of
// the given prefixes. The copy matters: sharing a caller-owned slice
// between crawler instances would let one crawl's configuration leak
// into another.
func NewExclusionFilter(prefixes []string) ExclusionFilter {
	owned := make([]string, len(prefixes))
	copy(owned, prefixes)
	return ExclusionFilter{prefixes: owned}
}

// Allow implements Filter.
func (f ExclusionFilter) Allow(rawURL string) bool {
	for _, p := range f.prefixes {
		if strings.HasPrefix(rawURL, p) {
			return false
		}
	}
	return true
}

// Name implements Filter.
func (f ExclusionFilter) Name() string { return "excluded-prefix" }

// VisitedFilter rejects URLs that have already been fetched. It queries
// the owning crawler at evaluation time rather than holding a snapshot,
// so it stays correct as the visited set grows.
type VisitedFilter struct {
	visited func(rawURL string) bool
}

// NewVisitedFilter creates a VisitedFilter backed by the given
// membership function.
func NewVisitedFilter(visited func(rawURL string) bool) VisitedFilter {
	return VisitedFilter{visited: visited}
}

// Allow implements Filter.
func (f VisitedFilter) Allow(rawURL string) bool {
	return !f.visited(rawURL)
}

// Name implements Filter.
func (f VisitedFilter) Name() string { return "already-visited" }

// HostFilter allows only URLs whose hostname equals the root hostname.
// Comparison is case-sensitive on the already-parsed hostname. A URL
// that cannot be parsed fails closed: it is treated as a foreign host,
// a diagnostic is logged, and the crawl continues unaffected.
type HostFilter struct {
	// Host is the root hostname to match.
	Host string

	// Logger receives parse-failure diagnostics. Nil means slog.Default.
	Logger *slog.Logger
}

// Allow implements Filter.
func (f HostFilter) Allow(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		logger := f.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("cannot resolve host for URL", "url", rawURL, "error", err)
		return false
	}
	return u.Hostname() == f.Host
}

// Name implements Filter.
func (f HostFilter) Name() string { return "same-host" }
