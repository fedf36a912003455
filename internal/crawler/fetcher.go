package crawler

import (
	"context"
	"html"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"

	xhtml "golang.org/x/net/html"
)

// Default fetcher settings.
const (
	// DefaultMaxBodySize caps how much of a response body is read.
	// 5MB covers any realistic HTML page while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultUserAgent identifies clawweb in HTTP requests. A
	// descriptive User-Agent lets operators identify crawler traffic
	// in their logs.
	DefaultUserAgent = "clawweb/1.0 (+https://github.com/nao1215/clawweb)"
)

// Fetcher retrieves a single page and extracts its outbound links.
// All per-fetch state is local to Fetch, so one Fetcher can safely serve
// many fetches, including concurrent ones.
//
// Design decision: we require an external *http.Client because:
//  1. Timeout policy belongs to the caller, not the fetcher
//  2. Tests can inject httptest-backed clients
//  3. One client means one connection pool across the whole crawl
type Fetcher struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
	logger      *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size to read.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// WithFetcherLogger sets a custom logger for the fetcher.
func WithFetcherLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a Fetcher using the given HTTP client.
// A nil client falls back to http.DefaultClient, which applies no
// timeout beyond the transport defaults.
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	f := &Fetcher{
		client:      client,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves pageURL and returns its outbound anchor URLs, resolved
// to absolute form, deduplicated, in document order.
//
// Redirects are followed transparently by the client; hrefs resolve
// against the requested URL, not the final response URL. That misplaces
// relative links behind cross-path redirects, and is kept as-is.
//
// Failures return a *FetchError classifying the cause; the caller treats
// any error as "zero outbound links" for this page.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Kind: KindTransport, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Kind: KindTransport, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &FetchError{
			URL:  pageURL,
			Kind: KindTransport,
			Err:  &url.Error{Op: "Get", URL: pageURL, Err: errStatus(resp.Status)},
		}
	}

	// The content type must be exactly text/html; parameters such as
	// charset are ignored in the comparison.
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || mediaType != "text/html" {
		return nil, &FetchError{URL: pageURL, Kind: KindNonHTML, Err: ErrNonHTMLContent}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, &FetchError{URL: pageURL, Kind: KindTransport, Err: err}
	}

	// Invalid byte sequences become U+FFFD instead of failing the page.
	content := strings.ToValidUTF8(string(body), "�")

	links := f.extractLinks(base, content)
	f.logger.Debug("fetched page", "url", pageURL, "outbound", len(links))
	return links, nil
}

// extractLinks enumerates anchor elements in document order and resolves
// each href against the base URL. The raw href text is HTML-escaped
// before resolution. Each resulting URL is emitted at most once.
func (f *Fetcher) extractLinks(base *url.URL, content string) []string {
	doc, err := xhtml.Parse(strings.NewReader(content))
	if err != nil {
		// html.Parse only fails on reader errors; a string reader
		// cannot produce one, but stay safe.
		f.logger.Warn("cannot parse HTML", "url", base.String(), "error", err)
		return nil
	}

	seen := make(map[string]bool)
	var out []string

	var walk func(*xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.ElementNode && n.Data == "a" {
			if href, ok := anchorHref(n); ok {
				ref, err := url.Parse(html.EscapeString(href))
				if err != nil {
					f.logger.Debug("skipping unparseable href", "href", href, "error", err)
				} else {
					resolved := base.ResolveReference(ref).String()
					if !seen[resolved] {
						seen[resolved] = true
						out = append(out, resolved)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return out
}

// anchorHref returns the href attribute of an anchor node.
// Anchors without an href attribute are skipped entirely; an empty
// href is still a valid self-reference.
func anchorHref(n *xhtml.Node) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == "href" {
			return attr.Val, true
		}
	}
	return "", false
}

// errStatus is a minimal error for HTTP status failures, keeping the
// status text visible in logs without a custom type per status.
type errStatus string

func (e errStatus) Error() string { return "unexpected status " + string(e) }
