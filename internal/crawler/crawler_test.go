package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// testSite serves a map of path -> HTML body as text/html.
// Unknown paths return 404.
func testSite(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// TestCrawler tests the breadth-first traversal engine.
func TestCrawler(t *testing.T) {
	t.Parallel()

	t.Run("host lock keeps the crawl on the root host", func(t *testing.T) {
		t.Parallel()

		// Root links to a same-host page and a foreign-host page.
		srv := testSite(t, map[string]string{
			"/":  `<a href="/a">a</a><a href="http://other.example/b">b</a>`,
			"/a": `<p>leaf</p>`,
		})

		c, err := New(srv.URL+"/", WithFetcher(NewFetcher(srv.Client())))
		if err != nil {
			t.Fatalf("failed to create crawler: %v", err)
		}

		report, err := c.Run(context.Background())
		if err != nil {
			t.Fatalf("unexpected crawl error: %v", err)
		}

		if report.NumFollowed != 2 {
			t.Errorf("expected 2 pages followed (root and /a), got %d", report.NumFollowed)
		}
		if report.NumLinks != 1 {
			t.Errorf("expected 1 remembered link, got %d", report.NumLinks)
		}
		if len(report.Links) != 1 {
			t.Fatalf("expected 1 edge, got %d: %v", len(report.Links), report.Links)
		}
		if report.Links[0].Destination != srv.URL+"/a" {
			t.Errorf("expected edge to %q, got %q", srv.URL+"/a", report.Links[0].Destination)
		}
	})

	t.Run("depth zero fetches only the root but still counts its links", func(t *testing.T) {
		t.Parallel()

		srv := testSite(t, map[string]string{
			"/":  `<a href="/a">a</a><a href="/b">b</a>`,
			"/a": `<p>never fetched</p>`,
			"/b": `<p>never fetched</p>`,
		})

		c, err := New(srv.URL+"/",
			WithDepthLimit(0),
			WithFetcher(NewFetcher(srv.Client())),
		)
		if err != nil {
			t.Fatalf("failed to create crawler: %v", err)
		}

		report, err := c.Run(context.Background())
		if err != nil {
			t.Fatalf("unexpected crawl error: %v", err)
		}

		if report.NumFollowed != 1 {
			t.Errorf("expected only the root to be fetched, got %d", report.NumFollowed)
		}
		// Discovery counting is independent of whether the target is
		// ever fetched.
		if report.NumLinks != 2 {
			t.Errorf("expected 2 remembered links, got %d", report.NumLinks)
		}
		if len(report.Links) != 2 {
			t.Errorf("expected 2 edges, got %d", len(report.Links))
		}
	})

	t.Run("non-HTML page counts as followed with zero links", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.4"))
		}))
		t.Cleanup(srv.Close)

		c, err := New(srv.URL+"/", WithFetcher(NewFetcher(srv.Client())))
		if err != nil {
			t.Fatalf("failed to create crawler: %v", err)
		}

		report, err := c.Run(context.Background())
		if err != nil {
			t.Fatalf("unexpected crawl error: %v", err)
		}

		if report.NumFollowed != 1 {
			t.Errorf("expected the attempt to count, got %d", report.NumFollowed)
		}
		if report.NumLinks != 0 || len(report.Links) != 0 {
			t.Errorf("expected zero links, got %d/%d", report.NumLinks, len(report.Links))
		}
	})

	t.Run("link cycles fetch each page once", func(t *testing.T) {
		t.Parallel()

		srv := testSite(t, map[string]string{
			"/":  `<a href="/x">x</a>`,
			"/x": `<a href="/">home</a><a href="/x">self</a>`,
		})

		c, err := New(srv.URL+"/", WithFetcher(NewFetcher(srv.Client())))
		if err != nil {
			t.Fatalf("failed to create crawler: %v", err)
		}

		report, err := c.Run(context.Background())
		if err != nil {
			t.Fatalf("unexpected crawl error: %v", err)
		}

		if report.NumFollowed != 2 {
			t.Errorf("expected 2 pages fetched despite the cycle, got %d", report.NumFollowed)
		}
		// Both edges are remembered even though their targets were
		// already visited.
		if len(report.Links) != 3 {
			t.Errorf("expected 3 distinct edges, got %d: %v", len(report.Links), report.Links)
		}
	})

	t.Run("fragment variants collapse to one frontier entry", func(t *testing.T) {
		t.Parallel()

		srv := testSite(t, map[string]string{
			"/":  `<a href="/a#one">one</a><a href="/a#two">two</a>`,
			"/a": `<p>leaf</p>`,
		})

		c, err := New(srv.URL+"/", WithFetcher(NewFetcher(srv.Client())))
		if err != nil {
			t.Fatalf("failed to create crawler: %v", err)
		}

		report, err := c.Run(context.Background())
		if err != nil {
			t.Fatalf("unexpected crawl error: %v", err)
		}

		if report.NumFollowed != 2 {
			t.Errorf("expected root and /a only, got %d", report.NumFollowed)
		}
		// The two anchors normalize to the same URL; the second sighting
		// still counts but the edge set stays at one entry.
		if report.NumLinks != 2 {
			t.Errorf("expected both sightings counted, got %d", report.NumLinks)
		}
		if len(report.Links) != 1 {
			t.Errorf("expected 1 distinct edge, got %d", len(report.Links))
		}
	})

	t.Run("depth limit discards deeper items unfetched", func(t *testing.T) {
		t.Parallel()

		srv := testSite(t, map[string]string{
			"/":   `<a href="/d1">d1</a>`,
			"/d1": `<a href="/d2">d2</a>`,
			"/d2": `<a href="/d3">d3</a>`,
		})

		c, err := New(srv.URL+"/",
			WithDepthLimit(1),
			WithFetcher(NewFetcher(srv.Client())),
		)
		if err != nil {
			t.Fatalf("failed to create crawler: %v", err)
		}

		report, err := c.Run(context.Background())
		if err != nil {
			t.Fatalf("unexpected crawl error: %v", err)
		}

		if report.NumFollowed != 2 {
			t.Errorf("expected root and /d1 only, got %d", report.NumFollowed)
		}
	})

	t.Run("confine prefix gates following and reporting", func(t *testing.T) {
		t.Parallel()

		srv := testSite(t, map[string]string{
			"/docs/":  `<a href="/docs/a">in</a><a href="/blog/b">out</a>`,
			"/docs/a": `<p>leaf</p>`,
			"/blog/b": `<p>should not be fetched</p>`,
		})

		c, err := New(srv.URL+"/docs/",
			WithConfinePrefix(srv.URL+"/docs/"),
			WithFetcher(NewFetcher(srv.Client())),
		)
		if err != nil {
			t.Fatalf("failed to create crawler: %v", err)
		}

		report, err := c.Run(context.Background())
		if err != nil {
			t.Fatalf("unexpected crawl error: %v", err)
		}

		if report.NumFollowed != 2 {
			t.Errorf("expected 2 in-confine pages fetched, got %d", report.NumFollowed)
		}
		if report.NumLinks != 1 {
			t.Errorf("expected 1 in-confine link remembered, got %d", report.NumLinks)
		}
		for _, link := range report.Links {
			if link.Destination == srv.URL+"/blog/b" {
				t.Error("out-of-confine link should not be remembered")
			}
		}
	})

	t.Run("excluded prefixes are not followed but still reported", func(t *testing.T) {
		t.Parallel()

		srv := testSite(t, map[string]string{
			"/":       `<a href="/keep">k</a><a href="/logout">l</a>`,
			"/keep":   `<p>leaf</p>`,
			"/logout": `<p>must not be fetched</p>`,
		})

		c, err := New(srv.URL+"/",
			WithExclude([]string{srv.URL + "/logout"}),
			WithFetcher(NewFetcher(srv.Client())),
		)
		if err != nil {
			t.Fatalf("failed to create crawler: %v", err)
		}

		report, err := c.Run(context.Background())
		if err != nil {
			t.Fatalf("unexpected crawl error: %v", err)
		}

		if report.NumFollowed != 2 {
			t.Errorf("expected /logout to be skipped, got %d follows", report.NumFollowed)
		}
		// Exclusion is a follow filter only; the edge is reported.
		if report.NumLinks != 2 {
			t.Errorf("expected both links remembered, got %d", report.NumLinks)
		}
	})

	t.Run("record all remembers foreign-host links", func(t *testing.T) {
		t.Parallel()

		srv := testSite(t, map[string]string{
			"/": `<a href="http://other.example/b">b</a>`,
		})

		c, err := New(srv.URL+"/",
			WithRecordAll(true),
			WithFetcher(NewFetcher(srv.Client())),
		)
		if err != nil {
			t.Fatalf("failed to create crawler: %v", err)
		}

		report, err := c.Run(context.Background())
		if err != nil {
			t.Fatalf("unexpected crawl error: %v", err)
		}

		if report.NumLinks != 1 {
			t.Errorf("expected the foreign link to be remembered, got %d", report.NumLinks)
		}
	})

	t.Run("same destination from two sources keeps both edges", func(t *testing.T) {
		t.Parallel()

		srv := testSite(t, map[string]string{
			"/":  `<a href="/a">a</a><a href="/b">b</a>`,
			"/a": `<a href="/c">c</a>`,
			"/b": `<a href="/c">c</a>`,
			"/c": `<p>leaf</p>`,
		})

		c, err := New(srv.URL+"/", WithFetcher(NewFetcher(srv.Client())))
		if err != nil {
			t.Fatalf("failed to create crawler: %v", err)
		}

		report, err := c.Run(context.Background())
		if err != nil {
			t.Fatalf("unexpected crawl error: %v", err)
		}

		var toC int
		for _, link := range report.Links {
			if link.Destination == srv.URL+"/c" {
				toC++
			}
		}
		if toC != 2 {
			t.Errorf("expected 2 distinct edges to /c, got %d", toC)
		}
	})

	t.Run("followed count matches visited set size under concurrency", func(t *testing.T) {
		t.Parallel()

		pages := map[string]string{"/": ""}
		for i := range 20 {
			path := fmt.Sprintf("/p%d", i)
			pages["/"] += fmt.Sprintf(`<a href="%s">p</a>`, path)
			pages[path] = `<a href="/">home</a>`
		}
		srv := testSite(t, pages)

		c, err := New(srv.URL+"/",
			WithConcurrency(8),
			WithFetcher(NewFetcher(srv.Client())),
		)
		if err != nil {
			t.Fatalf("failed to create crawler: %v", err)
		}

		report, err := c.Run(context.Background())
		if err != nil {
			t.Fatalf("unexpected crawl error: %v", err)
		}

		if report.NumFollowed != 21 {
			t.Errorf("expected 21 pages fetched exactly once each, got %d", report.NumFollowed)
		}
	})

	t.Run("max pages caps the fetch count", func(t *testing.T) {
		t.Parallel()

		srv := testSite(t, map[string]string{
			"/":  `<a href="/a">a</a><a href="/b">b</a><a href="/c">c</a>`,
			"/a": `<p>leaf</p>`,
			"/b": `<p>leaf</p>`,
			"/c": `<p>leaf</p>`,
		})

		c, err := New(srv.URL+"/",
			WithMaxPages(2),
			WithFetcher(NewFetcher(srv.Client())),
		)
		if err != nil {
			t.Fatalf("failed to create crawler: %v", err)
		}

		report, err := c.Run(context.Background())
		if err != nil {
			t.Fatalf("unexpected crawl error: %v", err)
		}

		if report.NumFollowed != 2 {
			t.Errorf("expected the page cap to hold, got %d", report.NumFollowed)
		}
	})

	t.Run("transport failures abandon only the failing page", func(t *testing.T) {
		t.Parallel()

		srv := testSite(t, map[string]string{
			"/":   `<a href="/gone">gone</a><a href="/ok">ok</a>`,
			"/ok": `<p>leaf</p>`,
			// /gone is not served: the site returns 404 for it.
		})

		c, err := New(srv.URL+"/", WithFetcher(NewFetcher(srv.Client())))
		if err != nil {
			t.Fatalf("failed to create crawler: %v", err)
		}

		report, err := c.Run(context.Background())
		if err != nil {
			t.Fatalf("unexpected crawl error: %v", err)
		}

		// The 404 page still counts as an attempt.
		if report.NumFollowed != 3 {
			t.Errorf("expected 3 attempts, got %d", report.NumFollowed)
		}
		if report.NumLinks != 2 {
			t.Errorf("expected 2 links from the root, got %d", report.NumLinks)
		}
	})

	t.Run("cancelled context returns partial results", func(t *testing.T) {
		t.Parallel()

		srv := testSite(t, map[string]string{
			"/": `<a href="/a">a</a>`,
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		c, err := New(srv.URL+"/", WithFetcher(NewFetcher(srv.Client())))
		if err != nil {
			t.Fatalf("failed to create crawler: %v", err)
		}

		report, err := c.Run(ctx)
		if err == nil {
			t.Error("expected the context error to surface")
		}
		if report == nil {
			t.Fatal("expected a partial report even when cancelled")
		}
	})

	t.Run("invalid root URL is rejected", func(t *testing.T) {
		t.Parallel()

		if _, err := New("http://exa mple.com/%zz"); err == nil {
			t.Error("expected an error for an unparseable root")
		}
	})
}
