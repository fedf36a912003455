package database

import (
	"context"
	"testing"
	"time"

	"github.com/nao1215/clawweb/internal/model"
)

// TestOpen tests database creation and the create-if-not-exists guard.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database and directory", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir() + "/nested/data"
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer db.Close()
	})

	t.Run("refuses to create when disabled", func(t *testing.T) {
		t.Parallel()

		opts := Options{CreateIfNotExists: false}
		if _, err := Open(t.TempDir(), opts); err == nil {
			t.Error("expected error opening a missing database")
		}
	})

	t.Run("reopens existing database", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		if err := db.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}

		db, err = Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("reopen error = %v", err)
		}
		defer db.Close()
	})
}

// TestSaveReport tests the save and query roundtrip.
func TestSaveReport(t *testing.T) {
	t.Parallel()

	newReport := func(root string, started time.Time) *model.Report {
		return &model.Report{
			Root:        root,
			Host:        "example.com",
			DepthLimit:  3,
			StartedAt:   started,
			Duration:    1500 * time.Millisecond,
			NumLinks:    2,
			NumFollowed: 3,
			URLs:        []string{root, root + "/a"},
			Links: []model.Link{
				{Source: root, Destination: root + "/a", Type: model.LinkTypeHref},
				{Source: root + "/a", Destination: root, Type: model.LinkTypeHref},
			},
		}
	}

	t.Run("roundtrip", func(t *testing.T) {
		t.Parallel()

		db, err := Open(t.TempDir(), DefaultOptions())
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer db.Close()

		ctx := context.Background()
		started := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
		report := newReport("http://example.com", started)

		crawlID, err := db.SaveReport(ctx, report)
		if err != nil {
			t.Fatalf("SaveReport() error = %v", err)
		}
		if crawlID == 0 {
			t.Error("SaveReport() returned zero crawl ID")
		}

		crawls, err := db.ListCrawls(ctx)
		if err != nil {
			t.Fatalf("ListCrawls() error = %v", err)
		}
		if len(crawls) != 1 {
			t.Fatalf("got %d crawls, want 1", len(crawls))
		}
		got := crawls[0]
		if got.ID != crawlID {
			t.Errorf("ID = %d, want %d", got.ID, crawlID)
		}
		if got.Root != report.Root {
			t.Errorf("Root = %q, want %q", got.Root, report.Root)
		}
		if got.Host != report.Host {
			t.Errorf("Host = %q, want %q", got.Host, report.Host)
		}
		if got.DepthLimit != report.DepthLimit {
			t.Errorf("DepthLimit = %d, want %d", got.DepthLimit, report.DepthLimit)
		}
		if got.NumLinks != report.NumLinks || got.NumFollowed != report.NumFollowed {
			t.Errorf("counters = (%d, %d), want (%d, %d)",
				got.NumLinks, got.NumFollowed, report.NumLinks, report.NumFollowed)
		}
		if !got.StartedAt.Equal(started) {
			t.Errorf("StartedAt = %v, want %v", got.StartedAt, started)
		}
		if got.Duration != report.Duration {
			t.Errorf("Duration = %v, want %v", got.Duration, report.Duration)
		}

		links, err := db.GetLinks(ctx, crawlID)
		if err != nil {
			t.Fatalf("GetLinks() error = %v", err)
		}
		if len(links) != 2 {
			t.Fatalf("got %d links, want 2", len(links))
		}
		for _, l := range links {
			if l.Type != model.LinkTypeHref {
				t.Errorf("link %s has type %q, want %q", l, l.Type, model.LinkTypeHref)
			}
		}
	})

	t.Run("lists most recent first", func(t *testing.T) {
		t.Parallel()

		db, err := Open(t.TempDir(), DefaultOptions())
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer db.Close()

		ctx := context.Background()
		older := newReport("http://example.com/old", time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC))
		newer := newReport("http://example.com/new", time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC))
		if _, err := db.SaveReport(ctx, older); err != nil {
			t.Fatalf("SaveReport() error = %v", err)
		}
		if _, err := db.SaveReport(ctx, newer); err != nil {
			t.Fatalf("SaveReport() error = %v", err)
		}

		crawls, err := db.ListCrawls(ctx)
		if err != nil {
			t.Fatalf("ListCrawls() error = %v", err)
		}
		if len(crawls) != 2 {
			t.Fatalf("got %d crawls, want 2", len(crawls))
		}
		if crawls[0].Root != "http://example.com/new" {
			t.Errorf("first crawl = %q, want the most recent run", crawls[0].Root)
		}
	})

	t.Run("links of unknown crawl are empty", func(t *testing.T) {
		t.Parallel()

		db, err := Open(t.TempDir(), DefaultOptions())
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer db.Close()

		links, err := db.GetLinks(context.Background(), 42)
		if err != nil {
			t.Fatalf("GetLinks() error = %v", err)
		}
		if len(links) != 0 {
			t.Errorf("got %d links, want 0", len(links))
		}
	})
}
