package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/clawweb/internal/model"
)

// CrawlDB provides SQLite-based storage for crawl results.
// It manages the connection pool and provides methods for saving and
// querying crawl runs and their link graphs.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// CrawlSummary is one row of crawl history without its edges.
type CrawlSummary struct {
	// ID is the database identifier of the run.
	ID int64

	// Root is the URL the crawl started from.
	Root string

	// Host is the hostname traversal was locked to.
	Host string

	// DepthLimit is the depth bound the run used.
	DepthLimit int

	// NumLinks and NumFollowed are the run's final counters.
	NumLinks    int
	NumFollowed int

	// StartedAt is when the crawl began.
	StartedAt time.Time

	// Duration is how long the crawl took.
	Duration time.Duration
}

// Open opens or creates a CrawlDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are
// created as needed; otherwise a missing database is an error.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, "clawweb.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection strings: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; extra connections just contend.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS crawls (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		root TEXT NOT NULL,
		host TEXT NOT NULL,
		depth_limit INTEGER NOT NULL,
		num_links INTEGER NOT NULL,
		num_followed INTEGER NOT NULL,
		started_at TEXT NOT NULL,
		duration_ms INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS links (
		crawl_id INTEGER NOT NULL,
		source TEXT NOT NULL,
		destination TEXT NOT NULL,
		link_type TEXT NOT NULL,
		PRIMARY KEY (crawl_id, source, destination, link_type),
		FOREIGN KEY (crawl_id) REFERENCES crawls(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_crawls_root ON crawls(root);
	CREATE INDEX IF NOT EXISTS idx_links_destination ON links(crawl_id, destination);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveReport stores a crawl report and its edges in one transaction.
// Returns the database ID of the saved run.
func (cdb *CrawlDB) SaveReport(ctx context.Context, report *model.Report) (int64, error) {
	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO crawls (root, host, depth_limit, num_links, num_followed, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.Root,
		report.Host,
		report.DepthLimit,
		report.NumLinks,
		report.NumFollowed,
		report.StartedAt.UTC().Format(time.RFC3339Nano),
		report.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert crawl: %w", err)
	}

	crawlID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get crawl ID: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO links (crawl_id, source, destination, link_type)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare link insert: %w", err)
	}
	defer stmt.Close()

	for _, link := range report.Links {
		if _, err := stmt.ExecContext(ctx, crawlID, link.Source, link.Destination, string(link.Type)); err != nil {
			return 0, fmt.Errorf("failed to insert link %s: %w", link, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return crawlID, nil
}

// ListCrawls returns all saved crawl runs, most recent first.
func (cdb *CrawlDB) ListCrawls(ctx context.Context) ([]CrawlSummary, error) {
	rows, err := cdb.db.QueryContext(ctx, `
		SELECT id, root, host, depth_limit, num_links, num_followed, started_at, duration_ms
		FROM crawls
		ORDER BY started_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query crawls: %w", err)
	}
	defer rows.Close()

	var crawls []CrawlSummary
	for rows.Next() {
		var c CrawlSummary
		var startedAt string
		var durationMs int64
		if err := rows.Scan(&c.ID, &c.Root, &c.Host, &c.DepthLimit, &c.NumLinks, &c.NumFollowed, &startedAt, &durationMs); err != nil {
			return nil, fmt.Errorf("failed to scan crawl row: %w", err)
		}
		c.StartedAt = parseTimestamp(startedAt)
		c.Duration = time.Duration(durationMs) * time.Millisecond
		crawls = append(crawls, c)
	}
	return crawls, rows.Err()
}

// GetLinks returns all edges of one saved crawl run.
func (cdb *CrawlDB) GetLinks(ctx context.Context, crawlID int64) ([]model.Link, error) {
	rows, err := cdb.db.QueryContext(ctx, `
		SELECT source, destination, link_type
		FROM links
		WHERE crawl_id = ?
		ORDER BY source, destination`, crawlID)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	var links []model.Link
	for rows.Next() {
		var l model.Link
		var linkType string
		if err := rows.Scan(&l.Source, &l.Destination, &linkType); err != nil {
			return nil, fmt.Errorf("failed to scan link row: %w", err)
		}
		l.Type = model.LinkType(linkType)
		links = append(links, l)
	}
	return links, rows.Err()
}

// parseTimestamp parses an RFC 3339 timestamp, returning the zero time
// on failure. Stored timestamps are always written by SaveReport, so a
// parse failure means manual database edits.
func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
