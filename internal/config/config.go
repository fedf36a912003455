package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultDepthLimit bounds the breadth-first traversal. 30 levels is
	// effectively unbounded for real sites while still guaranteeing the
	// crawl terminates.
	DefaultDepthLimit = 30

	// DefaultTimeout of 0 applies no per-request timeout beyond what the
	// HTTP transport enforces. A hanging host can stall the run; callers
	// who care opt in with --timeout.
	DefaultTimeout = 0 * time.Second

	// DefaultConcurrency of 1 gives strict FIFO breadth-first order, one
	// fetch in flight at a time. Higher values relax ordering within a
	// depth level only.
	DefaultConcurrency = 1

	// DefaultMaxPages of 0 leaves the page count unbounded; the depth
	// limit and host scoping are then the only brakes on the frontier.
	DefaultMaxPages = 0

	// AppName is the application name used for XDG directory paths.
	AppName = "clawweb"
)

// Config holds all options for one clawweb invocation.
// It is populated from CLI flags and passed through the application by
// value of reference, never via global state.
type Config struct {
	// Targets are the root URLs to crawl. At least one is required.
	Targets []string

	// DepthLimit is the maximum traversal depth. Depth 0 fetches only
	// the root page; links on it are still discovered and reported.
	DepthLimit int

	// LinksOnly selects the links mode: fetch only the root URL and
	// print its outbound links instead of crawling.
	LinksOnly bool

	// ConfinePrefix, when set, restricts following and reporting to
	// URLs starting with this prefix.
	ConfinePrefix string

	// ExcludePrefixes are URL prefixes that must not be followed.
	ExcludePrefixes []string

	// HostLock restricts traversal to the root URL's hostname.
	// Enabled by default.
	HostLock bool

	// Concurrency is the number of fetches allowed in flight within one
	// depth level.
	Concurrency int

	// MaxPages caps the number of pages fetched per crawl. 0 = no cap.
	MaxPages int

	// Timeout is the per-request HTTP timeout. 0 means the transport
	// default (no explicit timeout).
	Timeout time.Duration

	// UserAgent overrides the default User-Agent header when non-empty.
	UserAgent string

	// Verbose enables debug-level log output.
	Verbose bool

	// ConfigFilePath is an explicit path to the configuration file.
	// If empty, .clawweb is searched for in the current directory and
	// then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds per-host overrides loaded from the config file.
	SiteConfigs *File

	// JSONReport selects JSON report output.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown report output.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile, when set, receives the report instead of stdout.
	ReportFile string

	// SaveToDB persists crawl results to the history database.
	SaveToDB bool

	// DBDir is the directory holding the SQLite history database.
	// Defaults to the XDG data directory for clawweb.
	DBDir string
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		DepthLimit:  DefaultDepthLimit,
		HostLock:    true,
		Concurrency: DefaultConcurrency,
		MaxPages:    DefaultMaxPages,
		Timeout:     DefaultTimeout,
		DBDir:       XDGDataDir(),
	}
}

// Validate checks the configuration for consistency.
// It returns one of the package sentinel errors, so callers can branch
// with errors.Is.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	if c.DepthLimit < 0 {
		return ErrInvalidDepth
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}

// XDGDataDir returns the directory for persistent application data,
// following the XDG Base Directory specification
// (~/.local/share/clawweb on Linux).
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}
