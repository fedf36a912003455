package config

import "errors"

// Configuration validation errors returned by Config.Validate.
//
// Design decision: package-level sentinel errors rather than error
// values created inside Validate, so callers can branch with errors.Is
// while still getting a human-readable message.
var (
	// ErrNoTarget is returned when no root URL was provided.
	ErrNoTarget = errors.New("no target specified: provide at least one root URL")

	// ErrInvalidDepth is returned when the depth limit is negative.
	// Depth 0 is valid and fetches only the root page.
	ErrInvalidDepth = errors.New("invalid depth limit: must be non-negative")

	// ErrInvalidConcurrency is returned when the concurrency is not
	// positive. Zero concurrency would mean no fetches at all.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidMaxPages is returned when the page cap is negative.
	// Use 0 for no cap.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be non-negative")

	// ErrInvalidTimeout is returned when the timeout is negative.
	// Use 0 for the transport default.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one format can be written.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
