package crawler

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a per-page failure. The crawler inspects the
// kind to decide how to proceed; today every kind means "skip this item
// and continue", but the classification keeps an "abort" policy possible
// without changing the fetch API.
type ErrorKind string

// Per-page failure kinds.
const (
	// KindNonHTML means the response content type was not text/html.
	// The page is counted as followed but contributes no links.
	KindNonHTML ErrorKind = "non-html-content"

	// KindTransport covers HTTP status failures (4xx/5xx), DNS and
	// connection errors, and malformed request URLs.
	KindTransport ErrorKind = "transport"

	// KindUnhandled is any other failure while processing one page.
	KindUnhandled ErrorKind = "unhandled"
)

// ErrNonHTMLContent is the sentinel wrapped by FetchErrors of
// KindNonHTML, so callers can branch with errors.Is without unpacking
// the kind.
var ErrNonHTMLContent = errors.New("non-HTML content")

// ErrDepthLimit is returned by New when the depth limit is negative.
var ErrDepthLimit = errors.New("depth limit must be non-negative")

// ErrInvalidRoot is returned by New when the root URL cannot be parsed.
var ErrInvalidRoot = errors.New("invalid root URL")

// FetchError describes a failure to obtain outbound links from one page.
// It records which URL failed and how, and wraps the underlying cause.
type FetchError struct {
	// URL is the page that failed.
	URL string

	// Kind classifies the failure.
	Kind ErrorKind

	// Err is the underlying cause. May be nil for status-only failures.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *FetchError) Unwrap() error {
	return e.Err
}
