package model

import "time"

// Report holds the outcome of one crawl run.
//
// Design decision: we collect results into a single value rather than
// exposing the crawler's internal sets because:
//  1. Report writers and the history database need one stable shape
//  2. The crawler's sets are implementation detail (map-backed)
//  3. Slices preserve first-remembered order, which maps lose
type Report struct {
	// Root is the URL the crawl started from.
	Root string `json:"root"`

	// Host is the hostname parsed from Root. Traversal was restricted
	// to this host unless host locking was disabled.
	Host string `json:"host"`

	// DepthLimit is the maximum depth that was allowed.
	DepthLimit int `json:"depth_limit"`

	// StartedAt is when the crawl began.
	StartedAt time.Time `json:"started_at"`

	// Duration is how long the crawl took.
	Duration time.Duration `json:"duration"`

	// NumLinks counts every discovered link that passed the report
	// filters, including repeat sightings of the same URL.
	NumLinks int `json:"num_links"`

	// NumFollowed counts pages actually fetched (or attempted).
	NumFollowed int `json:"num_followed"`

	// URLs are the distinct remembered URLs in discovery order.
	URLs []string `json:"urls"`

	// Links are the distinct remembered edges in discovery order.
	Links []Link `json:"links"`
}
