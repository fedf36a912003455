package crawler

import (
	"net/url"
	"strings"
)

// Normalize canonicalizes a URL for frontier deduplication by stripping
// any fragment ("#...") suffix. Fragment-only variants of the same
// resource collapse to one frontier entry; equality after Normalize is
// exact string comparison.
//
// Normalize is pure and never fails: if the URL does not parse, the
// fragment is removed textually so the crawl can still dedup on the raw
// string.
func Normalize(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		base, _, _ := strings.Cut(rawURL, "#")
		return base
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
