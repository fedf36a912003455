// Package database provides SQLite-based storage for crawl history.
//
// Each saved run is a row in the crawls table plus one row per
// remembered edge in the links table. Only results are stored: the
// frontier and the seen/visited sets never leave the crawler, so a
// saved run cannot be resumed, only inspected.
package database
