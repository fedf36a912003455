// Package model defines the data types shared across clawweb:
// link-graph edges and crawl reports.
//
// Types in this package are plain values with no behavior beyond
// identity and formatting. They are created during a crawl and
// consumed by the report and database packages.
package model
