// Package config provides configuration structures and utilities for
// clawweb. It defines the crawl options built from CLI flags, the
// optional .clawweb configuration file with per-host overrides, and the
// data directory used for the crawl history database.
package config
