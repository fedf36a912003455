package config

// SiteConfig holds per-host crawl settings. Entries override global
// flags for crawls whose root URL is on the matching host.
type SiteConfig struct {
	// Depth overrides the global depth limit for this host.
	// If zero, the global depth limit is used.
	Depth int `yaml:"depth,omitempty"`

	// Confine overrides the confine prefix for this host.
	Confine string `yaml:"confine,omitempty"`

	// Exclude lists URL prefixes that must not be followed on this host.
	Exclude []string `yaml:"exclude,omitempty"`

	// UserAgent overrides the User-Agent header for this host.
	UserAgent string `yaml:"userAgent,omitempty"`
}

// File represents the structure of the .clawweb configuration file.
type File struct {
	// Sites maps hostnames to their crawl settings.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains settings applied to every host unless
	// overridden in its Sites entry.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the settings for a host, merging the host's
// entry over the file defaults field by field.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults

	if site, ok := cf.Sites[host]; ok {
		if site.Depth != 0 {
			result.Depth = site.Depth
		}
		if site.Confine != "" {
			result.Confine = site.Confine
		}
		if len(site.Exclude) > 0 {
			result.Exclude = site.Exclude
		}
		if site.UserAgent != "" {
			result.UserAgent = site.UserAgent
		}
	}

	return result
}
