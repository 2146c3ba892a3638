package config

// SiteConfig holds site-specific configuration for a single host.
// This allows customizing crawl behavior per site, for example sending
// a session cookie to one host while crawling others anonymously.
type SiteConfig struct {
	// UserAgent overrides the global User-Agent for this site.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Cookie is an HTTP cookie to use when crawling this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Exclude are URL path prefixes to skip during crawling.
	// A URL whose path starts with any of these prefixes is not fetched.
	Exclude []string `yaml:"exclude,omitempty"`

	// MaxURLLength overrides the global maximum URL length for this site.
	// If zero, the global MaxURLLength is used.
	MaxURLLength int `yaml:"maxUrlLength,omitempty"`

	// PaceIntervalMS overrides the global pacing interval for this site,
	// in milliseconds. If zero, the global PaceInterval is used.
	PaceIntervalMS int `yaml:"paceIntervalMs,omitempty"`
}

// File represents the structure of the .sitespider configuration file.
type File struct {
	// Sites maps hostnames to their site-specific configurations.
	// Keys should be the hostname without the scheme (e.g., "example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific hostname.
// It merges the site-specific configuration with defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	// Start with defaults
	result := cf.Defaults

	// Override with site-specific configuration if present
	if siteConfig, ok := cf.Sites[host]; ok {
		if siteConfig.UserAgent != "" {
			result.UserAgent = siteConfig.UserAgent
		}
		if siteConfig.Cookie != "" {
			result.Cookie = siteConfig.Cookie
		}
		if len(siteConfig.Headers) > 0 {
			// Copy into a fresh map so the defaults stay untouched
			merged := make(map[string]string, len(result.Headers)+len(siteConfig.Headers))
			for k, v := range result.Headers {
				merged[k] = v
			}
			for k, v := range siteConfig.Headers {
				merged[k] = v
			}
			result.Headers = merged
		}
		if len(siteConfig.Exclude) > 0 {
			result.Exclude = siteConfig.Exclude
		}
		if siteConfig.MaxURLLength != 0 {
			result.MaxURLLength = siteConfig.MaxURLLength
		}
		if siteConfig.PaceIntervalMS != 0 {
			result.PaceIntervalMS = siteConfig.PaceIntervalMS
		}
	}

	return result
}
