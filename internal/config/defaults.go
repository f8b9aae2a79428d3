package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel = "info"
	DefaultJSONLog  = false

	// Job boards serve bot-flavored markup to obvious non-browser agents, so
	// the default identifies as a current desktop Chrome.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	DefaultHTTPTimeout    = 10 * time.Second
	DefaultBrowserTimeout = 60 * time.Second
	DefaultSettleBudget   = 15 * time.Second

	DefaultRateLimitRPS   = 2.0
	DefaultRateLimitBurst = 4

	DefaultBrowserHeadless = true

	// DefaultCacheRoot is joined onto the user's home directory.
	DefaultCacheRoot   = ".auto-cv"
	DefaultCacheSubdir = "raw_job_description_cache"
)
