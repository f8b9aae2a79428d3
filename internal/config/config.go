package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// HTTP/Scraping
	HTTPTimeout time.Duration
	UserAgent   string
	Proxy       string

	// Rate Limiting
	RateLimitRPS   float64
	RateLimitBurst int

	// Browser
	BrowserHeadless bool
	BrowserTimeout  time.Duration
	SettleBudget    time.Duration
	ChromePath      string

	// Caching
	CacheDir string

	// Selector profiles
	SelectorProfiles string // optional YAML file overriding built-in profiles
}

// Load builds a Config by combining defaults, environment variables, and CLI
// flags. Caller should pass the root *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := &Config{
		LogLevel:        DefaultLogLevel,
		JSONLog:         DefaultJSONLog,
		HTTPTimeout:     DefaultHTTPTimeout,
		UserAgent:       DefaultUserAgent,
		RateLimitRPS:    DefaultRateLimitRPS,
		RateLimitBurst:  DefaultRateLimitBurst,
		BrowserHeadless: DefaultBrowserHeadless,
		BrowserTimeout:  DefaultBrowserTimeout,
		SettleBudget:    DefaultSettleBudget,
		CacheDir:        defaultCacheDir(),
	}

	// Override from environment variables
	if v := os.Getenv("JOBSCRAPE_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("JOBSCRAPE_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("JOBSCRAPE_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("JOBSCRAPE_SELECTORS"); v != "" {
		cfg.SelectorProfiles = v
	}
	if v := os.Getenv("CHROME_PATH"); v != "" {
		cfg.ChromePath = v
	}
	if v := os.Getenv("JOBSCRAPE_HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.BrowserHeadless = b
		}
	}

	// Read CLI flags if provided
	if cmd != nil {
		if f := cmd.Flags().Lookup("user-agent"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.UserAgent = s
			}
		}
		if f := cmd.Flags().Lookup("proxy"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.Proxy = s
			}
		}
		if f := cmd.Flags().Lookup("cache-dir"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.CacheDir = s
			}
		}
		if f := cmd.Flags().Lookup("selectors"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.SelectorProfiles = s
			}
		}
		if f := cmd.Flags().Lookup("timeout"); f != nil {
			if s := f.Value.String(); s != "" {
				if d, err := time.ParseDuration(s); err == nil {
					cfg.HTTPTimeout = d
				}
			}
		}
		if f := cmd.Flags().Lookup("headful"); f != nil {
			if f.Value.String() == "true" {
				cfg.BrowserHeadless = false
			}
		}
		if f := cmd.Flags().Lookup("json"); f != nil {
			if f.Value.String() == "true" {
				cfg.JSONLog = true
			}
		}
		if f := cmd.Flags().Lookup("verbose"); f != nil {
			if f.Value.String() == "true" {
				cfg.LogLevel = "debug"
			}
		}
		if f := cmd.Flags().Lookup("quiet"); f != nil {
			if f.Value.String() == "true" {
				cfg.LogLevel = "error"
			}
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// defaultCacheDir resolves ~/.auto-cv/raw_job_description_cache, falling back
// to a relative directory when the home directory cannot be determined.
func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(DefaultCacheRoot, DefaultCacheSubdir)
	}
	return filepath.Join(home, DefaultCacheRoot, DefaultCacheSubdir)
}
