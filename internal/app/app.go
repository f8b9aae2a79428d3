// Package app provides the core application initialization and lifecycle management.
package app

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/publicsuffix"

	"github.com/auto-cv/jobscrape/internal/cache"
	"github.com/auto-cv/jobscrape/internal/config"
	"github.com/auto-cv/jobscrape/internal/creds"
	"github.com/auto-cv/jobscrape/internal/engine/dynamic"
	"github.com/auto-cv/jobscrape/internal/engine/static"
	"github.com/auto-cv/jobscrape/internal/extract"
	"github.com/auto-cv/jobscrape/internal/ratelimit"
	"github.com/auto-cv/jobscrape/internal/selector"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once at startup and shared across all CLI commands.
// Use Close() to ensure proper resource cleanup on shutdown.
type Application struct {
	Config      *config.Config
	Logger      *zerolog.Logger
	Store       *cache.Store
	RateLimiter ratelimit.RateLimiter
	HTTPClient  *http.Client
	Service     *extract.Service
	startTime   time.Time
}

// New creates and initializes a new Application with all dependencies.
//
// It configures logging, opens the durable cache (taking the single-writer
// lock), builds the rate limiter and HTTP client, resolves selector profiles
// and credentials, and wires both extraction engines into the facade. The
// browser engine is only wired when credentials resolve; without it,
// browser-strategy URLs fail with a configuration error instead of launching
// a doomed session.
func New(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logLevel := zerolog.ErrorLevel
	switch cfg.LogLevel {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	var logWriter io.Writer
	if cfg.JSONLog {
		logWriter = os.Stderr
	} else {
		logWriter = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	logger := log.Output(logWriter).With().Timestamp().Logger()
	log.Logger = logger

	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Msg("Logger initialized")

	store, err := cache.Open(cache.Options{Dir: cfg.CacheDir})
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Str("dir", cfg.CacheDir).
		Int("entries", store.Len()).
		Msg("Cache opened")

	limiter := ratelimit.NewDomainLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	logger.Debug().
		Float64("rps", cfg.RateLimitRPS).
		Int("burst", cfg.RateLimitBurst).
		Msg("Rate limiter initialized")

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
		Jar:     jar,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	genericProfile, linkedinProfile, err := resolveProfiles(cfg.SelectorProfiles)
	if err != nil {
		store.Close()
		return nil, err
	}

	staticEngine := static.New(httpClient, limiter, genericProfile, cfg.UserAgent)

	var browserEngine *dynamic.Extractor
	if c, err := creds.Resolve(); err != nil {
		logger.Debug().Err(err).Msg("Browser engine disabled")
	} else {
		browserEngine = dynamic.New(dynamic.Options{
			Profile:      linkedinProfile,
			Limiter:      limiter,
			Credentials:  &c,
			Timeout:      cfg.BrowserTimeout,
			SettleBudget: cfg.SettleBudget,
			UserAgent:    cfg.UserAgent,
			Headless:     cfg.BrowserHeadless,
			ChromePath:   cfg.ChromePath,
			Proxy:        cfg.Proxy,
		})
	}

	// A typed nil wrapped in the interface would defeat the facade's nil
	// check, so the untyped nil is passed explicitly.
	var service *extract.Service
	if browserEngine != nil {
		service = extract.New(store, staticEngine, browserEngine)
	} else {
		service = extract.New(store, staticEngine, nil)
	}

	app := &Application{
		Config:      cfg,
		Logger:      &logger,
		Store:       store,
		RateLimiter: limiter,
		HTTPClient:  httpClient,
		Service:     service,
		startTime:   time.Now(),
	}

	logger.Debug().Msg("Application initialized")
	return app, nil
}

// resolveProfiles returns the built-in selector profiles, with any same-named
// profile from the override file replacing its built-in.
func resolveProfiles(path string) (generic, linkedin selector.Profile, err error) {
	generic = selector.Generic()
	linkedin = selector.LinkedIn()
	if path == "" {
		return generic, linkedin, nil
	}

	overrides, err := selector.LoadProfiles(path)
	if err != nil {
		return generic, linkedin, err
	}
	if p, ok := overrides[generic.Name]; ok {
		generic = p
	}
	if p, ok := overrides[linkedin.Name]; ok {
		linkedin = p
	}
	return generic, linkedin, nil
}

// Close gracefully shuts down the application and all its resources.
//
// The cache store releases its writer lock, and idle HTTP connections are
// torn down. Errors during shutdown are logged but do not prevent other
// shutdown steps.
func (a *Application) Close() error {
	a.Logger.Debug().Msg("Shutting down application")

	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Error closing cache store")
		}
	}
	if a.HTTPClient != nil {
		a.HTTPClient.CloseIdleConnections()
	}

	a.Logger.Debug().Dur("uptime", time.Since(a.startTime)).Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
