// Package extract is the public entry point of the pipeline: it consults the
// cache, classifies the URL, dispatches to the right engine on a miss,
// persists the result, and reports whether the call was a cache hit.
package extract

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/auto-cv/jobscrape/internal/cache"
	"github.com/auto-cv/jobscrape/internal/classify"
	"github.com/auto-cv/jobscrape/internal/engine"
	"github.com/auto-cv/jobscrape/pkg/models"
)

// Service wires the cache and the two extraction engines. Construct one per
// process; it is not safe for concurrent use (the cache assumes a single
// writer, and each browser call owns its own session anyway).
type Service struct {
	store   *cache.Store
	static  engine.Extractor
	browser engine.Extractor // nil when browser credentials are unavailable
}

// New creates the facade. browser may be nil; browser-strategy URLs then
// fail with a configuration error before any session is launched.
func New(store *cache.Store, static, browser engine.Extractor) *Service {
	return &Service{
		store:   store,
		static:  static,
		browser: browser,
	}
}

// ExtractWithCache returns the posting for the URL and whether it came from
// the cache. On a hit no network or browser activity occurs. On a miss the
// URL is classified, the matching engine runs, and a non-empty result is
// persisted. A failed scrape returns an empty record and no error — only
// configuration faults (bad URL, missing credentials for a browser-strategy
// platform) are errors, and those are raised before any I/O.
func (s *Service) ExtractWithCache(ctx context.Context, rawURL string) (*models.JobPosting, bool, error) {
	probe := models.JobPosting{URL: rawURL}
	if err := probe.Validate(); err != nil {
		return nil, false, err
	}

	if rec, ok := s.store.Get(rawURL); ok {
		log.Debug().Str("url", rawURL).Msg("Cache hit")
		return rec, true, nil
	}

	rec, err := s.scrape(ctx, rawURL)
	if err != nil {
		return nil, false, err
	}
	return rec, false, nil
}

// Refresh bypasses the cache read, re-extracts, and overwrites the cached
// entry with the fresh result.
func (s *Service) Refresh(ctx context.Context, rawURL string) (*models.JobPosting, error) {
	probe := models.JobPosting{URL: rawURL}
	if err := probe.Validate(); err != nil {
		return nil, err
	}
	return s.scrapeWith(ctx, rawURL, true)
}

func (s *Service) scrape(ctx context.Context, rawURL string) (*models.JobPosting, error) {
	return s.scrapeWith(ctx, rawURL, false)
}

func (s *Service) scrapeWith(ctx context.Context, rawURL string, overwrite bool) (*models.JobPosting, error) {
	strategy := classify.Classify(rawURL)

	var ex engine.Extractor
	switch strategy {
	case classify.StrategyBrowser:
		if s.browser == nil {
			return nil, fmt.Errorf("url %s needs a browser session but no credentials are configured", rawURL)
		}
		ex = s.browser
	default:
		ex = s.static
	}

	log.Debug().
		Str("url", rawURL).
		Str("strategy", string(strategy)).
		Str("engine", ex.Name()).
		Msg("Cache miss, extracting")

	rec, err := ex.Extract(ctx, rawURL)
	if err != nil {
		// Soft failure: the caller gets an empty record and may retry later,
		// which is exactly why failed extractions are never cached.
		log.Warn().Str("url", rawURL).Err(err).Msg("Extraction failed")
		return &models.JobPosting{URL: rawURL}, nil
	}

	if rec.IsEmpty() {
		log.Warn().Str("url", rawURL).Msg("Extraction produced an empty record, not caching")
		return rec, nil
	}

	if err := s.store.Put(rec, overwrite); err != nil {
		// A reporting failure, not a fatal one: the caller still has the
		// freshly extracted record.
		log.Warn().Str("url", rawURL).Err(err).Msg("Failed to cache extraction result")
	}
	return rec, nil
}
