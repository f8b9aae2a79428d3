// Package static extracts job postings from server-rendered pages with a
// plain HTTP fetch and tolerant HTML parsing.
package static

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/auto-cv/jobscrape/internal/markdown"
	"github.com/auto-cv/jobscrape/internal/ratelimit"
	"github.com/auto-cv/jobscrape/internal/selector"
	"github.com/auto-cv/jobscrape/pkg/models"
)

// Extractor fetches and parses static HTML job postings.
type Extractor struct {
	client    *http.Client
	limiter   ratelimit.RateLimiter
	profile   selector.Profile
	userAgent string
}

// New creates a static extractor with injected dependencies.
func New(client *http.Client, limiter ratelimit.RateLimiter, profile selector.Profile, userAgent string) *Extractor {
	return &Extractor{
		client:    client,
		limiter:   limiter,
		profile:   profile,
		userAgent: userAgent,
	}
}

// Name identifies this engine in logs.
func (e *Extractor) Name() string {
	return "StaticExtractor"
}

// Extract performs a single GET and probes the profile's candidate selectors
// in order. Network faults and non-success statuses surface as errors; the
// facade degrades them to an empty record. Fields with no matching candidate
// come back as the N/A sentinel.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*models.JobPosting, error) {
	start := time.Now()

	log.Debug().
		Str("url", rawURL).
		Str("engine", e.Name()).
		Msg("Starting extraction")

	if err := e.limiter.Wait(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	rec := &models.JobPosting{
		URL:         rawURL,
		ExtractedAt: time.Now().UTC(),
	}

	if text, _, ok := probe(doc, e.profile.Fields.Title); ok {
		rec.Title = text
	} else {
		rec.Title = models.NotAvailable
	}
	if text, _, ok := probe(doc, e.profile.Fields.Company); ok {
		rec.Company = text
	} else {
		rec.Company = models.NotAvailable
	}

	if text, html, ok := probe(doc, e.profile.Fields.Description); ok {
		rec.RawDescription = text
		rec.DescriptionHTML = html
	} else if filled := fillFromJSONLD(doc, rec); filled {
		log.Debug().Str("url", rawURL).Msg("Description recovered from JSON-LD")
	} else if filled := fillFromInlineScripts(doc, rec); filled {
		log.Debug().Str("url", rawURL).Msg("Description recovered from inline scripts")
	} else {
		rec.RawDescription = models.NotAvailable
	}

	if rec.DescriptionHTML != "" {
		if md, err := markdown.FromHTML(rec.DescriptionHTML); err == nil {
			rec.MarkdownDescription = md
		} else {
			log.Warn().Err(err).Msg("Markdown rendering failed")
		}
	}

	log.Debug().
		Str("url", rawURL).
		Str("title", rec.Title).
		Int64("elapsed_ms", time.Since(start).Milliseconds()).
		Msg("Extraction completed")

	return rec, nil
}

// probe tries candidates strictly in order and returns the first match's
// trimmed text and outer HTML. XPath candidates have no CSS form and are
// skipped here; the browser engine handles those.
func probe(doc *goquery.Document, candidates []selector.Candidate) (string, string, bool) {
	for _, cand := range candidates {
		css, ok := cand.CSS()
		if !ok {
			log.Debug().Stringer("candidate", cand).Msg("Candidate not usable on static pages, skipping")
			continue
		}
		sel := doc.Find(css)
		if sel.Length() == 0 {
			log.Debug().Stringer("candidate", cand).Msg("Candidate matched nothing")
			continue
		}
		first := sel.First()
		html, err := goquery.OuterHtml(first)
		if err != nil {
			html = ""
		}
		return strings.TrimSpace(first.Text()), html, true
	}
	return "", "", false
}

// htmlToText flattens an HTML fragment to trimmed text.
func htmlToText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(doc.Text())
}
