// Package dynamic extracts job postings from JavaScript-rendered pages by
// driving a headless Chrome session per extraction call. Each call owns its
// session: launch, optional login, navigate, probe, and unconditional
// teardown regardless of how extraction ends.
package dynamic

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"github.com/auto-cv/jobscrape/internal/creds"
	"github.com/auto-cv/jobscrape/internal/markdown"
	"github.com/auto-cv/jobscrape/internal/poll"
	"github.com/auto-cv/jobscrape/internal/ratelimit"
	"github.com/auto-cv/jobscrape/internal/selector"
	"github.com/auto-cv/jobscrape/pkg/models"
)

// Extractor drives headless Chrome to pull fields out of rendered pages.
type Extractor struct {
	profile      selector.Profile
	limiter      ratelimit.RateLimiter
	credentials  *creds.Credentials
	timeout      time.Duration
	settleBudget time.Duration
	userAgent    string
	headless     bool
	chromePath   string
	proxy        string
}

// Options configures a browser extractor.
type Options struct {
	Profile      selector.Profile
	Limiter      ratelimit.RateLimiter
	Credentials  *creds.Credentials // nil skips the login step
	Timeout      time.Duration      // whole-session budget
	SettleBudget time.Duration      // readiness/login wait budget
	UserAgent    string
	Headless     bool
	ChromePath   string // "" means auto-discover
	Proxy        string
}

// New creates a browser extractor.
func New(opts Options) *Extractor {
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.SettleBudget == 0 {
		opts.SettleBudget = 15 * time.Second
	}
	return &Extractor{
		profile:      opts.Profile,
		limiter:      opts.Limiter,
		credentials:  opts.Credentials,
		timeout:      opts.Timeout,
		settleBudget: opts.SettleBudget,
		userAgent:    opts.UserAgent,
		headless:     opts.Headless,
		chromePath:   opts.ChromePath,
		proxy:        opts.Proxy,
	}
}

// Name identifies this engine in logs.
func (e *Extractor) Name() string {
	return "BrowserExtractor"
}

// Extract runs the full session state machine: launch, optional login,
// navigate, wait for the primary content container, probe each field's
// candidates in order. Per-candidate failures are logged and skipped; a
// launch failure, navigation fault or readiness timeout is an error the
// facade degrades to an empty record. The deferred cancels guarantee the
// browser is torn down on every exit path.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*models.JobPosting, error) {
	start := time.Now()

	log.Debug().
		Str("url", rawURL).
		Str("engine", e.Name()).
		Msg("Starting extraction")

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx, rawURL); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, e.allocatorOptions()...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	if e.credentials != nil {
		if err := e.login(browserCtx); err != nil {
			// Login trouble is not fatal: some postings render without auth.
			log.Warn().Err(err).Msg("Login may have failed, continuing to target URL")
		}
	}

	if err := chromedp.Run(browserCtx, chromedp.Navigate(rawURL)); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", rawURL, err)
	}

	if err := e.waitReady(browserCtx, e.profile.Readiness); err != nil {
		return nil, fmt.Errorf("content container %q never became ready: %w", e.profile.Readiness, err)
	}

	rec := &models.JobPosting{
		URL:         rawURL,
		ExtractedAt: time.Now().UTC(),
	}

	if text, _, ok := e.probeField(browserCtx, e.profile.Fields.Title); ok {
		rec.Title = text
	} else {
		rec.Title = models.NotAvailable
	}
	if text, _, ok := e.probeField(browserCtx, e.profile.Fields.Company); ok {
		rec.Company = text
	} else {
		rec.Company = models.NotAvailable
	}
	if text, html, ok := e.probeField(browserCtx, e.profile.Fields.Description); ok {
		rec.RawDescription = text
		rec.DescriptionHTML = html
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

// allocatorOptions builds the Chrome launch flags. Headless with sandboxing
// and shared-memory usage disabled is the fixed configuration for container
// and CI environments.
func (e *Extractor) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("headless", e.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-hang-monitor", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(e.userAgent),
	}

	chromePath := e.chromePath
	if chromePath == "" {
		chromePath = FindChrome()
	}
	if chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	if e.proxy != "" {
		opts = append(opts, chromedp.ProxyServer(e.proxy))
	}
	return opts
}

// waitReady polls for the readiness selector with bounded backoff instead of
// a flat settle sleep. The total wait is capped by the settle budget.
func (e *Extractor) waitReady(browserCtx context.Context, sel string) error {
	cfg := poll.DefaultConfig()
	cfg.Budget = e.settleBudget

	return poll.Until(browserCtx, cfg, func(context.Context) (bool, error) {
		var found bool
		script := "document.querySelector(" + strconv.Quote(sel) + ") !== null"
		if err := chromedp.Run(browserCtx, chromedp.Evaluate(script, &found)); err != nil {
			return false, err
		}
		return found, nil
	})
}

// probeField tries each candidate in order and returns the first match's
// trimmed text and outer HTML. Every candidate gets its own short deadline
// so a missing element fails fast instead of eating the session budget.
func (e *Extractor) probeField(browserCtx context.Context, candidates []selector.Candidate) (string, string, bool) {
	for _, cand := range candidates {
		text, html, err := e.probeCandidate(browserCtx, cand)
		if err != nil {
			log.Debug().Stringer("candidate", cand).Err(err).Msg("Candidate failed")
			continue
		}
		return text, html, true
	}
	return "", "", false
}

func (e *Extractor) probeCandidate(browserCtx context.Context, cand selector.Candidate) (string, string, error) {
	candCtx, cancel := context.WithTimeout(browserCtx, 2*time.Second)
	defer cancel()

	var query string
	var opt chromedp.QueryOption
	if cand.Kind == selector.KindXPath {
		query = cand.Value
		opt = chromedp.BySearch
	} else {
		css, ok := cand.CSS()
		if !ok {
			return "", "", fmt.Errorf("candidate %s has no usable locator", cand)
		}
		query = css
		opt = chromedp.ByQuery
	}

	// Nodes with AtLeast(0) returns immediately instead of blocking until
	// the element appears, which is what lets the fallback chain advance.
	var nodes []*cdp.Node
	if err := chromedp.Run(candCtx, chromedp.Nodes(query, &nodes, opt, chromedp.AtLeast(0))); err != nil {
		return "", "", err
	}
	if len(nodes) == 0 {
		return "", "", fmt.Errorf("no elements matched")
	}

	var text, html string
	if err := chromedp.Run(candCtx,
		chromedp.Text(query, &text, opt),
		chromedp.OuterHTML(query, &html, opt),
	); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(text), html, nil
}
