// Package classify routes a job posting URL to an extraction strategy.
package classify

import (
	"net/url"
	"strings"
)

// Strategy identifies which extraction engine should handle a URL.
type Strategy string

const (
	// StrategyBrowser drives a headless browser session; used for platforms
	// that render postings with JavaScript behind a login wall.
	StrategyBrowser Strategy = "browser"
	// StrategyStatic issues a plain HTTP fetch; the best-effort default.
	StrategyStatic Strategy = "static"
)

// platformPattern matches a known platform's job-listing URLs.
type platformPattern struct {
	hostSuffix string
	pathPrefix string
	strategy   Strategy
}

// Known platforms that need a rendered browser session. Adding a platform is
// a table entry, not a new code path.
var patterns = []platformPattern{
	{hostSuffix: "linkedin.com", pathPrefix: "/jobs", strategy: StrategyBrowser},
}

// Classify is a pure function from URL to strategy. It never fails: URLs
// that don't parse or don't match any known platform fall back to the
// static strategy.
func Classify(rawURL string) Strategy {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return StrategyStatic
	}

	host := strings.ToLower(u.Hostname())
	for _, p := range patterns {
		if host != p.hostSuffix && !strings.HasSuffix(host, "."+p.hostSuffix) {
			continue
		}
		if strings.HasPrefix(u.Path, p.pathPrefix) {
			return p.strategy
		}
	}
	return StrategyStatic
}
