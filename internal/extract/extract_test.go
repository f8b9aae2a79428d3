package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/auto-cv/jobscrape/internal/cache"
	"github.com/auto-cv/jobscrape/pkg/models"
)

// fakeExtractor counts calls and returns a canned record or error.
type fakeExtractor struct {
	name  string
	calls int
	rec   *models.JobPosting
	err   error
}

func (f *fakeExtractor) Extract(_ context.Context, url string) (*models.JobPosting, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	rec := *f.rec
	rec.URL = url
	return &rec, nil
}

func (f *fakeExtractor) Name() string { return f.name }

func newTestStore(t *testing.T) *cache.Store {
	t.Helper()
	s, err := cache.Open(cache.Options{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("cache.Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func goodRecord() *models.JobPosting {
	return &models.JobPosting{
		Title:          "Engineer",
		Company:        "Acme",
		RawDescription: "Build things",
		ExtractedAt:    time.Now().UTC(),
	}
}

func TestExtractWithCache_MissThenHit(t *testing.T) {
	store := newTestStore(t)
	static := &fakeExtractor{name: "static", rec: goodRecord()}
	svc := New(store, static, nil)

	url := "https://example.com/jobs/1"

	rec, hit, err := svc.ExtractWithCache(context.Background(), url)
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	if hit {
		t.Error("first call reported a cache hit")
	}
	if rec.Title != "Engineer" {
		t.Errorf("Title = %q", rec.Title)
	}
	if static.calls != 1 {
		t.Errorf("extractor called %d times, want 1", static.calls)
	}

	rec2, hit2, err := svc.ExtractWithCache(context.Background(), url)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if !hit2 {
		t.Error("second call should be a cache hit")
	}
	if rec2.Title != "Engineer" {
		t.Errorf("cached Title = %q", rec2.Title)
	}
	if static.calls != 1 {
		t.Errorf("extractor called %d times on a hit, want it untouched", static.calls)
	}
}

func TestExtractWithCache_HitShortCircuits(t *testing.T) {
	store := newTestStore(t)
	url := "https://example.com/jobs/7"
	seeded := goodRecord()
	seeded.URL = url
	if err := store.Put(seeded, false); err != nil {
		t.Fatal(err)
	}

	static := &fakeExtractor{name: "static", rec: goodRecord()}
	browser := &fakeExtractor{name: "browser", rec: goodRecord()}
	svc := New(store, static, browser)

	_, hit, err := svc.ExtractWithCache(context.Background(), url)
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if !hit {
		t.Error("expected a cache hit")
	}
	if static.calls != 0 || browser.calls != 0 {
		t.Errorf("collaborators called on a hit: static=%d browser=%d", static.calls, browser.calls)
	}
}

func TestExtractWithCache_StrategyRouting(t *testing.T) {
	store := newTestStore(t)
	static := &fakeExtractor{name: "static", rec: goodRecord()}
	browser := &fakeExtractor{name: "browser", rec: goodRecord()}
	svc := New(store, static, browser)

	if _, _, err := svc.ExtractWithCache(context.Background(), "https://www.linkedin.com/jobs/view/1"); err != nil {
		t.Fatal(err)
	}
	if browser.calls != 1 || static.calls != 0 {
		t.Errorf("linkedin jobs URL routed wrong: static=%d browser=%d", static.calls, browser.calls)
	}

	if _, _, err := svc.ExtractWithCache(context.Background(), "https://example.com/careers/2"); err != nil {
		t.Fatal(err)
	}
	if static.calls != 1 {
		t.Errorf("generic URL routed wrong: static=%d", static.calls)
	}
}

func TestExtractWithCache_BrowserUnconfigured(t *testing.T) {
	store := newTestStore(t)
	static := &fakeExtractor{name: "static", rec: goodRecord()}
	svc := New(store, static, nil)

	_, _, err := svc.ExtractWithCache(context.Background(), "https://www.linkedin.com/jobs/view/1")
	if err == nil {
		t.Fatal("expected a configuration error when no browser engine is wired")
	}
	if static.calls != 0 {
		t.Error("static engine must not run for a browser-strategy URL")
	}
}

func TestExtractWithCache_FailedScrapeDegrades(t *testing.T) {
	store := newTestStore(t)
	static := &fakeExtractor{name: "static", err: errors.New("connection refused")}
	svc := New(store, static, nil)

	url := "https://example.com/jobs/down"
	rec, hit, err := svc.ExtractWithCache(context.Background(), url)
	if err != nil {
		t.Fatalf("scrape failure must not surface as an error, got %v", err)
	}
	if hit {
		t.Error("failure reported as a hit")
	}
	if !rec.IsEmpty() {
		t.Errorf("record = %+v, want empty", rec)
	}
	if store.Exists(url) {
		t.Error("failed extraction was cached; retries are now impossible")
	}

	// A later call retries because nothing was cached.
	static.err = nil
	static.rec = goodRecord()
	rec, hit, err = svc.ExtractWithCache(context.Background(), url)
	if err != nil || hit || rec.IsEmpty() {
		t.Errorf("retry after failure: rec=%+v hit=%v err=%v", rec, hit, err)
	}
	if !store.Exists(url) {
		t.Error("successful retry was not cached")
	}
}

func TestExtractWithCache_InvalidURL(t *testing.T) {
	store := newTestStore(t)
	static := &fakeExtractor{name: "static", rec: goodRecord()}
	svc := New(store, static, nil)

	if _, _, err := svc.ExtractWithCache(context.Background(), "not-a-url"); err == nil {
		t.Error("expected a validation error for a schemeless URL")
	}
	if static.calls != 0 {
		t.Error("no engine should run for an invalid URL")
	}
}

func TestRefresh_OverwritesCachedEntry(t *testing.T) {
	store := newTestStore(t)
	static := &fakeExtractor{name: "static", rec: goodRecord()}
	svc := New(store, static, nil)

	url := "https://example.com/jobs/9"
	if _, _, err := svc.ExtractWithCache(context.Background(), url); err != nil {
		t.Fatal(err)
	}

	static.rec = goodRecord()
	static.rec.Title = "Principal Engineer"
	rec, err := svc.Refresh(context.Background(), url)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if rec.Title != "Principal Engineer" {
		t.Errorf("refreshed Title = %q", rec.Title)
	}

	cached, _ := store.Get(url)
	if cached.Title != "Principal Engineer" {
		t.Errorf("cache still holds %q after Refresh", cached.Title)
	}
	if static.calls != 2 {
		t.Errorf("extractor called %d times, want 2", static.calls)
	}
}
