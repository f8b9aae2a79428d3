package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.RateLimitRPS != 2.0 || cfg.RateLimitBurst != 4 {
		t.Errorf("rate limit = %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if !cfg.BrowserHeadless {
		t.Error("BrowserHeadless should default to true")
	}
	if cfg.CacheDir == "" {
		t.Error("CacheDir must have a default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JOBSCRAPE_USER_AGENT", "Custom/1.0")
	t.Setenv("JOBSCRAPE_CACHE_DIR", "/tmp/jobscrape-test")
	t.Setenv("JOBSCRAPE_HEADLESS", "false")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.UserAgent != "Custom/1.0" {
		t.Errorf("UserAgent = %q", cfg.UserAgent)
	}
	if cfg.CacheDir != "/tmp/jobscrape-test" {
		t.Errorf("CacheDir = %q", cfg.CacheDir)
	}
	if cfg.BrowserHeadless {
		t.Error("JOBSCRAPE_HEADLESS=false not applied")
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatal(err)
	}

	cfg.HTTPTimeout = 0
	if err := validate(cfg); err == nil {
		t.Error("zero http timeout accepted")
	}

	cfg, _ = Load(nil)
	cfg.SettleBudget = cfg.BrowserTimeout + time.Second
	if err := validate(cfg); err == nil {
		t.Error("settle budget above browser timeout accepted")
	}
}
