package config

import "fmt"

func validate(c *Config) error {
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be > 0")
	}
	if c.BrowserTimeout <= 0 {
		return fmt.Errorf("browser timeout must be > 0")
	}
	if c.SettleBudget <= 0 || c.SettleBudget > c.BrowserTimeout {
		return fmt.Errorf("settle budget must be > 0 and within the browser timeout")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit rps and burst must be > 0")
	}
	if c.CacheDir == "" {
		return fmt.Errorf("cache dir must not be empty")
	}
	return nil
}
