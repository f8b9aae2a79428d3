// Package poll implements bounded condition polling with exponential
// backoff. It replaces flat "sleep N seconds" settle waits: the condition is
// checked on a growing interval until it holds, the check fails hard, or the
// total budget is spent.
package poll

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrBudgetExceeded is returned when the condition never held within the
// configured total wait.
var ErrBudgetExceeded = errors.New("poll: wait budget exceeded")

// Config defines polling behavior.
type Config struct {
	Interval    time.Duration // initial delay between checks
	MaxInterval time.Duration // cap on the per-check delay
	Budget      time.Duration // cap on the total wait
	Multiplier  float64       // backoff multiplier
}

// DefaultConfig returns the polling parameters used for page readiness.
func DefaultConfig() Config {
	return Config{
		Interval:    250 * time.Millisecond,
		MaxInterval: 2 * time.Second,
		Budget:      15 * time.Second,
		Multiplier:  2.0,
	}
}

// Until calls fn until it reports done, returns an error, the context is
// cancelled, or the budget runs out. fn returning (false, nil) means "not
// yet"; any error from fn aborts the wait immediately.
func Until(ctx context.Context, cfg Config, fn func(context.Context) (bool, error)) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Interval <= 0 {
		cfg = DefaultConfig()
	}

	deadline := time.Now().Add(cfg.Budget)

	for attempt := 0; ; attempt++ {
		done, err := fn(ctx)
		if err != nil {
			return err
		}
		if done {
			if attempt > 0 {
				log.Debug().Int("checks", attempt+1).Msg("Condition became true")
			}
			return nil
		}

		delay := backoff(attempt, cfg)
		if remaining := time.Until(deadline); remaining <= 0 {
			return ErrBudgetExceeded
		} else if delay > remaining {
			delay = remaining
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func backoff(attempt int, cfg Config) time.Duration {
	d := float64(cfg.Interval) * math.Pow(cfg.Multiplier, float64(attempt))
	if d > float64(cfg.MaxInterval) {
		d = float64(cfg.MaxInterval)
	}
	return time.Duration(d)
}
