package poll

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig() Config {
	return Config{
		Interval:    time.Millisecond,
		MaxInterval: 5 * time.Millisecond,
		Budget:      200 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestUntil_SucceedsAfterRetries(t *testing.T) {
	calls := 0
	err := Until(context.Background(), fastConfig(), func(context.Context) (bool, error) {
		calls++
		return calls >= 3, nil
	})
	if err != nil {
		t.Fatalf("Until failed: %v", err)
	}
	if calls != 3 {
		t.Errorf("condition checked %d times, want 3", calls)
	}
}

func TestUntil_BudgetExceeded(t *testing.T) {
	err := Until(context.Background(), fastConfig(), func(context.Context) (bool, error) {
		return false, nil
	})
	if !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("err = %v, want ErrBudgetExceeded", err)
	}
}

func TestUntil_CheckErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := Until(context.Background(), fastConfig(), func(context.Context) (bool, error) {
		calls++
		return false, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the check error", err)
	}
	if calls != 1 {
		t.Errorf("check ran %d times after a hard error, want 1", calls)
	}
}

func TestUntil_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Until(ctx, fastConfig(), func(context.Context) (bool, error) {
		return false, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
