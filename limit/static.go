package limit

import (
	"context"
	"sync"
	"time"

	"github.com/skitterio/skitter"
)

var _ skitter.RateLimiter = (*Static)(nil)

// Static suspends for a fixed delay before every permitted request.
type Static struct {
	mu    sync.Mutex
	delay time.Duration
}

// NewStatic creates a Static limiter. A non-positive delay is ECONFIG.
func NewStatic(delay time.Duration) (*Static, error) {
	if delay <= 0 {
		return nil, skitter.Errorf(skitter.ECONFIG, "static delay must be positive (got %s)", delay)
	}
	return &Static{delay: delay}, nil
}

// Limit waits for the configured delay, or returns early with the context's
// error if it is canceled first.
func (s *Static) Limit(ctx context.Context, rawURL string) error {
	s.mu.Lock()
	delay := s.delay
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// Configure raises the delay to the bound derived from the config. It never
// lowers it: the tightest constraint seen so far keeps winning.
func (s *Static) Configure(cfg skitter.LimiterConfig) error {
	delay, ok, err := delayFrom(cfg)
	if err != nil || !ok {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if delay > s.delay {
		s.delay = delay
	}
	return nil
}

// Delay returns the current effective delay.
func (s *Static) Delay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delay
}
