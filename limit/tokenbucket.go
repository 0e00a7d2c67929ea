package limit

import (
	"context"
	"sync"

	"github.com/skitterio/skitter"
	"golang.org/x/time/rate"
)

var _ skitter.RateLimiter = (*TokenBucket)(nil)

// TokenBucket throttles with a classic token bucket: tokens refill at a
// fixed rate up to capacity and each permitted request consumes one.
type TokenBucket struct {
	mu  sync.Mutex
	rps float64
	lim *rate.Limiter
}

// NewTokenBucket creates a TokenBucket refilling at tokensPerSecond, with
// capacity proportional to the rate. A non-positive rate is ECONFIG.
func NewTokenBucket(tokensPerSecond float64) (*TokenBucket, error) {
	if tokensPerSecond <= 0 {
		return nil, skitter.Errorf(skitter.ECONFIG, "token rate must be positive (got %g)", tokensPerSecond)
	}
	return &TokenBucket{
		rps: tokensPerSecond,
		lim: rate.NewLimiter(rate.Limit(tokensPerSecond), burst(tokensPerSecond)),
	}, nil
}

// Limit blocks until a token is available and consumes it, or returns the
// context's error if it is canceled first.
func (t *TokenBucket) Limit(ctx context.Context, rawURL string) error {
	t.mu.Lock()
	lim := t.lim
	t.mu.Unlock()
	return lim.Wait(ctx)
}

// Configure lowers the token rate to the bound derived from the config. It
// never raises it: the slower of the two candidate rates wins.
func (t *TokenBucket) Configure(cfg skitter.LimiterConfig) error {
	rps, ok, err := rateFrom(cfg)
	if err != nil || !ok {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if rps < t.rps {
		t.rps = rps
		t.lim.SetLimit(rate.Limit(rps))
		t.lim.SetBurst(burst(rps))
	}
	return nil
}

// Rate returns the current effective rate in tokens per second.
func (t *TokenBucket) Rate() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rps
}

// burst converts a fractional rate to a whole-token capacity, keeping
// sub-1 rps buckets workable with a single token.
func burst(rps float64) int {
	b := int(rps)
	if b < 1 {
		b = 1
	}
	return b
}
