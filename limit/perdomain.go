package limit

import (
	"context"
	"sync"
	"time"

	"github.com/skitterio/skitter"
)

var _ skitter.RateLimiter = (*PerDomain)(nil)

// Factory creates the limiter used for a domain seen for the first time.
type Factory func() skitter.RateLimiter

// PerDomain dispatches to a per-domain limiter instance, created lazily on
// first use. Requests to different domains never throttle each other; within
// a domain the delegated strategy applies. Safe for concurrent use.
type PerDomain struct {
	mu       sync.Mutex
	factory  Factory
	limiters map[string]skitter.RateLimiter
}

// NewPerDomain creates a PerDomain limiter. A nil factory defaults to a
// one-second Static limiter per domain.
func NewPerDomain(factory Factory) *PerDomain {
	if factory == nil {
		factory = func() skitter.RateLimiter {
			s, _ := NewStatic(time.Second)
			return s
		}
	}
	return &PerDomain{
		factory:  factory,
		limiters: make(map[string]skitter.RateLimiter),
	}
}

// Limit delegates to the limiter of the URL's domain. A URL without a
// usable domain is EINVALID.
func (p *PerDomain) Limit(ctx context.Context, rawURL string) error {
	domain := skitter.ParseURL(rawURL).Domain
	if domain == "" {
		return skitter.Errorf(skitter.EINVALID, "the URL %q has no usable domain", rawURL)
	}
	return p.limiterFor(domain).Limit(ctx, rawURL)
}

// Configure creates the domain's limiter if absent, then forwards the
// configuration to it.
func (p *PerDomain) Configure(cfg skitter.LimiterConfig) error {
	if cfg.Domain == "" {
		return skitter.Errorf(skitter.EINVALID, "limiter config has no domain")
	}
	return p.limiterFor(cfg.Domain).Configure(cfg)
}

func (p *PerDomain) limiterFor(domain string) skitter.RateLimiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	lim, ok := p.limiters[domain]
	if !ok {
		lim = p.factory()
		p.limiters[domain] = lim
	}
	return lim
}
