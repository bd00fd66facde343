package feed

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HostPacer spaces requests per feed host so refresh cycles stay polite to
// publishers that serve several of the configured feeds. Hosts are keyed
// case-insensitively and get their limiter lazily on first use.
type HostPacer struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	interval time.Duration
}

// NewHostPacer creates a pacer allowing one request per host per interval.
func NewHostPacer(interval time.Duration) *HostPacer {
	return &HostPacer{
		limiters: make(map[string]*rate.Limiter),
		interval: interval,
	}
}

// Wait blocks until the host's next permitted slot, or until ctx is done.
// A nil pacer or empty host waits for nothing, so callers need no guard for
// feeds whose URL did not parse.
func (p *HostPacer) Wait(ctx context.Context, host string) error {
	if p == nil || host == "" {
		return nil
	}

	key := strings.ToLower(host)
	p.mu.Lock()
	limiter, ok := p.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(p.interval), 1)
		p.limiters[key] = limiter
	}
	p.mu.Unlock()

	return limiter.Wait(ctx)
}
