package redisserver

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/respd-go/pkg/cmap"
)

// limiterIdleTTL is how long an unused per-IP limiter is kept.
const limiterIdleTTL = 10 * time.Minute

type ipLimiter struct {
	lim      *rate.Limiter
	lastSeen atomic.Int64 // unix nanoseconds
}

// ipLimiters holds one token bucket per client IP. The burst equals the
// per-second rate.
type ipLimiters struct {
	perSecond int
	buckets   *cmap.Map[string, *ipLimiter]
	now       func() time.Time
}

func newIPLimiters(perSecond int) *ipLimiters {
	return &ipLimiters{
		perSecond: perSecond,
		buckets:   cmap.New[string, *ipLimiter](),
		now:       time.Now,
	}
}

func (l *ipLimiters) get(ip string) *ipLimiter {
	b, _ := l.buckets.GetOrCreate(ip, func() *ipLimiter {
		return &ipLimiter{lim: rate.NewLimiter(rate.Limit(l.perSecond), l.perSecond)}
	})
	b.lastSeen.Store(l.now().UnixNano())
	return b
}

// wait blocks until a token for ip is available. It returns false when the
// token would not arrive within maxWait or ctx ends first.
func (l *ipLimiters) wait(ctx context.Context, ip string, maxWait time.Duration) bool {
	b := l.get(ip)
	if b.lim.Allow() {
		return true
	}
	ctx, cancel := context.WithTimeout(ctx, maxWait)
	defer cancel()
	return b.lim.Wait(ctx) == nil
}

// evictIdle drops limiters not used since before cutoff.
func (l *ipLimiters) evictIdle(cutoff time.Time) int {
	c := cutoff.UnixNano()
	return l.buckets.DeleteFunc(func(_ string, b *ipLimiter) bool {
		return b.lastSeen.Load() < c
	})
}

func (s *Server) sweepLimiters(stop <-chan struct{}) {
	ticker := time.NewTicker(limiterIdleTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.limiter.evictIdle(time.Now().Add(-limiterIdleTTL)); n > 0 {
				s.logger.Debug("evicted idle rate limiters", "count", n)
			}
		case <-stop:
			return
		}
	}
}
