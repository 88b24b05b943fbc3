package middleware

import (
	"sync"
	"time"

	"github.com/akolanti/ContentAPI/internal/config"
	"golang.org/x/time/rate"
)

var limiterInstance = NewIPRateLimiter(rate.Limit(config.RATE_LIMIT_PER_SECOND), config.BURST_RATE_LIMIT_PER_SECOND)

// entries idle this long are dropped on the next sweep
const limiterIdleTTL = 10 * time.Minute
const limiterSweepSize = 1024

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type IPRateLimiter struct {
	ips       map[string]*visitor
	mu        sync.Mutex
	rateLimit rate.Limit
	burstRate int
	now       func() time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{ips: make(map[string]*visitor), rateLimit: r, burstRate: b, now: time.Now}
}

func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()
	now := i.now()
	if len(i.ips) >= limiterSweepSize {
		i.sweep(now)
	}
	v, exists := i.ips[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(i.rateLimit, i.burstRate)}
		i.ips[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (i *IPRateLimiter) sweep(now time.Time) {
	for ip, v := range i.ips {
		if now.Sub(v.lastSeen) > limiterIdleTTL {
			delete(i.ips, ip)
		}
	}
}

func (i *IPRateLimiter) size() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.ips)
}
