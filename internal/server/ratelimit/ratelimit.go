// Package ratelimit provides per-client token bucket rate limiting for the HTTP API.
package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	capacity float64
	rate     float64 // tokens per second
	tokens   float64
	last     time.Time
}

func newBucket(capacity int, rate float64, now time.Time) *bucket {
	return &bucket{capacity: float64(capacity), rate: rate, tokens: float64(capacity), last: now}
}

// take refills the bucket up to now and consumes one token if available.
func (b *bucket) take(now time.Time) (ok bool, remaining int, full time.Time) {
	b.tokens = min(b.capacity, b.tokens+now.Sub(b.last).Seconds()*b.rate)
	b.last = now

	if b.tokens >= 1 {
		b.tokens--
		ok = true
	}

	full = now
	if b.tokens < b.capacity {
		full = now.Add(time.Duration((b.capacity - b.tokens) / b.rate * float64(time.Second)))
	}
	return ok, int(b.tokens), full
}

// retryAfter is the wait until one token is available.
func (b *bucket) retryAfter() time.Duration {
	if b.tokens >= 1 {
		return 0
	}
	return time.Duration((1 - b.tokens) / b.rate * float64(time.Second))
}

// Info describes the limit applied to a request.
type Info struct {
	Allowed    bool
	Limit      int // 0 when the request was not limited
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

type entry struct {
	bucket   *bucket
	lastSeen time.Time
}

// Limiter tracks one token bucket per client and endpoint.
type Limiter struct {
	cfg *Config
	now func() time.Time

	mu      sync.Mutex
	entries map[string]*entry

	stopOnce sync.Once
	stop     chan struct{}
}

// NewLimiter creates a Limiter. A nil cfg selects DefaultConfig. A background
// goroutine evicts idle buckets until Stop is called.
func NewLimiter(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	l := &Limiter{
		cfg:     cfg,
		now:     time.Now,
		entries: make(map[string]*entry),
		stop:    make(chan struct{}),
	}
	if cfg.Enabled && cfg.CleanupInterval > 0 {
		go l.cleanupLoop(cfg.CleanupInterval)
	}
	return l
}

// Allow reports whether client may call method path now.
func (l *Limiter) Allow(client, path, method string) (bool, Info) {
	if !l.cfg.Enabled || l.cfg.Allow[client] {
		return true, Info{Allowed: true}
	}
	if l.cfg.Deny[client] {
		return false, Info{}
	}

	rule, ok := l.cfg.match(method, path)
	if !ok {
		rule = Rule{Limit: l.cfg.DefaultLimit, Window: l.cfg.DefaultWindow}
	}
	if rule.Limit <= 0 {
		return true, Info{Allowed: true}
	}
	if rule.Window <= 0 {
		rule.Window = l.cfg.DefaultWindow
	}
	burst := rule.Burst
	if burst <= 0 {
		burst = rule.Limit
	}

	key := client + " " + method + " " + path
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{bucket: newBucket(burst, float64(rule.Limit)/rule.Window.Seconds(), now)}
		l.entries[key] = e
	}
	e.lastSeen = now

	allowed, remaining, reset := e.bucket.take(now)
	info := Info{Allowed: allowed, Limit: rule.Limit, Remaining: remaining, ResetTime: reset}
	if !allowed {
		info.RetryAfter = e.bucket.retryAfter()
	}
	return allowed, info
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.evictIdle()
		case <-l.stop:
			return
		}
	}
}

// evictIdle drops buckets unused for longer than the idle timeout.
func (l *Limiter) evictIdle() int {
	idle := l.cfg.IdleTimeout
	if idle <= 0 {
		idle = time.Hour
	}
	cutoff := l.now().Add(-idle)

	l.mu.Lock()
	defer l.mu.Unlock()
	evicted := 0
	for key, e := range l.entries {
		if e.lastSeen.Before(cutoff) {
			delete(l.entries, key)
			evicted++
		}
	}
	return evicted
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
