package cache

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateResult décrit l'état du quota après une requête.
type RateResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string) (RateResult, error)
}

type windowCounter interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RedisLimiter : fenêtre fixe partagée entre instances.
type RedisLimiter struct {
	counter windowCounter
	limit   int
	window  time.Duration
	prefix  string
}

func NewRedisLimiter(counter windowCounter, perMinute int) *RedisLimiter {
	return &RedisLimiter{counter: counter, limit: perMinute, window: time.Minute, prefix: "api_requests:"}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (RateResult, error) {
	count, ttl, err := l.counter.IncrementWindow(ctx, l.prefix+key, l.window)
	if err != nil {
		return RateResult{}, err
	}
	res := RateResult{
		Allowed:   count <= int64(l.limit),
		Limit:     l.limit,
		Remaining: max(l.limit-int(count), 0),
	}
	if !res.Allowed {
		res.RetryAfter = ttl
		if res.RetryAfter <= 0 {
			res.RetryAfter = l.window
		}
	}
	return res, nil
}

// MemoryLimiter : token bucket par clé, utilisé sans Redis (une seule instance).
type MemoryLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    int
	interval time.Duration
	ttl      time.Duration
	stop     chan struct{}
	once     sync.Once
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewMemoryLimiter(perMinute int) *MemoryLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	l := &MemoryLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    perMinute,
		interval: time.Minute / time.Duration(perMinute),
		ttl:      15 * time.Minute,
		stop:     make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (RateResult, error) {
	l.mu.Lock()
	entry, ok := l.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Every(l.interval), l.limit)}
		l.limiters[key] = entry
	}
	entry.lastSeen = time.Now()
	l.mu.Unlock()

	now := time.Now()
	res := RateResult{Limit: l.limit}
	reservation := entry.limiter.ReserveN(now, 1)
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		res.RetryAfter = delay
	} else {
		res.Allowed = true
	}
	res.Remaining = max(int(math.Floor(entry.limiter.TokensAt(now))), 0)
	return res, nil
}

func (l *MemoryLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanup(time.Now())
		case <-l.stop:
			return
		}
	}
}

func (l *MemoryLimiter) cleanup(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > l.ttl {
			delete(l.limiters, key)
		}
	}
}

func (l *MemoryLimiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}
