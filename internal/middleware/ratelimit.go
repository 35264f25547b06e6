package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/provisionexpertax/taxportal/internal/config"
)

const maxTrackedClients = 10000

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// SubmissionRateLimiter applies a token bucket per client IP to public form
// submissions.
func SubmissionRateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return next(c)
			}
		}
	}

	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}

	visitors := newVisitorTable(rate.Every(perRequest), cfg.Requests, cfg.Interval, maxTrackedClients)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !visitors.allow(c.RealIP(), time.Now()) {
				return reject(c, http.StatusTooManyRequests, "too many submissions, please try again later")
			}
			return next(c)
		}
	}
}

// visitorTable holds one limiter per client, never more than capacity of them.
type visitorTable struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idle     time.Duration
	capacity int
}

func newVisitorTable(limit rate.Limit, burst int, idle time.Duration, capacity int) *visitorTable {
	if capacity <= 0 {
		capacity = 1
	}
	return &visitorTable{
		visitors: make(map[string]*visitor),
		limit:    limit,
		burst:    burst,
		idle:     idle,
		capacity: capacity,
	}
}

func (t *visitorTable) allow(ip string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	v, ok := t.visitors[ip]
	if !ok {
		if len(t.visitors) >= t.capacity {
			t.evict(now)
		}
		v = &visitor{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// evict drops idle visitors; when none are idle the least recently seen
// one makes room.
func (t *visitorTable) evict(now time.Time) {
	var oldestKey string
	var oldest time.Time
	found := false
	for key, v := range t.visitors {
		if now.Sub(v.lastSeen) > t.idle {
			delete(t.visitors, key)
			continue
		}
		if !found || v.lastSeen.Before(oldest) {
			oldestKey, oldest, found = key, v.lastSeen, true
		}
	}
	if found && len(t.visitors) >= t.capacity {
		delete(t.visitors, oldestKey)
	}
}

func (t *visitorTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.visitors)
}
