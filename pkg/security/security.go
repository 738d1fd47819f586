package security

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

var (
	corsHeaders = strings.Join([]string{
		"Authorization", "Content-Type", "Content-Length", "Accept", "Accept-Encoding",
		"Origin", "Cache-Control", "X-Requested-With",
	}, ", ")
	corsMethods = strings.Join([]string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
	}, ", ")
)

// CORS reflects the request origin only when it is whitelisted. Preflight
// requests are answered without reaching the handlers.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		if origin := c.GetHeader("Origin"); origin != "" {
			if _, ok := allowed[origin]; ok {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Add("Vary", "Origin")
			}
		}
		h.Set("Access-Control-Allow-Headers", corsHeaders)
		h.Set("Access-Control-Allow-Methods", corsMethods)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Secure sets the response headers every API reply carries.
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		if c.Request.TLS != nil {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}

type bucket struct {
	limiter *rate.Limiter
	touched time.Time
}

// limiterSet keeps one token bucket per client key.
type limiterSet struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	every   rate.Limit
	burst   int
	idle    time.Duration
	now     func() time.Time
}

func newLimiterSet(maxRequests int, window time.Duration) *limiterSet {
	if maxRequests < 1 {
		maxRequests = 1
	}
	idle := 3 * window
	if idle < time.Minute {
		idle = time.Minute
	}
	return &limiterSet{
		buckets: make(map[string]*bucket),
		every:   rate.Every(window / time.Duration(maxRequests)),
		burst:   maxRequests,
		idle:    idle,
		now:     time.Now,
	}
}

func (s *limiterSet) allow(key string) bool {
	s.mu.Lock()
	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(s.every, s.burst)}
		s.buckets[key] = b
	}
	b.touched = s.now()
	s.mu.Unlock()
	return b.limiter.Allow()
}

func (s *limiterSet) evictIdle() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.idle)
	n := 0
	for key, b := range s.buckets {
		if b.touched.Before(cutoff) {
			delete(s.buckets, key)
			n++
		}
	}
	return n
}

func (s *limiterSet) sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evictIdle()
		}
	}
}

// RateLimiter allows maxRequests per window for each client IP. Idle buckets
// are dropped by a sweeper that stops with ctx.
func RateLimiter(ctx context.Context, maxRequests int, window time.Duration) gin.HandlerFunc {
	set := newLimiterSet(maxRequests, window)
	go set.sweep(ctx, time.Minute)

	return func(c *gin.Context) {
		if !set.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "too many requests",
			})
			return
		}
		c.Next()
	}
}
