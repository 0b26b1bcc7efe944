package httputil

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/abhisheknirogi/Pharmacy-ai/pkg/errors"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/logger"
)

// RateLimiter enforces a fixed-window request limit per client IP.
// It owns one background goroutine that prunes expired windows; Stop
// must be called on shutdown.
type RateLimiter struct {
	limit  int
	window time.Duration
	logger *logger.Logger

	mu      sync.Mutex
	clients map[string]*clientWindow

	stop     chan struct{}
	stopOnce sync.Once
}

type clientWindow struct {
	start time.Time
	count int
}

// NewRateLimiter creates a rate limiter allowing limit requests per window
// for each client IP and starts its pruning loop.
func NewRateLimiter(limit int, window time.Duration, log *logger.Logger) *RateLimiter {
	rl := &RateLimiter{
		limit:   limit,
		window:  window,
		logger:  log,
		clients: make(map[string]*clientWindow),
		stop:    make(chan struct{}),
	}

	go rl.pruneLoop()

	return rl
}

// Stop terminates the pruning loop. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stop)
	})
}

// Middleware rejects requests over the limit with 429 and a Retry-After header.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		allowed, retryAfter := rl.allow(ip, time.Now())
		if !allowed {
			rl.logger.Warn().
				Str("client_ip", ip).
				Str("path", r.URL.Path).
				Msg("rate limit exceeded")

			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			Error(w, errors.RateLimited())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allow counts a request for the given client and reports whether it is
// within the limit, along with the time remaining in the current window.
func (rl *RateLimiter) allow(ip string, now time.Time) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cw, ok := rl.clients[ip]
	if !ok || now.Sub(cw.start) >= rl.window {
		rl.clients[ip] = &clientWindow{start: now, count: 1}
		return true, 0
	}

	cw.count++
	if cw.count > rl.limit {
		return false, rl.window - now.Sub(cw.start)
	}
	return true, 0
}

func (rl *RateLimiter) pruneLoop() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.prune(time.Now())
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) prune(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, cw := range rl.clients {
		if now.Sub(cw.start) >= rl.window {
			delete(rl.clients, ip)
		}
	}
}

// clientIP extracts the originating client address, preferring the first
// X-Forwarded-For entry when the request came through a proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
